// Package pipeline sequences the full recovery run over one image: scan for structural magics, cluster central
// directory records into per-archive silos, reassemble each archive's page array, and render the recovered
// bytes to disk.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/zipcarve/zipcarve/cluster"
	"github.com/zipcarve/zipcarve/diagnostic"
	"github.com/zipcarve/zipcarve/header"
	"github.com/zipcarve/zipcarve/image"
	"github.com/zipcarve/zipcarve/internal/report"
	"github.com/zipcarve/zipcarve/reassemble"
	"github.com/zipcarve/zipcarve/render"
	"github.com/zipcarve/zipcarve/scan"
)

// Options configures a Driver run.
type Options struct {
	// PageSize is the fixed page size P this image is divided into. Required, must be positive.
	PageSize int64

	// OutputDir is the directory recovered archives are written under. Required.
	OutputDir string

	// Verbose enables per-archive diagnostic logging in addition to the one-line summaries.
	Verbose bool

	// NoGapFill disables the §4.7 best-effort single-page gap-filling pass.
	NoGapFill bool

	// MaxIterations caps the k-means assigner's Lloyd iterations. 0 selects cluster.DefaultMaxIterations.
	MaxIterations int

	// ScanChunkSize controls the ByteScanner's read granularity. 0 selects the scanner's own default.
	ScanChunkSize int64
}

// Driver runs the full scan -> cluster -> reassemble -> render pipeline over a single image.
type Driver struct {
	opts Options
}

// New creates a Driver with the given options.
func New(opts Options) *Driver {
	return &Driver{opts: opts}
}

// ArchiveOutcome reports what happened to one discovered archive.
type ArchiveOutcome struct {
	Index     int
	Result    *render.Result
	Findings  []diagnostic.Finding
	RenderErr error
}

// Run opens the image at path and drives the full pipeline, returning one ArchiveOutcome per accepted EOCD.
//
// Zero accepted EOCDs returns a nil, nil result: no archives are invented from CDH or LFH evidence alone, matching
// the empty-image end-to-end scenario. ctx is checked between archives so a cancellation (Ctrl-C, signal) stops
// the run without losing archives already rendered.
func (d *Driver) Run(ctx context.Context, path string) ([]ArchiveOutcome, error) {
	im, err := image.Open(path, d.opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("pipeline: open image: %w", err)
	}
	defer im.Close()

	scanner := scan.New(d.opts.ScanChunkSize)

	eocds, err := d.findEOCDs(im, scanner)
	if err != nil {
		return nil, fmt.Errorf("pipeline: scan for EOCD: %w", err)
	}
	k := len(eocds)
	if k == 0 {
		log.Print(report.RunSummary(0, 0))
		return nil, nil
	}

	cdhs, err := d.findCDHs(im, scanner)
	if err != nil {
		return nil, fmt.Errorf("pipeline: scan for CDH: %w", err)
	}

	silos, err := d.clusterCDHs(cdhs, k)
	if err != nil {
		return nil, fmt.Errorf("pipeline: cluster CDH records: %w", err)
	}

	archives := make([]*reassemble.Archive, k)
	for i, eocd := range eocds {
		archives[i] = reassemble.NewArchive(i, eocd, d.opts.PageSize)
	}

	pool := image.NewPool(im.PageCount())
	var collector diagnostic.Collector
	r := reassemble.New(im, pool, scanner, collector.Sink())

	reassemble.Reconstruct(r, archives, silos, !d.opts.NoGapFill)

	renderer := render.New(im, d.opts.OutputDir)
	outcomes := make([]ArchiveOutcome, 0, k)
	rendered := 0

	bar := report.CountBar(k, fmt.Sprintf("rendering %d archive(s)", k))

	for i, a := range archives {
		if err := ctx.Err(); err != nil {
			break
		}

		prefix := report.Prefix(i+1, k, fmt.Sprintf("archive %d", a.Index))
		itemCtx := report.WithLogger(ctx, prefix)
		logger := report.LoggerFrom(itemCtx)
		_ = bar.Add(1)

		findings := findingsFor(collector.Findings, a.Index)
		if d.opts.Verbose {
			for _, f := range findings {
				logger.Print(f.String())
			}
		}

		res, err := renderer.Render(a)
		outcome := ArchiveOutcome{Index: a.Index, Result: res, Findings: findings, RenderErr: err}
		outcomes = append(outcomes, outcome)

		if err != nil {
			logger.Printf("render error: %v", err)
			continue
		}

		rendered++
		logger.Print(report.ArchiveLine(res.Fingerprint, res.MemberCount, res.Size, res.RecoveredPercent))
	}

	_ = bar.Close()
	log.Print(report.RunSummary(k, rendered))
	return outcomes, nil
}

func findingsFor(all []diagnostic.Finding, archiveIndex int) []diagnostic.Finding {
	var out []diagnostic.Finding
	for _, f := range all {
		if f.Archive == archiveIndex {
			out = append(out, f)
		}
	}
	return out
}

func (d *Driver) findEOCDs(im *image.Image, scanner *scan.ByteScanner) ([]*header.EOCDRecord, error) {
	offsets, err := scanner.Find(im, im.Len(), header.SigEOCD)
	if err != nil {
		return nil, err
	}

	eocds := make([]*header.EOCDRecord, 0, len(offsets))
	for _, off := range offsets {
		e, err := header.ParseEOCD(im, off, im.Len(), d.opts.PageSize)
		if err != nil {
			// signature mismatches, truncated tails, and disk-entry-count mismatches are all simply rejected
			// candidates, not scan failures.
			continue
		}
		eocds = append(eocds, e)
	}
	return eocds, nil
}

func (d *Driver) findCDHs(im *image.Image, scanner *scan.ByteScanner) ([]*header.CDHRecord, error) {
	offsets, err := scanner.Find(im, im.Len(), header.SigCDH)
	if err != nil {
		return nil, err
	}

	cdhs := make([]*header.CDHRecord, 0, len(offsets))
	for _, off := range offsets {
		c, err := header.ParseCDH(im, off, im.Len(), d.opts.PageSize)
		if err != nil {
			continue
		}
		if !c.HasDateTime {
			// excluded from clustering per the feature vector's timestamp requirement; not a fatal rejection
			// of the record, just a record with nothing to cluster on.
			continue
		}
		cdhs = append(cdhs, c)
	}
	return cdhs, nil
}

// clusterCDHs groups cdhs into k silos using the ClusterAssigner over their feature vectors.
func (d *Driver) clusterCDHs(cdhs []*header.CDHRecord, k int) ([][]*header.CDHRecord, error) {
	silos := make([][]*header.CDHRecord, k)
	if len(cdhs) == 0 {
		return silos, nil
	}
	if len(cdhs) < k {
		// fewer CDH records than archives: every archive gets an empty silo rather than failing the whole run.
		return silos, nil
	}

	features := make([]cluster.FeatureVector, len(cdhs))
	for i, c := range cdhs {
		features[i] = cluster.CDHFeatures(c)
	}

	assigner := cluster.New(k, d.opts.MaxIterations)
	assignment, err := assigner.Assign(features)
	if err != nil {
		return nil, err
	}

	for i, clusterIdx := range assignment {
		silos[clusterIdx] = append(silos[clusterIdx], cdhs[i])
	}
	return silos, nil
}
