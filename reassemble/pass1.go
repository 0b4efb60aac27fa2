package reassemble

import (
	"fmt"
	"sort"

	"github.com/zipcarve/zipcarve/diagnostic"
	"github.com/zipcarve/zipcarve/header"
	"github.com/zipcarve/zipcarve/image"
)

// AssembleCDRun performs Pass 1 for a single CDH silo: it repeatedly selects the CDH with the smallest lfOffset,
// takes its containing page from the pool, and appends that page to the run, until the silo is exhausted or the
// selected lfOffset exceeds every discovered archive's cdOffset.
//
// maxCDOffset is the largest cdOffset among all accepted EOCDs in this image — the stop threshold is computed
// against all archives, not just the one this silo is eventually bound to, since that binding is not known until
// the run is complete (see BindCDRun).
func (r *Reassembler) AssembleCDRun(silo []*header.CDHRecord, maxCDOffset int64, siloIndex int) []int64 {
	return assembleCDRun(r.pool, r.pageSize, r.sink, silo, maxCDOffset, siloIndex)
}

// assembleCDRun is AssembleCDRun's core logic, parameterized over the sink so Reconstruct can capture and relabel
// findings before they reach the caller's real sink (see run.go).
func assembleCDRun(pool *image.Pool, pageSize int64, sink diagnostic.Sink, silo []*header.CDHRecord, maxCDOffset int64, siloIndex int) []int64 {
	ordered := make([]*header.CDHRecord, len(silo))
	copy(ordered, silo)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].LFHOffset < ordered[j].LFHOffset })

	var run []int64
	inRun := make(map[int64]bool)

	for _, c := range ordered {
		if int64(c.LFHOffset) > maxCDOffset {
			break
		}

		page := c.Ptr / pageSize
		if err := pool.Take(page); err != nil {
			if inRun[page] {
				// Re-encounter: a second CDH on a page already claimed for this run. Expected and not an
				// error.
				continue
			}
			sink(lostPageFinding(siloIndex, page, c.Ptr))
			continue
		}

		run = append(run, page)
		inRun[page] = true
	}

	return run
}

func lostPageFinding(siloIndex int, page, ptr int64) diagnostic.Finding {
	return diagnostic.Finding{
		Kind:    diagnostic.KindLostPage,
		Archive: siloIndex,
		Message: fmt.Sprintf("page %d (for CDH at ptr %d) is neither pooled nor already claimed by this run", page, ptr),
	}
}

// BindCDRun associates an assembled CD page run with the archive whose EOCD.Ptr falls inside the run's final page,
// binding CDHs-by-clustering to EOCDs-by-content when the EOCD and the final CD entries share a page. It returns
// the index into archives of the bound archive, or -1 if no archive's EOCD shares that page.
func BindCDRun(run []int64, pageSize int64, archives []*Archive) int {
	if len(run) == 0 {
		return -1
	}
	lastPage := run[len(run)-1]

	for i, a := range archives {
		if a.EOCD.Ptr/pageSize == lastPage {
			return i
		}
	}
	return -1
}
