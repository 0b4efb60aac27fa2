// Package render materializes a reassembled archive's page array into the bytes of a recovered ZIP file.
package render

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zipcarve/zipcarve/image"
	"github.com/zipcarve/zipcarve/reassemble"
	"github.com/zipcarve/zipcarve/util"
)

// Result describes one rendered archive: the path it was written to and a handful of figures worth reporting.
type Result struct {
	Path             string
	Fingerprint      string
	Size             int64
	PageCount        int64
	RecoveredPages   int64
	RecoveredPercent float64
	MemberCount      int
}

// StreamRenderer concatenates a reassembled archive's page array into bytes and writes the result to disk under a
// fingerprint-derived name.
type StreamRenderer struct {
	im        *image.Image
	outputDir string
}

// New creates a StreamRenderer that reads source pages from im and writes recovered archives under outputDir.
func New(im *image.Image, outputDir string) *StreamRenderer {
	return &StreamRenderer{im: im, outputDir: outputDir}
}

// Render concatenates a's page array (absent slots become P zero bytes), trims the leading startOffset bytes, and
// writes the resulting stream to a file named recovered_<md5-hex>.zip under the renderer's output directory.
func (s *StreamRenderer) Render(a *reassemble.Archive) (*Result, error) {
	stream, err := s.build(a)
	if err != nil {
		return nil, fmt.Errorf("render: build stream: %w", err)
	}

	sum := md5.Sum(stream)
	fingerprint := hex.EncodeToString(sum[:])

	f, err := util.OpenExclFile(s.outputDir, "recovered_"+fingerprint, ".zip", 0o644)
	if err != nil {
		return nil, fmt.Errorf("render: open output file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(stream); err != nil {
		return nil, fmt.Errorf("render: write output file: %w", err)
	}
	a.State = reassemble.StateRendered

	return &Result{
		Path:             f.Name(),
		Fingerprint:      fingerprint,
		Size:             int64(len(stream)),
		PageCount:        a.Pages.Len(),
		RecoveredPages:   a.Pages.PresentCount(),
		RecoveredPercent: a.RecoveredFraction() * 100,
		MemberCount:      len(a.CDHRecords),
	}, nil
}

// build concatenates the page array, zero-filling absent slots, then trims the leading startOffset bytes so the
// stream begins at what was originally byte 0 of the archive.
func (s *StreamRenderer) build(a *reassemble.Archive) ([]byte, error) {
	pageSize := s.im.PageSize()
	pages := a.Pages

	out := make([]byte, pages.Len()*pageSize)
	for slot := int64(0); slot < pages.Len(); slot++ {
		dst := out[slot*pageSize : (slot+1)*pageSize]
		if !pages.Present(slot) {
			continue // left zero-filled
		}

		srcPage := pages.Get(slot)
		n, err := s.im.ReadAt(dst, srcPage*pageSize)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read source page %d for slot %d: %w", srcPage, slot, err)
		}
		for i := n; i < len(dst); i++ {
			dst[i] = 0
		}
	}

	start := a.Derived.StartOffset
	if start > int64(len(out)) {
		start = int64(len(out))
	}
	return out[start:], nil
}
