// Package reassemble implements the two-pass per-archive reconstruction engine: Pass 1 assembles an archive's
// central-directory page run from its clustered CDH silo, and Pass 2 re-parses those central directory entries to
// derive and place the archive's local file header pages.
package reassemble

import (
	"github.com/zipcarve/zipcarve/header"
	"github.com/zipcarve/zipcarve/image"
)

// Gap is a run of absent slots in an archive's reconstructed page array.
type Gap struct {
	StartIndex int64
	Length     int64
}

// Archive tracks one archive's reassembly progress from EOCD discovery through rendering.
type Archive struct {
	// Index identifies this archive among all archives discovered in the same image, for diagnostic messages.
	Index int

	EOCD    *header.EOCDRecord
	Derived header.Derived
	State   State

	// CDSilo is the set of CDH records this archive's clustering pass assigned to it. Pass 1 builds CDPages from it.
	CDSilo []*header.CDHRecord

	// CDPages is the ordered central-directory page run produced by Pass 1.
	CDPages []int64

	// CDHRecords is the authoritative member list Pass 2 re-parsed from F'.
	CDHRecords []*header.CDHRecord

	// Pages is the scratch page array F' that Pass 2 fills in and the StreamRenderer later concatenates.
	Pages *image.PageIndex

	// Gaps is the list of absent-slot runs found after Pass 2, sorted by ascending length.
	Gaps []Gap
}

// NewArchive creates an Archive in StateNew for the given EOCD and page size.
func NewArchive(index int, eocd *header.EOCDRecord, pageSize int64) *Archive {
	derived := eocd.Derive(pageSize)
	return &Archive{
		Index:   index,
		EOCD:    eocd,
		Derived: derived,
		State:   StateNew,
		Pages:   image.NewPageIndex(derived.PageCount),
	}
}

// RecoveredFraction returns the fraction of this archive's page array that is present, in [0, 1].
func (a *Archive) RecoveredFraction() float64 {
	if a.Pages.Len() == 0 {
		return 1
	}
	return float64(a.Pages.PresentCount()) / float64(a.Pages.Len())
}

// IsPartial reports whether at least one slot in the archive's page array is still absent.
func (a *Archive) IsPartial() bool {
	return a.Pages.PresentCount() < a.Pages.Len()
}
