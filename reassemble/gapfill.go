package reassemble

import (
	"hash/crc32"

	"github.com/zipcarve/zipcarve/entropy"
	"github.com/zipcarve/zipcarve/header"
)

// FillGaps attempts, for each single-page gap in a's page array, to validate a pooled candidate page as the
// continuation of the preceding member's compressed stream, per §4.7. Multi-page gaps are left unfilled; a gap
// with no uniquely-validating candidate is left unfilled too. Neither outcome is an error.
func (r *Reassembler) FillGaps(a *Archive) {
	filledAny := false

	for _, gap := range a.Gaps {
		if gap.Length != 1 {
			continue
		}

		c := r.memberCoveringSlot(a, a.CDHRecords, gap.StartIndex)
		if c == nil {
			continue
		}

		if r.tryFillGap(a, c, gap.StartIndex) {
			filledAny = true
		}
	}

	if filledAny {
		a.Gaps = FindGaps(a.Pages)
	}
}

// memberCoveringSlot returns the CDH whose member's compressed data spans the given F' slot, or nil if none does.
func (r *Reassembler) memberCoveringSlot(a *Archive, cdhs []*header.CDHRecord, slot int64) *header.CDHRecord {
	for _, c := range cdhs {
		lfhLen := int64(30 + len(c.FileName) + len(c.Comment))
		dataStart := a.Derived.StartOffset + int64(c.LFHOffset) + lfhLen
		dataEnd := dataStart + int64(c.CompressedSize)
		if dataEnd <= dataStart {
			continue
		}

		startSlot := dataStart / r.pageSize
		endSlot := (dataEnd - 1) / r.pageSize
		if slot >= startSlot && slot <= endSlot {
			return c
		}
	}
	return nil
}

// tryFillGap evaluates every still-pooled page as a hypothetical fill for slot, accepting it only if it is the
// unique candidate whose substitution makes the member's compressed stream checksum to c.CRC32.
func (r *Reassembler) tryFillGap(a *Archive, c *header.CDHRecord, slot int64) bool {
	lfhLen := int64(30 + len(c.FileName) + len(c.Comment))
	dataStart := a.Derived.StartOffset + int64(c.LFHOffset) + lfhLen
	dataEnd := dataStart + int64(c.CompressedSize)

	var winner int64 = -1
	matches := 0

	for _, candidate := range r.pool.AvailablePages() {
		page, err := r.im.Page(candidate)
		if err != nil {
			continue
		}
		if entropy.Shannon(page) < entropy.WeakDataThreshold {
			continue
		}

		reader := newPageArrayReaderWithOverride(r.im, a.Pages, r.pageSize, slot, page)
		buf := make([]byte, dataEnd-dataStart)
		if _, err := reader.ReadAt(buf, dataStart); err != nil {
			continue
		}

		if crc32.ChecksumIEEE(buf) == c.CRC32 {
			matches++
			winner = candidate
		}
	}

	if matches != 1 {
		return false
	}

	if err := r.pool.Take(winner); err != nil {
		return false
	}
	return a.Pages.Set(slot, winner) == nil
}
