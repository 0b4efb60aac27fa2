package reassemble

import (
	"sort"

	"github.com/zipcarve/zipcarve/diagnostic"
	"github.com/zipcarve/zipcarve/header"
	"github.com/zipcarve/zipcarve/image"
)

// PlaceCDPages copies an assembled CD page run into an archive's scratch page array F', at the index the
// specification derives from the archive's startOffset and cdOffset.
func (r *Reassembler) PlaceCDPages(a *Archive) {
	if len(a.CDPages) == 0 {
		return
	}

	firstSlot := (a.Derived.StartOffset + int64(a.EOCD.CDOffset)) / r.pageSize
	for i, page := range a.CDPages {
		_ = a.Pages.Set(firstSlot+int64(i), page)
	}
	a.State = StateCDAssembled
}

// RunPass2 re-parses the archive's CDH records directly from F', then for each one synthesizes and searches for
// its expected LFH (and, if the data-descriptor flag is set, its expected Data Descriptor), placing the
// corresponding image page when the search yields exactly one match.
func (r *Reassembler) RunPass2(a *Archive) error {
	reader := newPageArrayReader(r.im, a.Pages, r.pageSize)

	cdhs, err := r.reparseCDHs(a, reader)
	if err != nil {
		return err
	}
	a.CDHRecords = cdhs

	for _, c := range cdhs {
		r.placeLFH(a, c)
		if c.Flags.HasDataDescriptor() {
			r.placeDataDescriptor(a, c)
		}
	}

	a.Gaps = FindGaps(a.Pages)
	a.State = StateLFHPlaced
	return nil
}

func (r *Reassembler) reparseCDHs(a *Archive, reader *pageArrayReader) ([]*header.CDHRecord, error) {
	var out []*header.CDHRecord
	ptr := a.Derived.StartOffset + int64(a.EOCD.CDOffset)
	srcLen := reader.Len()

	for i := 0; i < int(a.EOCD.TotalEntries); i++ {
		c, err := header.ParseCDH(reader, ptr, srcLen, r.pageSize)
		if err != nil {
			break
		}
		out = append(out, c)
		ptr += c.Length
	}

	return out, nil
}

func (r *Reassembler) placeLFH(a *Archive, c *header.CDHRecord) {
	pattern := header.ToLFH(c)
	matches, err := r.scanner.FindPattern(r.im, r.im.Len(), pattern)
	if err != nil || len(matches) != 1 {
		r.sink(diagnostic.Finding{
			Kind:    diagnostic.KindAmbiguousPlacement,
			Archive: a.Index,
			Message: ambiguityMessage("LFH", c.FileName, len(matches)),
		})
		return
	}

	targetSlot := (int64(c.LFHOffset) + a.Derived.StartOffset) / r.pageSize
	r.installMatch(a, targetSlot, matches[0])
}

func (r *Reassembler) placeDataDescriptor(a *Archive, c *header.CDHRecord) {
	pattern := header.ToDataDescriptor(c)
	matches, err := r.scanner.FindPattern(r.im, r.im.Len(), pattern)
	if err != nil || len(matches) != 1 {
		r.sink(diagnostic.Finding{
			Kind:    diagnostic.KindAmbiguousPlacement,
			Archive: a.Index,
			Message: ambiguityMessage("data descriptor", c.FileName, len(matches)),
		})
		return
	}

	// A data descriptor immediately follows its member's compressed bytes, which start right after the LFH's own
	// fixed-plus-variable-length header and run for exactly CompressedSize bytes — both already known from c.
	lfhLen := int64(30 + len(c.FileName) + len(c.Comment))
	dataStart := a.Derived.StartOffset + int64(c.LFHOffset) + lfhLen
	targetSlot := (dataStart + int64(c.CompressedSize)) / r.pageSize
	r.installMatch(a, targetSlot, matches[0])
}

func (r *Reassembler) installMatch(a *Archive, targetSlot, matchOffset int64) {
	matchPage := matchOffset / r.pageSize

	if r.pool.Available(matchPage) {
		if err := r.pool.Take(matchPage); err != nil {
			r.sink(diagnostic.Finding{Kind: diagnostic.KindLostPage, Archive: a.Index, Message: err.Error()})
			return
		}
		if err := a.Pages.Set(targetSlot, matchPage); err != nil {
			r.sink(diagnostic.Finding{Kind: diagnostic.KindLostPage, Archive: a.Index, Message: err.Error()})
		}
		return
	}

	if a.Pages.Present(targetSlot) && a.Pages.Get(targetSlot) == matchPage {
		return
	}

	r.sink(diagnostic.Finding{
		Kind:    diagnostic.KindLostPage,
		Archive: a.Index,
		Message: "matched page is neither pooled nor already installed at the target slot",
	})
}

func ambiguityMessage(kind string, fileName []byte, matchCount int) string {
	name := string(fileName)
	if matchCount == 0 {
		return kind + " pattern for " + name + " matched nowhere in the image"
	}
	return kind + " pattern for " + name + " matched ambiguously"
}

// FindGaps scans a page array for runs of absent slots, returning gap descriptors sorted by ascending length.
func FindGaps(pages *image.PageIndex) []Gap {
	var gaps []Gap
	var start int64 = -1

	flush := func(end int64) {
		if start >= 0 {
			gaps = append(gaps, Gap{StartIndex: start, Length: end - start})
			start = -1
		}
	}

	for i := int64(0); i < pages.Len(); i++ {
		if pages.Present(i) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(pages.Len())

	sort.Slice(gaps, func(i, j int) bool { return gaps[i].Length < gaps[j].Length })
	return gaps
}
