package reassemble

import (
	"fmt"

	"github.com/zipcarve/zipcarve/diagnostic"
	"github.com/zipcarve/zipcarve/header"
)

// Reconstruct drives Pass 1, Pass 2, and gap-filling for every archive, given the CDH silos the ClusterAssigner
// produced (one silo per archive, in no particular correspondence to archives array order — binding is by shared
// final page, per Pass 1).
//
// fillGaps controls whether §4.7 gap-filling runs; it corresponds to the pipeline's --no-gap-fill flag.
func Reconstruct(r *Reassembler, archives []*Archive, silos [][]*header.CDHRecord, fillGaps bool) {
	var maxCDOffset int64
	for _, a := range archives {
		if cd := int64(a.EOCD.CDOffset); cd > maxCDOffset {
			maxCDOffset = cd
		}
	}

	for i, silo := range silos {
		// assembleCDRun's lost-page findings are labeled by silo index, since the silo's bound archive isn't known
		// until BindCDRun runs below. Capture them here and relabel to the real archive index before forwarding to
		// the caller's sink, so every finding a caller sees is keyed by archive, not silo.
		var captured []diagnostic.Finding
		captureSink := func(f diagnostic.Finding) { captured = append(captured, f) }

		run := assembleCDRun(r.pool, r.pageSize, captureSink, silo, maxCDOffset, i)
		boundIndex := BindCDRun(run, r.pageSize, archives)

		archiveIndex := -1
		if boundIndex >= 0 {
			archiveIndex = archives[boundIndex].Index
			archives[boundIndex].CDSilo = silo
			archives[boundIndex].State = StateCDGrouped
			archives[boundIndex].CDPages = run
		}
		for _, f := range captured {
			f.Archive = archiveIndex
			r.sink(f)
		}
	}

	for _, a := range archives {
		r.PlaceCDPages(a)
		if err := r.RunPass2(a); err != nil {
			continue
		}
		if fillGaps {
			r.FillGaps(a)
		}
		if a.IsPartial() {
			r.sink(diagnostic.Finding{
				Kind:    diagnostic.KindPartialRecovery,
				Archive: a.Index,
				Message: fmt.Sprintf("%d of %d page slots absent", a.Pages.Len()-a.Pages.PresentCount(), a.Pages.Len()),
			})
		}
	}
}
