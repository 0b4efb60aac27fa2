package report

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ArchiveLine formats the one-line per-archive summary this pipeline logs to stderr after rendering: recovery
// percentage, member count, and output byte size, in the codebase's usual humanized-size convention.
func ArchiveLine(fingerprint string, memberCount int, size int64, recoveredPercent float64) string {
	return fmt.Sprintf("recovered %.1f%% (%d member(s), %s) as recovered_%s.zip",
		recoveredPercent, memberCount, humanize.IBytes(uint64(size)), fingerprint)
}

// RunSummary formats the end-of-run line: how many archives were discovered versus rendered.
func RunSummary(discovered, rendered int) string {
	if discovered == 0 {
		return "no candidate archives found"
	}
	return fmt.Sprintf("rendered %d/%d discovered archive(s)", rendered, discovered)
}
