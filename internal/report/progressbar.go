package report

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CountBar returns a count-based progress bar (not a byte-based one) for an n-item pass, matching this codebase's
// usual progressbar.Option set for counted iteration (central directory headers, archives, and so on).
func CountBar(n int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		n,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(1*time.Second),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true))
}
