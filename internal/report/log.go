// Package report formats the pipeline's per-archive progress lines and end-of-run summary, and carries a
// prefixed logger through an archive's reconstruction the same way the rest of this codebase threads a
// per-item logger through a context.
package report

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Prefix builds the "[i/n]" label this codebase's per-item commands prefix their log lines with.
func Prefix(i, n int, label string) string {
	return fmt.Sprintf("[%d/%d] %s - ", i, n, label)
}

type loggerKey struct{}

// WithLogger attaches a logger writing to stderr with the given prefix to ctx.
func WithLogger(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, loggerKey{}, log.New(os.Stderr, prefix, 0))
}

// LoggerFrom returns the logger attached by WithLogger, or the standard logger if none was attached.
func LoggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
