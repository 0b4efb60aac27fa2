package reassemble

import (
	"github.com/zipcarve/zipcarve/diagnostic"
	"github.com/zipcarve/zipcarve/image"
	"github.com/zipcarve/zipcarve/scan"
)

// Reassembler drives Pass 1 and Pass 2 for all archives discovered in a single image.
//
// A Reassembler is not safe for concurrent use: the pool and per-archive page arrays it mutates are shared state
// touched only by the Reassembler, in the order prescribed by the component design.
type Reassembler struct {
	im       *image.Image
	pool     *image.Pool
	scanner  *scan.ByteScanner
	pageSize int64
	sink     diagnostic.Sink
}

// New creates a Reassembler over im, drawing pages from pool and reporting findings to sink. A nil sink is
// replaced with diagnostic.NoOp.
func New(im *image.Image, pool *image.Pool, scanner *scan.ByteScanner, sink diagnostic.Sink) *Reassembler {
	if sink == nil {
		sink = diagnostic.NoOp
	}
	return &Reassembler{im: im, pool: pool, scanner: scanner, pageSize: im.PageSize(), sink: sink}
}
