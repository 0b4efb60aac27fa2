package reassemble

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zipcarve/zipcarve/diagnostic"
	"github.com/zipcarve/zipcarve/image"
	"github.com/zipcarve/zipcarve/scan"
)

func openImage(t *testing.T, data []byte, pageSize int64) *image.Image {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	im, err := image.Open(path, pageSize)
	require.NoError(t, err)
	t.Cleanup(func() { im.Close() })
	return im
}

func newTestReassembler(t *testing.T, im *image.Image, pool *image.Pool) (*Reassembler, *diagnostic.Collector) {
	t.Helper()
	var c diagnostic.Collector
	r := New(im, pool, scan.New(0), c.Sink())
	return r, &c
}
