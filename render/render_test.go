package render

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zipcarve/zipcarve/header"
	"github.com/zipcarve/zipcarve/image"
	"github.com/zipcarve/zipcarve/reassemble"
)

func openTestImage(t *testing.T, data []byte, pageSize int64) *image.Image {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	im, err := image.Open(path, pageSize)
	require.NoError(t, err)
	t.Cleanup(func() { im.Close() })
	return im
}

func TestStreamRenderer_RendersUnfragmentedArchiveByteIdentical(t *testing.T) {
	const pageSize = 16
	page0 := []byte("0123456789abcdef")
	page1 := []byte("ghijklmnopqrstuv")
	data := append(append([]byte{}, page0...), page1...)

	im := openTestImage(t, data, pageSize)
	pages := image.NewPageIndex(2)
	require.NoError(t, pages.Set(0, 0))
	require.NoError(t, pages.Set(1, 1))

	a := &reassemble.Archive{
		Derived: header.Derived{StartOffset: 0},
		Pages:   pages,
	}

	outDir := t.TempDir()
	r := New(im, outDir)
	res, err := r.Render(a)
	require.NoError(t, err)

	want := data
	sum := md5.Sum(want)
	assert.Equal(t, hex.EncodeToString(sum[:]), res.Fingerprint)
	assert.Equal(t, int64(len(want)), res.Size)

	got, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStreamRenderer_ZeroFillsAbsentSlots(t *testing.T) {
	const pageSize = 8
	data := []byte("AAAAAAAABBBBBBBB")

	im := openTestImage(t, data, pageSize)
	pages := image.NewPageIndex(2)
	require.NoError(t, pages.Set(0, 1)) // slot 0 maps to the real page "BBBBBBBB"
	// slot 1 left absent

	a := &reassemble.Archive{
		Derived: header.Derived{StartOffset: 0},
		Pages:   pages,
	}

	r := New(im, t.TempDir())
	res, err := r.Render(a)
	require.NoError(t, err)

	got, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	want := append([]byte("BBBBBBBB"), make([]byte, 8)...)
	assert.Equal(t, want, got)
}

func TestStreamRenderer_TrimsLeadingStartOffset(t *testing.T) {
	const pageSize = 16
	data := make([]byte, 16)
	copy(data, "0123456789abcdef")

	im := openTestImage(t, data, pageSize)
	pages := image.NewPageIndex(1)
	require.NoError(t, pages.Set(0, 0))

	a := &reassemble.Archive{
		Derived: header.Derived{StartOffset: 5},
		Pages:   pages,
	}

	r := New(im, t.TempDir())
	res, err := r.Render(a)
	require.NoError(t, err)

	got, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("56789abcdef"), got)
	assert.Equal(t, int64(11), res.Size)
}

func TestStreamRenderer_CollidingFingerprintsGetSuffixedNames(t *testing.T) {
	const pageSize = 4
	data := []byte("abcd")

	im := openTestImage(t, data, pageSize)
	pages := image.NewPageIndex(1)
	require.NoError(t, pages.Set(0, 0))

	a := &reassemble.Archive{Pages: pages}

	outDir := t.TempDir()
	r := New(im, outDir)

	first, err := r.Render(a)
	require.NoError(t, err)
	second, err := r.Render(a)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}
