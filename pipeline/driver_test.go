package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZipArchive writes a stored (uncompressed) ZIP archive to a temporary file with archive/zip.Writer and returns
// its bytes. archive/zip.Writer sets the data-descriptor flag on every member and follows its data with a Data
// Descriptor, and it writes a 9-byte extended-timestamp extra field into each local and central header.
func buildZipArchive(t *testing.T, mtime time.Time, members map[string]string) []byte {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "src-*.zip")
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	for _, name := range names {
		hdr := &zip.FileHeader{Name: name, Method: zip.Store}
		hdr.Modified = mtime
		fw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = fw.Write([]byte(members[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	return data
}

func writeImage(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDriver_SingleArchiveNoInterleaving(t *testing.T) {
	archive := buildZipArchive(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), map[string]string{
		"a.txt": "hello",
		"b.txt": "world, this is more than a few bytes of content",
	})

	path := writeImage(t, archive)
	outDir := t.TempDir()

	d := New(Options{PageSize: 64, OutputDir: outDir})
	outcomes, err := d.Run(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.NoError(t, outcomes[0].RenderErr)

	got, err := os.ReadFile(outcomes[0].Result.Path)
	require.NoError(t, err)
	assert.Equal(t, archive, got)
	assert.Equal(t, 100.0, outcomes[0].Result.RecoveredPercent)
}

func TestDriver_TwoArchivesInterleavedPageByPage(t *testing.T) {
	const pageSize = 64

	archiveA := buildZipArchive(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), map[string]string{
		"a.txt": "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
	})
	archiveB := buildZipArchive(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), map[string]string{
		"b.txt": "BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB",
	})

	image := interleavePages(archiveA, archiveB, pageSize)
	path := writeImage(t, image)
	outDir := t.TempDir()

	d := New(Options{PageSize: pageSize, OutputDir: outDir})
	outcomes, err := d.Run(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	var got [][]byte
	for _, o := range outcomes {
		require.NoError(t, o.RenderErr)
		b, err := os.ReadFile(o.Result.Path)
		require.NoError(t, err)
		got = append(got, b)
	}

	assert.ElementsMatch(t, [][]byte{archiveA, archiveB}, got)
}

// interleavePages pads a and b to a whole number of pages each, then alternates one page from a, one page from b,
// until both are exhausted, matching the page-by-page interleaving end-to-end scenario.
func interleavePages(a, b []byte, pageSize int) []byte {
	pad := func(data []byte) []byte {
		if rem := len(data) % pageSize; rem != 0 {
			data = append(data, make([]byte, pageSize-rem)...)
		}
		return data
	}
	a = pad(append([]byte{}, a...))
	b = pad(append([]byte{}, b...))

	var out bytes.Buffer
	pa, pb := len(a)/pageSize, len(b)/pageSize
	for i := 0; i < pa || i < pb; i++ {
		if i < pa {
			out.Write(a[i*pageSize : (i+1)*pageSize])
		}
		if i < pb {
			out.Write(b[i*pageSize : (i+1)*pageSize])
		}
	}
	return out.Bytes()
}

func TestDriver_EmptyImageYieldsZeroOutputs(t *testing.T) {
	path := writeImage(t, make([]byte, 256))
	outDir := t.TempDir()

	d := New(Options{PageSize: 64, OutputDir: outDir})
	outcomes, err := d.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, outcomes)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDriver_MissingDataPageLeavesZeroFilledGap(t *testing.T) {
	const pageSize = 64
	payload := "CCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC" // 100 bytes
	archive := buildZipArchive(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), map[string]string{"c.txt": payload})

	// Corrupt (zero) one whole interior page that holds only payload bytes, simulating a page the pool never
	// recovered. The LFH lives in page 0; find a later page that falls entirely within the payload region and is
	// not the page containing the central directory/EOCD tail.
	corrupted := append([]byte{}, archive...)
	// page 1 (bytes [64,128)) is payload-only for this single-member, single-page-local-header archive.
	for i := pageSize; i < 2*pageSize && i < len(corrupted); i++ {
		corrupted[i] = 0
	}

	path := writeImage(t, corrupted)
	outDir := t.TempDir()

	d := New(Options{PageSize: pageSize, OutputDir: outDir, NoGapFill: true})
	outcomes, err := d.Run(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.NoError(t, outcomes[0].RenderErr)

	assert.Less(t, outcomes[0].Result.RecoveredPercent, 100.0)

	got, err := os.ReadFile(outcomes[0].Result.Path)
	require.NoError(t, err)
	require.Len(t, got, len(archive))
	assert.Equal(t, make([]byte, pageSize), got[pageSize:2*pageSize])
}
