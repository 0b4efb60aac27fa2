// Package scan exhaustively locates byte patterns — ZIP signature magics, or arbitrary synthesized search
// patterns — at every offset they occur in an image, independent of any structural interpretation of the bytes
// around them.
package scan

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// defaultChunkSize is the read granularity used when scanning a large io.ReaderAt in bounded memory. Chunks
// overlap by len(pattern)-1 bytes so a match straddling a chunk boundary is never missed.
const defaultChunkSize = 1 << 20

// ByteScanner finds every occurrence of a byte pattern within an io.ReaderAt, in ascending offset order.
//
// A ByteScanner is stateless between calls to Find or FindPattern: it holds no memory of prior scans and may be
// reused for different patterns or sources.
type ByteScanner struct {
	chunkSize int64
}

// New creates a ByteScanner that reads in chunkSize-byte windows. A chunkSize of 0 selects a reasonable default.
func New(chunkSize int64) *ByteScanner {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &ByteScanner{chunkSize: chunkSize}
}

// Find returns every offset in src, up to length srcLen, at which the 4 bytes of magic occur, in ascending order.
func (s *ByteScanner) Find(src io.ReaderAt, srcLen int64, magic uint32) ([]int64, error) {
	var pattern [4]byte
	binary.LittleEndian.PutUint32(pattern[:], magic)
	return s.FindPattern(src, srcLen, pattern[:])
}

// FindPattern returns every offset in src, up to length srcLen, at which pattern occurs, in ascending order. It is
// used to search for synthesized LFH and Data Descriptor byte patterns, which are not fixed at 4 bytes.
func (s *ByteScanner) FindPattern(src io.ReaderAt, srcLen int64, pattern []byte) ([]int64, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("scan: empty pattern")
	}

	var offsets []int64
	overlap := int64(len(pattern) - 1)
	buf := make([]byte, s.chunkSize+overlap)

	// Each iteration reads a core region of chunkSize bytes plus an overlap tail so a match straddling the core
	// boundary is still found. Matches starting in the overlap tail are deliberately NOT reported here: the next
	// iteration's core region starts at that same offset and will find them, so counting them here would report
	// every boundary-straddling match twice. The final iteration has no next core region, so its overlap tail is
	// searched in full.
	for pos := int64(0); pos < srcLen; pos += s.chunkSize {
		want := s.chunkSize + overlap
		if pos+want > srcLen {
			want = srcLen - pos
		}
		isLast := pos+s.chunkSize >= srcLen

		n, err := src.ReadAt(buf[:want], pos)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("scan: read at %d: %w", pos, err)
		}

		window := buf[:n]
		limit := int(s.chunkSize)
		if isLast || int64(n) < limit {
			limit = n
		}

		searchFrom := 0
		for {
			idx := bytes.Index(window[searchFrom:], pattern)
			if idx < 0 {
				break
			}
			matchPos := searchFrom + idx
			if matchPos >= limit {
				break
			}
			offsets = append(offsets, pos+int64(matchPos))
			searchFrom = matchPos + 1
		}
	}

	return offsets, nil
}
