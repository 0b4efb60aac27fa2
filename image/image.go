// Package image provides a read-only, page-granular view over a disk image file, backed by a memory-mapped
// io.ReaderAt so scanning and header parsing never copy the whole image into process memory.
package image

import (
	"fmt"

	"golang.org/x/exp/mmap"
)

// Image is a read-only, memory-mapped view over a single image file, divided into fixed-size pages.
//
// The last page may be short if the image length is not a multiple of PageSize; short reads past the end of the
// backing file return zero bytes, matching how a genuine absent page reads after Reassemble.
type Image struct {
	path     string
	r        *mmap.ReaderAt
	len      int64
	pageSize int64
}

// Open memory-maps path and divides it into pages of pageSize bytes.
func Open(path string, pageSize int64) (*Image, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("image: page size must be positive, got %d", pageSize)
	}

	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image: open %q: %w", path, err)
	}

	return &Image{path: path, r: r, len: int64(r.Len()), pageSize: pageSize}, nil
}

// Close releases the memory mapping.
func (im *Image) Close() error {
	return im.r.Close()
}

// Path returns the path the image was opened from.
func (im *Image) Path() string {
	return im.path
}

// Len returns the total length of the image in bytes.
func (im *Image) Len() int64 {
	return im.len
}

// PageSize returns the configured page size.
func (im *Image) PageSize() int64 {
	return im.pageSize
}

// PageCount returns the number of pages the image is divided into, rounding the final partial page up.
func (im *Image) PageCount() int64 {
	if im.len == 0 {
		return 0
	}
	return (im.len + im.pageSize - 1) / im.pageSize
}

// ReadAt implements io.ReaderAt against the memory-mapped image.
func (im *Image) ReadAt(p []byte, off int64) (int, error) {
	return im.r.ReadAt(p, off)
}

// Page returns the bytes of page i, copied into a freshly allocated slice so callers may retain it past further
// calls. The last page is returned short if the image length does not fill it.
func (im *Image) Page(i int64) ([]byte, error) {
	if i < 0 || i >= im.PageCount() {
		return nil, fmt.Errorf("image: page index %d out of range [0, %d)", i, im.PageCount())
	}

	start := i * im.pageSize
	end := start + im.pageSize
	if end > im.len {
		end = im.len
	}

	buf := make([]byte, end-start)
	if _, err := im.r.ReadAt(buf, start); err != nil {
		return nil, fmt.Errorf("image: read page %d: %w", i, err)
	}
	return buf, nil
}

// PageOffset returns the page index containing the given absolute offset, and the offset's position within that
// page.
func (im *Image) PageOffset(off int64) (page, offsetInPage int64) {
	return off / im.pageSize, off % im.pageSize
}
