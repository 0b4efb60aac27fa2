package reassemble

import "github.com/zipcarve/zipcarve/image"

// pageArrayReader presents an archive's scratch page array F' as an io.ReaderAt: present slots resolve to the
// underlying image page they're bound to; absent slots read as zeros. This is what lets Pass 2 re-parse CDH
// records directly from the assembled bytes, as the specification requires, without materializing F' as a
// contiguous buffer.
type pageArrayReader struct {
	im       *image.Image
	pages    *image.PageIndex
	pageSize int64

	// overrideSlot, when >= 0, serves overrideData for that slot instead of consulting pages — used by gap-fill
	// to evaluate a candidate page hypothetically, without mutating the archive's page array.
	overrideSlot int64
	overrideData []byte
}

func newPageArrayReader(im *image.Image, pages *image.PageIndex, pageSize int64) *pageArrayReader {
	return &pageArrayReader{im: im, pages: pages, pageSize: pageSize, overrideSlot: -1}
}

func newPageArrayReaderWithOverride(im *image.Image, pages *image.PageIndex, pageSize, slot int64, data []byte) *pageArrayReader {
	return &pageArrayReader{im: im, pages: pages, pageSize: pageSize, overrideSlot: slot, overrideData: data}
}

// Len returns the total virtual length of F', i.e. its slot count times the page size.
func (r *pageArrayReader) Len() int64 {
	return r.pages.Len() * r.pageSize
}

func (r *pageArrayReader) ReadAt(p []byte, off int64) (int, error) {
	total := int64(len(p))
	read := int64(0)

	for read < total {
		slot := (off + read) / r.pageSize
		offsetInSlot := (off + read) % r.pageSize

		n := r.pageSize - offsetInSlot
		if remaining := total - read; n > remaining {
			n = remaining
		}

		dst := p[read : read+n]
		switch {
		case slot == r.overrideSlot:
			copy(dst, r.overrideData[offsetInSlot:offsetInSlot+n])
		case r.pages.Present(slot):
			srcPage := r.pages.Get(slot)
			if _, err := r.im.ReadAt(dst, srcPage*r.pageSize+offsetInSlot); err != nil {
				return int(read), err
			}
		default:
			for i := range dst {
				dst[i] = 0
			}
		}

		read += n
	}

	return int(read), nil
}
