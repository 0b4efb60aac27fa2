// Package header decodes the ZIP structural records this engine looks for — End of Central Directory (EOCD),
// Central Directory Header (CDH), Local File Header (LFH), and Data Descriptor — directly from arbitrary byte
// offsets inside an unstructured image, mirroring the fixed-layout, length-prefixed decoding style used elsewhere
// in this codebase for ZIP central directory records, but every parser here is total: it either returns a record
// or reports a rejection reason, it never panics on malformed input.
package header

const (
	// SigLFH is the 4-byte Local File Header signature "PK\x03\x04".
	SigLFH uint32 = 0x04034b50
	// SigCDH is the 4-byte Central Directory Header signature "PK\x01\x02".
	SigCDH uint32 = 0x02014b50
	// SigEOCD is the 4-byte End of Central Directory signature "PK\x05\x06".
	SigEOCD uint32 = 0x06054b50
	// SigDataDescriptor is the 4-byte Data Descriptor signature "PK\x07\x08".
	SigDataDescriptor uint32 = 0x08074b50
)

// EOCDRecord models a candidate End of Central Directory record found at Ptr.
type EOCDRecord struct {
	Ptr int64

	DiskNumber    uint16
	CDDiskNumber  uint16
	EntriesOnDisk uint16
	TotalEntries  uint16
	CDSize        uint32
	CDOffset      uint32
	Comment       []byte

	// BoundaryTaint is true if fewer than 20 bytes remained in the page containing Ptr.
	BoundaryTaint bool
}

// TotalSize is the computed total size of the archive this EOCD anchors: 0x16 (the fixed EOCD size) plus the
// comment length plus the central directory size plus the central directory offset.
func (e *EOCDRecord) TotalSize() int64 {
	return 0x16 + int64(len(e.Comment)) + int64(e.CDSize) + int64(e.CDOffset)
}

// Derived holds the page-granular quantities the invariants of §3 define in terms of a page size, computed
// separately from parsing since the page size is a pipeline-wide configuration value, not a property of the bytes
// at Ptr.
type Derived struct {
	// ArchiveStart is the absolute offset in the image of archive-relative byte 0.
	ArchiveStart int64
	// StartOffset is ArchiveStart's position within its own page.
	StartOffset int64
	// PageCount is the number of pages this archive spans.
	PageCount int64
}

// Derive computes the page-granular quantities for this EOCD at the given page size.
func (e *EOCDRecord) Derive(pageSize int64) Derived {
	eocdFileOffset := int64(e.CDOffset) + int64(e.CDSize)
	eocdPageOffset := e.Ptr % pageSize

	archiveStart := e.Ptr - eocdFileOffset
	startOffset := ((archiveStart % pageSize) + pageSize) % pageSize

	pageCount := b2i(eocdPageOffset > 0) + b2i(startOffset > 0) +
		(eocdFileOffset-eocdPageOffset-startOffset)/pageSize

	return Derived{ArchiveStart: archiveStart, StartOffset: startOffset, PageCount: pageCount}
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// CDHRecord models a Central Directory File Header parsed at Ptr.
type CDHRecord struct {
	Ptr    int64
	Length int64

	VersionMadeBy   uint16
	VersionNeeded   uint16
	Flags           Flag
	Method          Method
	ModTime         uint16
	ModDate         uint16
	CRC32           uint32
	CompressedSize  uint32
	UncompressedSize uint32
	DiskNumberStart uint16
	InternalAttrs   uint16
	ExternalAttrs   uint32
	// LFHOffset is the offset of the local file header, relative to the start of the archive.
	LFHOffset uint32

	FileName []byte
	Extra    []byte
	Comment  []byte

	BoundaryTaint bool

	// DateTime is the decoded ModDate/ModTime. HasDateTime is false if the DOS date/time failed to decode; such
	// a record is excluded from clustering but is otherwise a fully valid record.
	DateTime    DOSDateTime
	HasDateTime bool
}

// LFHRecord models a Local File Header parsed at Ptr from raw image bytes.
//
// The second length field (conventionally "extra field length" in a canonical ZIP reader) is read as the length of
// the Comment field here, and its bytes are exposed as Comment, not Extra: this mirrors the to_LFH synthesis convention of §9, which
// this engine's search logic depends on for round-trip consistency between a CDH-synthesized search pattern and a
// genuine on-disk LFH. See ToLFH.
type LFHRecord struct {
	Ptr    int64
	Length int64

	VersionNeeded    uint16
	Flags            Flag
	Method           Method
	ModTime          uint16
	ModDate          uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32

	FileName []byte
	Comment  []byte

	BoundaryTaint bool

	DateTime    DOSDateTime
	HasDateTime bool
}

// DataDescriptorRecord models a Data Descriptor parsed at Ptr.
type DataDescriptorRecord struct {
	Ptr              int64
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
}
