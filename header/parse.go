package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInsufficientBytes is returned when fewer bytes remain in the image than the fixed-size part of the record
// (plus its declared variable-length tail) requires.
var ErrInsufficientBytes = errors.New("header: insufficient bytes remaining in image")

// ErrSignatureMismatch is returned when the 4 bytes at the candidate offset do not match the expected magic.
var ErrSignatureMismatch = errors.New("header: signature mismatch")

// ErrEntryCountMismatch is returned by ParseEOCD when the per-disk entry count does not equal the total entry
// count — this specification only reconstructs single-disk archives.
var ErrEntryCountMismatch = errors.New("header: disk entry count does not match total entry count")

// readAt reads exactly len(buf) bytes at off, tolerating io.EOF only if the full buffer was still filled (readers
// that report io.EOF alongside a full read, such as bytes.Reader at end of input, are common and not an error
// here).
func readAt(src io.ReaderAt, buf []byte, off int64) error {
	n, err := src.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

func remainingInPage(ptr, pageSize int64) int64 {
	return pageSize - (ptr % pageSize)
}

// ParseEOCD parses a candidate End of Central Directory record at ptr.
//
// imageLen is the total length of the image, used to bound the variable-length comment tail. pageSize is used only
// to compute BoundaryTaint.
func ParseEOCD(src io.ReaderAt, ptr, imageLen, pageSize int64) (*EOCDRecord, error) {
	if imageLen-ptr < 22 {
		return nil, ErrInsufficientBytes
	}

	buf := make([]byte, 22)
	if err := readAt(src, buf, ptr); err != nil {
		return nil, fmt.Errorf("header: read EOCD error: %w", err)
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != SigEOCD {
		return nil, ErrSignatureMismatch
	}

	entriesOnDisk := binary.LittleEndian.Uint16(buf[8:10])
	totalEntries := binary.LittleEndian.Uint16(buf[10:12])
	if entriesOnDisk != totalEntries {
		return nil, ErrEntryCountMismatch
	}

	commentLen := int64(binary.LittleEndian.Uint16(buf[20:22]))
	avail := imageLen - (ptr + 22)
	if commentLen > avail {
		commentLen = avail
	}

	var comment []byte
	if commentLen > 0 {
		comment = make([]byte, commentLen)
		if err := readAt(src, comment, ptr+22); err != nil {
			return nil, fmt.Errorf("header: read EOCD comment error: %w", err)
		}
	}

	return &EOCDRecord{
		Ptr:           ptr,
		DiskNumber:    binary.LittleEndian.Uint16(buf[4:6]),
		CDDiskNumber:  binary.LittleEndian.Uint16(buf[6:8]),
		EntriesOnDisk: entriesOnDisk,
		TotalEntries:  totalEntries,
		CDSize:        binary.LittleEndian.Uint32(buf[12:16]),
		CDOffset:      binary.LittleEndian.Uint32(buf[16:20]),
		Comment:       comment,
		BoundaryTaint: remainingInPage(ptr, pageSize) < 20,
	}, nil
}

// ParseCDH parses a candidate Central Directory File Header at ptr.
func ParseCDH(src io.ReaderAt, ptr, imageLen, pageSize int64) (*CDHRecord, error) {
	const fixedSize = 0x2e
	if imageLen-ptr < fixedSize {
		return nil, ErrInsufficientBytes
	}

	buf := make([]byte, fixedSize)
	if err := readAt(src, buf, ptr); err != nil {
		return nil, fmt.Errorf("header: read CDH error: %w", err)
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != SigCDH {
		return nil, ErrSignatureMismatch
	}

	fnLen := int64(binary.LittleEndian.Uint16(buf[28:30]))
	exLen := int64(binary.LittleEndian.Uint16(buf[30:32]))
	fcLen := int64(binary.LittleEndian.Uint16(buf[32:34]))
	tailLen := fnLen + exLen + fcLen

	if imageLen-ptr < fixedSize+tailLen {
		return nil, ErrInsufficientBytes
	}

	var tail []byte
	if tailLen > 0 {
		tail = make([]byte, tailLen)
		if err := readAt(src, tail, ptr+fixedSize); err != nil {
			return nil, fmt.Errorf("header: read CDH variable tail error: %w", err)
		}
	}

	modTime := binary.LittleEndian.Uint16(buf[12:14])
	modDate := binary.LittleEndian.Uint16(buf[14:16])
	dt, ok := DecodeDOSDateTime(modDate, modTime)

	r := &CDHRecord{
		Ptr:              ptr,
		Length:           fixedSize + tailLen,
		VersionMadeBy:    binary.LittleEndian.Uint16(buf[4:6]),
		VersionNeeded:    binary.LittleEndian.Uint16(buf[6:8]),
		Flags:            Flag(binary.LittleEndian.Uint16(buf[8:10])),
		Method:           Method(binary.LittleEndian.Uint16(buf[10:12])),
		ModTime:          modTime,
		ModDate:          modDate,
		CRC32:            binary.LittleEndian.Uint32(buf[16:20]),
		CompressedSize:   binary.LittleEndian.Uint32(buf[20:24]),
		UncompressedSize: binary.LittleEndian.Uint32(buf[24:28]),
		DiskNumberStart:  binary.LittleEndian.Uint16(buf[34:36]),
		InternalAttrs:    binary.LittleEndian.Uint16(buf[36:38]),
		ExternalAttrs:    binary.LittleEndian.Uint32(buf[38:42]),
		LFHOffset:        binary.LittleEndian.Uint32(buf[42:46]),
		FileName:         tail[:fnLen],
		Extra:            tail[fnLen : fnLen+exLen],
		Comment:          tail[fnLen+exLen:],
		BoundaryTaint:    remainingInPage(ptr, pageSize) < 0x46,
		DateTime:         dt,
		HasDateTime:      ok,
	}
	return r, nil
}

// ParseLFH parses a candidate Local File Header at ptr.
//
// See LFHRecord for why the second length field is exposed as Comment rather than Extra.
func ParseLFH(src io.ReaderAt, ptr, imageLen, pageSize int64) (*LFHRecord, error) {
	const fixedSize = 30
	if imageLen-ptr < fixedSize {
		return nil, ErrInsufficientBytes
	}

	buf := make([]byte, fixedSize)
	if err := readAt(src, buf, ptr); err != nil {
		return nil, fmt.Errorf("header: read LFH error: %w", err)
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != SigLFH {
		return nil, ErrSignatureMismatch
	}

	fnLen := int64(binary.LittleEndian.Uint16(buf[26:28]))
	fcLen := int64(binary.LittleEndian.Uint16(buf[28:30]))
	tailLen := fnLen + fcLen

	if imageLen-ptr < fixedSize+tailLen {
		return nil, ErrInsufficientBytes
	}

	var tail []byte
	if tailLen > 0 {
		tail = make([]byte, tailLen)
		if err := readAt(src, tail, ptr+fixedSize); err != nil {
			return nil, fmt.Errorf("header: read LFH variable tail error: %w", err)
		}
	}

	modTime := binary.LittleEndian.Uint16(buf[10:12])
	modDate := binary.LittleEndian.Uint16(buf[12:14])
	dt, ok := DecodeDOSDateTime(modDate, modTime)

	return &LFHRecord{
		Ptr:              ptr,
		Length:           fixedSize + tailLen,
		VersionNeeded:    binary.LittleEndian.Uint16(buf[4:6]),
		Flags:            Flag(binary.LittleEndian.Uint16(buf[6:8])),
		Method:           Method(binary.LittleEndian.Uint16(buf[8:10])),
		ModTime:          modTime,
		ModDate:          modDate,
		CRC32:            binary.LittleEndian.Uint32(buf[14:18]),
		CompressedSize:   binary.LittleEndian.Uint32(buf[18:22]),
		UncompressedSize: binary.LittleEndian.Uint32(buf[22:26]),
		FileName:         tail[:fnLen],
		Comment:          tail[fnLen:],
		BoundaryTaint:    remainingInPage(ptr, pageSize) < 30,
		DateTime:         dt,
		HasDateTime:      ok,
	}, nil
}

// ParseDataDescriptor parses a candidate Data Descriptor at ptr.
func ParseDataDescriptor(src io.ReaderAt, ptr, imageLen int64) (*DataDescriptorRecord, error) {
	const fixedSize = 16
	if imageLen-ptr < fixedSize {
		return nil, ErrInsufficientBytes
	}

	buf := make([]byte, fixedSize)
	if err := readAt(src, buf, ptr); err != nil {
		return nil, fmt.Errorf("header: read data descriptor error: %w", err)
	}
	if binary.LittleEndian.Uint32(buf[0:4]) != SigDataDescriptor {
		return nil, ErrSignatureMismatch
	}

	return &DataDescriptorRecord{
		Ptr:              ptr,
		CRC32:            binary.LittleEndian.Uint32(buf[4:8]),
		CompressedSize:   binary.LittleEndian.Uint32(buf[8:12]),
		UncompressedSize: binary.LittleEndian.Uint32(buf[12:16]),
	}, nil
}
