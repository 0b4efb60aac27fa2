package header

import "encoding/binary"

// ToLFH synthesizes the Local File Header byte pattern that a CDH implies, for use as a search pattern against
// candidate page bytes during LFH placement.
//
// The second length field written here is len(c.Comment) — the CDH's own comment length — not the canonical LFH
// extra-field length. When the on-disk LFH's extra-field length equals the CDH's comment length (both 0, say) the
// distinction is invisible; when they differ (archive/zip, for example, writes a 9-byte extended-timestamp extra
// field into every LFH whose Modified time is set) this synthesis and the real on-disk LFH diverge at that field and
// the pattern does not match it. Search logic here depends on this exact convention for consistency with
// LFHRecord's own Comment field, not on canonical correctness.
//
// When the data-descriptor flag (bit 3) is set, crc32/compressedSize/uncompressedSize are written as zero: a writer
// that defers those fields to a trailing Data Descriptor also writes zero in their place in the LFH, so the CDH's
// recorded (final) values would never match the genuine on-disk bytes otherwise.
func ToLFH(c *CDHRecord) []byte {
	buf := make([]byte, 30+len(c.FileName)+len(c.Comment))
	binary.LittleEndian.PutUint32(buf[0:4], SigLFH)
	binary.LittleEndian.PutUint16(buf[4:6], c.VersionNeeded)
	binary.LittleEndian.PutUint16(buf[6:8], uint16(c.Flags))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(c.Method))
	binary.LittleEndian.PutUint16(buf[10:12], c.ModTime)
	binary.LittleEndian.PutUint16(buf[12:14], c.ModDate)
	if !c.Flags.HasDataDescriptor() {
		binary.LittleEndian.PutUint32(buf[14:18], c.CRC32)
		binary.LittleEndian.PutUint32(buf[18:22], c.CompressedSize)
		binary.LittleEndian.PutUint32(buf[22:26], c.UncompressedSize)
	}
	binary.LittleEndian.PutUint16(buf[26:28], uint16(len(c.FileName)))
	binary.LittleEndian.PutUint16(buf[28:30], uint16(len(c.Comment)))
	copy(buf[30:30+len(c.FileName)], c.FileName)
	copy(buf[30+len(c.FileName):], c.Comment)
	return buf
}

// ToDataDescriptor synthesizes the Data Descriptor byte pattern that a CDH implies, for use as a search pattern
// when the data-descriptor flag bit is set on the corresponding LFH.
func ToDataDescriptor(c *CDHRecord) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], SigDataDescriptor)
	binary.LittleEndian.PutUint32(buf[4:8], c.CRC32)
	binary.LittleEndian.PutUint32(buf[8:12], c.CompressedSize)
	binary.LittleEndian.PutUint32(buf[12:16], c.UncompressedSize)
	return buf
}
