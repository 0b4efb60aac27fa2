package header

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLFH_RoundTripsAgainstParseLFH(t *testing.T) {
	cdh := &CDHRecord{
		VersionNeeded:    20,
		Flags:            FlagUTF8,
		Method:           MethodDeflate,
		ModTime:          0x5000,
		ModDate:          0x21,
		CRC32:            0x12345678,
		CompressedSize:   111,
		UncompressedSize: 222,
		FileName:         []byte("dir/file.txt"),
	}

	raw := ToLFH(cdh)
	got, err := ParseLFH(bytes.NewReader(raw), 0, int64(len(raw)), 4096)
	require.NoError(t, err)

	assert.Equal(t, cdh.VersionNeeded, got.VersionNeeded)
	assert.Equal(t, cdh.Flags, got.Flags)
	assert.Equal(t, cdh.Method, got.Method)
	assert.Equal(t, cdh.CRC32, got.CRC32)
	assert.Equal(t, cdh.CompressedSize, got.CompressedSize)
	assert.Equal(t, cdh.UncompressedSize, got.UncompressedSize)
	assert.Equal(t, cdh.FileName, got.FileName)
}

func TestToLFH_SecondLengthFieldIsCommentLengthNotExtraLength(t *testing.T) {
	cdh := &CDHRecord{
		FileName: []byte("f"),
		Extra:    []byte("1234567890"), // 10 bytes, deliberately not mirrored
		Comment:  []byte("ab"),         // 2 bytes, this is what should appear instead
	}

	raw := ToLFH(cdh)
	got, err := ParseLFH(bytes.NewReader(raw), 0, int64(len(raw)), 4096)
	require.NoError(t, err)

	assert.Equal(t, cdh.Comment, got.Comment)
	assert.Len(t, got.Comment, len(cdh.Comment))
	assert.NotEqual(t, len(cdh.Extra), len(got.Comment))
}

func TestToLFH_ZeroesSizeFieldsWhenDataDescriptorFlagSet(t *testing.T) {
	cdh := &CDHRecord{
		Flags:            FlagDataDescriptor,
		Method:           MethodDeflate,
		CRC32:            0x12345678,
		CompressedSize:   111,
		UncompressedSize: 222,
		FileName:         []byte("f.txt"),
	}

	raw := ToLFH(cdh)
	got, err := ParseLFH(bytes.NewReader(raw), 0, int64(len(raw)), 4096)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), got.CRC32)
	assert.Equal(t, uint32(0), got.CompressedSize)
	assert.Equal(t, uint32(0), got.UncompressedSize)
	assert.True(t, got.Flags.HasDataDescriptor())
}

func TestToDataDescriptor(t *testing.T) {
	cdh := &CDHRecord{CRC32: 0xabcdef01, CompressedSize: 50, UncompressedSize: 75}
	raw := ToDataDescriptor(cdh)

	got, err := ParseDataDescriptor(bytes.NewReader(raw), 0, int64(len(raw)))
	require.NoError(t, err)
	assert.Equal(t, cdh.CRC32, got.CRC32)
	assert.Equal(t, cdh.CompressedSize, got.CompressedSize)
	assert.Equal(t, cdh.UncompressedSize, got.UncompressedSize)
}
