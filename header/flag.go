package header

// Flag is the 16-bit general purpose bit flag field shared by CDH and LFH records.
type Flag uint16

const (
	FlagEncrypted          Flag = 1 << 0
	FlagOpt1               Flag = 1 << 1
	FlagOpt2               Flag = 1 << 2
	FlagDataDescriptor     Flag = 1 << 3
	FlagEnhancedDeflation  Flag = 1 << 4
	FlagPatchData          Flag = 1 << 5
	FlagStrongEncryption   Flag = 1 << 6
	FlagUTF8               Flag = 1 << 11
	FlagMaskedHeaderValues Flag = 1 << 13
)

// RecognizedFlagBits lists, in the order the feature vector of the ClusterAssigner enumerates them, the bit
// positions this specification recognizes.
var RecognizedFlagBits = []uint{0, 1, 2, 3, 4, 5, 6, 11, 13}

// Has reports whether the given bit position is set.
func (f Flag) Has(bit uint) bool {
	return f&(1<<bit) != 0
}

// HasDataDescriptor reports whether the data-descriptor bit (position 3) is set.
func (f Flag) HasDataDescriptor() bool {
	return f.Has(3)
}
