package header

import "fmt"

// Method is the 16-bit compression method field shared by CDH and LFH records.
//
// See https://en.wikipedia.org/wiki/ZIP_(file_format) and PKWARE's APPNOTE.TXT §4.4.5.
type Method uint16

const (
	MethodStore         Method = 0
	MethodShrink        Method = 1
	MethodReduce1       Method = 2
	MethodReduce2       Method = 3
	MethodReduce3       Method = 4
	MethodReduce4       Method = 5
	MethodImplode       Method = 6
	MethodDeflate       Method = 8
	MethodDeflate64     Method = 9
	MethodPKWAREImplode Method = 10
	MethodBZip2         Method = 12
	MethodLZMA          Method = 14
	MethodIBMTerse      Method = 18
	MethodIBMLZ77       Method = 19
	MethodPPMd          Method = 98
)

// Recognized reports whether m is one of the compression method codes enumerated by the specification.
//
// An unrecognized method still parses (the record is returned, not rejected). The cluster package's feature vectors
// use the raw method code whether or not it is recognized; an unrecognized code is not suppressed from them.
func (m Method) Recognized() bool {
	switch m {
	case MethodStore, MethodShrink, MethodReduce1, MethodReduce2, MethodReduce3, MethodReduce4,
		MethodImplode, MethodDeflate, MethodDeflate64, MethodPKWAREImplode, MethodBZip2, MethodLZMA,
		MethodIBMTerse, MethodIBMLZ77, MethodPPMd:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	switch m {
	case MethodStore:
		return "store"
	case MethodShrink:
		return "shrink"
	case MethodReduce1:
		return "reduce-1"
	case MethodReduce2:
		return "reduce-2"
	case MethodReduce3:
		return "reduce-3"
	case MethodReduce4:
		return "reduce-4"
	case MethodImplode:
		return "implode"
	case MethodDeflate:
		return "deflate"
	case MethodDeflate64:
		return "deflate64"
	case MethodPKWAREImplode:
		return "pkware-dcl-implode"
	case MethodBZip2:
		return "bzip2"
	case MethodLZMA:
		return "lzma"
	case MethodIBMTerse:
		return "ibm-terse"
	case MethodIBMLZ77:
		return "ibm-lz77z"
	case MethodPPMd:
		return "ppmd-v1-r1"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(m))
	}
}
