package buffer

import (
	"fmt"
	"strings"
)

// Flags describes what a consumer requires of an acquired view. The bit
// layout follows the classic buffer-protocol request flags, so composite
// requests (FlagStrides implies FlagND, and so on) nest the same way.
type Flags uint32

const (
	FlagSimple        Flags = 0
	FlagWritable      Flags = 0x0001
	FlagFormat        Flags = 0x0004
	FlagND            Flags = 0x0008
	FlagStrides       Flags = 0x0010 | FlagND
	FlagCContiguous   Flags = 0x0020 | FlagStrides
	FlagFContiguous   Flags = 0x0040 | FlagStrides
	FlagAnyContiguous Flags = 0x0080 | FlagStrides
	FlagIndirect      Flags = 0x0100 | FlagStrides

	FlagContig    = FlagND | FlagWritable
	FlagContigRO  = FlagND
	FlagStrided   = FlagStrides | FlagWritable
	FlagStridedRO = FlagStrides
	FlagRecords   = FlagStrides | FlagWritable | FlagFormat
	FlagRecordsRO = FlagStrides | FlagFormat
	FlagFull      = FlagIndirect | FlagWritable | FlagFormat
	FlagFullRO    = FlagIndirect | FlagFormat
)

// Has reports whether every bit of want is set. FlagSimple is always present.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// ReadOnly returns f with the writable request removed.
func (f Flags) ReadOnly() Flags {
	return f &^ FlagWritable
}

// flagNames is ordered most specific first so String folds implied bits.
var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagIndirect, "INDIRECT"},
	{FlagAnyContiguous, "ANY_CONTIGUOUS"},
	{FlagFContiguous, "F_CONTIGUOUS"},
	{FlagCContiguous, "C_CONTIGUOUS"},
	{FlagStrides, "STRIDES"},
	{FlagND, "ND"},
	{FlagFormat, "FORMAT"},
	{FlagWritable, "WRITABLE"},
}

func (f Flags) String() string {
	if f == FlagSimple {
		return "SIMPLE"
	}

	// A name is emitted when all its bits are requested and it adds a bit
	// no earlier, more specific name covered.
	var parts []string
	var covered Flags
	for _, fn := range flagNames {
		if f.Has(fn.flag) && fn.flag&^covered != 0 {
			parts = append(parts, fn.name)
			covered |= fn.flag
		}
	}
	if rest := f &^ covered; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}
