package layout

import "github.com/gircomp/gircomp/pkg/tag"

// InferEnumStorage picks the smallest signed integer width (8/16/32/64)
// whose range accommodates [min, max], falling back to the unsigned 32-bit
// tag when the range is non-negative and exceeds signed 32-bit range but
// fits unsigned 32-bit (spec §4.2 "Enum width inference", §8 boundary
// behaviors). This mirrors giroffsets.c's get_enum_size_alignment, which
// derives the same answer via a table of synthetic C enum widths.
func InferEnumStorage(min, max int64) tag.Tag {
	if min < 0 {
		switch {
		case min >= -128 && max <= 127:
			return tag.Int8
		case min >= -32768 && max <= 32767:
			return tag.Int16
		case min >= -(1<<31) && max <= (1<<31)-1:
			return tag.Int32
		default:
			return tag.Int64
		}
	}
	switch {
	case max <= 127:
		return tag.Int8
	case max <= 32767:
		return tag.Int16
	case max <= (1<<31)-1:
		return tag.Int32
	case max <= (1<<32)-1:
		return tag.UInt32
	default:
		return tag.Int64
	}
}
