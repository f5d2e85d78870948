package oracle

import (
	"math/rand"

	"github.com/sarchlab/gemmverify/accel"
)

// Some helpers using closures to generate matrix element values.

func MakeConstGen(constant int32) func() int32 {
	return func() int32 {
		return constant
	}
}

func MakeIncreasingGen(start int32) func() int32 {
	current := start
	return func() int32 {
		current++
		return current
	}
}

// MakeRandGen generates values covering the full element range of the
// data type: -128..127 for int8, -32768..32767 for int16. The same seed
// always yields the same sequence.
func MakeRandGen(seed int64, dataType accel.DataType) func() int32 {
	r := rand.New(rand.NewSource(seed))

	switch dataType {
	case accel.Int8:
		return func() int32 {
			return int32(r.Intn(256) - 128)
		}
	case accel.Int16:
		return func() int32 {
			return int32(r.Intn(65536) - 32768)
		}
	default:
		panic("invalid data type")
	}
}

// FillInt8 fills dst from the generator, truncating to int8.
func FillInt8(dst []int8, gen func() int32) {
	for i := range dst {
		dst[i] = int8(gen())
	}
}

// FillInt16 fills dst from the generator, truncating to int16.
func FillInt16(dst []int16, gen func() int32) {
	for i := range dst {
		dst[i] = int16(gen())
	}
}
