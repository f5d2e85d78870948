package verify

import (
	"fmt"

	"github.com/sarchlab/gemmverify/accel"
)

// StandardSuite returns the acceptance cases: square problems from 8 to
// 32 in both element types, and the two large int8 problems.
func StandardSuite() []TestCase {
	dims := []struct {
		size  uint32
		types []accel.DataType
	}{
		{8, []accel.DataType{accel.Int8, accel.Int16}},
		{16, []accel.DataType{accel.Int8, accel.Int16}},
		{32, []accel.DataType{accel.Int8, accel.Int16}},
		{64, []accel.DataType{accel.Int8}},
		{128, []accel.DataType{accel.Int8}},
	}

	var cases []TestCase
	seed := int64(1)
	for _, d := range dims {
		for _, t := range d.types {
			cases = append(cases, TestCase{
				Name:     fmt.Sprintf("%dx%dx%d %s", d.size, d.size, d.size, t.Name()),
				M:        d.size,
				K:        d.size,
				N:        d.size,
				DataType: t,
				Seed:     seed,
			})
			seed++
		}
	}

	return cases
}
