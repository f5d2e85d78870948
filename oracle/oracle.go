// Package oracle provides the golden software model for the GEMM
// accelerator. The model is purely deterministic: identical inputs,
// dimensions, strides, and data type always yield identical output,
// which is what makes it usable as ground truth for verification.
//
// Accumulation is exact two's-complement arithmetic in a 32-bit signed
// accumulator. There is no rounding and no saturation; overflow beyond
// the int32 range wraps, matching the hardware bit-for-bit.
package oracle

// MultiplyInt8 computes C[m*strideC+n] = sum over k of
// A[m*strideA+k] * B[k*strideB+n] for int8 inputs.
//
// Strides are row pitches in elements and may exceed the corresponding
// dimension to address a sub-matrix view.
func MultiplyInt8(
	a []int8, b []int8, c []int32,
	m, k, n int,
	strideA, strideB, strideC int,
) {
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			var sum int32
			for i := 0; i < k; i++ {
				sum += int32(a[row*strideA+i]) * int32(b[i*strideB+col])
			}
			c[row*strideC+col] = sum
		}
	}
}

// MultiplyInt16 computes the same product for int16 inputs.
func MultiplyInt16(
	a []int16, b []int16, c []int32,
	m, k, n int,
	strideA, strideB, strideC int,
) {
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			var sum int32
			for i := 0; i < k; i++ {
				sum += int32(a[row*strideA+i]) * int32(b[i*strideB+col])
			}
			c[row*strideC+col] = sum
		}
	}
}
