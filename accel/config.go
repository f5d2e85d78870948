package accel

import "fmt"

// Config describes one GEMM operation: C[M x N] = A[M x K] * B[K x N].
//
// The matrix addresses are opaque buffer handles in the accelerator's
// address space; the driver forwards them to hardware and never
// dereferences them. Strides are row pitches in elements and may exceed
// the corresponding dimension to address a sub-matrix view. Strides are
// deliberately not validated against the dimensions.
type Config struct {
	MatrixA uint32
	MatrixB uint32
	MatrixC uint32

	M uint32
	K uint32
	N uint32

	DataType DataType

	StrideA uint32
	StrideB uint32
	StrideC uint32
}

// Validate checks the fields the hardware rejects: zero dimensions and
// unsupported data types. It runs before any register write, so a
// rejected config leaves hardware state untouched.
func (c Config) Validate() error {
	if c.M == 0 {
		return &ConfigError{Field: "M", Reason: "dimension must be positive"}
	}

	if c.K == 0 {
		return &ConfigError{Field: "K", Reason: "dimension must be positive"}
	}

	if c.N == 0 {
		return &ConfigError{Field: "N", Reason: "dimension must be positive"}
	}

	if !c.DataType.Valid() {
		return &ConfigError{
			Field:  "DataType",
			Reason: fmt.Sprintf("unsupported data type %d", c.DataType),
		}
	}

	return nil
}

// String formats the config the way the hardware log reports it.
func (c Config) String() string {
	return fmt.Sprintf("%dx%dx%d %s", c.M, c.K, c.N, c.DataType.Name())
}

// A ConfigError reports a config field the hardware cannot accept.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}
