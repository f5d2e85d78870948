// Package accel defines the commonly used data structures for the GEMM
// accelerator: the register map, control and status bits, and the
// interfaces the driver programs against.
package accel

// Reg names a 32-bit register in the accelerator's register block.
type Reg uint32

// Register offsets from the accelerator base address.
const (
	RegCtrl     Reg = 0x00
	RegStatus   Reg = 0x04
	RegMatrixA  Reg = 0x08
	RegMatrixB  Reg = 0x0C
	RegMatrixC  Reg = 0x10
	RegMDim     Reg = 0x14
	RegKDim     Reg = 0x18
	RegNDim     Reg = 0x1C
	RegDataType Reg = 0x20
	RegStrideA  Reg = 0x24
	RegStrideB  Reg = 0x28
	RegStrideC  Reg = 0x2C
)

// Name returns the name of the register.
func (r Reg) Name() string {
	switch r {
	case RegCtrl:
		return "CTRL"
	case RegStatus:
		return "STATUS"
	case RegMatrixA:
		return "MATRIX_A_ADDR"
	case RegMatrixB:
		return "MATRIX_B_ADDR"
	case RegMatrixC:
		return "MATRIX_C_ADDR"
	case RegMDim:
		return "M_DIM"
	case RegKDim:
		return "K_DIM"
	case RegNDim:
		return "N_DIM"
	case RegDataType:
		return "DATA_TYPE"
	case RegStrideA:
		return "STRIDE_A"
	case RegStrideB:
		return "STRIDE_B"
	case RegStrideC:
		return "STRIDE_C"
	default:
		panic("invalid register")
	}
}

// Control register bits. Writing CtrlStart triggers hardware execution;
// writing CtrlReset aborts and clears in-flight state.
const (
	CtrlStart uint32 = 1 << 0
	CtrlReset uint32 = 1 << 1
	CtrlIRQEn uint32 = 1 << 2
)

// Status register bits.
const (
	StatusBusy  uint32 = 1 << 0
	StatusDone  uint32 = 1 << 1
	StatusError uint32 = 1 << 2
)

// Status is a snapshot of the STATUS register.
type Status uint32

// Busy reports whether the accelerator is executing an operation.
func (s Status) Busy() bool {
	return uint32(s)&StatusBusy != 0
}

// Done reports whether the last operation completed successfully.
func (s Status) Done() bool {
	return uint32(s)&StatusDone != 0
}

// Error reports whether the last operation failed.
func (s Status) Error() bool {
	return uint32(s)&StatusError != 0
}

// Name returns a readable name for the status snapshot.
func (s Status) Name() string {
	switch {
	case s.Error():
		return "Error"
	case s.Busy():
		return "Busy"
	case s.Done():
		return "Done"
	default:
		return "Idle"
	}
}

// DataType selects the element type of the input matrices.
type DataType uint32

const (
	Int8  DataType = 0
	Int16 DataType = 1
)

// Name returns the name of the data type.
func (t DataType) Name() string {
	switch t {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	default:
		panic("invalid data type")
	}
}

// Valid reports whether the data type is one the hardware supports.
func (t DataType) Valid() bool {
	return t == Int8 || t == Int16
}

// ElemBytes returns the size of one input element in bytes.
func (t DataType) ElemBytes() uint32 {
	switch t {
	case Int8:
		return 1
	case Int16:
		return 2
	default:
		panic("invalid data type")
	}
}

// A RegisterFile is the raw interface to the accelerator's register
// block. Each read observes the current hardware value and each write
// takes effect before the next register access. This layer performs no
// validation; a simulated register block can substitute for real
// memory-mapped hardware in tests.
type RegisterFile interface {
	Read(reg Reg) uint32
	Write(reg Reg, value uint32)
}

// A CycleCounter provides monotonic cycle readings. The counter is 32
// bits wide and may wrap; consumers must subtract with native uint32
// arithmetic.
type CycleCounter interface {
	Cycles() uint32
}
