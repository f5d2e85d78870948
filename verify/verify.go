// Package verify drives test cases through both the golden software
// model and the accelerator driver, and diffs the results element-wise.
//
// Every output mismatch is a reportable defect, never transient: no
// case is retried, and a single differing element fails the run.
package verify

import (
	"encoding/binary"

	"github.com/sarchlab/gemmverify/accel"
	"github.com/sarchlab/gemmverify/device"
	"github.com/sarchlab/gemmverify/driver"
	"github.com/sarchlab/gemmverify/oracle"
)

// A TestCase describes one verification run. Strides default to the
// matching dimension when zero. A and B, when non-nil, supply the input
// matrices directly; otherwise inputs are generated from Seed covering
// the full element range of the data type.
type TestCase struct {
	Name     string
	M, K, N  uint32
	DataType accel.DataType

	StrideA, StrideB, StrideC uint32

	Seed int64
	A, B []int32
}

// A Mismatch records one output element where hardware and reference
// disagree. Index is the flat index into the C buffer.
type Mismatch struct {
	Index    int
	Hardware int32
	Ref      int32
}

// A CaseResult holds the outcome of one test case.
type CaseResult struct {
	Name   string
	Config accel.Config
	Cycles uint32

	// MismatchCount counts every differing element; Mismatches keeps
	// only the first few for diagnostics.
	MismatchCount int
	Mismatches    []Mismatch

	Err error
}

// Passed reports whether the case completed with zero mismatches.
func (r CaseResult) Passed() bool {
	return r.Err == nil && r.MismatchCount == 0
}

// A Harness runs test cases against one device/controller pair.
type Harness struct {
	controller driver.Controller
	dev        *device.Device

	// MaxRecorded bounds the per-case mismatch detail.
	MaxRecorded int
}

// NewHarness creates a harness. The controller must already drive the
// given device's register block.
func NewHarness(controller driver.Controller, dev *device.Device) *Harness {
	return &Harness{
		controller:  controller,
		dev:         dev,
		MaxRecorded: 10,
	}
}

// Harness memory layout: matrices are packed into device DRAM starting
// here, word-aligned, A then B then C.
const bufferBase uint32 = 0x100

// RunCase drives one full cycle: oracle expectation, device execution,
// element-wise diff.
func (h *Harness) RunCase(tc TestCase) CaseResult {
	tc = tc.withDefaults()

	result := CaseResult{Name: tc.Name}

	elem := tc.DataType.ElemBytes()
	aElems := tc.M * tc.StrideA
	bElems := tc.K * tc.StrideB
	cElems := tc.M * tc.StrideC

	addrA := bufferBase
	addrB := align4(addrA + aElems*elem)
	addrC := align4(addrB + bElems*elem)

	a := tc.A
	if a == nil {
		a = generate(aElems, tc.Seed, tc.DataType)
	}
	b := tc.B
	if b == nil {
		b = generate(bElems, tc.Seed+1, tc.DataType)
	}

	ref := make([]int32, cElems)
	computeRef(tc, a, b, ref)

	h.dev.WriteMemory(encodeElems(a, tc.DataType), addrA)
	h.dev.WriteMemory(encodeElems(b, tc.DataType), addrB)

	cfg := accel.Config{
		MatrixA:  addrA,
		MatrixB:  addrB,
		MatrixC:  addrC,
		M:        tc.M,
		K:        tc.K,
		N:        tc.N,
		DataType: tc.DataType,
		StrideA:  tc.StrideA,
		StrideB:  tc.StrideB,
		StrideC:  tc.StrideC,
	}
	result.Config = cfg

	if err := h.controller.ConfigureAndStart(cfg); err != nil {
		result.Err = err
		h.recoverController()
		return result
	}

	cycles, err := h.controller.WaitForCompletion()
	if err != nil {
		result.Err = err
		h.recoverController()
		return result
	}
	result.Cycles = cycles

	hw := decodeInt32s(h.dev.ReadMemory(addrC, cElems*4))
	h.compare(tc, hw, ref, &result)

	return result
}

// recoverController resets a faulted controller so that one failing
// case does not carry its error state into the cases after it.
func (h *Harness) recoverController() {
	if h.controller.State() != driver.StateError {
		return
	}

	_ = h.controller.Reset()
}

// RunCases runs every case and aggregates the results into a report.
func (h *Harness) RunCases(cases []TestCase) *Report {
	report := &Report{}
	for _, tc := range cases {
		report.Add(h.RunCase(tc))
	}

	return report
}

// compare diffs the logical output elements. Padding columns beyond N
// in a strided C buffer are not compared.
func (h *Harness) compare(tc TestCase, hw, ref []int32, result *CaseResult) {
	for row := uint32(0); row < tc.M; row++ {
		for col := uint32(0); col < tc.N; col++ {
			i := int(row*tc.StrideC + col)
			if hw[i] == ref[i] {
				continue
			}

			result.MismatchCount++
			if len(result.Mismatches) < h.MaxRecorded {
				result.Mismatches = append(result.Mismatches, Mismatch{
					Index:    i,
					Hardware: hw[i],
					Ref:      ref[i],
				})
			}
		}
	}
}

func (tc TestCase) withDefaults() TestCase {
	if tc.StrideA == 0 {
		tc.StrideA = tc.K
	}
	if tc.StrideB == 0 {
		tc.StrideB = tc.N
	}
	if tc.StrideC == 0 {
		tc.StrideC = tc.N
	}

	return tc
}

func computeRef(tc TestCase, a, b []int32, ref []int32) {
	m, k, n := int(tc.M), int(tc.K), int(tc.N)
	sa, sb, sc := int(tc.StrideA), int(tc.StrideB), int(tc.StrideC)

	switch tc.DataType {
	case accel.Int8:
		oracle.MultiplyInt8(toInt8s(a), toInt8s(b), ref, m, k, n, sa, sb, sc)
	case accel.Int16:
		oracle.MultiplyInt16(toInt16s(a), toInt16s(b), ref, m, k, n, sa, sb, sc)
	default:
		panic("invalid data type")
	}
}

func generate(n uint32, seed int64, t accel.DataType) []int32 {
	gen := oracle.MakeRandGen(seed, t)
	vals := make([]int32, n)
	for i := range vals {
		vals[i] = gen()
	}

	return vals
}

func toInt8s(vals []int32) []int8 {
	out := make([]int8, len(vals))
	for i, v := range vals {
		out[i] = int8(v)
	}

	return out
}

func toInt16s(vals []int32) []int16 {
	out := make([]int16, len(vals))
	for i, v := range vals {
		out[i] = int16(v)
	}

	return out
}

func encodeElems(vals []int32, t accel.DataType) []byte {
	switch t {
	case accel.Int8:
		out := make([]byte, len(vals))
		for i, v := range vals {
			out[i] = byte(int8(v))
		}
		return out
	case accel.Int16:
		out := make([]byte, len(vals)*2)
		for i, v := range vals {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
		}
		return out
	default:
		panic("invalid data type")
	}
}

func decodeInt32s(data []byte) []int32 {
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}

	return out
}

func align4(addr uint32) uint32 {
	return (addr + 3) &^ 3
}
