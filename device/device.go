// Package device implements a cycle-level simulated GEMM accelerator.
// It stands in for the real memory-mapped hardware behind the
// accel.RegisterFile interface: the driver programs it through register
// reads and writes only, exactly as it would the physical device.
package device

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gemmverify/accel"
)

// A Device is a simulated GEMM accelerator with its own DRAM. It
// computes one output row per cycle.
type Device struct {
	*sim.TickingComponent

	freq sim.Freq

	regs [12]uint32
	mem  []byte

	job *job
}

type job struct {
	cfg     accel.Config
	nextRow uint32
}

// Read returns the current value of a register. Reading STATUS while a
// job is in flight lets the event engine run the job to completion: the
// hardware races ahead of the slow register poll, so this read still
// observes BUSY and the next one observes the final status.
func (d *Device) Read(reg accel.Reg) uint32 {
	value := d.regs[regIndex(reg)]

	if reg == accel.RegStatus && accel.Status(value).Busy() {
		err := d.Engine.Run()
		if err != nil {
			panic(err)
		}
	}

	return value
}

// Write sets a register. Writing START to CTRL latches the current
// configuration registers into a job; writing RESET aborts any job in
// flight and clears the status bits. START and RESET are self-clearing
// pulse bits and read back as zero.
func (d *Device) Write(reg accel.Reg, value uint32) {
	if reg != accel.RegCtrl {
		d.regs[regIndex(reg)] = value
		return
	}

	d.regs[regIndex(accel.RegCtrl)] = value & accel.CtrlIRQEn

	if value&accel.CtrlReset != 0 {
		d.job = nil
		d.regs[regIndex(accel.RegStatus)] = 0
		return
	}

	if value&accel.CtrlStart != 0 && d.job == nil {
		d.start()
	}
}

func (d *Device) start() {
	cfg := accel.Config{
		MatrixA:  d.regs[regIndex(accel.RegMatrixA)],
		MatrixB:  d.regs[regIndex(accel.RegMatrixB)],
		MatrixC:  d.regs[regIndex(accel.RegMatrixC)],
		M:        d.regs[regIndex(accel.RegMDim)],
		K:        d.regs[regIndex(accel.RegKDim)],
		N:        d.regs[regIndex(accel.RegNDim)],
		DataType: accel.DataType(d.regs[regIndex(accel.RegDataType)]),
		StrideA:  d.regs[regIndex(accel.RegStrideA)],
		StrideB:  d.regs[regIndex(accel.RegStrideB)],
		StrideC:  d.regs[regIndex(accel.RegStrideC)],
	}

	if !d.configAddressable(cfg) {
		d.regs[regIndex(accel.RegStatus)] = accel.StatusError
		return
	}

	d.regs[regIndex(accel.RegStatus)] = accel.StatusBusy
	d.job = &job{cfg: cfg}

	// TickLater, not TickNow: after a previous job's last tick the
	// scheduler's next-tick time already equals the current time, and
	// TickNow would silently schedule nothing.
	d.TickLater()
}

// configAddressable checks what the RTL checks: the configured dims,
// strides, and base addresses must stay inside device memory, and the
// data type must decode. Stride versus dimension is not checked.
func (d *Device) configAddressable(cfg accel.Config) bool {
	if cfg.M == 0 || cfg.K == 0 || cfg.N == 0 {
		return false
	}

	if !cfg.DataType.Valid() {
		return false
	}

	elem := uint64(cfg.DataType.ElemBytes())
	memSize := uint64(len(d.mem))

	lastA := uint64(cfg.MatrixA) +
		(uint64(cfg.M-1)*uint64(cfg.StrideA)+uint64(cfg.K-1)+1)*elem
	lastB := uint64(cfg.MatrixB) +
		(uint64(cfg.K-1)*uint64(cfg.StrideB)+uint64(cfg.N-1)+1)*elem
	lastC := uint64(cfg.MatrixC) +
		(uint64(cfg.M-1)*uint64(cfg.StrideC)+uint64(cfg.N-1)+1)*4

	return lastA <= memSize && lastB <= memSize && lastC <= memSize
}

// Tick computes one row of the output matrix.
func (d *Device) Tick() (madeProgress bool) {
	if d.job == nil {
		return false
	}

	cfg := d.job.cfg
	row := d.job.nextRow

	for col := uint32(0); col < cfg.N; col++ {
		var sum int32
		for i := uint32(0); i < cfg.K; i++ {
			a := d.loadElem(cfg.DataType, cfg.MatrixA, row*cfg.StrideA+i)
			b := d.loadElem(cfg.DataType, cfg.MatrixB, i*cfg.StrideB+col)
			sum += a * b
		}

		addr := cfg.MatrixC + (row*cfg.StrideC+col)*4
		binary.LittleEndian.PutUint32(d.mem[addr:addr+4], uint32(sum))
	}

	d.job.nextRow++
	if d.job.nextRow == cfg.M {
		d.job = nil
		d.regs[regIndex(accel.RegStatus)] = accel.StatusDone
	}

	return true
}

func (d *Device) loadElem(t accel.DataType, base uint32, index uint32) int32 {
	switch t {
	case accel.Int8:
		return int32(int8(d.mem[base+index]))
	case accel.Int16:
		addr := base + index*2
		return int32(int16(binary.LittleEndian.Uint16(d.mem[addr : addr+2])))
	default:
		panic("invalid data type")
	}
}

// Cycles returns the device cycle counter, derived from the engine's
// virtual time. The counter truncates to 32 bits and may wrap.
func (d *Device) Cycles() uint32 {
	return uint32(uint64(float64(d.Engine.CurrentTime()) * float64(d.freq)))
}

// WriteMemory copies data into device memory at baseAddr.
func (d *Device) WriteMemory(data []byte, baseAddr uint32) {
	if int(baseAddr)+len(data) > len(d.mem) {
		panic(fmt.Sprintf(
			"write of %d bytes at 0x%x exceeds device memory", len(data), baseAddr))
	}

	copy(d.mem[baseAddr:], data)
}

// ReadMemory returns a copy of n bytes of device memory at baseAddr.
func (d *Device) ReadMemory(baseAddr uint32, n uint32) []byte {
	if int(baseAddr)+int(n) > len(d.mem) {
		panic(fmt.Sprintf(
			"read of %d bytes at 0x%x exceeds device memory", n, baseAddr))
	}

	out := make([]byte, n)
	copy(out, d.mem[baseAddr:])

	return out
}

// MemCapacity returns the size of the device DRAM in bytes.
func (d *Device) MemCapacity() uint32 {
	return uint32(len(d.mem))
}

func regIndex(reg accel.Reg) int {
	if reg > accel.RegStrideC || reg%4 != 0 {
		panic("invalid register")
	}

	return int(reg / 4)
}
