package device

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/gemmverify/accel"
)

var _ = Describe("Device", func() {
	var (
		engine sim.Engine
		dev    *Device
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		dev = DeviceBuilder{}.
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithMemCapacity(1 << 16).
			Build("Device")
	})

	programConfig := func(cfg accel.Config) {
		dev.Write(accel.RegMatrixA, cfg.MatrixA)
		dev.Write(accel.RegMatrixB, cfg.MatrixB)
		dev.Write(accel.RegMatrixC, cfg.MatrixC)
		dev.Write(accel.RegMDim, cfg.M)
		dev.Write(accel.RegKDim, cfg.K)
		dev.Write(accel.RegNDim, cfg.N)
		dev.Write(accel.RegDataType, uint32(cfg.DataType))
		dev.Write(accel.RegStrideA, cfg.StrideA)
		dev.Write(accel.RegStrideB, cfg.StrideB)
		dev.Write(accel.RegStrideC, cfg.StrideC)
	}

	readC := func(addr uint32, n int) []int32 {
		raw := dev.ReadMemory(addr, uint32(n*4))
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return out
	}

	It("should compute the literal 2x2 int8 product", func() {
		dev.WriteMemory([]byte{1, 2, 3, 4}, 0x100)
		dev.WriteMemory([]byte{5, 6, 7, 8}, 0x200)

		programConfig(accel.Config{
			MatrixA: 0x100, MatrixB: 0x200, MatrixC: 0x300,
			M: 2, K: 2, N: 2,
			DataType: accel.Int8,
			StrideA:  2, StrideB: 2, StrideC: 2,
		})
		dev.Write(accel.RegCtrl, accel.CtrlStart)

		first := accel.Status(dev.Read(accel.RegStatus))
		Expect(first.Busy()).To(BeTrue())

		final := accel.Status(dev.Read(accel.RegStatus))
		Expect(final.Done()).To(BeTrue())
		Expect(final.Busy()).To(BeFalse())

		Expect(readC(0x300, 4)).To(Equal([]int32{19, 22, 43, 50}))
	})

	It("should compute an int16 product with negative elements", func() {
		aElems := []int16{-300, 20}
		bElems := []int16{100, -7}
		a := make([]byte, 4)
		b := make([]byte, 4)
		for i := range aElems {
			binary.LittleEndian.PutUint16(a[i*2:], uint16(aElems[i]))
			binary.LittleEndian.PutUint16(b[i*2:], uint16(bElems[i]))
		}

		dev.WriteMemory(a, 0x100)
		dev.WriteMemory(b, 0x200)

		programConfig(accel.Config{
			MatrixA: 0x100, MatrixB: 0x200, MatrixC: 0x300,
			M: 1, K: 2, N: 1,
			DataType: accel.Int16,
			StrideA:  2, StrideB: 1, StrideC: 1,
		})
		dev.Write(accel.RegCtrl, accel.CtrlStart)

		for accel.Status(dev.Read(accel.RegStatus)).Busy() {
		}

		Expect(readC(0x300, 1)).To(Equal([]int32{-300*100 + 20*(-7)}))
	})

	It("should run back-to-back jobs on the same device", func() {
		cfg := accel.Config{
			MatrixA: 0x100, MatrixB: 0x200, MatrixC: 0x300,
			M: 2, K: 2, N: 2,
			DataType: accel.Int8,
			StrideA:  2, StrideB: 2, StrideC: 2,
		}

		dev.WriteMemory([]byte{1, 2, 3, 4}, 0x100)
		dev.WriteMemory([]byte{5, 6, 7, 8}, 0x200)
		programConfig(cfg)
		dev.Write(accel.RegCtrl, accel.CtrlStart)
		for accel.Status(dev.Read(accel.RegStatus)).Busy() {
		}
		Expect(readC(0x300, 4)).To(Equal([]int32{19, 22, 43, 50}))

		// A second START must schedule compute ticks again, even though
		// the engine already ran to the end of the first job.
		dev.WriteMemory([]byte{2, 0, 0, 2}, 0x100)
		programConfig(cfg)
		dev.Write(accel.RegCtrl, accel.CtrlStart)

		status := accel.Status(dev.Read(accel.RegStatus))
		Expect(status.Busy()).To(BeTrue())
		status = accel.Status(dev.Read(accel.RegStatus))
		Expect(status.Done()).To(BeTrue())
		Expect(readC(0x300, 4)).To(Equal([]int32{10, 12, 14, 16}))
	})

	It("should raise ERROR on an unknown data type", func() {
		programConfig(accel.Config{
			MatrixA: 0x100, MatrixB: 0x200, MatrixC: 0x300,
			M: 2, K: 2, N: 2,
			DataType: 7,
			StrideA:  2, StrideB: 2, StrideC: 2,
		})
		dev.Write(accel.RegCtrl, accel.CtrlStart)

		status := accel.Status(dev.Read(accel.RegStatus))
		Expect(status.Error()).To(BeTrue())
		Expect(status.Busy()).To(BeFalse())
	})

	It("should raise ERROR when a matrix would fall outside memory", func() {
		programConfig(accel.Config{
			MatrixA: 0xFFFF, MatrixB: 0x200, MatrixC: 0x300,
			M: 64, K: 64, N: 64,
			DataType: accel.Int8,
			StrideA:  64, StrideB: 64, StrideC: 64,
		})
		dev.Write(accel.RegCtrl, accel.CtrlStart)

		Expect(accel.Status(dev.Read(accel.RegStatus)).Error()).To(BeTrue())
	})

	It("should clear status on RESET", func() {
		programConfig(accel.Config{
			MatrixA: 0x100, MatrixB: 0x200, MatrixC: 0x300,
			M: 2, K: 2, N: 2,
			DataType: 7,
			StrideA:  2, StrideB: 2, StrideC: 2,
		})
		dev.Write(accel.RegCtrl, accel.CtrlStart)
		Expect(accel.Status(dev.Read(accel.RegStatus)).Error()).To(BeTrue())

		dev.Write(accel.RegCtrl, accel.CtrlReset)

		Expect(dev.Read(accel.RegStatus)).To(Equal(uint32(0)))
	})

	It("should keep START and RESET as self-clearing pulse bits", func() {
		dev.Write(accel.RegCtrl, accel.CtrlReset|accel.CtrlIRQEn)

		Expect(dev.Read(accel.RegCtrl)).To(Equal(accel.CtrlIRQEn))
	})

	It("should advance the cycle counter while computing", func() {
		dev.WriteMemory(make([]byte, 64*64), 0x100)
		dev.WriteMemory(make([]byte, 64*64), 0x1100)

		programConfig(accel.Config{
			MatrixA: 0x100, MatrixB: 0x1100, MatrixC: 0x2100,
			M: 64, K: 64, N: 1,
			DataType: accel.Int8,
			StrideA:  64, StrideB: 1, StrideC: 1,
		})

		before := dev.Cycles()
		dev.Write(accel.RegCtrl, accel.CtrlStart)
		for accel.Status(dev.Read(accel.RegStatus)).Busy() {
		}
		after := dev.Cycles()

		// One row per cycle.
		Expect(after - before).To(BeNumerically(">=", 63))
	})

	It("should honor strides larger than the dimensions", func() {
		// 2x2 logical matrices with row pitch 4.
		dev.WriteMemory([]byte{1, 2, 99, 99, 3, 4, 99, 99}, 0x100)
		dev.WriteMemory([]byte{5, 6, 99, 99, 7, 8, 99, 99}, 0x200)

		programConfig(accel.Config{
			MatrixA: 0x100, MatrixB: 0x200, MatrixC: 0x300,
			M: 2, K: 2, N: 2,
			DataType: accel.Int8,
			StrideA:  4, StrideB: 4, StrideC: 4,
		})
		dev.Write(accel.RegCtrl, accel.CtrlStart)
		for accel.Status(dev.Read(accel.RegStatus)).Busy() {
		}

		c := readC(0x300, 8)
		Expect(c[0:2]).To(Equal([]int32{19, 22}))
		Expect(c[4:6]).To(Equal([]int32{43, 50}))
	})
})
