package device

import (
	"github.com/sarchlab/akita/v4/sim"
)

const defaultMemCapacity = 1 << 20

// DeviceBuilder can build simulated GEMM accelerators.
type DeviceBuilder struct {
	engine      sim.Engine
	freq        sim.Freq
	memCapacity uint32
}

// WithEngine sets the engine that drives the device simulation.
func (b DeviceBuilder) WithEngine(engine sim.Engine) DeviceBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the device.
func (b DeviceBuilder) WithFreq(freq sim.Freq) DeviceBuilder {
	b.freq = freq
	return b
}

// WithMemCapacity sets the size of the device DRAM in bytes.
func (b DeviceBuilder) WithMemCapacity(capacity uint32) DeviceBuilder {
	b.memCapacity = capacity
	return b
}

// Build creates a device.
func (b DeviceBuilder) Build(name string) *Device {
	if b.engine == nil {
		panic("Need an engine")
	}

	capacity := b.memCapacity
	if capacity == 0 {
		capacity = defaultMemCapacity
	}

	d := &Device{
		freq: b.freq,
		mem:  make([]byte, capacity),
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}
