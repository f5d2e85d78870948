package driver

import "github.com/sarchlab/gemmverify/accel"

// The accelerator finishes the largest supported problem in far fewer
// cycles than this, so exhausting the budget means stuck hardware.
const defaultPollBudget = 1 << 20

// ControllerBuilder creates a new instance of Controller.
type ControllerBuilder struct {
	regs       accel.RegisterFile
	cycles     accel.CycleCounter
	pollBudget uint64
}

// WithRegisterFile sets the register block the controller programs.
func (b ControllerBuilder) WithRegisterFile(regs accel.RegisterFile) ControllerBuilder {
	b.regs = regs
	return b
}

// WithCycleCounter sets the cycle-count source used for performance
// measurement.
func (b ControllerBuilder) WithCycleCounter(cycles accel.CycleCounter) ControllerBuilder {
	b.cycles = cycles
	return b
}

// WithPollBudget bounds every busy-poll loop. Zero keeps the default.
func (b ControllerBuilder) WithPollBudget(budget uint64) ControllerBuilder {
	b.pollBudget = budget
	return b
}

// Build creates a controller. The controller starts Uninitialized and
// must be brought to Idle with Init before use.
func (b ControllerBuilder) Build(name string) Controller {
	if b.regs == nil {
		panic("Need a register file")
	}

	if b.cycles == nil {
		panic("Need a cycle counter")
	}

	budget := b.pollBudget
	if budget == 0 {
		budget = defaultPollBudget
	}

	return &controllerImpl{
		name:       name,
		regs:       b.regs,
		cycles:     b.cycles,
		pollBudget: budget,
		state:      StateUninitialized,
	}
}
