// Package driver implements the control state machine for the GEMM
// accelerator.
package driver

import (
	"github.com/sarchlab/gemmverify/accel"
)

// State is the driver-tracked state of the accelerator.
type State int

const (
	StateUninitialized State = iota
	StateIdle
	StateBusy
	StateDone
	StateError
)

// Name returns the name of the state.
func (s State) Name() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateIdle:
		return "Idle"
	case StateBusy:
		return "Busy"
	case StateDone:
		return "Done"
	case StateError:
		return "Error"
	default:
		panic("invalid state")
	}
}

// A Controller drives one GEMM accelerator through its register block.
//
// Exactly one operation may be outstanding per controller instance, and
// the type performs no internal locking: if multiple goroutines contend
// for the device, the caller must serialize ConfigureAndStart through
// WaitForCompletion as one critical section.
type Controller interface {
	// Init resets the accelerator and brings the controller to Idle.
	// Calling Init on an initialized controller is a no-op success.
	Init() error

	// ConfigureAndStart validates the config, programs the register
	// block, and issues START. Validation happens before any register
	// write, so a rejected call leaves hardware state untouched.
	ConfigureAndStart(cfg accel.Config) error

	// WaitForCompletion busy-polls status until the accelerator leaves
	// BUSY, then returns the elapsed cycle count of the operation. On a
	// hardware error the controller enters Error and Reset is required
	// before reuse.
	WaitForCompletion() (elapsedCycles uint32, err error)

	// Status returns the current hardware status from a single register
	// read, without mutating controller-tracked state.
	Status() accel.Status

	// State returns the driver-tracked state.
	State() State

	// Reset forces a hardware reset and returns the controller to Idle
	// from any state, clearing any error condition. Resetting while Busy
	// is a destructive abort: the in-flight result is undefined and must
	// not be read.
	Reset() error

	// SetInterruptEnable sets or clears the IRQ-enable control bit,
	// leaving all other control bits untouched.
	SetInterruptEnable(enable bool)

	// IsBusy reports whether the hardware status shows BUSY.
	IsBusy() bool

	// IsDone reports whether the hardware status shows DONE.
	IsDone() bool

	// HasError reports whether the hardware status shows ERROR.
	HasError() bool
}

type controllerImpl struct {
	name string

	regs       accel.RegisterFile
	cycles     accel.CycleCounter
	pollBudget uint64

	state       State
	startCycles uint32
}

func (c *controllerImpl) Init() error {
	if c.state != StateUninitialized {
		return nil
	}

	return c.Reset()
}

func (c *controllerImpl) ConfigureAndStart(cfg accel.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch c.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateBusy:
		return ErrBusy
	case StateError:
		return ErrResetRequired
	}

	if c.Status().Busy() {
		return ErrBusy
	}

	c.regs.Write(accel.RegMatrixA, cfg.MatrixA)
	c.regs.Write(accel.RegMatrixB, cfg.MatrixB)
	c.regs.Write(accel.RegMatrixC, cfg.MatrixC)
	c.regs.Write(accel.RegMDim, cfg.M)
	c.regs.Write(accel.RegKDim, cfg.K)
	c.regs.Write(accel.RegNDim, cfg.N)
	c.regs.Write(accel.RegDataType, uint32(cfg.DataType))
	c.regs.Write(accel.RegStrideA, cfg.StrideA)
	c.regs.Write(accel.RegStrideB, cfg.StrideB)
	c.regs.Write(accel.RegStrideC, cfg.StrideC)

	c.regs.Write(accel.RegCtrl, accel.CtrlStart)
	c.startCycles = c.cycles.Cycles()
	c.state = StateBusy

	Trace("Driver",
		"Behavior", "Start",
		"Config", cfg.String(),
		"StartCycles", c.startCycles,
	)

	return nil
}

func (c *controllerImpl) WaitForCompletion() (uint32, error) {
	if c.state == StateUninitialized {
		return 0, ErrNotInitialized
	}

	status, err := c.pollNotBusy()
	if err != nil {
		c.state = StateError
		return 0, &HardwareFault{Op: "wait", Status: status, Err: err}
	}

	if status.Error() {
		c.state = StateError
		return 0, &HardwareFault{Op: "wait", Status: status}
	}

	// Native uint32 subtraction stays correct across counter wrap.
	endCycles := c.cycles.Cycles()
	elapsed := endCycles - c.startCycles
	c.state = StateIdle

	Trace("Driver",
		"Behavior", "Complete",
		"ElapsedCycles", elapsed,
	)

	return elapsed, nil
}

func (c *controllerImpl) Status() accel.Status {
	return accel.Status(c.regs.Read(accel.RegStatus))
}

func (c *controllerImpl) State() State {
	return c.state
}

func (c *controllerImpl) Reset() error {
	c.regs.Write(accel.RegCtrl, accel.CtrlReset)

	status, err := c.pollNotBusy()
	if err != nil {
		c.state = StateError
		return &HardwareFault{Op: "reset", Status: status, Err: err}
	}

	c.state = StateIdle

	Trace("Driver", "Behavior", "Reset")

	return nil
}

func (c *controllerImpl) SetInterruptEnable(enable bool) {
	ctrl := c.regs.Read(accel.RegCtrl)
	if enable {
		ctrl |= accel.CtrlIRQEn
	} else {
		ctrl &^= accel.CtrlIRQEn
	}
	c.regs.Write(accel.RegCtrl, ctrl)
}

func (c *controllerImpl) IsBusy() bool {
	return c.Status().Busy()
}

func (c *controllerImpl) IsDone() bool {
	return c.Status().Done()
}

func (c *controllerImpl) HasError() bool {
	return c.Status().Error()
}

// pollNotBusy spins on the status register until the hardware clears
// BUSY or the poll budget runs out.
func (c *controllerImpl) pollNotBusy() (accel.Status, error) {
	var status accel.Status

	for polls := uint64(0); ; polls++ {
		status = c.Status()
		if !status.Busy() {
			return status, nil
		}

		if polls+1 >= c.pollBudget {
			return status, ErrPollBudget
		}
	}
}
