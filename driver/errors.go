package driver

import (
	"errors"
	"fmt"

	"github.com/sarchlab/gemmverify/accel"
)

// State errors. Both are rejected before any register write; the caller
// must re-check the controller state before retrying.
var (
	// ErrBusy is returned when an operation is requested while another
	// operation is outstanding.
	ErrBusy = errors.New("accelerator is busy")

	// ErrNotInitialized is returned when the controller is used before
	// Init has completed.
	ErrNotInitialized = errors.New("driver not initialized")

	// ErrResetRequired is returned when an operation is requested after
	// a hardware fault that has not been cleared by Reset.
	ErrResetRequired = errors.New("accelerator in error state, reset required")
)

// ErrPollBudget indicates the accelerator stayed busy for the full poll
// budget. The hardware is considered stuck; a HardwareFault wrapping
// this sentinel is returned.
var ErrPollBudget = errors.New("poll budget exhausted while accelerator busy")

// A HardwareFault reports that the accelerator signaled ERROR, or that
// it never left BUSY within the poll budget. The fault is terminal for
// the operation: Reset is mandatory before the controller can be used
// again.
type HardwareFault struct {
	Op     string
	Status accel.Status
	Err    error
}

func (e *HardwareFault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hardware fault during %s: %s", e.Op, e.Err)
	}

	return fmt.Sprintf("hardware fault during %s: status %s", e.Op, e.Status.Name())
}

func (e *HardwareFault) Unwrap() error {
	return e.Err
}
