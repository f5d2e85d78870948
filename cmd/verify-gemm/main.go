// Command verify-gemm runs the standard GEMM acceptance suite against
// the simulated accelerator and reports per-case mismatch detail.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/gemmverify/device"
	"github.com/sarchlab/gemmverify/driver"
	"github.com/sarchlab/gemmverify/verify"
)

var (
	monitorFlag = flag.Bool("monitor", false,
		"start the akita monitoring server")
	reportFile = flag.String("report", "",
		"also save the report to this file")
)

func main() {
	flag.Parse()

	engine := sim.NewSerialEngine()

	var monitor *monitoring.Monitor
	if *monitorFlag {
		monitor = monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
	}

	dev := device.DeviceBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Device")
	if monitor != nil {
		monitor.RegisterComponent(dev)
		monitor.StartServer()
	}

	controller := driver.ControllerBuilder{}.
		WithRegisterFile(dev).
		WithCycleCounter(dev).
		Build("Driver")

	if err := controller.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize accelerator:", err)
		atexit.Exit(1)
	}

	harness := verify.NewHarness(controller, dev)
	report := harness.RunCases(verify.StandardSuite())

	report.WriteReport(os.Stdout)
	if *reportFile != "" {
		if err := report.SaveReportToFile(*reportFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			atexit.Exit(1)
		}
	}

	if !report.Passed() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
