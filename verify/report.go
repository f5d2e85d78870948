package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// A Report aggregates case results. Overall failure is signaled by a
// nonzero total mismatch count or any case-level error.
type Report struct {
	Cases []CaseResult

	TotalMismatches int
	FailedCases     int
}

// Add appends a case result and updates the totals.
func (r *Report) Add(result CaseResult) {
	r.Cases = append(r.Cases, result)
	r.TotalMismatches += result.MismatchCount
	if !result.Passed() {
		r.FailedCases++
	}
}

// Passed reports whether every case completed with zero mismatches.
func (r *Report) Passed() bool {
	return r.FailedCases == 0
}

// WriteReport writes a formatted report to a writer.
func (r *Report) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "GEMM ACCELERATOR VERIFICATION REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Case", "Dims", "Type", "Cycles", "Mismatches", "Result"})
	for _, c := range r.Cases {
		result := "PASS"
		if !c.Passed() {
			result = "FAIL"
		}

		mismatches := fmt.Sprintf("%d", c.MismatchCount)
		if c.Err != nil {
			mismatches = "-"
		}

		t.AppendRow(table.Row{
			c.Name,
			fmt.Sprintf("%dx%dx%d", c.Config.M, c.Config.K, c.Config.N),
			c.Config.DataType.Name(),
			c.Cycles,
			mismatches,
			result,
		})
	}
	t.Render()

	for _, c := range r.Cases {
		if c.Passed() {
			continue
		}

		fmt.Fprintf(w, "\nCase %q:\n", c.Name)
		if c.Err != nil {
			fmt.Fprintf(w, "  ⚠ %v\n", c.Err)
			continue
		}

		fmt.Fprintf(w, "  ⚠ %d mismatching elements (first %d shown):\n",
			c.MismatchCount, len(c.Mismatches))
		for _, m := range c.Mismatches {
			fmt.Fprintf(w, "    Error at index %d: HW=%d, REF=%d\n",
				m.Index, m.Hardware, m.Ref)
		}
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Cases: %d run, %d failed\n", len(r.Cases), r.FailedCases)
	fmt.Fprintf(w, "Total mismatches: %d\n", r.TotalMismatches)

	if r.Passed() {
		fmt.Fprintln(w, "✓ HARDWARE MATCHES REFERENCE")
	} else {
		fmt.Fprintln(w, "⚠ HARDWARE DIVERGES FROM REFERENCE")
	}

	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file.
func (r *Report) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
