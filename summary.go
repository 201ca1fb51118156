package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"

	"panelshot/capture"
)

// summaryRows builds the table rows for renderSummary, header and total row included.
func summaryRows(results []capture.Result) [][]string {
	rows := make([][]string, len(results)+2) // +2 to account for the header and total row
	rows[0] = []string{"Target", "Step", "Status", "File", "Elapsed"}

	var total time.Duration
	ok := 0
	for i, res := range results {
		file := "-"
		if res.File != "" {
			file = filepath.Base(res.File)
		}
		rows[i+1] = []string{res.Target, string(res.Step), string(res.Status), file, res.Elapsed.Round(time.Millisecond).String()}
		total += res.Elapsed
		if res.Status == capture.StatusOK || res.Status == capture.StatusFallback {
			ok++
		}
	}

	rows[len(results)+1] = []string{"Total", "", fmt.Sprintf("%d/%d saved", ok, len(results)), "", total.Round(time.Millisecond).String()}
	return rows
}

func renderSummary(results []capture.Result) error {
	return pterm.DefaultTable.WithHasHeader(true).WithData(summaryRows(results)).Render()
}
