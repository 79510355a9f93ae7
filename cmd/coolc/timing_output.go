package main

import (
	"encoding/json"
	"fmt"
	"io"

	"coolc/internal/driver"
	"coolc/internal/observ"
)

func printTimings(out io.Writer, results []*driver.Result, asJSON bool) error {
	total := driver.MergeTimers(results)
	if asJSON {
		enc := json.NewEncoder(out)
		return enc.Encode(struct {
			Files   int           `json:"files"`
			Timings observ.Report `json:"timings"`
		}{len(results), total.Report()})
	}
	_, err := fmt.Fprintf(out, "%d file(s)\n%s", len(results), total.Summary())
	return err
}
