// Command quakectl prints the dashboard's derived tables from the command
// line and exports the statistics workbook.
//
// Usage:
//
//	quakectl summary --column magnitude
//	quakectl groups --by continent --format yaml
//	quakectl forecast --from 2025 --to 2030
//	quakectl clusters --columns depth,magnitude --k 4
//	quakectl export --column depth --out summary.xlsx
//	quakectl validate
//
// The dataset path defaults to DATASET_PATH and can be overridden with --data.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
