package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/quake-dashboard/internal/config"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var formats = []string{formatText, formatJSON, formatYAML}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	dataPath string
	format   string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "quakectl",
		Short:         "Query the earthquake catalogue",
		Long:          "Print statistics, groupings, forecasts and clusters derived from the earthquake CSV, or export them to a workbook.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !slices.Contains(formats, g.format) {
				return fmt.Errorf("unsupported format %q (want one of %v)", g.format, formats)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.dataPath, "data", config.DatasetPathFromEnv(), "path to the earthquake CSV file")
	root.PersistentFlags().StringVarP(&g.format, "format", "o", formatText, "output format: text, json or yaml")

	root.AddCommand(
		newSummaryCmd(g),
		newGroupsCmd(g),
		newForecastCmd(g),
		newClustersCmd(g),
		newExportCmd(g),
		newValidateCmd(g),
	)
	return root
}

// load reads the dataset without geocoding or metrics.
func (g *globals) load() (*domain.Dataset, error) {
	f, err := os.Open(g.dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, g.dataPath)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return csvfile.Parse(f, g.dataPath)
}
