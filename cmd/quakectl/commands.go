package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/xlsx"
	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

func newSummaryCmd(g *globals) *cobra.Command {
	var column string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Descriptive statistics of one numeric column",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := g.load()
			if err != nil {
				return err
			}
			values, ok := ds.Numeric(column)
			if !ok {
				return fmt.Errorf("%w: %s is not a numeric column (have %s)",
					domain.ErrMissingColumns, column, strings.Join(ds.NumericColumns(), ", "))
			}
			s, err := analysis.Describe(column, values)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g.format, s, func(w io.Writer) {
				fmt.Fprintf(w, "Statistic\t%s\n", column)
				for _, st := range s.Rows() {
					if st.Name == "Count" {
						fmt.Fprintf(w, "%s\t%d\n", st.Name, s.Count)
						continue
					}
					fmt.Fprintf(w, "%s\t%s\n", st.Name, analysis.FormatFixed(st.Value, 6))
				}
			})
		},
	}
	cmd.Flags().StringVar(&column, "column", domain.ColMagnitude, "numeric column to describe")
	return cmd
}

func newGroupsCmd(g *globals) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Earthquake counts by country (top 10) or continent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			groupBy, err := analysis.ParseGroupBy(by)
			if err != nil {
				return err
			}
			ds, err := g.load()
			if err != nil {
				return err
			}
			groups := analysis.GroupCounts(ds.Records, groupBy)
			return render(cmd.OutOrStdout(), g.format, groups, func(w io.Writer) {
				fmt.Fprintf(w, "%s\tCount\n", groupBy)
				for _, gc := range groups {
					fmt.Fprintf(w, "%s\t%d\n", gc.Name, gc.Count)
				}
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", string(analysis.GroupByCountry), "group by Country or Continent")
	return cmd
}

func newForecastCmd(g *globals) *cobra.Command {
	opts := analysis.DefaultForecastOptions()
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fit a linear trend to yearly counts and predict future years",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.ToYear < opts.FromYear {
				return fmt.Errorf("--to (%d) must not be before --from (%d)", opts.ToYear, opts.FromYear)
			}
			ds, err := g.load()
			if err != nil {
				return err
			}
			trend, err := analysis.FitYearlyTrend(analysis.CountByYear(ds.Records), opts)
			if err != nil {
				return fmt.Errorf("forecast: %w", err)
			}
			return render(cmd.OutOrStdout(), g.format, trend, func(w io.Writer) {
				fmt.Fprintf(w, "Intercept\t%.4f\n", trend.Intercept)
				fmt.Fprintf(w, "Slope\t%.4f\n", trend.Slope)
				fmt.Fprintf(w, "Mean Squared Error (MSE)\t%.2f\n", trend.MSE)
				fmt.Fprintln(w)
				fmt.Fprintln(w, "Year\tPredicted_Earthquakes")
				for _, p := range trend.Predictions {
					fmt.Fprintf(w, "%d\t%d\n", p.Year, p.Count)
				}
			})
		},
	}
	cmd.Flags().IntVar(&opts.FromYear, "from", opts.FromYear, "first predicted year")
	cmd.Flags().IntVar(&opts.ToYear, "to", opts.ToYear, "last predicted year")
	cmd.Flags().Float64Var(&opts.TestSize, "test-size", opts.TestSize, "share of years held out to score the fit")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "seed of the train/test shuffle")
	return cmd
}

func newClustersCmd(g *globals) *cobra.Command {
	var (
		columns []string
		k       int
		seed    uint64
	)
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "K-means clusters over standardized numeric columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(columns) == 0 {
				return errors.New("--columns is required")
			}
			if k < analysis.MinClusters || k > analysis.MaxClusters {
				return fmt.Errorf("--k must be between %d and %d", analysis.MinClusters, analysis.MaxClusters)
			}
			ds, err := g.load()
			if err != nil {
				return err
			}
			kopts := analysis.DefaultKMeansOptions(k)
			kopts.Seed = seed
			c, err := analysis.Cluster(ds, columns, kopts)
			if err != nil {
				return fmt.Errorf("cluster: %w", err)
			}
			return render(cmd.OutOrStdout(), g.format, c, func(w io.Writer) {
				fmt.Fprintf(w, "Cluster\t%s\tSize\n", strings.Join(c.Columns, "\t"))
				for _, m := range c.Means {
					fmt.Fprintf(w, "%d", m.Cluster)
					for _, v := range m.Means {
						fmt.Fprintf(w, "\t%s", analysis.FormatFixed(v, 4))
					}
					fmt.Fprintf(w, "\t%d\n", m.Size)
				}
			})
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "comma-separated numeric columns")
	cmd.Flags().IntVar(&k, "k", analysis.DefaultClusters, "number of clusters")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "seed of the centre initialization")
	return cmd
}

func newExportCmd(g *globals) *cobra.Command {
	var column, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the statistics workbook (.xlsx)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := g.load()
			if err != nil {
				return err
			}
			report, err := analysis.BuildReport(ds, column)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := xlsx.Write(f, report); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (column %s)\n", out, report.Summary.Column)
			return nil
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "numeric column to summarize (default: first numeric column)")
	cmd.Flags().StringVar(&out, "out", "summary.xlsx", "output workbook path")
	return cmd
}
