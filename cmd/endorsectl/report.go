package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Endorse/internal/export"
	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
)

func newReportCmd() *cobra.Command {
	var (
		file      string
		kinds     []string
		format    string
		threshold float64
		out       string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render ranking, criteria, summary or analysis reports",
		Long: `Ranks the dataset and renders the selected report kinds in one document.
Each kind supports a subset of csv, json and yaml; a combined report is only
available in the formats every selected kind supports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := reportOpts{file: file, kinds: kinds, format: format, out: out}
			if cmd.Flags().Changed("threshold") {
				opts.threshold = &threshold
			}
			return runReport(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Dataset YAML file (required)")
	cmd.Flags().StringSliceVar(&kinds, "kind", []string{"ranking"}, "Report kinds: ranking, criteria, summary, analysis")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: csv, json or yaml")
	cmd.Flags().Float64Var(&threshold, "threshold", scoring.DefaultTierThreshold, "Minimum score for the fairly recommended tier")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the report to this file (default: stdout)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

type reportOpts struct {
	file      string
	kinds     []string
	format    string
	threshold *float64
	out       string
}

func runReport(w io.Writer, opts reportOpts) error {
	kinds, err := export.ParseKinds(opts.kinds)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	ds, err := loadDataset(opts.file)
	if err != nil {
		return err
	}
	set, err := ds.criterionSet()
	if err != nil {
		return explain(err)
	}
	ranking, err := computeRanking(ds, ds.threshold(opts.threshold), false)
	if err != nil {
		return explain(err)
	}

	rep := export.Report{
		Ranking:     ranking,
		Criteria:    ds.Criteria,
		Validation:  set.Validate(),
		Influencers: len(ds.Influencers),
		GeneratedAt: time.Now().UTC(),
	}

	if opts.out == "" {
		return export.Render(w, rep, kinds, format)
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := export.Render(f, rep, kinds, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s report to %s\n", format, opts.out)
	return nil
}
