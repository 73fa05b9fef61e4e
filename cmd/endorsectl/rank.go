package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
)

func newRankCmd() *cobra.Command {
	var (
		file       string
		threshold  float64
		outputFmt  string
		normalized bool
		pareto     bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the influencers of a dataset",
		Long:  `Normalizes the decision matrix, computes weighted SAW scores and assigns recommendation tiers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := rankOpts{
				file:       file,
				outputFmt:  outputFmt,
				normalized: normalized,
				pareto:     pareto,
			}
			if cmd.Flags().Changed("threshold") {
				opts.threshold = &threshold
			}
			return runRank(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Dataset YAML file (required)")
	cmd.Flags().Float64Var(&threshold, "threshold", scoring.DefaultTierThreshold, "Minimum score for the fairly recommended tier")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&normalized, "normalized", false, "Include the normalized decision matrix")
	cmd.Flags().BoolVar(&pareto, "pareto", false, "Flag candidates on the Pareto front")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

type rankOpts struct {
	file       string
	threshold  *float64
	outputFmt  string
	normalized bool
	pareto     bool
}

type rankOutput struct {
	TierThreshold float64                   `json:"tier_threshold"`
	Criteria      []scoring.Criterion       `json:"criteria"`
	Candidates    []scoring.ScoredCandidate `json:"candidates"`
	Normalized    *scoring.NormalizedMatrix `json:"normalized,omitempty"`
}

func runRank(w io.Writer, opts rankOpts) error {
	if opts.outputFmt != "text" && opts.outputFmt != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", opts.outputFmt)
	}
	ds, err := loadDataset(opts.file)
	if err != nil {
		return err
	}
	ranking, err := computeRanking(ds, ds.threshold(opts.threshold), opts.pareto)
	if err != nil {
		return explain(err)
	}

	if opts.outputFmt == "json" {
		out := rankOutput{
			TierThreshold: ranking.TierThreshold,
			Criteria:      ranking.Criteria,
			Candidates:    ranking.Candidates,
		}
		if opts.normalized {
			out.Normalized = ranking.Normalized
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	renderRanking(w, ranking, opts.pareto)
	if opts.normalized {
		fmt.Fprintln(w)
		renderNormalized(w, ranking.Normalized)
	}
	return nil
}

func computeRanking(ds *Dataset, threshold float64, pareto bool) (*scoring.Ranking, error) {
	set, err := ds.criterionSet()
	if err != nil {
		return nil, err
	}
	m, err := ds.matrix()
	if err != nil {
		return nil, err
	}
	engine := scoring.NewEngine(scoring.RankConfig{TierThreshold: threshold}, pareto, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return engine.Compute(m, set)
}
