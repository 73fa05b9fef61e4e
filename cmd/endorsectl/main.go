// Package main provides the endorsectl CLI: offline SAW ranking of an
// influencer dataset file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "endorsectl",
		Short: "Rank influencer endorsement candidates with simple additive weighting",
		Long: `endorsectl reads a dataset of criteria and influencers, validates the
criteria weights and ranks the candidates into recommendation tiers.`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRankCmd(),
		newValidateCmd(),
		newNormalizeCmd(),
		newReportCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
