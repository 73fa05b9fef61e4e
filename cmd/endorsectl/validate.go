package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
)

func newValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the criteria weights and the decision matrix of a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Dataset YAML file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runValidate(w io.Writer, file string) error {
	ds, err := loadDataset(file)
	if err != nil {
		return err
	}
	set, err := ds.criterionSet()
	if err != nil {
		return explain(err)
	}
	renderWeights(w, set)
	if err := set.Err(); err != nil {
		return explain(err)
	}

	m, err := ds.matrix()
	if err != nil {
		return explain(err)
	}
	if m.Len() > 0 {
		if _, err := scoring.Normalize(m, set); err != nil {
			return explain(err)
		}
	}
	fmt.Fprintf(w, "%d influencers, %d criteria: dataset is ready to rank\n", m.Len(), set.Len())
	return nil
}
