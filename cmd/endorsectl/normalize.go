package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newNormalizeCmd() *cobra.Command {
	var (
		file  string
		write bool
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Rescale the criteria weights of a dataset to sum to 100%",
		Long: `Divides every weight by the current sum and prints the resulting dataset.
With --write the dataset file is rewritten in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd.OutOrStdout(), file, write)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Dataset YAML file (required)")
	cmd.Flags().BoolVar(&write, "write", false, "Rewrite the dataset file instead of printing it")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runNormalize(w io.Writer, file string, write bool) error {
	ds, err := loadDataset(file)
	if err != nil {
		return err
	}
	set, err := ds.criterionSet()
	if err != nil {
		return explain(err)
	}
	normalized, err := set.NormalizeWeights()
	if err != nil {
		return explain(err)
	}
	for i, weight := range normalized.Weights() {
		ds.Criteria[i].Weight = weight
	}

	data, err := marshalDataset(ds)
	if err != nil {
		return err
	}
	if !write {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	fmt.Fprintf(w, "normalized %d weights in %s\n", set.Len(), file)
	return nil
}

func marshalDataset(ds *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
