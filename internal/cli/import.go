package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/dataset"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

func newImportCmd(o *rootOptions) *cobra.Command {
	var (
		file        string
		armColumn   string
		valueColumn string
		kind        string
		control     string
	)

	cmd := &cobra.Command{
		Use:   "import <experiment>",
		Short: "Load observations from a CSV or XLSX file",
		Long: `Import one observation per row from a CSV or Excel file. The arm column
names the arm and the value column holds the outcome (0/1 for conversion
experiments).

The experiment is created on first import with its arms in the order they
appear in the file, or with --control first. Later imports append.

Examples:
  abtest import signup --file signups.csv
  abtest import revenue --file orders.xlsx#June --kind continuous --value-column amount
  abtest import signup --file signups.csv --control baseline`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			table, err := dataset.ReadTable(file)
			if err != nil {
				return err
			}
			groups, err := table.GroupBy(armColumn, valueColumn)
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				return fmt.Errorf("no observations found in %s", file)
			}

			var observations []store.Observation
			arms := make([]string, 0, len(groups))
			for _, g := range groups {
				arms = append(arms, g.Arm)
				for _, v := range g.Values {
					observations = append(observations, store.Observation{Arm: g.Arm, Value: v})
				}
			}
			if control != "" {
				i := slices.Index(arms, control)
				if i < 0 {
					return fmt.Errorf("control arm %q not found in %s", control, file)
				}
				arms = append([]string{control}, slices.Delete(arms, i, i+1)...)
			}

			return o.withStore(func(s *store.SQLStore) error {
				ctx := context.Background()

				_, err := s.GetExperiment(ctx, name)
				switch {
				case errors.Is(err, store.ErrNotFound):
					if _, err := s.CreateExperiment(ctx, name, store.Kind(kind), arms); err != nil {
						return fmt.Errorf("failed to create experiment: %w", err)
					}
					o.logger.Info("created experiment", zap.String("experiment", name), zap.Strings("arms", arms))
				case err != nil:
					return fmt.Errorf("failed to get experiment: %w", err)
				}

				if err := s.AddObservations(ctx, name, observations); err != nil {
					return fmt.Errorf("failed to import observations: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d observations into '%s':\n", len(observations), name)
				for _, g := range groups {
					fmt.Fprintf(out, "  %s: %d\n", g.Arm, len(g.Values))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX file; append #Sheet to pick an Excel sheet (required)")
	cmd.Flags().StringVar(&armColumn, "arm-column", "arm", "column holding the arm name")
	cmd.Flags().StringVar(&valueColumn, "value-column", "value", "column holding the observed value")
	cmd.Flags().StringVarP(&kind, "kind", "k", string(store.KindConversion), "experiment kind when creating: conversion or continuous")
	cmd.Flags().StringVar(&control, "control", "", "arm to use as control when creating (default: first arm in the file)")
	cmd.MarkFlagRequired("file")

	return cmd
}
