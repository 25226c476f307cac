package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/dataset"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

func newExportCmd(o *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <experiment>",
		Short: "Export raw observations",
		Long: `Export an experiment's observations as arm,value rows. Without --output the
CSV is written to stdout; an --output ending in .xlsx writes an Excel workbook.
The result can be loaded again with 'abtest import'.

Examples:
  abtest export signup > signup.csv
  abtest export revenue --output revenue.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			return o.withStore(func(s *store.SQLStore) error {
				table, err := observationTable(context.Background(), s, name)
				if err != nil {
					return err
				}

				switch ext := strings.ToLower(filepath.Ext(output)); {
				case output == "":
					return dataset.WriteCSV(cmd.OutOrStdout(), table)
				case ext == ".xlsx":
					if err := dataset.WriteXLSX(output, table); err != nil {
						return err
					}
				case ext == ".csv":
					if err := writeCSVFile(output, table); err != nil {
						return err
					}
				default:
					return fmt.Errorf("invalid output %q: must end in .csv or .xlsx", output)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d observations to %s\n", len(table.Rows), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a .csv or .xlsx file instead of stdout")
	return cmd
}

func observationTable(ctx context.Context, s *store.SQLStore, name string) (*dataset.Table, error) {
	e, err := s.GetExperiment(ctx, name)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("experiment '%s' not found", name)
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	table := &dataset.Table{Headers: []string{"arm", "value"}}
	for _, arm := range e.Arms {
		values, err := s.ArmValues(ctx, name, arm)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			table.Rows = append(table.Rows, []string{arm, strconv.FormatFloat(v, 'g', -1, 64)})
		}
	}
	return table, nil
}

func writeCSVFile(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := dataset.WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
