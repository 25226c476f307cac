package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

func newListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all experiments",
		Long:  `List the experiments in the sample store with their arms and observation counts.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStore(func(s *store.SQLStore) error {
				return runList(cmd, s)
			})
		},
	}
}

func runList(cmd *cobra.Command, s *store.SQLStore) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	experiments, err := s.ListExperiments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list experiments: %w", err)
	}

	if len(experiments) == 0 {
		fmt.Fprintln(out, "No experiments yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Import observations to create one:")
		fmt.Fprintln(out, "  abtest import <name> --file data.csv")
		return nil
	}

	// Print table
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tARMS\tOBSERVATIONS\tCREATED")

	for _, e := range experiments {
		counts, err := s.ArmCounts(ctx, e.Name)
		if err != nil {
			return fmt.Errorf("failed to get counts for experiment %s: %w", e.Name, err)
		}

		total := 0
		for _, c := range counts {
			total += c.Total
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Name,
			strings.ToUpper(string(e.Kind)),
			strings.Join(e.Arms, ", "),
			report.FormatCount(total),
			e.CreatedAt.Format("2006-01-02"),
		)
	}

	return w.Flush()
}
