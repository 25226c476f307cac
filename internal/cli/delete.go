package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

func newDeleteCmd(o *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <experiment>",
		Short: "Delete an experiment and its observations",
		Long: `Delete an experiment and every observation recorded for it.

Example:
  abtest delete signup --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if !force {
				return fmt.Errorf("refusing to delete '%s' without --force", name)
			}

			return o.withStore(func(s *store.SQLStore) error {
				if err := s.DeleteExperiment(context.Background(), name); err != nil {
					if err == store.ErrNotFound {
						return fmt.Errorf("experiment '%s' not found", name)
					}
					return fmt.Errorf("failed to delete experiment: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted experiment '%s'\n", name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deletion")
	return cmd
}
