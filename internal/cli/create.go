package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

func newCreateCmd(o *rootOptions) *cobra.Command {
	var (
		arms string
		kind string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty experiment in the sample store",
		Long: `Create an experiment with the given arms. The first arm is the control.

Conversion experiments accept 0/1 observations; continuous experiments
accept any finite value.

Examples:
  abtest create signup --arms "control,treatment"
  abtest create revenue --arms "control,b,c" --kind continuous`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			armList := splitList(arms)
			if len(armList) < 2 {
				return fmt.Errorf("need at least 2 arms. Example: --arms \"control,treatment\"")
			}

			return o.withStore(func(s *store.SQLStore) error {
				e, err := s.CreateExperiment(context.Background(), name, store.Kind(kind), armList)
				if err != nil {
					return fmt.Errorf("failed to create experiment: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created %s experiment '%s' with %d arms:\n", e.Kind, e.Name, len(e.Arms))
				for i, arm := range e.Arms {
					role := ""
					if i == 0 {
						role = " (control)"
					}
					fmt.Fprintf(out, "  %d: %s%s\n", i, arm, role)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&arms, "arms", "a", "control,treatment", "comma-separated arm names, control first")
	cmd.Flags().StringVarP(&kind, "kind", "k", string(store.KindConversion), "conversion or continuous")

	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
