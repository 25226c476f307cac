package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/dataset"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

// withStore opens the database, executes the function, and handles cleanup.
func (o *rootOptions) withStore(fn func(*store.SQLStore) error) error {
	s, err := store.Open(o.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	return fn(s)
}

// render writes a to the command's stdout in the --format format.
func (o *rootOptions) render(cmd *cobra.Command, a *report.Analysis) error {
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), format, a)
}

// sampleFlags reads two numeric arms either inline or from files.
type sampleFlags struct {
	control       string
	treatment     string
	controlFile   string
	treatmentFile string
	column        string
}

func (f *sampleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.control, "control", "", "control values, comma-separated")
	cmd.Flags().StringVar(&f.treatment, "treatment", "", "treatment values, comma-separated")
	cmd.Flags().StringVar(&f.controlFile, "control-file", "", "CSV or XLSX file holding the control values")
	cmd.Flags().StringVar(&f.treatmentFile, "treatment-file", "", "CSV or XLSX file holding the treatment values")
	cmd.Flags().StringVar(&f.column, "column", "value", "column to read from --control-file and --treatment-file")
	cmd.MarkFlagsMutuallyExclusive("control", "control-file")
	cmd.MarkFlagsMutuallyExclusive("treatment", "treatment-file")
}

func (f *sampleFlags) load() (control, treatment []float64, err error) {
	if control, err = loadValues("control", f.control, f.controlFile, f.column); err != nil {
		return nil, nil, err
	}
	if treatment, err = loadValues("treatment", f.treatment, f.treatmentFile, f.column); err != nil {
		return nil, nil, err
	}
	return control, treatment, nil
}

func loadValues(arm, inline, file, column string) ([]float64, error) {
	switch {
	case file != "":
		table, err := dataset.ReadTable(file)
		if err != nil {
			return nil, err
		}
		values, err := table.Column(column)
		if err != nil {
			return nil, fmt.Errorf("%s file: %w", arm, err)
		}
		return values, nil
	case inline != "":
		values, err := dataset.ParseFloats(inline)
		if err != nil {
			return nil, fmt.Errorf("%s values: %w", arm, err)
		}
		return values, nil
	default:
		return nil, errors.New("need --" + arm + " or --" + arm + "-file")
	}
}
