package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/payoffhq/payoff/internal/export"

	"github.com/spf13/cobra"
)

var (
	flagOut     string
	flagSummary bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the payment schedule as CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().BoolVar(&flagSummary, "summary", false, "Write one row per debt instead of one per debt-month")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, _, _, err := sess.plan(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagOut, err)
		}
		defer f.Close()
		w = f
	}

	write := export.WriteCSV
	if flagSummary {
		write = export.WriteSummaryCSV
	}
	if err := write(w, res.Plan); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	if flagOut != "" {
		progress("  Wrote %s months to %s\n", formatNumber(int64(len(res.Plan.Months))), flagOut)
	}
	return nil
}
