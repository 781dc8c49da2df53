package cmd

import (
	"soce-backend/lib/scrapers/soce"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(calibrateCmd)
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate <process-code> <ruc>",
	Short: "Derives the decimal-separator policy from one live proforma page.",
	Long: `Fetches the proforma page of a provider known to have a valid offer and
finds the separator policy under which the line totals sum to the grand
total. Put the result in the amounts block of config.json5.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		snap, err := client.Fetch(ctx, args[0], args[1])
		if err != nil {
			fatal(err)
		}
		format, err := soce.CalibrateAmounts(ctx, snap)
		if err != nil {
			fatal(err)
		}

		cmd.Printf(`amounts: {
  quantity: %q,
  unit_price: %q,
  line_total: %q,
  total: %q,
}
`,
			format.Quantity.String(), format.UnitPrice.String(),
			format.LineTotal.String(), format.Total.String())
	},
}
