package cmd

import (
	"os"
	"strconv"

	"soce-backend/lib/amount"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(offersCmd)
}

var offersCmd = &cobra.Command{
	Use:   "offers <process-id>",
	Short: "Prints the offers and attachments of the process's latest sweep.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		processID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal(err)
		}

		latest, offers, attachments, err := service.LatestSweep(ctx, processID)
		if err != nil {
			fatal(err)
		}

		cmd.Printf("sweep %d (%s): %d providers, %d with offers, %d sin datos, %d errors\n",
			latest.ID, latest.Status, latest.TotalProviders,
			latest.Succeeded, latest.NoData, latest.Errored)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Provider", "Ruc", "No.", "Description", "Unit", "Qty", "Unit Price", "Total"})
		for _, o := range offers {
			t.AppendRow(table.Row{
				o.ProviderName, o.ProviderRuc, o.ItemNumber, o.Description, o.Unit,
				amount.Format(o.Quantity), amount.Format(o.UnitPrice), amount.Format(o.LineTotal),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		if len(attachments) == 0 {
			return
		}
		t = table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Ruc", "Filename", "Url"})
		for _, a := range attachments {
			t.AppendRow(table.Row{a.ProviderRuc, a.Filename, a.Url})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
