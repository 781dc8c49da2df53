package cmd

import (
	"strconv"

	"soce-backend/services/sweep"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.AddCommand(sweepRunCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run sweeps against the portal.",
}

var sweepRunCmd = &cobra.Command{
	Use:   "run <process-id>",
	Short: "Sweeps every provider of the process's category and persists the offers.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		processID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal(err)
		}

		final, err := service.StartSweep(ctx, processID, sweep.SinkFunc(func(msg string) {
			cmd.Println(msg)
		}))
		if err != nil {
			fatal(err)
		}
		cmd.Printf("sweep %d completed: %d/%d with offers, %d sin datos, %d errors\n",
			final.ID, final.Succeeded, final.TotalProviders, final.NoData, final.Errored)
	},
}
