package cmd

import (
	"soce-backend/lib/serviceutil"
	"soce-backend/services/sweep/server"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the process/offer read API and the sweep event stream.",
	Run: func(cmd *cobra.Command, args []string) {
		port := cfg.ServePort
		if port == 0 {
			port = 8000
		}
		go serviceutil.StartHttpServer(port, server.New(service).Mux())
		<-ctx.Done()
	},
}
