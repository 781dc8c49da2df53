package cmd

import (
	"os"
	"strconv"
	"strings"
	"time"

	"soce-backend/services/sweep/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.AddCommand(processAddCmd)
	processCmd.AddCommand(processListCmd)
	processCmd.AddCommand(processRmCmd)
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Manage procurement processes.",
}

var processAddCmd = &cobra.Command{
	Use:   "add <code> <category-id> [name...]",
	Short: "Registers a procurement process under a category.",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		categoryID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fatal(err)
		}
		id, err := service.Queries().CreateProcess(ctx, db.CreateProcessParams{
			Code:       strings.TrimSpace(args[0]),
			Name:       strings.Join(args[2:], " "),
			CategoryID: categoryID,
			CreatedAt:  time.Now().Unix(),
		})
		if err != nil {
			fatal(err)
		}
		cmd.Printf("created process %d\n", id)
	},
}

var processListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints all processes.",
	Run: func(cmd *cobra.Command, args []string) {
		processes, err := service.Queries().ListProcesses(ctx)
		if err != nil {
			fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Code", "Name", "Category", "Created"})
		for _, p := range processes {
			t.AppendRow(table.Row{
				p.ID, p.Code, p.Name, p.CategoryID,
				time.Unix(p.CreatedAt, 0).Format(time.DateOnly),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var processRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Deletes a process together with its sweep history.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal(err)
		}
		if err := service.DeleteProcess(ctx, id); err != nil {
			fatal(err)
		}
	},
}
