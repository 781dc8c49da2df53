package cmd

import (
	"os"
	"strings"

	"soce-backend/services/sweep/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
}

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage provider categories.",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name> [description...]",
	Short: "Creates a provider category.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := service.Queries().CreateCategory(ctx, db.CreateCategoryParams{
			Name:        args[0],
			Description: strings.Join(args[1:], " "),
		})
		if err != nil {
			fatal(err)
		}
		cmd.Printf("created category %d\n", id)
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints all provider categories.",
	Run: func(cmd *cobra.Command, args []string) {
		categories, err := service.Queries().ListCategories(ctx)
		if err != nil {
			fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Name", "Description"})
		for _, c := range categories {
			t.AppendRow(table.Row{c.ID, c.Name, c.Description})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
