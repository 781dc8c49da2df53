package cmd

import (
	"database/sql"
	"os"
	"strconv"
	"strings"

	"soce-backend/services/sweep/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(providerCmd)
	providerCmd.AddCommand(providerAddCmd)
	providerCmd.AddCommand(providerListCmd)
	providerCmd.AddCommand(providerAssignCmd)

	providerAddCmd.Flags().Int64Var(&providerAddCategory, "category", 0, "Category id to place the provider in.")
}

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Manage providers.",
}

var providerAddCategory int64

var providerAddCmd = &cobra.Command{
	Use:   "add <ruc> [name...]",
	Short: "Creates a provider identified by its ruc.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		category := sql.NullInt64{}
		if providerAddCategory != 0 {
			category = sql.NullInt64{Int64: providerAddCategory, Valid: true}
		}
		id, err := service.Queries().CreateProvider(ctx, db.CreateProviderParams{
			Ruc:        strings.TrimSpace(args[0]),
			Name:       strings.Join(args[1:], " "),
			CategoryID: category,
		})
		if err != nil {
			fatal(err)
		}
		cmd.Printf("created provider %d\n", id)
	},
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints all providers.",
	Run: func(cmd *cobra.Command, args []string) {
		providers, err := service.Queries().ListProviders(ctx)
		if err != nil {
			fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Ruc", "Name", "Email", "Phone", "Category"})
		for _, p := range providers {
			category := ""
			if p.CategoryID.Valid {
				category = strconv.FormatInt(p.CategoryID.Int64, 10)
			}
			t.AppendRow(table.Row{p.Ruc, p.Name, p.Email, p.Phone, category})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var providerAssignCmd = &cobra.Command{
	Use:   "assign <ruc> <category-id>",
	Short: "Moves a provider into a category.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		categoryID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fatal(err)
		}
		err = service.Queries().AssignProviderCategory(ctx, db.AssignProviderCategoryParams{
			CategoryID: sql.NullInt64{Int64: categoryID, Valid: true},
			Ruc:        strings.TrimSpace(args[0]),
		})
		if err != nil {
			fatal(err)
		}
	},
}
