package commands

import (
	"tippassist-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(standingsCmd)
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Shows the community ranking.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createViewClient()

		standings, err := client.Standings(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch standings", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Rank", "Name", "Points"})
		for _, s := range standings {
			t.AppendRow(table.Row{s.Rank, s.Name, s.Points})
		}
		t.Render()
	},
}
