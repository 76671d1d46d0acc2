package commands

import (
	"strconv"

	"tippassist-backend/lib/scrapers/kicktipp/view"
	"tippassist-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

func formatScore(r view.HistoricalResult) string {
	if r.HomeGoals == nil || r.AwayGoals == nil {
		return "-:-"
	}
	return strconv.Itoa(*r.HomeGoals) + ":" + strconv.Itoa(*r.AwayGoals)
}

var historyCmd = &cobra.Command{
	Use:   "history <home team> <away team>",
	Short: "Shows the past meetings of the fixture's two teams.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := createViewClient()

		results, err := client.HeadToHead(cmd.Context(), view.Matchup{
			Home: args[0],
			Away: args[1],
		})
		if err != nil {
			serviceutil.Fatal("failed to fetch head-to-head results", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Competition", "Home", "Away", "Score", "Note"})
		for _, r := range results {
			t.AppendRow(table.Row{r.Competition, r.Home, r.Away, formatScore(r), r.Annotation})
		}
		t.Render()
	},
}
