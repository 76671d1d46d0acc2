package commands

import (
	"strconv"
	"time"

	"tippassist-backend/lib/scrapers/kicktipp/view"
	"tippassist-backend/lib/serviceutil"
	"tippassist-backend/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(predictionsCmd)
}

const kickoffDisplayLayout = "02.01.2006 15:04"

// fixtureStatus renders the status column. Cancellation wins over the
// kickoff having passed.
func fixtureStatus(f view.Fixture, now time.Time) string {
	switch {
	case f.Cancelled:
		return "cancelled"
	case f.Kickoff.Before(now):
		return "started"
	}
	return ""
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Lists the current matchday's fixtures.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createViewClient()

		fixtures, err := client.Fixtures(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch fixtures", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Matchday", "Kickoff", "Home", "Away", "Status"})
		now := timezone.Now()
		for _, f := range fixtures {
			t.AppendRow(table.Row{
				f.Matchday,
				f.Kickoff.Format(kickoffDisplayLayout),
				f.Home,
				f.Away,
				fixtureStatus(f, now),
			})
		}
		t.Render()
	},
}

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Lists the current matchday's fixtures with your predictions.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createViewClient()

		rows, err := client.Predictions(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch predictions", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Home", "Away", "Prediction"})
		for _, row := range rows {
			prediction := "-"
			if row.Prediction != nil {
				prediction = strconv.Itoa(row.Prediction.Home) + ":" + strconv.Itoa(row.Prediction.Away)
			}
			t.AppendRow(table.Row{row.Fixture.Home, row.Fixture.Away, prediction})
		}
		t.Render()
	},
}
