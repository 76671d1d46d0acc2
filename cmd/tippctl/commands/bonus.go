package commands

import (
	"strings"

	"tippassist-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(bonusCmd)
}

var bonusCmd = &cobra.Command{
	Use:   "bonus",
	Short: "Lists the open bonus questions and your answers.",
	Run: func(cmd *cobra.Command, args []string) {
		client := createViewClient()

		questions, err := client.BonusQuestions(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch bonus questions", err)
		}
		answers, err := client.BonusAnswers(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch bonus answers", err)
		}

		labels := map[string]string{}
		for _, q := range questions {
			for _, opt := range q.Options {
				labels[q.Id+"/"+opt.Id] = opt.Label
			}
		}

		t := newTable()
		t.AppendHeader(table.Row{"Id", "Question", "Choices", "Answer"})
		for _, q := range questions {
			choices := len(q.FieldNames)

			var answer []string
			for _, optionId := range answers[q.Id].OptionIds {
				if label, ok := labels[q.Id+"/"+optionId]; ok {
					answer = append(answer, label)
				} else {
					answer = append(answer, optionId)
				}
			}

			t.AppendRow(table.Row{
				q.Id,
				q.Text,
				choices,
				strings.Join(answer, ", "),
			})
		}
		t.Render()
	},
}
