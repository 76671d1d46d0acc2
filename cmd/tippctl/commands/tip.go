package commands

import (
	"fmt"
	"strconv"

	"tippassist-backend/lib/scrapers/kicktipp/edit"
	"tippassist-backend/lib/scrapers/kicktipp/view"
	"tippassist-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var tipOverride *bool
var answerOverride *bool

func init() {
	tipOverride = tipCmd.Flags().Bool("override", false, "Replace an already placed prediction.")
	answerOverride = answerCmd.Flags().Bool("override", false, "Replace an already placed answer.")
	rootCmd.AddCommand(tipCmd)
	rootCmd.AddCommand(answerCmd)
}

var tipCmd = &cobra.Command{
	Use:   "tip <home team> <away team> <home goals> <away goals> [--override]",
	Short: "Places a score prediction on one fixture.",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		home, err := strconv.Atoi(args[2])
		if err != nil || home < 0 {
			serviceutil.Fatal("invalid home goals", fmt.Errorf("%q is not a non-negative number", args[2]))
		}
		away, err := strconv.Atoi(args[3])
		if err != nil || away < 0 {
			serviceutil.Fatal("invalid away goals", fmt.Errorf("%q is not a non-negative number", args[3]))
		}

		client := createEditClient()
		ok, err := client.SubmitPredictions(cmd.Context(), map[view.Matchup]edit.PredictionUpdate{
			{Home: args[0], Away: args[1]}: {
				Prediction: view.Prediction{Home: home, Away: away},
				Override:   *tipOverride,
			},
		})
		if err != nil {
			serviceutil.Fatal("failed to submit prediction", err)
		}
		if !ok {
			serviceutil.Fatal("prediction not accepted", fmt.Errorf("the site rejected the submission"))
		}
		fmt.Println("prediction saved")
	},
}

var answerCmd = &cobra.Command{
	Use:   "answer <question id> <option id>... [--override]",
	Short: "Places an answer on one bonus question.",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client := createEditClient()
		ok, err := client.SubmitBonusAnswers(cmd.Context(), map[string]edit.BonusAnswerUpdate{
			args[0]: {
				OptionIds: args[1:],
				Override:  *answerOverride,
			},
		})
		if err != nil {
			serviceutil.Fatal("failed to submit answer", err)
		}
		if !ok {
			serviceutil.Fatal("answer not accepted", fmt.Errorf("the site rejected the submission"))
		}
		fmt.Println("answer saved")
	},
}
