package view

import (
	"context"
	"testing"

	"tippassist-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const bonusPage = `<html><body>
<div class="bonusfrage">
	<div class="bonusfrage-titel">Wer wird Deutscher Meister?</div>
	<select name="bonusTippForms[0].auswahlIds">
		<option value="">Bitte wählen</option>
		<option value="101">Team A</option>
		<option value="102" selected="selected">Team B</option>
		<option value="103">Team C</option>
	</select>
</div>
<div class="bonusfrage">
	<div class="bonusfrage-titel">Welche drei Teams steigen ab?</div>
	<select name="bonusTippForms[1].auswahlIds">
		<option value="">Bitte wählen</option>
		<option value="201">Team D</option>
		<option value="202">Team E</option>
		<option value="203">Team F</option>
	</select>
	<select name="bonusTippForms[1].auswahlIds2">
		<option value="">Bitte wählen</option>
		<option value="201">Team D</option>
		<option value="202">Team E</option>
		<option value="203">Team F</option>
	</select>
	<select name="bonusTippForms[1].auswahlIds3">
		<option value="">Bitte wählen</option>
		<option value="201">Team D</option>
		<option value="202">Team E</option>
		<option value="203">Team F</option>
	</select>
</div>
<div class="bonusfrage">
	<div class="bonusfrage-titel">Wer wird Torschützenkönig?</div>
	<div class="bonusfrage-abgelaufen">Team G</div>
</div>
</body></html>`

func TestBonusQuestions(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	client := newTestClient(t, servePage(map[string]string{
		"/testrunde/tippabgabe": bonusPage,
	}))

	questions, err := client.BonusQuestions(context.Background())
	require.NoError(t, err)

	// the locked third question renders without selects and is absent
	want := []BonusQuestion{
		{
			Id:         "bonusTippForms[0].auswahlIds",
			Text:       "Wer wird Deutscher Meister?",
			FieldNames: []string{"bonusTippForms[0].auswahlIds"},
			Options: []BonusOption{
				{Id: "101", Label: "Team A"},
				{Id: "102", Label: "Team B"},
				{Id: "103", Label: "Team C"},
			},
			MultiSelect: false,
		},
		{
			Id:   "bonusTippForms[1].auswahlIds",
			Text: "Welche drei Teams steigen ab?",
			FieldNames: []string{
				"bonusTippForms[1].auswahlIds",
				"bonusTippForms[1].auswahlIds2",
				"bonusTippForms[1].auswahlIds3",
			},
			Options: []BonusOption{
				{Id: "201", Label: "Team D"},
				{Id: "202", Label: "Team E"},
				{Id: "203", Label: "Team F"},
			},
			MultiSelect: true,
		},
	}
	if diff := cmp.Diff(want, questions); diff != "" {
		t.Fatalf("questions mismatch (-want +got):\n%s", diff)
	}
}

func TestBonusAnswers(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	client := newTestClient(t, servePage(map[string]string{
		"/testrunde/tippabgabe": bonusPage,
	}))

	answers, err := client.BonusAnswers(context.Background())
	require.NoError(t, err)

	// only the first question has a selection, the unanswered one has no
	// key at all
	require.Len(t, answers, 1)
	require.Equal(t, BonusAnswer{OptionIds: []string{"102"}}, answers["bonusTippForms[0].auswahlIds"])
	_, ok := answers["bonusTippForms[1].auswahlIds"]
	require.False(t, ok)
}

func TestBonusQuestionsMissingPage(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	client := newTestClient(t, servePage(map[string]string{}))

	questions, err := client.BonusQuestions(context.Background())
	require.NoError(t, err)
	require.Empty(t, questions)

	answers, err := client.BonusAnswers(context.Background())
	require.NoError(t, err)
	require.Empty(t, answers)
}
