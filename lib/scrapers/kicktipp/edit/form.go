package edit

import (
	"net/url"
	"strconv"
	"strings"

	"tippassist-backend/lib/htmlutil"
	"tippassist-backend/lib/scrapers/kicktipp/view"
	"tippassist-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type predictionRow struct {
	matchup   view.Matchup
	homeField string
	awayField string
	current   *view.Prediction
}

type bonusQuestion struct {
	id         string
	fieldNames []string
	selected   []string
}

// formSnapshot is the complete live state of the submission form: the
// declared action, every field with its current value, the save button,
// and the rows/questions the fields belong to.
type formSnapshot struct {
	action      string
	fields      url.Values
	submitName  string
	submitValue string
	rows        []predictionRow
	questions   []bonusQuestion
}

// parseForm snapshots the submission form. The action attribute is
// authoritative for where to POST, it may differ from the path the form
// was fetched from.
func parseForm(doc *goquery.Document, requestPath string) (formSnapshot, bool) {
	form := doc.Find("form#tippabgabeForm").First()
	if form.Length() == 0 {
		return formSnapshot{}, false
	}

	snapshot := formSnapshot{
		action: form.AttrOr("action", requestPath),
		fields: url.Values{},
	}

	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		switch input.AttrOr("type", "text") {
		case "submit":
			if snapshot.submitName == "" {
				snapshot.submitName = name
				snapshot.submitValue = input.AttrOr("value", "")
			}
		case "checkbox", "radio":
			if _, checked := input.Attr("checked"); checked {
				snapshot.fields.Add(name, input.AttrOr("value", ""))
			}
		default:
			// hidden fields and prediction inputs round-trip verbatim
			snapshot.fields.Add(name, input.AttrOr("value", ""))
		}
	})

	form.Find("button[type=submit]").Each(func(_ int, button *goquery.Selection) {
		name := button.AttrOr("name", "")
		if name != "" && snapshot.submitName == "" {
			snapshot.submitName = name
			snapshot.submitValue = button.AttrOr("value", "")
		}
	})

	form.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name := sel.AttrOr("name", "")
		if name == "" {
			return
		}
		selected := sel.Find("option[selected]")
		if selected.Length() == 0 {
			snapshot.fields.Add(name, "")
			return
		}
		selected.Each(func(_ int, opt *goquery.Selection) {
			snapshot.fields.Add(name, opt.AttrOr("value", ""))
		})
	})

	snapshot.rows = parsePredictionRows(form)
	snapshot.questions = parseBonusQuestions(form)
	return snapshot, true
}

func parsePredictionRows(form *goquery.Selection) []predictionRow {
	var rows []predictionRow

	form.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		home := htmlutil.CleanText(tr.Find("td.heim").First())
		away := htmlutil.CleanText(tr.Find("td.gast").First())
		if home == "" || away == "" {
			return
		}

		var homeField, awayField, homeVal, awayVal string
		tr.Find("input").Each(func(_ int, input *goquery.Selection) {
			name := input.AttrOr("name", "")
			switch {
			case strings.HasSuffix(name, ".heimTipp"):
				homeField = name
				homeVal = input.AttrOr("value", "")
			case strings.HasSuffix(name, ".gastTipp"):
				awayField = name
				awayVal = input.AttrOr("value", "")
			}
		})
		if homeField == "" || awayField == "" {
			return
		}

		rows = append(rows, predictionRow{
			matchup:   view.Matchup{Home: home, Away: away},
			homeField: homeField,
			awayField: awayField,
			current:   parseCurrentPrediction(homeVal, awayVal),
		})
	})

	return rows
}

// a prediction only exists when both fields parse, a half filled pair
// is absent and safe to overwrite without an override
func parseCurrentPrediction(homeVal, awayVal string) *view.Prediction {
	home, err := strconv.Atoi(strings.TrimSpace(homeVal))
	if err != nil || home < 0 {
		return nil
	}
	away, err := strconv.Atoi(strings.TrimSpace(awayVal))
	if err != nil || away < 0 {
		return nil
	}
	return &view.Prediction{Home: home, Away: away}
}

func parseBonusQuestions(form *goquery.Selection) []bonusQuestion {
	var questions []bonusQuestion

	form.Find("div.bonusfrage").Each(func(_ int, block *goquery.Selection) {
		var q bonusQuestion
		block.Find("select").Each(func(_ int, sel *goquery.Selection) {
			name := sel.AttrOr("name", "")
			if name == "" {
				return
			}
			q.fieldNames = append(q.fieldNames, name)
			sel.Find("option[selected]").Each(func(_ int, opt *goquery.Selection) {
				if id := opt.AttrOr("value", ""); id != "" {
					q.selected = append(q.selected, id)
				}
			})
		})
		if len(q.fieldNames) == 0 {
			return
		}
		q.id = q.fieldNames[0]
		questions = append(questions, q)
	})

	return questions
}

// one team name may differ from the form's rendering by this many edits
// before the fuzzy fallback refuses to resolve it
const matchupMaxDistance = 2

// resolveRow finds the form row for a caller-supplied matchup, exact on
// normalized names first, then a tight fuzzy match so slightly differing
// team spellings still land on the right row. The fallback fails closed:
// each team must resolve to a single unambiguous form team and both must
// point at the same row, a near-neighbor collision never attracts a
// write onto a fixture the caller did not name.
func resolveRow(rows []predictionRow, target view.Matchup) int {
	targetHome := textutil.NormalizeName(target.Home)
	targetAway := textutil.NormalizeName(target.Away)
	for i, row := range rows {
		if textutil.NormalizeName(row.matchup.Home) == targetHome &&
			textutil.NormalizeName(row.matchup.Away) == targetAway {
			return i
		}
	}

	homes := make([]string, len(rows))
	aways := make([]string, len(rows))
	for i, row := range rows {
		homes[i] = row.matchup.Home
		aways[i] = row.matchup.Away
	}
	homeIdx := textutil.ClosestName(target.Home, homes, matchupMaxDistance)
	awayIdx := textutil.ClosestName(target.Away, aways, matchupMaxDistance)
	if homeIdx < 0 || homeIdx != awayIdx {
		return -1
	}
	return homeIdx
}
