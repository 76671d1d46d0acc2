package edit

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"tippassist-backend/lib/scrapers/kicktipp/core"
	"tippassist-backend/lib/scrapers/kicktipp/view"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/kicktipp/edit")

const tippabgabePath = "tippabgabe"

type Client struct {
	Core *core.Client
}

func NewClient(coreClient *core.Client) Client {
	return Client{Core: coreClient}
}

type PredictionUpdate struct {
	Prediction view.Prediction
	// Override replaces an already placed prediction, without it an
	// existing value is left untouched
	Override bool
}

type BonusAnswerUpdate struct {
	OptionIds []string
	Override  bool
}

// fetchForm GETs the live submission form and snapshots it. Reports
// ok=false when the page is missing or carries no form, there is nothing
// safe to merge against then.
func (c Client) fetchForm(ctx context.Context, bonus bool) (formSnapshot, bool, error) {
	endpoint := c.Core.CommunityPath(tippabgabePath)
	var query url.Values
	if bonus {
		query = url.Values{}
		query.Set("bonus", "true")
	}

	page, err := c.Core.Fetch(ctx, endpoint, query)
	if err != nil {
		return formSnapshot{}, false, err
	}
	if page.NotFound {
		return formSnapshot{}, false, nil
	}
	doc, err := page.Document()
	if err != nil {
		return formSnapshot{}, false, nil
	}

	snapshot, ok := parseForm(doc, endpoint)
	return snapshot, ok, nil
}

func (c Client) post(ctx context.Context, snapshot formSnapshot, body url.Values) (bool, error) {
	if snapshot.submitName != "" {
		// the site only treats the POST as a save action when the
		// submit button's field rides along
		body.Set(snapshot.submitName, snapshot.submitValue)
	}

	// cancellation must never leave a partial write in flight, so it is
	// checked before the POST, not during
	if err := ctx.Err(); err != nil {
		return false, err
	}

	res, err := c.Core.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(body).
		Post(snapshot.action)
	if err != nil {
		return false, err
	}
	return res.IsSuccess(), nil
}

// SubmitPredictions places score predictions. The live form is fetched
// once, the caller's values are overlaid onto its full field set, and
// the merged form is posted back, so predictions the caller is not
// touching survive the round trip unchanged. The boolean result covers
// the expected failure modes (missing page, missing form, rejected
// POST), the error return is reserved for transport failure.
func (c Client) SubmitPredictions(ctx context.Context, updates map[view.Matchup]PredictionUpdate) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:SubmitPredictions")
	defer span.End()

	snapshot, ok, err := c.fetchForm(ctx, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch submission form")
		return false, err
	}
	if !ok {
		span.SetStatus(codes.Error, "no submission form present")
		return false, nil
	}
	if len(updates) == 0 {
		return true, nil
	}

	overlay := url.Values{}
	allow := map[string]bool{}
	for matchup, update := range updates {
		idx := resolveRow(snapshot.rows, matchup)
		if idx < 0 {
			slog.WarnContext(ctx, "no form row for matchup", "home", matchup.Home, "away", matchup.Away)
			continue
		}
		row := snapshot.rows[idx]
		if row.current != nil && !update.Override {
			slog.DebugContext(ctx, "keeping existing prediction", "home", matchup.Home, "away", matchup.Away)
			continue
		}

		overlay.Set(row.homeField, strconv.Itoa(update.Prediction.Home))
		overlay.Set(row.awayField, strconv.Itoa(update.Prediction.Away))
		allow[row.homeField] = true
		allow[row.awayField] = true
	}

	body := mergeFields(snapshot.fields, overlay, func(field string) bool {
		return allow[field]
	})
	return c.post(ctx, snapshot, body)
}

// SubmitBonusAnswers places bonus answers, same merge discipline as
// SubmitPredictions. Updates are keyed by question id, which is the
// verbatim name of the question's first select field.
func (c Client) SubmitBonusAnswers(ctx context.Context, updates map[string]BonusAnswerUpdate) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:SubmitBonusAnswers")
	defer span.End()

	snapshot, ok, err := c.fetchForm(ctx, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch bonus form")
		return false, err
	}
	if !ok {
		span.SetStatus(codes.Error, "no bonus form present")
		return false, nil
	}
	if len(updates) == 0 {
		return true, nil
	}

	overlay := url.Values{}
	allow := map[string]bool{}
	for id, update := range updates {
		var question *bonusQuestion
		for i := range snapshot.questions {
			if snapshot.questions[i].id == id {
				question = &snapshot.questions[i]
				break
			}
		}
		if question == nil {
			slog.WarnContext(ctx, "no bonus question for id", "id", id)
			continue
		}
		if len(question.selected) > 0 && !update.Override {
			slog.DebugContext(ctx, "keeping existing bonus answer", "id", id)
			continue
		}
		if len(update.OptionIds) > len(question.fieldNames) {
			slog.WarnContext(
				ctx, "more option ids than select fields, extra ones dropped",
				"id", id,
				"options", len(update.OptionIds),
				"fields", len(question.fieldNames),
			)
		}

		for i, field := range question.fieldNames {
			value := ""
			if i < len(update.OptionIds) {
				value = update.OptionIds[i]
			}
			overlay.Set(field, value)
			allow[field] = true
		}
	}

	body := mergeFields(snapshot.fields, overlay, func(field string) bool {
		return allow[field]
	})
	return c.post(ctx, snapshot, body)
}
