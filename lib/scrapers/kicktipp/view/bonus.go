package view

import (
	"context"

	"tippassist-backend/lib/htmlutil"
	"tippassist-backend/lib/scrapers/kicktipp/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

type bonusBlock struct {
	question BonusQuestion
	selected []string
}

// parseBonusBlocks reads the bonus variant of the predictions page.
// Locked questions render as static text without selects and simply do
// not show up in the result.
func parseBonusBlocks(doc *goquery.Document) []bonusBlock {
	var blocks []bonusBlock

	doc.Find("div.bonusfrage").Each(func(_ int, block *goquery.Selection) {
		selects := block.Find("select")
		if selects.Length() == 0 {
			return
		}

		text := htmlutil.CleanText(block.Find(".bonusfrage-titel").First())

		var fieldNames []string
		var selected []string
		selects.Each(func(_ int, sel *goquery.Selection) {
			name := sel.AttrOr("name", "")
			if name == "" {
				return
			}
			fieldNames = append(fieldNames, name)

			sel.Find("option[selected]").Each(func(_ int, opt *goquery.Selection) {
				if id := opt.AttrOr("value", ""); id != "" {
					selected = append(selected, id)
				}
			})
		})
		if len(fieldNames) == 0 {
			return
		}

		// every select of a question carries the same option list, the
		// placeholder option has an empty value
		var options []BonusOption
		selects.First().Find("option").Each(func(_ int, opt *goquery.Selection) {
			id := opt.AttrOr("value", "")
			if id == "" {
				return
			}
			options = append(options, BonusOption{
				Id:    id,
				Label: htmlutil.CleanText(opt),
			})
		})

		blocks = append(blocks, bonusBlock{
			question: BonusQuestion{
				Id:          fieldNames[0],
				Text:        text,
				FieldNames:  fieldNames,
				Options:     options,
				MultiSelect: len(fieldNames) > 1,
			},
			selected: selected,
		})
	})

	return blocks
}

// BonusQuestions returns the currently open bonus questions. Decided or
// locked questions are absent, a missing page yields an empty result.
func (c Client) BonusQuestions(ctx context.Context) ([]BonusQuestion, error) {
	ctx, span := tracer.Start(ctx, "client:BonusQuestions")
	defer span.End()

	blocks, err := c.bonusBlocks(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch bonus page")
		return nil, err
	}

	questions := make([]BonusQuestion, len(blocks))
	for i, b := range blocks {
		questions[i] = b.question
	}
	return questions, nil
}

// BonusAnswers returns the already selected answers keyed by question
// id. Questions without a selection have no key, not an empty set.
func (c Client) BonusAnswers(ctx context.Context) (map[string]BonusAnswer, error) {
	ctx, span := tracer.Start(ctx, "client:BonusAnswers")
	defer span.End()

	blocks, err := c.bonusBlocks(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch bonus page")
		return nil, err
	}

	answers := map[string]BonusAnswer{}
	for _, b := range blocks {
		if len(b.selected) == 0 {
			continue
		}
		answers[b.question.Id] = BonusAnswer{OptionIds: b.selected}
	}
	return answers, nil
}

func (c Client) bonusBlocks(ctx context.Context) ([]bonusBlock, error) {
	cache := core.NewPageCache(c.Core)
	doc, ok, err := c.fetchTippabgabe(ctx, cache, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return parseBonusBlocks(doc), nil
}
