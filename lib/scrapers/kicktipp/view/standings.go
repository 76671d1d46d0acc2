package view

import (
	"context"
	"strconv"
	"strings"

	"tippassist-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const tabellenPath = "tabellen"

// Standings returns the community ranking. A missing page or missing
// table yields an empty result.
func (c Client) Standings(ctx context.Context) ([]Standing, error) {
	ctx, span := tracer.Start(ctx, "client:Standings")
	defer span.End()

	page, err := c.Core.Fetch(ctx, c.Core.CommunityPath(tabellenPath), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch standings page")
		return nil, err
	}
	if page.NotFound {
		return nil, nil
	}
	doc, err := page.Document()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse standings html")
		return nil, err
	}

	var standings []Standing
	doc.Find("table#rangliste tbody tr").Each(func(_ int, tr *goquery.Selection) {
		name := htmlutil.CleanText(tr.Find("td.name").First())
		if name == "" {
			return
		}

		rankText := strings.TrimSuffix(htmlutil.CleanText(tr.Find("td.position").First()), ".")
		rank, err := strconv.Atoi(rankText)
		if err != nil {
			return
		}
		points, err := strconv.Atoi(htmlutil.CleanText(tr.Find("td.punkte").First()))
		if err != nil {
			return
		}

		standings = append(standings, Standing{
			Rank:   rank,
			Name:   name,
			Points: points,
		})
	})

	return standings, nil
}
