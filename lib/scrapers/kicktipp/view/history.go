package view

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"tippassist-backend/lib/htmlutil"
	"tippassist-backend/lib/scrapers/kicktipp/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// parseResultsTable reads one historical results table. A row's role
// columns name the teams as they played, home or away, the row itself is
// authoritative. Rows whose rendered score fails to parse are skipped,
// rows rendered without any score keep nil goals.
func (c Client) parseResultsTable(ctx context.Context, table *goquery.Selection) []HistoricalResult {
	var results []HistoricalResult

	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		home := htmlutil.CleanText(tr.Find("td.heim").First())
		away := htmlutil.CleanText(tr.Find("td.gast").First())
		if home == "" || away == "" {
			return
		}

		result := HistoricalResult{
			Home:        home,
			Away:        away,
			Competition: htmlutil.CleanText(tr.Find("td.wettbewerb").First()),
		}

		score := tr.Find("td.ergebnis").First()
		homeDigit := score.Find("span.kicktipp-heim").First()
		awayDigit := score.Find("span.kicktipp-gast").First()
		if homeDigit.Length() > 0 || awayDigit.Length() > 0 {
			homeGoals, err := strconv.Atoi(htmlutil.CleanText(homeDigit))
			if err != nil || homeGoals < 0 {
				slog.DebugContext(ctx, "skipping result row with bad home score", "home", home, "away", away)
				return
			}
			awayGoals, err := strconv.Atoi(htmlutil.CleanText(awayDigit))
			if err != nil || awayGoals < 0 {
				slog.DebugContext(ctx, "skipping result row with bad away score", "home", home, "away", away)
				return
			}
			result.HomeGoals = &homeGoals
			result.AwayGoals = &awayGoals
		}

		result.Annotation = c.canonicalAnnotation(htmlutil.CleanText(score.Find("span.zusatz").First()))

		results = append(results, result)
	})

	return results
}

// HeadToHead returns the past meetings of the two teams, in page order.
// A fixture whose detail page cannot be located yields an empty result.
func (c Client) HeadToHead(ctx context.Context, target Matchup) ([]HistoricalResult, error) {
	ctx, span := tracer.Start(ctx, "client:HeadToHead")
	defer span.End()

	cache := core.NewPageCache(c.Core)
	detail, found, err := c.findDetailPage(ctx, cache, target, ViewHeadToHead)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to navigate to detail page")
		return nil, err
	}
	if !found {
		return nil, nil
	}

	return c.parseResultsTable(ctx, detail.Find("table.vergleich").First()), nil
}

// SingleResult returns the fixture's own result line from the single
// result view, nil when the match has not been played or the page
// cannot be located.
func (c Client) SingleResult(ctx context.Context, target Matchup) (*HistoricalResult, error) {
	ctx, span := tracer.Start(ctx, "client:SingleResult")
	defer span.End()

	cache := core.NewPageCache(c.Core)
	detail, found, err := c.findDetailPage(ctx, cache, target, ViewSingle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to navigate to detail page")
		return nil, err
	}
	if !found {
		return nil, nil
	}

	results := c.parseResultsTable(ctx, detail.Find("table.vergleich").First())
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// FixturesWithHistory assembles the matchday's fixtures with each
// team's own recent results from the home/away split view. Fixtures
// share one page cache, so the chain of detail pages is walked over the
// network at most once however many fixtures there are. A fixture whose
// page cannot be located keeps empty histories without affecting its
// siblings.
func (c Client) FixturesWithHistory(ctx context.Context) ([]FixtureWithHistory, error) {
	ctx, span := tracer.Start(ctx, "client:FixturesWithHistory")
	defer span.End()

	cache := core.NewPageCache(c.Core)
	rows, err := c.fixtureRows(ctx, cache)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch predictions page")
		return nil, err
	}

	result := make([]FixtureWithHistory, len(rows))
	var errList []error
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i, row := range rows {
		result[i] = FixtureWithHistory{Fixture: row.fixture}

		wg.Add(1)
		go func(i int, target Matchup) {
			defer wg.Done()

			detail, found, err := c.findDetailPage(ctx, cache, target, ViewHomeAway)
			if err != nil {
				mu.Lock()
				defer mu.Unlock()
				errList = append(errList, err)
				return
			}
			if !found {
				slog.DebugContext(ctx, "no detail page for fixture", "home", target.Home, "away", target.Away)
				return
			}

			homeHistory := c.parseResultsTable(ctx, detail.Find("table.bilanz-heim").First())
			awayHistory := c.parseResultsTable(ctx, detail.Find("table.bilanz-gast").First())

			mu.Lock()
			defer mu.Unlock()
			result[i].HomeHistory = homeHistory
			result[i].AwayHistory = awayHistory
		}(i, row.fixture.Matchup())
	}

	wg.Wait()

	if len(errList) > 0 {
		err := errors.Join(errList...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch fixture history")
		return nil, err
	}
	return result, nil
}
