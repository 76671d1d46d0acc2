package view

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tippassist-backend/lib/htmlutil"
	"tippassist-backend/lib/scrapers/kicktipp/core"
	"tippassist-backend/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const tippabgabePath = "tippabgabe"

// kickoffs come as "31.08.25 15:30" in German local time
const kickoffLayout = "02.01.06 15:04"

// rows before the first dated row get this kickoff instead of failing
// the page
var fallbackKickoff = time.Date(2000, 1, 1, 0, 0, 0, 0, timezone.Location)

type fixtureRow struct {
	fixture    Fixture
	homeField  string
	awayField  string
	prediction *Prediction
	detailHref string
}

func (c Client) fetchTippabgabe(ctx context.Context, cache *core.PageCache, bonus bool) (*goquery.Document, bool, error) {
	query := url.Values{}
	if bonus {
		query.Set("bonus", "true")
	}
	page, err := cache.Fetch(ctx, c.Core.CommunityPath(tippabgabePath), query)
	if err != nil {
		return nil, false, err
	}
	if page.NotFound {
		return nil, false, nil
	}
	doc, err := page.Document()
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

var matchdayRegex = regexp.MustCompile(`(\d+)\. Spieltag`)

// the matchday number is shared by every row on the page. preferred
// source is the "N. Spieltag" heading, then the hidden index field,
// then 1.
func parseMatchday(doc *goquery.Document) int {
	heading := htmlutil.CleanText(doc.Find("h1.headline").First())
	if groups := matchdayRegex.FindStringSubmatch(heading); len(groups) == 2 {
		if n, err := strconv.Atoi(groups[1]); err == nil {
			return n
		}
	}

	hidden := doc.Find("input[name=spieltagIndex]").AttrOr("value", "")
	if n, err := strconv.Atoi(hidden); err == nil {
		return n
	}

	return 1
}

func parsePrediction(homeVal, awayVal string) *Prediction {
	home, err := strconv.Atoi(strings.TrimSpace(homeVal))
	if err != nil || home < 0 {
		return nil
	}
	away, err := strconv.Atoi(strings.TrimSpace(awayVal))
	if err != nil || away < 0 {
		return nil
	}
	return &Prediction{Home: home, Away: away}
}

func (c Client) parseFixtureRows(ctx context.Context, doc *goquery.Document) []fixtureRow {
	table := doc.Find("table#tippabgabeSpiele")
	if table.Length() == 0 {
		return nil
	}

	matchday := parseMatchday(doc)
	lastKickoff := fallbackKickoff

	var rows []fixtureRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		row, ok := c.parseFixtureRow(ctx, tr, matchday, &lastKickoff)
		if !ok {
			return
		}
		rows = append(rows, row)
	})
	return rows
}

// parseFixtureRow extracts one fixture from a table row. Rows without
// two team names and a pair of prediction inputs (status rows, already
// played rows) report !ok and are skipped, never an error.
func (c Client) parseFixtureRow(ctx context.Context, tr *goquery.Selection, matchday int, lastKickoff *time.Time) (fixtureRow, bool) {
	home := htmlutil.CleanText(tr.Find("td.heim").First())
	away := htmlutil.CleanText(tr.Find("td.gast").First())
	if home == "" || away == "" {
		return fixtureRow{}, false
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
		slog.DebugContext(ctx, "skipping row without prediction inputs", "home", home, "away", away)
		return fixtureRow{}, false
	}

	// rows without an own date inherit it from the nearest dated row
	// above, cancelled rows included
	timeText := htmlutil.CleanText(tr.Find("td.kicktipp-time").First())
	if timeText != "" {
		kickoff, err := time.ParseInLocation(kickoffLayout, timeText, timezone.Location)
		if err == nil {
			*lastKickoff = kickoff
		} else {
			slog.WarnContext(ctx, "unparseable kickoff, inheriting previous", "text", timeText, "err", err)
		}
	}

	detailHref := ""
	if anchors := htmlutil.GetAnchors(tr.Find("a[href*=spielinfo]")); len(anchors) > 0 {
		detailHref = anchors[0].Href
	}

	return fixtureRow{
		fixture: Fixture{
			Home:      home,
			Away:      away,
			Kickoff:   *lastKickoff,
			Matchday:  matchday,
			Cancelled: c.isCancelledText(tr.Text()),
		},
		homeField:  homeField,
		awayField:  awayField,
		prediction: parsePrediction(homeVal, awayVal),
		detailHref: detailHref,
	}, true
}

// Fixtures returns the matchday's fixtures in page order. A missing
// page or missing fixture table yields an empty result.
func (c Client) Fixtures(ctx context.Context) ([]Fixture, error) {
	ctx, span := tracer.Start(ctx, "client:Fixtures")
	defer span.End()

	cache := core.NewPageCache(c.Core)
	rows, err := c.fixtureRows(ctx, cache)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch predictions page")
		return nil, err
	}

	fixtures := make([]Fixture, len(rows))
	for i, r := range rows {
		fixtures[i] = r.fixture
	}
	return fixtures, nil
}

// Predictions returns the fixtures together with any predictions already
// placed on them.
func (c Client) Predictions(ctx context.Context) ([]PredictionRow, error) {
	ctx, span := tracer.Start(ctx, "client:Predictions")
	defer span.End()

	cache := core.NewPageCache(c.Core)
	rows, err := c.fixtureRows(ctx, cache)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch predictions page")
		return nil, err
	}

	placed := make([]PredictionRow, len(rows))
	for i, r := range rows {
		placed[i] = PredictionRow{Fixture: r.fixture, Prediction: r.prediction}
	}
	return placed, nil
}

func (c Client) fixtureRows(ctx context.Context, cache *core.PageCache) ([]fixtureRow, error) {
	doc, ok, err := c.fetchTippabgabe(ctx, cache, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return c.parseFixtureRows(ctx, doc), nil
}
