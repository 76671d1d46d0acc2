package view

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"tippassist-backend/lib/htmlutil"
	"tippassist-backend/lib/scrapers/kicktipp/core"

	"github.com/PuerkitoBio/goquery"
)

// ViewMode selects which auxiliary dataset a detail page renders.
type ViewMode int

const (
	ViewSingle     ViewMode = 1
	ViewHomeAway   ViewMode = 2
	ViewHeadToHead ViewMode = 3
)

// the site paginates one fixture per detail page, this caps the walk
// well above any plausible matchday size so malformed next-chains can
// never loop forever
const maxDetailPages = 32

// withViewMode splits an in-page href into a clean endpoint and a query
// carrying the requested ansicht value.
func withViewMode(href string, mode ViewMode) (string, url.Values, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", nil, err
	}
	query := u.Query()
	query.Set("ansicht", strconv.Itoa(int(mode)))
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), query, nil
}

// findDetailPage resolves a matchup to its detail page. The only entry
// point the site offers is the first fixture's detail link on the
// predictions page plus a "next" link on every detail page, so this is
// a bounded walk along that chain matching the page's own two team
// names. Every outcome other than a match reports found=false, history
// is best-effort auxiliary data and must never fail a read.
func (c Client) findDetailPage(ctx context.Context, cache *core.PageCache, target Matchup, mode ViewMode) (*goquery.Document, bool, error) {
	doc, ok, err := c.fetchTippabgabe(ctx, cache, false)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	href := ""
	for _, row := range c.parseFixtureRows(ctx, doc) {
		if row.detailHref != "" {
			href = row.detailHref
			break
		}
	}
	if href == "" {
		slog.DebugContext(ctx, "predictions page has no detail link", "home", target.Home, "away", target.Away)
		return nil, false, nil
	}

	for i := 0; i < maxDetailPages && href != ""; i++ {
		endpoint, query, err := withViewMode(href, mode)
		if err != nil {
			return nil, false, nil
		}

		page, err := cache.Fetch(ctx, endpoint, query)
		if err != nil {
			return nil, false, err
		}
		if page.NotFound {
			return nil, false, nil
		}
		detail, err := page.Document()
		if err != nil {
			return nil, false, nil
		}

		home := htmlutil.CleanText(detail.Find("table#spielinfoSpiel td.heim").First())
		away := htmlutil.CleanText(detail.Find("table#spielinfoSpiel td.gast").First())
		if home == target.Home && away == target.Away {
			return detail, true, nil
		}

		// an enabled next control is an anchor, a disabled one degrades
		// to a span without href
		href = detail.Find("div.prevnextNavigation a.next").First().AttrOr("href", "")
	}

	return nil, false, nil
}
