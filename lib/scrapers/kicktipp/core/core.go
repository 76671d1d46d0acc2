package core

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"tippassist-backend/lib/restyutil"
	"tippassist-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/kicktipp/core")

// Client holds the authenticated session against one prediction community.
// It knows how to fetch pages but nothing about their markup, parsing
// lives in the view and edit packages.
type Client struct {
	BaseUrl   *url.URL
	Community string
	Http      *resty.Client
}

type ClientOptions struct {
	BaseUrl   string
	Community string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if opts.Community == "" {
		return nil, fmt.Errorf("a community name is required")
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/kicktipp/http")
	restyutil.InstrumentClient(client, debugOutput)

	c := &Client{
		BaseUrl:   baseUrl,
		Community: opts.Community,
		Http:      client,
	}
	return c, nil
}

// SetSession adopts an externally established session, for callers that
// handle authentication themselves.
func (c *Client) SetSession(cookies []*http.Cookie) {
	c.Http.GetClient().Jar.SetCookies(c.BaseUrl, cookies)
}

// CommunityPath prefixes an endpoint with the community scope, e.g.
// "tippabgabe" -> "/meinerunde/tippabgabe".
func (c *Client) CommunityPath(endpoint string) string {
	return "/" + c.Community + "/" + endpoint
}

// Page is the outcome of one fetch: either markup or a not-found marker.
// Missing pages are a normal state on the site, not an error.
type Page struct {
	NotFound bool
	Body     []byte
}

func (p Page) Document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
}

// Fetch performs an authenticated GET. 404 maps to Page.NotFound, any
// other non-2xx status is a hard failure.
func (c *Client) Fetch(ctx context.Context, endpoint string, query url.Values) (Page, error) {
	req := c.Http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	res, err := req.Get(endpoint)
	if err != nil {
		return Page{}, err
	}
	if res.StatusCode() == http.StatusNotFound {
		return Page{NotFound: true}, nil
	}
	if !res.IsSuccess() {
		return Page{}, fmt.Errorf("unexpected status %d fetching %s", res.StatusCode(), endpoint)
	}
	return Page{Body: res.Body()}, nil
}
