package view

import (
	"strings"

	"tippassist-backend/lib/scrapers/kicktipp/core"
	"tippassist-backend/lib/textutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/kicktipp/view")

// markers the site uses for fixtures that will not be played. the set is
// locale-bound, callers facing a differently localized community can
// swap it out via ClientOptions.
var defaultCancelledMarkers = []string{
	"annulliert",
	"abgesagt",
	"ausgefallen",
}

var defaultAnnotations = map[string]string{
	"n.v.": AnnotationExtraTime,
	"n.e.": AnnotationPenalties,
}

type Client struct {
	Core *core.Client

	cancelledMarkers []string
	annotations      map[string]string
}

type ClientOptions struct {
	// overrides the recognized cancellation marker strings, zero value
	// keeps the German defaults
	CancelledMarkers []string
	// maps raw annotation text (lowercased) to its canonical label
	Annotations map[string]string
}

func NewClient(coreClient *core.Client, opts ClientOptions) Client {
	markers := opts.CancelledMarkers
	if markers == nil {
		markers = defaultCancelledMarkers
	}
	normalized := make([]string, len(markers))
	for i, m := range markers {
		normalized[i] = textutil.NormalizeName(m)
	}

	annotations := opts.Annotations
	if annotations == nil {
		annotations = defaultAnnotations
	}

	return Client{
		Core:             coreClient,
		cancelledMarkers: normalized,
		annotations:      annotations,
	}
}

func (c Client) isCancelledText(rowText string) bool {
	return textutil.MatchName(rowText, c.cancelledMarkers)
}

func (c Client) canonicalAnnotation(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if canonical, ok := c.annotations[strings.ToLower(raw)]; ok {
		return canonical
	}
	return raw
}
