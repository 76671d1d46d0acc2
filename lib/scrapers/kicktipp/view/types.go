package view

import "time"

// Matchup identifies a pairing by the two team names as rendered on the
// site, it is the only handle the markup gives us for cross-page lookups.
type Matchup struct {
	Home string
	Away string
}

type Fixture struct {
	Home      string
	Away      string
	Kickoff   time.Time
	Matchday  int
	Cancelled bool
}

func (f Fixture) Matchup() Matchup {
	return Matchup{Home: f.Home, Away: f.Away}
}

// Prediction is a placed or to-be-placed score. A row only counts as
// predicted when both numbers parsed, one filled field is still absent.
type Prediction struct {
	Home int
	Away int
}

// PredictionRow pairs a fixture with the prediction currently placed on
// it, nil when none is placed.
type PredictionRow struct {
	Fixture    Fixture
	Prediction *Prediction
}

type BonusOption struct {
	Id    string
	Label string
}

// BonusQuestion is an open non-score question. FieldNames carries the
// literal name attribute of every backing select control, in source
// order, they encode server-assigned indices and must be round-tripped
// verbatim on submission.
type BonusQuestion struct {
	Id          string
	Text        string
	FieldNames  []string
	Options     []BonusOption
	MultiSelect bool
}

// BonusAnswer is the set of selected option ids for one question.
type BonusAnswer struct {
	OptionIds []string
}

// Annotations the site attaches to historical results. Anything outside
// this set is carried through verbatim.
const (
	AnnotationExtraTime = "after extra time"
	AnnotationPenalties = "after penalties"
)

type HistoricalResult struct {
	Home        string
	Away        string
	HomeGoals   *int
	AwayGoals   *int
	Competition string
	Annotation  string
}

// FixtureWithHistory carries the two independent past-match sequences a
// detail page renders in home/away split view, either may be empty.
type FixtureWithHistory struct {
	Fixture     Fixture
	HomeHistory []HistoricalResult
	AwayHistory []HistoricalResult
}

type Standing struct {
	Rank   int
	Name   string
	Points int
}
