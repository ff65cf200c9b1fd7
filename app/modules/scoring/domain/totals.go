package scoringdomain

import (
	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
)

// Competitor is a player, or a scramble team, being scored.
type Competitor struct {
	ID       string
	Label    string
	Handicap float64
	Line     ScoreLine
	IsTeam   bool
}

// Totals are the running per-format totals of one competitor over the holes
// played so far.
type Totals struct {
	Gross       int
	Net         int
	Stableford  int
	HolesPlayed int
	// ToPar is net strokes relative to the par of the holes played.
	ToPar int
}

// ComputeTotals derives stroke and stableford totals from a score line.
func ComputeTotals(tee *coursedomain.Tee, handicap float64, line ScoreLine) Totals {
	var t Totals
	for _, h := range tee.Holes() {
		gross, ok := line.Score(h.Number)
		if !ok {
			continue
		}
		net := NetScore(gross, handicap, h.StrokeIndex)
		t.Gross += gross
		t.Net += net
		t.Stableford += StablefordPoints(gross, handicap, h.Par, h.StrokeIndex)
		t.HolesPlayed++
		t.ToPar += net - h.Par
	}
	return t
}
