package scoringdomain

import (
	"testing"

	"github.com/Black-And-White-Club/golf-scorecard/internal/testutils"
)

func TestMatchPlayHoleResult(t *testing.T) {
	tests := []struct {
		name string
		nets []PlayerNet
		want HoleOutcome
	}{
		{
			name: "outright low",
			nets: []PlayerNet{{"ann", 4}, {"bob", 3}, {"cat", 5}},
			want: HoleOutcome{WinnerID: "bob"},
		},
		{
			name: "tie for low halves",
			nets: []PlayerNet{{"ann", 3}, {"bob", 3}, {"cat", 5}},
			want: HoleOutcome{Halved: true},
		},
		{
			name: "tie above low does not matter",
			nets: []PlayerNet{{"ann", 5}, {"bob", 3}, {"cat", 5}},
			want: HoleOutcome{WinnerID: "bob"},
		},
		{
			name: "tie broken later in the field",
			nets: []PlayerNet{{"ann", 4}, {"bob", 4}, {"cat", 3}},
			want: HoleOutcome{WinnerID: "cat"},
		},
		{
			name: "single player",
			nets: []PlayerNet{{"ann", 4}},
			want: HoleOutcome{Halved: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchPlayHoleResult(tt.nets); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMatchPlayHolesWonSkipsIncompleteHoles(t *testing.T) {
	tee := testutils.StandardTee(t)
	ann := Competitor{ID: "ann", Line: ScoreLine{4, 5, 3}}
	bob := Competitor{ID: "bob", Line: ScoreLine{5, 5}}

	won := MatchPlayHolesWon(tee, []Competitor{ann, bob})

	if won["ann"] != 1 || won["bob"] != 0 {
		t.Fatalf("unexpected holes won: %v", won)
	}
}

func TestMatchPlayHolesWonUsesNet(t *testing.T) {
	tee := testutils.StandardTee(t)
	// Hole 2 is stroke index 1: bob's handicap gives him a shot there.
	ann := Competitor{ID: "ann", Handicap: 0, Line: ScoreLine{0: 4, 1: 4}}
	bob := Competitor{ID: "bob", Handicap: 5, Line: ScoreLine{0: 4, 1: 4}}

	won := MatchPlayHolesWon(tee, []Competitor{ann, bob})
	if won["bob"] != 1 || won["ann"] != 0 {
		t.Fatalf("unexpected holes won: %v", won)
	}
}

func TestTeamMatchPlayHoleResult(t *testing.T) {
	tests := []struct {
		name  string
		a, b  [2]int
		basis Basis
		want  HoleResult
	}{
		{name: "second ball breaks best ball tie", a: [2]int{4, 5}, b: [2]int{4, 6}, basis: BasisStroke, want: ResultWin},
		{name: "order of balls is irrelevant", a: [2]int{5, 4}, b: [2]int{6, 4}, basis: BasisStroke, want: ResultWin},
		{name: "best ball decides", a: [2]int{5, 5}, b: [2]int{4, 9}, basis: BasisStroke, want: ResultLoss},
		{name: "all square", a: [2]int{4, 5}, b: [2]int{5, 4}, basis: BasisStroke, want: ResultAllSquare},
		{name: "stableford higher wins", a: [2]int{3, 1}, b: [2]int{2, 2}, basis: BasisStableford, want: ResultWin},
		{name: "stableford second ball", a: [2]int{2, 0}, b: [2]int{2, 1}, basis: BasisStableford, want: ResultLoss},
		{name: "stableford all square", a: [2]int{2, 2}, b: [2]int{2, 2}, basis: BasisStableford, want: ResultAllSquare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TeamMatchPlayHoleResult(tt.a, tt.b, tt.basis); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScoreTeamMatch(t *testing.T) {
	tee := testutils.StandardTee(t)
	var a1, a2, b1, b2 ScoreLine
	for i := range a1 {
		a1[i], a2[i], b1[i], b2[i] = 4, 5, 4, 5
	}
	a2[0] = 4  // hole 1: A wins on second ball
	b1[9] = 3  // hole 10: B wins on best ball
	b2[17] = 0 // hole 18: missing ball, undecided

	status := ScoreTeamMatch(tee,
		[2]Competitor{{ID: "a1", Line: a1}, {ID: "a2", Line: a2}},
		[2]Competitor{{ID: "b1", Line: b1}, {ID: "b2", Line: b2}},
		BasisStroke,
	)

	if status.Holes[0] != ResultWin || status.Holes[9] != ResultLoss || status.Holes[17] != ResultNotDecided {
		t.Fatalf("unexpected hole results: %v", status.Holes)
	}
	if status.Holes[4] != ResultAllSquare {
		t.Fatalf("expected hole 5 all square, got %q", status.Holes[4])
	}
	if status.Front9 != 1 || status.Back9 != -1 || status.Overall != 0 {
		t.Fatalf("unexpected margins: front %d back %d overall %d", status.Front9, status.Back9, status.Overall)
	}
	if status.HolesWonA != 1 || status.HolesWonB != 1 || status.Decided != 17 {
		t.Fatalf("unexpected counts: %+v", status)
	}
}
