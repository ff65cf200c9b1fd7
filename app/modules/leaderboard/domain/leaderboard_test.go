package leaderboarddomain

import (
	"testing"

	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/golf-scorecard/internal/testutils"
	"github.com/google/go-cmp/cmp"
)

func fourPlayerInput(t *testing.T, formats ...scoringdomain.Format) Input {
	t.Helper()
	return Input{
		Tee:     testutils.StandardTee(t),
		Formats: formats,
		Players: []rounddomain.Player{
			{ID: "ann", Name: "Ann", Handicap: 12},
			{ID: "bob", Name: "Bob", Handicap: 18},
			{ID: "cat", Name: "Cat", Handicap: 8},
			{ID: "dan", Name: "Dan", Handicap: 5},
		},
		Lines: map[string]scoringdomain.ScoreLine{},
	}
}

func order(b Board) []string {
	ids := make([]string, 0, len(b.Entries))
	for _, e := range b.Entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestBuildStrokeAndStablefordOrdering(t *testing.T) {
	in := fourPlayerInput(t, scoringdomain.FormatStroke, scoringdomain.FormatStableford)
	// Hole 1 par 4 SI 7, hole 2 par 4 SI 1.
	in.Lines["ann"] = scoringdomain.ScoreLine{5, 5} // shots on both: net 8, 4 pts
	in.Lines["bob"] = scoringdomain.ScoreLine{6, 6} // shots on both: net 10, 2 pts
	in.Lines["cat"] = scoringdomain.ScoreLine{4, 5} // shots on both: net 7, 5 pts
	in.Lines["dan"] = scoringdomain.ScoreLine{4}    // no shot on hole 1: net 4, 2 pts, 1 hole

	s := Build(in)

	stroke, ok := s.Board(scoringdomain.FormatStroke)
	if !ok {
		t.Fatalf("missing stroke board")
	}
	if diff := cmp.Diff([]string{"dan", "cat", "ann", "bob"}, order(stroke)); diff != "" {
		t.Fatalf("stroke order mismatch (-want +got):\n%s", diff)
	}

	stableford, _ := s.Board(scoringdomain.FormatStableford)
	// bob and dan tie on 2 points; bob has played more holes.
	if diff := cmp.Diff([]string{"cat", "ann", "bob", "dan"}, order(stableford)); diff != "" {
		t.Fatalf("stableford order mismatch (-want +got):\n%s", diff)
	}
	if stableford.Entries[0].Totals[scoringdomain.FormatStableford] != 5 {
		t.Fatalf("unexpected points for cat: %+v", stableford.Entries[0])
	}
}

func TestRankTiesShareOnlyWhenHolesPlayedEqual(t *testing.T) {
	f := scoringdomain.FormatStableford
	entries := []Entry{
		{ID: "a", Label: "A", HolesPlayed: 9, Totals: map[scoringdomain.Format]int{f: 18}},
		{ID: "b", Label: "B", HolesPlayed: 9, Totals: map[scoringdomain.Format]int{f: 18}},
		{ID: "c", Label: "C", HolesPlayed: 10, Totals: map[scoringdomain.Format]int{f: 18}},
		{ID: "d", Label: "D", HolesPlayed: 10, Totals: map[scoringdomain.Format]int{f: 12}},
	}

	Rank(f, entries)

	got := make([][2]any, 0, len(entries))
	for _, e := range entries {
		got = append(got, [2]any{e.ID, e.Position})
	}
	want := [][2]any{{"c", 1}, {"a", 2}, {"b", 2}, {"d", 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rank mismatch (-want +got):\n%s", diff)
	}
}

func TestStrokeBoardPutsUnstartedLast(t *testing.T) {
	in := fourPlayerInput(t, scoringdomain.FormatStroke)
	in.Lines["bob"] = scoringdomain.ScoreLine{9}

	stroke, _ := Build(in).Board(scoringdomain.FormatStroke)
	if stroke.Entries[0].ID != "bob" {
		t.Fatalf("expected bob first, got %v", order(stroke))
	}
}

func TestBuildMatchPlay(t *testing.T) {
	in := fourPlayerInput(t, scoringdomain.FormatMatchPlay)
	in.Lines["ann"] = scoringdomain.ScoreLine{4, 5, 3}
	in.Lines["bob"] = scoringdomain.ScoreLine{5, 4, 4}
	in.Lines["cat"] = scoringdomain.ScoreLine{5, 5, 4}
	in.Lines["dan"] = scoringdomain.ScoreLine{5, 5}

	board, _ := Build(in).Board(scoringdomain.FormatMatchPlay)

	won := map[string]int{}
	for _, e := range board.Entries {
		won[e.ID] = e.Totals[scoringdomain.FormatMatchPlay]
	}
	// Hole 1: ann 4 (net 3) wins outright. Hole 2 (SI 1): everyone
	// gets a shot: ann 4, bob 3, cat 4, dan 4, bob wins. Hole 3: dan missing.
	if diff := cmp.Diff(map[string]int{"ann": 1, "bob": 1, "cat": 0, "dan": 0}, won); diff != "" {
		t.Fatalf("holes won mismatch (-want +got):\n%s", diff)
	}
	if board.Entries[0].ID != "ann" && board.Entries[0].ID != "bob" {
		t.Fatalf("unexpected leader %s", board.Entries[0].ID)
	}
}

func TestBuildScrambleCollapsesTeamIntoOneRow(t *testing.T) {
	in := fourPlayerInput(t, scoringdomain.FormatScramble, scoringdomain.FormatStableford)
	in.Teams = []rounddomain.Team{{ID: "team_1", PlayerIDs: []string{"ann", "bob", "cat", "dan"}}}
	for _, id := range []string{"ann", "bob", "cat", "dan"} {
		in.Lines[id] = scoringdomain.ScoreLine{4, 4, 3}
	}

	s := Build(in)

	for _, b := range s.Boards {
		if len(b.Entries) != 1 {
			t.Fatalf("%s board has %d rows, want 1", b.Format, len(b.Entries))
		}
		e := b.Entries[0]
		if !e.IsTeam || e.Label != "Team: Ann, Bob, Cat, Dan" || e.Handicap != 9 {
			t.Fatalf("unexpected team entry: %+v", e)
		}
		if e.HolesPlayed != 3 || e.Gross != 11 {
			t.Fatalf("unexpected team totals: %+v", e)
		}
	}
}

func TestBuildScrambleMultipleTeams(t *testing.T) {
	in := fourPlayerInput(t, scoringdomain.FormatScramble)
	in.Teams = []rounddomain.Team{
		{ID: "t1", PlayerIDs: []string{"ann", "bob"}},
		{ID: "t2", PlayerIDs: []string{"cat", "dan"}},
	}
	in.Lines["ann"] = scoringdomain.ScoreLine{5}
	in.Lines["bob"] = scoringdomain.ScoreLine{5}
	in.Lines["cat"] = scoringdomain.ScoreLine{4}
	in.Lines["dan"] = scoringdomain.ScoreLine{4}

	board, _ := Build(in).Board(scoringdomain.FormatScramble)
	// t1 handicap round(30*0.375)=11 gets a shot on hole 1 (SI 7): net 4.
	// t2 handicap round(13*0.375)=5 does not: net 4. Tie on net and holes.
	if len(board.Entries) != 2 || board.Entries[0].Position != 1 || board.Entries[1].Position != 1 {
		t.Fatalf("expected two tied teams, got %+v", board.Entries)
	}
}

func TestBuildTeamMatchPlay(t *testing.T) {
	in := fourPlayerInput(t, scoringdomain.FormatTeamMatchPlay)
	in.MatchBasis = scoringdomain.BasisStroke
	in.Players = []rounddomain.Player{
		{ID: "ann", Name: "Ann"}, {ID: "bob", Name: "Bob"}, {ID: "cat", Name: "Cat"}, {ID: "dan", Name: "Dan"},
	}
	in.Teams = []rounddomain.Team{
		{ID: "a", PlayerIDs: []string{"ann", "bob"}},
		{ID: "b", PlayerIDs: []string{"cat", "dan"}},
	}
	in.Lines["ann"] = scoringdomain.ScoreLine{4, 4}
	in.Lines["bob"] = scoringdomain.ScoreLine{5, 4}
	in.Lines["cat"] = scoringdomain.ScoreLine{4, 4}
	in.Lines["dan"] = scoringdomain.ScoreLine{6, 4}

	s := Build(in)

	if s.TeamMatch == nil {
		t.Fatalf("expected team match status")
	}
	if s.TeamMatch.Overall != 1 || s.TeamMatch.Holes[0] != scoringdomain.ResultWin || s.TeamMatch.Holes[1] != scoringdomain.ResultAllSquare {
		t.Fatalf("unexpected status: %+v", s.TeamMatch)
	}
	board, _ := s.Board(scoringdomain.FormatTeamMatchPlay)
	if diff := cmp.Diff([]string{"a", "b"}, order(board)); diff != "" {
		t.Fatalf("team order mismatch (-want +got):\n%s", diff)
	}
	if board.Entries[0].Label != "Team: Ann, Bob" {
		t.Fatalf("unexpected label %q", board.Entries[0].Label)
	}
}

func TestBuildTeamMatchPlayNeedsTwoPairs(t *testing.T) {
	in := fourPlayerInput(t, scoringdomain.FormatTeamMatchPlay)
	in.Teams = []rounddomain.Team{{ID: "a", PlayerIDs: []string{"ann", "bob", "cat"}}, {ID: "b", PlayerIDs: []string{"dan"}}}

	s := Build(in)
	if s.TeamMatch != nil || len(s.Boards) != 0 {
		t.Fatalf("expected no team match board, got %+v", s)
	}
}
