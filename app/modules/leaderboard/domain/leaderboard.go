package leaderboarddomain

import (
	"cmp"
	"slices"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
)

// Entry is one row of a leaderboard.
type Entry struct {
	Position    int                          `json:"position"`
	ID          string                       `json:"id"`
	Label       string                       `json:"label"`
	IsTeam      bool                         `json:"is_team"`
	Handicap    float64                      `json:"handicap"`
	HolesPlayed int                          `json:"holes_played"`
	Gross       int                          `json:"gross"`
	ToPar       int                          `json:"to_par"`
	Totals      map[scoringdomain.Format]int `json:"totals"`
}

// Board is the ranked view for one format.
type Board struct {
	Format  scoringdomain.Format `json:"format"`
	Entries []Entry              `json:"entries"`
}

// Standings holds one board per active format.
type Standings struct {
	Boards    []Board                        `json:"boards"`
	TeamMatch *scoringdomain.TeamMatchStatus `json:"team_match,omitempty"`
}

// Board returns the board for a format.
func (s Standings) Board(f scoringdomain.Format) (Board, bool) {
	for _, b := range s.Boards {
		if b.Format == f {
			return b, true
		}
	}
	return Board{}, false
}

// Input is the score cache projection a leaderboard is built from.
type Input struct {
	Tee        *coursedomain.Tee
	Formats    []scoringdomain.Format
	Players    []rounddomain.Player
	Teams      []rounddomain.Team
	Lines      map[string]scoringdomain.ScoreLine
	MatchBasis scoringdomain.Basis
}

func (in Input) active(f scoringdomain.Format) bool {
	return slices.Contains(in.Formats, f)
}

// Competitors returns who is being ranked. In a scramble each team is one
// competitor holding the shared team line and the team handicap.
func Competitors(in Input) []scoringdomain.Competitor {
	if !in.active(scoringdomain.FormatScramble) {
		out := make([]scoringdomain.Competitor, 0, len(in.Players))
		for _, p := range in.Players {
			out = append(out, scoringdomain.Competitor{
				ID:       p.ID,
				Label:    p.Name,
				Handicap: p.Handicap,
				Line:     in.Lines[p.ID],
			})
		}
		return out
	}

	byID := make(map[string]rounddomain.Player, len(in.Players))
	for _, p := range in.Players {
		byID[p.ID] = p
	}

	out := make([]scoringdomain.Competitor, 0, len(in.Teams))
	for _, team := range in.Teams {
		names := make([]string, 0, len(team.PlayerIDs))
		handicaps := make([]float64, 0, len(team.PlayerIDs))
		for _, id := range team.PlayerIDs {
			names = append(names, byID[id].Name)
			handicaps = append(handicaps, byID[id].Handicap)
		}
		out = append(out, scoringdomain.Competitor{
			ID:       team.ID,
			Label:    rounddomain.TeamLabel(names),
			Handicap: float64(scoringdomain.TeamHandicap(handicaps)),
			Line:     sharedLine(team, in.Lines),
			IsTeam:   true,
		})
	}
	return out
}

func sharedLine(team rounddomain.Team, lines map[string]scoringdomain.ScoreLine) scoringdomain.ScoreLine {
	var shared scoringdomain.ScoreLine
	members := make([]int, len(team.PlayerIDs))
	for i := range shared {
		for j, id := range team.PlayerIDs {
			members[j] = lines[id][i]
		}
		if score, err := scoringdomain.ScrambleTeamScore(members); err == nil {
			shared[i] = score
		}
	}
	return shared
}

// Build projects standings for every active format.
func Build(in Input) Standings {
	competitors := Competitors(in)

	var holesWon map[string]int
	if in.active(scoringdomain.FormatMatchPlay) {
		holesWon = scoringdomain.MatchPlayHolesWon(in.Tee, competitors)
	}

	entries := make([]Entry, 0, len(competitors))
	for _, c := range competitors {
		t := scoringdomain.ComputeTotals(in.Tee, c.Handicap, c.Line)
		e := Entry{
			ID:          c.ID,
			Label:       c.Label,
			IsTeam:      c.IsTeam,
			Handicap:    c.Handicap,
			HolesPlayed: t.HolesPlayed,
			Gross:       t.Gross,
			ToPar:       t.ToPar,
			Totals:      make(map[scoringdomain.Format]int, len(in.Formats)),
		}
		for _, f := range in.Formats {
			switch f {
			case scoringdomain.FormatStroke, scoringdomain.FormatScramble:
				e.Totals[f] = t.Net
			case scoringdomain.FormatStableford:
				e.Totals[f] = t.Stableford
			case scoringdomain.FormatMatchPlay:
				e.Totals[f] = holesWon[c.ID]
			}
		}
		entries = append(entries, e)
	}

	var standings Standings
	for _, f := range in.Formats {
		if f == scoringdomain.FormatTeamMatchPlay {
			board, status, ok := teamMatchBoard(in)
			if ok {
				standings.Boards = append(standings.Boards, board)
				standings.TeamMatch = &status
			}
			continue
		}
		board := Board{Format: f, Entries: slices.Clone(entries)}
		Rank(f, board.Entries)
		standings.Boards = append(standings.Boards, board)
	}
	return standings
}

func teamMatchBoard(in Input) (Board, scoringdomain.TeamMatchStatus, bool) {
	if len(in.Teams) != 2 {
		return Board{}, scoringdomain.TeamMatchStatus{}, false
	}

	byID := make(map[string]rounddomain.Player, len(in.Players))
	for _, p := range in.Players {
		byID[p.ID] = p
	}

	var sides [2][2]scoringdomain.Competitor
	var labels [2]string
	var handicaps [2]float64
	for i, team := range in.Teams {
		if len(team.PlayerIDs) != 2 {
			return Board{}, scoringdomain.TeamMatchStatus{}, false
		}
		names := make([]string, 0, 2)
		hcps := make([]float64, 0, 2)
		for j, id := range team.PlayerIDs {
			p := byID[id]
			sides[i][j] = scoringdomain.Competitor{ID: p.ID, Label: p.Name, Handicap: p.Handicap, Line: in.Lines[p.ID]}
			names = append(names, p.Name)
			hcps = append(hcps, p.Handicap)
		}
		labels[i] = rounddomain.TeamLabel(names)
		handicaps[i] = float64(scoringdomain.TeamHandicap(hcps))
	}

	basis := in.MatchBasis
	if !basis.Valid() {
		basis = scoringdomain.BasisStroke
	}
	status := scoringdomain.ScoreTeamMatch(in.Tee, sides[0], sides[1], basis)

	won := [2]int{status.HolesWonA, status.HolesWonB}
	board := Board{Format: scoringdomain.FormatTeamMatchPlay}
	for i, team := range in.Teams {
		board.Entries = append(board.Entries, Entry{
			ID:          team.ID,
			Label:       labels[i],
			IsTeam:      true,
			Handicap:    handicaps[i],
			HolesPlayed: status.Decided,
			Totals:      map[scoringdomain.Format]int{scoringdomain.FormatTeamMatchPlay: won[i]},
		})
	}
	Rank(scoringdomain.FormatTeamMatchPlay, board.Entries)
	return board, status, true
}

// Rank sorts entries for a format and assigns positions. Stroke and scramble
// rank ascending net; stableford and match formats rank descending. Ties go
// to the competitor with more holes played. Competitors yet to tee off sort
// last on stroke boards.
func Rank(f scoringdomain.Format, entries []Entry) {
	ascending := f == scoringdomain.FormatStroke || f == scoringdomain.FormatScramble

	key := func(a, b Entry) int {
		if ascending {
			if c := cmp.Compare(boolRank(a.HolesPlayed == 0), boolRank(b.HolesPlayed == 0)); c != 0 {
				return c
			}
			if c := cmp.Compare(a.Totals[f], b.Totals[f]); c != 0 {
				return c
			}
		} else if c := cmp.Compare(b.Totals[f], a.Totals[f]); c != 0 {
			return c
		}
		return cmp.Compare(b.HolesPlayed, a.HolesPlayed)
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := key(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})

	for i := range entries {
		if i > 0 && key(entries[i-1], entries[i]) == 0 {
			entries[i].Position = entries[i-1].Position
			continue
		}
		entries[i].Position = i + 1
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
