package scoringdomain

import (
	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
)

// PlayerNet is a competitor's net score on one hole.
type PlayerNet struct {
	ID  string
	Net int
}

// HoleOutcome is the individual match play result of one hole.
type HoleOutcome struct {
	WinnerID string
	Halved   bool
}

// MatchPlayHoleResult awards the hole to the single lowest net score. A tie
// for lowest, or fewer than two scores, halves the hole.
func MatchPlayHoleResult(nets []PlayerNet) HoleOutcome {
	if len(nets) < 2 {
		return HoleOutcome{Halved: true}
	}

	best := nets[0]
	tied := false
	for _, pn := range nets[1:] {
		switch {
		case pn.Net < best.Net:
			best = pn
			tied = false
		case pn.Net == best.Net:
			tied = true
		}
	}
	if tied {
		return HoleOutcome{Halved: true}
	}
	return HoleOutcome{WinnerID: best.ID}
}

// MatchPlayHolesWon counts holes won by each competitor. A hole is decided
// only once every competitor has a score for it.
func MatchPlayHolesWon(tee *coursedomain.Tee, competitors []Competitor) map[string]int {
	won := make(map[string]int, len(competitors))
	for _, c := range competitors {
		won[c.ID] = 0
	}

	for _, h := range tee.Holes() {
		nets := make([]PlayerNet, 0, len(competitors))
		for _, c := range competitors {
			gross, ok := c.Line.Score(h.Number)
			if !ok {
				break
			}
			nets = append(nets, PlayerNet{ID: c.ID, Net: NetScore(gross, c.Handicap, h.StrokeIndex)})
		}
		if len(nets) != len(competitors) {
			continue
		}
		if outcome := MatchPlayHoleResult(nets); !outcome.Halved {
			won[outcome.WinnerID]++
		}
	}
	return won
}

// HoleResult is a team match play hole result from team A's perspective.
type HoleResult string

const (
	ResultWin        HoleResult = "W"
	ResultLoss       HoleResult = "L"
	ResultAllSquare  HoleResult = "AS"
	ResultNotDecided HoleResult = ""
)

// TeamMatchPlayHoleResult compares the better ball of each pair, then the
// other ball when the better balls tie. Values are nets for the stroke basis
// (lower wins) and stableford points for the stableford basis (higher wins).
func TeamMatchPlayHoleResult(teamA, teamB [2]int, basis Basis) HoleResult {
	a, b := sortBalls(teamA, basis), sortBalls(teamB, basis)
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		if better(a[i], b[i], basis) {
			return ResultWin
		}
		return ResultLoss
	}
	return ResultAllSquare
}

// sortBalls orders a pair best first.
func sortBalls(balls [2]int, basis Basis) [2]int {
	if better(balls[1], balls[0], basis) {
		return [2]int{balls[1], balls[0]}
	}
	return balls
}

func better(x, y int, basis Basis) bool {
	if basis == BasisStableford {
		return x > y
	}
	return x < y
}

// TeamMatchStatus is the running state of a two-man team match. Margins are
// holes up (positive) or down (negative) for team A.
type TeamMatchStatus struct {
	Basis     Basis                                  `json:"basis"`
	Holes     [coursedomain.HolesPerRound]HoleResult `json:"holes"`
	Front9    int                                    `json:"front9"`
	Back9     int                                    `json:"back9"`
	Overall   int                                    `json:"overall"`
	HolesWonA int                                    `json:"holes_won_a"`
	HolesWonB int                                    `json:"holes_won_b"`
	Decided   int                                    `json:"decided"`
}

// Record applies one hole result to the running totals.
func (s *TeamMatchStatus) Record(hole int, r HoleResult) {
	s.Holes[hole-1] = r
	if r == ResultNotDecided {
		return
	}
	s.Decided++

	delta := 0
	switch r {
	case ResultWin:
		delta = 1
		s.HolesWonA++
	case ResultLoss:
		delta = -1
		s.HolesWonB++
	}
	if hole <= 9 {
		s.Front9 += delta
	} else {
		s.Back9 += delta
	}
	s.Overall += delta
}

// ScoreTeamMatch plays team A against team B over the tee. A hole where any
// of the four balls is missing stays undecided.
func ScoreTeamMatch(tee *coursedomain.Tee, teamA, teamB [2]Competitor, basis Basis) TeamMatchStatus {
	status := TeamMatchStatus{Basis: basis}
	for _, h := range tee.Holes() {
		a, okA := teamBalls(teamA, h, basis)
		b, okB := teamBalls(teamB, h, basis)
		if !okA || !okB {
			status.Record(h.Number, ResultNotDecided)
			continue
		}
		status.Record(h.Number, TeamMatchPlayHoleResult(a, b, basis))
	}
	return status
}

func teamBalls(team [2]Competitor, h coursedomain.HoleDefinition, basis Basis) ([2]int, bool) {
	var balls [2]int
	for i, c := range team {
		gross, ok := c.Line.Score(h.Number)
		if !ok {
			return balls, false
		}
		if basis == BasisStableford {
			balls[i] = StablefordPoints(gross, c.Handicap, h.Par, h.StrokeIndex)
		} else {
			balls[i] = NetScore(gross, c.Handicap, h.StrokeIndex)
		}
	}
	return balls, true
}
