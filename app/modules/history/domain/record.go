package historydomain

import (
	"fmt"
	"slices"
	"time"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	leaderboarddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
)

// Skip reasons reported for players that are not archived.
const (
	SkipNoHolesPlayed = "no holes played"
	SkipNoAccount     = "no linked account"
)

// TeamMatchResult is the final team match margin from the player's side.
type TeamMatchResult struct {
	TeamID  string `json:"team_id"`
	Front9  int    `json:"front9"`
	Back9   int    `json:"back9"`
	Overall int    `json:"overall"`
}

// Record is the permanent snapshot of one player's completed round.
type Record struct {
	RoundID      string                  `json:"round_id"`
	PlayerID     string                  `json:"player_id"`
	PlayerName   string                  `json:"player_name"`
	AccountID    string                  `json:"account_id"`
	CourseID     string                  `json:"course_id"`
	Tee          string                  `json:"tee"`
	Formats      []scoringdomain.Format  `json:"formats"`
	Handicap     float64                 `json:"handicap"`
	HandicapUsed float64                 `json:"handicap_used"`
	TeamHandicap *int                    `json:"team_handicap,omitempty"`
	Line         scoringdomain.ScoreLine `json:"line"`
	Gross        int                     `json:"gross"`
	Net          int                     `json:"net"`
	Stableford   int                     `json:"stableford"`
	HolesPlayed  int                     `json:"holes_played"`
	HolesWon     *int                    `json:"holes_won,omitempty"`
	TeamMatch    *TeamMatchResult        `json:"team_match,omitempty"`
	PlayedAt     time.Time               `json:"played_at"`
}

// SkippedPlayer is a player whose round was not archived.
type SkippedPlayer struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// RoundSummary is the finished round handed to BuildRecords.
type RoundSummary struct {
	RoundID    string
	Tee        *coursedomain.Tee
	Formats    []scoringdomain.Format
	Players    []rounddomain.Player
	Teams      []rounddomain.Team
	Lines      map[string]scoringdomain.ScoreLine
	MatchBasis scoringdomain.Basis
	PlayedAt   time.Time
}

// BuildRecords produces one record per archivable player.
func BuildRecords(sum RoundSummary) ([]Record, []SkippedPlayer) {
	scramble := slices.Contains(sum.Formats, scoringdomain.FormatScramble)

	standings := leaderboarddomain.Build(leaderboarddomain.Input{
		Tee:        sum.Tee,
		Formats:    sum.Formats,
		Players:    sum.Players,
		Teams:      sum.Teams,
		Lines:      sum.Lines,
		MatchBasis: sum.MatchBasis,
	})

	var records []Record
	var skipped []SkippedPlayer
	for _, p := range sum.Players {
		line := sum.Lines[p.ID]
		if line.HolesPlayed() == 0 {
			skipped = append(skipped, SkippedPlayer{PlayerID: p.ID, Name: p.Name, Reason: SkipNoHolesPlayed})
			continue
		}
		if !p.HasAccount() {
			skipped = append(skipped, SkippedPlayer{PlayerID: p.ID, Name: p.Name, Reason: SkipNoAccount})
			continue
		}

		rec := Record{
			RoundID:      sum.RoundID,
			PlayerID:     p.ID,
			PlayerName:   p.Name,
			AccountID:    *p.AccountID,
			CourseID:     sum.Tee.CourseID(),
			Tee:          sum.Tee.Name(),
			Formats:      slices.Clone(sum.Formats),
			Handicap:     p.Handicap,
			HandicapUsed: p.Handicap,
			Line:         line,
			PlayedAt:     sum.PlayedAt,
		}

		team, inTeam := teamOf(sum.Teams, p.ID)
		if inTeam {
			th := teamHandicap(sum.Players, team)
			rec.TeamHandicap = &th
			if scramble {
				rec.HandicapUsed = float64(th)
			}
		}

		totals := Recompute(sum.Tee, rec)
		rec.Gross = totals.Gross
		rec.Net = totals.Net
		rec.Stableford = totals.Stableford
		rec.HolesPlayed = totals.HolesPlayed

		if board, ok := standings.Board(scoringdomain.FormatMatchPlay); ok {
			for _, e := range board.Entries {
				if e.ID == p.ID {
					won := e.Totals[scoringdomain.FormatMatchPlay]
					rec.HolesWon = &won
				}
			}
		}
		if standings.TeamMatch != nil && inTeam {
			rec.TeamMatch = teamMatchResult(sum.Teams, team, standings.TeamMatch)
		}

		records = append(records, rec)
	}
	return records, skipped
}

func teamOf(teams []rounddomain.Team, playerID string) (rounddomain.Team, bool) {
	for _, t := range teams {
		if slices.Contains(t.PlayerIDs, playerID) {
			return t, true
		}
	}
	return rounddomain.Team{}, false
}

func teamHandicap(players []rounddomain.Player, team rounddomain.Team) int {
	handicaps := make([]float64, 0, len(team.PlayerIDs))
	for _, p := range players {
		if slices.Contains(team.PlayerIDs, p.ID) {
			handicaps = append(handicaps, p.Handicap)
		}
	}
	return scoringdomain.TeamHandicap(handicaps)
}

// teamMatchResult flips the margins when the player is on the second team.
func teamMatchResult(teams []rounddomain.Team, team rounddomain.Team, status *scoringdomain.TeamMatchStatus) *TeamMatchResult {
	sign := 1
	if len(teams) == 2 && teams[1].ID == team.ID {
		sign = -1
	}
	return &TeamMatchResult{
		TeamID:  team.ID,
		Front9:  sign * status.Front9,
		Back9:   sign * status.Back9,
		Overall: sign * status.Overall,
	}
}

// FormatTotals are the totals derivable from a stored score line.
type FormatTotals struct {
	Gross       int
	Net         int
	Stableford  int
	HolesPlayed int
}

// Recompute derives totals from the record's line and handicap used.
func Recompute(tee *coursedomain.Tee, rec Record) FormatTotals {
	t := scoringdomain.ComputeTotals(tee, rec.HandicapUsed, rec.Line)
	return FormatTotals{Gross: t.Gross, Net: t.Net, Stableford: t.Stableford, HolesPlayed: t.HolesPlayed}
}

// Verify checks the stored totals against a recomputation.
func Verify(tee *coursedomain.Tee, rec Record) error {
	got := Recompute(tee, rec)
	want := FormatTotals{Gross: rec.Gross, Net: rec.Net, Stableford: rec.Stableford, HolesPlayed: rec.HolesPlayed}
	if got != want {
		return fmt.Errorf("%w: stored %+v, recomputed %+v", ErrTotalsMismatch, want, got)
	}
	return nil
}
