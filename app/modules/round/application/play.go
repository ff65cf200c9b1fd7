package roundservice

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	"github.com/Black-And-White-Club/golf-scorecard/app/modules/notification"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
)

// EnterScore records a gross score. In a scramble the score is written for
// every member of the team under one lock.
func (s *Session) EnterScore(ctx context.Context, in ScoreInput) error {
	if in.Hole < 1 || in.Hole > coursedomain.HolesPerRound {
		return fmt.Errorf("%w: %d", ErrInvalidHole, in.Hole)
	}
	if in.Gross < scoringdomain.MinGross || in.Gross > scoringdomain.MaxGross {
		return fmt.Errorf("%w: %d not in %d-%d", ErrScoreOutOfRange, in.Gross, scoringdomain.MinGross, scoringdomain.MaxGross)
	}

	s.mu.Lock()
	if s.state != rounddomain.StateActive {
		s.mu.Unlock()
		return ErrRoundNotActive
	}

	playerIDs, err := s.resolveCompetitorLocked(in)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	for _, id := range playerIDs {
		s.cache.Set(id, in.Hole, in.Gross)
	}

	cards := make([]scorecardservice.Card, 0, len(playerIDs))
	for _, id := range playerIDs {
		if card, ok := s.roster.Card(id); ok {
			cards = append(cards, card)
		}
	}

	if in.Hole == s.hole && s.hole < coursedomain.HolesPerRound && s.holeCompleteLocked(s.hole) {
		s.advanceFrom = s.hole
		s.advance.Trigger()
	}
	roundID := s.id
	s.mu.Unlock()

	for _, card := range cards {
		s.deps.Gateway.SaveScore(ctx, card, in.Hole, in.Gross)
	}
	s.board.Schedule()

	s.deps.Logger.DebugContext(ctx, "Score entered",
		attr.ExtractCorrelationID(ctx),
		attr.RoundID(roundID),
		attr.String("competitor_id", in.CompetitorID),
		attr.Hole(in.Hole),
		attr.Int("gross", in.Gross),
	)
	return nil
}

// resolveCompetitorLocked returns the players a score applies to and records
// the scramble drive when one is given.
func (s *Session) resolveCompetitorLocked(in ScoreInput) ([]string, error) {
	if !s.scramble() {
		for _, p := range s.req.Players {
			if p.ID == in.CompetitorID {
				return []string{p.ID}, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompetitor, in.CompetitorID)
	}

	team, ok := s.teamForLocked(in.CompetitorID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompetitor, in.CompetitorID)
	}
	if in.DrivePlayerID != "" {
		if !slices.Contains(team.PlayerIDs, in.DrivePlayerID) {
			return nil, fmt.Errorf("%w: %q", ErrDriveNotInTeam, in.DrivePlayerID)
		}
		holes, ok := s.drives[team.ID]
		if !ok {
			holes = make(map[int]string)
			s.drives[team.ID] = holes
		}
		holes[in.Hole] = in.DrivePlayerID
	}
	return team.PlayerIDs, nil
}

func (s *Session) teamForLocked(id string) (rounddomain.Team, bool) {
	for _, t := range s.req.Teams {
		if t.ID == id || slices.Contains(t.PlayerIDs, id) {
			return t, true
		}
	}
	return rounddomain.Team{}, false
}

func (s *Session) holeCompleteLocked(hole int) bool {
	for _, p := range s.req.Players {
		if _, ok := s.cache.Get(p.ID, hole); !ok {
			return false
		}
	}
	return true
}

func (s *Session) autoAdvance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != rounddomain.StateActive || s.hole != s.advanceFrom || s.hole >= coursedomain.HolesPerRound {
		return
	}
	s.hole++
}

// AdvanceHole moves to the next hole.
func (s *Session) AdvanceHole() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != rounddomain.StateActive {
		return ErrRoundNotActive
	}
	if s.hole >= coursedomain.HolesPerRound {
		return fmt.Errorf("%w: already on hole %d", ErrInvalidHole, s.hole)
	}
	s.advance.Cancel()
	s.hole++
	return nil
}

// GoToHole moves to any hole without touching scores.
func (s *Session) GoToHole(hole int) error {
	if hole < 1 || hole > coursedomain.HolesPerRound {
		return fmt.Errorf("%w: %d", ErrInvalidHole, hole)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != rounddomain.StateActive {
		return ErrRoundNotActive
	}
	s.advance.Cancel()
	s.hole = hole
	return nil
}

// driveCountsLocked counts the drives used per player.
func (s *Session) driveCountsLocked() map[string]int {
	counts := make(map[string]int, len(s.req.Players))
	for _, holes := range s.drives {
		for _, playerID := range holes {
			counts[playerID]++
		}
	}
	return counts
}

// ReportWriteFailure records a score write that never reached the remote
// store and warns the scorer.
func (s *Session) ReportWriteFailure(f scorecardservice.WriteFailure) {
	s.mu.Lock()
	s.failedWrites = append(s.failedWrites, f)
	name := f.Write.PlayerID
	for _, p := range s.req.Players {
		if p.ID == f.Write.PlayerID {
			name = p.Name
		}
	}
	s.mu.Unlock()

	details := map[string]string{
		"player_id":    f.Write.PlayerID,
		"scorecard_id": f.Write.ScorecardID,
		"hole":         strconv.Itoa(f.Write.Hole),
	}
	if f.Err != nil {
		details["error"] = f.Err.Error()
	}
	s.notify(context.Background(), notification.LevelError, notification.KindScoreSaveFailed,
		fmt.Sprintf("Score for %s on hole %d was not saved online. It is kept on this device.", name, f.Write.Hole),
		details)
}
