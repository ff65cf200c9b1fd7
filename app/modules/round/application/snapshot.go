package roundservice

import (
	"io"
	"slices"
	"time"

	historyexport "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/infrastructure/export"
	leaderboarddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
)

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	ID             string                             `json:"id"`
	EventID        string                             `json:"event_id"`
	State          rounddomain.State                  `json:"state"`
	Hole           int                                `json:"hole"`
	CourseID       string                             `json:"course_id"`
	Tee            string                             `json:"tee"`
	Formats        []scoringdomain.Format             `json:"formats"`
	Players        []rounddomain.Player               `json:"players"`
	Teams          []rounddomain.Team                 `json:"teams,omitempty"`
	MatchBasis     scoringdomain.Basis                `json:"match_basis,omitempty"`
	Mode           scorecardservice.Mode              `json:"mode"`
	Cards          []scorecardservice.Card            `json:"cards"`
	Lines          map[string]scoringdomain.ScoreLine `json:"lines"`
	DriveCounts    map[string]int                     `json:"drive_counts,omitempty"`
	MinDrives      int                                `json:"min_drives_per_player,omitempty"`
	HistoryPending int                                `json:"history_pending"`
	FailedWrites   int                                `json:"failed_writes"`
	StartedAt      time.Time                          `json:"started_at"`
}

// Snapshot copies the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		EventID:        s.req.EventID,
		State:          s.state,
		Hole:           s.hole,
		CourseID:       s.req.CourseID,
		Tee:            s.req.Tee,
		Formats:        slices.Clone(s.req.Formats),
		Players:        slices.Clone(s.req.Players),
		MatchBasis:     s.req.MatchBasis,
		Mode:           s.roster.Mode,
		Cards:          slices.Clone(s.roster.Cards),
		Lines:          s.linesLocked(),
		MinDrives:      s.req.MinDrivesPerPlayer,
		HistoryPending: len(s.failedHistory),
		FailedWrites:   len(s.failedWrites),
		StartedAt:      s.startedAt,
	}
	for _, t := range s.req.Teams {
		t.PlayerIDs = slices.Clone(t.PlayerIDs)
		snap.Teams = append(snap.Teams, t)
	}
	if s.scramble() {
		snap.DriveCounts = s.driveCountsLocked()
	}
	return snap
}

// Leaderboard returns the latest published standings.
func (s *Session) Leaderboard() leaderboarddomain.Standings {
	s.mu.Lock()
	board := s.board
	s.mu.Unlock()
	if board == nil {
		return leaderboarddomain.Standings{}
	}
	return board.Latest()
}

// Export writes the scorecard workbook for the current scores.
func (s *Session) Export(w io.Writer) error {
	s.mu.Lock()
	if s.state == rounddomain.StateNotStarted {
		s.mu.Unlock()
		return ErrRoundNotActive
	}
	in := historyexport.ExportInput{
		Tee:     s.tee,
		Players: slices.Clone(s.req.Players),
		Lines:   s.linesLocked(),
	}
	board := s.board
	s.mu.Unlock()

	in.Standings = board.Latest()
	return historyexport.WriteScorecard(w, in)
}
