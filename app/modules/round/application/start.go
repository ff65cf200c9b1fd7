package roundservice

import (
	"context"
	"fmt"
	"slices"

	leaderboardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/golf-scorecard/app/modules/notification"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/Black-And-White-Club/golf-scorecard/internal/debounce"
	"github.com/google/uuid"
)

// Start validates the request, creates scorecards and opens play on hole 1.
// Validation failures are returned as *StartError.
func (s *Session) Start(ctx context.Context, req StartRequest) (err error) {
	ctx, end := s.observe(ctx, "StartRound")
	defer func() { end(err) }()

	s.mu.Lock()
	if s.state != rounddomain.StateNotStarted || s.starting {
		s.mu.Unlock()
		return ErrRoundAlreadyStarted
	}
	s.starting = true
	s.mu.Unlock()
	defer func() {
		if err != nil {
			s.mu.Lock()
			s.starting = false
			s.mu.Unlock()
		}
	}()

	req, err = normalizeStart(req)
	if err != nil {
		return err
	}

	tee, err := s.deps.Tees.GetTee(ctx, req.CourseID, req.Tee)
	if err != nil {
		return &StartError{Err: ErrCourseUnavailable, Detail: err.Error()}
	}

	if req.RoundID == "" {
		req.RoundID = uuid.NewString()
	}
	if req.EventID == "" {
		req.EventID = req.RoundID
	}
	if req.MinDrivesPerPlayer == 0 {
		req.MinDrivesPerPlayer = s.cfg.DefaultMinDrives
	}

	cardRequests := make([]scorecardservice.CardRequest, 0, len(req.Players))
	for _, p := range req.Players {
		cardRequests = append(cardRequests, scorecardservice.CardRequest{PlayerID: p.ID, Handicap: p.Handicap})
	}
	roster := s.deps.Gateway.CreateScorecards(ctx, scorecardservice.CreateRequest{
		RoundID: req.RoundID,
		EventID: req.EventID,
		Players: cardRequests,
	})
	s.deps.Gateway.OnWriteFailure(s.ReportWriteFailure)

	s.mu.Lock()
	s.starting = false
	s.id = req.RoundID
	s.req = req
	s.tee = tee
	s.roster = roster
	s.drives = make(map[string]map[int]string)
	s.state = rounddomain.StateActive
	s.hole = 1
	s.startedAt = s.deps.Now()

	delay := s.cfg.AutoAdvanceDelay
	if s.scramble() {
		delay = s.cfg.ScrambleAutoAdvanceDelay
	}
	s.advance = debounce.New(delay, s.autoAdvance)
	s.board = leaderboardservice.NewAggregator(s.id, s.leaderboardInput, s.deps.Publisher,
		s.cfg.LeaderboardDebounce, s.deps.Logger, s.deps.Metrics, s.deps.Tracer)
	s.mu.Unlock()

	if _, lbErr := s.board.RecomputeNow(ctx); lbErr != nil {
		s.deps.Logger.WarnContext(ctx, "Initial leaderboard publish failed", attr.RoundID(req.RoundID), attr.Error(lbErr))
	}

	s.deps.Logger.InfoContext(ctx, "Round started",
		attr.ExtractCorrelationID(ctx),
		attr.RoundID(req.RoundID),
		attr.String("course_id", req.CourseID),
		attr.String("tee", req.Tee),
		attr.Int("players", len(req.Players)),
		attr.String("mode", string(roster.Mode)),
	)

	if roster.Mode == scorecardservice.ModeOffline {
		details := map[string]string{}
		if roster.FallbackCause != nil {
			details["cause"] = roster.FallbackCause.Error()
		}
		s.notify(ctx, notification.LevelWarning, notification.KindOfflineMode,
			"Scorecards could not be created online. Scores are kept on this device.", details)
	}
	s.notify(ctx, notification.LevelInfo, notification.KindRoundStarted,
		fmt.Sprintf("Round started on %s (%s tee) with %d players", tee.CourseID(), tee.Name(), len(req.Players)), nil)
	return nil
}

// normalizeStart validates a start request and fills in default teams.
func normalizeStart(req StartRequest) (StartRequest, error) {
	if len(req.Players) == 0 {
		return req, &StartError{Err: ErrNoPlayers}
	}
	seen := make(map[string]bool, len(req.Players))
	for _, p := range req.Players {
		if p.ID == "" || seen[p.ID] {
			return req, startErr(ErrDuplicatePlayer, "player id %q", p.ID)
		}
		seen[p.ID] = true
	}

	if len(req.Formats) == 0 {
		return req, &StartError{Err: ErrNoFormats}
	}
	var formats []scoringdomain.Format
	for _, f := range req.Formats {
		if !f.Valid() {
			return req, startErr(scoringdomain.ErrUnknownFormat, "%q", f)
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	req.Formats = formats

	scramble := slices.Contains(formats, scoringdomain.FormatScramble)
	teamMatch := slices.Contains(formats, scoringdomain.FormatTeamMatchPlay)
	if scramble && teamMatch {
		return req, &StartError{Err: ErrConflictingTeamFormats}
	}
	if !scramble && !teamMatch {
		req.Teams = nil
		return req, nil
	}

	if scramble && len(req.Teams) == 0 {
		ids := make([]string, 0, len(req.Players))
		for _, p := range req.Players {
			ids = append(ids, p.ID)
		}
		req.Teams = []rounddomain.Team{{ID: "team_1", PlayerIDs: ids}}
	}
	if teamMatch {
		if len(req.Teams) != 2 {
			return req, startErr(ErrInvalidTeams, "team match play needs exactly 2 teams, got %d", len(req.Teams))
		}
		for _, t := range req.Teams {
			if len(t.PlayerIDs) != 2 {
				return req, startErr(ErrInvalidTeams, "team match play needs teams of 2 players")
			}
		}
		if !req.MatchBasis.Valid() {
			req.MatchBasis = scoringdomain.BasisStroke
		}
	}

	teams := make([]rounddomain.Team, 0, len(req.Teams))
	assigned := make(map[string]bool, len(req.Players))
	for i, t := range req.Teams {
		if t.ID == "" {
			t.ID = fmt.Sprintf("team_%d", i+1)
		}
		if len(t.PlayerIDs) == 0 {
			return req, startErr(ErrInvalidTeams, "team %s has no players", t.ID)
		}
		for _, id := range t.PlayerIDs {
			if !seen[id] {
				return req, startErr(ErrInvalidTeams, "team %s lists unknown player %q", t.ID, id)
			}
			if assigned[id] {
				return req, startErr(ErrInvalidTeams, "player %q is on more than one team", id)
			}
			assigned[id] = true
		}
		t.PlayerIDs = slices.Clone(t.PlayerIDs)
		teams = append(teams, t)
	}
	if len(assigned) != len(req.Players) {
		return req, startErr(ErrInvalidTeams, "every player must be on a team")
	}
	req.Teams = teams
	return req, nil
}

// leaderboardInput projects the score cache for the aggregator.
func (s *Session) leaderboardInput() leaderboarddomain.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboardInputLocked()
}

func (s *Session) leaderboardInputLocked() leaderboarddomain.Input {
	return leaderboarddomain.Input{
		Tee:        s.tee,
		Formats:    s.req.Formats,
		Players:    s.req.Players,
		Teams:      s.req.Teams,
		Lines:      s.linesLocked(),
		MatchBasis: s.req.MatchBasis,
	}
}

func (s *Session) linesLocked() map[string]scoringdomain.ScoreLine {
	lines := make(map[string]scoringdomain.ScoreLine, len(s.req.Players))
	for _, p := range s.req.Players {
		lines[p.ID] = s.cache.Line(p.ID)
	}
	return lines
}
