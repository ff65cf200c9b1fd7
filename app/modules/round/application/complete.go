package roundservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	historyservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/application"
	historydomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/domain"
	"github.com/Black-And-White-Club/golf-scorecard/app/modules/notification"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
)

// CompletionReport is the outcome of completing a round.
type CompletionReport struct {
	Saved         []historydomain.Record        `json:"saved"`
	Failed        []historyservice.FailedRecord `json:"-"`
	Skipped       []historydomain.SkippedPlayer `json:"skipped"`
	CompletionErr error                         `json:"-"`
}

// Complete validates the round, settles remote scorecards and writes
// history. A *historydomain.ValidationError leaves the round active.
func (s *Session) Complete(ctx context.Context) (report CompletionReport, err error) {
	ctx, end := s.observe(ctx, "CompleteRound")
	defer func() { end(err) }()

	s.mu.Lock()
	if s.state != rounddomain.StateActive {
		s.mu.Unlock()
		return CompletionReport{}, ErrRoundNotActive
	}
	s.state = rounddomain.StateCompleting

	lines := s.linesLocked()
	err = historydomain.ValidateCompletion(historydomain.CompletionInput{
		Formats:            s.req.Formats,
		Players:            s.req.Players,
		Lines:              lines,
		DriveCounts:        s.driveCountsLocked(),
		MinDrivesPerPlayer: s.req.MinDrivesPerPlayer,
	})
	if err != nil {
		s.state = rounddomain.StateActive
		s.mu.Unlock()

		details := map[string]string{}
		var verr *historydomain.ValidationError
		if errors.As(err, &verr) && len(verr.Conditions) > 0 {
			details["conditions"] = strings.Join(verr.Conditions, "; ")
		}
		s.notify(ctx, notification.LevelWarning, notification.KindValidationRejected, err.Error(), details)
		return CompletionReport{}, err
	}

	s.advance.Cancel()
	roundID := s.id
	cards := onlineCards(s.roster)
	summary := historydomain.RoundSummary{
		RoundID:    s.id,
		Tee:        s.tee,
		Formats:    s.req.Formats,
		Players:    s.req.Players,
		Teams:      s.req.Teams,
		Lines:      lines,
		MatchBasis: s.req.MatchBasis,
		PlayedAt:   s.startedAt,
	}
	s.mu.Unlock()

	flushCtx, cancel := context.WithTimeout(ctx, s.cfg.FlushTimeout)
	if flushErr := s.deps.Gateway.Flush(flushCtx); flushErr != nil {
		s.deps.Logger.WarnContext(ctx, "Score writes still in flight at completion",
			attr.RoundID(roundID),
			attr.Error(flushErr),
		)
	}
	cancel()

	completionErr := s.deps.Gateway.MarkComplete(ctx, cards)
	if completionErr != nil {
		s.notify(ctx, notification.LevelError, notification.KindCompletionFailed,
			"Some scorecards could not be marked complete online.",
			map[string]string{"error": completionErr.Error()})
	}

	if _, lbErr := s.board.RecomputeNow(ctx); lbErr != nil {
		s.deps.Logger.WarnContext(ctx, "Final leaderboard publish failed", attr.RoundID(roundID), attr.Error(lbErr))
	}
	s.board.Stop()

	records, skipped := historydomain.BuildRecords(summary)
	for _, sp := range skipped {
		s.notify(ctx, notification.LevelWarning, notification.KindHistorySkipped,
			fmt.Sprintf("%s was not added to history: %s", sp.Name, sp.Reason),
			map[string]string{"player_id": sp.PlayerID, "reason": sp.Reason})
	}

	hist := s.recordHistory(ctx, records)

	s.mu.Lock()
	s.state = rounddomain.StateCompleted
	s.failedHistory = hist.Failed
	s.skipped = skipped
	s.completionErr = completionErr
	s.mu.Unlock()

	s.notifyHistory(ctx, hist)
	s.notify(ctx, notification.LevelSuccess, notification.KindRoundCompleted, "Round completed", nil)

	s.deps.Logger.InfoContext(ctx, "Round completed",
		attr.ExtractCorrelationID(ctx),
		attr.RoundID(roundID),
		attr.Int("history_saved", len(hist.Saved)),
		attr.Int("history_failed", len(hist.Failed)),
		attr.Int("history_skipped", len(skipped)),
	)

	return CompletionReport{
		Saved:         hist.Saved,
		Failed:        hist.Failed,
		Skipped:       skipped,
		CompletionErr: completionErr,
	}, nil
}

// RetryHistory re-attempts the history writes that failed at completion.
func (s *Session) RetryHistory(ctx context.Context) (report CompletionReport, err error) {
	ctx, end := s.observe(ctx, "RetryHistory")
	defer func() { end(err) }()

	s.mu.Lock()
	if s.state != rounddomain.StateCompleted {
		s.mu.Unlock()
		return CompletionReport{}, ErrRoundNotCompleted
	}
	failed := s.failedHistory
	skipped := s.skipped
	completionErr := s.completionErr
	s.mu.Unlock()

	if len(failed) == 0 {
		return CompletionReport{Skipped: skipped, CompletionErr: completionErr}, nil
	}

	var hist historyservice.Report
	if s.deps.History == nil {
		hist = unavailable(failedRecords(failed))
	} else {
		hist = s.deps.History.Retry(ctx, failed)
	}

	s.mu.Lock()
	s.failedHistory = hist.Failed
	s.mu.Unlock()

	s.notifyHistory(ctx, hist)
	return CompletionReport{
		Saved:         hist.Saved,
		Failed:        hist.Failed,
		Skipped:       skipped,
		CompletionErr: completionErr,
	}, nil
}

// Abandon ends the session without completing it. Remote scorecards are
// left untouched. Finished sessions are already settled and return nil.
func (s *Session) Abandon() error {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return nil
	}
	if s.state != rounddomain.StateActive {
		s.mu.Unlock()
		return ErrRoundNotActive
	}
	s.state = rounddomain.StateAbandoned
	roundID := s.id
	s.advance.Stop()
	s.mu.Unlock()

	s.board.Stop()
	s.deps.Gateway.Close()
	s.deps.Logger.Info("Round abandoned", attr.RoundID(roundID))
	return nil
}

func (s *Session) recordHistory(ctx context.Context, records []historydomain.Record) historyservice.Report {
	if len(records) == 0 {
		return historyservice.Report{}
	}
	if s.deps.History == nil {
		return unavailable(records)
	}
	return s.deps.History.Record(ctx, records)
}

func (s *Session) notifyHistory(ctx context.Context, hist historyservice.Report) {
	if !hist.OK() {
		names := make([]string, 0, len(hist.Failed))
		for _, f := range hist.Failed {
			names = append(names, f.Record.PlayerName)
		}
		details := map[string]string{}
		if err := hist.Failed[0].Err; err != nil {
			details["error"] = err.Error()
		}
		s.notify(ctx, notification.LevelError, notification.KindHistoryFailed,
			fmt.Sprintf("History could not be saved for %s. Retry when back online.", strings.Join(names, ", ")),
			details)
		return
	}
	if len(hist.Saved) > 0 {
		s.notify(ctx, notification.LevelSuccess, notification.KindHistorySaved,
			fmt.Sprintf("History saved for %d players", len(hist.Saved)), nil)
	}
}

func unavailable(records []historydomain.Record) historyservice.Report {
	var r historyservice.Report
	for _, rec := range records {
		r.Failed = append(r.Failed, historyservice.FailedRecord{Record: rec, Err: ErrHistoryUnavailable})
	}
	return r
}

func failedRecords(failed []historyservice.FailedRecord) []historydomain.Record {
	records := make([]historydomain.Record, 0, len(failed))
	for _, f := range failed {
		records = append(records, f.Record)
	}
	return records
}

func onlineCards(r scorecardservice.Roster) []scorecardservice.Card {
	var cards []scorecardservice.Card
	for _, c := range r.Cards {
		if !c.Offline() {
			cards = append(cards, c)
		}
	}
	return cards
}
