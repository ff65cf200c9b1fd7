package roundhandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	historydomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/domain"
	"github.com/Black-And-White-Club/golf-scorecard/app/modules/notification"
	playerservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/player/application"
	roundservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/application"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// SessionHeader identifies the client a round belongs to.
const SessionHeader = "X-Session-ID"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errMissingSession = fmt.Errorf("missing %s header", SessionHeader)

// RoundHandlers serves the live round API.
type RoundHandlers struct {
	registry *Registry
	players  playerservice.PlayerSource
	notes    *notification.Buffer
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewRoundHandlers creates the handlers. players and notes may be nil.
func NewRoundHandlers(
	registry *Registry,
	players playerservice.PlayerSource,
	notes *notification.Buffer,
	logger *slog.Logger,
	tracer trace.Tracer,
) *RoundHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoundHandlers{
		registry: registry,
		players:  players,
		notes:    notes,
		logger:   logger,
		tracer:   tracer,
	}
}

// Routes mounts the round endpoints on r.
func (h *RoundHandlers) Routes(r chi.Router) {
	r.Route("/rounds", func(r chi.Router) {
		r.Post("/", h.HandleStart)
		r.Route("/current", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleAbandon)
			r.Post("/scores", h.HandleScore)
			r.Post("/advance", h.HandleAdvance)
			r.Put("/hole/{hole}", h.HandleGoToHole)
			r.Post("/complete", h.HandleComplete)
			r.Post("/history/retry", h.HandleRetryHistory)
			r.Get("/leaderboard", h.HandleLeaderboard)
			r.Get("/export.xlsx", h.HandleExport)
			r.Get("/notifications", h.HandleNotifications)
		})
	})
}

type startRequest struct {
	roundservice.StartRequest
	// PlayerIDs are resolved through the player source and added after any
	// players given in full.
	PlayerIDs []string `json:"player_ids,omitempty"`
}

type failedRecord struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Error    string `json:"error"`
}

type completionResponse struct {
	Saved           []string                      `json:"saved"`
	Failed          []failedRecord                `json:"failed"`
	Skipped         []historydomain.SkippedPlayer `json:"skipped"`
	CompletionError string                        `json:"completion_error,omitempty"`
}

func (h *RoundHandlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "RoundHandlers.HandleStart")
	defer span.End()

	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	var body startRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	req := body.StartRequest
	if len(body.PlayerIDs) > 0 {
		if h.players == nil {
			writeError(w, fmt.Errorf("%w: player lookup is not configured", errBadRequest))
			return
		}
		resolved, err := h.players.GetPlayers(ctx, body.PlayerIDs)
		if err != nil {
			h.logger.WarnContext(ctx, "Player lookup failed", attr.Error(err))
			writeError(w, err)
			return
		}
		req.Players = append(req.Players, resolved...)
	}

	session, err := h.registry.Start(ctx, key, req)
	if err != nil {
		h.logger.InfoContext(ctx, "Round start rejected", attr.String("session", key), attr.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (h *RoundHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *RoundHandlers) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "RoundHandlers.HandleScore")
	defer span.End()

	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var in roundservice.ScoreInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := session.EnterScore(ctx, in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *RoundHandlers) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.AdvanceHole(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *RoundHandlers) HandleGoToHole(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	hole, err := strconv.Atoi(chi.URLParam(r, "hole"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", roundservice.ErrInvalidHole, err))
		return
	}
	if err := session.GoToHole(hole); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *RoundHandlers) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "RoundHandlers.HandleComplete")
	defer span.End()

	session, ok := h.session(w, r)
	if !ok {
		return
	}
	report, err := session.Complete(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompletionResponse(report))
}

func (h *RoundHandlers) HandleRetryHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "RoundHandlers.HandleRetryHistory")
	defer span.End()

	session, ok := h.session(w, r)
	if !ok {
		return
	}
	report, err := session.RetryHistory(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompletionResponse(report))
}

func (h *RoundHandlers) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}
	if err := h.registry.Remove(key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RoundHandlers) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Leaderboard())
}

func (h *RoundHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := session.Export(&buf); err != nil {
		h.logger.ErrorContext(r.Context(), "Scorecard export failed", attr.RoundID(session.ID()), attr.Error(err))
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="scorecard-%s.xlsx"`, session.ID()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *RoundHandlers) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	notes := []notification.Notification{}
	if h.notes != nil {
		notes = append(notes, h.notes.Recent(session.ID())...)
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *RoundHandlers) sessionKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := r.Header.Get(SessionHeader)
	if key == "" {
		writeError(w, errMissingSession)
		return "", false
	}
	return key, true
}

func (h *RoundHandlers) session(w http.ResponseWriter, r *http.Request) (roundservice.Service, bool) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return nil, false
	}
	s, err := h.registry.Get(key)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

func (h *RoundHandlers) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	if h.tracer == nil {
		return r.Context(), trace.SpanFromContext(r.Context())
	}
	return h.tracer.Start(r.Context(), name)
}

func toCompletionResponse(report roundservice.CompletionReport) completionResponse {
	resp := completionResponse{
		Saved:   []string{},
		Failed:  []failedRecord{},
		Skipped: report.Skipped,
	}
	if resp.Skipped == nil {
		resp.Skipped = []historydomain.SkippedPlayer{}
	}
	for _, rec := range report.Saved {
		resp.Saved = append(resp.Saved, rec.PlayerID)
	}
	for _, f := range report.Failed {
		fr := failedRecord{PlayerID: f.Record.PlayerID, Name: f.Record.PlayerName}
		if f.Err != nil {
			fr.Error = f.Err.Error()
		}
		resp.Failed = append(resp.Failed, fr)
	}
	if report.CompletionErr != nil {
		resp.CompletionError = report.CompletionErr.Error()
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
