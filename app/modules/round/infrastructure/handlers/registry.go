package roundhandlers

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	roundservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
)

var (
	// ErrRoundInProgress is returned when a client starts a second round
	// before the first has finished.
	ErrRoundInProgress = errors.New("a round is already in progress")
	// ErrNoRound is returned when the client has no round.
	ErrNoRound = errors.New("no round for this session")
)

// Factory builds an unstarted round session.
type Factory func() roundservice.Service

// Registry holds one round per client session.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]roundservice.Service
	factory  Factory
	logger   *slog.Logger
}

func NewRegistry(factory Factory, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]roundservice.Service),
		factory:  factory,
		logger:   logger,
	}
}

// Start creates and starts a round for the client. A finished round is
// replaced; an unfinished one is not.
func (r *Registry) Start(ctx context.Context, key string, req roundservice.StartRequest) (roundservice.Service, error) {
	r.mu.Lock()
	prev, ok := r.sessions[key]
	if ok && !prev.State().Terminal() {
		r.mu.Unlock()
		return nil, ErrRoundInProgress
	}
	session := r.factory()
	r.sessions[key] = session
	r.mu.Unlock()

	if err := session.Start(ctx, req); err != nil {
		r.mu.Lock()
		if r.sessions[key] == session {
			if prev != nil {
				r.sessions[key] = prev
			} else {
				delete(r.sessions, key)
			}
		}
		r.mu.Unlock()
		return nil, err
	}
	return session, nil
}

// Get returns the client's round.
func (r *Registry) Get(key string) (roundservice.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	if !ok || s.State() == rounddomain.StateNotStarted {
		return nil, ErrNoRound
	}
	return s, nil
}

// Remove abandons the client's round if it is still running and forgets it.
func (r *Registry) Remove(key string) error {
	r.mu.Lock()
	s, ok := r.sessions[key]
	if !ok {
		r.mu.Unlock()
		return ErrNoRound
	}
	delete(r.sessions, key)
	r.mu.Unlock()

	if err := s.Abandon(); err != nil && !errors.Is(err, roundservice.ErrRoundNotActive) {
		return err
	}
	return nil
}

// Find returns the session playing a round.
func (r *Registry) Find(roundID string) (roundservice.Service, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID() == roundID {
			return s, true
		}
	}
	return nil, false
}

// ReportWriteFailure routes a failed background write to its round.
func (r *Registry) ReportWriteFailure(ctx context.Context, w scorecardservice.ScoreWrite, err error) {
	s, ok := r.Find(w.RoundID)
	if !ok {
		r.logger.WarnContext(ctx, "Score write failed for unknown round",
			attr.RoundID(w.RoundID),
			attr.ScorecardID(w.ScorecardID),
			attr.Error(err),
		)
		return
	}
	s.ReportWriteFailure(scorecardservice.WriteFailure{Write: w, Err: err})
}

// Close abandons every running round.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]roundservice.Service)
	r.mu.Unlock()

	for key, s := range sessions {
		if err := s.Abandon(); err != nil && !errors.Is(err, roundservice.ErrRoundNotActive) {
			r.logger.Warn("Failed to abandon round on shutdown", attr.String("session", key), attr.Error(err))
		}
	}
}
