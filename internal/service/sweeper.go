package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/splitbook/splitbook/internal/config"
	"github.com/splitbook/splitbook/internal/repository"
)

// SessionSweeper periodically deletes defunct sessions and re-applies the
// per-user session cap. Every pass works off absolute timestamps, so
// overlapping or repeated runs are harmless.
type SessionSweeper struct {
	sessionRepo repository.SessionRepository
	cfg         *config.Config
	log         *slog.Logger
}

func NewSessionSweeper(sessionRepo repository.SessionRepository, cfg *config.Config, log *slog.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessionRepo: sessionRepo,
		cfg:         cfg,
		log:         log,
	}
}

// Run blocks until ctx is cancelled, sweeping on the configured interval.
// Errors are logged and the loop continues.
func (s *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	s.log.Info("session sweeper started", "interval", s.cfg.CleanupInterval)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Error("session sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one cleanup pass: delete expired and stale-revoked sessions,
// then re-apply the per-user cap in case concurrent logins drifted past it.
func (s *SessionSweeper) Sweep(ctx context.Context) error {
	now := time.Now()
	staleBefore := now.Add(-s.cfg.RevokedRetention)

	deleted, err := s.sessionRepo.DeleteDefunct(ctx, now, staleBefore)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.log.Info("deleted defunct sessions", "count", deleted)
	}

	userIDs, err := s.sessionRepo.UserIDsWithValidSessions(ctx, now)
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		sessions, err := s.sessionRepo.ListValidByUserID(ctx, userID, now)
		if err != nil {
			s.log.Error("failed to list sessions for cap check", "userId", userID, "error", err)
			continue
		}
		if len(sessions) <= s.cfg.MaxSessionsPerUser {
			continue
		}
		for _, victim := range sessions[s.cfg.MaxSessionsPerUser:] {
			if err := s.sessionRepo.Revoke(ctx, victim.ID, now); err != nil {
				s.log.Error("failed to revoke over-cap session", "sessionId", victim.ID, "error", err)
			}
		}
		s.log.Info("re-applied session cap", "userId", userID, "revoked", len(sessions)-s.cfg.MaxSessionsPerUser)
	}

	return nil
}
