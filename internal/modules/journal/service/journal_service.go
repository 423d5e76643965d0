package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"bjjflow/internal/modules/journal/domain"
	journalout "bjjflow/internal/modules/journal/port/out"
	"bjjflow/internal/platform/clock"
	apperrors "bjjflow/internal/platform/errors"
	"bjjflow/internal/platform/id"
	"bjjflow/internal/platform/logging"
)

// JournalService owns the in-memory journal. The slice is loaded once and
// every mutation rewrites the repository under the write lock.
type JournalService struct {
	clock  clock.Clock
	idGen  id.Generator
	repo   journalout.SessionRepository
	logger *slog.Logger

	mu       sync.RWMutex
	loaded   bool
	sessions []domain.Session
}

func NewJournalService(clock clock.Clock, idGen id.Generator, repo journalout.SessionRepository, logger *slog.Logger) *JournalService {
	return &JournalService{clock: clock, idGen: idGen, repo: repo, logger: logger}
}

// Open loads the journal on first call; later calls are no-ops.
func (s *JournalService) Open(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked(ctx)
}

func (s *JournalService) openLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	sessions, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	s.sessions = sessions
	s.loaded = true
	logging.Service(ctx, s.logger, "journal", "open").Debug("journal loaded", "sessions", len(sessions))
	return nil
}

// Add validates draft, assigns a fresh id and prepends it. A blank date
// defaults to today.
func (s *JournalService) Add(ctx context.Context, draft domain.Session) (domain.Session, error) {
	if strings.TrimSpace(draft.Date) == "" {
		draft.Date = clock.Today(s.clock)
	}
	draft.Date = strings.TrimSpace(draft.Date)
	if err := draft.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	draft.ID = s.idGen.New()
	if draft.Positions == nil {
		draft.Positions = []string{}
	}
	if draft.Drills == nil {
		draft.Drills = []string{}
	}
	if draft.Partners == nil {
		draft.Partners = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.openLocked(ctx); err != nil {
		return domain.Session{}, err
	}
	next := make([]domain.Session, 0, len(s.sessions)+1)
	next = append(next, draft)
	next = append(next, s.sessions...)
	if err := s.repo.Save(ctx, next); err != nil {
		return domain.Session{}, fmt.Errorf("save journal: %w", err)
	}
	s.sessions = next
	logging.Service(ctx, s.logger, "journal", "add", "session_id", draft.ID).Info("session added", "type", string(draft.Type), "date", draft.Date)
	return draft, nil
}

// Remove drops the session with id. An unknown id leaves the journal
// untouched and reports false.
func (s *JournalService) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.openLocked(ctx); err != nil {
		return false, err
	}
	next := make([]domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if session.ID != id {
			next = append(next, session)
		}
	}
	if len(next) == len(s.sessions) {
		return false, nil
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return false, fmt.Errorf("save journal: %w", err)
	}
	s.sessions = next
	logging.Service(ctx, s.logger, "journal", "remove", "session_id", id).Info("session removed")
	return true, nil
}

// Snapshot returns a copy of the journal in store order, newest insert first.
func (s *JournalService) Snapshot() []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

func (s *JournalService) Get(ctx context.Context, id string) (domain.Session, error) {
	if err := s.Open(ctx); err != nil {
		return domain.Session{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.sessions {
		if session.ID == id {
			return session, nil
		}
	}
	return domain.Session{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
}
