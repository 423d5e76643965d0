package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"bjjflow/internal/modules/journal/domain"
	journalout "bjjflow/internal/modules/journal/port/out"
	"bjjflow/internal/platform/clock"
	"bjjflow/internal/platform/kv"
	"bjjflow/internal/platform/logging"
)

const maxCorruptBackups = 3

// KVSessionRepository stores the journal as one JSON array under a single
// key, the way the browser journal used localStorage.
type KVSessionRepository struct {
	store      kv.Store
	key        string
	legacyKeys []string
	clock      clock.Clock
	logger     *slog.Logger
}

func NewKVSessionRepository(store kv.Store, key string, legacyKeys []string, clock clock.Clock, logger *slog.Logger) journalout.SessionRepository {
	return &KVSessionRepository{store: store, key: key, legacyKeys: legacyKeys, clock: clock, logger: logger}
}

// Load reads the journal. An absent key triggers legacy migration; an
// unparseable payload is copied aside and the journal starts empty.
func (r *KVSessionRepository) Load(ctx context.Context) ([]domain.Session, error) {
	logger := logging.Service(ctx, r.logger, "journal", "load", "key", r.key)
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return r.migrate(ctx, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	sessions, err := decodeSessions(raw)
	if err != nil {
		backup := r.key + ".corrupt." + strconv.FormatInt(r.clock.Now().Unix(), 10)
		logger.Warn("journal payload unreadable; starting empty", "error", err, "backup_key", backup)
		if setErr := r.store.Set(ctx, backup, raw); setErr != nil {
			return nil, fmt.Errorf("back up corrupt journal: %w", setErr)
		}
		if pruneErr := r.pruneBackups(ctx); pruneErr != nil {
			logger.Warn("prune corrupt journal backups", "error", pruneErr)
		}
		return []domain.Session{}, nil
	}
	return sessions, nil
}

func (r *KVSessionRepository) Save(ctx context.Context, sessions []domain.Session) error {
	if sessions == nil {
		sessions = []domain.Session{}
	}
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(raw)); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// migrate copies the newest readable legacy journal to the current key. The
// legacy key is left untouched.
func (r *KVSessionRepository) migrate(ctx context.Context, logger *slog.Logger) ([]domain.Session, error) {
	for _, legacy := range r.legacyKeys {
		raw, err := r.store.Get(ctx, legacy)
		if errors.Is(err, kv.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read legacy journal %s: %w", legacy, err)
		}
		sessions, err := decodeSessions(raw)
		if err != nil {
			logger.Warn("legacy journal unreadable; skipping", "legacy_key", legacy, "error", err)
			continue
		}
		if err := r.Save(ctx, sessions); err != nil {
			return nil, err
		}
		logger.Info("migrated legacy journal", "legacy_key", legacy, "sessions", len(sessions))
		return sessions, nil
	}
	return []domain.Session{}, nil
}

// pruneBackups keeps the newest maxCorruptBackups copies. Backup keys end
// in a unix timestamp, so key order is age order.
func (r *KVSessionRepository) pruneBackups(ctx context.Context) error {
	keys, err := r.store.Keys(ctx, r.key+".corrupt.")
	if err != nil {
		return err
	}
	for len(keys) > maxCorruptBackups {
		if err := r.store.Delete(ctx, keys[0]); err != nil {
			return err
		}
		keys = keys[1:]
	}
	return nil
}

func decodeSessions(raw string) ([]domain.Session, error) {
	var sessions []domain.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	normalizeTypes(sessions)
	return sessions, nil
}

// normalizeTypes maps Portuguese and alias labels onto the canonical types.
// Unknown labels are kept as stored.
func normalizeTypes(sessions []domain.Session) {
	for idx := range sessions {
		if t, err := domain.ParseSessionType(string(sessions[idx].Type)); err == nil {
			sessions[idx].Type = t
		}
	}
}
