package out_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	journalout "bjjflow/internal/modules/journal/adapter/out"
	"bjjflow/internal/modules/journal/domain"
	"bjjflow/internal/platform/kv"
	"bjjflow/internal/platform/logging"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

const key = "bjj_flow_journal_v4"

var legacyKeys = []string{"bjj_flow_journal_v3", "bjj_flow_journal_v2", "bjj_flow_journal_v1"}

func newStore(t *testing.T) *kv.SQLiteStore {
	t.Helper()
	store, err := kv.NewSQLiteStore(filepath.Join(t.TempDir(), "bjjflow.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	t.Parallel()
	repo := journalout.NewKVSessionRepository(newStore(t), key, legacyKeys, fixedClock{}, logging.Discard())
	sessions, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sessions == nil || len(sessions) != 0 {
		t.Fatalf("expected empty journal, got %#v", sessions)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := journalout.NewKVSessionRepository(newStore(t), key, nil, fixedClock{}, logging.Discard())
	in := []domain.Session{
		{ID: "2", Date: "2024-05-02", Type: domain.SessionTypeNoGi, Duration: 45, Intensity: 3, Positions: []string{"Mount"}, Drills: []string{}, Partners: []string{"Rafa"}, Notes: "good"},
		{ID: "1", Title: "Guard", Date: "2024-05-01", Type: domain.SessionTypeGi, Duration: 60, Intensity: 5, Positions: []string{}, Drills: []string{"Scissor"}, Partners: []string{}, Coach: "Prof. Lima"},
	}
	if err := repo.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[0].ID != "2" || out[1].ID != "1" {
		t.Fatalf("order not preserved: %#v", out)
	}
	if out[1].Coach != "Prof. Lima" || out[0].Partners[0] != "Rafa" || out[1].Drills[0] != "Scissor" {
		t.Fatalf("fields not preserved: %#v", out)
	}
}

func TestLoadCorruptPayloadIsBackedUp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)
	if err := store.Set(ctx, key, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := journalout.NewKVSessionRepository(store, key, legacyKeys, fixedClock{now: time.Unix(1700000000, 0)}, logging.Discard())
	sessions, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected empty journal, got %d", len(sessions))
	}
	backup, err := store.Get(ctx, key+".corrupt.1700000000")
	if err != nil {
		t.Fatalf("expected backup: %v", err)
	}
	if backup != "{not json" {
		t.Fatalf("unexpected backup %q", backup)
	}
}

func TestLoadMigratesNewestLegacyKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)
	if err := store.Set(ctx, "bjj_flow_journal_v1", `[{"id":"old","date":"2023-01-01","type":"Gi"}]`); err != nil {
		t.Fatalf("seed v1: %v", err)
	}
	if err := store.Set(ctx, "bjj_flow_journal_v3", `[{"id":"newer","date":"2024-01-01","type":"Competição","duration":"30"}]`); err != nil {
		t.Fatalf("seed v3: %v", err)
	}
	repo := journalout.NewKVSessionRepository(store, key, legacyKeys, fixedClock{}, logging.Discard())
	sessions, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "newer" {
		t.Fatalf("expected v3 journal, got %#v", sessions)
	}
	if sessions[0].Type != domain.SessionTypeCompetition || sessions[0].Duration != 30 {
		t.Fatalf("expected normalized record, got %#v", sessions[0])
	}
	raw, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("expected migrated key: %v", err)
	}
	if !strings.Contains(raw, `"Competition"`) {
		t.Fatalf("unexpected migrated payload %s", raw)
	}
	if _, err := store.Get(ctx, "bjj_flow_journal_v3"); err != nil {
		t.Fatalf("legacy key should be kept: %v", err)
	}
}

func TestLoadNormalizesPortugueseLabelsUnderCurrentKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)
	payload := `[{"id":"a","date":"2024-03-02","type":"Competição","duration":6},{"id":"b","date":"2024-03-01","type":"Drill/Técnica","duration":40}]`
	if err := store.Set(ctx, key, payload); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := journalout.NewKVSessionRepository(store, key, legacyKeys, fixedClock{}, logging.Discard())
	sessions, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sessions[0].Type != domain.SessionTypeCompetition || sessions[1].Type != domain.SessionTypeDrill {
		t.Fatalf("labels not normalized: %#v", sessions)
	}

	summary := domain.Summarize(sessions)
	perType := 0
	for _, tc := range summary.PerType {
		perType += tc.Count
	}
	if summary.Count != 2 || perType != 2 {
		t.Fatalf("per-type counts should add up to count: %#v", summary)
	}
	if hits := domain.Filter(sessions, domain.Query{Text: "competition"}); len(hits) != 1 || hits[0].ID != "a" {
		t.Fatalf("expected competition match, got %#v", hits)
	}
}

func TestLoadKeepsNewestCorruptBackups(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)
	for i := int64(0); i < 5; i++ {
		if err := store.Set(ctx, key, "{broken"); err != nil {
			t.Fatalf("seed: %v", err)
		}
		repo := journalout.NewKVSessionRepository(store, key, nil, fixedClock{now: time.Unix(1700000000+i, 0)}, logging.Discard())
		if _, err := repo.Load(ctx); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	keys, err := store.Keys(ctx, key+".corrupt.")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{key + ".corrupt.1700000002", key + ".corrupt.1700000003", key + ".corrupt.1700000004"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, keys)
	}
}
