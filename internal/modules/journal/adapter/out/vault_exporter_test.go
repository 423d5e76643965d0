package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	journalout "bjjflow/internal/modules/journal/adapter/out"
	"bjjflow/internal/modules/journal/domain"
	"bjjflow/internal/platform/markdown"
)

func exportFixture() []domain.Session {
	return []domain.Session{
		{ID: "0f8e2c1a-aaaa-bbbb-cccc-000000000001", Date: "2024-05-02", Type: domain.SessionTypeNoGi, Duration: 45, Intensity: 4, Positions: []string{"Back"}, Drills: []string{}, Partners: []string{}, Notes: "Choked twice"},
		{ID: "short", Title: "Guarda Fechada", Date: "2024-04-30", Type: domain.SessionTypeGi, Duration: 60, Intensity: 2, Positions: []string{}, Drills: []string{}, Partners: []string{"Rafa"}, Coach: "Lima"},
	}
}

func TestExportWritesNotesAndIndex(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	report, err := journalout.NewVaultExporter().Export(context.Background(), dir, exportFixture())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(report.NotePaths) != 2 {
		t.Fatalf("expected two notes, got %d", len(report.NotePaths))
	}
	want := filepath.Join(dir, "sessions", "2024", "05", "2024-05-02-session-of-no-gi-0f8e2c1a.md")
	if report.NotePaths[0] != want {
		t.Fatalf("expected %s, got %s", want, report.NotePaths[0])
	}
	content, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	note, err := markdown.ParseNote(string(content))
	if err != nil {
		t.Fatalf("parse note: %v", err)
	}
	if note.Meta["type"] != "No-Gi" || note.Meta["duration"] != 45 {
		t.Fatalf("unexpected frontmatter %#v", note.Meta)
	}
	if !strings.Contains(note.Body, "Choked twice") {
		t.Fatalf("notes missing from body %q", note.Body)
	}

	index, err := os.ReadFile(report.IndexPath)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(index), "[[sessions/2024/04/2024-04-30-guarda-fechada-short|Guarda Fechada]]") {
		t.Fatalf("index missing link: %s", index)
	}
}

func TestReexportKeepsUserText(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	exporter := journalout.NewVaultExporter()
	report, err := exporter.Export(context.Background(), dir, exportFixture())
	if err != nil {
		t.Fatalf("first export: %v", err)
	}
	notePath := report.NotePaths[1]
	content, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	edited := string(content) + "\nWork on grips.\n"
	if err := os.WriteFile(notePath, []byte(edited), 0o644); err != nil {
		t.Fatalf("edit note: %v", err)
	}
	indexBefore, _ := os.ReadFile(report.IndexPath)

	if _, err := exporter.Export(context.Background(), dir, exportFixture()); err != nil {
		t.Fatalf("second export: %v", err)
	}
	after, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.Contains(string(after), "Work on grips.") {
		t.Fatalf("user text lost: %s", after)
	}
	if strings.Count(string(after), "bjjflow:session:start") != 1 {
		t.Fatalf("managed block duplicated: %s", after)
	}
	indexAfter, _ := os.ReadFile(report.IndexPath)
	if string(indexBefore) != string(indexAfter) {
		t.Fatalf("index should be stable across exports")
	}
}

func TestExportKeepsMalformedRecordsInsideDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	dir := filepath.Join(root, "vault")
	sessions := []domain.Session{
		{ID: "../../etc/passwd", Date: "../../../escaped", Type: domain.SessionTypeGi, Duration: 60, Intensity: 3},
		{ID: "", Date: "2024-05-02T19:30:00Z", Type: domain.SessionTypeNoGi, Duration: 30, Intensity: 2},
	}
	report, err := journalout.NewVaultExporter().Export(context.Background(), dir, sessions)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := []string{
		filepath.Join(dir, "sessions", "undated", "undated-session-of-gi-et.md"),
		filepath.Join(dir, "sessions", "2024", "05", "2024-05-02-session-of-no-gi.md"),
	}
	for i, path := range report.NotePaths {
		if path != want[i] {
			t.Fatalf("note %d: expected %s, got %s", i, want[i], path)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			t.Fatalf("note %s escapes %s", path, dir)
		}
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "vault" {
		t.Fatalf("export wrote outside its dir: %v", entries)
	}
}
