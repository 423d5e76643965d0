package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, dataDir, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func listIDs(t *testing.T, dataDir string) []string {
	t.Helper()
	out, err := run(t, dataDir, "", "list", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list struct {
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode list %q: %v", out, err)
	}
	ids := make([]string, 0, len(list.Sessions))
	for _, s := range list.Sessions {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestAddListDelete(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, err := run(t, dir, "", "add", "--date", "2024-05-10", "--type", "nogi", "--duration", "45", "--positions", "guard,mount")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, `"Session of No-Gi"`) {
		t.Fatalf("unexpected add output %q", out)
	}

	ids := listIDs(t, dir)
	if len(ids) != 1 {
		t.Fatalf("expected one session, got %v", ids)
	}

	out, err = run(t, dir, "n\n", "delete", ids[0])
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "kept") || len(listIDs(t, dir)) != 1 {
		t.Fatalf("declined delete must keep the session: %q", out)
	}

	out, err = run(t, dir, "y\n", "delete", ids[0])
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "deleted") || len(listIDs(t, dir)) != 0 {
		t.Fatalf("confirmed delete should remove the session: %q", out)
	}
}

func TestAddRejectsUnknownType(t *testing.T) {
	t.Parallel()
	if _, err := run(t, t.TempDir(), "", "add", "--type", "judo"); err == nil {
		t.Fatal("expected invalid type error")
	}
}

func TestStatsAndExport(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, args := range [][]string{
		{"add", "--date", "2024-05-09", "--type", "Gi", "--duration", "60", "--positions", "guard"},
		{"add", "--date", "2024-05-10", "--type", "No-Gi", "--duration", "30", "--positions", "guard"},
	} {
		if _, err := run(t, dir, "", args...); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	out, err := run(t, dir, "", "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "mat time: 1h 30m") || !strings.Contains(out, "1. guard (2)") {
		t.Fatalf("unexpected stats:\n%s", out)
	}

	vault := filepath.Join(t.TempDir(), "vault")
	if _, err := run(t, dir, "", "export", "--dir", vault); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(vault, "journal.md")); err != nil {
		t.Fatalf("index not written: %v", err)
	}
}

func TestConfigShowMasksKey(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("insight:\n  api_key: sk-secret-1234\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := run(t, dir, "", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "sk-secret") || !strings.Contains(out, "api_key:") {
		t.Fatalf("api key must be masked:\n%s", out)
	}
}
