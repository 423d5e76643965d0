package app_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	insightdto "bjjflow/internal/modules/insight/dto"
	journaldto "bjjflow/internal/modules/journal/dto"
	"bjjflow/internal/ui/app"
)

type fakeJournal struct {
	sessions []journaldto.SessionOutput
	added    []journaldto.AddSessionInput
	removed  []string
	query    string
}

func (f *fakeJournal) Add(_ context.Context, in journaldto.AddSessionInput) (journaldto.SessionOutput, error) {
	if in.Date == "bad" {
		return journaldto.SessionOutput{}, fmt.Errorf("invalid input: date")
	}
	f.added = append(f.added, in)
	out := journaldto.SessionOutput{ID: fmt.Sprintf("id-%d", len(f.added)), DisplayTitle: "Session of " + in.Type, Date: in.Date, Type: in.Type}
	f.sessions = append([]journaldto.SessionOutput{out}, f.sessions...)
	return out, nil
}

func (f *fakeJournal) Remove(_ context.Context, id string, confirmed bool) (journaldto.RemoveOutput, error) {
	if !confirmed {
		return journaldto.RemoveOutput{}, fmt.Errorf("confirmation required")
	}
	f.removed = append(f.removed, id)
	return journaldto.RemoveOutput{ID: id, Removed: true}, nil
}

func (f *fakeJournal) List(_ context.Context, query, _, _ string) (journaldto.ListOutput, error) {
	f.query = query
	return journaldto.ListOutput{Sessions: f.sessions, Total: len(f.sessions)}, nil
}

func (f *fakeJournal) Stats(context.Context, string, string, string) (journaldto.StatsOutput, error) {
	return journaldto.StatsOutput{Count: len(f.sessions)}, nil
}

func (f *fakeJournal) Export(_ context.Context, dir string) (journaldto.ExportOutput, error) {
	return journaldto.ExportOutput{Dir: dir, Notes: len(f.sessions)}, nil
}

type fakeInsight struct{ calls int }

func (f *fakeInsight) Request(context.Context) insightdto.InsightOutput {
	f.calls++
	return insightdto.InsightOutput{Outcome: "generated", Text: "Tighten your guard retention."}
}

// drain runs cmd and feeds every resulting message back into the model.
// Timer driven messages from spinners and cursors are skipped so the test
// never sleeps.
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 100; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if isTimer(msg) {
			continue
		}
		var out tea.Cmd
		m, out = m.Update(msg)
		queue = append(queue, out)
	}
	return m
}

func isTimer(msg tea.Msg) bool {
	name := fmt.Sprintf("%T", msg)
	for _, prefix := range []string{"spinner.", "cursor.", "textinput.", "textarea."} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func keys(t *testing.T, m tea.Model, input ...string) tea.Model {
	t.Helper()
	for _, in := range input {
		var msg tea.KeyMsg
		switch in {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(in)}
		}
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		m = drain(t, m, cmd)
	}
	return m
}

func newModel(t *testing.T, journal *fakeJournal, insight *fakeInsight) tea.Model {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	var m tea.Model = app.NewModel(journal, insight, "Ana · Blue belt", now)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return drain(t, m, m.Init())
}

func TestAddSessionThroughForm(t *testing.T) {
	t.Parallel()
	journal := &fakeJournal{}
	m := newModel(t, journal, &fakeInsight{})

	m = keys(t, m, "a", "ctrl+s")
	if len(journal.added) != 1 {
		t.Fatalf("expected one add, got %d", len(journal.added))
	}
	if journal.added[0].Date != "2024-05-10" || journal.added[0].Type != "Gi" {
		t.Fatalf("unexpected input %+v", journal.added[0])
	}
	if !strings.Contains(m.View(), "Session of Gi") {
		t.Fatalf("timeline should show the new session:\n%s", m.View())
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()
	journal := &fakeJournal{sessions: []journaldto.SessionOutput{{ID: "s1", DisplayTitle: "Morning Gi", Date: "2024-05-09", Type: "Gi"}}}
	m := newModel(t, journal, &fakeInsight{})

	m = keys(t, m, "d", "n")
	if len(journal.removed) != 0 {
		t.Fatalf("declined delete must not remove")
	}
	m = keys(t, m, "d", "y")
	if len(journal.removed) != 1 || journal.removed[0] != "s1" {
		t.Fatalf("expected s1 removed, got %v", journal.removed)
	}
	_ = m
}

func TestSearchFromPalette(t *testing.T) {
	t.Parallel()
	journal := &fakeJournal{}
	m := newModel(t, journal, &fakeInsight{})

	m = keys(t, m, "/", "guard", "enter")
	if journal.query != "guard" {
		t.Fatalf("expected query forwarded, got %q", journal.query)
	}
	if !strings.Contains(m.View(), "guard") {
		t.Fatalf("status bar should show the filter")
	}
}

func TestInsightSwitchesToSensei(t *testing.T) {
	t.Parallel()
	insight := &fakeInsight{}
	m := newModel(t, &fakeJournal{}, insight)

	m = keys(t, m, "i")
	if insight.calls != 1 {
		t.Fatalf("expected one insight request, got %d", insight.calls)
	}
	if !strings.Contains(m.View(), "retention") {
		t.Fatalf("sensei tab should show the answer:\n%s", m.View())
	}
}
