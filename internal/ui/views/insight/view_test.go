package insight_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	insightdto "bjjflow/internal/modules/insight/dto"
	"bjjflow/internal/ui/views/insight"
)

type fakePort struct{ text string }

func (f fakePort) Request(ctx context.Context) insightdto.InsightOutput {
	if ctx.Err() != nil {
		return insightdto.InsightOutput{Outcome: "cancelled"}
	}
	return insightdto.InsightOutput{Outcome: "generated", Text: f.text}
}

// resultOf runs a batched command and returns the ResultMsg it yields.
func resultOf(t *testing.T, cmd tea.Cmd) insight.ResultMsg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected batch")
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(insight.ResultMsg); ok {
			return msg
		}
	}
	t.Fatal("no result message in batch")
	return insight.ResultMsg{}
}

func TestRequestShowsAnswer(t *testing.T) {
	t.Parallel()
	m := insight.New(fakePort{text: "Keep your elbows tight."})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	cmd := m.Request()
	if !m.Pending() {
		t.Fatal("expected pending request")
	}
	m, _ = m.Update(resultOf(t, cmd))
	if m.Pending() {
		t.Fatal("request should be settled")
	}
	if !strings.Contains(m.View(), "elbows") {
		t.Fatalf("answer not rendered:\n%s", m.View())
	}
}

func TestCancelledRequestIsIgnored(t *testing.T) {
	t.Parallel()
	m := insight.New(fakePort{text: "late answer"})
	cmd := m.Request()
	if !m.Cancel() {
		t.Fatal("expected cancel to report a request in flight")
	}
	m, _ = m.Update(resultOf(t, cmd))
	if m.Text() != "" {
		t.Fatalf("stale answer should be dropped, got %q", m.Text())
	}
	if m.Cancel() {
		t.Fatal("nothing left to cancel")
	}
}
