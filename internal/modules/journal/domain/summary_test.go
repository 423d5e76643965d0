package domain_test

import (
	"testing"

	"bjjflow/internal/modules/journal/domain"
)

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()
	got := domain.Summarize(nil)
	if got.Count != 0 || got.TotalMinutes != 0 || got.AverageIntensity != 0 || len(got.PerType) != 0 {
		t.Fatalf("unexpected empty summary %+v", got)
	}
	if domain.MatTimeLabel(got.TotalMinutes) != "0h 0m" {
		t.Fatalf("unexpected label %q", domain.MatTimeLabel(0))
	}
}

func TestSummarizeRollups(t *testing.T) {
	t.Parallel()
	sessions := []domain.Session{
		{Type: domain.SessionTypeNoGi, Duration: 45, Intensity: 4, Positions: []string{"Mount", "back"}, Drills: []string{"Armbar"}},
		{Type: domain.SessionTypeGi, Duration: 60, Intensity: 2, Positions: []string{"Back"}, Drills: []string{}},
		{Type: domain.SessionTypeGi, Duration: 20, Intensity: 3, Positions: []string{}, Drills: []string{"Shrimp", "Bridge"}},
	}
	got := domain.Summarize(sessions)
	if got.Count != 3 || got.TotalMinutes != 125 || got.TotalPositions != 3 || got.TotalDrills != 3 {
		t.Fatalf("unexpected summary %+v", got)
	}
	if got.AverageIntensity != 3 {
		t.Fatalf("expected average intensity 3, got %v", got.AverageIntensity)
	}
	if len(got.PerType) != 2 || got.PerType[0].Type != domain.SessionTypeGi || got.PerType[0].Count != 2 || got.PerType[1].Type != domain.SessionTypeNoGi {
		t.Fatalf("unexpected per type %+v", got.PerType)
	}
	if len(got.TopPositions) != 2 || got.TopPositions[0].Count != 2 || got.TopPositions[1].Label != "Mount" {
		t.Fatalf("expected back first then mount, got %+v", got.TopPositions)
	}
	if domain.MatTimeLabel(got.TotalMinutes) != "2h 5m" || got.Hours() != 2 || got.Minutes() != 5 {
		t.Fatalf("unexpected mat time %q", domain.MatTimeLabel(got.TotalMinutes))
	}
}
