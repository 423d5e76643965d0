package domain_test

import (
	"reflect"
	"testing"
	"time"

	"bjjflow/internal/modules/journal/domain"
)

func day(raw string) time.Time {
	t, _ := time.Parse(time.DateOnly, raw)
	return t
}

func ids(sessions []domain.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func fixture() []domain.Session {
	return []domain.Session{
		{ID: "a", Title: "Guard work", Date: "2024-05-01", Type: domain.SessionTypeGi, Duration: 60, Positions: []string{"Closed Guard"}, Drills: []string{}, Partners: []string{}},
		{ID: "b", Date: "2024-05-03", Type: domain.SessionTypeNoGi, Duration: 30, Positions: []string{"Mount"}, Drills: []string{"Armbar"}, Partners: []string{}},
		{ID: "c", Title: "Comp prep", Date: "2024-04-20", Type: domain.SessionTypeCompetition, Positions: []string{}, Drills: []string{}, Partners: []string{}, Notes: "felt sharp"},
	}
}

func TestFilterEmptyQuerySortsNewestFirst(t *testing.T) {
	t.Parallel()
	in := fixture()
	got := domain.Filter(in, domain.Query{})
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids(in), want) {
		t.Fatalf("input must not be mutated, got %v", ids(in))
	}
}

func TestFilterTextMatchesAnyField(t *testing.T) {
	t.Parallel()
	cases := map[string][]string{
		"guard":  {"a"},
		"ARMBAR": {"b"},
		"sharp":  {"c"},
		"no-gi":  {"b"},
		"gi":     {"b", "a"},
		"zzz":    {},
	}
	for text, want := range cases {
		got := ids(domain.Filter(fixture(), domain.Query{Text: text}))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("query %q: expected %v, got %v", text, want, got)
		}
	}
}

func TestFilterDateBoundsAreInclusive(t *testing.T) {
	t.Parallel()
	got := domain.Filter(fixture(), domain.Query{From: day("2024-05-01"), To: day("2024-05-03")})
	if want := []string{"b", "a"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
	onlyTo := domain.Filter(fixture(), domain.Query{To: day("2024-04-20")})
	if want := []string{"c"}; !reflect.DeepEqual(ids(onlyTo), want) {
		t.Fatalf("expected %v, got %v", want, ids(onlyTo))
	}
}

func TestFilterTextAndRangeCombine(t *testing.T) {
	t.Parallel()
	sessions := []domain.Session{
		{ID: "1", Title: "Guard", Date: "2024-01-10", Type: domain.SessionTypeGi, Duration: 60},
		{ID: "2", Title: "Guard", Date: "2024-02-10", Type: domain.SessionTypeGi, Duration: 30},
	}
	got := domain.Filter(sessions, domain.Query{Text: "guard", From: day("2024-02-01")})
	if want := []string{"2"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
	all := domain.Filter(sessions, domain.Query{Text: "guard"})
	if want := []string{"2", "1"}; !reflect.DeepEqual(ids(all), want) {
		t.Fatalf("expected %v, got %v", want, ids(all))
	}
	if total := domain.Summarize(all).TotalMinutes; total != 90 {
		t.Fatalf("expected 90 minutes, got %d", total)
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	t.Parallel()
	q := domain.Query{Text: "a"}
	once := domain.Filter(fixture(), q)
	twice := domain.Filter(once, q)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter should be idempotent: %v vs %v", ids(once), ids(twice))
	}
}

func TestFilterKeepsStoreOrderOnTies(t *testing.T) {
	t.Parallel()
	sessions := []domain.Session{
		{ID: "newer-insert", Date: "2024-03-01", Type: domain.SessionTypeGi},
		{ID: "older-insert", Date: "2024-03-01", Type: domain.SessionTypeGi},
		{ID: "latest", Date: "2024-03-02", Type: domain.SessionTypeGi},
	}
	got := domain.Filter(sessions, domain.Query{})
	if want := []string{"latest", "newer-insert", "older-insert"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
}

func TestFilterUnparseableDates(t *testing.T) {
	t.Parallel()
	sessions := []domain.Session{
		{ID: "bad", Date: "yesterday", Type: domain.SessionTypeGi},
		{ID: "good", Date: "2024-03-01", Type: domain.SessionTypeGi},
	}
	if got := ids(domain.Filter(sessions, domain.Query{})); !reflect.DeepEqual(got, []string{"good", "bad"}) {
		t.Fatalf("unparseable dates should sort last, got %v", got)
	}
	if got := ids(domain.Filter(sessions, domain.Query{From: day("2000-01-01")})); !reflect.DeepEqual(got, []string{"good"}) {
		t.Fatalf("unparseable dates should be excluded by a bound, got %v", got)
	}
}

func TestParseDateAcceptsTimestamps(t *testing.T) {
	t.Parallel()
	got, ok := domain.ParseDate("2024-05-01T22:30:00Z")
	if !ok || !got.Equal(day("2024-05-01")) {
		t.Fatalf("unexpected parse %v %v", got, ok)
	}
	if _, ok := domain.ParseDate(""); ok {
		t.Fatalf("empty date should not parse")
	}
}
