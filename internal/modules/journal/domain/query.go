package domain

import (
	"sort"
	"strings"
	"time"
)

// Query is the timeline filter: free text plus an optional inclusive date
// range. A zero bound is unbounded.
type Query struct {
	Text string
	From time.Time
	To   time.Time
}

func (q Query) hasRange() bool {
	return !q.From.IsZero() || !q.To.IsZero()
}

// ParseDate reads a calendar date (YYYY-MM-DD) or an RFC 3339 timestamp and
// returns it truncated to midnight UTC of that calendar day.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Matches reports whether the session passes both the text and date filters.
func (q Query) Matches(s Session) bool {
	return matchesText(s, q.Text) && q.matchesDate(s)
}

func (q Query) matchesDate(s Session) bool {
	if !q.hasRange() {
		return true
	}
	d, ok := ParseDate(s.Date)
	if !ok {
		return false
	}
	if !q.From.IsZero() && d.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && d.After(q.To) {
		return false
	}
	return true
}

func matchesText(s Session, text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	contains := func(field string) bool {
		return strings.Contains(strings.ToLower(field), needle)
	}
	if contains(s.Title) || contains(s.Notes) || contains(string(s.Type)) {
		return true
	}
	for _, p := range s.Positions {
		if contains(p) {
			return true
		}
	}
	for _, d := range s.Drills {
		if contains(d) {
			return true
		}
	}
	return false
}

// Filter returns the sessions matching q, newest date first. The input slice
// is not modified. Equal dates keep their input order; unparseable dates sort
// after every parseable one.
func Filter(sessions []Session, q Query) []Session {
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if q.Matches(s) {
			out = append(out, s)
		}
	}
	SortByDateDesc(out)
	return out
}

// SortByDateDesc sorts in place, stable.
func SortByDateDesc(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		di, okI := ParseDate(sessions[i].Date)
		dj, okJ := ParseDate(sessions[j].Date)
		switch {
		case okI && !okJ:
			return true
		case !okI:
			return false
		default:
			return di.After(dj)
		}
	})
}
