package domain

import (
	"fmt"
	"sort"
	"strings"
)

type TypeCount struct {
	Type  SessionType
	Count int
}

type LabelCount struct {
	Label string
	Count int
}

type Summary struct {
	Count          int
	TotalMinutes   int
	PerType        []TypeCount
	TotalPositions int
	TotalDrills    int
	// AverageIntensity is 0 for an empty input.
	AverageIntensity float64
	TopPositions     []LabelCount
}

const topPositionsLimit = 5

// Summarize rolls up sessions in one pass. PerType follows SessionTypes order
// and omits types that never occur.
func Summarize(sessions []Session) Summary {
	out := Summary{Count: len(sessions)}
	perType := make(map[SessionType]int, len(SessionTypes))
	positions := map[string]*LabelCount{}
	intensitySum := 0

	for _, s := range sessions {
		out.TotalMinutes += s.Duration
		out.TotalPositions += len(s.Positions)
		out.TotalDrills += len(s.Drills)
		intensitySum += s.Intensity
		perType[s.Type]++
		for _, p := range s.Positions {
			key := strings.ToLower(strings.TrimSpace(p))
			if key == "" {
				continue
			}
			if lc, ok := positions[key]; ok {
				lc.Count++
				continue
			}
			positions[key] = &LabelCount{Label: strings.TrimSpace(p), Count: 1}
		}
	}

	for _, t := range SessionTypes {
		if n := perType[t]; n > 0 {
			out.PerType = append(out.PerType, TypeCount{Type: t, Count: n})
		}
	}
	if out.Count > 0 {
		out.AverageIntensity = float64(intensitySum) / float64(out.Count)
	}
	out.TopPositions = topLabels(positions, topPositionsLimit)
	return out
}

func topLabels(counts map[string]*LabelCount, limit int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for _, lc := range counts {
		out = append(out, *lc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Hours and Minutes split TotalMinutes by truncating division.
func (s Summary) Hours() int   { return s.TotalMinutes / 60 }
func (s Summary) Minutes() int { return s.TotalMinutes % 60 }

// MatTimeLabel renders minutes as "<h>h <m>m".
func MatTimeLabel(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
