package dto

import "bjjflow/internal/modules/journal/domain"

const (
	MinIntensity = domain.MinIntensity
	MaxIntensity = domain.MaxIntensity
)

// SessionTypeLabels lists the canonical type labels in presentation order.
func SessionTypeLabels() []string {
	out := make([]string, 0, len(domain.SessionTypes))
	for _, t := range domain.SessionTypes {
		out = append(out, string(t))
	}
	return out
}

type AddSessionInput struct {
	Title     string
	Date      string
	Type      string
	Duration  int
	Intensity int
	Positions []string
	Drills    []string
	Partners  []string
	Coach     string
	Notes     string
}

type SessionOutput struct {
	ID           string   `json:"id"`
	Title        string   `json:"title,omitempty"`
	DisplayTitle string   `json:"display_title"`
	Date         string   `json:"date"`
	Type         string   `json:"type"`
	Duration     int      `json:"duration"`
	Intensity    int      `json:"intensity"`
	Positions    []string `json:"positions"`
	Drills       []string `json:"drills"`
	Partners     []string `json:"partners"`
	Coach        string   `json:"coach,omitempty"`
	Notes        string   `json:"notes"`
}

// ListInput carries the timeline filter. From and To are YYYY-MM-DD or empty.
type ListInput struct {
	Query string
	From  string
	To    string
}

type ListOutput struct {
	Sessions []SessionOutput `json:"sessions"`
	// Total is the size of the whole journal, before filtering.
	Total int `json:"total"`
}

type RemoveInput struct {
	ID        string
	Confirmed bool
}

type RemoveOutput struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

type TypeCountOutput struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type PositionCountOutput struct {
	Position string `json:"position"`
	Count    int    `json:"count"`
}

type StatsOutput struct {
	Count            int                   `json:"count"`
	TotalMinutes     int                   `json:"total_minutes"`
	MatTime          string                `json:"mat_time"`
	PerType          []TypeCountOutput     `json:"per_type"`
	TotalPositions   int                   `json:"total_positions"`
	TotalDrills      int                   `json:"total_drills"`
	AverageIntensity float64               `json:"average_intensity"`
	TopPositions     []PositionCountOutput `json:"top_positions"`
}

type ExportInput struct {
	Dir string
}

type ExportOutput struct {
	Dir       string
	IndexPath string
	Notes     int
}
