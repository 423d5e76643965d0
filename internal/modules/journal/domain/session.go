package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const SchemaVersion = 1

const (
	MinIntensity = 1
	MaxIntensity = 5
)

type SessionType string

const (
	SessionTypeGi          SessionType = "Gi"
	SessionTypeNoGi        SessionType = "No-Gi"
	SessionTypeDrill       SessionType = "Drill/Technique"
	SessionTypeOpenMat     SessionType = "Open Mat"
	SessionTypeCompetition SessionType = "Competition"
)

// SessionTypes lists the enumeration in presentation order.
var SessionTypes = []SessionType{
	SessionTypeGi,
	SessionTypeNoGi,
	SessionTypeDrill,
	SessionTypeOpenMat,
	SessionTypeCompetition,
}

var sessionTypeAliases = map[string]SessionType{
	"gi":              SessionTypeGi,
	"no-gi":           SessionTypeNoGi,
	"nogi":            SessionTypeNoGi,
	"no gi":           SessionTypeNoGi,
	"drill/technique": SessionTypeDrill,
	"drill/técnica":   SessionTypeDrill,
	"drill":           SessionTypeDrill,
	"technique":       SessionTypeDrill,
	"open mat":        SessionTypeOpenMat,
	"open-mat":        SessionTypeOpenMat,
	"open":            SessionTypeOpenMat,
	"competition":     SessionTypeCompetition,
	"competição":      SessionTypeCompetition,
	"comp":            SessionTypeCompetition,
}

// ParseSessionType accepts canonical labels case-insensitively, the
// Portuguese labels older journals stored, and short aliases.
func ParseSessionType(raw string) (SessionType, error) {
	if t, ok := sessionTypeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unsupported session type %q", raw)
}

func (t SessionType) Validate() error {
	for _, known := range SessionTypes {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported session type %q", string(t))
}

type Session struct {
	ID        string      `json:"id"`
	Title     string      `json:"title,omitempty"`
	Date      string      `json:"date"`
	Type      SessionType `json:"type"`
	Duration  int         `json:"duration"`
	Intensity int         `json:"intensity"`
	Positions []string    `json:"positions"`
	Drills    []string    `json:"drills"`
	Partners  []string    `json:"partners"`
	Coach     string      `json:"coach,omitempty"`
	Notes     string      `json:"notes"`
}

// DisplayTitle is the title, or "Session of <type>" when none was given.
func (s Session) DisplayTitle() string {
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	return "Session of " + string(s.Type)
}

// Validate checks what Add requires of a new session. Stored sessions are
// never re-validated.
func (s Session) Validate() error {
	if err := s.Type.Validate(); err != nil {
		return err
	}
	if _, ok := ParseDate(s.Date); !ok {
		return fmt.Errorf("date %q is not a calendar date (YYYY-MM-DD)", s.Date)
	}
	return nil
}

// ClampIntensity bounds an editor value to the 1..5 scale.
func ClampIntensity(v int) int {
	if v < MinIntensity {
		return MinIntensity
	}
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}

// ClampDuration rejects negative minutes from an editor.
func ClampDuration(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// CleanList trims entries and drops blanks, as the editor's tag inputs do.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// UnmarshalJSON tolerates hand-edited or legacy records: numeric fields that
// are missing, null, quoted or non-numeric decode to their value or zero, and
// absent lists decode as empty.
func (s *Session) UnmarshalJSON(data []byte) error {
	type plain Session
	var raw struct {
		plain
		Duration  json.RawMessage `json:"duration"`
		Intensity json.RawMessage `json:"intensity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Session(raw.plain)
	s.Duration = lenientInt(raw.Duration)
	s.Intensity = lenientInt(raw.Intensity)
	if s.Positions == nil {
		s.Positions = []string{}
	}
	if s.Drills == nil {
		s.Drills = []string{}
	}
	if s.Partners == nil {
		s.Partners = []string{}
	}
	return nil
}

func lenientInt(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return numberToInt(string(n))
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return numberToInt(strings.TrimSpace(str))
	}
	return 0
}

// numberToInt truncates toward zero and saturates at the int range, so
// values like 1e400 or 1e30 land on the same bound on every platform.
func numberToInt(s string) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}
