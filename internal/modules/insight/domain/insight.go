package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecentLimit is how many of the most recently stored sessions feed a
// request.
const RecentLimit = 5

const (
	EmptyJournalText = "Add a few training sessions to receive feedback from Sensei AI."
	UnavailableText  = "Sorry, Sensei AI is meditating right now. Please try again later."
)

type Outcome string

const (
	OutcomeGenerated Outcome = "generated"
	OutcomeEmpty     Outcome = "empty"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Result is what a request resolves to. Text is always user-presentable; Err
// keeps the cause of a failure for logs.
type Result struct {
	Outcome      Outcome
	Text         string
	Err          error
	Sessions     int
	PromptTokens int
}

// SessionDigest is the serialized view of one session sent to the model.
// List fields are comma-joined.
type SessionDigest struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Positions string `json:"positions"`
	Drills    string `json:"drills"`
	Partners  string `json:"partners"`
	Notes     string `json:"notes"`
}

func NewSessionDigest(title, date, sessionType string, positions, drills, partners []string, notes string) SessionDigest {
	return SessionDigest{
		Title:     title,
		Date:      date,
		Type:      sessionType,
		Positions: strings.Join(positions, ", "),
		Drills:    strings.Join(drills, ", "),
		Partners:  strings.Join(partners, ", "),
		Notes:     notes,
	}
}

const promptHeader = `As an experienced Jiu-Jitsu master, review my last training sessions.
Pay attention to the session titles, the positions I keep returning to, and the drills I have been practicing.
Give structured feedback:
1. Balance analysis (positions vs drills).
2. One technical point of attention.
3. A practical suggestion for my next session.

My recent sessions: `

// RenderPrompt builds the user message for digests.
func RenderPrompt(digests []SessionDigest) (string, error) {
	if digests == nil {
		digests = []SessionDigest{}
	}
	raw, err := json.Marshal(digests)
	if err != nil {
		return "", fmt.Errorf("encode sessions: %w", err)
	}
	return promptHeader + string(raw), nil
}

// SystemInstruction is the coach persona. language names the language the
// answer must be written in.
func SystemInstruction(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		language = "English"
	}
	return "You are a fourth-degree black belt Jiu-Jitsu master, wise and highly technical. " +
		"Your teaching is didactic and focused on body mechanics and strategy. " +
		"Answer in " + language + "."
}
