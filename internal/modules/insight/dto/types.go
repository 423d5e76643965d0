package dto

type InsightOutput struct {
	Outcome      string `json:"outcome"`
	Text         string `json:"text"`
	Sessions     int    `json:"sessions"`
	PromptTokens int    `json:"prompt_tokens,omitempty"`
	// Err is the failure cause, for logging only.
	Err error `json:"-"`
}
