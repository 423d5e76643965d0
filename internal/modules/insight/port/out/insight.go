package out

import (
	"context"

	"bjjflow/internal/modules/insight/domain"
)

// Generator performs one non-streaming text generation.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// SessionSource yields up to limit sessions, most recently stored first.
type SessionSource interface {
	Recent(ctx context.Context, limit int) ([]domain.SessionDigest, error)
}

type TokenCounter interface {
	Count(text string) int
}
