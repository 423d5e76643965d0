package out

import (
	"context"

	"bjjflow/internal/modules/journal/domain"
)

// SessionRepository persists the whole ordered journal as one unit.
type SessionRepository interface {
	Load(ctx context.Context) ([]domain.Session, error)
	Save(ctx context.Context, sessions []domain.Session) error
}

type Exporter interface {
	Export(ctx context.Context, dir string, sessions []domain.Session) (domain.ExportReport, error)
}
