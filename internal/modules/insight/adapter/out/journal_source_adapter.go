package out

import (
	"context"

	"bjjflow/internal/modules/insight/domain"
	insightout "bjjflow/internal/modules/insight/port/out"
	journalin "bjjflow/internal/modules/journal/port/in"
)

type JournalSourceAdapter struct {
	journal journalin.Usecase
}

func NewJournalSourceAdapter(journal journalin.Usecase) insightout.SessionSource {
	return &JournalSourceAdapter{journal: journal}
}

func (a *JournalSourceAdapter) Recent(ctx context.Context, limit int) ([]domain.SessionDigest, error) {
	sessions, err := a.journal.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SessionDigest, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, domain.NewSessionDigest(s.Title, s.Date, s.Type, s.Positions, s.Drills, s.Partners, s.Notes))
	}
	return out, nil
}
