package in

import (
	"context"

	"bjjflow/internal/modules/journal/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddSessionInput) (dto.SessionOutput, error)
	Remove(ctx context.Context, input dto.RemoveInput) (dto.RemoveOutput, error)
	List(ctx context.Context, input dto.ListInput) (dto.ListOutput, error)
	Get(ctx context.Context, id string) (dto.SessionOutput, error)
	Recent(ctx context.Context, limit int) ([]dto.SessionOutput, error)
	Stats(ctx context.Context, input dto.ListInput) (dto.StatsOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
