package in

import (
	"context"

	"bjjflow/internal/modules/journal/dto"
	journalin "bjjflow/internal/modules/journal/port/in"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, input dto.AddSessionInput) (dto.SessionOutput, error) {
	return h.usecase.Add(ctx, input)
}

func (h CLIHandler) Remove(ctx context.Context, id string, confirmed bool) (dto.RemoveOutput, error) {
	return h.usecase.Remove(ctx, dto.RemoveInput{ID: id, Confirmed: confirmed})
}

func (h CLIHandler) List(ctx context.Context, query, from, to string) (dto.ListOutput, error) {
	return h.usecase.List(ctx, dto.ListInput{Query: query, From: from, To: to})
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.SessionOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Stats(ctx context.Context, query, from, to string) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx, dto.ListInput{Query: query, From: from, To: to})
}

func (h CLIHandler) Export(ctx context.Context, dir string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{Dir: dir})
}
