package in

import (
	"context"

	"bjjflow/internal/modules/insight/dto"
	insightin "bjjflow/internal/modules/insight/port/in"
)

type CLIHandler struct {
	usecase insightin.Usecase
}

func NewCLIHandler(usecase insightin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Request(ctx context.Context) dto.InsightOutput {
	return h.usecase.Request(ctx)
}
