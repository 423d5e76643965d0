package usecase

import (
	"context"

	"bjjflow/internal/modules/insight/dto"
	insightin "bjjflow/internal/modules/insight/port/in"
	"bjjflow/internal/modules/insight/service"
)

type Interactor struct {
	svc *service.InsightService
}

func NewInteractor(svc *service.InsightService) insightin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Request(ctx context.Context) dto.InsightOutput {
	result := i.svc.Request(ctx)
	return dto.InsightOutput{
		Outcome:      string(result.Outcome),
		Text:         result.Text,
		Sessions:     result.Sessions,
		PromptTokens: result.PromptTokens,
		Err:          result.Err,
	}
}
