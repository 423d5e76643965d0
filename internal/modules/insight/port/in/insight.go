package in

import (
	"context"

	"bjjflow/internal/modules/insight/dto"
)

// Usecase requests coaching feedback. Request never fails: every problem is
// folded into the output's outcome and text.
type Usecase interface {
	Request(ctx context.Context) dto.InsightOutput
}
