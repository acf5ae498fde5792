package ports

import (
	"context"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
)

// CheckUseCase is the driving port for running a signature check.
type CheckUseCase interface {
	Execute(ctx context.Context, req domain.CheckRequest) (domain.Outcome, error)
}
