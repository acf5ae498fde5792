package ports

import (
	"context"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
)

// ContextPort abstracts loading the triggering event and the PR's commit list.
type ContextPort interface {
	LoadContext(ctx context.Context) (domain.PRContext, []domain.Commit, error)
}

// DiagnosticsPort abstracts logging the local repository state for audit.
// Implementations must not fail the run.
type DiagnosticsPort interface {
	LogRepositoryState(ctx context.Context)
}

// SignerSourcePort abstracts reading a published agreement record.
type SignerSourcePort interface {
	FetchSigners(ctx context.Context, url string) (domain.SignerSet, error)
}

// ReportingPort abstracts publishing the outcome of a check.
type ReportingPort interface {
	Report(ctx context.Context, pr domain.PRContext, outcome domain.Outcome) error
}

// SuggestionPort abstracts finding signed logins similar to an unsigned one.
type SuggestionPort interface {
	Suggest(login string, candidates []string) []string
}
