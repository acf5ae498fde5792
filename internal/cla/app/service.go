package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
	"github.com/nathantilsley/cla-val/internal/cla/ports"
)

// CheckService implements ports.CheckUseCase by orchestrating the signature
// check: load context, guard the event, log git state, fetch the signer
// directory, validate, and report.
type CheckService struct {
	contextLoader ports.ContextPort
	diagnostics   ports.DiagnosticsPort  // Optional: nil skips git diagnostics
	signers       ports.SignerSourcePort // Reads personal and employer records
	suggester     ports.SuggestionPort   // Optional: nil disables "did you mean"
	reporter      ports.ReportingPort    // Required: failures are fatal
	notifier      ports.ReportingPort    // Optional: best effort (e.g. PR comment)
	logger        *slog.Logger
	tracer        trace.Tracer

	checks   metric.Int64Counter
	unsigned metric.Int64Counter
}

// NewCheckService creates a new CheckService wired with all driven ports.
// diagnostics, suggester and notifier are optional (can be nil).
func NewCheckService(
	cl ports.ContextPort,
	dg ports.DiagnosticsPort,
	ss ports.SignerSourcePort,
	sg ports.SuggestionPort,
	rp ports.ReportingPort,
	nt ports.ReportingPort,
	logger *slog.Logger,
	meter metric.Meter,
	tracer trace.Tracer,
) *CheckService {
	s := &CheckService{
		contextLoader: cl,
		diagnostics:   dg,
		signers:       ss,
		suggester:     sg,
		reporter:      rp,
		notifier:      nt,
		logger:        logger,
		tracer:        tracer,
	}

	var err error
	s.checks, err = meter.Int64Counter("cla_checks_total",
		metric.WithDescription("Signature checks by outcome"))
	if err != nil {
		logger.Warn("failed to create checks counter", "error", err)
		s.checks = noopmetric.Int64Counter{}
	}
	s.unsigned, err = meter.Int64Counter("cla_unsigned_logins_total",
		metric.WithDescription("Required logins found without a signature"))
	if err != nil {
		logger.Warn("failed to create unsigned counter", "error", err)
		s.unsigned = noopmetric.Int64Counter{}
	}

	return s
}

// Execute runs the check for the pull request described by the loaded context.
// A non pull request event returns a *domain.NotPullRequestError before any
// signer record is fetched. An unsigned contributor is not an error: it is
// reported and returned as a failed Outcome.
func (s *CheckService) Execute(ctx context.Context, req domain.CheckRequest) (domain.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "cla.check")
	defer span.End()

	outcome, err := s.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Outcome{}, err
	}

	span.SetAttributes(
		attribute.String("cla.status", outcome.Status.String()),
		attribute.Int("cla.checked", len(outcome.Checked)),
		attribute.Int("cla.unsigned", len(outcome.Unsigned)),
	)
	s.checks.Add(ctx, 1, metric.WithAttributes(attribute.String("status", outcome.Status.String())))
	s.unsigned.Add(ctx, int64(len(outcome.Unsigned)))
	return outcome, nil
}

func (s *CheckService) execute(ctx context.Context, req domain.CheckRequest) (domain.Outcome, error) {
	pr, commits, err := s.contextLoader.LoadContext(ctx)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("loading pull request context: %w", err)
	}

	if !pr.IsPullRequest() {
		s.logger.Error("event is not a pull request, exiting", "event", pr.EventName)
		return domain.Outcome{}, domain.NewNotPullRequestError(pr.EventName)
	}

	s.logger.Info("pull request loaded",
		"owner", pr.Owner,
		"repo", pr.Repo,
		"pr", pr.PRNumber,
		"submitter", pr.Submitter,
		"commits", len(commits),
	)

	if s.diagnostics != nil {
		s.diagnostics.LogRepositoryState(ctx)
	}

	required := domain.RequiredLogins(pr, commits, req.Exempt)
	s.logger.Info("contributors to verify", "logins", required)

	personal, employer, err := s.fetchSigners(ctx, req)
	if err != nil {
		return domain.Outcome{}, err
	}

	outcome := domain.Outcome{
		Status:   domain.StatusSuccess,
		Checked:  required,
		Unsigned: domain.Unsigned(required, personal, employer),
	}
	if len(outcome.Unsigned) > 0 {
		outcome.Status = domain.StatusFailed
		outcome.Suggestions = s.suggest(outcome.Unsigned, domain.Union(personal, employer))
		for _, login := range outcome.Unsigned {
			s.logger.Error("contributor has not signed the contributor licence agreement", "login", login)
		}
	} else {
		s.logger.Info("all contributors have signed the contributor licence agreement")
	}
	outcome.Comment = FormatComment(outcome, req.SignURL)

	if err := s.reporter.Report(ctx, pr, outcome); err != nil {
		return domain.Outcome{}, fmt.Errorf("reporting outcome: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.Report(ctx, pr, outcome); err != nil {
			s.logger.Error("failed to publish outcome on pull request", "pr", pr.PRNumber, "error", err)
		}
	}

	return outcome, nil
}

// fetchSigners downloads both agreement records concurrently. The result does
// not depend on which download finishes first.
func (s *CheckService) fetchSigners(ctx context.Context, req domain.CheckRequest) (personal, employer domain.SignerSet, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		personal, err = s.signers.FetchSigners(gctx, req.PersonalAgreementURL)
		if err != nil {
			return fmt.Errorf("fetching personal agreement signers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		employer, err = s.signers.FetchSigners(gctx, req.EmployerAgreementURL)
		if err != nil {
			return fmt.Errorf("fetching employer agreement signers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	s.logger.Info("signer directory loaded", "personal", personal.Len(), "employer", employer.Len())
	return personal, employer, nil
}

func (s *CheckService) suggest(unsigned []string, signed domain.SignerSet) map[string][]string {
	if s.suggester == nil || signed.Len() == 0 {
		return nil
	}
	candidates := signed.Sorted()
	out := make(map[string][]string)
	for _, login := range unsigned {
		if matches := s.suggester.Suggest(login, candidates); len(matches) > 0 {
			out[login] = matches
		}
	}
	return out
}
