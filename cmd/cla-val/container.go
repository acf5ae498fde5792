package main

import (
	"fmt"
	"io"
	"log/slog"

	actionsctx "github.com/nathantilsley/cla-val/internal/cla/adapters/actions_ctx"
	closematch "github.com/nathantilsley/cla-val/internal/cla/adapters/close_match"
	fileout "github.com/nathantilsley/cla-val/internal/cla/adapters/file_out"
	gitcli "github.com/nathantilsley/cla-val/internal/cla/adapters/git_cli"
	githubout "github.com/nathantilsley/cla-val/internal/cla/adapters/github_out"
	markdownsigners "github.com/nathantilsley/cla-val/internal/cla/adapters/markdown_signers"
	"github.com/nathantilsley/cla-val/internal/cla/app"
	"github.com/nathantilsley/cla-val/internal/cla/domain"
	"github.com/nathantilsley/cla-val/internal/cla/ports"
	"github.com/nathantilsley/cla-val/internal/platform/config"
	ghclient "github.com/nathantilsley/cla-val/internal/platform/github"
	"github.com/nathantilsley/cla-val/internal/platform/httpclient"
	"github.com/nathantilsley/cla-val/internal/platform/telemetry"
)

// Container holds all application dependencies.
type Container struct {
	Config       config.Config
	Logger       *slog.Logger
	Reporter     *fileout.Adapter
	CheckService ports.CheckUseCase
	Request      domain.CheckRequest
}

// NewContainer builds and wires all dependencies.
func NewContainer(cfg config.Config, log *slog.Logger, tel *telemetry.Telemetry, stdout io.Writer) (*Container, error) {
	// Adapters
	contextLoader := actionsctx.New(cfg.WorkDir)
	signerSource := markdownsigners.New(httpclient.New(cfg.HTTPTimeout), log)
	reporter := fileout.New(cfg.WorkDir, stdout)
	suggester := closematch.New()

	// Git diagnostics are informational only; a missing git binary disables them.
	var diagnostics ports.DiagnosticsPort
	gitAdapter, err := gitcli.New(cfg.GitBin, cfg.RepoDir, log)
	if err != nil {
		log.Warn("git diagnostics disabled", "error", err)
	} else {
		diagnostics = gitAdapter
	}

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return nil, err
	}

	checkService := app.NewCheckService(
		contextLoader,
		diagnostics, // nil if git is unavailable
		signerSource,
		suggester,
		reporter,
		notifier, // nil unless --post-comment
		log,
		tel.Meter,
		tel.Tracer,
	)

	return &Container{
		Config:       cfg,
		Logger:       log,
		Reporter:     reporter,
		CheckService: checkService,
		Request: domain.CheckRequest{
			PersonalAgreementURL: cfg.PersonalAgreementURL,
			EmployerAgreementURL: cfg.EmployerAgreementURL,
			SignURL:              cfg.SignURL,
			Exempt:               cfg.Exempt,
		},
	}, nil
}

// newNotifier returns the pull request commenter, preferring GitHub App
// credentials over a plain token. It returns a nil port when posting is off.
func newNotifier(cfg config.Config, log *slog.Logger) (ports.ReportingPort, error) {
	if !cfg.PostComment {
		return nil, nil
	}

	if cfg.HasGitHubApp() {
		client, err := ghclient.NewClient(cfg.GitHubAppID, cfg.GitHubInstallationID, cfg.GitHubPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("creating github client: %w", err)
		}
		log.Info("posting results as github app", "appID", cfg.GitHubAppID)
		return githubout.New(client, telemetry.ServiceName, log), nil
	}

	client, err := ghclient.NewTokenClient(cfg.GitHubToken)
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}
	log.Info("posting results with token")
	return githubout.New(client, telemetry.ServiceName, log), nil
}
