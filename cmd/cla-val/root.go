package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
	"github.com/nathantilsley/cla-val/internal/platform/config"
	"github.com/nathantilsley/cla-val/internal/platform/logger"
	"github.com/nathantilsley/cla-val/internal/platform/telemetry"
)

const shutdownTimeout = 5 * time.Second

type buildInfo struct {
	version string
	commit  string
	date    string
}

type checkFlags struct {
	configPath  string
	workDir     string
	repoDir     string
	logLevel    string
	signURL     string
	exempt      []string
	postComment bool
}

func newRootCmd(info buildInfo) *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "cla-val [personal-agreement-url employer-agreement-url]",
		Short: "Check that pull request contributors signed the contributor licence agreement",
		Long: `cla-val verifies that the submitter and every committer of a pull request
appear in the personal or employer contributor licence agreement records.

It reads github.json and commitDetails.json from the work dir, writes the
comment to post on the pull request to <work-dir>/comment and, when a
signature is missing, also to <work-dir>/failed.

Examples:
	# Check against the default agreement records
	cla-val

	# Check against custom records
	cla-val https://example.com/personal.md https://example.com/employer.md

	# Print the signers listed in a record
	cla-val signers https://example.com/personal.md`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected 0 or 2 agreement URLs, got %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags, info)
		},
	}

	cmd.Version = fmt.Sprintf("%s (%s) %s", info.version, info.commit, info.date)
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "policy file (default "+config.DefaultPolicyFile+" when present)")
	f.StringVar(&flags.workDir, "work-dir", "", "directory holding the event dumps and receiving the comment (default "+config.DefaultWorkDir+")")
	f.StringVar(&flags.repoDir, "repo-dir", "", "repository checkout used for git diagnostics")
	f.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&flags.signURL, "sign-url", "", "page contributors are sent to for signing")
	f.StringSliceVar(&flags.exempt, "exempt", nil, "additional logins treated as signed")
	f.BoolVar(&flags.postComment, "post-comment", false, "post the comment and a commit status on the pull request")

	cmd.AddCommand(newSignersCmd(), newVersionCmd(info))
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags checkFlags, info buildInfo) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cmd, &cfg, flags, args)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, logger.ColorEnabled())

	ctx := cmd.Context()
	tel, err := telemetry.New(ctx, cfg.OTelEnabled, info.version)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	container, err := NewContainer(cfg, log, tel, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}

	outcome, err := container.CheckService.Execute(ctx, container.Request)
	if err != nil {
		return err
	}
	if outcome.Failed() {
		return fmt.Errorf("%w: %s", domain.ErrUnsigned, strings.Join(outcome.Unsigned, ", "))
	}
	return nil
}

// applyFlags layers explicitly set flags and positional URLs over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags checkFlags, args []string) {
	f := cmd.Flags()
	if f.Changed("work-dir") {
		cfg.WorkDir = flags.workDir
	}
	if f.Changed("repo-dir") {
		cfg.RepoDir = flags.repoDir
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if f.Changed("sign-url") {
		cfg.SignURL = flags.signURL
	}
	if f.Changed("post-comment") {
		cfg.PostComment = flags.postComment
	}
	for _, login := range flags.exempt {
		if login = strings.TrimSpace(login); login != "" && !slices.Contains(cfg.Exempt, login) {
			cfg.Exempt = append(cfg.Exempt, login)
		}
	}
	if len(args) == 2 {
		cfg.PersonalAgreementURL = args[0]
		cfg.EmployerAgreementURL = args[1]
	}
}
