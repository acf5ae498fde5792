package e2e

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	actionsctx "github.com/nathantilsley/cla-val/internal/cla/adapters/actions_ctx"
	closematch "github.com/nathantilsley/cla-val/internal/cla/adapters/close_match"
	fileout "github.com/nathantilsley/cla-val/internal/cla/adapters/file_out"
	markdownsigners "github.com/nathantilsley/cla-val/internal/cla/adapters/markdown_signers"
	"github.com/nathantilsley/cla-val/internal/cla/app"
	"github.com/nathantilsley/cla-val/internal/cla/domain"
	"github.com/nathantilsley/cla-val/internal/platform/config"
	"github.com/nathantilsley/cla-val/internal/platform/httpclient"
	"github.com/nathantilsley/cla-val/internal/platform/logger"
)

const e2eTestEnvValue = "true"

func skipUnlessE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("E2E_TEST") != e2eTestEnvValue {
		t.Skip("Skipping E2E test. Set E2E_TEST=true to run.")
	}
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fetch(t *testing.T, url string) domain.SignerSet {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	source := markdownsigners.New(httpclient.New(30*time.Second), logger.New("warn"))
	set, err := source.FetchSigners(ctx, url)
	if err != nil {
		t.Fatalf("FetchSigners(%s) error: %v", url, err)
	}
	return set
}

func writeWorkDir(t *testing.T, submitter string) string {
	t.Helper()
	dir := t.TempDir()
	event := `{"event_name": "pull_request", "repository": "brackets-cont/brackets",
  "event": {"number": 1, "pull_request": {"number": 1, "user": {"login": "` + submitter + `"}}}}`
	commits := `[{"sha": "0123456789abcdef", "committer": {"login": "` + submitter + `"}},
  {"sha": "fedcba9876543210", "committer": {"login": "web-flow"}}]`

	if err := os.WriteFile(filepath.Join(dir, actionsctx.EventFile), []byte(event), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, actionsctx.CommitsFile), []byte(commits), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runCheck(t *testing.T, dir, personalURL, employerURL string) domain.Outcome {
	t.Helper()
	log := logger.New("debug")
	service := app.NewCheckService(
		actionsctx.New(dir),
		nil,
		markdownsigners.New(httpclient.New(30*time.Second), log),
		closematch.New(),
		fileout.New(dir, &bytes.Buffer{}),
		nil,
		log,
		noopmetric.NewMeterProvider().Meter("e2e"),
		nooptrace.NewTracerProvider().Tracer("e2e"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	outcome, err := service.Execute(ctx, domain.CheckRequest{
		PersonalAgreementURL: personalURL,
		EmployerAgreementURL: employerURL,
		SignURL:              config.DefaultSignURL,
		Exempt:               []string{config.AlwaysExempt},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	return outcome
}

// TestE2E_AgreementRecords checks the published records against the parser
// and runs a full check for a known signer and an unknown login.
// Requires: E2E_TEST=true and network access.
func TestE2E_AgreementRecords(t *testing.T) {
	skipUnlessE2E(t)

	personalURL := getEnvOrDefault("PERSONAL_CLA_URL", config.DefaultPersonalAgreementURL)
	employerURL := getEnvOrDefault("EMPLOYER_CLA_URL", config.DefaultEmployerAgreementURL)

	personal := fetch(t, personalURL)
	employer := fetch(t, employerURL)
	t.Logf("personal signers: %d, employer signers: %d", personal.Len(), employer.Len())

	signed := domain.Union(personal, employer)
	if signed.Len() == 0 {
		t.Fatal("no signers parsed from either record")
	}

	t.Run("known signer passes", func(t *testing.T) {
		signer := signed.Sorted()[0]
		dir := writeWorkDir(t, signer)

		outcome := runCheck(t, dir, personalURL, employerURL)
		if outcome.Failed() {
			t.Fatalf("signer %q reported unsigned: %v", signer, outcome.Unsigned)
		}
		if _, err := os.Stat(filepath.Join(dir, fileout.FailedFile)); !os.IsNotExist(err) {
			t.Errorf("failed marker should not exist, stat err = %v", err)
		}
	})

	t.Run("unknown login fails", func(t *testing.T) {
		login := "cla-val-e2e-" + strings.ToLower(time.Now().Format("20060102150405"))
		dir := writeWorkDir(t, login)

		outcome := runCheck(t, dir, personalURL, employerURL)
		if !outcome.Failed() {
			t.Fatalf("login %q unexpectedly passed", login)
		}
		data, err := os.ReadFile(filepath.Join(dir, fileout.FailedFile))
		if err != nil {
			t.Fatalf("reading failed marker: %v", err)
		}
		if !strings.Contains(string(data), login) {
			t.Errorf("failed marker does not name %q:\n%s", login, data)
		}
	})
}
