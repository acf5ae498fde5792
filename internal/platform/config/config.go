// Package config provides application configuration from an optional policy
// file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nathantilsley/cla-val/api"
	"github.com/nathantilsley/cla-val/internal/cla/domain"
)

// Defaults for the brackets-cont agreement records.
const (
	DefaultPersonalAgreementURL = "https://raw.githubusercontent.com/brackets-cont/contributor-license-agreement/main/personal_contributor_licence_agreement.md"
	DefaultEmployerAgreementURL = "https://raw.githubusercontent.com/brackets-cont/contributor-license-agreement/main/employer_contributor_license_agreement.md"
	DefaultSignURL              = "https://brackets.io/contributor-license-agreement/"
	DefaultWorkDir              = ".tmp"
	DefaultPolicyFile           = ".cla-val.yaml"
)

// AlwaysExempt is exempt regardless of configuration.
const AlwaysExempt = domain.WebFlowLogin

// Config holds the application configuration.
type Config struct {
	WorkDir  string // holds github.json and commitDetails.json; receives comment and failed
	RepoDir  string // git diagnostics run here; empty means the process working directory
	GitBin   string
	LogLevel string

	PersonalAgreementURL string
	EmployerAgreementURL string
	SignURL              string
	Exempt               []string
	HTTPTimeout          time.Duration

	// PR comment + commit status (optional)
	PostComment          bool
	GitHubToken          string
	GitHubAppID          int64
	GitHubInstallationID int64
	GitHubPrivateKey     string // PEM file contents

	// OpenTelemetry (optional)
	OTelEnabled bool // OTEL_ENABLED feature flag
}

// Load builds the configuration from defaults, then the policy file at
// policyPath (ignored when it does not exist and was not explicitly
// requested), then environment variables.
func Load(policyPath string) (Config, error) {
	cfg := Config{
		WorkDir:              DefaultWorkDir,
		GitBin:               "git",
		LogLevel:             "info",
		PersonalAgreementURL: DefaultPersonalAgreementURL,
		EmployerAgreementURL: DefaultEmployerAgreementURL,
		SignURL:              DefaultSignURL,
		Exempt:               []string{AlwaysExempt},
		HTTPTimeout:          30 * time.Second,
	}

	if err := loadPolicyFile(&cfg, policyPath); err != nil {
		return Config{}, err
	}

	if err := loadCoreConfig(&cfg); err != nil {
		return Config{}, err
	}

	if err := loadGitHubConfig(&cfg); err != nil {
		return Config{}, err
	}

	loadOTelConfig(&cfg)

	return cfg, nil
}

// HasGitHubApp reports whether GitHub App installation credentials are set.
func (c Config) HasGitHubApp() bool {
	return c.GitHubAppID != 0 && c.GitHubInstallationID != 0 && c.GitHubPrivateKey != ""
}

// Validate checks cross-field constraints after flags have been applied.
func (c Config) Validate() error {
	if c.PersonalAgreementURL == "" || c.EmployerAgreementURL == "" {
		return errors.New("both agreement URLs are required")
	}
	if c.WorkDir == "" {
		return errors.New("work dir is required")
	}
	if c.PostComment && c.GitHubToken == "" && !c.HasGitHubApp() {
		return errors.New("posting comments requires GITHUB_TOKEN or GITHUB_APP_ID, GITHUB_INSTALLATION_ID and GITHUB_PRIVATE_KEY")
	}
	return nil
}

func loadPolicyFile(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		path = getEnvOrDefault("CLA_CONFIG", DefaultPolicyFile)
		explicit = os.Getenv("CLA_CONFIG") != ""
	}

	//nolint:gosec // G304: path is operator supplied
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("reading policy file %s: %w", path, err)
	}

	var p api.Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	if p.PersonalAgreement != "" {
		cfg.PersonalAgreementURL = p.PersonalAgreement
	}
	if p.EmployerAgreement != "" {
		cfg.EmployerAgreementURL = p.EmployerAgreement
	}
	if p.SignURL != "" {
		cfg.SignURL = p.SignURL
	}
	cfg.Exempt = appendUnique(cfg.Exempt, p.Exempt...)
	return nil
}

func loadCoreConfig(cfg *Config) error {
	cfg.WorkDir = getEnvOrDefault("CLA_WORK_DIR", cfg.WorkDir)
	cfg.RepoDir = getEnvOrDefault("CLA_REPO_DIR", cfg.RepoDir)
	cfg.GitBin = getEnvOrDefault("GIT_BIN", cfg.GitBin)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.PersonalAgreementURL = getEnvOrDefault("PERSONAL_CLA_URL", cfg.PersonalAgreementURL)
	cfg.EmployerAgreementURL = getEnvOrDefault("EMPLOYER_CLA_URL", cfg.EmployerAgreementURL)
	cfg.SignURL = getEnvOrDefault("CLA_SIGN_URL", cfg.SignURL)
	cfg.Exempt = appendUnique(cfg.Exempt, splitCommaList(os.Getenv("CLA_EXEMPT"))...)

	dur, err := parseDurationOrDefault("HTTP_TIMEOUT", cfg.HTTPTimeout)
	if err != nil {
		return err
	}
	if dur <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0, got %s", dur)
	}
	cfg.HTTPTimeout = dur

	return nil
}

func loadGitHubConfig(cfg *Config) error {
	cfg.PostComment = os.Getenv("POST_COMMENT") == "true"
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.GitHubPrivateKey = os.Getenv("GITHUB_PRIVATE_KEY")

	var err error
	cfg.GitHubAppID, err = parseOptionalInt64("GITHUB_APP_ID")
	if err != nil {
		return err
	}

	cfg.GitHubInstallationID, err = parseOptionalInt64("GITHUB_INSTALLATION_ID")
	if err != nil {
		return err
	}

	return nil
}

func loadOTelConfig(cfg *Config) {
	cfg.OTelEnabled = os.Getenv("OTEL_ENABLED") == "true"
}

func parseOptionalInt64(envKey string) (int64, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return id, nil
}

func getEnvOrDefault(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

func parseDurationOrDefault(envKey string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return defaultValue, nil
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return dur, nil
}

func splitCommaList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		dup := false
		for _, existing := range list {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, v)
		}
	}
	return list
}
