// Package gitcli records the local repository state by shelling out to git.
package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Query is a read-only git invocation whose output is logged for audit.
type Query struct {
	Name string
	Args []string
}

// Queries are run in order by LogRepositoryState.
var Queries = []Query{
	{Name: "is git dir", Args: []string{"rev-parse", "--is-inside-work-tree"}},
	{Name: "git status", Args: []string{"status"}},
	{Name: "last 10 commit ids", Args: []string{"rev-list", "--max-count=10", "HEAD"}},
}

// Result is the captured output of a single Query.
type Result struct {
	Query  Query
	Output string
	Err    error
}

// Adapter implements ports.DiagnosticsPort by running git in a repository directory.
type Adapter struct {
	gitBin  string
	repoDir string
	logger  *slog.Logger
}

// New creates a new git diagnostics adapter. It resolves gitBin on PATH at
// construction time. repoDir may be empty to use the process working directory.
func New(gitBin, repoDir string, logger *slog.Logger) (*Adapter, error) {
	if gitBin == "" {
		gitBin = "git"
	}
	resolved, err := exec.LookPath(gitBin)
	if err != nil {
		return nil, fmt.Errorf("git binary not found: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Adapter{gitBin: resolved, repoDir: repoDir, logger: logger}, nil
}

// LogRepositoryState runs every query and logs its output. Failures are
// logged as warnings; the output never influences the check.
func (a *Adapter) LogRepositoryState(ctx context.Context) {
	for _, r := range a.Run(ctx) {
		if r.Err != nil {
			a.logger.Warn("git diagnostic failed", "query", r.Query.Name, "error", r.Err)
			continue
		}
		a.logger.Info("git diagnostic", "query", r.Query.Name, "output", r.Output)
	}
}

// Run executes every query and returns the results in order.
func (a *Adapter) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(Queries))
	for _, q := range Queries {
		out, err := a.git(ctx, q.Args...)
		results = append(results, Result{Query: q, Output: out, Err: err})
	}
	return results
}

func (a *Adapter) git(ctx context.Context, args ...string) (string, error) {
	//nolint:gosec // G204: args come from the fixed Queries table
	cmd := exec.CommandContext(ctx, a.gitBin, args...)
	cmd.Dir = a.repoDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w\nstderr: %s", strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}
