// Package fileout records check outcomes in append-only files consumed by the CI workflow.
package fileout

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
)

const (
	// CommentFile receives every comment; the workflow posts it on the PR.
	CommentFile = "comment"
	// FailedFile exists only when a check failed.
	FailedFile = "failed"
)

// Adapter implements ports.ReportingPort by appending the outcome comment to
// files in a working directory and echoing the status to a console writer.
type Adapter struct {
	dir  string
	out  io.Writer
	pass *color.Color
	fail *color.Color
}

// New creates a new file reporting adapter. A nil out writes to stdout.
func New(dir string, out io.Writer) *Adapter {
	if out == nil {
		out = os.Stdout
	}
	return &Adapter{
		dir:  dir,
		out:  out,
		pass: color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
	}
}

// Report appends the comment to the comment log. On failure the comment is
// first appended to the failure marker, so a write error on the comment log
// leaves the marker in place and the job still fails.
func (a *Adapter) Report(_ context.Context, pr domain.PRContext, outcome domain.Outcome) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if outcome.Failed() {
		if err := a.append(FailedFile, outcome.Comment); err != nil {
			return err
		}
	}
	if err := a.append(CommentFile, outcome.Comment); err != nil {
		return err
	}

	a.printStatus(pr, outcome)
	return nil
}

// CommentPath returns the path of the comment log.
func (a *Adapter) CommentPath() string {
	return filepath.Join(a.dir, CommentFile)
}

// FailedPath returns the path of the failure marker.
func (a *Adapter) FailedPath() string {
	return filepath.Join(a.dir, FailedFile)
}

func (a *Adapter) append(name, text string) error {
	path := filepath.Join(a.dir, name)
	//nolint:gosec // G304: path is built from the configured work dir
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := io.WriteString(f, text+"\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func (a *Adapter) printStatus(pr domain.PRContext, outcome domain.Outcome) {
	label := a.pass.Sprint("PASS")
	detail := fmt.Sprintf("%d contributor(s) signed", len(outcome.Checked))
	if outcome.Failed() {
		label = a.fail.Sprint("FAIL")
		detail = "unsigned: " + strings.Join(outcome.Unsigned, ", ")
	}

	_, _ = fmt.Fprintf(a.out, "[%s] %s/%s#%d: %s\n", label, pr.Owner, pr.Repo, pr.PRNumber, detail)
	_, _ = fmt.Fprintln(a.out, outcome.Comment)
}
