// Package githubout publishes check outcomes on the pull request (comment and commit status).
package githubout

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
)

const maxStatusDescriptionLen = 140

// Adapter implements ports.ReportingPort by posting a PR comment and a
// commit status through the GitHub API.
type Adapter struct {
	client  *gogithub.Client
	appName string
	logger  *slog.Logger
}

// New creates a new GitHub reporting adapter. appName is used as the status
// context and in the hidden comment marker.
func New(client *gogithub.Client, appName string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Adapter{client: client, appName: appName, logger: logger}
}

// Report replaces any earlier comment from this tool and sets the commit
// status on the head SHA (skipped when the SHA is unknown).
func (a *Adapter) Report(ctx context.Context, pr domain.PRContext, outcome domain.Outcome) error {
	if err := a.PostComment(ctx, pr, outcome); err != nil {
		return err
	}
	if pr.HeadSHA == "" {
		a.logger.Warn("head sha unknown, skipping commit status", "pr", pr.PRNumber)
		return nil
	}
	return a.SetStatus(ctx, pr, outcome)
}

// PostComment posts the outcome comment on the PR.
func (a *Adapter) PostComment(ctx context.Context, pr domain.PRContext, outcome domain.Outcome) error {
	a.logger.Info("posting PR comment", "pr", pr.PRNumber, "status", outcome.Status)

	marker := a.commentMarker()
	a.deleteMatchingComments(ctx, pr, marker)

	body := marker + "\n" + outcome.Comment
	_, _, err := a.client.Issues.CreateComment(ctx, pr.Owner, pr.Repo, pr.PRNumber, &gogithub.IssueComment{
		Body: gogithub.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("creating PR comment: %w", err)
	}

	a.logger.Info("PR comment posted successfully", "pr", pr.PRNumber)
	return nil
}

// SetStatus sets a commit status on the PR head.
func (a *Adapter) SetStatus(ctx context.Context, pr domain.PRContext, outcome domain.Outcome) error {
	state, description := statusFor(outcome)

	_, _, err := a.client.Repositories.CreateStatus(ctx, pr.Owner, pr.Repo, pr.HeadSHA, &gogithub.RepoStatus{
		State:       gogithub.Ptr(state),
		Description: gogithub.Ptr(description),
		Context:     gogithub.Ptr(a.appName),
	})
	if err != nil {
		return fmt.Errorf("creating commit status: %w", err)
	}

	a.logger.Info("commit status set", "sha", pr.HeadSHA, "state", state)
	return nil
}

func (a *Adapter) commentMarker() string {
	return fmt.Sprintf("<!-- %s -->", a.appName)
}

// deleteMatchingComments deletes comments containing the given marker.
func (a *Adapter) deleteMatchingComments(ctx context.Context, pr domain.PRContext, marker string) {
	opts := &gogithub.IssueListCommentsOptions{ListOptions: gogithub.ListOptions{PerPage: 100}}

	for {
		comments, resp, err := a.client.Issues.ListComments(ctx, pr.Owner, pr.Repo, pr.PRNumber, opts)
		if err != nil {
			a.logger.Warn("failed to list comments, continuing anyway", "error", err)
			return
		}
		for _, comment := range comments {
			if strings.Contains(comment.GetBody(), marker) {
				a.logger.Info("deleting old comment", "commentID", comment.GetID())
				if _, err := a.client.Issues.DeleteComment(ctx, pr.Owner, pr.Repo, comment.GetID()); err != nil {
					a.logger.Warn("failed to delete old comment", "commentID", comment.GetID(), "error", err)
				}
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return
		}
		opts.Page = resp.NextPage
	}
}

func statusFor(outcome domain.Outcome) (state, description string) {
	if !outcome.Failed() {
		return "success", "Contributor License Agreement signed"
	}
	description = "CLA missing: " + strings.Join(outcome.Unsigned, ", ")
	if utf8.RuneCountInString(description) > maxStatusDescriptionLen {
		runes := []rune(description)
		description = string(runes[:maxStatusDescriptionLen-3]) + "..."
	}
	return "failure", description
}
