// Package actionsctx loads the pull request context dumped by a GitHub Actions workflow.
package actionsctx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
)

const (
	// EventFile holds the workflow's github context (toJSON(github)).
	EventFile = "github.json"
	// CommitsFile holds the pull request's commit list as returned by the REST API.
	CommitsFile = "commitDetails.json"
)

// actionsContext is the subset of the workflow's github context we read.
type actionsContext struct {
	EventName  string          `json:"event_name"`
	Repository string          `json:"repository"` // "owner/name"
	Event      json.RawMessage `json:"event"`
}

// Adapter implements ports.ContextPort by reading the event and commit
// dumps from a working directory.
type Adapter struct {
	dir string
}

// New creates a new context adapter reading from dir.
func New(dir string) *Adapter {
	return &Adapter{dir: dir}
}

// LoadContext reads both files. Either file being missing or malformed is an error.
// The event payload is only decoded for pull request events.
func (a *Adapter) LoadContext(_ context.Context) (domain.PRContext, []domain.Commit, error) {
	var gh actionsContext
	if err := readJSON(filepath.Join(a.dir, EventFile), &gh); err != nil {
		return domain.PRContext{}, nil, err
	}

	var raw []*gogithub.RepositoryCommit
	if err := readJSON(filepath.Join(a.dir, CommitsFile), &raw); err != nil {
		return domain.PRContext{}, nil, err
	}

	pr := domain.PRContext{EventName: gh.EventName}
	pr.Owner, pr.Repo, _ = strings.Cut(gh.Repository, "/")

	if pr.IsPullRequest() {
		if err := fillFromEvent(&pr, gh.Event); err != nil {
			return domain.PRContext{}, nil, err
		}
	}

	return pr, toCommits(raw), nil
}

func fillFromEvent(pr *domain.PRContext, payload json.RawMessage) error {
	if len(payload) == 0 {
		return fmt.Errorf("%s: pull_request event has no payload", EventFile)
	}

	var ev gogithub.PullRequestEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decoding pull_request payload: %w", err)
	}

	pr.Action = ev.GetAction()
	pr.PRNumber = ev.GetNumber()
	if pr.PRNumber == 0 {
		pr.PRNumber = ev.GetPullRequest().GetNumber()
	}
	pr.Submitter = ev.GetPullRequest().GetUser().GetLogin()
	pr.HeadSHA = ev.GetPullRequest().GetHead().GetSHA()

	if pr.Owner == "" || pr.Repo == "" {
		pr.Owner = ev.GetRepo().GetOwner().GetLogin()
		pr.Repo = ev.GetRepo().GetName()
	}

	if pr.Submitter == "" {
		return fmt.Errorf("%s: pull request submitter login is missing", EventFile)
	}
	return nil
}

func toCommits(raw []*gogithub.RepositoryCommit) []domain.Commit {
	commits := make([]domain.Commit, 0, len(raw))
	for _, rc := range raw {
		if rc == nil {
			continue
		}
		commits = append(commits, domain.Commit{
			SHA:            rc.GetSHA(),
			CommitterLogin: rc.GetCommitter().GetLogin(),
			AuthorName:     rc.GetCommit().GetAuthor().GetName(),
		})
	}
	return commits
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
