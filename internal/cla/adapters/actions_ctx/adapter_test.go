package actionsctx

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nathantilsley/cla-val/internal/cla/domain"
)

const prEventJSON = `{
  "event_name": "pull_request",
  "repository": "brackets-cont/brackets",
  "event": {
    "action": "opened",
    "number": 42,
    "pull_request": {
      "number": 42,
      "user": {"login": "carol"},
      "head": {"ref": "feature", "sha": "abc123"}
    },
    "repository": {"name": "brackets", "owner": {"login": "brackets-cont"}}
  }
}`

const commitsJSON = `[
  {"sha": "1111111111", "commit": {"author": {"name": "Carol"}}, "committer": {"login": "carol"}},
  {"sha": "2222222222", "commit": {"author": {"name": "Web"}}, "committer": {"login": "web-flow"}},
  {"sha": "3333333333", "commit": {"author": {"name": "Ghost"}}, "committer": null}
]`

func writeFixtures(t *testing.T, event, commits string) string {
	t.Helper()
	dir := t.TempDir()
	if event != "" {
		if err := os.WriteFile(filepath.Join(dir, EventFile), []byte(event), 0o600); err != nil {
			t.Fatalf("write event: %v", err)
		}
	}
	if commits != "" {
		if err := os.WriteFile(filepath.Join(dir, CommitsFile), []byte(commits), 0o600); err != nil {
			t.Fatalf("write commits: %v", err)
		}
	}
	return dir
}

func TestLoadContext_PullRequest(t *testing.T) {
	dir := writeFixtures(t, prEventJSON, commitsJSON)

	pr, commits, err := New(dir).LoadContext(context.Background())
	if err != nil {
		t.Fatalf("LoadContext() error: %v", err)
	}

	want := domain.PRContext{
		EventName: "pull_request",
		Action:    "opened",
		Owner:     "brackets-cont",
		Repo:      "brackets",
		PRNumber:  42,
		Submitter: "carol",
		HeadSHA:   "abc123",
	}
	if pr != want {
		t.Errorf("PRContext = %+v, want %+v", pr, want)
	}

	wantCommits := []domain.Commit{
		{SHA: "1111111111", CommitterLogin: "carol", AuthorName: "Carol"},
		{SHA: "2222222222", CommitterLogin: "web-flow", AuthorName: "Web"},
		{SHA: "3333333333", CommitterLogin: "", AuthorName: "Ghost"},
	}
	if !reflect.DeepEqual(commits, wantCommits) {
		t.Errorf("commits = %+v, want %+v", commits, wantCommits)
	}
}

func TestLoadContext_NonPullRequestEvent(t *testing.T) {
	dir := writeFixtures(t, `{"event_name": "push", "repository": "o/r", "event": {"ref": "refs/heads/main"}}`, `[]`)

	pr, commits, err := New(dir).LoadContext(context.Background())
	if err != nil {
		t.Fatalf("LoadContext() error: %v", err)
	}
	if pr.EventName != "push" || pr.IsPullRequest() {
		t.Errorf("EventName = %q, IsPullRequest = %v", pr.EventName, pr.IsPullRequest())
	}
	if pr.Submitter != "" {
		t.Errorf("Submitter = %q, want empty for push events", pr.Submitter)
	}
	if len(commits) != 0 {
		t.Errorf("commits = %v, want none", commits)
	}
}

func TestLoadContext_RepoFromPayload(t *testing.T) {
	event := `{"event_name": "pull_request", "event": {"number": 7,
		"pull_request": {"user": {"login": "dave"}},
		"repository": {"name": "repo", "owner": {"login": "org"}}}}`
	dir := writeFixtures(t, event, `[]`)

	pr, _, err := New(dir).LoadContext(context.Background())
	if err != nil {
		t.Fatalf("LoadContext() error: %v", err)
	}
	if pr.Owner != "org" || pr.Repo != "repo" || pr.PRNumber != 7 {
		t.Errorf("PRContext = %+v", pr)
	}
}

func TestLoadContext_Errors(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		commits string
		errMsg  string
	}{
		{
			name:    "missing event file",
			commits: `[]`,
			errMsg:  EventFile,
		},
		{
			name:   "missing commits file",
			event:  prEventJSON,
			errMsg: CommitsFile,
		},
		{
			name:    "malformed event file",
			event:   `{"event_name":`,
			commits: `[]`,
			errMsg:  "parsing",
		},
		{
			name:    "malformed commits file",
			event:   prEventJSON,
			commits: `{"not": "an array"}`,
			errMsg:  "parsing",
		},
		{
			name:    "pull request without payload",
			event:   `{"event_name": "pull_request"}`,
			commits: `[]`,
			errMsg:  "no payload",
		},
		{
			name:    "pull request without submitter",
			event:   `{"event_name": "pull_request", "event": {"number": 1, "pull_request": {}}}`,
			commits: `[]`,
			errMsg:  "submitter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFixtures(t, tt.event, tt.commits)
			_, _, err := New(dir).LoadContext(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q does not contain %q", err, tt.errMsg)
			}
		})
	}
}
