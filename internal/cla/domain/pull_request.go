package domain

// PullRequestEvent is the only event name a check may run against.
const PullRequestEvent = "pull_request"

// PRContext holds the details of the triggering pull request event.
type PRContext struct {
	EventName string
	Action    string
	Owner     string
	Repo      string
	PRNumber  int
	Submitter string // login of the user who opened the PR
	HeadSHA   string
}

// IsPullRequest reports whether the context was produced by a pull request event.
func (p PRContext) IsPullRequest() bool {
	return p.EventName == PullRequestEvent
}

// Commit is a single commit in the pull request.
type Commit struct {
	SHA            string
	CommitterLogin string // empty when the committer email is not linked to an account
	AuthorName     string
}

// ShortSHA returns the abbreviated commit hash.
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}
