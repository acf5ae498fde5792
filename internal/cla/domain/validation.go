package domain

// WebFlowLogin is the account GitHub uses for commits made through the web UI.
const WebFlowLogin = "web-flow"

// UnknownCommitter labels a commit whose committer has no linked account.
// The label contains spaces, so it can never match a parsed signer.
func UnknownCommitter(c Commit) string {
	return "unknown committer (commit " + c.ShortSHA() + ")"
}

// RequiredLogins returns the logins that must have signed for the PR to pass:
// the submitter followed by every distinct committer, in first-seen order,
// with exempt logins removed. WebFlowLogin is always exempt.
func RequiredLogins(pr PRContext, commits []Commit, exempt []string) []string {
	skip := NewSignerSet(exempt...)
	skip.Add(WebFlowLogin)
	seen := make(map[string]struct{})
	var logins []string

	add := func(login string) {
		if skip.Contains(login) {
			return
		}
		if _, ok := seen[login]; ok {
			return
		}
		seen[login] = struct{}{}
		logins = append(logins, login)
	}

	if pr.Submitter != "" {
		add(pr.Submitter)
	}
	for _, c := range commits {
		if c.CommitterLogin == "" {
			add(UnknownCommitter(c))
			continue
		}
		add(c.CommitterLogin)
	}
	return logins
}

// IsSigned reports whether login appears in either signer set.
func IsSigned(login string, personal, employer SignerSet) bool {
	return personal.Contains(login) || employer.Contains(login)
}

// Unsigned returns the logins absent from both signer sets, preserving order.
func Unsigned(logins []string, personal, employer SignerSet) []string {
	var out []string
	for _, l := range logins {
		if !IsSigned(l, personal, employer) {
			out = append(out, l)
		}
	}
	return out
}
