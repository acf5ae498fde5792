// Package closematch suggests signed logins that look like an unsigned one.
package closematch

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	defaultCutoff = 0.75
	defaultLimit  = 3
)

// Adapter implements ports.SuggestionPort using difflib's sequence matcher
// over the characters of each login.
type Adapter struct {
	cutoff float64
	limit  int
}

// New creates a new close-match adapter with the default cutoff and limit.
func New() *Adapter {
	return &Adapter{cutoff: defaultCutoff, limit: defaultLimit}
}

type scored struct {
	login string
	ratio float64
}

// Suggest returns up to limit candidates whose similarity ratio with login
// is at least the cutoff, best first. A case-insensitive exact match always
// ranks first.
func (a *Adapter) Suggest(login string, candidates []string) []string {
	if login == "" {
		return nil
	}

	lower := strings.ToLower(login)
	matcher := difflib.NewMatcher(nil, nil)
	matcher.SetSeq2(splitChars(lower))

	var matches []scored
	for _, c := range candidates {
		if c == login {
			continue
		}
		cl := strings.ToLower(c)
		if cl == lower {
			matches = append(matches, scored{login: c, ratio: 2})
			continue
		}
		matcher.SetSeq1(splitChars(cl))
		if matcher.QuickRatio() < a.cutoff {
			continue
		}
		if r := matcher.Ratio(); r >= a.cutoff {
			matches = append(matches, scored{login: c, ratio: r})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ratio != matches[j].ratio {
			return matches[i].ratio > matches[j].ratio
		}
		return matches[i].login < matches[j].login
	})

	if len(matches) > a.limit {
		matches = matches[:a.limit]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.login)
	}
	return out
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
