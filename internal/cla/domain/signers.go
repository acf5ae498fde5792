package domain

import "sort"

// SignerSet is the set of identities that have signed an agreement.
type SignerSet map[string]struct{}

// NewSignerSet builds a set from the given logins. Duplicates collapse.
func NewSignerSet(logins ...string) SignerSet {
	s := make(SignerSet, len(logins))
	for _, l := range logins {
		s.Add(l)
	}
	return s
}

// Add inserts a login into the set.
func (s SignerSet) Add(login string) {
	s[login] = struct{}{}
}

// Contains reports whether login is in the set. Safe on a nil set.
func (s SignerSet) Contains(login string) bool {
	_, ok := s[login]
	return ok
}

// Len returns the number of distinct signers.
func (s SignerSet) Len() int {
	return len(s)
}

// Sorted returns the signers in lexical order.
func (s SignerSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the members of every given set.
func Union(sets ...SignerSet) SignerSet {
	out := make(SignerSet)
	for _, s := range sets {
		for l := range s {
			out[l] = struct{}{}
		}
	}
	return out
}
