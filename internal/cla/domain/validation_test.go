package domain

import (
	"reflect"
	"testing"
)

func TestRequiredLogins(t *testing.T) {
	tests := []struct {
		name     string
		pr       PRContext
		commits  []Commit
		exempt   []string
		expected []string
	}{
		{
			name:     "submitter only",
			pr:       PRContext{Submitter: "carol"},
			expected: []string{"carol"},
		},
		{
			name: "submitter and committers deduplicated",
			pr:   PRContext{Submitter: "carol"},
			commits: []Commit{
				{SHA: "a1", CommitterLogin: "dave"},
				{SHA: "a2", CommitterLogin: "carol"},
				{SHA: "a3", CommitterLogin: "dave"},
			},
			expected: []string{"carol", "dave"},
		},
		{
			name: "web-flow exempted",
			pr:   PRContext{Submitter: "carol"},
			commits: []Commit{
				{SHA: "a1", CommitterLogin: WebFlowLogin},
				{SHA: "a2", CommitterLogin: "erin"},
			},
			exempt:   []string{WebFlowLogin},
			expected: []string{"carol", "erin"},
		},
		{
			name: "web-flow exempt without an exempt list",
			pr:   PRContext{Submitter: "carol"},
			commits: []Commit{
				{SHA: "a1", CommitterLogin: WebFlowLogin},
				{SHA: "a2", CommitterLogin: "carol"},
			},
			exempt:   nil,
			expected: []string{"carol"},
		},
		{
			name:     "web-flow submitter with unrelated exempt list",
			pr:       PRContext{Submitter: WebFlowLogin},
			exempt:   []string{"dependabot[bot]"},
			expected: nil,
		},
		{
			name: "unlinked committer gets placeholder",
			pr:   PRContext{Submitter: "carol"},
			commits: []Commit{
				{SHA: "0123456789abcdef"},
			},
			expected: []string{"carol", "unknown committer (commit 0123456)"},
		},
		{
			name:     "exempt submitter",
			pr:       PRContext{Submitter: "dependabot[bot]"},
			exempt:   []string{"dependabot[bot]"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredLogins(tt.pr, tt.commits, tt.exempt)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("RequiredLogins() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUnsigned(t *testing.T) {
	personal := NewSignerSet("carol", "dave")
	employer := NewSignerSet("frank")

	tests := []struct {
		name     string
		logins   []string
		personal SignerSet
		employer SignerSet
		expected []string
	}{
		{
			name:     "signed personally",
			logins:   []string{"carol"},
			personal: personal,
			employer: employer,
			expected: nil,
		},
		{
			name:     "signed through employer",
			logins:   []string{"frank"},
			personal: personal,
			employer: employer,
			expected: nil,
		},
		{
			name:     "absent from both",
			logins:   []string{"erin"},
			personal: NewSignerSet(),
			employer: NewSignerSet(),
			expected: []string{"erin"},
		},
		{
			name:     "order preserved",
			logins:   []string{"zoe", "carol", "adam"},
			personal: personal,
			employer: employer,
			expected: []string{"zoe", "adam"},
		},
		{
			name:     "nil sets",
			logins:   []string{"carol"},
			expected: []string{"carol"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unsigned(tt.logins, tt.personal, tt.employer)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Unsigned(%v) = %v, want %v", tt.logins, got, tt.expected)
			}
		})
	}
}

func TestUnsigned_Idempotent(t *testing.T) {
	personal := NewSignerSet("carol")
	logins := []string{"carol", "erin"}

	first := Unsigned(logins, personal, nil)
	second := Unsigned(logins, personal, nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation differs: %v vs %v", first, second)
	}
}

func TestSignerSet(t *testing.T) {
	s := NewSignerSet("bob", "alice", "bob")
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if got := s.Sorted(); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Errorf("Sorted() = %v", got)
	}

	u := Union(s, NewSignerSet("carol"), nil)
	if u.Len() != 3 || !u.Contains("carol") || !u.Contains("alice") {
		t.Errorf("Union() = %v", u.Sorted())
	}
}

func TestStatusString(t *testing.T) {
	if StatusSuccess.String() != "Success" {
		t.Errorf("StatusSuccess.String() = %q", StatusSuccess.String())
	}
	if StatusFailed.String() != "Failed" {
		t.Errorf("StatusFailed.String() = %q", StatusFailed.String())
	}
	if Status(7).String() != "Unknown" {
		t.Errorf("Status(7).String() = %q", Status(7).String())
	}
}
