package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotPullRequestError(t *testing.T) {
	err := NewNotPullRequestError("push")

	expected := `this operation is valid on github pull requests only (event received: "push")`
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestIsNotPullRequest(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "typed error",
			err:  NewNotPullRequestError("push"),
			want: true,
		},
		{
			name: "wrapped error",
			err:  fmt.Errorf("checking event: %w", NewNotPullRequestError("issues")),
			want: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("pull request not found"),
			want: false,
		},
		{
			name: "unsigned error",
			err:  ErrUnsigned,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsNotPullRequest(tt.err)
			if got != tt.want {
				t.Errorf("IsNotPullRequest(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
