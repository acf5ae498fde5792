package domain

import (
	"errors"
	"fmt"
)

// ErrUnsigned is returned when at least one required login has not signed.
var ErrUnsigned = errors.New("contributor license agreement signature missing")

// NotPullRequestError is returned when the check is triggered by any event
// other than a pull request.
type NotPullRequestError struct {
	EventName string
}

func (e *NotPullRequestError) Error() string {
	return fmt.Sprintf("this operation is valid on github pull requests only (event received: %q)", e.EventName)
}

// NewNotPullRequestError creates a new NotPullRequestError.
func NewNotPullRequestError(eventName string) *NotPullRequestError {
	return &NotPullRequestError{EventName: eventName}
}

// IsNotPullRequest checks if an error is or wraps a NotPullRequestError.
func IsNotPullRequest(err error) bool {
	var npr *NotPullRequestError
	return errors.As(err, &npr)
}
