package domain

// Status represents the outcome of a signature check.
type Status int

const (
	StatusSuccess Status = iota // Every required login has signed
	StatusFailed                // At least one required login is unsigned
)

// String returns the string representation of the Status.
// Implements the Stringer interface.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Unknown"
	}
	return statusNames[s]
}

var statusNames = [...]string{
	StatusSuccess: "Success",
	StatusFailed:  "Failed",
}

// Outcome is the result of validating a pull request against the signer directory.
type Outcome struct {
	Status      Status
	Checked     []string            // required logins, in first-seen order
	Unsigned    []string            // subset of Checked missing from both signer sets
	Suggestions map[string][]string // unsigned login -> similar signed logins
	Comment     string              // human-readable comment for the PR
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}
