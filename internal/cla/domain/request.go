package domain

// CheckRequest carries the per-run parameters of a signature check.
type CheckRequest struct {
	PersonalAgreementURL string   // markdown record of personal signatures
	EmployerAgreementURL string   // markdown record of employer signatures
	SignURL              string   // page contributors visit to sign
	Exempt               []string // logins treated as always signed
}
