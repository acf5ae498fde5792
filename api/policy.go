package api

// Policy is the top-level schema of the optional .cla-val.yaml file that a
// repository can use to point the check at its own agreement records.
type Policy struct {
	PersonalAgreement string   `yaml:"personalAgreement"`
	EmployerAgreement string   `yaml:"employerAgreement"`
	SignURL           string   `yaml:"signURL"`
	Exempt            []string `yaml:"exempt"` // logins treated as signed, in addition to web-flow
}
