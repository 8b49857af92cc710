// Package inspection runs the full review of an FRI extraction record:
// the contract check, the five validation steps and the verdict.
package inspection

import (
	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/rules"
	"github.com/JaimeStill/assay/internal/validation"
	"github.com/JaimeStill/assay/internal/verdict"
)

// Report is the validation output for one record.
type Report struct {
	Analysis validation.Analysis `json:"part_2_analysis" yaml:"part_2_analysis"`
	Verdict  verdict.Verdict     `json:"part_3_verdict" yaml:"part_3_verdict"`
	Issues   []validation.Issue  `json:"all_issues" yaml:"all_issues"`
}

// Validator holds the rule tables consulted during validation. It keeps no
// per-call state and is safe for concurrent use.
type Validator struct {
	aql validation.Lookup
	nc  *rules.NCRules
}

// NewValidator creates a Validator over an AQL lookup and the
// non-conformity rules. nc may be nil.
func NewValidator(aql validation.Lookup, nc *rules.NCRules) *Validator {
	return &Validator{aql: aql, nc: nc}
}

// Validate checks the record contract, runs the five steps and decides the
// verdict. A contract breach returns a *fri.ContractError and a rule table
// miss returns an error wrapping rules.ErrNoBracket; both mean the record
// could not be validated.
func (v *Validator) Validate(rec *fri.Record) (*Report, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	analysis, err := validation.Analyze(rec, v.aql, v.nc)
	if err != nil {
		return nil, err
	}

	return &Report{
		Analysis: analysis,
		Verdict:  verdict.Decide(rec.Overall, analysis.Steps()),
		Issues:   analysis.Issues(),
	}, nil
}
