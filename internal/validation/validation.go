// Package validation groups the field checkers into the five steps of an
// FRI report review. Each step inspects one section of the extraction
// record and returns a StepResult carrying every issue it found. Steps do
// not short-circuit: all five run on every record.
package validation

import (
	"fmt"

	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/rules"
)

// Severity grades a validation issue.
type Severity string

const (
	// Blocking issues fail their step.
	Blocking Severity = "blocking"
	// Warning issues flag a concern without failing the step.
	Warning Severity = "warning"
	// Info issues record context for a reviewer.
	Info Severity = "info"
)

const (
	StepRemarks    = "Step 1: Remarks Analysis"
	StepGeneral    = "Step 2: General Information"
	StepQuantity   = "Step 3: Quantity"
	StepConclusion = "Step 4: Inspection Conclusion"
	StepAQL        = "Step 5: AQL"
)

// Issue is one discrepancy found during validation.
type Issue struct {
	Step          string   `json:"step" yaml:"step"`
	Severity      Severity `json:"severity" yaml:"severity"`
	Field         string   `json:"field" yaml:"field"`
	Message       string   `json:"message" yaml:"message"`
	LabValue      string   `json:"lab_value,omitempty" yaml:"lab_value,omitempty"`
	ExpectedValue string   `json:"expected_value,omitempty" yaml:"expected_value,omitempty"`
}

// StepResult is the outcome of one validation step. Result is fail when
// at least one blocking issue was found and pass otherwise.
type StepResult struct {
	Name    string     `json:"step_name" yaml:"step_name"`
	Result  fri.Result `json:"result" yaml:"result"`
	Issues  []Issue    `json:"issues" yaml:"issues"`
	Remarks string     `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

// Failed reports whether the step produced a blocking issue.
func (s StepResult) Failed() bool {
	return s.Result == fri.Fail
}

// Analysis holds the five step results of one record.
type Analysis struct {
	Remarks    StepResult `json:"step_1_remarks_analysis" yaml:"step_1_remarks_analysis"`
	General    StepResult `json:"step_2_general_info" yaml:"step_2_general_info"`
	Quantity   StepResult `json:"step_3_quantity" yaml:"step_3_quantity"`
	Conclusion StepResult `json:"step_4_inspection_conclusion" yaml:"step_4_inspection_conclusion"`
	AQL        StepResult `json:"step_5_aql" yaml:"step_5_aql"`
}

// Steps returns the step results in step order.
func (a Analysis) Steps() []StepResult {
	return []StepResult{a.Remarks, a.General, a.Quantity, a.Conclusion, a.AQL}
}

// Issues flattens the issues of every step, preserving step and discovery order.
func (a Analysis) Issues() []Issue {
	issues := []Issue{}
	for _, s := range a.Steps() {
		issues = append(issues, s.Issues...)
	}
	return issues
}

// Lookup resolves the sampling plan for an order quantity at an inspection
// level. *rules.Table implements it.
type Lookup interface {
	Lookup(quantity int, level string) (rules.Row, error)
}

// Analyze runs the five steps over rec. The only error it returns is a
// rule lookup miss from the AQL step, wrapping rules.ErrNoBracket.
func Analyze(rec *fri.Record, table Lookup, nc *rules.NCRules) (Analysis, error) {
	aql, err := AQL(rec.AQL, rec.Commands.Total.TotalQuantity.OrderQuantity, table)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		Remarks:    Remarks(rec.Notes, nc),
		General:    GeneralInfo(rec),
		Quantity:   Quantity(rec.Commands),
		Conclusion: Conclusion(rec.Conclusion),
		AQL:        aql,
	}, nil
}

// step accumulates the issues of one validation step.
type step struct {
	name   string
	issues []Issue
}

func newStep(name string) *step {
	return &step{name: name, issues: []Issue{}}
}

func (s *step) add(severity Severity, field, message, lab, expected string) {
	s.issues = append(s.issues, Issue{
		Step:          s.name,
		Severity:      severity,
		Field:         field,
		Message:       message,
		LabValue:      lab,
		ExpectedValue: expected,
	})
}

func (s *step) result() StepResult {
	blocking := 0
	for _, i := range s.issues {
		if i.Severity == Blocking {
			blocking++
		}
	}

	r := StepResult{
		Name:   s.name,
		Result: fri.Pass,
		Issues: s.issues,
	}

	switch {
	case blocking > 0:
		r.Result = fri.Fail
		r.Remarks = fmt.Sprintf("%d blocking issue(s)", blocking)
	case len(s.issues) > 0:
		r.Remarks = fmt.Sprintf("No blocking issues, %d to review", len(s.issues))
	default:
		r.Remarks = "No issues"
	}
	return r
}
