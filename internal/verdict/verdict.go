// Package verdict reconciles the laboratory's reported result with the
// result computed by the validation steps and decides whether a human must
// review the report.
package verdict

import (
	"fmt"

	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/validation"
)

// Type classifies how the laboratory and computed results relate.
type Type string

const (
	TruePass          Type = "true_pass"
	TrueFail          Type = "true_fail"
	FalsePass         Type = "false_pass"
	FalseFail         Type = "false_fail"
	InWaitingResolved Type = "in_waiting_resolved"
)

// Types returns the closed set of verdict types.
func Types() []Type {
	return []Type{TruePass, TrueFail, FalsePass, FalseFail, InWaitingResolved}
}

// Valid reports whether t is a known verdict type.
func (t Type) Valid() bool {
	switch t {
	case TruePass, TrueFail, FalsePass, FalseFail, InWaitingResolved:
		return true
	}
	return false
}

// Verdict is the terminal output of a report validation.
type Verdict struct {
	LabResult                 fri.Result         `json:"lab_result" yaml:"lab_result"`
	ComputedResult            fri.Result         `json:"siplec_result" yaml:"siplec_result"`
	Type                      Type               `json:"verdict_type" yaml:"verdict_type"`
	RequiresHumanVerification bool               `json:"requires_human_verification" yaml:"requires_human_verification"`
	Message                   string             `json:"verdict_message" yaml:"verdict_message"`
	BlockingIssues            []validation.Issue `json:"blocking_issues" yaml:"blocking_issues"`
}

type rule struct {
	lab      func(fri.Result) bool
	computed func(fri.Result) bool
	verdict  Type
}

func is(want fri.Result) func(fri.Result) bool {
	return func(r fri.Result) bool { return r == want }
}

func anyResult(fri.Result) bool { return true }

// classification is evaluated in order; the first matching rule wins.
var classification = []rule{
	{is(fri.InWaiting), anyResult, InWaitingResolved},
	{is(fri.Pass), is(fri.Pass), TruePass},
	{is(fri.Fail), is(fri.Fail), TrueFail},
	{is(fri.Pass), is(fri.Fail), FalsePass},
	{is(fri.Fail), is(fri.Pass), FalseFail},
}

// Classify returns the verdict type for a laboratory result and a computed
// result. Combinations no rule covers, such as a computed in_waiting,
// classify as false_pass so they are routed to a reviewer.
func Classify(lab, computed fri.Result) Type {
	for _, r := range classification {
		if r.lab(lab) && r.computed(computed) {
			return r.verdict
		}
	}
	return FalsePass
}

// RequiresHumanVerification reports whether the laboratory and the
// computed result disagree or the laboratory deferred its judgment.
func RequiresHumanVerification(t Type) bool {
	switch t {
	case FalsePass, FalseFail, InWaitingResolved:
		return true
	case TruePass, TrueFail:
		return false
	}
	return true
}

// BlockingIssues returns the blocking issues of steps in step order and,
// within a step, in discovery order.
func BlockingIssues(steps []validation.StepResult) []validation.Issue {
	out := []validation.Issue{}
	for _, s := range steps {
		for _, i := range s.Issues {
			if i.Severity == validation.Blocking {
				out = append(out, i)
			}
		}
	}
	return out
}

// Computed aggregates step results: fail when any step failed, else pass.
func Computed(steps []validation.StepResult) fri.Result {
	for _, s := range steps {
		if s.Failed() {
			return fri.Fail
		}
	}
	return fri.Pass
}

// Decide builds the verdict for a laboratory result and the step results.
func Decide(lab fri.Result, steps []validation.StepResult) Verdict {
	computed := Computed(steps)
	t := Classify(lab, computed)
	blocking := BlockingIssues(steps)

	return Verdict{
		LabResult:                 lab,
		ComputedResult:            computed,
		Type:                      t,
		RequiresHumanVerification: RequiresHumanVerification(t),
		Message:                   message(t, lab, computed, len(blocking)),
		BlockingIssues:            blocking,
	}
}

func message(t Type, lab, computed fri.Result, blocking int) string {
	switch t {
	case TruePass:
		return "Laboratory PASS confirmed: no blocking issue found"
	case TrueFail:
		return fmt.Sprintf("Laboratory FAIL confirmed by %d blocking issue(s)", blocking)
	case FalsePass:
		if computed == fri.Fail {
			return fmt.Sprintf("Laboratory reported PASS but %d blocking issue(s) were found: human verification required", blocking)
		}
		return fmt.Sprintf("Laboratory result %s and computed result %s cannot be reconciled: human verification required", lab, computed)
	case FalseFail:
		return "Laboratory reported FAIL but no blocking issue was found: human verification required"
	case InWaitingResolved:
		return fmt.Sprintf("Laboratory result in waiting, computed result is %s: human verification required", computed)
	}
	return fmt.Sprintf("Unclassified verdict %s", t)
}
