package fri

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrContract indicates an extraction record that does not satisfy the
// record contract. Such a record cannot be validated.
var ErrContract = errors.New("extraction record contract violation")

// Violation is a single contract breach, located by dotted field path.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ContractError carries every violation found on a record.
// It matches ErrContract with errors.Is.
type ContractError struct {
	Violations []Violation
}

func (e *ContractError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s: %s", ErrContract, strings.Join(parts, "; "))
}

func (e *ContractError) Is(target error) bool {
	return target == ErrContract
}

// Decode unmarshals a JSON extraction record and checks its contract.
// Malformed JSON, wrongly typed values and absent required keys are
// reported as contract violations rather than defaulted.
func Decode(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &ContractError{Violations: []Violation{decodeViolation(err)}}
	}

	vs := missing(data)
	reported := make(map[string]bool, len(vs))
	for _, v := range vs {
		reported[v.Field] = true
	}
	for _, v := range rec.Violations() {
		if !reported[v.Field] {
			vs = append(vs, v)
		}
	}

	if len(vs) > 0 {
		return nil, &ContractError{Violations: vs}
	}
	return &rec, nil
}

// Validate returns a *ContractError when the record breaks its contract.
func (r *Record) Validate() error {
	if vs := r.Violations(); len(vs) > 0 {
		return &ContractError{Violations: vs}
	}
	return nil
}

// Violations runs every contract check and returns the breaches in field order.
func (r *Record) Violations() []Violation {
	var c collector

	c.required("report.laboratory", r.Report.Laboratory)
	c.required("report.id_report", r.Report.IDReport)

	if sg := r.SilicaGel; sg != nil {
		if !sg.Carton.Valid() {
			c.add("silica_gel.carton", "unknown location %q", sg.Carton)
		}
		c.nonNegative("silica_gel.quantity", sg.Quantity)
		if !sg.Name.Valid() {
			c.add("silica_gel.name", "unknown silica gel type %q", sg.Name)
		}
	}

	if n := len(r.Commands.Commands); n == 1 {
		c.add("command_informations.commands", "a single order must be described by command_total only")
	}
	for i, cmd := range r.Commands.Commands {
		c.quantity(fmt.Sprintf("command_informations.commands[%d].quantity", i), cmd.Quantity)
	}
	c.quantity("command_informations.command_total.total_quantity", r.Commands.Total.TotalQuantity)

	for _, comp := range r.Conclusion.Components() {
		c.result("inspection_conclusion."+comp.Name, comp.Result)
	}
	c.result("overall_inspection_conclusion", r.Overall)

	c.check("aql.general_check", r.AQL.General, Level.General)
	if r.AQL.General.OpenedCartons == nil {
		c.add("aql.general_check.no_opened_carton", "required")
	}
	if r.AQL.Special != nil {
		c.check("aql.special_check", *r.AQL.Special, Level.Special)
	}

	return c.violations
}

type collector struct {
	violations []Violation
}

func (c *collector) add(field, format string, args ...any) {
	c.violations = append(c.violations, Violation{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *collector) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.add(field, "required")
	}
}

func (c *collector) nonNegative(field string, n int) {
	if n < 0 {
		c.add(field, "must not be negative, got %d", n)
	}
}

func (c *collector) result(field string, r Result) {
	if !r.Valid() {
		c.add(field, "unknown result %q", r)
	}
}

func (c *collector) quantity(prefix string, q Quantity) {
	c.nonNegative(prefix+".order_quantity", q.OrderQuantity)
	c.nonNegative(prefix+".order_carton", q.OrderCarton)
	c.nonNegative(prefix+".presented_quantity", q.PresentedQuantity)
	c.nonNegative(prefix+".presented_carton", q.PresentedCarton)
}

func (c *collector) check(prefix string, ch Check, levelOK func(Level) bool) {
	if !levelOK(ch.Level) {
		c.add(prefix+".level", "unexpected inspection level %q", ch.Level)
	}
	if ch.SampleSize <= 0 {
		c.add(prefix+".sample_size", "must be positive, got %d", ch.SampleSize)
	}
	if ch.OpenedCartons != nil {
		c.nonNegative(prefix+".no_opened_carton", *ch.OpenedCartons)
	}
	if ch.Category.Critical < 0 || ch.Category.Major < 0 || ch.Category.Minor < 0 {
		c.add(prefix+".category", "tolerance values must not be negative")
	}
	if m := ch.MaximumAllowed; m != nil {
		c.nonNegative(prefix+".maximum_allowed.critical", m.Critical)
		c.nonNegative(prefix+".maximum_allowed.major", m.Major)
		c.nonNegative(prefix+".maximum_allowed.minor", m.Minor)
	}
	for i, d := range ch.Defects {
		field := fmt.Sprintf("%s.defect_description[%d]", prefix, i)
		c.nonNegative(field+".critical", d.Critical)
		c.nonNegative(field+".major", d.Major)
		c.nonNegative(field+".minor", d.Minor)
	}
}

func decodeViolation(err error) Violation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Violation{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value),
		}
	}
	return Violation{Field: "$", Message: err.Error()}
}
