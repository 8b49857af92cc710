package validation

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/JaimeStill/assay/internal/checks"
	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/rules"
)

// Tolerance values required by SIPLEC for each defect tier.
const (
	requiredCritical = 0.0
	requiredMinor    = 4.0
)

var allowedMajor = []float64{1.5, 2.5}

// AQL checks the defect counts of the general check and, when present,
// the special check against their accept numbers.
//
// Inline maximum_allowed values take precedence. Otherwise accept numbers
// come from table for the total ordered quantity at the check's level, and
// a reported sample size smaller than the table's is a warning. A tier
// without a threshold in the table is reported as info and left unbounded.
// Exceeding an accept number is blocking.
//
// A table miss is returned as an error wrapping rules.ErrNoBracket.
func AQL(aql fri.AQL, orderQuantity int, table Lookup) (StepResult, error) {
	s := newStep(StepAQL)

	if err := s.check("aql.general_check", aql.General, orderQuantity, table); err != nil {
		return StepResult{}, err
	}
	if aql.Special != nil {
		if err := s.check("aql.special_check", *aql.Special, orderQuantity, table); err != nil {
			return StepResult{}, err
		}
	}

	return s.result(), nil
}

func (s *step) check(prefix string, ch fri.Check, orderQuantity int, table Lookup) error {
	s.category(prefix+".category", ch.Category)

	limits, err := s.limits(prefix, ch, orderQuantity, table)
	if err != nil {
		return err
	}

	critical, major, minor := ch.DefectTotals()
	counts := checks.Counts{Critical: critical, Major: major, Minor: minor}

	if ok, exceeded := checks.AQLDefects(counts, limits); !ok {
		for _, e := range exceeded {
			s.add(Blocking, fmt.Sprintf("%s.defect_description.%s", prefix, e.Severity), e.Message(),
				strconv.Itoa(e.Count), fmt.Sprintf("<= %d", e.Limit))
		}
	}
	return nil
}

func (s *step) limits(prefix string, ch fri.Check, orderQuantity int, table Lookup) (checks.Limits, error) {
	if m := ch.MaximumAllowed; m != nil {
		return checks.Limits{Critical: &m.Critical, Major: &m.Major, Minor: &m.Minor}, nil
	}

	if table == nil {
		return checks.Limits{}, fmt.Errorf("%w: no rule table for %s", rules.ErrNoBracket, prefix)
	}

	row, err := table.Lookup(orderQuantity, string(ch.Level))
	if err != nil {
		return checks.Limits{}, fmt.Errorf("%s: %w", prefix, err)
	}

	if ch.SampleSize < row.SampleSize {
		s.add(Warning, prefix+".sample_size",
			fmt.Sprintf("Sample size %d is below the %d required for a lot of %d at level %s",
				ch.SampleSize, row.SampleSize, orderQuantity, ch.Level),
			strconv.Itoa(ch.SampleSize), strconv.Itoa(row.SampleSize))
	}

	acc := row.Accept(ch.Category.Major)
	tiers := []struct {
		severity checks.DefectSeverity
		limit    *int
	}{
		{checks.Critical, acc.Critical},
		{checks.Major, acc.Major},
		{checks.Minor, acc.Minor},
	}
	for _, t := range tiers {
		if t.limit == nil {
			s.add(Info, fmt.Sprintf("%s.maximum_allowed.%s", prefix, t.severity),
				fmt.Sprintf("No AC limit defined for %s defects at level %s, letter %s",
					t.severity, row.Level, row.Letter),
				"", "")
		}
	}

	return checks.Limits{Critical: acc.Critical, Major: acc.Major, Minor: acc.Minor}, nil
}

func (s *step) category(field string, c fri.Category) {
	if c.Critical != requiredCritical {
		s.add(Warning, field+".critical",
			fmt.Sprintf("Critical tolerance must be %g", requiredCritical),
			formatFloat(c.Critical), formatFloat(requiredCritical))
	}

	if !slices.Contains(allowedMajor, c.Major) {
		s.add(Warning, field+".major",
			"Major tolerance must be 1.5 or 2.5",
			formatFloat(c.Major), "1.5 or 2.5")
	}

	if c.Minor != requiredMinor {
		s.add(Warning, field+".minor",
			fmt.Sprintf("Minor tolerance must be %g", requiredMinor),
			formatFloat(c.Minor), formatFloat(requiredMinor))
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
