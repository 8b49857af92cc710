package checks

import "fmt"

// DefectSeverity names an AQL defect tier.
type DefectSeverity string

const (
	Critical DefectSeverity = "critical"
	Major    DefectSeverity = "major"
	Minor    DefectSeverity = "minor"
)

// Label returns the capitalized tier name used in issue messages.
func (s DefectSeverity) Label() string {
	switch s {
	case Critical:
		return "Critical"
	case Major:
		return "Major"
	case Minor:
		return "Minor"
	}
	return string(s)
}

// Counts holds observed defect totals per tier.
type Counts struct {
	Critical int
	Major    int
	Minor    int
}

// Limits holds the accept number (AC) per tier. A nil limit means no
// threshold is defined for that tier and any count is accepted.
type Limits struct {
	Critical *int
	Major    *int
	Minor    *int
}

// Exceedance is one tier whose defect count is above its accept number.
type Exceedance struct {
	Severity DefectSeverity
	Count    int
	Limit    int
}

func (e Exceedance) Message() string {
	return fmt.Sprintf("%s defects (%d) exceed AC limit (%d)", e.Severity.Label(), e.Count, e.Limit)
}

// AQLDefects compares each tier's count with its accept number and reports
// one exceedance per violated tier, in critical, major, minor order.
func AQLDefects(counts Counts, limits Limits) (bool, []Exceedance) {
	tiers := []struct {
		severity DefectSeverity
		count    int
		limit    *int
	}{
		{Critical, counts.Critical, limits.Critical},
		{Major, counts.Major, limits.Major},
		{Minor, counts.Minor, limits.Minor},
	}

	var out []Exceedance
	for _, t := range tiers {
		if t.limit != nil && t.count > *t.limit {
			out = append(out, Exceedance{Severity: t.severity, Count: t.count, Limit: *t.limit})
		}
	}
	return len(out) == 0, out
}
