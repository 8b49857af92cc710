// Package rules holds the business rule tables consulted during validation:
// the AQL sampling tables mapping a lot size and inspection level to a
// sample size and accept numbers, and the non-conformity decision table.
// Tables are loaded once and are read-only afterwards, so they are safe
// for concurrent use.
package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrNoBracket indicates no table row covers a quantity at a level.
// It signals a configuration or data gap, not a failed inspection.
var ErrNoBracket = errors.New("no AQL bracket matches")

// Row is one sampling plan of an AQL table. Accept numbers are nil when
// the table defines no threshold for that column.
type Row struct {
	LotMin     int    `json:"lot_min" yaml:"lot_min"`
	LotMax     int    `json:"lot_max" yaml:"lot_max"`
	Level      string `json:"level" yaml:"level"`
	Letter     string `json:"letter" yaml:"letter"`
	SampleSize int    `json:"sample_size" yaml:"sample_size"`
	Critical   *int   `json:"critical" yaml:"critical"`
	Major15    *int   `json:"major_1_5" yaml:"major_1_5"`
	Major25    *int   `json:"major_2_5" yaml:"major_2_5"`
	Minor40    *int   `json:"minor_4_0" yaml:"minor_4_0"`
}

// Accept holds the accept numbers applicable to one inspection.
type Accept struct {
	Critical *int `json:"critical" yaml:"critical"`
	Major    *int `json:"major" yaml:"major"`
	Minor    *int `json:"minor" yaml:"minor"`
}

// Accept selects the accept numbers for a major tolerance value.
// Critical defects use the AQL 0 column and minor defects the AQL 4.0
// column; major defects use AQL 1.5 when requested and AQL 2.5 otherwise.
func (r Row) Accept(majorAQL float64) Accept {
	major := r.Major25
	if majorAQL == 1.5 {
		major = r.Major15
	}
	return Accept{
		Critical: r.Critical,
		Major:    major,
		Minor:    r.Minor40,
	}
}

// Contains reports whether quantity falls in the row's lot size bracket.
func (r Row) Contains(quantity int) bool {
	return quantity >= r.LotMin && quantity <= r.LotMax
}

// Table indexes sampling plans by level, ordered by lot size. A nil
// *Table has no rows.
type Table struct {
	levels map[string][]Row
	count  int
}

// NewTable builds a Table, rejecting overlapping brackets within a level.
func NewTable(rows ...Row) (*Table, error) {
	t := &Table{levels: make(map[string][]Row)}

	for _, r := range rows {
		level := strings.ToUpper(strings.TrimSpace(r.Level))
		if level == "" {
			return nil, fmt.Errorf("row %d-%d: level required", r.LotMin, r.LotMax)
		}
		r.Level = level
		t.levels[level] = append(t.levels[level], r)
	}

	for level, rs := range t.levels {
		slices.SortFunc(rs, func(a, b Row) int { return a.LotMin - b.LotMin })
		for i := 1; i < len(rs); i++ {
			if rs[i].LotMin <= rs[i-1].LotMax {
				return nil, fmt.Errorf(
					"level %s: bracket %d-%d overlaps %d-%d",
					level, rs[i].LotMin, rs[i].LotMax, rs[i-1].LotMin, rs[i-1].LotMax,
				)
			}
		}
		t.count += len(rs)
	}

	return t, nil
}

// Lookup returns the row whose bracket contains quantity at level.
// Returns an error wrapping ErrNoBracket when no row matches.
func (t *Table) Lookup(quantity int, level string) (Row, error) {
	level = strings.ToUpper(strings.TrimSpace(level))

	var rs []Row
	if t != nil {
		rs = t.levels[level]
	}

	i, found := slices.BinarySearchFunc(rs, quantity, func(r Row, q int) int {
		return r.LotMin - q
	})
	if !found {
		i--
	}

	if i < 0 || i >= len(rs) || !rs[i].Contains(quantity) {
		return Row{}, fmt.Errorf("%w: quantity %d at level %q", ErrNoBracket, quantity, level)
	}
	return rs[i], nil
}

// Levels returns the levels present in the table, sorted.
func (t *Table) Levels() []string {
	if t == nil {
		return nil
	}
	levels := make([]string, 0, len(t.levels))
	for l := range t.levels {
		levels = append(levels, l)
	}
	slices.Sort(levels)
	return levels
}

// Rows returns every row of a level in lot size order.
func (t *Table) Rows(level string) []Row {
	if t == nil {
		return nil
	}
	return slices.Clone(t.levels[strings.ToUpper(level)])
}

// Len returns the number of rows across all levels.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}
