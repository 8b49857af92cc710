package rules_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/JaimeStill/assay/internal/rules"
)

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

func TestParseLotSize(t *testing.T) {
	tests := []struct {
		text    string
		lo, hi  int
		wantErr bool
	}{
		{text: "2 - 8", lo: 2, hi: 8},
		{text: "2 – 8", lo: 2, hi: 8},
		{text: "2—8", lo: 2, hi: 8},
		{text: "3,201 – 10,000", lo: 3201, hi: 10000},
		{text: "10 001 - 35 000", lo: 10001, hi: 35000},
		{text: "500,001 et plus", lo: 500001, hi: rules.Unbounded},
		{text: "500001 and up", lo: 500001, hi: rules.Unbounded},
		{text: "1200+", lo: 1200, hi: rules.Unbounded},
		{text: "9 - 2", wantErr: true},
		{text: "1 - 99999999999999999999", wantErr: true},
		{text: "99999999999999999999 et plus", wantErr: true},
		{text: "lots", wantErr: true},
		{text: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			lo, hi, err := rules.ParseLotSize(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestParseAccept(t *testing.T) {
	tests := []struct {
		cell string
		want *int
	}{
		{"Ac=0/Re=1", ptr(0)},
		{"Ac=10/Re=11", ptr(10)},
		{"ac = 3 / re = 4", ptr(3)},
		{"", nil},
		{"-", nil},
		{"Re=2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.ParseAccept(tt.cell))
		})
	}
}

func TestExpandLevels(t *testing.T) {
	tests := []struct {
		label   string
		want    []string
		wantErr bool
	}{
		{label: "S1-S4", want: []string{"S1", "S2", "S3", "S4"}},
		{label: "S2 – S3", want: []string{"S2", "S3"}},
		{label: "s1-s2", want: []string{"S1", "S2"}},
		{label: "S1-2", want: []string{"S1", "S2"}},
		{label: "II", want: []string{"II"}},
		{label: "S3", want: []string{"S3"}},
		{label: "S3-S1", wantErr: true},
		{label: "S1-T2", wantErr: true},
		{label: "S1-S99999999999999999999", wantErr: true},
		{label: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := rules.ExpandLevels(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ---------------------------------------------------------------------------
// Embedded tables
// ---------------------------------------------------------------------------

func TestDefaultTable(t *testing.T) {
	table, err := rules.Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"I", "II", "III", "S1", "S2", "S3", "S4"}, table.Levels())
	assert.Equal(t, 15*7, table.Len())

	tests := []struct {
		name     string
		quantity int
		level    string
		letter   string
		sample   int
		major    float64
		accept   [3]int
	}{
		{"lot 5000 level II", 5000, "II", "L", 200, 2.5, [3]int{0, 10, 14}},
		{"lot 5000 level II at 1.5", 5000, "II", "L", 200, 1.5, [3]int{0, 7, 14}},
		{"lot 1000 level II", 1000, "II", "J", 80, 2.5, [3]int{0, 5, 7}},
		{"bracket lower bound", 501, "II", "J", 80, 2.5, [3]int{0, 5, 7}},
		{"bracket upper bound", 1200, "II", "J", 80, 2.5, [3]int{0, 5, 7}},
		{"open bracket", 2_000_000, "II", "Q", 1250, 2.5, [3]int{0, 21, 21}},
		{"level I", 5000, "I", "J", 80, 2.5, [3]int{0, 5, 7}},
		{"lowercase level", 5000, "iii", "M", 315, 2.5, [3]int{0, 14, 21}},
		{"expanded special level", 20, "S3", "B", 3, 2.5, [3]int{0, 0, 0}},
		{"special level S4", 5000, "S4", "G", 32, 2.5, [3]int{0, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := table.Lookup(tt.quantity, tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.letter, row.Letter)
			assert.Equal(t, tt.sample, row.SampleSize)

			acc := row.Accept(tt.major)
			require.NotNil(t, acc.Critical)
			require.NotNil(t, acc.Major)
			require.NotNil(t, acc.Minor)
			assert.Equal(t, tt.accept, [3]int{*acc.Critical, *acc.Major, *acc.Minor})
		})
	}
}

func TestLookupMiss(t *testing.T) {
	table, err := rules.Default()
	require.NoError(t, err)

	tests := []struct {
		name     string
		quantity int
		level    string
	}{
		{"below smallest bracket", 1, "II"},
		{"unknown level", 5000, "S5"},
		{"empty level", 5000, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := table.Lookup(tt.quantity, tt.level)
			assert.ErrorIs(t, err, rules.ErrNoBracket)
		})
	}
}

func TestNilTable(t *testing.T) {
	var table *rules.Table

	_, err := table.Lookup(5000, "II")
	assert.ErrorIs(t, err, rules.ErrNoBracket)
	assert.Empty(t, table.Levels())
	assert.Empty(t, table.Rows("II"))
	assert.Zero(t, table.Len())
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

func TestLoadLatin1(t *testing.T) {
	src := "Taille du Lot;Level;Lettre;Échantillon à prélever;Critical (AQL 0);Major (AQL 2.5);Minor (AQL 4.0)\n" +
		"2 - 500;S1-S3;C;5;Ac=0/Re=1;Ac=1/Re=2;Ac=2/Re=3\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	rows, err := rules.Load(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i, level := range []string{"S1", "S2", "S3"} {
		assert.Equal(t, level, rows[i].Level)
		assert.Equal(t, 5, rows[i].SampleSize)
		assert.Equal(t, 2, rows[i].LotMin)
		assert.Equal(t, 500, rows[i].LotMax)
		assert.Nil(t, rows[i].Major15)
	}
}

func TestLoadCommaSeparatedWithBlankCells(t *testing.T) {
	src := "\xef\xbb\xbfLot Size,Level,Letter,Sample Size,Critical (AQL 0),Major (AQL 1.5),Major (AQL 2.5),Minor (AQL 4.0)\n" +
		"\"1,201 - 3,200\",II,K,125,Ac=0/Re=1,,Ac=7/Re=8,Ac=10/Re=11\n" +
		",,,,,,,\n"

	rows, err := rules.Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 1201, row.LotMin)
	assert.Equal(t, 3200, row.LotMax)
	assert.Nil(t, row.Major15)
	require.NotNil(t, row.Critical)
	assert.Equal(t, 0, *row.Critical)

	acc := row.Accept(1.5)
	assert.Nil(t, acc.Major)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"missing sample column", "Lot Size;Level\n2 - 8;II\n"},
		{"bad lot size", "Lot Size;Level;Sample Size\nmany;II;5\n"},
		{"bad sample size", "Lot Size;Level;Sample Size\n2 - 8;II;five\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.Load(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestNewTableRejectsOverlap(t *testing.T) {
	_, err := rules.NewTable(
		rules.Row{LotMin: 2, LotMax: 50, Level: "II", SampleSize: 5},
		rules.Row{LotMin: 40, LotMax: 90, Level: "II", SampleSize: 8},
	)
	assert.Error(t, err)

	table, err := rules.NewTable(
		rules.Row{LotMin: 2, LotMax: 50, Level: "II", SampleSize: 5},
		rules.Row{LotMin: 40, LotMax: 90, Level: "S1", SampleSize: 8},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

// ---------------------------------------------------------------------------
// Non-conformity rules
// ---------------------------------------------------------------------------

func TestNCRules(t *testing.T) {
	src := "Family of non compliance;Product category;cause of non-compliance;Labaroatory validation;Siplec Decision;Comments\n" +
		"Packaging;All;carton damaged;Fail;Refused;\n" +
		"Marking;All;missing CE mark;Fail;Refusé;Regulatory\n" +
		"Packaging;Textile;polybag warning;Fail;Accepted;Tolerated\n" +
		"Measurement;All;;Pass;To be reviewed;\n"

	nc, err := rules.LoadNC(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 4, nc.Len())

	t.Run("cause match", func(t *testing.T) {
		m := nc.Match("3 export cartons DAMAGED during transport? no: Carton damaged on pallet 2")
		require.Len(t, m, 1)
		assert.Equal(t, "carton damaged", m[0].Cause)
		assert.Equal(t, rules.OutcomeRefused, m[0].Outcome())
	})

	t.Run("family fallback", func(t *testing.T) {
		m := nc.Match("measurement deviation on handle length")
		require.Len(t, m, 1)
		assert.Equal(t, rules.OutcomeReview, m[0].Outcome())
	})

	t.Run("accepted", func(t *testing.T) {
		m := nc.Match("Polybag warning missing on 2 units")
		require.Len(t, m, 1)
		assert.Equal(t, rules.OutcomeAccepted, m[0].Outcome())
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, nc.Match("colour slightly lighter than golden sample"))
	})

	t.Run("nil table", func(t *testing.T) {
		var empty *rules.NCRules
		assert.Empty(t, empty.Match("carton damaged"))
		assert.Equal(t, 0, empty.Len())
	})
}

func TestNCOutcome(t *testing.T) {
	tests := []struct {
		decision string
		want     rules.Outcome
	}{
		{"Refused", rules.OutcomeRefused},
		{"Refusé", rules.OutcomeRefused},
		{"Bloquant", rules.OutcomeRefused},
		{"Non bloquant", rules.OutcomeAccepted},
		{"Accepted with remark", rules.OutcomeAccepted},
		{"OK", rules.OutcomeAccepted},
		{"", rules.OutcomeReview},
		{"Depends on quantity", rules.OutcomeReview},
		{"Non valide", rules.OutcomeRefused},
		{"Not acceptable", rules.OutcomeRefused},
		{"Non conforme", rules.OutcomeRefused},
		{"Non-compliant", rules.OutcomeRefused},
		{"Pas accepté", rules.OutcomeRefused},
		{"Invalide", rules.OutcomeRefused},
		{"KO", rules.OutcomeRefused},
		{"Not blocking", rules.OutcomeAccepted},
		{"Validé par le QA", rules.OutcomeAccepted},
		{"Tolerated", rules.OutcomeAccepted},
		{"Accepted, refused above 5 units", rules.OutcomeRefused},
		{"A valider", rules.OutcomeReview},
		{"À valider par le QA", rules.OutcomeReview},
		{"To be validated by buyer", rules.OutcomeReview},
		{"Check with Kodak team", rules.OutcomeReview},
		{"Booking confirmed", rules.OutcomeReview},
	}

	for _, tt := range tests {
		t.Run(tt.decision, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.NCRule{SiplecDecision: tt.decision}.Outcome())
		})
	}
}

func TestOpenNCEmptyPath(t *testing.T) {
	nc, err := rules.OpenNC("")
	require.NoError(t, err)
	assert.Equal(t, 0, nc.Len())
}

func ptr(n int) *int { return &n }
