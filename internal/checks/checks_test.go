package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/internal/checks"
)

func TestGTINGrade(t *testing.T) {
	tests := []struct {
		gtin  string
		pass  bool
		grade string
	}{
		{"3245678901234 A", true, "A"},
		{"3245678901234a", true, "A"},
		{"3245678901234 B", true, "B"},
		{"3245678901234b", true, "B"},
		{"3245678901234 A\n", false, "\n"},
		{"3245678901234 B ", false, " "},
		{"3245678901234 C", false, "C"},
		{"3245678901234 d", false, "D"},
		{"3245678901234 E", false, "E"},
		{"3245678901234 F", false, "F"},
		{"3245678901234", false, "4"},
		{"", false, ""},
		{"   ", false, " "},
	}

	for _, tt := range tests {
		t.Run(tt.gtin, func(t *testing.T) {
			pass, grade := checks.GTINGrade(tt.gtin)
			assert.Equal(t, tt.pass, pass)
			assert.Equal(t, tt.grade, grade)
		})
	}
}

func TestEANFormat(t *testing.T) {
	tests := []struct {
		observed string
		expected string
		want     bool
	}{
		{"EAN-128", "EAN-128", true},
		{"Code-128", "EAN-128", true},
		{"GS1128", "EAN-128", true},
		{"GS1-128 (SSCC)", "EAN-128", true},
		{"ean 128", "EAN-128", true},
		{"EAN-13", "EAN-128", false},
		{"EAN-13", "EAN-13", true},
		{"GTIN-13", "EAN-13", true},
		{"code 13", "EAN-13", true},
		{"UPC-A", "EAN-13", false},
		{"", "EAN-13", false},
		{"EAN-13", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.observed+" as "+tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.want, checks.EANFormat(tt.observed, tt.expected))
		})
	}
}

func TestQuantity(t *testing.T) {
	ok, msg := checks.Quantity(5000, 5000)
	assert.True(t, ok)
	assert.Empty(t, msg)

	ok, msg = checks.Quantity(10000, 9500)
	assert.False(t, ok)
	assert.Contains(t, msg, "10000")
	assert.Contains(t, msg, "9500")
}

func TestSilicaGel(t *testing.T) {
	for _, name := range []string{"Silica Gel", "Dri Caly Micro Pak", "Calcium Chlorid"} {
		ok, msg := checks.SilicaGel(true, name)
		assert.True(t, ok, name)
		assert.Empty(t, msg)

		ok, msg = checks.SilicaGel(false, name)
		assert.False(t, ok, name)
		assert.Contains(t, msg, name)
	}
}

func TestShippingMark(t *testing.T) {
	tests := []struct {
		master string
		want   bool
	}{
		{"Gencode present on 4 faces", true},
		{"gencode on FOUR main faces", true},
		{"Four sides", true},
		{"Gencode on 2 faces", false},
		{"Conform", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.master, func(t *testing.T) {
			ok, msg := checks.ShippingMark(tt.master)
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// AQL defects
// ---------------------------------------------------------------------------

func TestAQLDefects(t *testing.T) {
	t.Run("major exceeds only", func(t *testing.T) {
		ok, ex := checks.AQLDefects(
			checks.Counts{Critical: 0, Major: 15, Minor: 5},
			checks.Limits{Critical: ptr(0), Major: ptr(10), Minor: ptr(21)},
		)
		assert.False(t, ok)
		require.Len(t, ex, 1)
		assert.Equal(t, checks.Major, ex[0].Severity)
		assert.Contains(t, ex[0].Message(), "15")
		assert.Contains(t, ex[0].Message(), "10")
	})

	t.Run("within limits", func(t *testing.T) {
		ok, ex := checks.AQLDefects(
			checks.Counts{Critical: 0, Major: 10, Minor: 21},
			checks.Limits{Critical: ptr(0), Major: ptr(10), Minor: ptr(21)},
		)
		assert.True(t, ok)
		assert.Empty(t, ex)
	})

	t.Run("every tier exceeds in order", func(t *testing.T) {
		ok, ex := checks.AQLDefects(
			checks.Counts{Critical: 1, Major: 3, Minor: 4},
			checks.Limits{Critical: ptr(0), Major: ptr(2), Minor: ptr(3)},
		)
		assert.False(t, ok)
		require.Len(t, ex, 3)
		assert.Equal(t, []checks.DefectSeverity{checks.Critical, checks.Major, checks.Minor},
			[]checks.DefectSeverity{ex[0].Severity, ex[1].Severity, ex[2].Severity})
		assert.Equal(t, "Critical defects (1) exceed AC limit (0)", ex[0].Message())
	})

	t.Run("nil limit is unbounded", func(t *testing.T) {
		ok, ex := checks.AQLDefects(
			checks.Counts{Major: 500},
			checks.Limits{Critical: ptr(0)},
		)
		assert.True(t, ok)
		assert.Empty(t, ex)
	})
}

func ptr(n int) *int { return &n }
