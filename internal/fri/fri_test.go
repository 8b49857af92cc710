package fri_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/fri/fritest"
)

func TestParseResult(t *testing.T) {
	for _, r := range fri.Results() {
		got, err := fri.ParseResult(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := fri.ParseResult("PASS")
	assert.Error(t, err)
}

func TestLevelKinds(t *testing.T) {
	tests := []struct {
		level   fri.Level
		general bool
		special bool
	}{
		{fri.LevelI, true, false},
		{fri.LevelII, true, false},
		{fri.LevelIII, true, false},
		{fri.LevelS1, false, true},
		{fri.LevelS4, false, true},
		{"S5", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.general, tt.level.General())
			assert.Equal(t, tt.special, tt.level.Special())
		})
	}
}

func TestConformingRecordHasNoViolations(t *testing.T) {
	rec := fritest.Conforming()
	assert.Empty(t, rec.Violations())
	assert.NoError(t, rec.Validate())
}

func TestViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fri.Record)
		field  string
	}{
		{
			name:   "missing report id",
			mutate: func(r *fri.Record) { r.Report.IDReport = " " },
			field:  "report.id_report",
		},
		{
			name: "single command duplicated in commands list",
			mutate: func(r *fri.Record) {
				r.Commands.Commands = []fri.Command{{PO: "PO-1", LEC: "L-1", Quantity: r.Commands.Total.TotalQuantity}}
			},
			field: "command_informations.commands",
		},
		{
			name:   "negative presented quantity",
			mutate: func(r *fri.Record) { r.Commands.Total.TotalQuantity.PresentedQuantity = -1 },
			field:  "command_informations.command_total.total_quantity.presented_quantity",
		},
		{
			name:   "unknown component result",
			mutate: func(r *fri.Record) { r.Conclusion.Workmanship = "ok" },
			field:  "inspection_conclusion.workmanship",
		},
		{
			name:   "unknown overall result",
			mutate: func(r *fri.Record) { r.Overall = "" },
			field:  "overall_inspection_conclusion",
		},
		{
			name:   "special level on general check",
			mutate: func(r *fri.Record) { r.AQL.General.Level = fri.LevelS2 },
			field:  "aql.general_check.level",
		},
		{
			name:   "zero sample size",
			mutate: func(r *fri.Record) { r.AQL.General.SampleSize = 0 },
			field:  "aql.general_check.sample_size",
		},
		{
			name: "general level on special check",
			mutate: func(r *fri.Record) {
				r.AQL.Special = &fri.Check{Level: fri.LevelII, SampleSize: 13}
			},
			field: "aql.special_check.level",
		},
		{
			name: "negative defect count",
			mutate: func(r *fri.Record) {
				r.AQL.General.Defects = append(r.AQL.General.Defects, fri.Defect{Description: "x", Minor: -2})
			},
			field: "aql.general_check.defect_description[2].minor",
		},
		{
			name:   "general check without opened cartons",
			mutate: func(r *fri.Record) { r.AQL.General.OpenedCartons = nil },
			field:  "aql.general_check.no_opened_carton",
		},
		{
			name:   "unknown silica gel type",
			mutate: func(r *fri.Record) { r.SilicaGel.Name = "Clay" },
			field:  "silica_gel.name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fritest.Conforming()
			tt.mutate(&rec)

			vs := rec.Violations()
			require.Len(t, vs, 1)
			assert.Equal(t, tt.field, vs[0].Field)

			err := rec.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, fri.ErrContract)
		})
	}
}

func TestMultipleCommandsAreAllowed(t *testing.T) {
	rec := fritest.Conforming()
	q := fri.Quantity{OrderQuantity: 2500, OrderCarton: 125, PresentedQuantity: 2500, PresentedCarton: 125}
	rec.Commands.Commands = []fri.Command{
		{PO: "PO-1", LEC: "L-1", Quantity: q},
		{PO: "PO-2", LEC: "L-2", Quantity: q},
	}
	assert.Empty(t, rec.Violations())
}

func TestDecode(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		want := fritest.Conforming()
		got, err := fri.Decode(fritest.JSON(t, want))
		require.NoError(t, err)
		assert.Equal(t, want, *got)
	})

	t.Run("non integer quantity", func(t *testing.T) {
		var raw map[string]any
		require.NoError(t, json.Unmarshal(fritest.JSON(t, fritest.Conforming()), &raw))
		raw["command_informations"].(map[string]any)["command_total"].(map[string]any)["total_quantity"].(map[string]any)["order_quantity"] = "5000 pcs"
		data, err := json.Marshal(raw)
		require.NoError(t, err)

		_, err = fri.Decode(data)
		require.Error(t, err)

		var ce *fri.ContractError
		require.True(t, errors.As(err, &ce))
		require.Len(t, ce.Violations, 1)
		assert.Contains(t, ce.Violations[0].Field, "order_quantity")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := fri.Decode([]byte(`{"report":`))
		assert.ErrorIs(t, err, fri.ErrContract)
	})
}

// conformingWithout returns the conforming record as JSON with the keys at
// the given dotted paths removed.
func conformingWithout(t *testing.T, paths ...string) []byte {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(fritest.JSON(t, fritest.Conforming()), &doc))

	for _, path := range paths {
		keys := strings.Split(path, ".")
		obj := doc
		for _, k := range keys[:len(keys)-1] {
			next, ok := obj[k].(map[string]any)
			require.True(t, ok, "no object at %s", k)
			obj = next
		}
		delete(obj, keys[len(keys)-1])
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

func TestDecodeMissingRequired(t *testing.T) {
	tests := []string{
		"report.date_report",
		"barcode",
		"barcode.gtin",
		"barcode.format_packaging",
		"product",
		"product.supplier_ref",
		"silica_gel.white_transparent",
		"command_informations",
		"command_informations.command_total",
		"command_informations.command_total.total_quantity",
		"command_informations.command_total.total_quantity.presented_quantity",
		"inspection_conclusion.barcode_grade",
		"notes",
		"aql.general_check.no_opened_carton",
		"aql.general_check.category.major",
		"shipping_marks",
		"shipping_marks.barcode_conformity_master_carton",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			_, err := fri.Decode(conformingWithout(t, path))
			require.Error(t, err)

			var ce *fri.ContractError
			require.True(t, errors.As(err, &ce))
			assert.Contains(t, ce.Violations, fri.Violation{Field: path, Message: "required"})
		})
	}
}

func TestDecodeReportsEveryMissingKey(t *testing.T) {
	data := conformingWithout(t,
		"command_informations",
		"product",
		"notes",
		"aql.general_check.no_opened_carton",
	)

	_, err := fri.Decode(data)
	require.Error(t, err)

	var ce *fri.ContractError
	require.True(t, errors.As(err, &ce))

	fields := make([]string, len(ce.Violations))
	for i, v := range ce.Violations {
		fields[i] = v.Field
	}
	assert.Equal(t, []string{
		"product",
		"command_informations",
		"notes",
		"aql.general_check.no_opened_carton",
	}, fields)
}

func TestDecodeNullRequired(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(fritest.JSON(t, fritest.Conforming()), &doc))
	doc["shipping_marks"] = nil
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = fri.Decode(data)
	assert.ErrorIs(t, err, fri.ErrContract)
	assert.Contains(t, err.Error(), "shipping_marks: required")
}

func TestDecodeOptionalKeys(t *testing.T) {
	rec, err := fri.Decode(conformingWithout(t,
		"silica_gel",
		"command_informations.command_total.po",
		"command_informations.command_total.lec",
		"aql.general_check.defect_description",
	))
	require.NoError(t, err)
	assert.Nil(t, rec.SilicaGel)
	assert.Nil(t, rec.Commands.Total.PO)
	assert.Empty(t, rec.AQL.General.Defects)
}

func TestDecodeMissingCommandLineKeys(t *testing.T) {
	rec := fritest.Conforming()
	q := fri.Quantity{OrderQuantity: 2500, OrderCarton: 125, PresentedQuantity: 2500, PresentedCarton: 125}
	rec.Commands.Commands = []fri.Command{
		{PO: "PO-1", LEC: "L-1", Quantity: q},
		{PO: "PO-2", LEC: "L-2", Quantity: q},
	}

	var doc map[string]any
	require.NoError(t, json.Unmarshal(fritest.JSON(t, rec), &doc))
	commands := doc["command_informations"].(map[string]any)["commands"].([]any)
	delete(commands[1].(map[string]any), "lec")
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = fri.Decode(data)
	var ce *fri.ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []fri.Violation{{Field: "command_informations.commands[1].lec", Message: "required"}}, ce.Violations)
}

func TestDefectTotals(t *testing.T) {
	check := fritest.Conforming().AQL.General
	critical, major, minor := check.DefectTotals()
	assert.Equal(t, 0, critical)
	assert.Equal(t, 2, major)
	assert.Equal(t, 5, minor)
}
