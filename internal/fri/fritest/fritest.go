// Package fritest provides extraction record fixtures for tests.
package fritest

import (
	"encoding/json"
	"testing"

	"github.com/JaimeStill/assay/internal/fri"
)

// Conforming returns a single-order record that satisfies every business
// rule: grade A barcode, matching quantities, conforming packaging and
// defects within the level II / 5000 units bracket.
func Conforming() fri.Record {
	opened := 20
	return fri.Record{
		Report: fri.ReportInfo{
			Laboratory: "Bureau Veritas",
			IDReport:   "FRI-2024-0042B",
			DateReport: "2024-03-18",
		},
		Barcode: fri.Barcode{
			GTIN:               "3245678901234 A",
			ExportCarton:       "13245678901231",
			FormatExportCarton: "EAN-128",
			FormatPackaging:    "EAN-13",
		},
		Product: fri.Product{
			Label:             "Cordless kettle 1.7L",
			Description:       "Stainless steel kettle",
			SupplierLabel:     "Ningbo Home Appliances",
			SupplierRef:       "NB-KT17",
			ManufacturerLabel: "Ningbo Home Appliances",
		},
		SilicaGel: &fri.SilicaGelInfo{
			Carton:           fri.LocationExport,
			Quantity:         2,
			WhiteTransparent: true,
			Name:             fri.SilicaGel,
		},
		Commands: fri.Commands{
			Total: fri.CommandTotal{
				PO:  ptr("PO-88123"),
				LEC: ptr("LEC-5521"),
				TotalQuantity: fri.Quantity{
					OrderQuantity:     5000,
					OrderCarton:       250,
					PresentedQuantity: 5000,
					PresentedCarton:   250,
				},
			},
		},
		Conclusion: fri.Conclusion{
			StyleMaterial:  fri.Pass,
			FunctionTest:   fri.Pass,
			Workmanship:    fri.Pass,
			ShippingMark:   fri.Pass,
			PackagingLabel: fri.Pass,
			Measurement:    fri.Pass,
			BarcodeGrade:   fri.Pass,
		},
		Overall: fri.Pass,
		Notes: fri.Notes{
			NCRemarks:          []string{},
			InformativeRemarks: []string{"Inspection performed at supplier warehouse"},
			Notes:              []string{},
		},
		AQL: fri.AQL{
			General: fri.Check{
				Level:         fri.LevelII,
				SampleSize:    200,
				OpenedCartons: &opened,
				Category:      fri.Category{Critical: 0, Major: 2.5, Minor: 4},
				Defects: []fri.Defect{
					{Description: "Scratch on lid", Major: 2, Minor: 3},
					{Description: "Dust inside box", Minor: 2},
				},
			},
		},
		ShippingMarks: fri.ShippingMarks{
			InnerCarton:  "Conform",
			MasterCarton: "Gencode present on 4 faces",
		},
	}
}

// Failing returns the record from Conforming with a lab result of pass but
// five blocking problems: a wrong export carton symbology, a grade D
// barcode, coloured silica gel, a quantity shortfall and too many major
// defects against inline accept numbers of 0/10/21.
func Failing() fri.Record {
	r := Conforming()
	r.Barcode.GTIN = "3245678901234 D"
	r.Barcode.FormatExportCarton = "EAN-13"
	r.SilicaGel.WhiteTransparent = false
	r.Commands.Total.TotalQuantity = fri.Quantity{
		OrderQuantity:     10000,
		OrderCarton:       500,
		PresentedQuantity: 9500,
		PresentedCarton:   475,
	}
	r.AQL.General.MaximumAllowed = &fri.MaximumAllowed{Critical: 0, Major: 10, Minor: 21}
	r.AQL.General.Defects = []fri.Defect{
		{Description: "Lid does not close", Major: 15, Minor: 5},
	}
	return r
}

func ptr[T any](v T) *T { return &v }

// JSON marshals r, failing the test on error.
func JSON(tb testing.TB, r fri.Record) []byte {
	tb.Helper()
	data, err := json.Marshal(r)
	if err != nil {
		tb.Fatalf("marshal record: %v", err)
	}
	return data
}
