package fri

// Record is the structured extraction of one FRI report.
// It is produced upstream (typically by an LLM) and treated as
// immutable input by every validation stage.
type Record struct {
	Report        ReportInfo     `json:"report"`
	Barcode       Barcode        `json:"barcode"`
	Product       Product        `json:"product"`
	SilicaGel     *SilicaGelInfo `json:"silica_gel"`
	Commands      Commands       `json:"command_informations"`
	Conclusion    Conclusion     `json:"inspection_conclusion"`
	Overall       Result         `json:"overall_inspection_conclusion"`
	Notes         Notes          `json:"notes"`
	AQL           AQL            `json:"aql"`
	ShippingMarks ShippingMarks  `json:"shipping_marks"`
}

type ReportInfo struct {
	Laboratory string `json:"laboratory"`
	IDReport   string `json:"id_report"`
	DateReport string `json:"date_report"`
}

// Barcode carries the GTIN (with its trailing grade letter) and the
// declared symbologies of the export carton and the retail packaging.
type Barcode struct {
	GTIN               string `json:"gtin"`
	ExportCarton       string `json:"export_carton"`
	FormatExportCarton string `json:"format_export_carton"`
	FormatPackaging    string `json:"format_packaging"`
}

type Product struct {
	Label             string `json:"product_label"`
	Description       string `json:"product_description"`
	SupplierLabel     string `json:"supplier_label"`
	SupplierRef       string `json:"supplier_ref"`
	ManufacturerLabel string `json:"manufacturer_label"`
}

type SilicaGelInfo struct {
	Carton           SilicaGelLocation `json:"carton"`
	Quantity         int               `json:"quantity"`
	WhiteTransparent bool              `json:"white_transparent"`
	Name             SilicaGelType     `json:"name"`
}

// Quantity pairs what was ordered with what the laboratory found on site.
type Quantity struct {
	OrderQuantity     int `json:"order_quantity"`
	OrderCarton       int `json:"order_carton"`
	PresentedQuantity int `json:"presented_quantity"`
	PresentedCarton   int `json:"presented_carton"`
}

type Command struct {
	PO       string   `json:"po"`
	LEC      string   `json:"lec"`
	Quantity Quantity `json:"quantity"`
}

type CommandTotal struct {
	PO            *string  `json:"po"`
	LEC           *string  `json:"lec"`
	TotalQuantity Quantity `json:"total_quantity"`
}

// Commands holds the order lines of the shipment. Individual commands are
// listed only when the shipment covers two or more orders; a single order
// is described by Total alone.
type Commands struct {
	Commands []Command    `json:"commands,omitempty"`
	Total    CommandTotal `json:"command_total"`
}

// Conclusion holds the laboratory's result for each inspection component.
type Conclusion struct {
	StyleMaterial  Result `json:"style_material"`
	FunctionTest   Result `json:"function_test"`
	Workmanship    Result `json:"workmanship"`
	ShippingMark   Result `json:"shipping_mark"`
	PackagingLabel Result `json:"packaging_label"`
	Measurement    Result `json:"measurement"`
	BarcodeGrade   Result `json:"barcode_grade"`
}

// Component is a named inspection component result.
type Component struct {
	Name   string
	Result Result
}

// Components lists the conclusion fields in report order.
func (c Conclusion) Components() []Component {
	return []Component{
		{"style_material", c.StyleMaterial},
		{"function_test", c.FunctionTest},
		{"workmanship", c.Workmanship},
		{"shipping_mark", c.ShippingMark},
		{"packaging_label", c.PackagingLabel},
		{"measurement", c.Measurement},
		{"barcode_grade", c.BarcodeGrade},
	}
}

// Notes buckets the free-text remarks of the report. Remarks the extractor
// could not categorize land in NCRemarks.
type Notes struct {
	NCRemarks          []string `json:"nc_remarks"`
	InformativeRemarks []string `json:"informative_remarks"`
	Notes              []string `json:"notes"`
}

type Defect struct {
	Description string `json:"defect_description"`
	Critical    int    `json:"critical"`
	Major       int    `json:"major"`
	Minor       int    `json:"minor"`
}

// Category holds the AQL tolerance values applied by the laboratory.
type Category struct {
	Critical float64 `json:"critical"`
	Major    float64 `json:"major"`
	Minor    float64 `json:"minor"`
}

// MaximumAllowed holds pre-resolved accept numbers for each severity.
type MaximumAllowed struct {
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
}

// Check is one AQL sampling inspection. OpenedCartons is only reported
// for the general check.
type Check struct {
	Level          Level           `json:"level"`
	SampleSize     int             `json:"sample_size"`
	OpenedCartons  *int            `json:"no_opened_carton,omitempty"`
	Category       Category        `json:"category"`
	MaximumAllowed *MaximumAllowed `json:"maximum_allowed,omitempty"`
	Defects        []Defect        `json:"defect_description"`
}

// DefectTotals sums defect counts by severity across all itemized defects.
func (c Check) DefectTotals() (critical, major, minor int) {
	for _, d := range c.Defects {
		critical += d.Critical
		major += d.Major
		minor += d.Minor
	}
	return critical, major, minor
}

type AQL struct {
	General Check  `json:"general_check"`
	Special *Check `json:"special_check,omitempty"`
}

type ShippingMarks struct {
	InnerCarton  string `json:"barcode_conformity_inner_carton"`
	MasterCarton string `json:"barcode_conformity_master_carton"`
}
