package validation

import (
	"fmt"
	"strconv"

	"github.com/JaimeStill/assay/internal/checks"
	"github.com/JaimeStill/assay/internal/fri"
	"github.com/JaimeStill/assay/internal/rules"
)

const (
	exportCartonFormat = "EAN-128"
	packagingFormat    = "EAN-13"
)

// Remarks reviews the free-text notes against the non-conformity rules.
// A non-conformity remark takes the most severe outcome among its matching
// rules: refused is blocking, review is a warning and accepted is info.
// An unmatched non-conformity remark is a warning. Informative remarks and
// general notes only surface, as info, when they match a refusing rule.
func Remarks(notes fri.Notes, nc *rules.NCRules) StepResult {
	s := newStep(StepRemarks)

	for i, remark := range notes.NCRemarks {
		field := fmt.Sprintf("notes.nc_remarks[%d]", i)

		matched := nc.Match(remark)
		if len(matched) == 0 {
			s.add(Warning, field, "Non-conformity remark is not covered by any NC rule", remark, "")
			continue
		}

		rule := mostSevere(matched)
		switch rule.Outcome() {
		case rules.OutcomeRefused:
			s.add(Blocking, field,
				fmt.Sprintf("Non-conformity refused by SIPLEC rule: %s", ruleName(rule)),
				remark, rule.SiplecDecision)
		case rules.OutcomeAccepted:
			s.add(Info, field,
				fmt.Sprintf("Non-conformity accepted by SIPLEC rule: %s", ruleName(rule)),
				remark, rule.SiplecDecision)
		default:
			s.add(Warning, field,
				fmt.Sprintf("Non-conformity requires review under SIPLEC rule: %s", ruleName(rule)),
				remark, rule.SiplecDecision)
		}
	}

	informational := []struct {
		bucket string
		texts  []string
	}{
		{"notes.informative_remarks", notes.InformativeRemarks},
		{"notes.notes", notes.Notes},
	}
	for _, b := range informational {
		for i, text := range b.texts {
			for _, rule := range nc.Match(text) {
				if rule.Outcome() != rules.OutcomeRefused {
					continue
				}
				s.add(Info, fmt.Sprintf("%s[%d]", b.bucket, i),
					fmt.Sprintf("Remark mentions a cause refused by SIPLEC rule: %s", ruleName(rule)),
					text, rule.SiplecDecision)
				break
			}
		}
	}

	return s.result()
}

func mostSevere(matched []rules.NCRule) rules.NCRule {
	rank := map[rules.Outcome]int{
		rules.OutcomeRefused:  2,
		rules.OutcomeReview:   1,
		rules.OutcomeAccepted: 0,
	}

	best := matched[0]
	for _, r := range matched[1:] {
		if rank[r.Outcome()] > rank[best.Outcome()] {
			best = r
		}
	}
	return best
}

func ruleName(r rules.NCRule) string {
	if r.Cause != "" {
		return r.Cause
	}
	return r.Family
}

// GeneralInfo checks the barcode grade, both barcode symbologies, the
// silica gel and the master carton shipping mark. Every failure is blocking.
func GeneralInfo(rec *fri.Record) StepResult {
	s := newStep(StepGeneral)

	if ok, grade := checks.GTINGrade(rec.Barcode.GTIN); !ok {
		msg := fmt.Sprintf("Barcode grade %s does not meet the minimum grade B", grade)
		if grade == "" {
			msg = "GTIN is missing, barcode grade cannot be read"
		}
		s.add(Blocking, "barcode.gtin", msg, rec.Barcode.GTIN, "A or B")
	}

	if !checks.EANFormat(rec.Barcode.FormatExportCarton, exportCartonFormat) {
		s.add(Blocking, "barcode.format_export_carton",
			fmt.Sprintf("Export carton barcode must be %s", exportCartonFormat),
			rec.Barcode.FormatExportCarton, exportCartonFormat)
	}

	if !checks.EANFormat(rec.Barcode.FormatPackaging, packagingFormat) {
		s.add(Blocking, "barcode.format_packaging",
			fmt.Sprintf("Packaging barcode must be %s", packagingFormat),
			rec.Barcode.FormatPackaging, packagingFormat)
	}

	if sg := rec.SilicaGel; sg != nil {
		if ok, msg := checks.SilicaGel(sg.WhiteTransparent, string(sg.Name)); !ok {
			s.add(Blocking, "silica_gel.white_transparent", msg,
				strconv.FormatBool(sg.WhiteTransparent), "true")
		}
	} else {
		s.add(Info, "silica_gel", "No silica gel reported", "", "")
	}

	if ok, msg := checks.ShippingMark(rec.ShippingMarks.MasterCarton); !ok {
		s.add(Blocking, "shipping_marks.barcode_conformity_master_carton", msg,
			rec.ShippingMarks.MasterCarton, "gencode on 4 faces")
	}

	return s.result()
}

// Quantity reconciles ordered and presented quantities. A unit mismatch is
// blocking, on the total and on each individual command. A carton count
// mismatch and individual commands that do not add up to the total are
// warnings.
func Quantity(cmds fri.Commands) StepResult {
	s := newStep(StepQuantity)

	compare := func(prefix string, q fri.Quantity) {
		if ok, msg := checks.Quantity(q.OrderQuantity, q.PresentedQuantity); !ok {
			s.add(Blocking, prefix+".presented_quantity", msg,
				strconv.Itoa(q.PresentedQuantity), strconv.Itoa(q.OrderQuantity))
		}
		if q.OrderCarton != q.PresentedCarton {
			s.add(Warning, prefix+".presented_carton",
				fmt.Sprintf("Carton count mismatch: ordered %d, presented %d", q.OrderCarton, q.PresentedCarton),
				strconv.Itoa(q.PresentedCarton), strconv.Itoa(q.OrderCarton))
		}
	}

	total := cmds.Total.TotalQuantity
	compare("command_informations.command_total.total_quantity", total)

	if len(cmds.Commands) < 2 {
		return s.result()
	}

	var sum fri.Quantity
	for i, c := range cmds.Commands {
		compare(fmt.Sprintf("command_informations.commands[%d].quantity", i), c.Quantity)
		sum.OrderQuantity += c.Quantity.OrderQuantity
		sum.PresentedQuantity += c.Quantity.PresentedQuantity
	}

	if sum.OrderQuantity != total.OrderQuantity {
		s.add(Warning, "command_informations.command_total.total_quantity.order_quantity",
			fmt.Sprintf("Ordered quantities of the commands add up to %d, total reports %d", sum.OrderQuantity, total.OrderQuantity),
			strconv.Itoa(total.OrderQuantity), strconv.Itoa(sum.OrderQuantity))
	}
	if sum.PresentedQuantity != total.PresentedQuantity {
		s.add(Warning, "command_informations.command_total.total_quantity.presented_quantity",
			fmt.Sprintf("Presented quantities of the commands add up to %d, total reports %d", sum.PresentedQuantity, total.PresentedQuantity),
			strconv.Itoa(total.PresentedQuantity), strconv.Itoa(sum.PresentedQuantity))
	}

	return s.result()
}

// Conclusion reviews each inspection component. A failing component is a
// warning and a component left in waiting is info; neither fails the step.
func Conclusion(c fri.Conclusion) StepResult {
	s := newStep(StepConclusion)

	for _, comp := range c.Components() {
		field := "inspection_conclusion." + comp.Name
		switch comp.Result {
		case fri.Fail:
			s.add(Warning, field,
				fmt.Sprintf("Inspection component %s failed", comp.Name),
				string(comp.Result), string(fri.Pass))
		case fri.InWaiting:
			s.add(Info, field,
				fmt.Sprintf("Inspection component %s is in waiting", comp.Name),
				string(comp.Result), string(fri.Pass))
		}
	}

	return s.result()
}
