// Package checks implements the field-level business rules applied to an
// FRI extraction record. Every checker is a pure function: a business rule
// violation is reported through its return values, never as an error.
package checks

import (
	"fmt"
	"strings"
	"unicode"
)

var passingGrades = map[rune]bool{'A': true, 'B': true}

// GTINGrade reads the grade letter trailing the GTIN, case-insensitively.
// Grades A and B pass. Grades C, D, E, any other character and an empty
// GTIN fail. The trailing character is read as-is, so trailing whitespace
// fails. The returned grade is that character uppercased, or empty when
// the GTIN is empty.
func GTINGrade(gtin string) (bool, string) {
	if gtin == "" {
		return false, ""
	}

	runes := []rune(gtin)
	grade := unicode.ToUpper(runes[len(runes)-1])
	return passingGrades[grade], string(grade)
}

var formatAliases = []struct {
	expected string
	aliases  []string
}{
	{"EAN13", []string{"CODE13", "EAN13", "GTIN13"}},
	{"EAN128", []string{"CODE128", "EAN128", "GS1128"}},
}

// EANFormat reports whether the observed barcode symbology satisfies the
// expected one. Both sides are compared uppercased with spaces and hyphens
// removed; known aliases such as "Code-128" or "GS1-128" for EAN-128 also
// pass.
func EANFormat(observed, expected string) bool {
	obs := normalizeFormat(observed)
	exp := normalizeFormat(expected)
	if exp == "" {
		return false
	}

	if strings.Contains(obs, exp) {
		return true
	}

	for _, f := range formatAliases {
		if f.expected != exp {
			continue
		}
		for _, alias := range f.aliases {
			if strings.Contains(obs, alias) {
				return true
			}
		}
	}
	return false
}

func normalizeFormat(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.ToUpper(s))
}

// Quantity passes when the presented quantity equals the ordered one.
func Quantity(order, presented int) (bool, string) {
	if order == presented {
		return true, ""
	}
	return false, fmt.Sprintf("Quantity mismatch: ordered %d, presented %d", order, presented)
}

// SilicaGel passes when the desiccant is white or transparent, whatever
// its declared type.
func SilicaGel(whiteTransparent bool, name string) (bool, string) {
	if whiteTransparent {
		return true, ""
	}
	return false, fmt.Sprintf("Silica gel must be white or transparent, but it is not (type: %s)", name)
}

// ShippingMark passes when the master carton conformity text mentions four
// faces, either as the digit 4 or the word "four". The laboratory fills
// this field in free text, so the check is a substring heuristic.
func ShippingMark(master string) (bool, string) {
	if strings.Contains(master, "4") || strings.Contains(strings.ToLower(master), "four") {
		return true, ""
	}
	return false, "Master carton must have gencode on 4 main faces"
}
