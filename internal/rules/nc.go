package rules

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Outcome is the effect a non-conformity rule has on a report.
type Outcome string

const (
	// OutcomeRefused marks a non-conformity that fails the report.
	OutcomeRefused Outcome = "refused"
	// OutcomeAccepted marks a non-conformity tolerated by SIPLEC.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeReview marks a non-conformity without a settled decision.
	OutcomeReview Outcome = "review"
)

// NCRule is one row of the non-conformity decision table.
type NCRule struct {
	Family          string `json:"family" yaml:"family"`
	ProductCategory string `json:"product_category" yaml:"product_category"`
	Cause           string `json:"cause" yaml:"cause"`
	LabDecision     string `json:"lab_decision" yaml:"lab_decision"`
	SiplecDecision  string `json:"siplec_decision" yaml:"siplec_decision"`
	Comments        string `json:"comments" yaml:"comments"`
}

// Outcome interprets the SIPLEC decision text of the rule. Pending
// phrasings such as "à valider" are a review. A negation flips the word
// that follows it, so "non bloquant" is accepted and "not acceptable" is
// refused. Any refusal outweighs an acceptance.
func (r NCRule) Outcome() Outcome {
	words := tokenize(r.SiplecDecision)
	if pending(words) {
		return OutcomeReview
	}

	var refused, accepted bool
	for i := 0; i < len(words); i++ {
		word := words[i]
		negated := slices.Contains(negations, word) && i+1 < len(words)
		if negated {
			i++
			word = words[i]
		}

		switch outcome := classify(word); {
		case outcome == "":
		case (outcome == OutcomeRefused) != negated:
			refused = true
		default:
			accepted = true
		}
	}

	switch {
	case refused:
		return OutcomeRefused
	case accepted:
		return OutcomeAccepted
	}
	return OutcomeReview
}

var negations = []string{"non", "not", "no", "pas", "never", "jamais"}

var pendingPhrases = [][]string{
	{"a", "valider"},
	{"a", "confirmer"},
	{"a", "voir"},
	{"to", "validate"},
	{"to", "be", "validated"},
	{"to", "confirm"},
	{"to", "be", "confirmed"},
	{"en", "attente"},
	{"cas", "par", "cas"},
	{"case", "by", "case"},
	{"pending"},
	{"tbc"},
	{"tbd"},
}

var (
	refusedPrefixes  = []string{"refus", "reject", "rejet", "bloqu", "block", "fail", "echec"}
	refusedWords     = []string{"ko", "nok", "invalid", "invalide", "invalidated", "unacceptable", "inacceptable", "nonconform", "nonconforme", "noncompliant"}
	acceptedPrefixes = []string{"accept", "toler", "conform", "compliant"}
	acceptedWords    = []string{"ok", "pass", "passed", "valid", "valide", "validee", "validated", "approved", "approuve"}
)

func classify(word string) Outcome {
	if slices.Contains(refusedWords, word) || hasAnyPrefix(word, refusedPrefixes) {
		return OutcomeRefused
	}
	if slices.Contains(acceptedWords, word) || hasAnyPrefix(word, acceptedPrefixes) {
		return OutcomeAccepted
	}
	return ""
}

func pending(words []string) bool {
	for _, phrase := range pendingPhrases {
		for i := 0; i+len(phrase) <= len(words); i++ {
			if slices.Equal(words[i:i+len(phrase)], phrase) {
				return true
			}
		}
	}
	return false
}

// tokenize lowercases s, strips diacritics and splits it into words.
func tokenize(s string) []string {
	s = strings.ToLower(s)
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// NCRules is the non-conformity decision table. A nil *NCRules is an
// empty table.
type NCRules struct {
	rules []NCRule
}

var ncHeaders = map[string]string{
	"family of non compliance":  "family",
	"famille de non conformité": "family",
	"famille_non_conformite":    "family",
	"product category":          "category",
	"catégorie produit":         "category",
	"categorie_produit":         "category",
	"cause of non-compliance":   "cause",
	"cause de non conformité":   "cause",
	"cause_non_conformite":      "cause",
	"laboratory validation":     "lab",
	"labaroatory validation":    "lab",
	"décision laboratoire":      "lab",
	"decision_laboratoire":      "lab",
	"siplec decision":           "siplec",
	"décision siplec":           "siplec",
	"decision_siplec":           "siplec",
	"comments":                  "comments",
	"commentaires":              "comments",
}

// NewNCRules builds a table from rules in priority order.
func NewNCRules(rules ...NCRule) *NCRules {
	return &NCRules{rules: rules}
}

// OpenNC loads the decision table at path. An empty path yields an empty table.
func OpenNC(path string) (*NCRules, error) {
	if path == "" {
		return NewNCRules(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nc rules: %w", err)
	}
	defer f.Close()

	return LoadNC(f)
}

// LoadNC parses the decision table from CSV with the same encoding and
// separator tolerance as Load.
func LoadNC(r io.Reader) (*NCRules, error) {
	header, records, err := readCSV(r, ncHeaders)
	if err != nil {
		return nil, err
	}

	if _, ok := header["cause"]; !ok {
		return nil, fmt.Errorf("missing cause column")
	}
	if _, ok := header["siplec"]; !ok {
		return nil, fmt.Errorf("missing siplec decision column")
	}

	rules := make([]NCRule, 0, len(records))
	for _, rec := range records {
		cell := func(col string) string {
			idx, ok := header[col]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		rules = append(rules, NCRule{
			Family:          cell("family"),
			ProductCategory: cell("category"),
			Cause:           cell("cause"),
			LabDecision:     cell("lab"),
			SiplecDecision:  cell("siplec"),
			Comments:        cell("comments"),
		})
	}

	return NewNCRules(rules...), nil
}

// Len returns the number of rules.
func (n *NCRules) Len() int {
	if n == nil {
		return 0
	}
	return len(n.rules)
}

// Match returns the rules whose cause appears in remark, in table order.
// When no cause matches, rules whose family appears in remark are returned.
// Matching is case-insensitive.
func (n *NCRules) Match(remark string) []NCRule {
	if n == nil {
		return nil
	}

	text := strings.ToLower(remark)

	var matched []NCRule
	for _, r := range n.rules {
		if cause := strings.ToLower(r.Cause); cause != "" && strings.Contains(text, cause) {
			matched = append(matched, r)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	for _, r := range n.rules {
		if family := strings.ToLower(r.Family); family != "" && strings.Contains(text, family) {
			matched = append(matched, r)
		}
	}
	return matched
}
