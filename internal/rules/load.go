package rules

import (
	"bytes"
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

//go:embed tables/*.csv
var tables embed.FS

const (
	colLot      = "lot"
	colLevel    = "level"
	colLetter   = "letter"
	colSample   = "sample"
	colCritical = "critical"
	colMajor15  = "major15"
	colMajor25  = "major25"
	colMinor40  = "minor40"
)

var aqlHeaders = map[string]string{
	"taille du lot":          colLot,
	"lot size":               colLot,
	"lot":                    colLot,
	"level":                  colLevel,
	"niveau":                 colLevel,
	"lettre":                 colLetter,
	"letter":                 colLetter,
	"code letter":            colLetter,
	"échantillon à prélever": colSample,
	"echantillon a prelever": colSample,
	"échantillon":            colSample,
	"sample size":            colSample,
	"critical (aql 0)":       colCritical,
	"major (aql 1.5)":        colMajor15,
	"major (aql 2.5)":        colMajor25,
	"minor (aql 4.0)":        colMinor40,
	"minor (aql 4)":          colMinor40,
}

// Open builds a Table from a general and a special level CSV file.
// An empty path selects the embedded ISO 2859-1 single sampling plan
// for normal inspection.
func Open(generalPath, specialPath string) (*Table, error) {
	general, err := readSource(generalPath, "tables/aql_general.csv")
	if err != nil {
		return nil, fmt.Errorf("general table: %w", err)
	}

	special, err := readSource(specialPath, "tables/aql_special.csv")
	if err != nil {
		return nil, fmt.Errorf("special table: %w", err)
	}

	return NewTable(append(general, special...)...)
}

// Default returns the embedded ISO 2859-1 tables.
func Default() (*Table, error) {
	return Open("", "")
}

// Load parses AQL rows from CSV. The input may be UTF-8 or Latin-1 and
// may use comma or semicolon separators. Compound levels such as "S1-S4"
// produce one row per level.
func Load(r io.Reader) ([]Row, error) {
	header, records, err := readCSV(r, aqlHeaders)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{colLot, colLevel, colSample} {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("missing %s column", col)
		}
	}

	var rows []Row
	for i, rec := range records {
		line := i + 2
		cell := func(col string) string {
			idx, ok := header[col]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		lo, hi, err := ParseLotSize(cell(colLot))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		sample, err := strconv.Atoi(strings.ReplaceAll(cell(colSample), " ", ""))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid sample size %q", line, cell(colSample))
		}

		levels, err := ExpandLevels(cell(colLevel))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		for _, level := range levels {
			rows = append(rows, Row{
				LotMin:     lo,
				LotMax:     hi,
				Level:      level,
				Letter:     cell(colLetter),
				SampleSize: sample,
				Critical:   ParseAccept(cell(colCritical)),
				Major15:    ParseAccept(cell(colMajor15)),
				Major25:    ParseAccept(cell(colMajor25)),
				Minor40:    ParseAccept(cell(colMinor40)),
			})
		}
	}

	return rows, nil
}

func readSource(path, embedded string) ([]Row, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = tables.ReadFile(embedded)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data))
}

// readCSV decodes the input, detects the separator, and maps recognised
// header names to column indexes. Unknown columns are ignored.
func readCSV(r io.Reader, aliases map[string]string) (map[string]int, [][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}

	text, err := decode(raw)
	if err != nil {
		return nil, nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = separator(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty table")
	}

	header := make(map[string]int)
	for i, name := range records[0] {
		if col, ok := aliases[normalizeHeader(name)]; ok {
			if _, seen := header[col]; !seen {
				header[col] = i
			}
		}
	}

	body := records[1:]
	out := body[:0]
	for _, rec := range body {
		if !blank(rec) {
			out = append(out, rec)
		}
	}

	return header, out, nil
}

// decode returns the input as UTF-8, falling back to Latin-1 when the
// bytes are not valid UTF-8.
func decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}
	return string(out), nil
}

func separator(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func normalizeHeader(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
