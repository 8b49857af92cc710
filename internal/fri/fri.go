// Package fri defines the Final Random Inspection extraction record:
// the as-reported facts of one inspected shipment, the closed enumerations
// used throughout validation, and the contract check applied at ingestion.
package fri

import "fmt"

// Result is the outcome of an inspection component, a validation step,
// or a whole report.
type Result string

const (
	Pass      Result = "pass"
	Fail      Result = "fail"
	InWaiting Result = "in_waiting"
)

// Results returns the closed set of inspection results.
func Results() []Result {
	return []Result{Pass, Fail, InWaiting}
}

// Valid reports whether r is one of the known results.
func (r Result) Valid() bool {
	switch r {
	case Pass, Fail, InWaiting:
		return true
	}
	return false
}

// ParseResult converts s to a Result, rejecting unknown values.
func ParseResult(s string) (Result, error) {
	r := Result(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid inspection result: %q", s)
	}
	return r, nil
}

// Level is an AQL inspection level, general (I, II, III)
// or special (S1 through S4).
type Level string

const (
	LevelI   Level = "I"
	LevelII  Level = "II"
	LevelIII Level = "III"
	LevelS1  Level = "S1"
	LevelS2  Level = "S2"
	LevelS3  Level = "S3"
	LevelS4  Level = "S4"
)

// General reports whether l is a general inspection level.
func (l Level) General() bool {
	switch l {
	case LevelI, LevelII, LevelIII:
		return true
	}
	return false
}

// Special reports whether l is a special inspection level.
func (l Level) Special() bool {
	switch l {
	case LevelS1, LevelS2, LevelS3, LevelS4:
		return true
	}
	return false
}

// SilicaGelType names the desiccant found in the packaging.
// The values mirror the labels printed on laboratory report forms.
type SilicaGelType string

const (
	SilicaGel       SilicaGelType = "Silica Gel"
	DriClayMicroPak SilicaGelType = "Dri Caly Micro Pak"
	CalciumChloride SilicaGelType = "Calcium Chlorid"
)

// Valid reports whether t is a known desiccant type.
func (t SilicaGelType) Valid() bool {
	switch t {
	case SilicaGel, DriClayMicroPak, CalciumChloride:
		return true
	}
	return false
}

// SilicaGelLocation is the packaging layer holding the desiccant.
type SilicaGelLocation string

const (
	LocationExport  SilicaGelLocation = "export"
	LocationInner   SilicaGelLocation = "inner"
	LocationPackage SilicaGelLocation = "package"
)

// Valid reports whether l is a known packaging layer.
func (l SilicaGelLocation) Valid() bool {
	switch l {
	case LocationExport, LocationInner, LocationPackage:
		return true
	}
	return false
}
