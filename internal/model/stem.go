package model

import "strings"

// Stem is one isolated instrument or vocal track.
type Stem string

const (
	StemDrums  Stem = "drums"
	StemBass   Stem = "bass"
	StemVocals Stem = "vocals"
	StemOther  Stem = "other"
)

// Stems is the fixed order in which stems are produced and exported.
var Stems = []Stem{StemDrums, StemBass, StemVocals, StemOther}

// Next returns the stem produced after s, or false for the last one.
func (s Stem) Next() (Stem, bool) {
	for i, stem := range Stems {
		if stem == s && i+1 < len(Stems) {
			return Stems[i+1], true
		}
	}
	return "", false
}

// Mode selects the separation engine.
type Mode string

const (
	ModeBasic   Mode = "basic"
	ModeComplex Mode = "complex"
)

// Label returns the menu wording for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeBasic:
		return "Basic Stem Separation"
	case ModeComplex:
		return "Complex Stem Separation"
	default:
		return string(m)
	}
}

// Title returns the mode name with an upper-case first letter.
func (m Mode) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// Platform selects path-construction conventions.
type Platform string

const (
	PlatformMac     Platform = "mac"
	PlatformWindows Platform = "windows"
)
