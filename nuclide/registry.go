/*
Copyright © 2024 the fcsim authors.
This file is part of fcsim.

fcsim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

fcsim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with fcsim.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package nuclide is the read-only table of per-nuclide physical
// constants and the identifier canonicalizer used by the rest of the
// isotopic material core.
package nuclide

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cycamore/fcsim/fcerr"
)

// ID is a canonical nuclide identifier, ZZZAAASSSS: ZZZ is atomic
// number, AAA is mass number, SSSS is an isomeric-state tag.
type ID int64

// record holds the immutable physical constants for one nuclide.
type record struct {
	Z             int
	A             int
	AtomicMassGPM float64 // atomic mass, g/mol
}

// Registry is the process-wide, read-only nuclide table. Construct it
// with New, which seeds the builtin table and a logger; the zero value
// has neither and is not ready to use.
type Registry struct {
	table map[int]record // keyed by Z*1000+A, isomeric state ignored
	log   logrus.FieldLogger
}

// New returns a Registry seeded with the builtin atomic-mass table.
func New() *Registry {
	return &Registry{table: builtinTable(), log: logrus.StandardLogger()}
}

// SetLogger overrides the logger used for the unknown-nuclide fallback
// warning.
func (r *Registry) SetLogger(l logrus.FieldLogger) { r.log = l }

var symbolPattern = regexp.MustCompile(`(?i)^([a-z]{1,2})-?(\d{1,3})([a-z]*)$`)

// elementSymbols maps element symbol (upper-case) to atomic number Z.
var elementSymbols = map[string]int{
	"H": 1, "HE": 2, "LI": 3, "BE": 4, "B": 5, "C": 6, "N": 7, "O": 8,
	"F": 9, "NE": 10, "NA": 11, "MG": 12, "AL": 13, "SI": 14, "P": 15,
	"S": 16, "CL": 17, "AR": 18, "K": 19, "CA": 20, "SC": 21, "TI": 22,
	"V": 23, "CR": 24, "MN": 25, "FE": 26, "CO": 27, "NI": 28, "CU": 29,
	"ZN": 30, "KR": 36, "SR": 38, "ZR": 40, "MO": 42, "TC": 43, "RU": 44,
	"RH": 45, "PD": 46, "AG": 47, "CD": 48, "SN": 50, "SB": 51, "TE": 52,
	"I": 53, "XE": 54, "CS": 55, "BA": 56, "LA": 57, "CE": 58, "PR": 59,
	"ND": 60, "PM": 61, "SM": 62, "EU": 63, "GD": 64, "TB": 65, "DY": 66,
	"HO": 67, "ER": 68, "TM": 69, "YB": 70, "LU": 71, "HF": 72, "TA": 73,
	"W": 74, "RE": 75, "OS": 76, "IR": 77, "PT": 78, "AU": 79, "HG": 80,
	"TL": 81, "PB": 82, "BI": 83, "PO": 84, "AT": 85, "RN": 86, "FR": 87,
	"RA": 88, "AC": 89, "TH": 90, "PA": 91, "U": 92, "NP": 93, "PU": 94,
	"AM": 95, "CM": 96, "BK": 97, "CF": 98, "ES": 99, "FM": 100,
}

// symbolByZ is the inverse of elementSymbols, used only by tests and
// diagnostics.
var symbolByZ = func() map[int]string {
	m := make(map[int]string, len(elementSymbols))
	for sym, z := range elementSymbols {
		m[z] = sym
	}
	return m
}()

// Parse canonicalizes a nuclide identifier given in canonical
// (ZZZAAASSSS), legacy (ZZAAA), or symbolic ("U-235", "u235",
// "Cs-137m") form. It fails with fcerr.InvalidNuclide for anything
// that cannot be parsed or that fails IsValid.
func Parse(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fcerr.New(fcerr.InvalidNuclide, "empty identifier")
	}

	if id, ok := parseSymbolic(raw); ok {
		if !IsValid(id) {
			return 0, fcerr.New(fcerr.InvalidNuclide, "symbol "+raw+" does not satisfy 1<=Z<=118, A>=Z").WithNuclide(int64(id))
		}
		return id, nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fcerr.New(fcerr.InvalidNuclide, "cannot parse identifier "+raw).Wrap(err)
	}
	id := CanonicalizeInt(n)
	if !IsValid(id) {
		return 0, fcerr.New(fcerr.InvalidNuclide, "identifier "+raw+" does not satisfy 1<=Z<=118, A>=Z").WithNuclide(int64(id))
	}
	return id, nil
}

func parseSymbolic(raw string) (ID, bool) {
	m := symbolPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	sym := strings.ToUpper(m[1])
	z, ok := elementSymbols[sym]
	if !ok {
		return 0, false
	}
	a, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	state := 0
	if m[3] != "" {
		// Any isomeric suffix (e.g. "m") maps to state 0001.
		state = 1
	}
	return Encode(z, a, state), true
}

// Encode builds a canonical ID from (Z, A, isomeric state).
func Encode(z, a, state int) ID {
	return ID(int64(z)*1e7 + int64(a)*1e4 + int64(state))
}

// CanonicalizeInt accepts either the canonical ZZZAAASSSS form or the
// legacy ZZAAA form (possibly zero-padded) and returns a canonical ID.
// Canonical ids are always >= 1e7 (the smallest is Z=1, A=1: 10010000),
// and legacy ZZAAA ids (Z<=118, A<=999) are always well below that, so
// the two forms never overlap; a flat "< 10000" cutoff would
// misclassify small-Z legacy ids like "1001" (H-1) as already
// canonical.
func CanonicalizeInt(n int64) ID {
	if n >= 10000000 {
		// Already canonical width; treat as canonical.
		return ID(n)
	}
	// Legacy ZZAAA: last 3 digits are A, remainder is Z.
	z := n / 1000
	a := n % 1000
	return Encode(int(z), int(a), 0)
}

// Z returns the atomic number encoded in id.
func Z(id ID) int { return int(int64(id) / 1e7) }

// A returns the mass number encoded in id.
func A(id ID) int { return int(int64(id) / 1e4 % 1e3) }

// State returns the isomeric state tag encoded in id.
func State(id ID) int { return int(int64(id) % 1e4) }

// IsValid reports whether id satisfies 1<=Z<=118 and A>=Z.
func IsValid(id ID) bool {
	z, a := Z(id), A(id)
	return z >= 1 && z <= 118 && a >= z
}

// AtomicMass returns the atomic mass in g/mol for id. If id is
// well-formed but absent from the builtin table, it falls back to the
// integer mass number as an approximation (so exotic nuclides that
// appear only in decay chains can still participate numerically) and
// logs the fallback, per the registry's recoverable-fallback policy.
func (r *Registry) AtomicMass(id ID) (float64, error) {
	if !IsValid(id) {
		return 0, fcerr.New(fcerr.InvalidNuclide, "invalid nuclide").WithNuclide(int64(id))
	}
	key := Z(id)*1000 + A(id)
	if rec, ok := r.table[key]; ok {
		return rec.AtomicMassGPM, nil
	}
	r.log.WithField("nuclide", int64(id)).Warn("nuclide.Registry: unknown nuclide, falling back to integer mass approximation")
	return float64(A(id)), nil
}

// Z returns the atomic number for id, failing if id is invalid.
func (r *Registry) Z(id ID) (int, error) {
	if !IsValid(id) {
		return 0, fcerr.New(fcerr.InvalidNuclide, "invalid nuclide").WithNuclide(int64(id))
	}
	return Z(id), nil
}

// A returns the mass number for id, failing if id is invalid.
func (r *Registry) A(id ID) (int, error) {
	if !IsValid(id) {
		return 0, fcerr.New(fcerr.InvalidNuclide, "invalid nuclide").WithNuclide(int64(id))
	}
	return A(id), nil
}

// IsValid reports whether id is a well-formed, in-range nuclide.
func (r *Registry) IsValid(id ID) bool { return IsValid(id) }

// Symbol returns a human-readable "U-235"-style symbol for id, or a
// numeric fallback if Z is not a recognized element.
func Symbol(id ID) string {
	z, a := Z(id), A(id)
	if sym, ok := symbolByZ[z]; ok {
		s := sym + "-" + strconv.Itoa(a)
		if State(id) != 0 {
			s += "m"
		}
		return s
	}
	return strconv.FormatInt(int64(id), 10)
}
