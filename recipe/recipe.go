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

// Package recipe gives the upstream-loader recipe shape (Sec 6) a
// concrete Go type and adapts it into material.New. Parsing the
// upstream XML/JSON/YAML representation into a Recipe is out of
// scope, same as the wider loader it replaces.
package recipe

import (
	"github.com/cycamore/fcsim/fcerr"
	"github.com/cycamore/fcsim/material"
	"github.com/cycamore/fcsim/nuclide"
	"github.com/cycamore/fcsim/recorder"
	"github.com/cycamore/fcsim/solver"
)

// Entry is one (nuclide, proportion) pair within a Recipe's nuclide list.
type Entry struct {
	ID  nuclide.ID
	Amt float64
}

// Recipe is the structured shape consumed from an upstream loader
// (Sec 6): a name, a basis, an optional unit label, an optional total
// (scale), and the nuclide proportions themselves.
type Recipe struct {
	Name      string
	Basis     material.Basis
	UnitLabel string
	Total     float64
	Nuclides  []Entry
}

// Composition adapts r into a *material.Composition via material.New.
// If r.Total is zero, it fails with fcerr.InvalidNuclide since a
// recipe with no scale cannot be normalized into an absolute quantity.
func (r Recipe) Composition(registry *nuclide.Registry, slv *solver.Solver, rec recorder.Recorder) (*material.Composition, error) {
	if r.Total == 0 {
		return nil, fcerr.New(fcerr.InvalidNuclide, "recipe "+r.Name+" has no total/scale")
	}
	compMap := make(map[nuclide.ID]float64, len(r.Nuclides))
	for _, e := range r.Nuclides {
		compMap[e.ID] += e.Amt
	}
	unitLabel := r.UnitLabel
	if unitLabel == "" {
		if r.Basis == material.Mass {
			unitLabel = "kg"
		} else {
			unitLabel = "atom"
		}
	}
	return material.New(compMap, unitLabel, r.Name, r.Total, r.Basis, registry, slv, rec)
}
