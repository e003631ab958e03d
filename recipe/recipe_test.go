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

package recipe

import (
	"testing"

	"github.com/cycamore/fcsim/decay"
	"github.com/cycamore/fcsim/material"
	"github.com/cycamore/fcsim/nuclide"
	"github.com/cycamore/fcsim/simconfig"
	"github.com/cycamore/fcsim/solver"
)

func TestCompositionAdapter(t *testing.T) {
	simconfig.Reset()
	defer simconfig.Reset()
	simconfig.MustInit()

	db, err := decay.Load("../decay/testdata/simple.decay")
	if err != nil {
		t.Fatalf("decay.Load: %v", err)
	}
	reg := nuclide.New()
	slv := solver.New(db)

	u235 := nuclide.Encode(92, 235, 0)
	u238 := nuclide.Encode(92, 238, 0)
	r := Recipe{
		Name:  "natural-U",
		Basis: material.Mass,
		Total: 1.0,
		Nuclides: []Entry{
			{ID: u235, Amt: 0.00720},
			{ID: u238, Amt: 0.99280},
		},
	}

	comp, err := r.Composition(reg, slv, nil)
	if err != nil {
		t.Fatalf("Composition: %v", err)
	}
	if comp.UnitLabel() != "kg" {
		t.Errorf("UnitLabel = %q, want kg (defaulted from Mass basis)", comp.UnitLabel())
	}
	if total := comp.TotalMass(); total < 0.999 || total > 1.001 {
		t.Errorf("total mass = %v, want ~1.0", total)
	}
}

func TestCompositionAdapterRejectsZeroTotal(t *testing.T) {
	simconfig.Reset()
	defer simconfig.Reset()
	simconfig.MustInit()

	reg := nuclide.New()
	r := Recipe{Name: "empty", Basis: material.Mass}
	if _, err := r.Composition(reg, nil, nil); err == nil {
		t.Error("expected an error for a recipe with no total/scale")
	}
}
