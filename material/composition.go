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

// Package material implements the Composition Object (Sec 4.4): a bag
// of isotopes with dual atom-count/mass accounting, add/subtract/
// split/normalize/decay operations, and the conservation invariants
// the rest of the core depends on.
package material

import (
	"sync/atomic"
	"time"

	"github.com/cycamore/fcsim/fcerr"
	"github.com/cycamore/fcsim/nuclide"
	"github.com/cycamore/fcsim/recorder"
	"github.com/cycamore/fcsim/simconfig"
	"github.com/cycamore/fcsim/solver"
)

// avogadroNumber converts atomic mass (g/mol) to mass per atom (g).
const avogadroNumber = 6.02214076e23

// secondsPerMonth mirrors decay.secondsPerMonth's convention for
// translating wall-clock elapsed time into the simulator's months,
// used by DecayNow.
const secondsPerMonth = 86400 * 365.25 / 12

// Basis selects the unit a constructor's scale argument is given in.
type Basis int

const (
	// Mass means scale is a total mass in kilograms.
	Mass Basis = iota
	// Atoms means scale is a total atom count.
	Atoms
)

func (b Basis) String() string {
	switch b {
	case Mass:
		return "mass"
	case Atoms:
		return "atom"
	default:
		return "unknown"
	}
}

var serialCounter atomic.Uint64

func nextSerial() uint64 { return serialCounter.Add(1) }

// Composition is the user-facing bag of isotopes. Canonical storage is
// atom counts (Sec 9's design-note preference); mass is derived from
// the registry on every query rather than cached, so basis consistency
// (Sec 8 property 1) holds by construction instead of needing a
// separate rationalize pass after each mutation.
//
// Composition is not safe for concurrent mutation (Sec 5); reads are
// safe absent a concurrent writer.
type Composition struct {
	serial      uint64
	name        string
	unitLabel   string
	atoms       map[nuclide.ID]float64
	registry    *nuclide.Registry
	solver      *solver.Solver
	rec         recorder.Recorder
	lastTouched time.Time
}

// massPerAtomKg returns the mass of a single atom of id, in kilograms.
func massPerAtomKg(registry *nuclide.Registry, id nuclide.ID) (float64, error) {
	gpm, err := registry.AtomicMass(id)
	if err != nil {
		return 0, err
	}
	return gpm / avogadroNumber / 1000.0, nil
}

// normalize divides m by the larger of its sum and epsilon, so
// normalizing an empty or all-zero map yields an empty map rather than
// dividing by zero (Sec 4.4).
func normalize(m map[nuclide.ID]float64, epsilon float64) map[nuclide.ID]float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	denom := sum
	if epsilon > denom {
		denom = epsilon
	}
	out := make(map[nuclide.ID]float64, len(m))
	for id, v := range m {
		out[id] = v / denom
	}
	return out
}

// NewEmpty returns an empty composition in the `empty` state (Sec
// 4.4's state machine). registry and slv are shared, process-wide
// handles; rec may be nil. Panics if simconfig.MustInit has not yet
// been called, per Sec 6.
func NewEmpty(registry *nuclide.Registry, slv *solver.Solver, unitLabel, name string, rec recorder.Recorder) *Composition {
	simconfig.Params()
	return &Composition{
		serial:      nextSerial(),
		name:        name,
		unitLabel:   unitLabel,
		atoms:       make(map[nuclide.ID]float64),
		registry:    registry,
		solver:      slv,
		rec:         rec,
		lastTouched: time.Now(),
	}
}

// New builds a populated composition from compMap (proportions, not
// required to already sum to 1), normalizing it and then scaling by
// scale, interpreted as a total mass in kg if basis is Mass, or a
// total atom count if basis is Atoms (Sec 4.4).
func New(compMap map[nuclide.ID]float64, unitLabel, name string, scale float64, basis Basis, registry *nuclide.Registry, slv *solver.Solver, rec recorder.Recorder) (*Composition, error) {
	eps := simconfig.Params().Epsilon
	normalized := normalize(compMap, eps)

	atoms := make(map[nuclide.ID]float64, len(normalized))
	for id, frac := range normalized {
		scaled := frac * scale
		if basis == Atoms {
			atoms[id] = scaled
			continue
		}
		massPerAtom, err := massPerAtomKg(registry, id)
		if err != nil {
			return nil, err
		}
		atoms[id] = scaled / massPerAtom
	}

	c := &Composition{
		serial:      nextSerial(),
		name:        name,
		unitLabel:   unitLabel,
		atoms:       atoms,
		registry:    registry,
		solver:      slv,
		rec:         rec,
		lastTouched: time.Now(),
	}
	c.emit()
	return c, nil
}

func (c *Composition) emit() {
	if c.rec == nil {
		return
	}
	c.rec.Record(recorder.Event{
		CompositionSerial: c.serial,
		Time:              c.lastTouched,
		TotalMass:         c.TotalMass(),
		TotalAtoms:        c.TotalAtoms(),
	})
}

// Serial returns the composition's process-unique serial id.
func (c *Composition) Serial() uint64 { return c.serial }

// Name returns the recipe/owner name the composition was constructed with.
func (c *Composition) Name() string { return c.name }

// UnitLabel returns the composition's unit label.
func (c *Composition) UnitLabel() string { return c.unitLabel }

// TotalAtoms returns the sum of atom counts over every tracked nuclide.
func (c *Composition) TotalAtoms() float64 {
	var sum float64
	for _, a := range c.atoms {
		sum += a
	}
	return sum
}

// TotalMass returns the total mass in kg, derived from the canonical
// atom counts via the registry.
func (c *Composition) TotalMass() float64 {
	var sum float64
	for id, a := range c.atoms {
		m, err := massPerAtomKg(c.registry, id)
		if err != nil {
			continue // unreachable: ids stored in atoms were already validated on entry
		}
		sum += a * m
	}
	return sum
}

// AtomsOf returns the atom count of nuclide id, or 0 if absent.
func (c *Composition) AtomsOf(id nuclide.ID) float64 { return c.atoms[id] }

// MassOf returns the mass in kg of nuclide id, or 0 if absent.
func (c *Composition) MassOf(id nuclide.ID) float64 {
	a, ok := c.atoms[id]
	if !ok {
		return 0
	}
	m, err := massPerAtomKg(c.registry, id)
	if err != nil {
		return 0
	}
	return a * m
}

// MassOfElement returns the mass in kg summed over every isotope of
// atomic number z.
func (c *Composition) MassOfElement(z int) float64 {
	var sum float64
	for id, a := range c.atoms {
		if nuclide.Z(id) != z {
			continue
		}
		m, err := massPerAtomKg(c.registry, id)
		if err != nil {
			continue
		}
		sum += a * m
	}
	return sum
}

// IsEmpty reports whether the composition is in the `empty` state
// (Sec 4.4): total atoms below the configured conservation tolerance.
func (c *Composition) IsEmpty() bool {
	return c.TotalAtoms() < simconfig.Params().Epsilon
}

// Fraction returns a new, independently owned composition holding a
// fraction f of self's atoms for every tracked nuclide, leaving self
// unmodified: a pure query (Sec 4.4), not a mutation.
func (c *Composition) Fraction(f float64) *Composition {
	atoms := make(map[nuclide.ID]float64, len(c.atoms))
	for id, a := range c.atoms {
		atoms[id] = a * f
	}
	return &Composition{
		serial:      nextSerial(),
		name:        c.name,
		unitLabel:   c.unitLabel,
		atoms:       atoms,
		registry:    c.registry,
		solver:      c.solver,
		rec:         c.rec,
		lastTouched: c.lastTouched,
	}
}

// Change adjusts the atom count of nuclide id by deltaAtoms (which may
// be negative) at the given timestamp, re-deriving mass on the next
// query. Entries whose magnitude falls below epsilon are treated as
// zero; driving an entry below -epsilon fails with
// fcerr.ConservationViolated (Sec 4.4).
func (c *Composition) Change(id nuclide.ID, deltaAtoms float64, at time.Time) error {
	eps := simconfig.Params().Epsilon
	massPerAtom, err := massPerAtomKg(c.registry, id)
	if err != nil {
		return err
	}

	newAtoms := c.atoms[id] + deltaAtoms
	newMass := newAtoms * massPerAtom
	if newMass < -eps {
		return fcerr.New(fcerr.ConservationViolated, "change would drive nuclide below -epsilon").WithNuclide(int64(id))
	}
	if newMass < eps {
		newAtoms = 0
	}

	if newAtoms == 0 {
		delete(c.atoms, id)
	} else {
		c.atoms[id] = newAtoms
	}
	c.lastTouched = at
	c.emit()
	return nil
}

// Absorb adds every nuclide's atoms from other into c; other is left
// logically empty (Sec 4.4). Requires matching unit labels.
func (c *Composition) Absorb(other *Composition) error {
	if c.unitLabel != other.unitLabel {
		return fcerr.New(fcerr.UnitMismatch, "absorb requires matching unit labels")
	}
	now := time.Now()
	for id, a := range other.atoms {
		c.atoms[id] += a
	}
	other.atoms = make(map[nuclide.ID]float64)
	c.lastTouched = now
	other.lastTouched = now
	c.emit()
	other.emit()
	return nil
}

// Extract subtracts other's atom counts from c. Every nuclide in other
// must be present in c with at least the requested amount minus
// epsilon, else fcerr.InsufficientInventory (Sec 4.4). Requires
// matching unit labels. other is left unmodified.
func (c *Composition) Extract(other *Composition) error {
	if c.unitLabel != other.unitLabel {
		return fcerr.New(fcerr.UnitMismatch, "extract requires matching unit labels")
	}
	eps := simconfig.Params().Epsilon
	for id, requested := range other.atoms {
		massPerAtom, err := massPerAtomKg(c.registry, id)
		if err != nil {
			return err
		}
		have := c.atoms[id]
		if have*massPerAtom < requested*massPerAtom-eps {
			return fcerr.New(fcerr.InsufficientInventory, "extract requests more than is present").WithNuclide(int64(id))
		}
		remaining := have - requested
		if remaining*massPerAtom < eps {
			remaining = 0
		}
		if remaining == 0 {
			delete(c.atoms, id)
		} else {
			c.atoms[id] = remaining
		}
	}
	c.lastTouched = time.Now()
	c.emit()
	return nil
}

// ExtractMass produces a new, independently owned composition with
// mass m and the same normalized composition as c, decrementing c by
// m (Sec 4.4, value semantics per Sec 9's Open Question resolution).
// Fails with fcerr.InsufficientInventory if m exceeds c's total mass
// by more than epsilon.
func (c *Composition) ExtractMass(m float64) (*Composition, error) {
	eps := simconfig.Params().Epsilon
	total := c.TotalMass()
	if m > total+eps {
		return nil, fcerr.New(fcerr.InsufficientInventory, "extract_mass requests more than total_mass_kg")
	}

	var fraction float64
	if total > eps {
		fraction = m / total
	}

	now := time.Now()
	extracted := make(map[nuclide.ID]float64, len(c.atoms))
	for id, a := range c.atoms {
		taken := a * fraction
		extracted[id] = taken
		remaining := a - taken
		if remaining == 0 {
			delete(c.atoms, id)
		} else {
			c.atoms[id] = remaining
		}
	}

	newComp := &Composition{
		serial:      nextSerial(),
		name:        c.name,
		unitLabel:   c.unitLabel,
		atoms:       extracted,
		registry:    c.registry,
		solver:      c.solver,
		rec:         c.rec,
		lastTouched: now,
	}
	c.lastTouched = now
	c.emit()
	newComp.emit()
	return newComp, nil
}

// Decay delegates to the Decay Solver with c's atom vector and the
// given elapsed months, replacing the atom map with the result (Sec
// 4.4).
//
// solver.Evolve's clamp/error threshold is compared directly against
// atom-count residuals, but epsilon is denominated in kg (Sec 6); at
// the atom-count scale (~1e23-1e24 per S1) a raw kg-sized epsilon is
// many orders of magnitude too tight and would either clamp nothing or
// spuriously raise fcerr.SolverNonPhysical on ordinary floating-point
// noise. Rescale it into atom-count units the same way Change and
// Extract convert atoms to mass before comparing against epsilon,
// using this composition's own average mass per atom.
func (c *Composition) Decay(months float64) error {
	v := make(map[nuclide.ID]float64, len(c.atoms))
	for id, a := range c.atoms {
		v[id] = a
	}

	eps := simconfig.Params().Epsilon
	epsAtoms := eps
	if totalMass := c.TotalMass(); totalMass > eps {
		epsAtoms = eps * c.TotalAtoms() / totalMass
	}

	out, err := c.solver.Evolve(v, months, epsAtoms)
	if err != nil {
		return err
	}

	for id, a := range out {
		if a == 0 {
			delete(out, id)
		}
	}
	c.atoms = out
	c.lastTouched = time.Now()
	c.emit()
	return nil
}

// DecayNow computes the elapsed months since the last mutation and
// invokes Decay with it (Sec 4.4's argument-less decay()), using the
// composition's single retained mutation timestamp in place of the
// unbounded history the original kept (Sec 9).
func (c *Composition) DecayNow() error {
	months := time.Since(c.lastTouched).Seconds() / secondsPerMonth
	return c.Decay(months)
}
