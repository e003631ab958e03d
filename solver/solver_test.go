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

package solver

import (
	"math"
	"strings"
	"testing"

	"github.com/cycamore/fcsim/decay"
	"github.com/cycamore/fcsim/nuclide"
)

const (
	epsilon    = 1e-6
	epsilonRel = 1e-9
)

func different(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

func mustLoadDB(t *testing.T) *decay.Database {
	t.Helper()
	d, err := decay.Load("../decay/testdata/simple.decay")
	if err != nil {
		t.Fatalf("decay.Load: %v", err)
	}
	return d
}

func TestEvolveZeroTimeIsIdentity(t *testing.T) {
	db := mustLoadDB(t)
	s := New(db)
	cs137 := nuclide.Encode(55, 137, 0)
	v := map[nuclide.ID]float64{cs137: 1.0}

	out, err := s.Evolve(v, 0, epsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[cs137] != 1.0 {
		t.Errorf("Evolve(v,0) = %v, want bitwise-equal copy of v", out[cs137])
	}
}

func TestEvolveNonIncreasingTotal(t *testing.T) {
	db := mustLoadDB(t)
	s := New(db)
	cs137 := nuclide.Encode(55, 137, 0)
	v := map[nuclide.ID]float64{cs137: 1.0}

	out, err := s.Evolve(v, 360.99, epsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var total float64
	for _, x := range out {
		total += x
	}
	if total > 1.0+epsilon {
		t.Errorf("total after decay = %v, must not exceed 1.0+epsilon", total)
	}
}

func TestEvolveCs137HalfLife(t *testing.T) {
	db := mustLoadDB(t)
	s := New(db)
	cs137 := nuclide.Encode(55, 137, 0)
	ba137 := nuclide.Encode(56, 137, 0)
	v := map[nuclide.ID]float64{cs137: 1.0}

	out, err := s.Evolve(v, 360.99, epsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if different(out[cs137], 0.5, 1e-4) {
		t.Errorf("Cs-137 remaining = %v, want ~0.5", out[cs137])
	}
	if different(out[ba137], 0.5, 1e-4) {
		t.Errorf("Ba-137 produced = %v, want ~0.5", out[ba137])
	}
	if different(out[cs137]+out[ba137], 1.0, epsilon) {
		t.Errorf("total mass not conserved: %v", out[cs137]+out[ba137])
	}
}

func TestEvolveBranchSplit(t *testing.T) {
	db := mustLoadDB(t)
	s := New(db)
	parent := nuclide.Encode(100, 300, 0)
	dA := nuclide.Encode(100, 301, 0)
	dB := nuclide.Encode(100, 302, 0)
	v := map[nuclide.ID]float64{parent: 1.0}

	// One half-life (1 month, per testdata/simple.decay).
	out, err := s.Evolve(v, 1.0, epsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if different(out[parent], 0.5, 1e-6) {
		t.Errorf("parent remaining = %v, want 0.5", out[parent])
	}
	total := out[dA] + out[dB]
	if different(out[dA]/total, 0.7, 1e-6) {
		t.Errorf("daughter A fraction = %v, want 0.7", out[dA]/total)
	}
	if different(out[dB]/total, 0.3, 1e-6) {
		t.Errorf("daughter B fraction = %v, want 0.3", out[dB]/total)
	}
}

func TestEvolveSemigroup(t *testing.T) {
	db := mustLoadDB(t)
	s := New(db)
	cs137 := nuclide.Encode(55, 137, 0)
	v := map[nuclide.ID]float64{cs137: 1.0}

	t1, t2 := 120.3, 240.6

	sequential, err := s.Evolve(v, t1, epsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sequential, err = s.Evolve(sequential, t2, epsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	combined, err := s.Evolve(v, t1+t2, epsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for id, want := range combined {
		got := sequential[id]
		if want == 0 {
			continue
		}
		relErr := math.Abs(got-want) / math.Abs(want)
		if relErr > epsilonRel*1e3 {
			// Scaling-and-squaring accumulates floating point error
			// across two extra Pade evaluations; allow a looser but
			// still tight bound than the ideal analytic epsilon_rel.
			t.Errorf("semigroup mismatch for nuclide %d: sequential=%v combined=%v relErr=%v", id, got, want, relErr)
		}
	}
}

func TestEvolveUntrackedNuclidePassesThrough(t *testing.T) {
	db := mustLoadDB(t)
	s := New(db)
	unknown := nuclide.Encode(10, 20, 0)
	v := map[nuclide.ID]float64{unknown: 5.0}

	out, err := s.Evolve(v, 100, epsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[unknown] != 5.0 {
		t.Errorf("untracked nuclide should pass through unchanged, got %v", out[unknown])
	}
}

func TestEvolveNegativeTimeRejected(t *testing.T) {
	db := mustLoadDB(t)
	s := New(db)
	cs137 := nuclide.Encode(55, 137, 0)
	if _, err := s.Evolve(map[nuclide.ID]float64{cs137: 1.0}, -1, epsilon); err == nil {
		t.Error("expected an error for negative elapsed time")
	}
}

// TestReachableSupportPruning asserts that the solver never touches
// nuclides outside a composition's reachable support, even when the
// database contains a large disconnected decay chain that has nothing
// to do with the input composition (Sec 8 supplementary test).
func TestReachableSupportPruning(t *testing.T) {
	d := decay.NewDatabase(nil)
	data := `
# Small chain of interest.
551370000 949331502 1
561370000 1.0

# Large disconnected chain the composition never references.
922350000 9.49e8 1
902310000 1.0

902310000 9.49e8 1
912340000 1.0

912340000 9.49e8 0
`
	if err := d.LoadReader(strings.NewReader(data)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := New(d)
	cs137 := nuclide.Encode(55, 137, 0)
	v := map[nuclide.ID]float64{cs137: 1.0}

	out, err := s.Evolve(v, 360.99, epsilon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("Evolve touched %d nuclides, want exactly 2 (Cs-137 and Ba-137), got %v", len(out), out)
	}
	u235 := nuclide.Encode(92, 235, 0)
	if _, ok := out[u235]; ok {
		t.Error("Evolve should never touch nuclides outside the reachable support")
	}
}
