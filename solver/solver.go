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

// Package solver evaluates exp(A*t)*v for the sparse decay-transition
// matrix A built by package decay, restricted to the reachable
// support of v, using scaling-and-squaring with an order-(6,6) Pade
// approximant (Sec 4.3).
package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cycamore/fcsim/decay"
	"github.com/cycamore/fcsim/fcerr"
	"github.com/cycamore/fcsim/nuclide"
)

// padeCoefficients are the standard order-(6,6) diagonal Pade
// coefficients for the matrix exponential (Higham, "Functions of
// Matrices", Table 10.1): c_k = (2m-k)! m! / ((2m)! k! (m-k)!), m=6.
// gonum.org/v1/gonum/mat has no expm routine, so this table is a
// literal constant rather than an imported one (see DESIGN.md).
var padeCoefficients = [7]float64{
	1.0,
	0.5,
	5.0 / 44.0,
	1.0 / 66.0,
	1.0 / 792.0,
	1.0 / 15840.0,
	1.0 / 665280.0,
}

// Solver evaluates the decay matrix exponential against composition
// vectors expressed in nuclide-id space. A is the Database's decay
// matrix; it is fixed after construction.
type Solver struct {
	db *decay.Database
}

// New returns a Solver bound to db. db must already be loaded.
func New(db *decay.Database) *Solver {
	return &Solver{db: db}
}

// Evolve computes v' = exp(A*t)*v for elapsed time t (months). Entries
// of v for nuclides absent from the database pass through unchanged
// (treated as stable). epsilon is the mass/atom-conservation tolerance
// used to clamp small negative noise to zero; entries more negative
// than that raise fcerr.SolverNonPhysical.
func (s *Solver) Evolve(v map[nuclide.ID]float64, t, epsilon float64) (map[nuclide.ID]float64, error) {
	if t < 0 {
		return nil, fcerr.New(fcerr.SolverNonPhysical, "elapsed time must be non-negative")
	}

	out := make(map[nuclide.ID]float64, len(v))
	if t == 0 {
		for id, x := range v {
			out[id] = x
		}
		return out, nil
	}

	support, untouched := s.reachableSupport(v)
	for _, id := range untouched {
		out[id] = v[id]
	}
	if len(support) == 0 {
		return out, nil
	}

	localOf := make(map[nuclide.ID]int, len(support))
	for i, id := range support {
		localOf[id] = i
	}
	n := len(support)

	ahat := mat.NewDense(n, n, nil)
	vhat := mat.NewVecDense(n, nil)
	for i, id := range support {
		vhat.SetVec(i, v[id])
		col, isParent := s.db.Parent(id)
		if !isParent {
			continue
		}
		globalCol := col.Col
		ahat.Set(i, i, -col.Lambda)
		for _, d := range s.db.DaughtersOf(globalCol) {
			j, ok := localOf[d.ID]
			if !ok {
				continue // daughter outside the requested support; unreachable by construction
			}
			cur := ahat.At(j, i)
			ahat.Set(j, i, cur+d.Branch*col.Lambda)
		}
	}

	evolved := expmV(ahat, vhat, t)

	for i, id := range support {
		x := evolved.AtVec(i)
		if x < 0 {
			if -x <= epsilon {
				x = 0
			} else {
				return nil, fcerr.New(fcerr.SolverNonPhysical, "solver produced a negative component beyond tolerance").WithNuclide(int64(id))
			}
		}
		out[id] = x
	}
	return out, nil
}

// reachableSupport returns, for the non-zero entries of v that are
// tracked by the database, the set of nuclides reachable by forward
// traversal of the daughters relation (Sec 4.3 step 1), plus the list
// of nuclides in v that are not tracked by the database at all (they
// pass through unchanged). The traversal itself is plain
// visited-set-plus-FIFO-worklist BFS over an already-specialized
// adjacency map (see DESIGN.md for why no general graph library is
// imported for this).
func (s *Solver) reachableSupport(v map[nuclide.ID]float64) (support, untouched []nuclide.ID) {
	visited := make(map[nuclide.ID]bool)
	var queue []nuclide.ID
	for id, x := range v {
		if x == 0 {
			continue
		}
		if _, ok := s.db.IndexOf(id); !ok {
			untouched = append(untouched, id)
			continue
		}
		if !visited[id] {
			visited[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		support = append(support, id)
		entry, isParent := s.db.Parent(id)
		if !isParent {
			continue
		}
		for _, d := range s.db.DaughtersOf(entry.Col) {
			if !visited[d.ID] {
				visited[d.ID] = true
				queue = append(queue, d.ID)
			}
		}
	}
	return support, untouched
}

// expmV computes exp(A*t)*v via scaling-and-squaring with an
// order-(6,6) Pade approximant, following Sec 4.3 steps 3-6.
func expmV(a *mat.Dense, v *mat.VecDense, t float64) *mat.VecDense {
	n, _ := a.Dims()

	scaled := mat.NewDense(n, n, nil)
	scaled.Scale(t, a)

	norm := infNorm(scaled)
	s := 0
	if norm > 1 {
		s = int(math.Ceil(math.Log2(norm)))
		if s < 0 {
			s = 0
		}
	}

	m := mat.NewDense(n, n, nil)
	m.Scale(1.0/math.Pow(2, float64(s)), scaled)

	r := pade66(m, n)

	// Square r a total of s times to undo the scaling.
	e := r
	for i := 0; i < s; i++ {
		sq := mat.NewDense(n, n, nil)
		sq.Mul(e, e)
		e = sq
	}

	result := mat.NewVecDense(n, nil)
	result.MulVec(e, v)
	return result
}

// pade66 evaluates the order-(6,6) diagonal Pade rational approximant
// to exp(m), solving one linear system per Sec 4.3 step 4.
func pade66(m *mat.Dense, n int) *mat.Dense {
	identity := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		identity.Set(i, i, 1)
	}

	powers := make([]*mat.Dense, 7)
	powers[0] = identity
	powers[1] = m
	for k := 2; k <= 6; k++ {
		p := mat.NewDense(n, n, nil)
		p.Mul(powers[k-1], m)
		powers[k] = p
	}

	npos := mat.NewDense(n, n, nil) // I + M/2 + c2M^2 + ...
	nneg := mat.NewDense(n, n, nil) // I - M/2 + c2M^2 - ...
	for k := 0; k <= 6; k++ {
		term := mat.NewDense(n, n, nil)
		term.Scale(padeCoefficients[k], powers[k])
		npos.Add(npos, term)
		if k%2 == 1 {
			term.Scale(-1, term)
		}
		nneg.Add(nneg, term)
	}

	r := mat.NewDense(n, n, nil)
	// exp(M) ~= D(M)^-1 N(M) with N = npos and D = nneg.
	if err := r.Solve(nneg, npos); err != nil {
		// nneg = I - M/2 + (...) is diagonally dominant for any finite M in
		// practice; a singular system here indicates a pathological
		// (effectively infinite) decay rate, which Evolve's caller
		// will never construct from a valid Database.
		panic("solver: pade66 linear system is singular: " + err.Error())
	}
	return r
}

// infNorm returns the matrix infinity norm (max absolute row sum).
func infNorm(m *mat.Dense) float64 {
	r, c := m.Dims()
	max := 0.0
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = math.Abs(m.At(i, j))
		}
		if sum := floats.Sum(row); sum > max {
			max = sum
		}
	}
	return max
}
