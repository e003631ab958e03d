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

package decay

import "gonum.org/v1/gonum/mat"

// sparseEntries is a minimal map-keyed sparse array, modeled on the
// map[int]float64-backed SparseArray the pack's teacher vendors
// (bitbucket.org/ctessum/sparse), used here to accumulate the decay
// transition matrix's entries before it is densified into a
// *mat.Dense. It exists only so assemble does
// not have to allocate an n*n dense slice while walking parent and
// daughter relations one at a time; decay matrices for real chain
// databases are overwhelmingly sparse (each column has one diagonal
// term plus a handful of daughter terms).
type sparseEntries struct {
	n    int
	vals map[[2]int]float64 // [row, col] -> value
}

func newSparseEntries(n int) *sparseEntries {
	return &sparseEntries{n: n, vals: make(map[[2]int]float64)}
}

func (s *sparseEntries) add(row, col int, v float64) {
	s.vals[[2]int{row, col}] += v
}

// dense converts the accumulated sparse entries into a dense n x n
// matrix, the one Database.Matrix returns.
func (s *sparseEntries) dense() *mat.Dense {
	d := mat.NewDense(s.n, s.n, nil)
	for rc, v := range s.vals {
		d.Set(rc[0], rc[1], v)
	}
	return d
}
