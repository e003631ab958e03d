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

// Package decay loads a parent-to-daughters decay database from a
// line-oriented text file and assembles the sparse decay-transition
// matrix the solver package evaluates.
package decay

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/cycamore/fcsim/fcerr"
	"github.com/cycamore/fcsim/nuclide"
)

// secondsPerMonth rescales decay constants from inverse seconds to
// the simulator's convention of inverse months.
const secondsPerMonth = 86400 * 365.25 / 12

// branchSumTolerance is the allowed deviation of a parent's daughter
// branching ratios from 1.0.
const branchSumTolerance = 1e-3

// ParentEntry is a parent nuclide's column index in the decay matrix
// and its decay constant, in inverse months.
type ParentEntry struct {
	Col    int
	Lambda float64
}

// Daughter is one (nuclide, branching ratio) pair within a parent's
// daughter list.
type Daughter struct {
	ID     nuclide.ID
	Branch float64
}

// Database is the parent map + daughters map + assembled decay matrix
// described in Sec 3/4.2. It is a constructed value threaded through
// callers (solver.New, material constructors), not an ambient global
// (Sec 9's design note). Once loaded it is immutable for the rest of
// the process.
type Database struct {
	index          map[nuclide.ID]int
	indexToNuclide []nuclide.ID
	parents        map[nuclide.ID]ParentEntry
	daughters      map[int][]Daughter // keyed by parent column index
	matrix         *mat.Dense         // n x n, nil until loaded
	loaded         bool
	log            logrus.FieldLogger
}

// NewDatabase returns an empty, not-yet-loaded Database. If log is
// nil, logrus.StandardLogger() is used.
func NewDatabase(log logrus.FieldLogger) *Database {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Database{log: log}
}

// Load reads path and returns a fully loaded Database.
func Load(path string) (*Database, error) {
	d := NewDatabase(nil)
	if err := d.LoadFile(path); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile parses the decay data file at path into d. Calling it a
// second time on an already-loaded Database is a no-op; it logs a
// warning and returns nil, per Sec 4.2.
func (d *Database) LoadFile(path string) error {
	if d.loaded {
		d.log.WithField("path", path).Warn("decay.Database: LoadFile called on an already-loaded database; ignoring")
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fcerr.New(fcerr.IOError, "opening decay data file "+path).Wrap(err)
	}
	defer f.Close()
	return d.loadReader(f)
}

// LoadReader parses a decay data file from r, for callers that already
// have the data in memory (tests, embedded data). Subject to the same
// no-op-on-reload rule as LoadFile.
func (d *Database) LoadReader(r io.Reader) error {
	if d.loaded {
		d.log.Warn("decay.Database: LoadReader called on an already-loaded database; ignoring")
		return nil
	}
	return d.loadReader(r)
}

type rawDaughter struct {
	id     nuclide.ID
	branch float64
}

type rawParent struct {
	id        nuclide.ID
	lambda    float64
	daughters []rawDaughter
	line      int
}

func (d *Database) loadReader(r io.Reader) error {
	raw, err := parseRecords(r)
	if err != nil {
		return err
	}
	d.assemble(raw)
	d.loaded = true
	return nil
}

// parseRecords tokenizes the whitespace-delimited grammar described in
// Sec 6: a parent header line followed by exactly n_daughters daughter
// lines. Blank lines and lines starting with '#' are ignored wherever
// they occur.
func parseRecords(r io.Reader) ([]rawParent, error) {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	seen := make(map[nuclide.ID]bool)
	var records []rawParent

	nextLine := func() (string, bool) {
		for scanner.Scan() {
			lineNum++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return line, true
		}
		return "", false
	}

	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fcerr.New(fcerr.IOError, "malformed parent header").WithLine(lineNum)
		}
		parentID, err := nuclide.Parse(fields[0])
		if err != nil {
			return nil, fcerr.New(fcerr.InvalidNuclide, "parent nuclide "+fields[0]).WithLine(lineNum).Wrap(err)
		}
		if seen[parentID] {
			return nil, fcerr.New(fcerr.DuplicateParent, "parent "+fields[0]+" declared twice").WithLine(lineNum).WithNuclide(int64(parentID))
		}
		seen[parentID] = true

		halfLifeSec, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || halfLifeSec <= 0 || math.IsInf(halfLifeSec, 0) || math.IsNaN(halfLifeSec) {
			return nil, fcerr.New(fcerr.IOError, "half-life must be a finite positive number").WithLine(lineNum).Wrap(err)
		}
		nDaughters, err := strconv.Atoi(fields[2])
		if err != nil || nDaughters < 0 {
			return nil, fcerr.New(fcerr.IOError, "daughter count must be a non-negative integer").WithLine(lineNum).Wrap(err)
		}

		rp := rawParent{
			id:     parentID,
			lambda: (math.Ln2 / halfLifeSec) * secondsPerMonth,
			line:   lineNum,
		}

		var branchSum float64
		for i := 0; i < nDaughters; i++ {
			dline, ok := nextLine()
			if !ok {
				return nil, fcerr.New(fcerr.IOError, "unexpected end of file reading daughters").WithLine(lineNum)
			}
			dfields := strings.Fields(dline)
			if len(dfields) != 2 {
				return nil, fcerr.New(fcerr.IOError, "malformed daughter line").WithLine(lineNum)
			}
			daughterID, err := nuclide.Parse(dfields[0])
			if err != nil {
				return nil, fcerr.New(fcerr.InvalidNuclide, "daughter nuclide "+dfields[0]).WithLine(lineNum).Wrap(err)
			}
			branch, err := strconv.ParseFloat(dfields[1], 64)
			if err != nil {
				return nil, fcerr.New(fcerr.IOError, "malformed branching ratio").WithLine(lineNum).Wrap(err)
			}
			branchSum += branch
			rp.daughters = append(rp.daughters, rawDaughter{id: daughterID, branch: branch})
		}
		if nDaughters > 0 && math.Abs(branchSum-1.0) > branchSumTolerance {
			return nil, fcerr.New(fcerr.BranchSumInvalid, "daughter branching ratios sum to "+strconv.FormatFloat(branchSum, 'g', -1, 64)+", want 1.0").
				WithLine(rp.line).WithNuclide(int64(parentID))
		}
		records = append(records, rp)
	}
	return records, nil
}

// assemble assigns column/row indices (parents first in insertion
// order, then daughter-only nuclides in order of first appearance,
// per Sec 4.2) and builds the dense decay matrix via the sparse
// accumulator in sparse.go.
func (d *Database) assemble(raw []rawParent) {
	index := make(map[nuclide.ID]int)
	var indexToNuclide []nuclide.ID

	assign := func(id nuclide.ID) int {
		if i, ok := index[id]; ok {
			return i
		}
		i := len(indexToNuclide)
		index[id] = i
		indexToNuclide = append(indexToNuclide, id)
		return i
	}

	for _, rp := range raw {
		assign(rp.id)
	}
	for _, rp := range raw {
		for _, dt := range rp.daughters {
			assign(dt.id)
		}
	}

	n := len(indexToNuclide)
	sparse := newSparseEntries(n)
	parents := make(map[nuclide.ID]ParentEntry, len(raw))
	daughters := make(map[int][]Daughter, len(raw))

	for _, rp := range raw {
		col := index[rp.id]
		parents[rp.id] = ParentEntry{Col: col, Lambda: rp.lambda}
		sparse.add(col, col, -rp.lambda)
		for _, dt := range rp.daughters {
			row := index[dt.id]
			sparse.add(row, col, dt.branch*rp.lambda)
			daughters[col] = append(daughters[col], Daughter{ID: dt.id, Branch: dt.branch})
		}
	}

	d.index = index
	d.indexToNuclide = indexToNuclide
	d.parents = parents
	d.daughters = daughters
	d.matrix = sparse.dense()
}

// N returns the number of distinct nuclides tracked by the database
// (the dimension of the decay matrix).
func (d *Database) N() int { return len(d.indexToNuclide) }

// IndexOf returns the row/column index assigned to id and whether id
// is tracked by the database at all.
func (d *Database) IndexOf(id nuclide.ID) (int, bool) {
	i, ok := d.index[id]
	return i, ok
}

// NuclideAt returns the nuclide assigned to row/column index i.
func (d *Database) NuclideAt(i int) nuclide.ID { return d.indexToNuclide[i] }

// Parent returns the ParentEntry for id and whether id is a parent in
// this database (nuclides that are only daughters are stable as far
// as this database is concerned).
func (d *Database) Parent(id nuclide.ID) (ParentEntry, bool) {
	p, ok := d.parents[id]
	return p, ok
}

// DaughtersOf returns the daughter list for the parent nuclide
// assigned to column col.
func (d *Database) DaughtersOf(col int) []Daughter { return d.daughters[col] }

// Matrix returns the full, immutable decay matrix A. Callers should
// not mutate it. The solver does not read it: it builds its
// reachable-support submatrix from Parent and DaughtersOf.
func (d *Database) Matrix() *mat.Dense { return d.matrix }
