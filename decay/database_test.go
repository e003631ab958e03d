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

import (
	"strings"
	"testing"

	"github.com/cycamore/fcsim/fcerr"
	"github.com/cycamore/fcsim/nuclide"
)

func mustLoadTestdata(t *testing.T) *Database {
	t.Helper()
	d, err := Load("testdata/simple.decay")
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	return d
}

func TestLoadAssignsColumnsAndLambda(t *testing.T) {
	d := mustLoadTestdata(t)

	cs137 := nuclide.Encode(55, 137, 0)
	ba137 := nuclide.Encode(56, 137, 0)

	pe, ok := d.Parent(cs137)
	if !ok {
		t.Fatal("Cs-137 should be a parent")
	}
	if _, ok := d.Parent(ba137); ok {
		t.Error("Ba-137 should not be a parent (it is stable)")
	}
	if _, ok := d.IndexOf(ba137); !ok {
		t.Error("Ba-137 should still be indexed as a daughter-only nuclide")
	}
	if pe.Lambda <= 0 {
		t.Errorf("lambda should be positive, got %v", pe.Lambda)
	}
}

func TestLoadDuplicateParent(t *testing.T) {
	data := `
922350000 9.49e8 0
922350000 9.49e8 0
`
	d := NewDatabase(nil)
	err := d.LoadReader(strings.NewReader(data))
	if !fcerr.Is(err, fcerr.DuplicateParent) {
		t.Fatalf("expected DuplicateParent, got %v", err)
	}
}

func TestLoadBranchSumInvalid(t *testing.T) {
	// S6: daughters sum to 0.9, not 1.0.
	data := `
1003000000 2629800 2
1003010000 0.6
1003020000 0.3
`
	d := NewDatabase(nil)
	err := d.LoadReader(strings.NewReader(data))
	if !fcerr.Is(err, fcerr.BranchSumInvalid) {
		t.Fatalf("expected BranchSumInvalid, got %v", err)
	}
}

func TestReloadIsNoOp(t *testing.T) {
	d := mustLoadTestdata(t)
	n := d.N()
	if err := d.LoadFile("testdata/simple.decay"); err != nil {
		t.Fatalf("reload should be a no-op, not an error: %v", err)
	}
	if d.N() != n {
		t.Error("reload should not change the loaded database")
	}
}

func TestMatrixDiagonalNegative(t *testing.T) {
	d := mustLoadTestdata(t)
	cs137 := nuclide.Encode(55, 137, 0)
	col, _ := d.IndexOf(cs137)
	m := d.Matrix()
	if m.At(col, col) >= 0 {
		t.Errorf("diagonal entry for a decaying parent should be negative, got %v", m.At(col, col))
	}
}

func TestBlankAndCommentLinesIgnored(t *testing.T) {
	data := `
# a comment

922350000 9.49e8 0

# trailing comment
`
	d := NewDatabase(nil)
	if err := d.LoadReader(strings.NewReader(data)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.N() != 1 {
		t.Errorf("expected 1 tracked nuclide, got %d", d.N())
	}
}
