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

package simconfig

import "testing"

func TestDefaults(t *testing.T) {
	Reset()
	defer Reset()
	MustInit()
	p := Params()
	if p.Epsilon != 1e-6 {
		t.Errorf("default Epsilon = %v, want 1e-6", p.Epsilon)
	}
	if p.EpsilonResource != 1e-6 {
		t.Errorf("default EpsilonResource = %v, want 1e-6", p.EpsilonResource)
	}
}

func TestOverride(t *testing.T) {
	Reset()
	defer Reset()
	Viper().Set("Epsilon", 1e-3)
	MustInit()
	if Params().Epsilon != 1e-3 {
		t.Errorf("Epsilon = %v, want 1e-3", Params().Epsilon)
	}
}

func TestPanicsBeforeInit(t *testing.T) {
	Reset()
	defer Reset()
	defer func() {
		if recover() == nil {
			t.Error("expected Params to panic before MustInit is called")
		}
	}()
	Params()
}
