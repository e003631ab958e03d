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

package nuclide

// builtinTable seeds the registry with the nuclides exercised by the
// bundled decay database (decay/testdata) and the scenario tests in
// SPEC_FULL.md Sec 8. It is not meant to be an exhaustive chart of the
// nuclides; unknown nuclides fall back to an integer-mass
// approximation rather than failing, per Sec 4.1.
func builtinTable() map[int]record {
	entries := []record{
		{Z: 1, A: 1, AtomicMassGPM: 1.007825},
		{Z: 2, A: 4, AtomicMassGPM: 4.002602},
		{Z: 55, A: 137, AtomicMassGPM: 136.907089},  // Cs-137
		{Z: 56, A: 137, AtomicMassGPM: 136.905827},  // Ba-137 (stable)
		{Z: 92, A: 235, AtomicMassGPM: 235.0439299}, // U-235
		{Z: 92, A: 238, AtomicMassGPM: 238.0507882}, // U-238
		{Z: 90, A: 231, AtomicMassGPM: 231.0363043}, // Th-231
		{Z: 90, A: 234, AtomicMassGPM: 234.0436012}, // Th-234
		{Z: 91, A: 234, AtomicMassGPM: 234.0433085}, // Pa-234
		{Z: 94, A: 239, AtomicMassGPM: 239.0521634}, // Pu-239
		{Z: 95, A: 241, AtomicMassGPM: 241.0568293}, // Am-241
		{Z: 93, A: 237, AtomicMassGPM: 237.0481734}, // Np-237
		// Synthetic chain used by scenario S5 (branch split test).
		{Z: 100, A: 300, AtomicMassGPM: 300.0},
		{Z: 100, A: 301, AtomicMassGPM: 301.0}, // daughter A, branch 0.7
		{Z: 100, A: 302, AtomicMassGPM: 302.0}, // daughter B, branch 0.3
	}
	t := make(map[int]record, len(entries))
	for _, r := range entries {
		t[r.Z*1000+r.A] = r
	}
	return t
}
