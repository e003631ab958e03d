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

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cycamore/fcsim/decay"
	"github.com/cycamore/fcsim/material"
	"github.com/cycamore/fcsim/nuclide"
	"github.com/cycamore/fcsim/recorder"
	"github.com/cycamore/fcsim/solver"
)

// decayCmd builds a single-nuclide composition and evolves it forward
// by the given number of months, printing the resulting masses. It
// exercises the full stack (decay.Load, solver.New, material.New,
// Composition.Decay) end to end from the command line.
func decayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decay <decay-file> <nuclide> <mass-kg> <months>",
		Short: "Evolve a single-nuclide composition forward in time.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := decay.Load(args[0])
			if err != nil {
				return err
			}
			id, err := nuclide.Parse(args[1])
			if err != nil {
				return err
			}
			mass, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("fcsim: invalid mass %q: %w", args[2], err)
			}
			months, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return fmt.Errorf("fcsim: invalid months %q: %w", args[3], err)
			}

			reg := nuclide.New()
			reg.SetLogger(log)
			slv := solver.New(db)
			rec := recorder.NewLog(log)

			comp, err := material.New(map[nuclide.ID]float64{id: 1.0}, "kg", "cli", mass, material.Mass, reg, slv, rec)
			if err != nil {
				return err
			}
			if err := comp.Decay(months); err != nil {
				return err
			}

			for i := 0; i < db.N(); i++ {
				n := db.NuclideAt(i)
				if m := comp.MassOf(n); m != 0 {
					cmd.Printf("%s: %.6g kg\n", nuclide.Symbol(n), m)
				}
			}
			return nil
		},
		DisableAutoGenTag: true,
	}
}
