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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cycamore/fcsim/simconfig"
)

// version is the fcsim CLI's own version, independent of the go.mod
// module version.
const version = "0.1.0"

var log = logrus.StandardLogger()

// rootCmd builds the fcsim command tree, grounded on the teacher's
// inmaputil.InitializeConfig: a persistent --config flag bound to a
// viper instance, a PersistentPreRunE that resolves configuration
// before any subcommand runs, and one cobra.Command per verb.
func rootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "fcsim",
		Short: "Isotopic material model and decay engine.",
		Long: `fcsim evolves isotopic compositions forward in time under
radioactive decay. Configuration can be set via a config file (--config),
environment variables prefixed FCSIM_, or flags.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := simconfig.Viper()
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("fcsim: reading config file %s: %w", cfgFile, err)
				}
			}
			simconfig.MustInit()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a config file (YAML/TOML/JSON)")
	root.PersistentFlags().Float64("epsilon", 1e-6, "mass-conservation tolerance (kg)")
	root.PersistentFlags().Float64("epsilon-resource", 1e-6, "resource-matching tolerance")
	simconfig.Viper().BindPFlag("Epsilon", root.PersistentFlags().Lookup("epsilon"))
	simconfig.Viper().BindPFlag("EpsilonResource", root.PersistentFlags().Lookup("epsilon-resource"))

	root.AddCommand(versionCmd())
	root.AddCommand(loadCmd())
	root.AddCommand(decayCmd())
	return root
}
