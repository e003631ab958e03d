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

// Package simconfig holds the simulation-wide parameters the core
// reads at the start of each public operation (Sec 6): the mass
// conservation tolerance epsilon and the resource-matching tolerance
// epsilon_resource. It wraps github.com/spf13/viper the way the
// teacher's inmaputil.Cfg wraps it, so values can come from a config
// file, FCSIM_-prefixed environment variables, or flags.
package simconfig

import (
	"fmt"
	"sync"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Values is the frozen snapshot of simulation-wide parameters read by
// the core.
type Values struct {
	// Epsilon is the mass-conservation tolerance (kg); quantities
	// below it are treated as zero.
	Epsilon float64
	// EpsilonResource is the tolerance used by the wider simulator's
	// resource/market matching; the core accepts and forwards it but
	// does not interpret it itself.
	EpsilonResource float64
}

var (
	mu      sync.RWMutex
	current *Values
	v       = newViper()
)

func newViper() *viper.Viper {
	vp := viper.New()
	vp.SetEnvPrefix("FCSIM")
	vp.AutomaticEnv()
	vp.SetDefault("Epsilon", 1e-6)
	vp.SetDefault("EpsilonResource", 1e-6)
	return vp
}

// Viper exposes the underlying *viper.Viper so callers (e.g. cmd/fcsim)
// can bind flags or read a config file before calling MustInit.
func Viper() *viper.Viper { return v }

// MustInit freezes the process-wide parameters from the current viper
// state. It must be called before the first material.Composition is
// created; Params panics if called first, since an unset epsilon is a
// programming error, not a recoverable runtime condition (Sec 6).
func MustInit() {
	mu.Lock()
	defer mu.Unlock()
	eps, err := cast.ToFloat64E(v.Get("Epsilon"))
	if err != nil {
		panic(fmt.Sprintf("simconfig: invalid Epsilon: %v", err))
	}
	epsRes, err := cast.ToFloat64E(v.Get("EpsilonResource"))
	if err != nil {
		panic(fmt.Sprintf("simconfig: invalid EpsilonResource: %v", err))
	}
	current = &Values{Epsilon: eps, EpsilonResource: epsRes}
}

// Reset clears the frozen parameters and the underlying viper state.
// It exists for test isolation; production callers should not need it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	v = newViper()
	current = nil
}

// Params returns the process-wide parameters, panicking if MustInit
// has not yet been called.
func Params() *Values {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		panic("simconfig: Params called before MustInit; simulation-wide parameters must be set before the first composition is created")
	}
	return current
}
