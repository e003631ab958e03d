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

// Package recorder defines the outbound interface the Composition
// Object emits mutation events through (Sec 6/Sec 9), replacing the
// source's unbounded per-composition history with an injected sink.
package recorder

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Event is one mutation event: the composition's serial id, the
// timestamp of the mutation, and its totals immediately after.
type Event struct {
	CompositionSerial uint64
	Time              time.Time
	TotalMass         float64
	TotalAtoms        float64
}

// Recorder receives mutation events. It is optional; if a Composition
// has none configured, mutations proceed silently.
type Recorder interface {
	Record(e Event)
}

// Log is a Recorder that logs each event at debug level, the minimal
// concrete implementation bundled with the core (a real persistence
// backend, e.g. SQLite, is the wider simulator's concern, per Sec 1's
// Non-goals).
type Log struct {
	Logger logrus.FieldLogger
}

// NewLog returns a Log recorder. If logger is nil, logrus's standard
// logger is used.
func NewLog(logger logrus.FieldLogger) *Log {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Log{Logger: logger}
}

// Record implements Recorder.
func (l *Log) Record(e Event) {
	l.Logger.WithFields(logrus.Fields{
		"composition": e.CompositionSerial,
		"time":        e.Time,
		"total_mass":  e.TotalMass,
		"total_atoms": e.TotalAtoms,
	}).Debug("recorder: composition mutated")
}
