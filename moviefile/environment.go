// This file is part of Rerecord.
//
// Rerecord is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Rerecord is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Rerecord.  If not, see <https://www.gnu.org/licenses/>.

package moviefile

import (
	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/portset"
	"github.com/jetsetilly/rerecord/rrdata"
)

// Ledger records the rerecords of a project. The movie file only moves the
// encoded ledger in and out of the archive. It never interprets it.
type Ledger interface {
	// number of rerecords in an encoded ledger
	Count(blob []byte) int64

	// encoded form of the current ledger and the number of rerecords in it
	Write() ([]byte, int64)

	// merge an encoded ledger into the current ledger
	Read(blob []byte) error

	// start a new session for the project
	ReadBase(projectID string)

	// the project of the current session
	Project() string

	// add a rerecord to the current ledger
	AddInternal()
}

// Environment contains the tables shared by every movie in the program.
type Environment struct {
	Registry *controls.Registry
	Cache    *portset.Cache
	Ledger   Ledger
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type. The environment uses the built-in controller types and
// the reference ledger implementation.
func NewEnvironment() *Environment {
	return &Environment{
		Registry: controls.Builtin(),
		Cache:    portset.NewCache(),
		Ledger:   rrdata.NewLedger(),
	}
}

// Ports returns the layout for a movie with the named controller types in
// ports one and two.
func (env *Environment) Ports(port1 string, port2 string) (*portset.Set, error) {
	p1, err := env.Registry.LookupForPort(port1, 1)
	if err != nil {
		return nil, err
	}
	p2, err := env.Registry.LookupForPort(port2, 2)
	if err != nil {
		return nil, err
	}
	return env.Cache.MakeDefault(controls.System(), p1, p2)
}
