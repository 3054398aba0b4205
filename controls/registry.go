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

package controls

import (
	"sync"

	"github.com/jetsetilly/rerecord/curated"
)

// Sentinal errors for the registry.
const (
	UnknownType   = "controls: unknown controller type: %s"
	DuplicateType = "controls: controller type already registered: %s"
	IllegalPort   = "controls: %s can not be plugged into port %d"
)

// Registry is a table of controller types, looked up by name. Once a name
// has been registered it can not be replaced.
type Registry struct {
	crit  sync.RWMutex
	types map[string]Descriptor
	order []string
}

// NewRegistry is the preferred method of initialisation for the Registry
// type. The new Registry is empty.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]Descriptor),
	}
}

// Register adds a controller type to the registry.
func (r *Registry) Register(d Descriptor) error {
	r.crit.Lock()
	defer r.crit.Unlock()

	if _, ok := r.types[d.Name()]; ok {
		return curated.Errorf(DuplicateType, d.Name())
	}
	r.types[d.Name()] = d
	r.order = append(r.order, d.Name())

	return nil
}

// Lookup returns the controller type with the name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	r.crit.RLock()
	defer r.crit.RUnlock()

	d, ok := r.types[name]
	if !ok {
		return nil, curated.Categorisedf(curated.Format, UnknownType, name)
	}
	return d, nil
}

// LookupForPort is the same as Lookup() but also checks that the type can be
// plugged into the port.
func (r *Registry) LookupForPort(name string, port int) (Descriptor, error) {
	d, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !d.Legal(port) {
		return nil, curated.Categorisedf(curated.Format, IllegalPort, name, port)
	}
	return d, nil
}

// Names returns the names of all registered types in the order they were
// registered.
func (r *Registry) Names() []string {
	r.crit.RLock()
	defer r.crit.RUnlock()

	n := make([]string, len(r.order))
	copy(n, r.order)
	return n
}
