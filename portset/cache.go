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

package portset

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/rerecord/controls"
)

type binding struct {
	types []controls.Descriptor
	set   *Set
}

// Cache interns Set instances. The cache only ever grows. Lookups of an
// existing Set never take a lock.
type Cache struct {
	// creation of new entries is serialised
	crit sync.Mutex

	// the list of bindings is never modified once stored. a new entry causes
	// a new list to be stored
	bindings atomic.Pointer[[]binding]
}

// NewCache is the preferred method of initialisation for the Cache type.
func NewCache() *Cache {
	c := &Cache{}
	c.bindings.Store(&[]binding{})
	return c
}

func (c *Cache) find(types []controls.Descriptor) *Set {
	for _, b := range *c.bindings.Load() {
		if slices.Equal(b.types, types) {
			return b.set
		}
	}
	return nil
}

// Make returns the Set for the list of descriptors, compiling it if this is
// the first request for the list. The index map is only used when a new Set
// is compiled.
func (c *Cache) Make(types []controls.Descriptor, m controls.IndexMap) (*Set, error) {
	if s := c.find(types); s != nil {
		return s, nil
	}

	c.crit.Lock()
	defer c.crit.Unlock()

	// another goroutine may have created the Set while we were waiting
	if s := c.find(types); s != nil {
		return s, nil
	}

	s, err := compile(types, m)
	if err != nil {
		return nil, err
	}

	b := *c.bindings.Load()
	n := make([]binding, len(b), len(b)+1)
	copy(n, b)
	n = append(n, binding{types: s.types, set: s})
	c.bindings.Store(&n)

	return s, nil
}

// MakeDefault is the same as Make() but the index map is created with
// controls.BuildIndexMap().
func (c *Cache) MakeDefault(types ...controls.Descriptor) (*Set, error) {
	if s := c.find(types); s != nil {
		return s, nil
	}
	return c.Make(types, controls.BuildIndexMap(types))
}

// Len returns the number of interned Sets.
func (c *Cache) Len() int {
	return len(*c.bindings.Load())
}
