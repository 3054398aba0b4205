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

// Package portset compiles an ordered list of controller types, one for each
// port, into the layout of an input record. The layout is described by the
// Set type.
//
// Sets are interned by the Cache type. Two requests for the same list of
// controller types will return the same *Set and so Sets can be compared for
// equality by pointer.
package portset

import (
	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
)

// Sentinal errors.
const (
	IllegalPortTypes = "portset: illegal port types: %s in port %d"
	NoPorts          = "portset: no ports"
	InvalidLogical   = "portset: invalid logical controller: %d"
)

// Absent is the value in the index table for a control that doesn't exist.
const Absent = 0xffffffff

// Set is the compiled layout of a record for a list of controller types.
type Set struct {
	types   []controls.Descriptor
	offsets []int
	size    int

	// stride of a controller and of a port in the index table
	controllerMultiplier int
	portMultiplier       int

	// table of logical indices. absent entries have the value Absent
	table []uint32

	indices []controls.Index
	logical []controls.PortController
}

// compile the list of descriptors into a new Set.
func compile(types []controls.Descriptor, m controls.IndexMap) (*Set, error) {
	if len(types) == 0 {
		return nil, curated.Categorisedf(curated.Format, NoPorts)
	}

	for p, d := range types {
		if d == nil {
			return nil, curated.Categorisedf(curated.Format, IllegalPortTypes, "nil", p)
		}
		if !d.Legal(p) {
			return nil, curated.Categorisedf(curated.Format, IllegalPortTypes, d.Name(), p)
		}
	}

	s := &Set{
		types:                make([]controls.Descriptor, len(types)),
		offsets:              make([]int, len(types)),
		controllerMultiplier: 1,
		portMultiplier:       1,
	}
	copy(s.types, types)

	for _, d := range types {
		for _, c := range d.Controllers() {
			s.controllerMultiplier = max(s.controllerMultiplier, len(c.Controls))
		}
	}

	for _, d := range types {
		s.portMultiplier = max(s.portMultiplier, s.controllerMultiplier*len(d.Controllers()))
	}

	for p, d := range types {
		s.offsets[p] = s.size
		s.size += d.Size()
	}

	s.table = make([]uint32, s.portMultiplier*len(types))
	for i := range s.table {
		s.table[i] = Absent
	}

	s.indices = make([]controls.Index, len(m.Indices))
	copy(s.indices, m.Indices)
	s.logical = make([]controls.PortController, len(m.Logical))
	copy(s.logical, m.Logical)

	for i, idx := range s.indices {
		if !idx.Valid {
			continue
		}
		t := s.slot(idx.Port, idx.Controller, idx.Control)
		if t < 0 {
			s.indices[i].Valid = false
			continue
		}
		s.table[t] = uint32(i)
	}

	return s, nil
}

// slot returns the position in the index table of a triple or -1 if the
// triple is out of range.
func (s *Set) slot(port int, controller int, control int) int {
	if port < 0 || port >= len(s.types) {
		return -1
	}
	if controller < 0 || control < 0 || control >= s.controllerMultiplier {
		return -1
	}
	c := controller*s.controllerMultiplier + control
	if c >= s.portMultiplier {
		return -1
	}
	return port*s.portMultiplier + c
}

// Ports returns the number of ports.
func (s *Set) Ports() int {
	return len(s.types)
}

// PortType returns the descriptor for the port. Returns nil if the port is
// out of range.
func (s *Set) PortType(port int) controls.Descriptor {
	if port < 0 || port >= len(s.types) {
		return nil
	}
	return s.types[port]
}

// PortOffset returns the byte offset of the port in the record. Returns -1 if
// the port is out of range.
func (s *Set) PortOffset(port int) int {
	if port < 0 || port >= len(s.types) {
		return -1
	}
	return s.offsets[port]
}

// Types returns a copy of the list of descriptors.
func (s *Set) Types() []controls.Descriptor {
	t := make([]controls.Descriptor, len(s.types))
	copy(t, s.types)
	return t
}

// Size returns the total size of a record in bytes.
func (s *Set) Size() int {
	return s.size
}

// IndexCount returns the number of logical indices.
func (s *Set) IndexCount() int {
	return len(s.indices)
}

// ControllerMultiplier returns the stride of a controller in the index table.
func (s *Set) ControllerMultiplier() int {
	return s.controllerMultiplier
}

// PortMultiplier returns the stride of a port in the index table.
func (s *Set) PortMultiplier() int {
	return s.portMultiplier
}

// TableSize returns the number of entries in the index table.
func (s *Set) TableSize() int {
	return len(s.table)
}

// TripleToIndex returns the logical index of a control. Returns Absent if the
// control doesn't exist.
func (s *Set) TripleToIndex(port int, controller int, control int) uint32 {
	t := s.slot(port, controller, control)
	if t < 0 {
		return Absent
	}
	return s.table[t]
}

// IndexToTriple returns the control for a logical index. The Valid field of
// the returned Index will be false if the logical index is out of range.
func (s *Set) IndexToTriple(idx uint32) controls.Index {
	if int(idx) >= len(s.indices) {
		return controls.Index{}
	}
	return s.indices[idx]
}

// LogicalControllers returns the number of logical controllers.
func (s *Set) LogicalControllers() int {
	return len(s.logical)
}

// LogicalToPhysical returns the port and controller number for a logical
// controller.
func (s *Set) LogicalToPhysical(lcid int) (int, int, error) {
	if lcid < 0 || lcid >= len(s.logical) {
		return 0, 0, curated.Categorisedf(curated.Range, InvalidLogical, lcid)
	}
	return s.logical[lcid].Port, s.logical[lcid].Controller, nil
}

// Controller returns the description of a controller. The boolean value is
// false if the port or controller does not exist.
func (s *Set) Controller(port int, controller int) (controls.Controller, bool) {
	d := s.PortType(port)
	if d == nil {
		return controls.Controller{}, false
	}
	c := d.Controllers()
	if controller < 0 || controller >= len(c) {
		return controls.Controller{}, false
	}
	return c[controller], true
}
