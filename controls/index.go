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

import "fmt"

// Index identifies a single control by port, controller and control number.
type Index struct {
	Valid      bool
	Port       int
	Controller int
	Control    int
}

func (i Index) String() string {
	if !i.Valid {
		return "invalid"
	}
	return fmt.Sprintf("%d:%d:%d", i.Port, i.Controller, i.Control)
}

// PortController identifies a controller by port and controller number.
type PortController struct {
	Port       int
	Controller int
}

// IndexMap assigns logical numbers to controls and controllers.
type IndexMap struct {
	// every logical index, in order
	Indices []Index

	// every logical controller, in order
	Logical []PortController
}

// BuildIndexMap creates an IndexMap for a list of descriptors, one for each
// port in order. Every control that is not of the Null type is given a
// logical index. Every controller not in port 0 is given a logical
// controller number.
func BuildIndexMap(types []Descriptor) IndexMap {
	var m IndexMap

	for p, d := range types {
		for c, ctrl := range d.Controllers() {
			if p > 0 {
				m.Logical = append(m.Logical, PortController{Port: p, Controller: c})
			}
			for i, ctl := range ctrl.Controls {
				if ctl.Type == Null {
					continue
				}
				m.Indices = append(m.Indices, Index{
					Valid:      true,
					Port:       p,
					Controller: c,
					Control:    i,
				})
			}
		}
	}

	return m
}
