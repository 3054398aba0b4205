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
	"encoding/binary"
	"strconv"
	"strings"
)

// Descriptor is implemented by every controller type.
type Descriptor interface {
	// internal name. used in the movie file to identify the type
	Name() string

	// name suitable for presentation to the user
	HumanName() string

	// a number unique to the type
	ID() int

	// the number of bytes the type needs in a record
	Size() int

	// whether the type can be plugged into the numbered port
	Legal(port int) bool

	// the controllers that are plugged into a port of this type
	Controllers() []Controller

	// the value of a control. a button has the value 0 or 1. reading an
	// invalid controller or control returns 0
	Read(buf []byte, controller int, control int) int16

	// set the value of a control. a button is pressed for any non-zero
	// value. writing to an invalid controller or control does nothing
	Write(buf []byte, controller int, control int, value int16)

	// text form of the buffer
	Serialize(buf []byte) string

	// fill buffer from text. returns the number of bytes of text consumed
	Deserialize(buf []byte, text string) int
}

// field locates the storage of a single control within a buffer.
type field struct {
	typ Type

	// bit number for buttons, byte offset for axes
	pos int
}

// layout is the table driven implementation of the Descriptor interface used
// by all built-in controller types. Buttons for a controller are packed into
// bits, followed by each axis as a little-endian 16 bit value.
type layout struct {
	name      string
	humanName string
	id        int
	system    bool
	legal     func(port int) bool

	controllers []Controller

	// byte offset of each controller in the buffer
	offsets []int

	// storage of every control, indexed by controller and then by control
	fields [][]field

	size int
}

// newLayout creates a new layout. A system layout does not prefix controller
// text with the field separator.
func newLayout(name string, humanName string, id int, system bool, legal func(int) bool, controllers ...Controller) *layout {
	l := &layout{
		name:        name,
		humanName:   humanName,
		id:          id,
		system:      system,
		legal:       legal,
		controllers: controllers,
	}

	for _, c := range controllers {
		l.offsets = append(l.offsets, l.size)

		var buttons int
		for _, ctl := range c.Controls {
			if ctl.Type == Button {
				buttons++
			}
		}

		fields := make([]field, len(c.Controls))
		axis := (buttons + 7) / 8
		var bit int
		for i, ctl := range c.Controls {
			fields[i].typ = ctl.Type
			switch {
			case ctl.Type == Button:
				fields[i].pos = bit
				bit++
			case ctl.Type.IsAxis():
				fields[i].pos = axis
				axis += 2
			}
		}

		l.fields = append(l.fields, fields)
		l.size += axis
	}

	return l
}

// Name implements the Descriptor interface.
func (l *layout) Name() string {
	return l.name
}

// HumanName implements the Descriptor interface.
func (l *layout) HumanName() string {
	return l.humanName
}

// ID implements the Descriptor interface.
func (l *layout) ID() int {
	return l.id
}

// Size implements the Descriptor interface.
func (l *layout) Size() int {
	return l.size
}

// Legal implements the Descriptor interface.
func (l *layout) Legal(port int) bool {
	return l.legal(port)
}

// Controllers implements the Descriptor interface.
func (l *layout) Controllers() []Controller {
	return l.controllers
}

func (l *layout) field(controller int, control int) (field, int, bool) {
	if controller < 0 || controller >= len(l.fields) {
		return field{}, 0, false
	}
	if control < 0 || control >= len(l.fields[controller]) {
		return field{}, 0, false
	}
	return l.fields[controller][control], l.offsets[controller], true
}

// Read implements the Descriptor interface.
func (l *layout) Read(buf []byte, controller int, control int) int16 {
	f, o, ok := l.field(controller, control)
	if !ok {
		return 0
	}

	switch {
	case f.typ == Button:
		return int16(buf[o+f.pos/8]>>(f.pos%8)) & 0x01
	case f.typ.IsAxis():
		return int16(binary.LittleEndian.Uint16(buf[o+f.pos:]))
	}

	return 0
}

// Write implements the Descriptor interface.
func (l *layout) Write(buf []byte, controller int, control int, value int16) {
	f, o, ok := l.field(controller, control)
	if !ok {
		return
	}

	switch {
	case f.typ == Button:
		if value != 0 {
			buf[o+f.pos/8] |= 0x01 << (f.pos % 8)
		} else {
			buf[o+f.pos/8] &^= 0x01 << (f.pos % 8)
		}
	case f.typ.IsAxis():
		binary.LittleEndian.PutUint16(buf[o+f.pos:], uint16(value))
	}
}

// Serialize implements the Descriptor interface.
func (l *layout) Serialize(buf []byte) string {
	var s strings.Builder

	for c, ctrl := range l.controllers {
		if !l.system {
			s.WriteRune(FieldSeparator)
		}
		for i, ctl := range ctrl.Controls {
			if ctl.Type != Button {
				continue
			}
			if l.Read(buf, c, i) != 0 {
				s.WriteRune(ctl.Symbol)
			} else {
				s.WriteRune(unpressed)
			}
		}
		for i, ctl := range ctrl.Controls {
			if !ctl.Type.IsAxis() {
				continue
			}
			s.WriteRune(' ')
			s.WriteString(strconv.Itoa(int(l.Read(buf, c, i))))
		}
	}

	return s.String()
}

// Deserialize implements the Descriptor interface.
func (l *layout) Deserialize(buf []byte, text string) int {
	clear(buf[:l.size])

	var pos int

	for c, ctrl := range l.controllers {
		if !l.system {
			pos = skipToField(text, pos)
			if pos >= len(text) {
				return pos
			}

			// step over field separator
			pos++
		}

		for i, ctl := range ctrl.Controls {
			if ctl.Type != Button {
				continue
			}
			if readButton(text, &pos) {
				l.Write(buf, c, i, 1)
			}
		}
		for i, ctl := range ctrl.Controls {
			if !ctl.Type.IsAxis() {
				continue
			}
			l.Write(buf, c, i, readAxis(text, &pos))
		}
	}

	if l.system {
		pos = skipToField(text, pos)
	}

	return pos
}
