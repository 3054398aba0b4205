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

package macro

import (
	"bytes"
	"encoding/json"

	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
)

// Entry in a Descriptor. An entry with a symbol is a button that can be
// named in a macro. An entry with an action number of zero or more is part of
// that analog action. All other entries are placeholders.
type Entry struct {
	Symbol string
	Action int
}

// MarshalJSON implements the json.Marshaler interface. An entry is encoded as
// a string, a number or null.
func (e Entry) MarshalJSON() ([]byte, error) {
	switch {
	case e.Symbol != "":
		return json.Marshal(e.Symbol)
	case e.Action >= 0:
		return json.Marshal(e.Action)
	}
	return []byte("null"), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (e *Entry) UnmarshalJSON(data []byte) error {
	*e = Entry{Action: -1}

	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &e.Symbol)
	}

	return json.Unmarshal(data, &e.Action)
}

// Descriptor describes how the controls of a controller are referred to by a
// macro. There is one entry for every control of the controller.
type Descriptor []Entry

// Sentinal errors.
const (
	DescriptorAxisRange = "macro: descriptor analog action %d out of range"
)

// MakeDescriptor creates the Descriptor for a controller. Buttons with a
// macro symbol are named by that symbol. Axes are numbered by the analog
// action they belong to.
func MakeDescriptor(ctrl controls.Controller) Descriptor {
	d := make(Descriptor, len(ctrl.Controls))
	for i, ctl := range ctrl.Controls {
		d[i] = Entry{Symbol: ctl.Macro, Action: -1}
	}

	for k := range ctrl.AnalogActions() {
		x, y := ctrl.AnalogAction(k)
		if x >= 0 {
			d[x].Action = k
		}
		if y >= 0 {
			d[y].Action = k
		}
	}

	return d
}

// axisPair is the control index of the two halves of an analog action. The
// second index is -1 for a single axis.
type axisPair struct {
	x, y int
}

// compiled is the form of a descriptor used by the parser and the evaluator.
type compiled struct {
	// map of symbol to button number
	symbols map[string]int

	// control index and symbol of each button number
	buttons []int
	names   []string

	// analog actions in order
	axes []axisPair
}

func (d Descriptor) compile() (compiled, error) {
	c := compiled{
		symbols: make(map[string]int),
	}

	for i, e := range d {
		switch {
		case e.Symbol != "":
			if b, ok := c.symbols[e.Symbol]; ok {
				// a repeated symbol refers to the most recent control
				c.buttons[b] = i
				continue
			}
			c.symbols[e.Symbol] = len(c.buttons)
			c.buttons = append(c.buttons, i)
			c.names = append(c.names, e.Symbol)
		case e.Action >= 0:
			switch {
			case e.Action > len(c.axes):
				return compiled{}, curated.Categorisedf(curated.Syntax, DescriptorAxisRange, e.Action)
			case e.Action == len(c.axes):
				c.axes = append(c.axes, axisPair{x: i, y: -1})
			default:
				c.axes[e.Action].y = i
			}
		}
	}

	return c, nil
}

// match returns the button number and length of the longest symbol at the
// start of s.
func (c compiled) match(s string) (int, int, bool) {
	var btn, length int
	for sym, b := range c.symbols {
		if len(sym) > length && len(sym) <= len(s) && s[:len(sym)] == sym {
			btn = b
			length = len(sym)
		}
	}
	return btn, length, length > 0
}
