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

// Type of a single control.
type Type int

// List of valid Type values.
const (
	// a placeholder with no storage
	Null Type = iota

	// a digital input. stored as a single bit
	Button

	// an absolute axis. axes are paired for the purposes of analog actions
	Axis

	// a relative axis (eg. mouse movement). paired the same way as Axis
	RelativeAxis

	// an axis that is never paired with another (eg. a throttle)
	SingleAxis
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Button:
		return "button"
	case Axis:
		return "axis"
	case RelativeAxis:
		return "relative axis"
	case SingleAxis:
		return "single axis"
	}
	return "unknown"
}

// IsAxis returns true if the control type is any of the axis types.
func (t Type) IsAxis() bool {
	return t == Axis || t == RelativeAxis || t == SingleAxis
}

// Control describes one button or axis of a controller.
type Control struct {
	Type Type

	// symbol used when displaying or serialising a pressed button
	Symbol rune

	// human readable name
	Name string

	// symbol used to refer to the button in a macro expression. an empty
	// string means that the button can not be used in a macro
	Macro string

	// range of an axis and whether the axis has a centre position. the
	// range is inclusive
	Min     int16
	Max     int16
	Centers bool

	// shadow controls are not offered as analog actions
	Shadow bool
}

// Controller is a list of controls. A port can have zero or more controllers
// plugged into it.
type Controller struct {
	// class is the general class of the controller (eg. "gamepad") and type
	// is the specific variant (eg. "gamepad16")
	Class string
	Type  string

	Controls []Control
}

// AnalogActions returns the number of analog actions the controller
// supports. Pairs of Axis or RelativeAxis controls form a single action and
// every SingleAxis is an action of its own.
func (c Controller) AnalogActions() int {
	var paired, single int
	for _, ctl := range c.Controls {
		if ctl.Shadow {
			continue
		}
		switch ctl.Type {
		case Axis, RelativeAxis:
			paired++
		case SingleAxis:
			single++
		}
	}
	return (paired+1)/2 + single
}

// AnalogAction returns the control indexes that make up analog action k. The
// second index will be -1 for a single axis action or for an unpaired final
// axis. Both values will be -1 if the action doesn't exist.
func (c Controller) AnalogAction(k int) (int, int) {
	x, y := -1, -1

	var n int
	var second bool
	var selecting bool

	for i, ctl := range c.Controls {
		if ctl.Shadow {
			continue
		}
		switch ctl.Type {
		case Axis, RelativeAxis:
			if selecting {
				return x, i
			}
			if n == k && !second {
				x = i
				selecting = true
			}
			if !second {
				n++
			}
			second = !second
		case SingleAxis:
			if selecting {
				continue
			}
			if n == k {
				return i, y
			}
			n++
		}
	}

	return x, y
}
