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

import "math"

// Names of the built-in controller types.
const (
	SystemType     = "system"
	NoneType       = "none"
	GamepadType    = "gamepad"
	MultitapType   = "multitap"
	MouseType      = "mouse"
	SuperscopeType = "superscope"
	JustifierType  = "justifier"
	AnalogType     = "analog"
)

// Index of the system controls.
const (
	SystemFrameSync = iota
	SystemReset
	SystemDelayHigh
	SystemDelayLow
)

func button(symbol rune, name string) Control {
	return Control{Type: Button, Symbol: symbol, Name: name, Macro: string(symbol)}
}

func axis(typ Type, name string, lo int16, hi int16, centers bool) Control {
	return Control{Type: typ, Name: name, Min: lo, Max: hi, Centers: centers}
}

func systemPort(port int) bool {
	return port == 0
}

func playerPorts(port int) bool {
	return port == 1 || port == 2
}

func secondPort(port int) bool {
	return port == 2
}

func gamepad() Controller {
	return Controller{
		Class: "gamepad",
		Type:  "gamepad",
		Controls: []Control{
			button('B', "B"),
			button('Y', "Y"),
			button('s', "select"),
			button('S', "start"),
			button('u', "up"),
			button('d', "down"),
			button('l', "left"),
			button('r', "right"),
			button('A', "A"),
			button('X', "X"),
			button('L', "L"),
			button('R', "R"),
		},
	}
}

// the built-in types are singletons. identity of a Descriptor is important
// to the interning of port layouts
var (
	system = newLayout(SystemType, "System", 999998, true, systemPort, Controller{
		Class: "system",
		Type:  "system",
		Controls: []Control{
			{Type: Button, Symbol: 'F', Name: "framesync"},
			{Type: Button, Symbol: 'R', Name: "reset"},
			{Type: SingleAxis, Name: "delay high", Min: 0, Max: math.MaxInt16, Shadow: true},
			{Type: SingleAxis, Name: "delay low", Min: 0, Max: math.MaxInt16, Shadow: true},
		},
	})

	none = newLayout(NoneType, "None", 0, false, playerPorts)

	pad = newLayout(GamepadType, "Gamepad", 1, false, playerPorts, gamepad())

	multitap = newLayout(MultitapType, "Multitap", 2, false, playerPorts, gamepad(), gamepad(), gamepad(), gamepad())

	mouse = newLayout(MouseType, "Mouse", 3, false, playerPorts, Controller{
		Class: "mouse",
		Type:  "mouse",
		Controls: []Control{
			axis(RelativeAxis, "x", -255, 255, true),
			axis(RelativeAxis, "y", -255, 255, true),
			button('L', "L"),
			button('R', "R"),
		},
	})

	superscope = newLayout(SuperscopeType, "Super Scope", 4, false, secondPort, Controller{
		Class: "superscope",
		Type:  "superscope",
		Controls: []Control{
			axis(Axis, "x", 0, 511, false),
			axis(Axis, "y", 0, 511, false),
			button('T', "trigger"),
			button('C', "cursor"),
			button('U', "turbo"),
			button('P', "pause"),
		},
	})

	justifier = newLayout(JustifierType, "Justifier", 5, false, secondPort, Controller{
		Class: "justifier",
		Type:  "justifier",
		Controls: []Control{
			axis(Axis, "x", 0, 511, false),
			axis(Axis, "y", 0, 511, false),
			button('T', "trigger"),
			button('S', "start"),
		},
	})

	analog = newLayout(AnalogType, "Analog stick", 6, false, playerPorts, Controller{
		Class: "analog",
		Type:  "analog",
		Controls: []Control{
			axis(Axis, "x", math.MinInt16, math.MaxInt16, true),
			axis(Axis, "y", math.MinInt16, math.MaxInt16, true),
			axis(SingleAxis, "z", 0, 255, false),
			button('T', "trigger"),
		},
	})
)

// System returns the descriptor for the type that always occupies port 0.
func System() Descriptor {
	return system
}

// the order in which the built-in types are registered
var builtin = []Descriptor{system, none, pad, multitap, mouse, superscope, justifier, analog}

// Builtin returns a new Registry containing all the built-in controller
// types.
func Builtin() *Registry {
	r := NewRegistry()
	for _, d := range builtin {
		// built-in names are unique so registration can not fail
		_ = r.Register(d)
	}
	return r
}
