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
	"strconv"
	"strings"

	"github.com/jetsetilly/rerecord/frame"
)

// step is a single frame of a compiled macro.
type step struct {
	buttons []bool
	axes    []AxisTransform
}

func (s step) clone() step {
	c := step{
		buttons: make([]bool, len(s.buttons)),
		axes:    make([]AxisTransform, len(s.axes)),
	}
	copy(c.buttons, s.buttons)
	copy(c.axes, s.axes)
	return c
}

// Program is a compiled macro for a single controller.
type Program struct {
	// a disabled program does not change any frame it is applied to
	Enabled bool

	expr          string
	desc          Descriptor
	compiled      compiled
	autoterminate bool
	steps         []step
}

// builder implements the sink interface.
type builder struct {
	c     compiled
	steps []step
}

func (b *builder) newFrame() {
	s := step{
		buttons: make([]bool, len(b.c.buttons)),
		axes:    make([]AxisTransform, len(b.c.axes)),
	}
	for i := range s.axes {
		s.axes[i] = Identity
	}
	b.steps = append(b.steps, s)
}

func (b *builder) press(button int) {
	b.steps[len(b.steps)-1].buttons[button] = true
}

func (b *builder) transform(action int, t AxisTransform) {
	b.steps[len(b.steps)-1].axes[action] = t
}

func (b *builder) repeat(size int, count int) {
	group := b.steps[len(b.steps)-size:]
	for range count - 1 {
		for _, s := range group {
			b.steps = append(b.steps, s.clone())
		}
	}
}

// Compile the macro expression using the symbols and analog actions in the
// descriptor. The returned program is enabled.
func Compile(expr string, desc Descriptor) (*Program, error) {
	c, err := desc.compile()
	if err != nil {
		return nil, err
	}

	b := &builder{c: c}
	autoterminate, err := walk(expr, c, b)
	if err != nil {
		return nil, err
	}

	return &Program{
		Enabled:       true,
		expr:          expr,
		desc:          desc,
		compiled:      c,
		autoterminate: autoterminate,
		steps:         b.steps,
	}, nil
}

// Expr returns the expression the program was compiled from.
func (p *Program) Expr() string {
	return p.expr
}

// Descriptor returns the descriptor the program was compiled with.
func (p *Program) Descriptor() Descriptor {
	return p.desc
}

// Frames returns the number of frames in the program.
func (p *Program) Frames() int {
	return len(p.steps)
}

// AutoTerminate returns true if the program does not repeat.
func (p *Program) AutoTerminate() bool {
	return p.autoterminate
}

// Pressed returns true if the button with the symbol is pressed in frame n of
// the program. The frame number is not wrapped.
func (p *Program) Pressed(n int, symbol string) bool {
	b, ok := p.compiled.symbols[symbol]
	if !ok || n < 0 || n >= len(p.steps) {
		return false
	}
	return p.steps[n].buttons[b]
}

// Transform returns the transform for the analog action in frame n of the
// program. The frame number is not wrapped.
func (p *Program) Transform(n int, action int) AxisTransform {
	if n < 0 || n >= len(p.steps) || action < 0 || action >= len(p.steps[n].axes) {
		return Identity
	}
	return p.steps[n].axes[action]
}

// frameIndex returns the program frame to use for movie frame n.
func (p *Program) frameIndex(n int64) (int, bool) {
	l := int64(len(p.steps))
	if l == 0 {
		return 0, false
	}
	if p.autoterminate {
		if n < 0 || n >= l {
			return 0, false
		}
		return int(n), true
	}
	return int(((n % l) + l) % l), true
}

// Write the program frame for movie frame n to the controller. Axis
// transforms take the value currently in the frame as their input.
func (p *Program) Write(f frame.Frame, port int, controller int, n int64, mode ApplyMode) {
	if !p.Enabled {
		return
	}

	i, ok := p.frameIndex(n)
	if !ok {
		return
	}
	s := p.steps[i]

	ctrl, ok := f.Set().Controller(port, controller)
	if !ok {
		return
	}

	for b, pressed := range s.buttons {
		ctl := p.compiled.buttons[b]
		if ctl >= len(ctrl.Controls) {
			continue
		}

		switch mode {
		case Overwrite:
			var v int16
			if pressed {
				v = 1
			}
			f.SetAxis(port, controller, ctl, v)
		case Or:
			if pressed {
				f.SetAxis(port, controller, ctl, 1)
			}
		case Xor:
			if pressed {
				f.SetAxis(port, controller, ctl, 1-f.Axis(port, controller, ctl))
			}
		}
	}

	for k, t := range s.axes {
		if t == Identity {
			continue
		}

		pair := p.compiled.axes[k]
		if pair.x >= len(ctrl.Controls) || pair.y >= len(ctrl.Controls) {
			continue
		}

		if pair.y < 0 {
			v := f.Axis(port, controller, pair.x)
			f.SetAxis(port, controller, pair.x, t.Transform(ctrl.Controls[pair.x], v))
			continue
		}

		x := f.Axis(port, controller, pair.x)
		y := f.Axis(port, controller, pair.y)
		x, y = t.TransformPair(ctrl.Controls[pair.x], ctrl.Controls[pair.y], x, y)
		f.SetAxis(port, controller, pair.x, x)
		f.SetAxis(port, controller, pair.y, y)
	}
}

// Dump returns an expression that compiles to the same sequence of frames as
// the program. Every frame is written as a bracketed group.
func (p *Program) Dump() string {
	var s strings.Builder
	for _, st := range p.steps {
		s.WriteRune('[')
		for k, t := range st.axes {
			if t == Identity {
				continue
			}
			s.WriteString(strconv.Itoa(k))
			s.WriteRune(':')
			s.WriteString(t.String())
			s.WriteRune('@')
		}
		for b, pressed := range st.buttons {
			if pressed {
				s.WriteString(p.compiled.names[b])
			}
		}
		s.WriteRune(']')
	}
	if p.autoterminate {
		s.WriteRune('*')
	}
	return s.String()
}
