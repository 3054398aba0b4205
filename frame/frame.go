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

package frame

import (
	"strings"

	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/portset"
)

// Sentinal errors.
const (
	TypeMismatch = "frame: port types do not match"
	StaleBorrow  = "frame: borrowed record used after the vector was resized"
	NoLayout     = "frame: record has no layout"
)

// borrow is the reference from a borrowed Frame to the Vector that owns the
// storage.
type borrow struct {
	vec   *Vector
	epoch uint64
}

// Frame is a single input record. The zero value has no layout and can only
// be used as the target of Assign().
type Frame struct {
	set *portset.Set
	buf []byte

	// nil if the frame owns its storage
	borrowed *borrow
}

// NewFrame is the preferred method of initialisation for the Frame type. The
// new frame owns its storage and every control is zero.
func NewFrame(set *portset.Set) Frame {
	return Frame{
		set: set,
		buf: make([]byte, set.Size()),
	}
}

// bytes returns the storage of the record. panics if the frame is a stale
// borrow.
func (f Frame) bytes() []byte {
	if f.borrowed != nil && f.borrowed.epoch != f.borrowed.vec.epoch {
		panic(curated.Errorf(StaleBorrow))
	}
	return f.buf
}

// modified is called after every write to the record.
func (f Frame) modified() {
	if f.borrowed != nil {
		f.borrowed.vec.mutations++
	}
}

// Set returns the layout of the record.
func (f Frame) Set() *portset.Set {
	return f.set
}

// Borrowed returns true if the storage of the frame belongs to a Vector.
func (f Frame) Borrowed() bool {
	return f.borrowed != nil
}

// Valid returns false if the frame has no layout or if it is a borrowed frame
// that can no longer be used.
func (f Frame) Valid() bool {
	if f.set == nil {
		return false
	}
	return f.borrowed == nil || f.borrowed.epoch == f.borrowed.vec.epoch
}

// Clone returns a copy of the frame that owns its own storage.
func (f Frame) Clone() Frame {
	if f.set == nil {
		return Frame{}
	}
	c := NewFrame(f.set)
	copy(c.buf, f.bytes())
	return c
}

// TypesMatch returns true if both frames have the same layout.
func (f Frame) TypesMatch(o Frame) bool {
	return f.set == o.set
}

// Assign copies the contents of another frame. The layouts of the two frames
// must be the same unless the frame being assigned to has no layout, in which
// case it adopts the layout of the source.
func (f *Frame) Assign(src Frame) error {
	if f.set == nil && f.borrowed == nil {
		*f = src.Clone()
		return nil
	}
	if f.set != src.set {
		return curated.Categorisedf(curated.TypeMismatch, TypeMismatch)
	}
	copy(f.bytes(), src.bytes())
	f.modified()
	return nil
}

// Clear sets every control to zero, including the sync flag.
func (f Frame) Clear() {
	clear(f.bytes())
	f.modified()
}

// Sync returns the sync flag.
func (f Frame) Sync() bool {
	b := f.bytes()
	return len(b) > 0 && b[0]&0x01 == 0x01
}

// SetSync sets or clears the sync flag.
func (f Frame) SetSync(sync bool) {
	b := f.bytes()
	if len(b) == 0 {
		return
	}
	if sync {
		b[0] |= 0x01
	} else {
		b[0] &^= 0x01
	}
	f.modified()
}

// port returns the descriptor and the record storage for a port.
func (f Frame) port(port int) (controls.Descriptor, []byte) {
	if f.set == nil {
		return nil, nil
	}
	d := f.set.PortType(port)
	if d == nil {
		return nil, nil
	}
	o := f.set.PortOffset(port)
	return d, f.bytes()[o : o+d.Size()]
}

// Axis returns the value of a control. Buttons have the value 0 or 1. An
// invalid control returns zero.
func (f Frame) Axis(port int, controller int, control int) int16 {
	d, b := f.port(port)
	if d == nil {
		return 0
	}
	return d.Read(b, controller, control)
}

// SetAxis sets the value of a control. Writing an invalid control does
// nothing.
func (f Frame) SetAxis(port int, controller int, control int, value int16) {
	d, b := f.port(port)
	if d == nil {
		return
	}
	d.Write(b, controller, control, value)
	f.modified()
}

// AxisIndex returns the value of the control at the logical index.
func (f Frame) AxisIndex(idx uint32) int16 {
	if f.set == nil {
		return 0
	}
	t := f.set.IndexToTriple(idx)
	if !t.Valid {
		return 0
	}
	return f.Axis(t.Port, t.Controller, t.Control)
}

// SetAxisIndex sets the value of the control at the logical index.
func (f Frame) SetAxisIndex(idx uint32, value int16) {
	if f.set == nil {
		return
	}
	t := f.set.IndexToTriple(idx)
	if !t.Valid {
		return
	}
	f.SetAxis(t.Port, t.Controller, t.Control, value)
}

// Display returns a short summary of a controller. See controls.Display() for
// details. An invalid port or controller returns the empty string.
func (f Frame) Display(port int, controller int) string {
	d, b := f.port(port)
	if d == nil {
		return ""
	}
	return controls.Display(d, b, controller)
}

// Serialize returns the text form of the record.
func (f Frame) Serialize() string {
	if f.set == nil {
		return ""
	}
	var s strings.Builder
	for p := range f.set.Ports() {
		d, b := f.port(p)
		s.WriteString(d.Serialize(b))
	}
	return s.String()
}

// Deserialize fills the record from its text form. Controls missing from the
// end of the text are zero.
func (f Frame) Deserialize(text string) error {
	if f.set == nil {
		return curated.Errorf(NoLayout)
	}
	var pos int
	for p := range f.set.Ports() {
		d, b := f.port(p)
		pos += d.Deserialize(b, text[min(pos, len(text)):])
	}
	f.modified()
	return nil
}

// Bytes returns a copy of the raw record.
func (f Frame) Bytes() []byte {
	b := make([]byte, len(f.bytes()))
	copy(b, f.bytes())
	return b
}

// Equal returns true if both frames have the same layout and content.
func (f Frame) Equal(o Frame) bool {
	if f.set != o.set {
		return false
	}
	return string(f.bytes()) == string(o.bytes())
}
