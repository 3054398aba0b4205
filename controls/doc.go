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

// Package controls describes the controller types that can be plugged into
// the ports of the emulated machine. A controller type is described by an
// implementation of the Descriptor interface.
//
// A Descriptor knows how to read and write the value of any of its controls
// from a fixed size byte buffer and how to translate that buffer to and from
// the text form used by the movie file. The Descriptor never has side effects
// outside of the buffer it is given.
//
// Port 0 is always occupied by the "system" type. Bit zero of the system
// type's buffer is the frame sync flag that marks the first sub-frame of a
// logical frame.
//
// The built-in controller types are available from a Registry returned by
// Builtin(). Descriptors are singletons and so a Descriptor value can be
// compared for identity. This is important for the portset package, which
// interns layouts by the identity of the descriptors in each port.
//
// BuildIndexMap() assigns a dense logical index to every control of a list of
// descriptors and a logical controller number to every controller that is
// not in the system port.
package controls
