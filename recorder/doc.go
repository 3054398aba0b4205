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

// Package recorder connects the input of a movie to the emulation loop.
//
// The Recorder is driven by the emulation. Every time the emulated system
// reads a control the loop calls Poll() and every time a new frame begins
// the loop calls NextFrame():
//
//	rec := recorder.NewRecorder(movie.Input, true)
//	for {
//		rec.NextFrame()
//		rec.Service()
//		...
//		v := rec.Poll(port, controller, control)
//		...
//	}
//
// In read-only mode the values returned by Poll() come from the movie. The
// recorded sub-frame is selected by the number of times the control has
// been polled during the frame. If a control is polled more times than
// there are sub-frames then the last sub-frame is used.
//
// In read-write mode the values come from the live frame, which is set by
// the input handling of the application with SetLive(), and are recorded in
// the movie. A new sub-frame is appended whenever a control is polled more
// times than there are sub-frames in the frame. Every frame has at least one
// sub-frame, even if nothing was polled. Sub-frames that follow the current
// frame are removed before anything is recorded. A read-write Recorder that
// begins at the power-on frame therefore replaces the whole movie.
//
// The movie can only be edited in read-only mode and then only those
// sub-frames that have not yet been consumed by the emulation. Sub-frames
// that have been consumed are described as frozen.
//
// The Recorder is not safe for concurrent use. Other goroutines must use
// RequestEdit() to change the movie, the edit being applied the next time
// the emulation loop calls Service(). When built with the assertions tag,
// calling the emulation loop functions from more than one goroutine will
// cause a panic.
package recorder
