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

package recorder

import (
	"fmt"

	"github.com/jetsetilly/rerecord/assert"
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/frame"
	"github.com/jetsetilly/rerecord/logger"
	"github.com/jetsetilly/rerecord/macro"
	"github.com/jetsetilly/rerecord/portset"
)

// Sentinal errors.
const (
	NotEditable   = "recorder: movie is not editable in read-write mode"
	FrozenEdit    = "recorder: sub-frame %d has already been consumed"
	EditRange     = "recorder: sub-frames %d to %d are not in the movie (length %d)"
	RecorderError = "recorder: %v"
	EditQueueFull = "recorder: edit queue is full (%d edits waiting)"
)

// the number of edits that can be waiting for Service()
const editQueueLen = 16

type edit struct {
	fn     func(*Recorder) error
	result chan error
}

// Recorder drives the input of a movie from the emulation loop.
type Recorder struct {
	input    *frame.Vector
	counters *frame.PollCounters

	// the state of the controls as seen by the user
	live frame.Frame

	readOnly bool

	// the current logical frame. zero before the first call to NextFrame()
	frame int64

	// index of the first sub-frame of the current frame
	firstSubframe int

	// number of frames in which no control was polled
	lagFrames int64

	edits chan edit
	owner assert.Owner
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type. The input vector is used directly and will be changed by the
// Recorder.
//
// A Recorder in read-write mode does not change the input until the first
// call to NextFrame(), leaving RestoreState() free to resume a recording
// part way through the movie.
func NewRecorder(input *frame.Vector, readOnly bool) *Recorder {
	r := &Recorder{
		input:    input,
		counters: frame.NewPollCounters(input.Set()),
		live:     frame.NewFrame(input.Set()),
		readOnly: readOnly,
		edits:    make(chan edit, editQueueLen),
	}
	r.counters.SetAllDRDY()
	return r
}

func (r *Recorder) String() string {
	mode := "read-write"
	if r.readOnly {
		mode = "read-only"
	}
	return fmt.Sprintf("%s frame %d/%d (lag %d)", mode, r.frame, r.input.CountFrames(), r.lagFrames)
}

// Input returns the movie input driven by the Recorder.
func (r *Recorder) Input() *frame.Vector {
	return r.input
}

// Set returns the layout of the movie input.
func (r *Recorder) Set() *portset.Set {
	return r.input.Set()
}

// Counters returns the poll counters for the current frame.
func (r *Recorder) Counters() *frame.PollCounters {
	return r.counters
}

// Live returns the live frame. Changes to the returned frame are seen by the
// Recorder.
func (r *Recorder) Live() frame.Frame {
	return r.live
}

// SetLive sets the value of a control in the live frame.
func (r *Recorder) SetLive(port int, controller int, control int, value int16) {
	r.live.SetAxis(port, controller, control, value)
}

// ReadOnly returns true if the Recorder is replaying the movie.
func (r *Recorder) ReadOnly() bool {
	return r.readOnly
}

// Frame returns the current logical frame. Frames are numbered from one.
func (r *Recorder) Frame() int64 {
	return r.frame
}

// LagFrames returns the number of frames in which no control was polled.
func (r *Recorder) LagFrames() int64 {
	return r.lagFrames
}

// FirstSubframe returns the index of the first sub-frame of the current frame.
func (r *Recorder) FirstSubframe() int {
	return r.firstSubframe
}

// Ended returns true if the Recorder is in read-only mode and the current
// frame is beyond the end of the movie.
func (r *Recorder) Ended() bool {
	return r.readOnly && r.frame > 0 && r.firstSubframe >= r.input.Len()
}

// Poll returns the value of a control for the emulation. The value comes
// from the movie in read-only mode and from the live frame in read-write
// mode. Controls that do not exist have a value of zero.
func (r *Recorder) Poll(port int, controller int, control int) int16 {
	r.owner.Check("Poll")

	idx := r.input.Set().TripleToIndex(port, controller, control)
	if idx == portset.Absent {
		return 0
	}

	if r.frame == 0 {
		return r.live.Axis(port, controller, control)
	}

	r.counters.ClearDRDY(idx)
	polls := int(r.counters.Increment(idx))

	if r.readOnly {
		sub := r.input.SubframeCount(r.firstSubframe)
		if sub == 0 {
			return 0
		}
		f, err := r.input.Index(r.firstSubframe + min(polls, sub-1))
		if err != nil {
			return 0
		}
		return f.Axis(port, controller, control)
	}

	// enough sub-frames must exist for the poll
	for sub := r.input.SubframeCount(r.firstSubframe); sub <= polls; sub++ {
		f := r.live.Clone()
		f.SetSync(sub == 0)
		if err := r.input.Append(f); err != nil {
			logger.Log(logger.Allow, "recorder", err)
			return r.live.Axis(port, controller, control)
		}
	}

	f, err := r.input.Index(r.firstSubframe + polls)
	if err != nil {
		logger.Log(logger.Allow, "recorder", err)
		return r.live.Axis(port, controller, control)
	}
	v := r.live.Axis(port, controller, control)
	f.SetAxis(port, controller, control, v)

	return v
}

// NextFrame ends the current frame and begins the next one. In read-write
// mode the first frame replaces the whole of the movie.
func (r *Recorder) NextFrame() {
	r.owner.Check("NextFrame")

	if r.frame == 0 && !r.readOnly {
		if err := r.truncate(); err != nil {
			logger.Log(logger.Allow, "recorder", err)
		}
	}

	if r.frame > 0 {
		if !r.counters.FramePollFlag() {
			r.lagFrames++
		}

		if !r.readOnly && r.input.SubframeCount(r.firstSubframe) == 0 {
			f := r.live.Clone()
			f.SetSync(true)
			if err := r.input.Append(f); err != nil {
				logger.Log(logger.Allow, "recorder", err)
			}
		}

		r.firstSubframe += r.input.SubframeCount(r.firstSubframe)
	}

	r.frame++
	r.counters.Clear()
	r.counters.SetAllDRDY()
}

// truncate removes every sub-frame that has not been consumed.
func (r *Recorder) truncate() error {
	n := r.firstSubframe + min(r.input.SubframeCount(r.firstSubframe), int(r.counters.MaxPolls()))
	if n >= r.input.Len() {
		return nil
	}
	logger.Logf(logger.Allow, "recorder", "truncating movie to %d sub-frames", n)
	return r.input.Resize(n)
}

// SetReadOnly changes the mode of the Recorder. Changing to read-write mode
// removes every sub-frame that has not been consumed.
func (r *Recorder) SetReadOnly(readOnly bool) error {
	r.owner.Check("SetReadOnly")

	if r.readOnly == readOnly {
		return nil
	}

	if !readOnly {
		if err := r.truncate(); err != nil {
			return curated.Errorf(RecorderError, err)
		}
	}
	r.readOnly = readOnly

	return nil
}

// Frozen returns true if the sub-frame has been consumed by the emulation.
// In read-write mode every sub-frame is frozen.
func (r *Recorder) Frozen(sub int) bool {
	if !r.readOnly {
		return true
	}
	if sub < r.firstSubframe {
		return true
	}
	if r.frame == 0 {
		return false
	}
	if sub >= r.firstSubframe+r.input.SubframeCount(r.firstSubframe) {
		return false
	}
	return sub-r.firstSubframe < max(int(r.counters.MaxPolls()), 1)
}

// ApplyMacro writes the macro to count sub-frames starting at the first
// sub-frame. The first sub-frame receives the first frame of the macro. No
// sub-frame is changed unless every sub-frame in the range can be changed.
func (r *Recorder) ApplyMacro(m *macro.Macro, first int, count int) error {
	r.owner.Check("ApplyMacro")

	if !r.readOnly {
		return curated.Categorisedf(curated.Range, NotEditable)
	}
	if first < 0 || count < 0 || first+count > r.input.Len() {
		return curated.Categorisedf(curated.Range, EditRange, first, first+count-1, r.input.Len())
	}
	for i := first; i < first+count; i++ {
		if r.Frozen(i) {
			return curated.Categorisedf(curated.Range, FrozenEdit, i)
		}
	}

	for i := first; i < first+count; i++ {
		f, err := r.input.Index(i)
		if err != nil {
			return curated.Errorf(RecorderError, err)
		}
		m.Write(f, int64(i-first))
	}

	return nil
}

// RequestEdit queues a function to be run by the emulation loop the next time
// Service() is called. The returned channel receives the result of the
// function. It is safe to call RequestEdit from any goroutine.
//
// RequestEdit never blocks. If too many edits are waiting then the function
// is not queued and the channel receives an EditQueueFull error.
func (r *Recorder) RequestEdit(fn func(*Recorder) error) <-chan error {
	e := edit{
		fn:     fn,
		result: make(chan error, 1),
	}
	select {
	case r.edits <- e:
	default:
		e.result <- curated.Categorisedf(curated.Resource, EditQueueFull, editQueueLen)
	}
	return e.result
}

// Service runs every queued edit and returns the number of edits that were
// run. It must be called by the emulation loop.
func (r *Recorder) Service() int {
	r.owner.Check("Service")

	var n int
	for {
		select {
		case e := <-r.edits:
			e.result <- e.fn(r)
			n++
		default:
			return n
		}
	}
}
