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

package recorder_test

import (
	"sync"
	"testing"

	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/frame"
	"github.com/jetsetilly/rerecord/macro"
	"github.com/jetsetilly/rerecord/portset"
	"github.com/jetsetilly/rerecord/recorder"
	"github.com/jetsetilly/rerecord/test"
)

// button indexes in the gamepad controller
const (
	padB = 0
	padA = 8
)

var cache = portset.NewCache()

func makeVector(t *testing.T) *frame.Vector {
	t.Helper()
	reg := controls.Builtin()
	p1, err := reg.LookupForPort(controls.GamepadType, 1)
	test.DemandSuccess(t, err)
	p2, err := reg.LookupForPort(controls.NoneType, 2)
	test.DemandSuccess(t, err)
	s, err := cache.MakeDefault(controls.System(), p1, p2)
	test.DemandSuccess(t, err)
	return frame.NewVector(s)
}

// record three frames. the first frame presses A, the second frame is a lag
// frame and the third frame polls A twice
func record(t *testing.T) (*recorder.Recorder, *frame.Vector) {
	t.Helper()
	v := makeVector(t)
	rec := recorder.NewRecorder(v, false)

	rec.NextFrame()
	rec.SetLive(1, 0, padA, 1)
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(1))

	rec.NextFrame()
	rec.SetLive(1, 0, padA, 0)

	rec.NextFrame()
	rec.SetLive(1, 0, padB, 1)
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(0))
	rec.SetLive(1, 0, padA, 1)
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(1))

	return rec, v
}

func TestRecord(t *testing.T) {
	rec, v := record(t)

	// the third frame is not finished but has recorded two sub-frames
	test.ExpectEquality(t, rec.Frame(), int64(3))
	test.ExpectEquality(t, v.Len(), 4)

	rec.NextFrame()
	test.ExpectEquality(t, rec.Frame(), int64(4))
	test.ExpectEquality(t, rec.LagFrames(), int64(1))
	test.ExpectEquality(t, rec.FirstSubframe(), 4)
	test.ExpectEquality(t, v.Len(), 4)
	test.ExpectEquality(t, v.CountFrames(), 3)

	expected := []struct {
		sync bool
		a    int16
		b    int16
	}{
		{sync: true, a: 1, b: 0},
		{sync: true, a: 0, b: 0},
		{sync: true, a: 0, b: 1},
		{sync: false, a: 1, b: 1},
	}
	for i, e := range expected {
		f, err := v.Index(i)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, f.Sync(), e.sync, i)
		test.ExpectEquality(t, f.Axis(1, 0, padA), e.a, i)
		test.ExpectEquality(t, f.Axis(1, 0, padB), e.b, i)
	}

	// controls that don't exist are always zero
	test.ExpectEquality(t, rec.Poll(2, 0, 0), int16(0))
	test.ExpectEquality(t, rec.Poll(1, 0, 100), int16(0))
}

func TestReplay(t *testing.T) {
	_, v := record(t)

	rec := recorder.NewRecorder(v, true)
	test.ExpectSuccess(t, rec.ReadOnly())

	// the live frame is ignored in read-only mode
	rec.SetLive(1, 0, padB, 1)

	rec.NextFrame()
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(1))
	test.ExpectEquality(t, rec.Poll(1, 0, padB), int16(0))

	rec.NextFrame()

	rec.NextFrame()
	test.ExpectEquality(t, rec.FirstSubframe(), 2)
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(0))
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(1))

	// polling beyond the recorded sub-frames uses the last sub-frame
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(1))
	test.ExpectFailure(t, rec.Ended())

	rec.NextFrame()
	test.ExpectEquality(t, rec.LagFrames(), int64(1))
	test.ExpectSuccess(t, rec.Ended())
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(0))

	// replay does not change the movie
	test.ExpectEquality(t, v.Len(), 4)
}

func TestReadWriteTruncates(t *testing.T) {
	_, v := record(t)

	rec := recorder.NewRecorder(v, true)
	rec.NextFrame()
	rec.NextFrame()
	rec.NextFrame()
	rec.Poll(1, 0, padA)

	// the first sub-frame of the third frame has been consumed
	test.ExpectSuccess(t, rec.SetReadOnly(false))
	test.ExpectFailure(t, rec.ReadOnly())
	test.ExpectEquality(t, v.Len(), 3)

	// the second poll records a new sub-frame from the live frame
	rec.SetLive(1, 0, padA, 0)
	rec.SetLive(1, 0, padB, 1)
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(0))
	test.ExpectEquality(t, v.Len(), 4)

	f, err := v.Index(3)
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, f.Sync())
	test.ExpectEquality(t, f.Axis(1, 0, padB), int16(1))

	// changing to read-only mode does not change the movie
	test.ExpectSuccess(t, rec.SetReadOnly(true))
	test.ExpectEquality(t, v.Len(), 4)
}

func TestReadWriteReplacesMovie(t *testing.T) {
	v := makeVector(t)
	for range 3 {
		f := frame.NewFrame(v.Set())
		f.SetSync(true)
		f.SetAxis(1, 0, padB, 1)
		test.DemandSuccess(t, v.Append(f))
	}

	// the movie is not changed until the first frame
	rec := recorder.NewRecorder(v, false)
	test.ExpectEquality(t, v.Len(), 3)

	rec.NextFrame()
	test.ExpectEquality(t, v.Len(), 0)

	rec.SetLive(1, 0, padA, 1)
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(1))
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(1))
	test.ExpectEquality(t, v.Len(), 2)

	rec.NextFrame()
	test.ExpectEquality(t, rec.FirstSubframe(), 2)
	test.ExpectEquality(t, v.CountFrames(), 1)

	// both sub-frames come from the live frame and nothing of the old movie
	// remains
	for i, sync := range []bool{true, false} {
		f, err := v.Index(i)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, f.Sync(), sync, i)
		test.ExpectEquality(t, f.Axis(1, 0, padA), int16(1), i)
		test.ExpectEquality(t, f.Axis(1, 0, padB), int16(0), i)
	}
}

func TestReadWriteResume(t *testing.T) {
	rec, v := record(t)
	state, err := rec.SaveState()
	test.DemandSuccess(t, err)
	rec.NextFrame()
	test.ExpectEquality(t, v.Len(), 4)

	// a new read-write recorder can resume from the state
	resume := recorder.NewRecorder(v, false)
	test.ExpectSuccess(t, resume.RestoreState(state))
	test.ExpectEquality(t, resume.Frame(), int64(3))
	test.ExpectEquality(t, v.Len(), 4)

	resume.NextFrame()
	test.ExpectEquality(t, resume.FirstSubframe(), 4)
	test.ExpectEquality(t, v.Len(), 4)
	test.ExpectEquality(t, v.CountFrames(), 3)
}

func TestApplyMacro(t *testing.T) {
	v := makeVector(t)
	for range 5 {
		f := frame.NewFrame(v.Set())
		f.SetSync(true)
		test.DemandSuccess(t, v.Append(f))
	}

	ctrl, ok := v.Set().Controller(1, 0)
	test.DemandSuccess(t, ok)
	p, err := macro.Compile("A.B", macro.MakeDescriptor(ctrl))
	test.DemandSuccess(t, err)
	m := macro.NewMacro(macro.Overwrite)
	m.Programs[0] = p

	rec := recorder.NewRecorder(v, true)

	// nothing is frozen before the first frame
	test.ExpectFailure(t, rec.Frozen(0))

	rec.NextFrame()
	rec.Poll(1, 0, padA)
	test.ExpectSuccess(t, rec.Frozen(0))
	test.ExpectFailure(t, rec.Frozen(1))

	mutations := v.Mutations()
	err = rec.ApplyMacro(m, 0, 2)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, recorder.FrozenEdit))
	test.ExpectEquality(t, v.Mutations(), mutations)

	err = rec.ApplyMacro(m, 4, 2)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, recorder.EditRange))
	test.ExpectSuccess(t, curated.InCategory(err, curated.Range))

	test.ExpectSuccess(t, rec.ApplyMacro(m, 1, 3))
	for i, e := range []struct{ a, b int16 }{{0, 0}, {1, 0}, {0, 1}, {1, 0}, {0, 0}} {
		f, err := v.Index(i)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, f.Axis(1, 0, padA), e.a, i)
		test.ExpectEquality(t, f.Axis(1, 0, padB), e.b, i)
		test.ExpectSuccess(t, f.Sync(), i)
	}

	// the edited sub-frame is replayed
	rec.NextFrame()
	test.ExpectEquality(t, rec.Poll(1, 0, padA), int16(1))

	test.ExpectSuccess(t, rec.SetReadOnly(false))
	err = rec.ApplyMacro(m, 3, 1)
	test.ExpectSuccess(t, curated.Is(err, recorder.NotEditable))
}

func TestRequestEdit(t *testing.T) {
	v := makeVector(t)
	rec := recorder.NewRecorder(v, true)
	rec.NextFrame()

	var result <-chan error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		result = rec.RequestEdit(func(r *recorder.Recorder) error {
			return r.SetReadOnly(false)
		})
	}()
	wg.Wait()

	// the edit is not run until the loop services the recorder
	test.ExpectSuccess(t, rec.ReadOnly())
	test.ExpectEquality(t, rec.Service(), 1)
	test.ExpectSuccess(t, <-result)
	test.ExpectFailure(t, rec.ReadOnly())
	test.ExpectEquality(t, rec.Service(), 0)
}

func TestRequestEditQueueFull(t *testing.T) {
	v := makeVector(t)
	rec := recorder.NewRecorder(v, true)

	var count int
	fn := func(r *recorder.Recorder) error {
		count++
		return nil
	}

	// fill the queue without servicing it. none of the requests block
	results := make([]<-chan error, 0, 20)
	for range 20 {
		results = append(results, rec.RequestEdit(fn))
	}

	// requests beyond the length of the queue are refused straight away
	var refused int
	for _, r := range results {
		select {
		case err := <-r:
			test.ExpectSuccess(t, curated.Is(err, recorder.EditQueueFull))
			test.ExpectSuccess(t, curated.InCategory(err, curated.Resource))
			refused++
		default:
		}
	}
	test.ExpectEquality(t, refused, 4)

	test.ExpectEquality(t, rec.Service(), 16)
	test.ExpectEquality(t, count, 16)
	for _, r := range results[:16] {
		test.ExpectSuccess(t, <-r)
	}

	// the queue has room again
	result := rec.RequestEdit(fn)
	test.ExpectEquality(t, rec.Service(), 1)
	test.ExpectSuccess(t, <-result)
	test.ExpectEquality(t, count, 17)
}

func TestState(t *testing.T) {
	rec, v := record(t)

	state, err := rec.SaveState()
	test.DemandSuccess(t, err)

	rec.NextFrame()
	rec.Poll(1, 0, padA)
	rec.NextFrame()
	rec.NextFrame()
	test.ExpectEquality(t, v.Len(), 6)
	test.ExpectEquality(t, rec.LagFrames(), int64(2))

	// restoring in read-write mode removes the frames recorded since
	test.ExpectSuccess(t, rec.RestoreState(state))
	test.ExpectEquality(t, rec.Frame(), int64(3))
	test.ExpectEquality(t, rec.FirstSubframe(), 2)
	test.ExpectEquality(t, rec.LagFrames(), int64(1))
	test.ExpectEquality(t, rec.Counters().Polls(v.Set().TripleToIndex(1, 0, padA)), uint32(2))
	test.ExpectEquality(t, v.Len(), 4)

	// a third poll in the frame records another sub-frame
	rec.Poll(1, 0, padA)
	test.ExpectEquality(t, v.Len(), 5)

	err = rec.RestoreState([]byte{0xff, 0x00})
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.InCategory(err, curated.Format))
	test.ExpectEquality(t, rec.Frame(), int64(3))

	// the state refers to sub-frames that an empty movie does not have
	empty := recorder.NewRecorder(makeVector(t), true)
	err = empty.RestoreState(state)
	test.ExpectSuccess(t, curated.Is(err, recorder.StateBeyondEnd))
	test.ExpectEquality(t, empty.Frame(), int64(0))
}
