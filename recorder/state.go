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
	"github.com/fxamacker/cbor/v2"

	"github.com/jetsetilly/rerecord/curated"
)

// Sentinal errors.
const (
	BadState       = "recorder: bad movie state: %v"
	StateBeyondEnd = "recorder: movie state is beyond the end of the movie"
	StateMismatch  = "recorder: movie state does not match the movie"
)

// state is the CBOR encoding of the position of the Recorder in the movie.
type state struct {
	Frame         int64    `cbor:"1,keyasint"`
	FirstSubframe int      `cbor:"2,keyasint"`
	LagFrames     int64    `cbor:"3,keyasint"`
	Counters      []uint32 `cbor:"4,keyasint"`
	FramePoll     bool     `cbor:"5,keyasint,omitempty"`
}

// SaveState returns the position of the Recorder in the movie. The result is
// suitable for the moviestate member of a movie file.
func (r *Recorder) SaveState() ([]byte, error) {
	r.owner.Check("SaveState")

	b, err := cbor.Marshal(state{
		Frame:         r.frame,
		FirstSubframe: r.firstSubframe,
		LagFrames:     r.lagFrames,
		Counters:      r.counters.SaveState(),
		FramePoll:     r.counters.FramePollFlag(),
	})
	if err != nil {
		return nil, curated.Categorisedf(curated.Format, BadState, err)
	}
	return b, nil
}

// RestoreState returns the Recorder to a position created by SaveState(). In
// read-write mode the sub-frames after the position are removed. The
// Recorder is not changed if the state cannot be restored.
func (r *Recorder) RestoreState(b []byte) error {
	r.owner.Check("RestoreState")

	var s state
	if err := cbor.Unmarshal(b, &s); err != nil {
		return curated.Categorisedf(curated.Format, BadState, err)
	}

	if s.Frame < 0 || s.FirstSubframe < 0 || s.LagFrames < 0 {
		return curated.Categorisedf(curated.Format, StateMismatch)
	}
	if !r.counters.Check(s.Counters) {
		return curated.Categorisedf(curated.Format, StateMismatch)
	}
	if s.FirstSubframe > r.input.Len() {
		return curated.Categorisedf(curated.Format, StateBeyondEnd)
	}
	if s.Frame > 0 && s.FirstSubframe < r.input.Len() {
		if r.input.Walk(0, int(s.Frame), true) != s.FirstSubframe {
			return curated.Categorisedf(curated.Format, StateMismatch)
		}
	}

	r.frame = s.Frame
	r.firstSubframe = s.FirstSubframe
	r.lagFrames = s.LagFrames
	_ = r.counters.LoadState(s.Counters)
	r.counters.SetFramePollFlag(s.FramePoll)

	if !r.readOnly {
		if err := r.truncate(); err != nil {
			return curated.Errorf(RecorderError, err)
		}
	}

	return nil
}
