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

package frame_test

import (
	"testing"

	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/frame"
	"github.com/jetsetilly/rerecord/test"
)

func TestPollCounters(t *testing.T) {
	s := makeSet(t, controls.GamepadType, controls.GamepadType)
	pc := frame.NewPollCounters(s)
	test.ExpectEquality(t, pc.Len(), s.IndexCount())
	test.ExpectFailure(t, pc.HasPolled())
	test.ExpectFailure(t, pc.FramePollFlag())

	idx := s.TripleToIndex(1, 0, 3)
	test.ExpectEquality(t, pc.Increment(idx), uint32(0))
	test.ExpectEquality(t, pc.Increment(idx), uint32(1))
	test.ExpectEquality(t, pc.Increment(idx), uint32(2))
	test.ExpectEquality(t, pc.Polls(idx), uint32(3))
	test.ExpectSuccess(t, pc.HasPolled())
	test.ExpectSuccess(t, pc.FramePollFlag())

	// DRDY does not affect the count
	pc.SetAllDRDY()
	test.ExpectEquality(t, pc.Polls(idx), uint32(3))
	test.ExpectSuccess(t, pc.DRDY(idx))
	test.ExpectSuccess(t, pc.DRDY(0))

	pc.ClearDRDY(idx)
	test.ExpectFailure(t, pc.DRDY(idx))
	test.ExpectEquality(t, pc.Polls(idx), uint32(3))

	// increment does not affect DRDY
	pc.Increment(0)
	test.ExpectSuccess(t, pc.DRDY(0))
	test.ExpectEquality(t, pc.Polls(0), uint32(1))

	test.ExpectEquality(t, pc.MaxPolls(), uint32(3))

	pc.Clear()
	test.ExpectFailure(t, pc.HasPolled())
	test.ExpectFailure(t, pc.DRDY(0))
	test.ExpectFailure(t, pc.FramePollFlag())
	test.ExpectEquality(t, pc.MaxPolls(), uint32(0))

	// DRDY alone does not count as having polled
	pc.SetAllDRDY()
	test.ExpectFailure(t, pc.HasPolled())

	// out of range indices are harmless
	test.ExpectEquality(t, pc.Increment(uint32(pc.Len())), uint32(0))
	test.ExpectEquality(t, pc.Polls(uint32(pc.Len())), uint32(0))
	test.ExpectFailure(t, pc.DRDY(uint32(pc.Len())))
}

func TestPollCountersState(t *testing.T) {
	s := makeSet(t, controls.GamepadType, controls.GamepadType)
	pc := frame.NewPollCounters(s)

	pc.Increment(5)
	pc.Increment(5)
	pc.SetAllDRDY()
	pc.ClearDRDY(2)

	state := pc.SaveState()
	test.ExpectSuccess(t, pc.Check(state))

	other := frame.NewPollCounters(s)
	test.ExpectSuccess(t, other.LoadState(state))
	test.ExpectEquality(t, other.Polls(5), uint32(2))
	test.ExpectSuccess(t, other.DRDY(5))
	test.ExpectFailure(t, other.DRDY(2))

	// state for a different layout is rejected
	m := makeSet(t, controls.MultitapType, controls.GamepadType)
	bad := frame.NewPollCounters(m)
	test.ExpectFailure(t, bad.Check(state))
	err := bad.LoadState(state)
	test.ExpectSuccess(t, curated.InCategory(err, curated.Format))
}
