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
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/portset"
)

const (
	drdy      = 0x80000000
	countMask = 0x7fffffff
)

// Sentinal errors.
const (
	BadPollState = "frame: poll counter state has %d entries (expected %d)"
)

// PollCounters records the number of times each control has been polled. The
// top bit of each counter is the data ready (DRDY) flag.
type PollCounters struct {
	set  *portset.Set
	ctrs []uint32

	// a control has been polled in the current logical frame
	framePoll bool
}

// NewPollCounters is the preferred method of initialisation for the
// PollCounters type.
func NewPollCounters(set *portset.Set) *PollCounters {
	return &PollCounters{
		set:  set,
		ctrs: make([]uint32, set.IndexCount()),
	}
}

// Set returns the layout the counters were created for.
func (pc *PollCounters) Set() *portset.Set {
	return pc.set
}

// Len returns the number of counters.
func (pc *PollCounters) Len() int {
	return len(pc.ctrs)
}

// Clear sets all counters to zero and clears every DRDY flag.
func (pc *PollCounters) Clear() {
	clear(pc.ctrs)
	pc.framePoll = false
}

// SetAllDRDY sets every DRDY flag. The counts are not changed.
func (pc *PollCounters) SetAllDRDY() {
	for i := range pc.ctrs {
		pc.ctrs[i] |= drdy
	}
}

// ClearDRDY clears the DRDY flag for the logical index.
func (pc *PollCounters) ClearDRDY(idx uint32) {
	if int(idx) >= len(pc.ctrs) {
		return
	}
	pc.ctrs[idx] &^= drdy
}

// DRDY returns the DRDY flag for the logical index.
func (pc *PollCounters) DRDY(idx uint32) bool {
	if int(idx) >= len(pc.ctrs) {
		return false
	}
	return pc.ctrs[idx]&drdy == drdy
}

// Polls returns the number of polls for the logical index.
func (pc *PollCounters) Polls(idx uint32) uint32 {
	if int(idx) >= len(pc.ctrs) {
		return 0
	}
	return pc.ctrs[idx] & countMask
}

// Increment adds one to the number of polls for the logical index and
// returns the number of polls before the increment. The DRDY flag is not
// changed.
func (pc *PollCounters) Increment(idx uint32) uint32 {
	if int(idx) >= len(pc.ctrs) {
		return 0
	}
	n := pc.ctrs[idx] & countMask
	pc.ctrs[idx] = (pc.ctrs[idx] & drdy) | ((n + 1) & countMask)
	pc.framePoll = true
	return n
}

// HasPolled returns true if any control has been polled at least once.
func (pc *PollCounters) HasPolled() bool {
	var r uint32
	for _, c := range pc.ctrs {
		r |= c
	}
	return r&countMask != 0
}

// MaxPolls returns the highest number of polls of any control.
func (pc *PollCounters) MaxPolls() uint32 {
	var m uint32
	for _, c := range pc.ctrs {
		m = max(m, c&countMask)
	}
	return m
}

// SetFramePollFlag sets or clears the flag that records whether any control
// has been polled in the current logical frame.
func (pc *PollCounters) SetFramePollFlag(f bool) {
	pc.framePoll = f
}

// FramePollFlag returns the state of the frame poll flag. The flag is set by
// Increment().
func (pc *PollCounters) FramePollFlag() bool {
	return pc.framePoll
}

// SaveState returns a copy of the counters, including the DRDY flags.
func (pc *PollCounters) SaveState() []uint32 {
	s := make([]uint32, len(pc.ctrs))
	copy(s, pc.ctrs)
	return s
}

// Check returns true if the saved state is compatible with the counters.
func (pc *PollCounters) Check(state []uint32) bool {
	return len(state) == len(pc.ctrs)
}

// LoadState restores the counters from a saved state.
func (pc *PollCounters) LoadState(state []uint32) error {
	if !pc.Check(state) {
		return curated.Categorisedf(curated.Format, BadPollState, len(state), len(pc.ctrs))
	}
	copy(pc.ctrs, state)
	return nil
}
