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

// Package rrdata records the rerecords made during the life of a project.
// Every rerecord is an instance number. Instance numbers made in the same
// session share the same upper 32 bits, which are chosen randomly when the
// session begins. Merging the ledgers of two sessions therefore never loses
// a rerecord.
//
// The ledger is encoded as a sorted list of big-endian uint64 values.
package rrdata

import (
	"encoding/binary"
	"hash/fnv"
	"slices"
	"sync"

	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/logger"
	"github.com/jetsetilly/rerecord/random"
)

// Sentinal errors.
const (
	BadLedger = "rrdata: ledger length (%d) is not a multiple of %d"
)

// number of bytes in an encoded instance number
const instanceSize = 8

// Ledger is the set of rerecord instance numbers for a project.
type Ledger struct {
	crit sync.Mutex

	project   string
	sessions  uint64
	session   uint32
	next      uint32
	instances map[uint64]struct{}

	// source of session numbers. set Random.ZeroSeed to make the instance
	// numbers predictable
	Random *random.Random
}

// NewLedger is the preferred method of initialisation for the Ledger type.
func NewLedger() *Ledger {
	l := &Ledger{
		instances: make(map[uint64]struct{}),
	}
	l.Random = random.NewRandom(l)
	return l
}

// RandomPosition implements the random.Position interface. The position
// depends on the project and the number of sessions started.
//
// Called by the Random instance with the critical section held.
func (l *Ledger) RandomPosition() uint64 {
	h := fnv.New64a()
	h.Write([]byte(l.project))
	return h.Sum64() + l.sessions
}

// ReadBase starts a new session for the project. The ledger is emptied.
func (l *Ledger) ReadBase(projectID string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	l.project = projectID
	l.sessions++
	l.session = l.Random.Uint32()
	l.next = 0
	clear(l.instances)

	logger.Logf(logger.Allow, "rrdata", "session %08x for project %s", l.session, projectID)
}

// Project returns the project ID of the current session.
func (l *Ledger) Project() string {
	l.crit.Lock()
	defer l.crit.Unlock()
	return l.project
}

func decode(blob []byte) ([]uint64, error) {
	if len(blob)%instanceSize != 0 {
		return nil, curated.Categorisedf(curated.Format, BadLedger, len(blob), instanceSize)
	}
	v := make([]uint64, 0, len(blob)/instanceSize)
	for i := 0; i < len(blob); i += instanceSize {
		v = append(v, binary.BigEndian.Uint64(blob[i:]))
	}
	return v, nil
}

// Read merges an encoded ledger into the current ledger. The ledger is not
// changed if the encoding is invalid.
func (l *Ledger) Read(blob []byte) error {
	v, err := decode(blob)
	if err != nil {
		return err
	}

	l.crit.Lock()
	defer l.crit.Unlock()

	for _, i := range v {
		l.instances[i] = struct{}{}

		// instances from an earlier use of the same session number must not
		// be repeated
		if uint32(i>>32) == l.session && uint32(i) >= l.next {
			l.next = uint32(i) + 1
		}
	}

	return nil
}

// AddInternal adds a new rerecord to the ledger.
func (l *Ledger) AddInternal() {
	l.crit.Lock()
	defer l.crit.Unlock()

	l.instances[uint64(l.session)<<32|uint64(l.next)] = struct{}{}
	l.next++
	if l.next == 0 {
		// the session has run out of instance numbers
		l.session++
	}
}

// Write returns the encoded ledger and the number of rerecords in it.
func (l *Ledger) Write() ([]byte, int64) {
	l.crit.Lock()
	defer l.crit.Unlock()

	v := make([]uint64, 0, len(l.instances))
	for i := range l.instances {
		v = append(v, i)
	}
	slices.Sort(v)

	blob := make([]byte, 0, len(v)*instanceSize)
	for _, i := range v {
		blob = binary.BigEndian.AppendUint64(blob, i)
	}

	return blob, int64(len(v))
}

// Count returns the number of rerecords in an encoded ledger. An invalid
// encoding counts the complete instance numbers only.
func (l *Ledger) Count(blob []byte) int64 {
	blob = blob[:len(blob)-len(blob)%instanceSize]
	v, _ := decode(blob)
	slices.Sort(v)
	return int64(len(slices.Compact(v)))
}
