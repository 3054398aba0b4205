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

package random

import (
	"math/rand/v2"
	"time"
)

// the base seed for all random numbers
var baseSeed uint64

// initialise base seed
func init() {
	baseSeed = uint64(time.Now().UnixNano())
}

// Position is the value that random numbers are derived from. For example,
// the number of rerecords made in a session.
type Position interface {
	RandomPosition() uint64
}

// Random is a random number generator that is sensitive to a position
// supplied by the caller.
type Random struct {
	pos Position

	// use zero seed rather than the random base seed. this is only really
	// useful for instances where random numbers must be predictable
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(pos Position) *Random {
	return &Random{
		pos: pos,
	}
}

// new RNG from the standard library
func (rnd *Random) rand() *rand.Rand {
	var p uint64
	if rnd.pos != nil {
		p = rnd.pos.RandomPosition()
	}
	if rnd.ZeroSeed {
		return rand.New(rand.NewPCG(0, p))
	}
	return rand.New(rand.NewPCG(baseSeed, p))
}

// Intn returns a number in the range 0 to n-1 for the current position.
func (rnd *Random) Intn(n int) int {
	return rnd.rand().IntN(n)
}

// Uint32 returns a number for the current position.
func (rnd *Random) Uint32() uint32 {
	return rnd.rand().Uint32()
}
