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

package moviefile

import (
	"time"

	"github.com/jetsetilly/rerecord/curated"
)

// Sentinal errors.
const (
	UnknownGameType = "moviefile: illegal game type: %s"
)

// Region of the console.
type Region int

// List of valid Region values.
const (
	NTSC Region = iota
	PAL
)

func (r Region) String() string {
	if r == PAL {
		return "PAL"
	}
	return "NTSC"
}

// ROMType is the kind of cartridge.
type ROMType int

// List of valid ROMType values.
const (
	ROMNone ROMType = iota
	ROMSNES
	ROMBSX
	ROMBSXSlotted
	ROMSufamiTurbo
	ROMSGB
)

// GameType combines the ROM type and the region.
type GameType int

// List of valid GameType values.
const (
	GameInvalid GameType = iota
	GameSNESNTSC
	GameSNESPAL
	GameBSX
	GameBSXSlotted
	GameSufamiTurbo
	GameSGBNTSC
	GameSGBPAL
)

var gameTypeNames = map[GameType]string{
	GameSNESNTSC:    "snes_ntsc",
	GameSNESPAL:     "snes_pal",
	GameBSX:         "bsx",
	GameBSXSlotted:  "bsxslotted",
	GameSufamiTurbo: "sufamiturbo",
	GameSGBNTSC:     "sgb_ntsc",
	GameSGBPAL:      "sgb_pal",
}

func (g GameType) String() string {
	if s, ok := gameTypeNames[g]; ok {
		return s
	}
	return "invalid"
}

// ParseGameType returns the GameType for the name used in movie files.
func ParseGameType(s string) (GameType, error) {
	for g, n := range gameTypeNames {
		if n == s {
			return g, nil
		}
	}
	return GameInvalid, curated.Categorisedf(curated.Format, UnknownGameType, s)
}

// ComposeGameType returns the GameType for a ROM type and region. The region
// is ignored for ROM types that only exist in one region.
func ComposeGameType(rom ROMType, region Region) GameType {
	switch rom {
	case ROMSNES:
		if region == PAL {
			return GameSNESPAL
		}
		return GameSNESNTSC
	case ROMBSX:
		return GameBSX
	case ROMBSXSlotted:
		return GameBSXSlotted
	case ROMSufamiTurbo:
		return GameSufamiTurbo
	case ROMSGB:
		if region == PAL {
			return GameSGBPAL
		}
		return GameSGBNTSC
	}
	return GameInvalid
}

// Region returns the region of the game type.
func (g GameType) Region() Region {
	switch g {
	case GameSNESPAL, GameSGBPAL:
		return PAL
	}
	return NTSC
}

// ROMType returns the ROM type of the game type.
func (g GameType) ROMType() ROMType {
	switch g {
	case GameSNESNTSC, GameSNESPAL:
		return ROMSNES
	case GameBSX:
		return ROMBSX
	case GameBSXSlotted:
		return ROMBSXSlotted
	case GameSufamiTurbo:
		return ROMSufamiTurbo
	case GameSGBNTSC, GameSGBPAL:
		return ROMSGB
	}
	return ROMNone
}

// frame timing of each region. a block of frames lasts an exact number of
// seconds. the duration of each frame in a block is a whole number of
// nanoseconds (stepW) and a fraction (stepN/blockFrames)
type timing struct {
	blockSeconds uint64
	blockFrames  uint64
	stepW        uint64
	stepN        uint64
}

var timings = [...]timing{
	NTSC: {blockSeconds: 178683, blockFrames: 10738636, stepW: 16639264, stepN: 596096},
	PAL:  {blockSeconds: 6448, blockFrames: 322445, stepW: 19997208, stepN: 266440},
}

// duration of a number of frames in the region
func (r Region) duration(frames uint64) time.Duration {
	m := timings[r]
	t := m.blockSeconds * uint64(time.Second) * (frames / m.blockFrames)
	frames %= m.blockFrames
	t += frames*m.stepW + frames*m.stepN/m.blockFrames
	return time.Duration(t)
}
