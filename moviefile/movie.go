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
	"crypto/sha256"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/frame"
	"github.com/jetsetilly/rerecord/logger"
	"github.com/jetsetilly/rerecord/portset"
	"github.com/jetsetilly/rerecord/version"
)

// Sentinal errors.
const (
	PortsInUse  = "moviefile: can not change port types of a movie with input"
	UnknownSlot = "moviefile: unknown ROM slot: %s"
)

// State of the movie with regard to the file it was loaded from or saved to.
type State int

// List of valid State values.
const (
	Fresh State = iota
	Loaded
	Dirty
	Saved
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Loaded:
		return "loaded"
	case Dirty:
		return "dirty"
	case Saved:
		return "saved"
	}
	return "unknown"
}

// Slot is a ROM slot. Each slot has a SHA-256 hash in the movie.
type Slot int

// List of valid Slot values.
const (
	SlotROM Slot = iota
	SlotROMXML
	SlotA
	SlotAXML
	SlotB
	SlotBXML
	NumSlots
)

var slotNames = [NumSlots]string{"rom", "romxml", "slota", "slotaxml", "slotb", "slotbxml"}

func (s Slot) String() string {
	if s < 0 || s >= NumSlots {
		return "unknown"
	}
	return slotNames[s]
}

// ParseSlot returns the Slot with the name returned by Slot.String().
func ParseSlot(s string) (Slot, error) {
	for i, n := range slotNames {
		if n == s {
			return Slot(i), nil
		}
	}
	return NumSlots, curated.Categorisedf(curated.Range, UnknownSlot, s)
}

// Hashes of the ROM slots. An empty string means the hash is not known.
type Hashes [NumSlots]string

// RTC values are stored in movies as a second and a subsecond.
const (
	MaxRTCSubsecond  = 3462619485019
	DefaultRTCSecond = 1000000000
)

// RTC is the value of the real time clock.
type RTC struct {
	Second    int64
	Subsecond int64
}

// DefaultRTC is the clock value of a new movie.
var DefaultRTC = RTC{Second: DefaultRTCSecond}

func (r RTC) String() string {
	return fmt.Sprintf("%d:%d", r.Second, r.Subsecond)
}

// Movie is the content of a movie file.
type Movie struct {
	env   *Environment
	state State

	// the fingerprint of the header and the number of mutations of the input
	// vector when the state was last set
	fingerprint [sha256.Size]byte
	mutations   uint64

	GameType    GameType
	GameName    string
	ProjectID   string
	CoreVersion string

	// the encoded ledger and the number of rerecords it contains. both are
	// replaced by the environment's ledger on save
	RRData    []byte
	Rerecords int64

	Hashes    Hashes
	StartTime RTC
	MovieSRAM map[string][]byte
	Authors   []Author

	// the layout of the input is the system port followed by the types in
	// ports one and two
	Input *frame.Vector

	// the snapshot members are only saved if Snapshot is true
	Snapshot       bool
	SaveTime       RTC
	MovieState     []byte
	SaveState      []byte
	HostMemory     []byte
	ScreenshotData []byte
	SRAM           map[string][]byte
}

// NewMovie is the preferred method of initialisation for the Movie type. The
// movie is for an NTSC SNES with a gamepad in port one, nothing in port two
// and a new project ID.
func NewMovie(env *Environment) (*Movie, error) {
	set, err := env.Ports(controls.GamepadType, controls.NoneType)
	if err != nil {
		return nil, err
	}

	m := &Movie{
		env:         env,
		GameType:    GameSNESNTSC,
		ProjectID:   strings.ReplaceAll(uuid.NewString(), "-", ""),
		CoreVersion: version.CoreVersion,
		StartTime:   DefaultRTC,
		SaveTime:    DefaultRTC,
		MovieSRAM:   make(map[string][]byte),
		SRAM:        make(map[string][]byte),
		Input:       frame.NewVector(set),
	}
	m.setState(Fresh)

	return m, nil
}

// Environment returns the environment the movie was created with.
func (m *Movie) Environment() *Environment {
	return m.env
}

func (m *Movie) setState(s State) {
	m.state = s
	m.fingerprint = m.hash()
	m.mutations = m.Input.Mutations()
}

// State returns the current state of the movie. A movie becomes Dirty as soon
// as any field or the input is changed. A Dirty movie stays Dirty until it is
// saved.
func (m *Movie) State() State {
	if m.state != Dirty {
		if m.Input.Mutations() != m.mutations || m.hash() != m.fingerprint {
			m.state = Dirty
		}
	}
	return m.state
}

// hash of every member except the input
func (m *Movie) hash() [sha256.Size]byte {
	h := sha256.New()
	for _, mb := range m.header() {
		fmt.Fprintf(h, "%s:%d:", mb.name, len(mb.data))
		h.Write(mb.data)
	}
	var s [sha256.Size]byte
	copy(s[:], h.Sum(nil))
	return s
}

// Equal returns true if both movies have the same content.
func (m *Movie) Equal(o *Movie) bool {
	return m.hash() == o.hash() && m.Input.Equal(o.Input)
}

// Ports returns the layout of the input.
func (m *Movie) Ports() *portset.Set {
	return m.Input.Set()
}

// Port returns the name of the controller type in a port.
func (m *Movie) Port(port int) string {
	d := m.Input.Set().PortType(port)
	if d == nil {
		return ""
	}
	return d.Name()
}

// SetPorts changes the controller types in ports one and two. The port types
// can only be changed if the movie has no input.
func (m *Movie) SetPorts(port1 string, port2 string) error {
	set, err := m.env.Ports(port1, port2)
	if err != nil {
		return err
	}
	if set == m.Input.Set() {
		return nil
	}
	if m.Input.Len() > 0 {
		return curated.Categorisedf(curated.TypeMismatch, PortsInUse)
	}
	m.Input.Reset(set)
	return nil
}

// Length returns the duration of the movie. The number of frames to ignore
// at the start of the movie is given by the bias argument.
func (m *Movie) Length(bias uint64) time.Duration {
	frames := uint64(m.Input.CountFrames())
	if frames > bias {
		frames -= bias
	} else {
		frames = 0
	}
	return m.GameType.Region().duration(frames)
}

// CheckHashes compares the hashes in the movie with the hashes of the ROMs
// being used. A mismatch is logged as a warning. Slots where either hash is
// unknown are not compared. Returns false if there was a mismatch.
func (m *Movie) CheckHashes(actual Hashes) bool {
	ok := true
	for s := range NumSlots {
		if m.Hashes[s] == "" || actual[s] == "" {
			continue
		}
		if !strings.EqualFold(m.Hashes[s], actual[s]) {
			logger.Logf(logger.Allow, "moviefile", "warning: %s checksum mismatch (movie %s, actual %s)",
				s, m.Hashes[s], actual[s])
			ok = false
		}
	}
	return ok
}

// CheckCoreVersion logs a warning if the movie was saved with a different
// core version. Returns false if the versions differ.
func (m *Movie) CheckCoreVersion() bool {
	if m.CoreVersion != version.CoreVersion {
		logger.Logf(logger.Allow, "moviefile", "warning: movie is for core version %q (this is %q)",
			m.CoreVersion, version.CoreVersion)
		return false
	}
	return true
}

// member of the archive
type member struct {
	name string
	data []byte
}

func line(s string) []byte {
	return []byte(s + "\n")
}

func numeric(v int64) []byte {
	return line(strconv.FormatInt(v, 10))
}

// every member of the archive except the input in the order they are saved
func (m *Movie) header() []member {
	var h []member

	add := func(name string, data []byte) {
		h = append(h, member{name: name, data: data})
	}

	add("gametype", line(m.GameType.String()))
	if p := m.Port(1); p != controls.GamepadType {
		add("port1", line(p))
	}
	if p := m.Port(2); p != controls.NoneType {
		add("port2", line(p))
	}
	if m.GameName != "" {
		add("gamename", line(m.GameName))
	}
	add("systemid", line(version.SystemID))
	add("controlsversion", line(ControlsVersion))
	add("coreversion", line(m.CoreVersion))
	add("projectid", line(m.ProjectID))
	add("rrdata", m.RRData)
	add("rerecords", numeric(m.Rerecords))
	for s, v := range m.Hashes {
		if v != "" {
			add(Slot(s).String()+".sha256", line(v))
		}
	}
	for _, k := range slices.Sorted(maps.Keys(m.MovieSRAM)) {
		add("moviesram."+k, m.MovieSRAM[k])
	}
	add("starttime.second", numeric(m.StartTime.Second))
	add("starttime.subsecond", numeric(m.StartTime.Subsecond))

	if m.Snapshot {
		add("moviestate", m.MovieState)
		add("hostmemory", m.HostMemory)
		add("savestate", m.SaveState)
		add("screenshot", m.ScreenshotData)
		for _, k := range slices.Sorted(maps.Keys(m.SRAM)) {
			add("sram."+k, m.SRAM[k])
		}
		add("savetime.second", numeric(m.SaveTime.Second))
		add("savetime.subsecond", numeric(m.SaveTime.Subsecond))
	}

	var authors strings.Builder
	for _, a := range m.Authors {
		authors.WriteString(a.String())
		authors.WriteString("\n")
	}
	add("authors", []byte(authors.String()))

	return h
}
