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
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/frame"
	"github.com/jetsetilly/rerecord/version"
)

// ControlsVersion is the only version of the input encoding that is
// understood.
const ControlsVersion = "0"

// Sentinal errors.
const (
	NotMovie           = "moviefile: not a movie for this system (%s)"
	UnsupportedVersion = "moviefile: unsupported controls version (%s)"
	MissingMember      = "moviefile: missing member: %s"
	BadMember          = "moviefile: bad member: %s: %v"
	BadNumber          = "moviefile: %s: not a number: %s"
	BadSubsecond       = "moviefile: invalid RTC subsecond value: %s"
	BadInput           = "moviefile: input line %d: %v"
	OpenError          = "moviefile: %v"
)

// archive being read
type archive struct {
	files map[string]*zip.File
}

func (a archive) has(name string) bool {
	_, ok := a.files[name]
	return ok
}

func (a archive) open(name string) (io.ReadCloser, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, curated.Categorisedf(curated.Format, MissingMember, name)
	}
	r, err := f.Open()
	if err != nil {
		return nil, curated.Categorisedf(curated.Format, BadMember, name, err)
	}
	return r, nil
}

func (a archive) raw(name string) ([]byte, error) {
	r, err := a.open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, curated.Categorisedf(curated.Format, BadMember, name, err)
	}
	return b, nil
}

// lines calls the function for every line in the member. carriage returns at
// the end of a line are removed
func (a archive) lines(name string, fn func(n int, s string) error) error {
	r, err := a.open(name)
	if err != nil {
		return err
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<20)
	var n int
	for scanner.Scan() {
		if err := fn(n, strings.TrimSuffix(scanner.Text(), "\r")); err != nil {
			return err
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return curated.Categorisedf(curated.Format, BadMember, name, err)
	}
	return nil
}

// line returns the first line of the member. if the member is optional and
// missing then the default value is returned
func (a archive) line(name string, def string, optional bool) (string, error) {
	if optional && !a.has(name) {
		return def, nil
	}
	var v string
	err := a.lines(name, func(n int, s string) error {
		if n == 0 {
			v = s
		}
		return nil
	})
	return v, err
}

func (a archive) numeric(name string, def int64) (int64, error) {
	s, err := a.line(name, "", true)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, curated.Categorisedf(curated.Format, BadNumber, name, s)
	}
	return v, nil
}

// members with a prefix. the prefix is removed from the returned keys
func (a archive) prefixed(prefix string) (map[string][]byte, error) {
	m := make(map[string][]byte)
	for name := range a.files {
		if k, ok := strings.CutPrefix(name, prefix); ok {
			b, err := a.raw(name)
			if err != nil {
				return nil, err
			}
			m[k] = b
		}
	}
	return m, nil
}

// Open a movie file.
func Open(filename string, env *Environment) (*Movie, error) {
	m := &Movie{}
	if err := m.Load(filename, env); err != nil {
		return nil, err
	}
	return m, nil
}

// Load a movie file into an existing Movie. The movie is only changed if the
// file is loaded successfully.
func (m *Movie) Load(filename string, env *Environment) error {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return curated.Categorisedf(curated.Format, OpenError, err)
	}
	defer zr.Close()

	a := archive{files: make(map[string]*zip.File)}
	for _, f := range zr.File {
		a.files[f.Name] = f
	}

	n, err := load(a, env)
	if err != nil {
		return err
	}

	*m = *n
	return nil
}

func load(a archive, env *Environment) (*Movie, error) {
	m := &Movie{
		env:       env,
		MovieSRAM: make(map[string][]byte),
		SRAM:      make(map[string][]byte),
	}

	s, err := a.line("systemid", "", false)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(s, version.SystemIDPrefix) {
		return nil, curated.Categorisedf(curated.Format, NotMovie, s)
	}

	s, err = a.line("controlsversion", "", false)
	if err != nil {
		return nil, err
	}
	if s != ControlsVersion {
		return nil, curated.Categorisedf(curated.Format, UnsupportedVersion, s)
	}

	s, err = a.line("gametype", "", false)
	if err != nil {
		return nil, err
	}
	m.GameType, err = ParseGameType(s)
	if err != nil {
		return nil, err
	}

	port1, err := a.line("port1", controls.GamepadType, true)
	if err != nil {
		return nil, err
	}
	port2, err := a.line("port2", controls.NoneType, true)
	if err != nil {
		return nil, err
	}
	set, err := env.Ports(port1, port2)
	if err != nil {
		return nil, err
	}

	m.GameName, err = a.line("gamename", "", true)
	if err != nil {
		return nil, err
	}
	m.ProjectID, err = a.line("projectid", "", false)
	if err != nil {
		return nil, err
	}

	m.RRData, err = a.raw("rrdata")
	if err != nil {
		return nil, err
	}
	if env.Ledger != nil {
		m.Rerecords = env.Ledger.Count(m.RRData)
	} else {
		m.Rerecords, err = a.numeric("rerecords", 0)
		if err != nil {
			return nil, err
		}
	}

	m.CoreVersion, err = a.line("coreversion", "", false)
	if err != nil {
		return nil, err
	}

	for i := range NumSlots {
		m.Hashes[i], err = a.line(i.String()+".sha256", "", true)
		if err != nil {
			return nil, err
		}
	}

	m.StartTime.Second, err = a.numeric("starttime.second", DefaultRTCSecond)
	if err != nil {
		return nil, err
	}
	m.StartTime.Subsecond, err = a.numeric("starttime.subsecond", 0)
	if err != nil {
		return nil, err
	}
	m.SaveTime = m.StartTime

	if a.has("savestate") {
		m.Snapshot = true
		m.MovieState, err = a.raw("moviestate")
		if err != nil {
			return nil, err
		}
		if a.has("hostmemory") {
			m.HostMemory, err = a.raw("hostmemory")
			if err != nil {
				return nil, err
			}
		}
		m.SaveState, err = a.raw("savestate")
		if err != nil {
			return nil, err
		}
		m.SRAM, err = a.prefixed("sram.")
		if err != nil {
			return nil, err
		}
		m.ScreenshotData, err = a.raw("screenshot")
		if err != nil {
			return nil, err
		}
		m.SaveTime.Second, err = a.numeric("savetime.second", m.SaveTime.Second)
		if err != nil {
			return nil, err
		}
		m.SaveTime.Subsecond, err = a.numeric("savetime.subsecond", m.SaveTime.Subsecond)
		if err != nil {
			return nil, err
		}
	}

	for _, r := range []RTC{m.StartTime, m.SaveTime} {
		if r.Subsecond < 0 || r.Subsecond >= MaxRTCSubsecond {
			return nil, curated.Categorisedf(curated.Range, BadSubsecond, r)
		}
	}

	m.MovieSRAM, err = a.prefixed("moviesram.")
	if err != nil {
		return nil, err
	}

	err = a.lines("authors", func(_ int, s string) error {
		if s == "" {
			return nil
		}
		au, err := SplitAuthor(s)
		if err != nil {
			return err
		}
		m.Authors = append(m.Authors, au)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.Input = frame.NewVector(set)
	err = a.lines("input", func(n int, s string) error {
		if s == "" {
			return nil
		}
		f := frame.NewFrame(set)
		if err := f.Deserialize(s); err != nil {
			return curated.Errorf(BadInput, n+1, err)
		}
		return m.Input.Append(f)
	})
	if err != nil {
		return nil, err
	}

	m.setState(Loaded)

	return m, nil
}
