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

package moviefile_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/frame"
	"github.com/jetsetilly/rerecord/logger"
	"github.com/jetsetilly/rerecord/moviefile"
	"github.com/jetsetilly/rerecord/test"
	"github.com/jetsetilly/rerecord/version"
)

// append n records to the movie. every other record is the start of a frame
func record(t *testing.T, m *moviefile.Movie, n int) {
	t.Helper()
	for i := range n {
		f := frame.NewFrame(m.Ports())
		f.SetSync(i%2 == 0)
		f.SetAxis(1, 0, i%12, 1)
		test.DemandSuccess(t, m.Input.Append(f))
	}
}

// write a zip archive containing the members
func writeArchive(t *testing.T, filename string, members map[string]string) {
	t.Helper()
	f, err := os.Create(filename)
	test.DemandSuccess(t, err)
	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		test.DemandSuccess(t, err)
		_, err = w.Write([]byte(content))
		test.DemandSuccess(t, err)
	}
	test.DemandSuccess(t, zw.Close())
	test.DemandSuccess(t, f.Close())
}

// the smallest set of members that make a valid movie
func minimal() map[string]string {
	return map[string]string{
		"systemid":        "lsnes-rr1\n",
		"controlsversion": "0\n",
		"gametype":        "snes_ntsc\n",
		"projectid":       "0123456789abcdef\n",
		"rrdata":          "",
		"coreversion":     version.CoreVersion + "\n",
		"authors":         "",
		"input":           "",
	}
}

func TestNewMovie(t *testing.T) {
	env := moviefile.NewEnvironment()
	m, err := moviefile.NewMovie(env)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, m.State(), moviefile.Fresh)
	test.ExpectEquality(t, len(m.ProjectID), 32)
	test.ExpectEquality(t, m.Port(1), controls.GamepadType)
	test.ExpectEquality(t, m.Port(2), controls.NoneType)
	test.ExpectEquality(t, m.StartTime, moviefile.DefaultRTC)
	test.ExpectEquality(t, m.GameType, moviefile.GameSNESNTSC)

	other, err := moviefile.NewMovie(env)
	test.DemandSuccess(t, err)
	test.ExpectInequality(t, other.ProjectID, m.ProjectID)

	// changing a field makes the movie dirty
	m.GameName = "test"
	test.ExpectEquality(t, m.State(), moviefile.Dirty)

	// changing the input makes the movie dirty
	test.ExpectEquality(t, other.State(), moviefile.Fresh)
	record(t, other, 1)
	test.ExpectEquality(t, other.State(), moviefile.Dirty)
}

func TestSetPorts(t *testing.T) {
	m, err := moviefile.NewMovie(moviefile.NewEnvironment())
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, m.SetPorts(controls.MouseType, controls.SuperscopeType))
	test.ExpectEquality(t, m.Port(1), controls.MouseType)
	test.ExpectEquality(t, m.Port(2), controls.SuperscopeType)

	// the superscope can not be plugged into port one
	err = m.SetPorts(controls.SuperscopeType, controls.NoneType)
	test.ExpectSuccess(t, curated.Is(err, controls.IllegalPort))
	test.ExpectEquality(t, m.Port(1), controls.MouseType)

	record(t, m, 1)
	err = m.SetPorts(controls.GamepadType, controls.GamepadType)
	test.ExpectSuccess(t, curated.InCategory(err, curated.TypeMismatch))

	// setting the same types is allowed
	test.ExpectSuccess(t, m.SetPorts(controls.MouseType, controls.SuperscopeType))
}

func TestRoundTrip(t *testing.T) {
	env := moviefile.NewEnvironment()
	m, err := moviefile.NewMovie(env)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, m.SetPorts(controls.GamepadType, controls.MultitapType))
	m.GameType = moviefile.GameSNESPAL
	m.GameName = "Test Game"
	m.Hashes[moviefile.SlotROM] = strings.Repeat("ab", 32)
	m.Hashes[moviefile.SlotBXML] = strings.Repeat("cd", 32)
	m.StartTime = moviefile.RTC{Second: 1234, Subsecond: 5678}
	m.MovieSRAM["srama"] = []byte{1, 2, 3}
	m.MovieSRAM["empty"] = []byte{}
	m.Authors = []moviefile.Author{
		{FullName: "Full Name", NickName: "nick"},
		{FullName: "Only Full"},
		{NickName: "onlynick"},
	}
	m.Snapshot = true
	m.SaveTime = moviefile.RTC{Second: 2000, Subsecond: moviefile.MaxRTCSubsecond - 1}
	m.MovieState = []byte("movie state")
	m.SaveState = []byte("save state")
	m.SRAM["srama"] = []byte{4, 5, 6}
	m.SetScreenshot(image.NewRGBA(image.Rect(0, 0, 8, 4)))
	record(t, m, 100)

	env.Ledger.ReadBase(m.ProjectID)
	for range 3 {
		env.Ledger.AddInternal()
	}

	filename := filepath.Join(t.TempDir(), "test.lsmv")
	test.DemandSuccess(t, m.Save(filename, moviefile.DefaultCompression))
	test.ExpectEquality(t, m.State(), moviefile.Saved)
	test.ExpectEquality(t, m.Rerecords, int64(3))
	test.ExpectEquality(t, len(m.RRData), 24)

	n, err := moviefile.Open(filename, env)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n.State(), moviefile.Loaded)
	test.ExpectSuccess(t, n.Equal(m))
	test.ExpectSuccess(t, n.Input.Equal(m.Input))
	test.ExpectEquality(t, n.Input.Len(), 100)
	test.ExpectEquality(t, n.Input.CountFrames(), 50)
	test.ExpectEquality(t, n.Port(2), controls.MultitapType)
	test.ExpectEquality(t, n.GameType, moviefile.GameSNESPAL)
	test.ExpectEquality(t, n.Rerecords, int64(3))
	test.ExpectEquality(t, n.SaveTime, m.SaveTime)
	test.ExpectEquality(t, len(n.Authors), 3)
	test.ExpectEquality(t, n.Authors[2], moviefile.Author{NickName: "onlynick"})
	test.ExpectEquality(t, len(n.MovieSRAM["empty"]), 0)
	_, ok := n.MovieSRAM["empty"]
	test.ExpectSuccess(t, ok)

	// changing a record of the loaded movie makes it dirty
	f, err := n.Input.Index(10)
	test.DemandSuccess(t, err)
	f.SetAxis(2, 3, 0, 1)
	test.ExpectEquality(t, n.State(), moviefile.Dirty)
	test.ExpectFailure(t, n.Equal(m))

	// no temporary files are left behind
	entries, err := os.ReadDir(filepath.Dir(filename))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(entries), 1)
}

func TestEmptyMovie(t *testing.T) {
	env := moviefile.NewEnvironment()
	m, err := moviefile.NewMovie(env)
	test.DemandSuccess(t, err)
	env.Ledger.ReadBase(m.ProjectID)

	filename := filepath.Join(t.TempDir(), "empty.lsmv")
	test.DemandSuccess(t, m.Save(filename, 0))

	n, err := moviefile.Open(filename, env)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, n.Equal(m))
	test.ExpectEquality(t, n.Input.Len(), 0)
	test.ExpectEquality(t, n.Rerecords, int64(0))
	test.ExpectFailure(t, n.Snapshot)

	err = m.Save(filename, 10)
	test.ExpectSuccess(t, curated.Is(err, moviefile.BadCompression))

	// saving to a directory that does not exist fails without creating the
	// file
	missing := filepath.Join(t.TempDir(), "missing", "movie.lsmv")
	err = m.Save(missing, 1)
	test.ExpectSuccess(t, curated.InCategory(err, curated.Resource))
	_, err = os.Stat(missing)
	test.ExpectFailure(t, err)

	// a movie without a game type can not be loaded so it is never saved
	m.GameType = moviefile.GameInvalid
	invalid := filepath.Join(t.TempDir(), "invalid.lsmv")
	err = m.Save(invalid, 1)
	test.ExpectSuccess(t, curated.Is(err, moviefile.InvalidGameType))
	_, err = os.Stat(invalid)
	test.ExpectFailure(t, err)
}

func TestFreshMovieRoundTrip(t *testing.T) {
	m, err := moviefile.NewMovie(moviefile.NewEnvironment())
	test.DemandSuccess(t, err)

	filename := filepath.Join(t.TempDir(), "fresh.lsmv")
	test.DemandSuccess(t, m.Save(filename, moviefile.DefaultCompression))

	n, err := moviefile.Open(filename, moviefile.NewEnvironment())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n.GameType, moviefile.GameSNESNTSC)
	test.ExpectEquality(t, n.ProjectID, m.ProjectID)
	test.ExpectSuccess(t, n.Input.Equal(m.Input))
}

func TestSaveKeepsLedger(t *testing.T) {
	env := moviefile.NewEnvironment()
	m, err := moviefile.NewMovie(env)
	test.DemandSuccess(t, err)
	record(t, m, 4)

	env.Ledger.ReadBase(m.ProjectID)
	for range 3 {
		env.Ledger.AddInternal()
	}

	dir := t.TempDir()
	filename := filepath.Join(dir, "movie.lsmv")
	test.DemandSuccess(t, m.Save(filename, moviefile.DefaultCompression))
	test.ExpectEquality(t, m.Rerecords, int64(3))

	// the ledger of a new environment has no project so the ledger members
	// of the movie are saved unchanged
	n, err := moviefile.Open(filename, moviefile.NewEnvironment())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n.Rerecords, int64(3))
	test.ExpectEquality(t, len(n.RRData), 24)

	resaved := filepath.Join(dir, "resaved.lsmv")
	test.DemandSuccess(t, n.Save(resaved, moviefile.DefaultCompression))
	test.ExpectEquality(t, n.Rerecords, int64(3))
	test.ExpectEquality(t, len(n.RRData), 24)

	o, err := moviefile.Open(resaved, moviefile.NewEnvironment())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, o.Rerecords, int64(3))
	test.ExpectEquality(t, string(o.RRData), string(n.RRData))

	// a ledger for a different project is not stamped onto the movie
	other := moviefile.NewEnvironment()
	other.Ledger.ReadBase("0123456789abcdef")
	other.Ledger.AddInternal()
	p, err := moviefile.Open(resaved, other)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Save(resaved, moviefile.DefaultCompression))
	test.ExpectEquality(t, p.Rerecords, int64(3))
	test.ExpectEquality(t, string(p.RRData), string(n.RRData))

	// once the ledger is primed for the project new rerecords are added
	primed := moviefile.NewEnvironment()
	q, err := moviefile.Open(resaved, primed)
	test.DemandSuccess(t, err)
	primed.Ledger.ReadBase(q.ProjectID)
	test.DemandSuccess(t, primed.Ledger.Read(q.RRData))
	primed.Ledger.AddInternal()
	test.DemandSuccess(t, q.Save(resaved, moviefile.DefaultCompression))
	test.ExpectEquality(t, q.Rerecords, int64(4))
}

func TestMinimal(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "minimal.lsmv")
	writeArchive(t, filename, minimal())

	m, err := moviefile.Open(filename, moviefile.NewEnvironment())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Port(1), controls.GamepadType)
	test.ExpectEquality(t, m.Port(2), controls.NoneType)
	test.ExpectEquality(t, m.StartTime, moviefile.DefaultRTC)
	test.ExpectEquality(t, m.GameType, moviefile.GameSNESNTSC)
	test.ExpectEquality(t, m.ProjectID, "0123456789abcdef")
	test.ExpectSuccess(t, m.CheckCoreVersion())
}

func TestInput(t *testing.T) {
	members := minimal()
	members["port2"] = "gamepad\r\n"
	members["input"] = "F.|....u...A...|............\r\n\n..|............|B...........\n"

	filename := filepath.Join(t.TempDir(), "input.lsmv")
	writeArchive(t, filename, members)

	m, err := moviefile.Open(filename, moviefile.NewEnvironment())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Port(2), controls.GamepadType)
	test.ExpectEquality(t, m.Input.Len(), 2)
	test.ExpectEquality(t, m.Input.CountFrames(), 1)

	f, err := m.Input.Index(0)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, f.Sync())
	test.ExpectEquality(t, f.Axis(1, 0, 4), int16(1))
	test.ExpectEquality(t, f.Axis(1, 0, 8), int16(1))

	f, err = m.Input.Index(1)
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, f.Sync())
	test.ExpectEquality(t, f.Axis(2, 0, 0), int16(1))
}

func TestLoadErrors(t *testing.T) {
	env := moviefile.NewEnvironment()

	for _, c := range []struct {
		name     string
		change   func(map[string]string)
		pattern  string
		category curated.Category
	}{
		{"systemid", func(m map[string]string) { m["systemid"] = "other\n" }, moviefile.NotMovie, curated.Format},
		{"controlsversion", func(m map[string]string) { m["controlsversion"] = "1\n" }, moviefile.UnsupportedVersion, curated.Format},
		{"gametype", func(m map[string]string) { m["gametype"] = "nes\n" }, moviefile.UnknownGameType, curated.Format},
		{"port1", func(m map[string]string) { m["port1"] = "superscope\n" }, controls.IllegalPort, curated.Format},
		{"port2", func(m map[string]string) { m["port2"] = "keyboard\n" }, controls.UnknownType, curated.Format},
		{"input", func(m map[string]string) { delete(m, "input") }, moviefile.MissingMember, curated.Format},
		{"rrdata", func(m map[string]string) { delete(m, "rrdata") }, moviefile.MissingMember, curated.Format},
		{"subsecond", func(m map[string]string) { m["starttime.subsecond"] = "3462619485019\n" }, moviefile.BadSubsecond, curated.Range},
		{"negative", func(m map[string]string) { m["starttime.subsecond"] = "-1\n" }, moviefile.BadSubsecond, curated.Range},
		{"number", func(m map[string]string) { m["starttime.second"] = "soon\n" }, moviefile.BadNumber, curated.Format},
		{"author", func(m map[string]string) { m["authors"] = "a|b\n|\n" }, moviefile.EmptyAuthor, curated.Format},
		{"snapshot", func(m map[string]string) { m["savestate"] = "x" }, moviefile.MissingMember, curated.Format},
	} {
		members := minimal()
		c.change(members)
		filename := filepath.Join(t.TempDir(), c.name+".lsmv")
		writeArchive(t, filename, members)

		_, err := moviefile.Open(filename, env)
		test.ExpectSuccess(t, curated.Is(err, c.pattern), c.name)
		test.ExpectSuccess(t, curated.InCategory(err, c.category), c.name)
	}

	_, err := moviefile.Open(filepath.Join(t.TempDir(), "missing.lsmv"), env)
	test.ExpectSuccess(t, curated.InCategory(err, curated.Format))
}

func TestLoadFailureLeavesMovie(t *testing.T) {
	env := moviefile.NewEnvironment()
	m, err := moviefile.NewMovie(env)
	test.DemandSuccess(t, err)
	record(t, m, 10)
	m.GameName = "unchanged"
	before := m.State()

	members := minimal()
	members["systemid"] = "other-rr1\n"
	filename := filepath.Join(t.TempDir(), "bad.lsmv")
	writeArchive(t, filename, members)

	err = m.Load(filename, env)
	test.ExpectSuccess(t, curated.InCategory(err, curated.Format))
	test.ExpectEquality(t, m.GameName, "unchanged")
	test.ExpectEquality(t, m.Input.Len(), 10)
	test.ExpectEquality(t, m.State(), before)
}

func TestSplitAuthor(t *testing.T) {
	a, err := moviefile.SplitAuthor("Full Name|nick")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, a, moviefile.Author{FullName: "Full Name", NickName: "nick"})
	test.ExpectEquality(t, a.String(), "Full Name|nick")
	test.ExpectEquality(t, a.Display(), "nick")

	a, err = moviefile.SplitAuthor("Full Name")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, a.NickName, "")
	test.ExpectEquality(t, a.String(), "Full Name")
	test.ExpectEquality(t, a.Display(), "Full Name")

	a, err = moviefile.SplitAuthor("|nick")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, a.FullName, "")
	test.ExpectEquality(t, a.String(), "|nick")

	_, err = moviefile.SplitAuthor("|")
	test.ExpectSuccess(t, curated.Is(err, moviefile.EmptyAuthor))
	_, err = moviefile.SplitAuthor("")
	test.ExpectSuccess(t, curated.Is(err, moviefile.EmptyAuthor))

	// decomposed characters are composed
	a, err = moviefile.SplitAuthor("Rene\u0301")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, a.FullName, "Ren\u00e9")
}

func TestGameType(t *testing.T) {
	for _, g := range []moviefile.GameType{
		moviefile.GameSNESNTSC, moviefile.GameSNESPAL, moviefile.GameBSX,
		moviefile.GameBSXSlotted, moviefile.GameSufamiTurbo,
		moviefile.GameSGBNTSC, moviefile.GameSGBPAL,
	} {
		p, err := moviefile.ParseGameType(g.String())
		test.DemandSuccess(t, err, g)
		test.ExpectEquality(t, p, g)
		test.ExpectEquality(t, moviefile.ComposeGameType(g.ROMType(), g.Region()), g)
	}

	test.ExpectEquality(t, moviefile.GameSGBPAL.Region(), moviefile.PAL)
	test.ExpectEquality(t, moviefile.GameBSX.Region(), moviefile.NTSC)
	test.ExpectEquality(t, moviefile.ComposeGameType(moviefile.ROMBSX, moviefile.PAL), moviefile.GameBSX)
	test.ExpectEquality(t, moviefile.ComposeGameType(moviefile.ROMNone, moviefile.PAL), moviefile.GameInvalid)
}

func TestLength(t *testing.T) {
	m, err := moviefile.NewMovie(moviefile.NewEnvironment())
	test.DemandSuccess(t, err)

	// 60 logical frames
	record(t, m, 120)

	m.GameType = moviefile.GameSNESNTSC
	test.ExpectEquality(t, m.Length(0), time.Duration(998355843))

	m.GameType = moviefile.GameSNESPAL
	test.ExpectEquality(t, m.Length(10), time.Duration(999860441))

	test.ExpectEquality(t, m.Length(1000), time.Duration(0))
}

func TestChecks(t *testing.T) {
	m, err := moviefile.NewMovie(moviefile.NewEnvironment())
	test.DemandSuccess(t, err)
	m.Hashes[moviefile.SlotROM] = "aaaa"
	m.Hashes[moviefile.SlotA] = "bbbb"

	logger.Clear()

	var actual moviefile.Hashes
	actual[moviefile.SlotROM] = "AAAA"
	actual[moviefile.SlotB] = "cccc"
	test.ExpectSuccess(t, m.CheckHashes(actual))
	test.ExpectEquality(t, len(logger.Entries()), 0)

	actual[moviefile.SlotA] = "dddd"
	test.ExpectFailure(t, m.CheckHashes(actual))
	e := logger.Entries()
	test.DemandEquality(t, len(e), 1)
	test.ExpectSuccess(t, strings.HasPrefix(e[0].Detail, "warning: slota"))

	m.CoreVersion = "other core"
	test.ExpectFailure(t, m.CheckCoreVersion())
	test.ExpectEquality(t, len(logger.Entries()), 2)

	s, err := moviefile.ParseSlot("slotbxml")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s, moviefile.SlotBXML)
	_, err = moviefile.ParseSlot("slotc")
	test.ExpectSuccess(t, curated.Is(err, moviefile.UnknownSlot))
}

func TestScreenshot(t *testing.T) {
	m, err := moviefile.NewMovie(moviefile.NewEnvironment())
	test.DemandSuccess(t, err)

	_, err = m.Screenshot()
	test.ExpectSuccess(t, curated.Is(err, moviefile.NoScreenshot))

	img := image.NewRGBA(image.Rect(0, 0, 5, 3))
	img.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetRGBA(4, 2, color.RGBA{R: 255, G: 0, B: 128, A: 255})
	m.SetScreenshot(img)
	test.ExpectEquality(t, len(m.ScreenshotData), 2+5*3*3)

	back, err := m.Screenshot()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, back.Bounds(), img.Bounds())
	test.ExpectEquality(t, back.RGBAAt(0, 0), img.RGBAAt(0, 0))
	test.ExpectEquality(t, back.RGBAAt(4, 2), img.RGBAAt(4, 2))
	test.ExpectEquality(t, back.RGBAAt(1, 1), color.RGBA{A: 255})

	m.ScreenshotData = m.ScreenshotData[:len(m.ScreenshotData)-1]
	_, err = m.Screenshot()
	test.ExpectSuccess(t, curated.InCategory(err, curated.Format))
}
