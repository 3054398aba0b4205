//go:build !release

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

package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/jetsetilly/rerecord/moviefile"
	"github.com/jetsetilly/rerecord/test"
)

func run(t *testing.T, args ...string) (int, *test.CompareWriter) {
	t.Helper()
	w := &test.CompareWriter{}
	return launch(args, w), w
}

func field(name string, value any) string {
	return fmt.Sprintf("%-12s %v\n", name+":", value)
}

func TestNewAndInfo(t *testing.T) {
	t.Chdir(t.TempDir())

	r, w := run(t, "NEW", "-frames", "3", "-author", "Jane Doe|jd", "-name", "Test Game", "movie.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains("created movie.lsmv"))

	// the movie will not be overwritten
	r, w = run(t, "NEW", "movie.lsmv")
	test.ExpectEquality(t, r, exitMode)
	test.ExpectSuccess(t, w.Contains("* error in NEW mode"))

	r, w = run(t, "INFO", "movie.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains(field("game type", "snes_ntsc")))
	test.ExpectSuccess(t, w.Contains(field("game name", "Test Game")))
	test.ExpectSuccess(t, w.Contains(field("port 1", "gamepad")))
	test.ExpectSuccess(t, w.Contains(field("port 2", "none")))
	test.ExpectSuccess(t, w.Contains(field("authors", "Jane Doe|jd")))
	test.ExpectSuccess(t, w.Contains(field("rerecords", 0)))
	test.ExpectSuccess(t, w.Contains(field("records", 3)))
	test.ExpectSuccess(t, w.Contains(field("frames", 3)))

	// INFO is the default mode
	r, w = run(t, "movie.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains(field("records", 3)))
}

func TestArguments(t *testing.T) {
	t.Chdir(t.TempDir())

	r, _ := run(t, "-help")
	test.ExpectEquality(t, r, 0)

	r, w := run(t, "INFO")
	test.ExpectEquality(t, r, exitMode)
	test.ExpectSuccess(t, w.Contains("* error in INFO mode"))

	r, _ = run(t, "INFO", "a.lsmv", "b.lsmv")
	test.ExpectEquality(t, r, exitMode)

	r, _ = run(t, "INFO", "missing.lsmv")
	test.ExpectEquality(t, r, exitMode)

	r, _ = run(t, "NEW", "-gametype", "nes", "movie.lsmv")
	test.ExpectEquality(t, r, exitMode)
	_, err := os.Stat("movie.lsmv")
	test.ExpectFailure(t, err)

	r, w = run(t, "-version")
	test.ExpectEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains("Rerecord"))
}

func TestPrefsFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	r, _ := run(t, "-prefs", "rerecord.author::Jane Doe|jd; rerecord.compression::0", "NEW", "a.lsmv")
	test.DemandEquality(t, r, 0)
	r, w := run(t, "INFO", "a.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains(field("authors", "Jane Doe|jd")))

	// the values are not saved in the preferences file
	r, _ = run(t, "NEW", "b.lsmv")
	test.DemandEquality(t, r, 0)
	r, w = run(t, "INFO", "b.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains(field("authors", "")))

	// preference values are checked
	r, w = run(t, "-prefs", "rerecord.compression::10", "NEW", "c.lsmv")
	test.ExpectEquality(t, r, exitParse)
	test.ExpectSuccess(t, w.Contains("compression level"))
	_, err := os.Stat("c.lsmv")
	test.ExpectFailure(t, err)

	r, w = run(t, "-prefs", "rerecord.compression", "NEW", "c.lsmv")
	test.ExpectEquality(t, r, exitParse)
	test.ExpectSuccess(t, w.Contains("not a key::value pair"))

	// values that no preference uses are reported in the log
	r, w = run(t, "-log", "-prefs", "rerecord.colour::blue", "INFO", "a.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains("unused -prefs values: rerecord.colour::blue"))

	// a failed run leaves nothing behind for the next run
	r, _ = run(t, "-prefs", "rerecord.author::Someone; rerecord.compression::10", "NEW", "d.lsmv")
	test.ExpectEquality(t, r, exitParse)
	r, _ = run(t, "NEW", "d.lsmv")
	test.DemandEquality(t, r, 0)
	r, w = run(t, "INFO", "d.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains(field("authors", "")))
}

func TestDumpAndMacro(t *testing.T) {
	t.Chdir(t.TempDir())

	r, _ := run(t, "NEW", "-frames", "4", "movie.lsmv")
	test.DemandEquality(t, r, 0)

	r, w := run(t, "DUMP", "movie.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectEquality(t, strings.Count(w.String(), "\n"), 4)
	test.ExpectSuccess(t, w.Contains("       0        1 F-0 0 ------------\n"))
	test.ExpectSuccess(t, w.Contains("       3        4 F-0 0 ------------\n"))

	r, w = run(t, "MACRO", "-check", "A.B", "movie.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Compare("ok\n"))

	r, w = run(t, "MACRO", "-check", "A)", "movie.lsmv")
	test.ExpectEquality(t, r, exitMode)
	test.ExpectSuccess(t, w.Contains("unmatched right parenthesis"))

	r, _ = run(t, "MACRO", "-from", "1", "-save", "ab.macro", "A.B", "movie.lsmv")
	test.DemandEquality(t, r, 0)

	r, w = run(t, "DUMP", "-from", "1", "-count", "3", "movie.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Compare(
		"       1        2 F-0 0 --------A---\n"+
			"       2        3 F-0 0 B-----------\n"+
			"       3        4 F-0 0 --------A---\n"))

	r, w = run(t, "INFO", "movie.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains(field("rerecords", 1)))

	// apply the saved macro to the first record of a copy of the movie
	r, _ = run(t, "MACRO", "-load", "ab.macro", "-count", "1", "-out", "copy.lsmv", "movie.lsmv")
	test.DemandEquality(t, r, 0)

	r, w = run(t, "DUMP", "-count", "1", "copy.lsmv")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Compare("       0        1 F-0 0 --------A---\n"))

	r, _ = run(t, "DUMP", "-from", "4", "movie.lsmv")
	test.ExpectEquality(t, r, exitMode)

	r, _ = run(t, "MACRO", "-port", "2", "A", "movie.lsmv")
	test.ExpectEquality(t, r, exitMode)
}

func TestLayout(t *testing.T) {
	t.Chdir(t.TempDir())

	r, w := run(t, "LAYOUT")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains("port 1: Gamepad"))
	test.ExpectSuccess(t, w.Contains("port 2: None"))
	test.ExpectSuccess(t, w.Contains(" framesync\n"))
	test.ExpectSuccess(t, w.Contains(" start\n"))

	r, w = run(t, "LAYOUT", "-port2", "multitap")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains("port 2: Multitap"))

	r, w = run(t, "LAYOUT", "-dot")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains("digraph"))

	r, _ = run(t, "LAYOUT", "-port1", "nosuchtype")
	test.ExpectEquality(t, r, exitMode)
}

func TestVerify(t *testing.T) {
	t.Chdir(t.TempDir())

	rom := []byte("abc")
	test.DemandSuccess(t, os.WriteFile("game.sfc", rom, 0600))

	env := moviefile.NewEnvironment()
	m, err := moviefile.NewMovie(env)
	test.DemandSuccess(t, err)
	m.GameType = moviefile.GameSNESNTSC
	m.Hashes[moviefile.SlotROM] = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	test.DemandSuccess(t, m.Save("good.lsmv", moviefile.DefaultCompression))

	m.Hashes[moviefile.SlotROM] = strings.Repeat("00", 32)
	test.DemandSuccess(t, m.Save("bad.lsmv", moviefile.DefaultCompression))

	r, w := run(t, "VERIFY", "good.lsmv", "game.sfc")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains("ok\n"))

	r, w = run(t, "VERIFY", "bad.lsmv", "game.sfc")
	test.ExpectEquality(t, r, exitMode)
	test.ExpectSuccess(t, w.Contains("does not match"))

	// the slot A hash is not known so it is not compared
	r, _ = run(t, "VERIFY", "-slot", "slota", "bad.lsmv", "game.sfc")
	test.ExpectEquality(t, r, 0)

	r, _ = run(t, "VERIFY", "-slot", "slotb", "good.lsmv", "game.sfc", "game.sfc")
	test.ExpectEquality(t, r, exitMode)

	r, _ = run(t, "VERIFY", "good.lsmv")
	test.ExpectEquality(t, r, exitMode)
}

func TestScreenshot(t *testing.T) {
	t.Chdir(t.TempDir())

	env := moviefile.NewEnvironment()
	m, err := moviefile.NewMovie(env)
	test.DemandSuccess(t, err)
	m.GameType = moviefile.GameSNESNTSC
	test.DemandSuccess(t, m.Save("plain.lsmv", moviefile.DefaultCompression))

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.SetRGBA(3, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	m.Snapshot = true
	m.MovieState = []byte("movie state")
	m.SaveState = []byte("save state")
	m.SetScreenshot(img)
	test.DemandSuccess(t, m.Save("snapshot.lsmv", moviefile.DefaultCompression))

	r, _ := run(t, "SCREENSHOT", "plain.lsmv", "out.bmp")
	test.ExpectEquality(t, r, exitMode)

	r, w := run(t, "SCREENSHOT", "snapshot.lsmv", "out.bmp")
	test.DemandEquality(t, r, 0)
	test.ExpectSuccess(t, w.Contains("(4x2)"))

	f, err := os.Open("out.bmp")
	test.DemandSuccess(t, err)
	defer f.Close()

	back, err := bmp.Decode(f)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, back.Bounds(), img.Bounds())

	cr, cg, cb, _ := back.At(3, 1).RGBA()
	test.ExpectEquality(t, [3]uint32{cr >> 8, cg >> 8, cb >> 8}, [3]uint32{200, 100, 50})
}
