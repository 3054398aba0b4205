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
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"golang.org/x/image/bmp"
	"golang.org/x/term"

	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/digest"
	"github.com/jetsetilly/rerecord/frame"
	"github.com/jetsetilly/rerecord/logger"
	"github.com/jetsetilly/rerecord/macro"
	"github.com/jetsetilly/rerecord/modalflag"
	"github.com/jetsetilly/rerecord/moviefile"
	"github.com/jetsetilly/rerecord/portset"
	"github.com/jetsetilly/rerecord/prefs"
	"github.com/jetsetilly/rerecord/statsview"
	"github.com/jetsetilly/rerecord/version"
)

// exit values
const (
	exitParse     = 10
	exitMode      = 20
	exitInterrupt = 30
)

// Sentinal errors.
const (
	MovieExists    = "%s: file already exists"
	DumpRange      = "dump: record %d is not in the movie (length %d)"
	MacroRange     = "macro: record %d is not in the movie (length %d)"
	NoController   = "macro: no controller %d in port %d"
	NoSlot         = "verify: too many ROMs for slot %s"
	HashMismatch   = "verify: %s does not match the ROMs"
	NothingToApply = "macro: nothing to apply"
	ScreenshotFile = "screenshot: %v"
)

func main() {
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	go func() {
		<-intChan
		fmt.Print("\r")
		os.Exit(exitInterrupt)
	}()

	os.Exit(launch(os.Args[1:], os.Stdout))
}

// launch the mode named in the arguments. returns the exit value of the
// program.
func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("INFO", "DUMP", "NEW", "MACRO", "VERIFY", "LAYOUT", "SCREENSHOT")

	log := md.AddBool("log", false, "echo debugging log to stdout")
	showVersion := md.AddBool("version", false, "print version and exit")
	prefsValues := md.AddString("prefs", "", "preference values for this run only (eg. rerecord.compression::9)")

	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParse
	}

	if *showVersion {
		v, rev, _ := version.Version()
		fmt.Fprintf(output, "%s %s %s (core %s)\n", version.ApplicationName, v, rev, version.CoreVersion)
		return 0
	}

	// the command line group is only consulted while the preferences are
	// loaded
	err = prefs.PushCommandLineStack(*prefsValues)
	if err != nil {
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParse
	}
	pref, err := moviefile.NewPreferences()
	unused := prefs.PopCommandLineStack()
	if err != nil {
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParse
	}

	// set debugging log echo
	if *log || pref.Log.Get().(bool) {
		echo(output)
	} else {
		logger.SetEcho(nil)
	}
	defer logger.SetEcho(nil)

	if unused != "" {
		logger.Logf(logger.Allow, "rerecord", "unused -prefs values: %s", unused)
	}

	if stats != nil && *stats {
		statsview.Launch(output)
	}

	env := moviefile.NewEnvironment()

	switch md.Mode() {
	case "INFO":
		err = info(md, output, env)

	case "DUMP":
		err = dump(md, output, env)

	case "NEW":
		err = create(md, output, env, pref)

	case "MACRO":
		err = applyMacro(md, output, env, pref)

	case "VERIFY":
		err = verify(md, output, env)

	case "LAYOUT":
		err = layout(md, output, env)

	case "SCREENSHOT":
		err = screenshot(md, output, env)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return exitMode
	}

	return 0
}

// echo the log to output. the log is colourised if output is a terminal
func echo(output io.Writer) {
	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.SetEcho(logger.NewColorizer(f))
		return
	}
	logger.SetEcho(output)
}

func info(md *modalflag.Modes, output io.Writer, env *moviefile.Environment) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := md.ExpectArgs(1, 1); err != nil {
		return err
	}

	m, err := moviefile.Open(md.GetArg(0), env)
	if err != nil {
		return err
	}
	m.CheckCoreVersion()

	authors := make([]string, len(m.Authors))
	for i, a := range m.Authors {
		authors[i] = a.String()
	}

	field := func(name string, value any) {
		fmt.Fprintf(output, "%-12s %v\n", name+":", value)
	}

	field("game type", m.GameType)
	if m.GameName != "" {
		field("game name", m.GameName)
	}
	field("project", m.ProjectID)
	field("core", m.CoreVersion)
	field("port 1", m.Port(1))
	field("port 2", m.Port(2))
	field("authors", strings.Join(authors, ", "))
	field("rerecords", m.Rerecords)
	field("records", m.Input.Len())
	field("frames", m.Input.CountFrames())
	field("length", m.Length(0))
	field("start time", m.StartTime)

	if m.Snapshot {
		field("snapshot", m.SaveTime)
	}
	if len(m.ScreenshotData) > 0 {
		field("screenshot", "yes")
	}
	for s := range moviefile.NumSlots {
		if m.Hashes[s] != "" {
			field(s.String(), m.Hashes[s])
		}
	}

	return nil
}

func dump(md *modalflag.Modes, output io.Writer, env *moviefile.Environment) error {
	md.NewMode()

	from := md.AddInt("from", 0, "first record to dump")
	count := md.AddInt("count", -1, "number of records to dump (-1 for all)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := md.ExpectArgs(1, 1); err != nil {
		return err
	}

	m, err := moviefile.Open(md.GetArg(0), env)
	if err != nil {
		return err
	}

	n := m.Input.Len()
	if *from < 0 || (*from >= n && n > 0) {
		return curated.Categorisedf(curated.Range, DumpRange, *from, n)
	}

	end := n
	if *count >= 0 {
		end = min(n, *from+*count)
	}

	set := m.Ports()

	// logical frame number of the first record
	var num int
	for i := range *from {
		f, err := m.Input.Index(i)
		if err != nil {
			return err
		}
		if f.Sync() {
			num++
		}
	}

	for i := *from; i < end; i++ {
		f, err := m.Input.Index(i)
		if err != nil {
			return err
		}
		if f.Sync() {
			num++
		}

		var s []string
		for port := range set.Ports() {
			for c := range set.PortType(port).Controllers() {
				if d := f.Display(port, c); d != "" {
					s = append(s, d)
				}
			}
		}

		fmt.Fprintf(output, "%8d %8d %s\n", i, num, strings.Join(s, " "))
	}

	return nil
}

func create(md *modalflag.Modes, output io.Writer, env *moviefile.Environment, pref *moviefile.Preferences) error {
	md.NewMode()

	port1 := md.AddString("port1", controls.GamepadType, "controller type in port one")
	port2 := md.AddString("port2", controls.NoneType, "controller type in port two")
	gameType := md.AddString("gametype", moviefile.GameSNESNTSC.String(), "type of game")
	gameName := md.AddString("name", "", "name of the game")
	author := md.AddString("author", pref.Author.Get().(string), "author of the movie (full name|nickname)")
	frames := md.AddInt("frames", 0, "number of blank frames to add")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := md.ExpectArgs(1, 1); err != nil {
		return err
	}

	filename := md.GetArg(0)
	if _, err := os.Stat(filename); err == nil {
		return curated.Categorisedf(curated.Resource, MovieExists, filename)
	}

	m, err := moviefile.NewMovie(env)
	if err != nil {
		return err
	}

	err = m.SetPorts(*port1, *port2)
	if err != nil {
		return err
	}

	m.GameType, err = moviefile.ParseGameType(*gameType)
	if err != nil {
		return err
	}
	m.GameName = *gameName

	if *author != "" {
		a, err := moviefile.SplitAuthor(*author)
		if err != nil {
			return err
		}
		m.Authors = append(m.Authors, a)
	}

	for range *frames {
		f := frame.NewFrame(m.Ports())
		f.SetSync(true)
		err = m.Input.Append(f)
		if err != nil {
			return err
		}
	}

	env.Ledger.ReadBase(m.ProjectID)

	err = m.Save(filename, pref.Compression.Get().(int))
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "created %s (project %s)\n", filename, m.ProjectID)

	return nil
}

// logical returns the logical controller number of the physical controller.
func logical(set *portset.Set, port int, controller int) (int, bool) {
	for lcid := range set.LogicalControllers() {
		p, c, err := set.LogicalToPhysical(lcid)
		if err == nil && p == port && c == controller {
			return lcid, true
		}
	}
	return 0, false
}

func applyMacro(md *modalflag.Modes, output io.Writer, env *moviefile.Environment, pref *moviefile.Preferences) error {
	md.NewMode()
	md.AdditionalHelp(`The macro is written to the controller in every record from the first record.
The first record receives the first frame of the macro. Macros that do not
end with an asterisk repeat until the last record.`)

	check := md.AddBool("check", false, "check the macro and exit without changing the movie")
	port := md.AddInt("port", 1, "port of the controller")
	controller := md.AddInt("controller", 0, "controller in the port")
	mode := md.AddString("mode", macro.Overwrite.String(), "how the macro is combined with the input: overwrite, or, xor")
	from := md.AddInt("from", 0, "first record")
	count := md.AddInt("count", -1, "number of records (-1 for all remaining records)")
	load := md.AddString("load", "", "load the macro from a file")
	save := md.AddString("save", "", "save the macro to a file")
	out := md.AddString("out", "", "save the changed movie to a different file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	var expr, filename string
	if *load == "" {
		if err := md.ExpectArgs(2, 2); err != nil {
			return err
		}
		expr = md.GetArg(0)
		filename = md.GetArg(1)
	} else {
		if err := md.ExpectArgs(1, 1); err != nil {
			return err
		}
		filename = md.GetArg(0)
	}

	m, err := moviefile.Open(filename, env)
	if err != nil {
		return err
	}

	var mcr *macro.Macro

	if *load != "" {
		mcr, err = macro.Load(*load)
		if err != nil {
			return err
		}
	} else {
		ctrl, ok := m.Ports().Controller(*port, *controller)
		if !ok {
			return curated.Categorisedf(curated.Range, NoController, *controller, *port)
		}
		lcid, ok := logical(m.Ports(), *port, *controller)
		if !ok {
			return curated.Categorisedf(curated.Range, NoController, *controller, *port)
		}

		desc := macro.MakeDescriptor(ctrl)
		if *check {
			err = macro.SyntaxCheck(expr, desc)
			if err != nil {
				return err
			}
			fmt.Fprintln(output, "ok")
			return nil
		}

		prog, err := macro.Compile(expr, desc)
		if err != nil {
			return err
		}

		am, err := macro.ParseApplyMode(*mode)
		if err != nil {
			return err
		}

		mcr = macro.NewMacro(am)
		mcr.Programs[lcid] = prog
	}

	if *check {
		fmt.Fprintln(output, "ok")
		return nil
	}

	if *save != "" {
		err = mcr.Save(*save)
		if err != nil {
			return err
		}
	}

	n := m.Input.Len()
	if *from < 0 || *from >= n {
		return curated.Categorisedf(curated.Range, MacroRange, *from, n)
	}
	end := n
	if *count >= 0 {
		end = min(n, *from+*count)
	}
	if end <= *from {
		return curated.Categorisedf(curated.Range, NothingToApply)
	}

	for i := *from; i < end; i++ {
		f, err := m.Input.Index(i)
		if err != nil {
			return err
		}
		mcr.Write(f, int64(i-*from))
	}

	// editing a movie is a rerecord
	env.Ledger.ReadBase(m.ProjectID)
	err = env.Ledger.Read(m.RRData)
	if err != nil {
		return err
	}
	env.Ledger.AddInternal()

	if *out != "" {
		filename = *out
	}

	err = m.Save(filename, pref.Compression.Get().(int))
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "macro applied to records %d to %d\n", *from, end-1)

	return nil
}

func verify(md *modalflag.Modes, output io.Writer, env *moviefile.Environment) error {
	md.NewMode()
	md.AdditionalHelp(`Each ROM is hashed and compared with the hash in the movie. The first ROM is
compared with the named slot and any further ROMs with the slots after it.`)

	slot := md.AddString("slot", moviefile.SlotROM.String(), "slot of the first ROM")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := md.ExpectArgs(2, -1); err != nil {
		return err
	}

	m, err := moviefile.Open(md.GetArg(0), env)
	if err != nil {
		return err
	}

	s, err := moviefile.ParseSlot(*slot)
	if err != nil {
		return err
	}

	var actual moviefile.Hashes
	for _, rom := range md.RemainingArgs()[1:] {
		if s >= moviefile.NumSlots {
			return curated.Categorisedf(curated.Range, NoSlot, *slot)
		}

		h, err := digest.ROM(rom)
		if err != nil {
			return err
		}
		actual[s] = h
		fmt.Fprintf(output, "%-8s %s %s\n", s, h, rom)

		// skip the xml slot
		s += 2
	}

	if !m.CheckHashes(actual) {
		return curated.Errorf(HashMismatch, md.GetArg(0))
	}

	fmt.Fprintln(output, "ok")

	return nil
}

func layout(md *modalflag.Modes, output io.Writer, env *moviefile.Environment) error {
	md.NewMode()

	port1 := md.AddString("port1", controls.GamepadType, "controller type in port one")
	port2 := md.AddString("port2", controls.NoneType, "controller type in port two")
	dot := md.AddBool("dot", false, "output graphviz description of the layout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := md.ExpectArgs(0, 0); err != nil {
		return err
	}

	set, err := env.Ports(*port1, *port2)
	if err != nil {
		return err
	}

	if *dot {
		memviz.Map(output, set)
		return nil
	}

	fmt.Fprintf(output, "record size: %d bytes\n", set.Size())
	for port, d := range set.Types() {
		fmt.Fprintf(output, "port %d: %s (offset %d)\n", port, d.HumanName(), set.PortOffset(port))
	}

	for idx := range uint32(set.IndexCount()) {
		i := set.IndexToTriple(idx)
		if !i.Valid {
			continue
		}
		ctrl, ok := set.Controller(i.Port, i.Controller)
		if !ok || i.Control >= len(ctrl.Controls) {
			continue
		}
		fmt.Fprintf(output, "%4d %-8s %s\n", idx, i, ctrl.Controls[i.Control].Name)
	}

	return nil
}

func screenshot(md *modalflag.Modes, output io.Writer, env *moviefile.Environment) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	if err := md.ExpectArgs(2, 2); err != nil {
		return err
	}

	m, err := moviefile.Open(md.GetArg(0), env)
	if err != nil {
		return err
	}

	img, err := m.Screenshot()
	if err != nil {
		return err
	}

	f, err := os.Create(md.GetArg(1))
	if err != nil {
		return curated.Categorisedf(curated.Resource, ScreenshotFile, err)
	}

	err = bmp.Encode(f, img)
	if err != nil {
		f.Close()
		return curated.Errorf(ScreenshotFile, err)
	}

	err = f.Close()
	if err != nil {
		return curated.Categorisedf(curated.Resource, ScreenshotFile, err)
	}

	fmt.Fprintf(output, "screenshot saved to %s (%dx%d)\n", md.GetArg(1), img.Bounds().Dx(), img.Bounds().Dy())

	return nil
}
