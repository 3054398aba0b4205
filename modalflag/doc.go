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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// Unlike flag.FlagSet, the arguments are given to NewArgs() and Parse() is
// called with no arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("INFO", "DUMP", "MACRO")
//	_, _ = md.Parse()
//
// The first sub-mode is the default. Sub-mode comparisons are case
// insensitive and Mode() always returns the upper case form.
//
// After the mode has been decided, NewMode() begins a new layer of flags and
// arguments for that mode:
//
//	switch md.Mode() {
//	case "DUMP":
//		md.NewMode()
//		from := md.AddInt("from", 0, "first sub-frame to dump")
//		p, err := md.Parse()
//		switch p {
//		case modalflag.ParseError:
//			return err
//		case modalflag.ParseHelp:
//			return nil
//		}
//		if err := md.ExpectArgs(1, 1); err != nil {
//			return err
//		}
//		return dump(md.GetArg(0), *from)
//	}
//
// Modes can be chained as deeply as required. Path() returns every mode
// encountered so far, separated by a forward slash.
//
// Requests for help (the -help flag) are handled by Parse(), which prints the
// flags and sub-modes of the current layer to the Output writer.
package modalflag
