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

// Package moviefile reads and writes movie files. A movie file is a zip
// archive. Most members of the archive are short text files containing a
// single line. The exceptions are the authors member, which has one line per
// author, and the input member, which has one line per sub-frame of input.
//
// Movies that were saved while the emulation was running also contain the
// binary members needed to resume from that point. These are the snapshot
// members.
//
// A Movie is created with NewMovie() or Open(). The state of the movie is
// tracked so that callers know if changes need to be saved:
//
//	Fresh	created with NewMovie() and not yet saved
//	Loaded	read from a file and not changed since
//	Dirty	changed since it was loaded or saved
//	Saved	written to a file and not changed since
//
// Save() never leaves a partially written file under the destination name.
// The archive is written to a temporary file in the same directory and
// renamed when complete.
package moviefile
