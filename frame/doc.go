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

// Package frame contains the types that record controller input.
//
// A Frame is a single input record, laid out according to a portset.Set. The
// first bit of every record is the sync flag. A record with the sync flag set
// is the first sub-frame of a logical frame. Records without the sync flag
// are additional sub-frames, created when the emulated program polls the
// same control more than once in a single frame.
//
// A Frame either owns its storage or borrows a slot in a Vector. Borrowed
// frames are only valid until the Vector is next resized or cleared. Using a
// borrowed frame after that point is a programming error and will cause a
// panic.
//
// A Vector is an append-mostly log of records, stored in fixed size pages.
// Pages are allocated as they are needed and a single page cache makes
// sequential access cheap.
//
// PollCounters records how many times each control has been polled in the
// current logical frame. The counters are used to decide which sub-frame to
// read during playback and which records have already been consumed.
package frame
