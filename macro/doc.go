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

// Package macro implements a small language that describes a sequence of
// controller states. A compiled macro is a Program and can be applied to an
// input record for any frame number. The frame number is wrapped so that the
// sequence repeats, unless the macro ends with an asterisk.
//
// The language is a sequence of tokens. Button symbols are taken from a
// Descriptor, which is usually created with MakeDescriptor().
//
//	A	press button A in the current frame. a frame is started if
//		there isn't one
//	.	start a new blank frame and make it the current frame
//	[...]	group buttons and axis transforms into a single frame
//	(...)	group frames so they can be repeated
//	n	a decimal number repeats the preceding frame or group n times
//	*	the macro does not repeat. must be the last token
//
// For example, the following describes a frame with A and B pressed, followed
// by a blank frame and then three frames with C pressed:
//
//	AB.2(C)3
//
// The repeat count duplicates the preceding group, including the frame that
// is still open after a dot. In the example above, the dot opens a blank
// frame and the count of two duplicates it. The parenthesised group then
// begins with the second of those blank frames and C is pressed in it.
//
// Inside square brackets a number followed by a colon is an axis transform:
//
//	[0:*(0,1)@]	rotate analog action 0 by 90 degrees
//	[1:+0.5@]	move analog action 1 halfway towards the maximum
//	[0:(0.5,-1)@]	set analog action 0 to an absolute position
//	[0:1,0,0,1,0,0@]	the identity transform, with all six coefficients
//
// Complex numbers are written as a real number, as (re,im) or in polar form
// as (magnitude<degrees).
//
// Errors are reported with the position of the offending character. The same
// grammar walk is used by SyntaxCheck(), which does not build the sequence.
//
// Macros for more than one controller are collected by the Macro type, which
// can be saved to and loaded from a file.
package macro
