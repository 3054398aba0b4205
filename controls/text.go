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

package controls

import (
	"math"
	"strconv"
	"strings"
)

// FieldSeparator begins the text of every controller outside of the system
// port.
const FieldSeparator = '|'

// serialised value of a released button.
const unpressed = '.'

func isTerminator(ch byte) bool {
	return ch == FieldSeparator || ch == '\r' || ch == '\n' || ch == 0
}

// readButton reads one button character. the position is not advanced past
// a terminator.
func readButton(text string, pos *int) bool {
	if *pos >= len(text) || isTerminator(text[*pos]) {
		return false
	}
	ch := text[*pos]
	*pos++
	return ch != ' ' && ch != '\t' && ch != unpressed && ch != '-'
}

// readAxis reads a signed decimal value after any amount of blank space. a
// value that doesn't fit in 16 bits is clamped.
func readAxis(text string, pos *int) int16 {
	for *pos < len(text) && (text[*pos] == ' ' || text[*pos] == '\t') {
		*pos++
	}

	if *pos >= len(text) || isTerminator(text[*pos]) {
		return 0
	}

	var negative bool
	switch text[*pos] {
	case '-':
		negative = true
		*pos++
	case '+':
		*pos++
	}

	var v int64
	for *pos < len(text) && text[*pos] >= '0' && text[*pos] <= '9' {
		if v <= math.MaxInt16+1 {
			v = v*10 + int64(text[*pos]-'0')
		}
		*pos++
	}
	if negative {
		v = -v
	}

	return int16(max(math.MinInt16, min(math.MaxInt16, v)))
}

// skipToField returns the position of the next field separator or the end of
// the line.
func skipToField(text string, pos int) int {
	for pos < len(text) && text[pos] != FieldSeparator && text[pos] != '\r' && text[pos] != '\n' {
		pos++
	}
	return pos
}

// Display returns a short summary of a controller's state. Pressed buttons
// are shown with their symbol and released buttons with a dash. Axes are
// shown as decimal numbers separated by a space. An invalid controller
// results in an empty string.
func Display(d Descriptor, buf []byte, controller int) string {
	ctrls := d.Controllers()
	if controller < 0 || controller >= len(ctrls) {
		return ""
	}

	var s strings.Builder
	var space bool

	for i, ctl := range ctrls[controller].Controls {
		if space && ctl.Type != Null {
			s.WriteRune(' ')
			space = false
		}
		switch {
		case ctl.Type == Button:
			if d.Read(buf, controller, i) != 0 {
				s.WriteRune(ctl.Symbol)
			} else {
				s.WriteRune('-')
			}
		case ctl.Type.IsAxis():
			s.WriteString(strconv.Itoa(int(d.Read(buf, controller, i))))
			space = true
		}
	}

	return s.String()
}
