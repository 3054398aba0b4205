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

package logger

import (
	"io"
	"strings"
)

const (
	penNormal  = "\033[0m"
	penTag     = "\033[2;36m"
	penWarning = "\033[2;31m"
)

// Colorizer applies basic coloring rules to logging output. Tags are dimmed
// and entries with a detail starting with "warning" are coloured red.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method if initialisation for the Colorizer type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (n int, err error) {
	var s strings.Builder

	for _, l := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		tag, detail, ok := strings.Cut(l, ": ")
		if !ok {
			s.WriteString(l)
			s.WriteString("\n")
			continue
		}

		s.WriteString(penTag)
		s.WriteString(tag)
		s.WriteString(penNormal)
		s.WriteString(": ")
		if strings.HasPrefix(detail, "warning") {
			s.WriteString(penWarning)
			s.WriteString(detail)
			s.WriteString(penNormal)
		} else {
			s.WriteString(detail)
		}
		s.WriteString("\n")
	}

	_, err = io.WriteString(c.out, s.String())
	if err != nil {
		return 0, err
	}

	return len(p), nil
}
