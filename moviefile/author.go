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
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jetsetilly/rerecord/curated"
)

// Sentinal errors.
const (
	EmptyAuthor = "moviefile: author has neither a full name nor a nickname"
)

// Author of a movie. Either name may be empty but not both.
type Author struct {
	FullName string
	NickName string
}

// AuthorSeparator separates the full name and nickname of an author.
const AuthorSeparator = "|"

// SplitAuthor parses the text form of an author. The full name and nickname
// are separated by AuthorSeparator. Text without the separator is a full
// name. Names are normalised to NFC.
func SplitAuthor(s string) (Author, error) {
	s = norm.NFC.String(strings.TrimRight(s, "\r"))

	var a Author
	full, nick, ok := strings.Cut(s, AuthorSeparator)
	if ok {
		a = Author{FullName: full, NickName: nick}
	} else {
		a = Author{FullName: s}
	}

	if a.FullName == "" && a.NickName == "" {
		return Author{}, curated.Categorisedf(curated.Format, EmptyAuthor)
	}

	return a, nil
}

// String returns the text form of the author. The separator is omitted if
// there is no nickname.
func (a Author) String() string {
	if a.NickName == "" {
		return a.FullName
	}
	return a.FullName + AuthorSeparator + a.NickName
}

// Display returns the nickname if there is one, otherwise the full name.
func (a Author) Display() string {
	if a.NickName != "" {
		return a.NickName
	}
	return a.FullName
}
