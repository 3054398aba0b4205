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

package prefs_test

import (
	"testing"

	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/prefs"
	"github.com/jetsetilly/rerecord/test"
)

func TestCommandLineGroup(t *testing.T) {
	// nothing to pop
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	test.DemandSuccess(t, prefs.PushCommandLineStack("foo::bar"))
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "foo::bar")

	// space around keys and values is removed
	test.DemandSuccess(t, prefs.PushCommandLineStack("   foo:: bar baz ; "))
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "foo::bar baz")

	// the unused entries are sorted by key
	test.DemandSuccess(t, prefs.PushCommandLineStack("foo::bar; baz::qux"))
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "baz::qux; foo::bar")

	// a value can contain the separator
	test.DemandSuccess(t, prefs.PushCommandLineStack("foo::bar::baz"))
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "foo::bar::baz")

	// an empty value is a value
	test.DemandSuccess(t, prefs.PushCommandLineStack("foo::"))
	ok, v := prefs.GetCommandLinePref("foo")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, prefs.Value(""))
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
}

func TestCommandLineMalformed(t *testing.T) {
	for _, s := range []string{"foo_bar", "foo_bar;baz::qux", "::bar", "foo::bar; baz"} {
		err := prefs.PushCommandLineStack(s)
		test.ExpectSuccess(t, curated.Is(err, prefs.CommandLineEntry), s)
		test.ExpectSuccess(t, curated.InCategory(err, curated.Syntax), s)

		// nothing was added
		test.ExpectEquality(t, prefs.PopCommandLineStack(), "", s)
	}
}

func TestCommandLineStack(t *testing.T) {
	test.DemandSuccess(t, prefs.PushCommandLineStack("foo::bar"))
	test.DemandSuccess(t, prefs.PushCommandLineStack("baz::qux"))

	// only the top group is consulted
	ok, _ := prefs.GetCommandLinePref("foo")
	test.ExpectFailure(t, ok)
	ok, v := prefs.GetCommandLinePref("baz")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, prefs.Value("qux"))

	// a value is only returned once
	ok, _ = prefs.GetCommandLinePref("baz")
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")

	// first group still exists
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "foo::bar")
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
}
