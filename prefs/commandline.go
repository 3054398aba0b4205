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

package prefs

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/jetsetilly/rerecord/curated"
)

// Sentinal errors.
const (
	CommandLineEntry = "prefs: command line: %q is not a key::value pair"
)

// groups of preference values given on the command line. only the most
// recent group is consulted by Disk.Load()
var commandLine struct {
	crit   sync.Mutex
	groups []map[string]string
}

// PushCommandLineStack parses a list of preference values and makes it the
// current command line group. Entries are separated by semicolons and each
// entry is a key and a value separated by a double colon:
//
//	rerecord.compression::9; rerecord.author::Jane Doe|jd
//
// Empty entries are ignored. The group is not added if any other entry is
// malformed.
func PushCommandLineStack(s string) error {
	group := make(map[string]string)

	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "::")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return curated.Categorisedf(curated.Syntax, CommandLineEntry, entry)
		}
		group[key] = strings.TrimSpace(value)
	}

	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()
	commandLine.groups = append(commandLine.groups, group)

	return nil
}

// PopCommandLineStack forgets the current command line group. The entries of
// the group that were never used are returned, sorted by key, in the form
// accepted by PushCommandLineStack().
func PopCommandLineStack() string {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	if len(commandLine.groups) == 0 {
		return ""
	}

	group := commandLine.groups[len(commandLine.groups)-1]
	commandLine.groups = commandLine.groups[:len(commandLine.groups)-1]

	unused := make([]string, 0, len(group))
	for _, k := range slices.Sorted(maps.Keys(group)) {
		unused = append(unused, k+"::"+group[k])
	}

	return strings.Join(unused, "; ")
}

// GetCommandLinePref returns the value for the key in the current command line
// group. A value can only be returned once.
func GetCommandLinePref(key string) (bool, Value) {
	commandLine.crit.Lock()
	defer commandLine.crit.Unlock()

	if len(commandLine.groups) == 0 {
		return false, nil
	}

	group := commandLine.groups[len(commandLine.groups)-1]
	v, ok := group[key]
	if !ok {
		return false, nil
	}
	delete(group, key)

	return true, v
}
