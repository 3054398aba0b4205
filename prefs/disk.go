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
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/logger"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is inserted at the beginning of a preferences file.
const WarningBoilerPlate = "*** do not edit this file while the program is running ***"

// separates the key from the value in the preferences file
const prefsSeparator = " :: "

// Sentinal errors.
const (
	DiskError    = "prefs: %v"
	InvalidKey   = "prefs: invalid key: %q"
	DuplicateKey = "prefs: key already added: %s"
	NotPrefsFile = "prefs: %s: not a preferences file"
	BadEntry     = "prefs: %s: %v"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	dsk := &Disk{
		path:    path,
		entries: make(map[string]pref),
	}
	return dsk, nil
}

// Add a preference value to the disk. The key must not contain the separator
// used in the preferences file.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.TrimSpace(key) != key || key == "" || strings.Contains(key, strings.TrimSpace(prefsSeparator)) {
		return curated.Categorisedf(curated.Format, InvalidKey, key)
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Categorisedf(curated.Format, DuplicateKey, key)
	}
	dsk.entries[key] = p
	return nil
}

// Reset all preference values to their zero value.
func (dsk *Disk) Reset() error {
	for k, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return curated.Errorf(BadEntry, k, err)
		}
	}
	return nil
}

// read the key/value pairs in the preferences file. the map is empty if the
// file does not exist
func (dsk *Disk) read() (map[string]string, error) {
	entries := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, curated.Categorisedf(curated.Resource, DiskError, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// the first line of the file must be the boilerplate
	if !scanner.Scan() || scanner.Text() != WarningBoilerPlate {
		return nil, curated.Categorisedf(curated.Format, NotPrefsFile, dsk.path)
	}

	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), prefsSeparator)
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if isDefunct(k) {
			continue
		}
		entries[k] = strings.TrimSpace(v)
	}
	if err := scanner.Err(); err != nil {
		return nil, curated.Categorisedf(curated.Resource, DiskError, err)
	}

	return entries, nil
}

// Save current preference values to disk. Entries in the file that were not
// added to this Disk instance are preserved.
func (dsk *Disk) Save() error {
	entries, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		entries[k] = p.String()
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return curated.Categorisedf(curated.Resource, DiskError, err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, prefsSeparator, entries[k])
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return curated.Categorisedf(curated.Resource, DiskError, err)
	}
	if err := f.Close(); err != nil {
		return curated.Categorisedf(curated.Resource, DiskError, err)
	}

	return nil
}

// Load preference values from disk. If the file does not exist and
// saveOnFirstUse is true then the current values are saved to a new file.
//
// Values in the current command line group (see PushCommandLineStack()) take
// priority over the values in the file.
func (dsk *Disk) Load(saveOnFirstUse bool) error {
	if _, err := os.Stat(dsk.path); os.IsNotExist(err) {
		if saveOnFirstUse {
			if err := dsk.Save(); err != nil {
				return err
			}
		}
	} else {
		entries, err := dsk.read()
		if err != nil {
			return err
		}

		for k, v := range entries {
			p, ok := dsk.entries[k]
			if !ok {
				continue
			}
			if err := p.Set(v); err != nil {
				return curated.Errorf(BadEntry, k, err)
			}
		}
	}

	for k, p := range dsk.entries {
		if ok, v := GetCommandLinePref(k); ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(BadEntry, k, err)
			}
			logger.Logf(logger.Allow, "prefs", "%s set from command line (%v)", k, v)
		}
	}

	return nil
}
