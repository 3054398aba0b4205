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
	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/paths"
	"github.com/jetsetilly/rerecord/prefs"
)

// EnvPrefix is added to the name of every environment variable that can
// override a preference.
const EnvPrefix = "REREC_"

// Preferences for saving movies.
type Preferences struct {
	dsk *prefs.Disk

	// compression level used when saving a movie
	Compression prefs.Int

	// author added to new movies
	Author prefs.String

	// echo the log to the terminal
	Log prefs.Bool
}

// envOverlay is filled from the environment by prefs.ParseEnv().
type envOverlay struct {
	Compression int    `env:"COMPRESSION"`
	Author      string `env:"AUTHOR"`
	Log         bool   `env:"LOG"`
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file in the
// resource directory and then from the environment.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return newPreferences(pth)
}

func newPreferences(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.Compression.SetHookPre(func(v prefs.Value) error {
		if c := v.(int); c < 0 || c > 9 {
			return curated.Categorisedf(curated.Range, BadCompression, c)
		}
		return nil
	})

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("rerecord.compression", &p.Compression)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("rerecord.author", &p.Author)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("rerecord.log", &p.Log)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(true)
	if err != nil {
		return nil, err
	}

	err = p.overlay()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	p.Compression.Set(DefaultCompression)
	p.Author.Set("")
	p.Log.Set(false)
}

// overlay values from the environment. variables that are not set leave the
// current value unchanged.
func (p *Preferences) overlay() error {
	e := envOverlay{
		Compression: p.Compression.Get().(int),
		Author:      p.Author.Get().(string),
		Log:         p.Log.Get().(bool),
	}

	err := prefs.ParseEnv(&e, EnvPrefix)
	if err != nil {
		return err
	}

	err = p.Compression.Set(e.Compression)
	if err != nil {
		return err
	}
	err = p.Author.Set(e.Author)
	if err != nil {
		return err
	}
	return p.Log.Set(e.Log)
}

// Load preferences from disk and then from the environment.
func (p *Preferences) Load() error {
	err := p.dsk.Load(false)
	if err != nil {
		return err
	}
	return p.overlay()
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
