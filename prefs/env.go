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
	"github.com/caarlos0/env/v11"

	"github.com/jetsetilly/rerecord/curated"
)

// Sentinal errors.
const (
	EnvError = "prefs: environment: %v"
)

// ParseEnv sets the fields of the struct pointed to by target from
// environment variables. The variable for each field is named by the env tag
// of the field with the prefix added. Fields for variables that are not set
// are not changed.
func ParseEnv(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return curated.Categorisedf(curated.Format, EnvError, err)
	}
	return nil
}
