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

// Package paths contains functions to prepare paths to rerecord resources.
//
// The ResourcePath() function returns the path to a file in a resource
// directory. The directory is created if it does not already exist. For
// example, the following will return the path to the preferences file.
//
//	pth, err := paths.ResourcePath("", "preferences")
//
// For development builds the base resource directory is ".rerecord" in the
// current working directory. For release builds, the base directory is
// "rerecord" in the user's config directory as reported by
// os.UserConfigDir(). On a modern Linux system the example above will return:
//
//	/home/user/.config/rerecord/preferences
package paths
