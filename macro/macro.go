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

package macro

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/frame"
	"github.com/jetsetilly/rerecord/logger"
)

// ApplyMode specifies how the buttons of a macro are combined with the buttons
// already in a frame.
type ApplyMode int

// List of valid ApplyMode values.
const (
	// buttons in the frame are replaced by the buttons in the macro
	Overwrite ApplyMode = iota

	// buttons in the macro are pressed in addition to those in the frame
	Or

	// buttons in the macro toggle the buttons in the frame
	Xor
)

func (m ApplyMode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Or:
		return "or"
	case Xor:
		return "xor"
	}
	return "unknown"
}

// Sentinal errors.
const (
	UnknownApplyMode = "macro: unknown apply mode: %s"
	NotMacroFile     = "macro: %s: not a macro file"
	MacroFileError   = "macro: %v"
	InvalidLogical   = "macro: invalid logical controller (%d)"
)

// ParseApplyMode returns the ApplyMode for the name returned by
// ApplyMode.String().
func ParseApplyMode(s string) (ApplyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite":
		return Overwrite, nil
	case "or":
		return Or, nil
	case "xor":
		return Xor, nil
	}
	return Overwrite, curated.Categorisedf(curated.Format, UnknownApplyMode, s)
}

// Macro is a collection of programs keyed by logical controller number.
type Macro struct {
	Mode     ApplyMode
	Programs map[int]*Program
}

// NewMacro is the preferred method of initialisation for the Macro type.
func NewMacro(mode ApplyMode) *Macro {
	return &Macro{
		Mode:     mode,
		Programs: make(map[int]*Program),
	}
}

// Write applies every enabled program to the frame. Programs for logical
// controllers that the frame does not have are ignored.
func (mcr *Macro) Write(f frame.Frame, n int64) {
	if !f.Valid() {
		return
	}
	for lcid, p := range mcr.Programs {
		port, controller, err := f.Set().LogicalToPhysical(lcid)
		if err != nil {
			continue
		}
		p.Write(f, port, controller, n, mcr.Mode)
	}
}

type jsonProgram struct {
	Enable bool       `json:"enable"`
	Expr   string     `json:"expr"`
	Desc   Descriptor `json:"desc"`
}

type jsonMacro struct {
	Mode string         `json:"mode"`
	Data []*jsonProgram `json:"data"`
}

// MarshalJSON implements the json.Marshaler interface. The data array is
// indexed by logical controller number with null for controllers without a
// program. Logical controller numbers can not be negative.
func (mcr *Macro) MarshalJSON() ([]byte, error) {
	j := jsonMacro{Mode: mcr.Mode.String()}

	keys := make([]int, 0, len(mcr.Programs))
	for k, p := range mcr.Programs {
		if k < 0 {
			return nil, curated.Categorisedf(curated.Range, InvalidLogical, k)
		}
		if p == nil {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	if len(keys) > 0 {
		j.Data = make([]*jsonProgram, keys[len(keys)-1]+1)
	}
	for _, k := range keys {
		p := mcr.Programs[k]
		j.Data[k] = &jsonProgram{
			Enable: p.Enabled,
			Expr:   p.expr,
			Desc:   p.desc,
		}
	}

	return json.Marshal(j)
}

// UnmarshalJSON implements the json.Unmarshaler interface. Every program is
// recompiled. The receiver is only changed if all programs compile.
func (mcr *Macro) UnmarshalJSON(data []byte) error {
	var j jsonMacro
	if err := json.Unmarshal(data, &j); err != nil {
		return curated.Categorisedf(curated.Format, MacroFileError, err)
	}

	mode, err := ParseApplyMode(j.Mode)
	if err != nil {
		return err
	}

	programs := make(map[int]*Program)
	for i, jp := range j.Data {
		if jp == nil {
			continue
		}
		p, err := Compile(jp.Expr, jp.Desc)
		if err != nil {
			return curated.Errorf("macro: controller %d: %v", i, err)
		}
		p.Enabled = jp.Enable
		programs[i] = p
	}

	mcr.Mode = mode
	mcr.Programs = programs
	return nil
}

const (
	headerLineID = iota
	headerLineVersion
	headerNumLines
)

const (
	headerID      = "rerecordmacro"
	headerVersion = "1"
)

// Save the macro to a file. The file is a short header followed by the JSON
// form of the macro.
func (mcr *Macro) Save(filename string) error {
	data, err := json.MarshalIndent(mcr, "", "  ")
	if err != nil {
		return curated.Errorf(MacroFileError, err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return curated.Categorisedf(curated.Resource, MacroFileError, err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, headerID)
	fmt.Fprintln(w, headerVersion)
	w.Write(data)
	fmt.Fprintln(w)

	if err := w.Flush(); err != nil {
		f.Close()
		return curated.Categorisedf(curated.Resource, MacroFileError, err)
	}
	if err := f.Close(); err != nil {
		return curated.Categorisedf(curated.Resource, MacroFileError, err)
	}

	return nil
}

// Load a macro from a file created with Save().
func Load(filename string) (*Macro, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Categorisedf(curated.Resource, MacroFileError, err)
	}
	defer f.Close()

	buffer, err := io.ReadAll(f)
	if err != nil {
		return nil, curated.Categorisedf(curated.Resource, MacroFileError, err)
	}

	lines := strings.SplitN(string(buffer), "\n", headerNumLines+1)
	if len(lines) <= headerNumLines {
		return nil, curated.Categorisedf(curated.Format, NotMacroFile, filename)
	}
	if strings.TrimSpace(lines[headerLineID]) != headerID {
		return nil, curated.Categorisedf(curated.Format, NotMacroFile, filename)
	}
	if v := strings.TrimSpace(lines[headerLineVersion]); v != headerVersion {
		logger.Logf(logger.Allow, "macro", "%s: unexpected version (%s)", filename, v)
	}

	mcr := NewMacro(Overwrite)
	if err := json.Unmarshal([]byte(lines[headerNumLines]), mcr); err != nil {
		return nil, err
	}

	return mcr, nil
}
