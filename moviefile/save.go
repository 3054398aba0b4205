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
	"bufio"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/version"
)

// Sentinal errors.
const (
	BadCompression  = "moviefile: compression level must be between 0 and 9 (%d)"
	InvalidGameType = "moviefile: save: game type must be set"
	SaveError       = "moviefile: save: %v"
)

// DefaultCompression is the compression level used if one is not specified.
const DefaultCompression = 7

// Save the movie to a file. The compression level is between 0 (no
// compression) and 9 (best compression).
//
// The core version of the movie is set to the current core version. The
// ledger members are taken from the environment's ledger if the ledger is for
// the movie's project. Otherwise the ledger members of the movie are saved
// unchanged.
func (m *Movie) Save(filename string, compression int) error {
	if compression < 0 || compression > 9 {
		return curated.Categorisedf(curated.Range, BadCompression, compression)
	}
	if m.GameType == GameInvalid {
		return curated.Categorisedf(curated.Format, InvalidGameType)
	}

	// the saved movie differs from the receiver until the file has been
	// committed
	s := *m
	s.CoreVersion = version.CoreVersion
	if m.env != nil && m.env.Ledger != nil && m.env.Ledger.Project() == m.ProjectID {
		s.RRData, s.Rerecords = m.env.Ledger.Write()
	}

	if err := s.write(filename, compression); err != nil {
		return err
	}

	*m = s
	m.setState(Saved)

	return nil
}

func (m *Movie) write(filename string, compression int) (rerr error) {
	f, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return curated.Categorisedf(curated.Resource, SaveError, err)
	}

	// remove temporary file on failure
	defer func() {
		if rerr != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	zw := zip.NewWriter(f)
	method := zip.Store
	if compression > 0 {
		method = zip.Deflate
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, compression)
		})
	}

	now := time.Now()
	create := func(name string) (io.Writer, error) {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   method,
			Modified: now,
		})
		if err != nil {
			return nil, curated.Categorisedf(curated.Resource, SaveError, err)
		}
		return w, nil
	}

	for _, mb := range m.header() {
		w, err := create(mb.name)
		if err != nil {
			return err
		}
		if _, err := w.Write(mb.data); err != nil {
			return curated.Categorisedf(curated.Resource, SaveError, err)
		}
	}

	w, err := create("input")
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i := range m.Input.Len() {
		fr, err := m.Input.Index(i)
		if err != nil {
			return err
		}
		bw.WriteString(fr.Serialize())
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return curated.Categorisedf(curated.Resource, SaveError, err)
	}

	if err := zw.Close(); err != nil {
		return curated.Categorisedf(curated.Resource, SaveError, err)
	}
	if err := f.Sync(); err != nil {
		return curated.Categorisedf(curated.Resource, SaveError, err)
	}
	if err := f.Close(); err != nil {
		return curated.Categorisedf(curated.Resource, SaveError, err)
	}

	// commit
	if err := os.Rename(f.Name(), filename); err != nil {
		return curated.Categorisedf(curated.Resource, SaveError, err)
	}

	return nil
}
