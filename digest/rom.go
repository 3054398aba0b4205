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

package digest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/nwaples/rardecode/v2"

	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/logger"
)

// Sentinal errors.
const (
	ROMError    = "digest: %s: %v"
	NoROMFile   = "digest: %s: no ROM file in archive"
	ROMTooLarge = "digest: %s: file exceeds maximum size"
)

// MaxROMSize is the largest file that will be hashed.
const MaxROMSize = 32 * 1024 * 1024

// ROMExtensions is the list of file extensions that are recognised as ROMs
// when searching an archive.
var ROMExtensions = []string{".sfc", ".smc", ".swc", ".fig", ".bs", ".st", ".gb", ".gbc", ".sgb"}

var (
	magicZIP    = []byte{0x50, 0x4b, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4b, 0x05, 0x06}
	magic7z     = []byte{0x37, 0x7a, 0xbc, 0xaf, 0x27, 0x1c}
	magicGzip   = []byte{0x1f, 0x8b}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21}
)

type format int

const (
	formatRaw format = iota
	formatZIP
	format7z
	formatGzip
	formatRAR
)

func (f format) String() string {
	switch f {
	case formatZIP:
		return "zip"
	case format7z:
		return "7z"
	case formatGzip:
		return "gzip"
	case formatRAR:
		return "rar"
	}
	return "raw"
}

// detect the archive format from the first bytes of the file. the file
// extension is only used if the magic bytes are not recognised
func detect(header []byte, path string) format {
	switch {
	case bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz":
		return formatGzip
	case ".rar":
		return formatRAR
	}

	return formatRaw
}

func isROMFile(name string) bool {
	return slices.Contains(ROMExtensions, strings.ToLower(filepath.Ext(name)))
}

// ROM returns the hash of the ROM in the file. If the file is an archive then
// the first file in the archive with a ROM extension is hashed. Archives in
// the zip, 7z, rar and gzip formats are supported.
func ROM(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", curated.Categorisedf(curated.Resource, ROMError, path, err)
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", curated.Categorisedf(curated.Resource, ROMError, path, err)
	}

	format := detect(header[:n], path)
	logger.Logf(logger.Allow, "digest", "%s: %s", filepath.Base(path), format)

	switch format {
	case formatZIP:
		return fromZIP(path)
	case format7z:
		return from7z(path)
	case formatRAR:
		return fromRAR(path)
	case formatGzip:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return "", curated.Categorisedf(curated.Resource, ROMError, path, err)
		}
		gz, err := gzip.NewReader(f)
		if err != nil {
			return "", curated.Categorisedf(curated.Format, ROMError, path, err)
		}
		defer gz.Close()
		return hashReader(path, gz)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", curated.Categorisedf(curated.Resource, ROMError, path, err)
	}
	return hashReader(path, f)
}

// hashReader hashes no more than MaxROMSize bytes
func hashReader(path string, r io.Reader) (string, error) {
	dig := NewSHA256()
	n, err := io.Copy(dig, io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return "", curated.Categorisedf(curated.Format, ROMError, path, err)
	}
	if n > MaxROMSize {
		return "", curated.Categorisedf(curated.Range, ROMTooLarge, path)
	}
	return dig.Hash(), nil
}

func fromZIP(path string) (string, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return "", curated.Categorisedf(curated.Format, ROMError, path, err)
	}
	defer z.Close()

	for _, zf := range z.File {
		if zf.FileInfo().IsDir() || !isROMFile(zf.Name) {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return "", curated.Categorisedf(curated.Format, ROMError, path, err)
		}
		defer rc.Close()
		return hashReader(path, rc)
	}

	return "", curated.Categorisedf(curated.Format, NoROMFile, path)
}

func from7z(path string) (string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return "", curated.Categorisedf(curated.Format, ROMError, path, err)
	}
	defer r.Close()

	for _, sf := range r.File {
		if sf.FileInfo().IsDir() || !isROMFile(sf.Name) {
			continue
		}
		rc, err := sf.Open()
		if err != nil {
			return "", curated.Categorisedf(curated.Format, ROMError, path, err)
		}
		defer rc.Close()
		return hashReader(path, rc)
	}

	return "", curated.Categorisedf(curated.Format, NoROMFile, path)
}

func fromRAR(path string) (string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return "", curated.Categorisedf(curated.Format, ROMError, path, err)
	}
	defer r.Close()

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", curated.Categorisedf(curated.Format, ROMError, path, err)
		}
		if header.IsDir || !isROMFile(header.Name) {
			continue
		}
		return hashReader(path, r)
	}

	return "", curated.Categorisedf(curated.Format, NoROMFile, path)
}
