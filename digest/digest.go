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

// Package digest is used to create hashes of ROM images. The hashes are used
// to check that a movie is being played with the same ROMs it was recorded
// with.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Digest implementations create a hash of the data written to them.
type Digest interface {
	Hash() string
	ResetDigest()
}

// SHA256 is an implementation of the Digest interface. The hash is the
// lowercase hexadecimal form of the SHA-256 sum.
type SHA256 struct {
	h hash.Hash
}

// NewSHA256 is the preferred method of initialisation for the SHA256 type.
func NewSHA256() *SHA256 {
	return &SHA256{h: sha256.New()}
}

// Write implements the io.Writer interface.
func (dig *SHA256) Write(p []byte) (int, error) {
	return dig.h.Write(p)
}

// Hash implements the Digest interface.
func (dig *SHA256) Hash() string {
	return hex.EncodeToString(dig.h.Sum(nil))
}

// ResetDigest implements the Digest interface.
func (dig *SHA256) ResetDigest() {
	dig.h.Reset()
}

// Bytes returns the hash of the data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
