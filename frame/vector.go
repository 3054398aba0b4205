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

package frame

import (
	"bytes"

	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/portset"
)

// PageBytes is the size of a single page of a Vector.
const PageBytes = 65500

// MaxPages is the maximum number of pages in a Vector.
const MaxPages = 1 << 20

// Sentinal errors.
const (
	OutOfRange   = "frame: record %d out of range (length %d)"
	InvalidSize  = "frame: invalid vector size: %d"
	TooManyPages = "frame: vector of %d records needs too many pages"
)

// page of records. a nil page has not been allocated and all of its records
// are zero.
type page []byte

// Vector is a paged log of records.
type Vector struct {
	set           *portset.Set
	frameSize     int
	framesPerPage int
	frames        int

	pages []page

	// the most recently used page
	cachePage    page
	cachePageNum int

	// epoch changes whenever a resize or clear may have released storage that
	// a borrowed Frame refers to
	epoch uint64

	// mutations counts every change to the contents of the vector
	mutations uint64
}

// NewVector is the preferred method of initialisation for the Vector type.
func NewVector(set *portset.Set) *Vector {
	v := &Vector{}
	v.Reset(set)
	return v
}

// Reset empties the vector and changes its layout.
func (v *Vector) Reset(set *portset.Set) {
	v.set = set
	v.frameSize = max(1, set.Size())
	v.framesPerPage = PageBytes / v.frameSize
	v.frames = 0
	v.pages = nil
	v.clearCache()
	v.epoch++
	v.mutations++
}

// Clear removes all records from the vector.
func (v *Vector) Clear() {
	v.Reset(v.set)
}

func (v *Vector) clearCache() {
	v.cachePage = nil
	v.cachePageNum = -1
}

// Set returns the layout of the records in the vector.
func (v *Vector) Set() *portset.Set {
	return v.set
}

// Len returns the number of records in the vector.
func (v *Vector) Len() int {
	return v.frames
}

// Mutations returns a number that changes whenever the vector is modified.
func (v *Vector) Mutations() uint64 {
	return v.mutations
}

// page returns the page for the page number, allocating it if necessary.
func (v *Vector) page(n int) page {
	if n == v.cachePageNum && v.cachePage != nil {
		return v.cachePage
	}
	if v.pages[n] == nil {
		v.pages[n] = make(page, PageBytes)
	}
	v.cachePage = v.pages[n]
	v.cachePageNum = n
	return v.cachePage
}

// record returns the storage for the numbered record. the number must be
// less than the number of pages times the number of records per page.
func (v *Vector) record(n int) []byte {
	p := v.page(n / v.framesPerPage)
	o := (n % v.framesPerPage) * v.frameSize
	return p[o : o+v.frameSize : o+v.frameSize]
}

// sync returns the sync flag of a record without allocating a page.
func (v *Vector) sync(n int) bool {
	pn := n / v.framesPerPage
	p := v.pages[pn]
	if p == nil {
		return false
	}
	return p[(n%v.framesPerPage)*v.frameSize]&0x01 == 0x01
}

// Index returns a Frame that borrows the storage of the numbered record.
func (v *Vector) Index(n int) (Frame, error) {
	if n < 0 || n >= v.frames {
		return Frame{}, curated.Categorisedf(curated.Range, OutOfRange, n, v.frames)
	}
	return Frame{
		set: v.set,
		buf: v.record(n)[:v.set.Size()],
		borrowed: &borrow{
			vec:   v,
			epoch: v.epoch,
		},
	}, nil
}

// Append adds a copy of the frame to the end of the vector.
func (v *Vector) Append(f Frame) error {
	if f.set != v.set {
		return curated.Categorisedf(curated.TypeMismatch, TypeMismatch)
	}

	if v.frames%v.framesPerPage == 0 {
		if len(v.pages) >= MaxPages {
			return curated.Categorisedf(curated.Resource, TooManyPages, v.frames+1)
		}
		v.pages = append(v.pages, nil)
	}

	copy(v.record(v.frames), f.bytes())
	v.frames++
	v.mutations++

	return nil
}

// Resize changes the number of records in the vector. New records are zero.
// Removed records are zeroed so that growing the vector again will not
// reveal their contents. A failed resize leaves the vector unchanged.
func (v *Vector) Resize(n int) error {
	if n < 0 {
		return curated.Categorisedf(curated.Range, InvalidSize, n)
	}

	pagesNeeded := (n + v.framesPerPage - 1) / v.framesPerPage
	if pagesNeeded > MaxPages {
		return curated.Categorisedf(curated.Resource, TooManyPages, n)
	}

	if n == v.frames {
		return nil
	}

	v.clearCache()
	v.epoch++
	v.mutations++

	if n == 0 {
		v.pages = nil
		v.frames = 0
		return nil
	}

	if n < v.frames {
		clear(v.pages[pagesNeeded:])
		v.pages = v.pages[:pagesNeeded]

		// zero the remainder of the last page unless the page is full
		if last := v.pages[pagesNeeded-1]; last != nil && n%v.framesPerPage != 0 {
			clear(last[(n%v.framesPerPage)*v.frameSize:])
		}
	} else {
		for len(v.pages) < pagesNeeded {
			v.pages = append(v.pages, nil)
		}
	}

	v.frames = n

	return nil
}

// CountFrames returns the number of logical frames. That is, the number of
// records with the sync flag set.
func (v *Vector) CountFrames() int {
	var count int
	for n := range v.frames {
		if v.sync(n) {
			count++
		}
	}
	return count
}

// Walk advances from a record by a number of logical frames. Each record
// with the sync flag set after the starting record is a frame boundary. If
// inclusive is true then the starting record is itself a boundary if its
// sync flag is set.
//
// Returns the index of the record at the final boundary. If there are not
// enough boundaries the length of the vector is returned. A count of zero
// returns the starting record.
func (v *Vector) Walk(from int, count int, inclusive bool) int {
	if count <= 0 {
		return min(max(from, 0), v.frames)
	}

	n := max(from, 0)
	if !inclusive {
		n++
	}

	for ; n < v.frames; n++ {
		if v.sync(n) {
			count--
			if count == 0 {
				return n
			}
		}
	}

	return v.frames
}

// SubframeCount returns the number of records in the logical frame that
// starts at the record. Returns zero if the record is out of range.
func (v *Vector) SubframeCount(from int) int {
	if from < 0 || from >= v.frames {
		return 0
	}
	return v.Walk(from, 1, false) - from
}

// FindFrame returns the index of the first record of the numbered logical
// frame. Logical frames are numbered from one. Returns the length of the
// vector if the frame does not exist.
func (v *Vector) FindFrame(frame int) int {
	if frame < 1 {
		return v.frames
	}
	return v.Walk(0, frame, true)
}

// Clone returns a deep copy of the vector.
func (v *Vector) Clone() *Vector {
	c := &Vector{
		set:           v.set,
		frameSize:     v.frameSize,
		framesPerPage: v.framesPerPage,
		frames:        v.frames,
		pages:         make([]page, len(v.pages)),
	}
	c.clearCache()
	for i, p := range v.pages {
		if p != nil {
			c.pages[i] = make(page, PageBytes)
			copy(c.pages[i], p)
		}
	}
	return c
}

// Equal returns true if both vectors have the same layout and records.
func (v *Vector) Equal(o *Vector) bool {
	if v.set != o.set || v.frames != o.frames {
		return false
	}
	for i := range v.pages {
		a, b := v.pages[i], o.pages[i]
		switch {
		case a == nil && b == nil:
		case a == nil:
			if !isZero(b) {
				return false
			}
		case b == nil:
			if !isZero(a) {
				return false
			}
		default:
			if !bytes.Equal(a, b) {
				return false
			}
		}
	}
	return true
}

func isZero(p page) bool {
	for _, b := range p {
		if b != 0 {
			return false
		}
	}
	return true
}
