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

package curated_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/jetsetilly/rerecord/curated"
	"github.com/jetsetilly/rerecord/test"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectEquality(t, e.Error(), "test error: foo")

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := curated.Errorf(testError, e)
	test.ExpectEquality(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectSuccess(t, curated.Is(e, testError))
	test.ExpectSuccess(t, curated.IsAny(e))

	// Has() should fail because we haven't included testErrorB anywhere in the error
	test.ExpectFailure(t, curated.Has(e, testErrorB))

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := curated.Errorf(testErrorB, e)
	test.ExpectFailure(t, curated.Is(f, testError))
	test.ExpectSuccess(t, curated.Is(f, testErrorB))
	test.ExpectSuccess(t, curated.Has(f, testError))
	test.ExpectSuccess(t, curated.Has(f, testErrorB))

	// IsAny should return false for plain Go errors
	test.ExpectFailure(t, curated.IsAny(errors.New("plain")))
}

func TestCategory(t *testing.T) {
	e := curated.Categorisedf(curated.Format, testError, "foo")
	test.ExpectSuccess(t, curated.InCategory(e, curated.Format))
	test.ExpectFailure(t, curated.InCategory(e, curated.Range))
	test.ExpectEquality(t, curated.CategoryOf(e), curated.Format)

	// the category survives wrapping by an uncategorised error
	f := curated.Errorf("wrapped: %v", e)
	test.ExpectSuccess(t, curated.InCategory(f, curated.Format))
	test.ExpectEquality(t, curated.CategoryOf(f), curated.Format)

	// plain errors have no category
	test.ExpectFailure(t, curated.InCategory(errors.New("plain"), curated.Format))
	test.ExpectEquality(t, curated.CategoryOf(errors.New("plain")), curated.Uncategorised)
}

func TestUnwrap(t *testing.T) {
	e := curated.Categorisedf(curated.Resource, "file: %v", fs.ErrNotExist)
	test.ExpectSuccess(t, errors.Is(e, fs.ErrNotExist))
	test.ExpectFailure(t, errors.Is(e, fs.ErrPermission))
}
