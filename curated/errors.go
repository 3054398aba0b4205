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

package curated

import (
	"errors"
	"fmt"
	"strings"
)

// Category groups curated errors by the kind of failure they describe.
type Category int

// List of valid Category values.
const (
	Uncategorised Category = iota

	// the input could not be decoded. a bad container member or a malformed
	// line of text
	Format

	// two values that must share a layout do not
	TypeMismatch

	// an index, count or value was outside of the permitted range
	Range

	// the macro grammar was violated
	Syntax

	// an allocation or file system resource could not be acquired
	Resource
)

func (c Category) String() string {
	switch c {
	case Format:
		return "format"
	case TypeMismatch:
		return "type mismatch"
	case Range:
		return "range"
	case Syntax:
		return "syntax"
	case Resource:
		return "resource"
	}
	return "uncategorised"
}

// curated is an implementation of the go language error interface.
type curated struct {
	category Category
	pattern  string
	values   []any
}

// Errorf creates a new uncategorised curated error.
//
// Note that unlike the Errorf() function in the fmt package the first argument
// is named "pattern" not "format". This is because we use the pattern string
// in the Is() and Has() functions where 'pattern' seems to be more descriptive
// name.
func Errorf(pattern string, values ...any) error {
	// note that we're not actually formatting the error here, despite the
	// function name. we instead only store the arguments. formatting takes
	// place in the Error() function
	return curated{
		pattern: pattern,
		values:  values,
	}
}

// Categorisedf is the same as Errorf() but the error is placed in the
// specified category. The category can be tested with the InCategory()
// function.
func Categorisedf(category Category, pattern string, values ...any) error {
	return curated{
		category: category,
		pattern:  pattern,
		values:   values,
	}
}

// Error returns the normalised error message. Normalisation being the removal
// of duplicate adjacent error messsage parts in the error message chains. It
// doesn't affect letter-case or white space.
//
// Implements the go language error interface.
func (er curated) Error() string {
	s := fmt.Errorf(er.pattern, er.values...).Error()

	// de-duplicate error message parts
	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}

	return strings.Join(p, ": ")
}

// Unwrap returns any errors that have been used as values for the error
// pattern. This allows the errors.Is() and errors.As() functions from the
// standard library to see through a curated error.
func (er curated) Unwrap() []error {
	var w []error
	for _, v := range er.values {
		if e, ok := v.(error); ok {
			w = append(w, e)
		}
	}
	return w
}

// IsAny checks if the error is a curated error.
func IsAny(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(curated); ok {
		return true
	}

	return false
}

// Is checks if error is a curated error with a specific pattern.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}

	if er, ok := err.(curated); ok {
		return er.pattern == pattern
	}

	return false
}

// Has checks if error is a curated error with a specific pattern somewhere in
// the chain.
func Has(err error, pattern string) bool {
	if err == nil {
		return false
	}

	if !IsAny(err) {
		return false
	}

	if Is(err, pattern) {
		return true
	}

	for _, v := range err.(curated).values {
		if e, ok := v.(curated); ok {
			if Has(e, pattern) {
				return true
			}
		}
	}

	return false
}

// InCategory checks if the error, or any curated error in the chain, has been
// created in the specified category.
func InCategory(err error, category Category) bool {
	var er curated
	if !errors.As(err, &er) {
		return false
	}

	if er.category == category {
		return true
	}

	for _, v := range er.values {
		if e, ok := v.(error); ok {
			if InCategory(e, category) {
				return true
			}
		}
	}

	return false
}

// CategoryOf returns the category of the first categorised error in the chain.
func CategoryOf(err error) Category {
	var er curated
	if !errors.As(err, &er) {
		return Uncategorised
	}

	if er.category != Uncategorised {
		return er.category
	}

	for _, v := range er.values {
		if e, ok := v.(error); ok {
			if c := CategoryOf(e); c != Uncategorised {
				return c
			}
		}
	}

	return Uncategorised
}
