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
	"strings"

	"github.com/jetsetilly/rerecord/curated"
)

// MaxFrames is the maximum number of frames in a compiled macro.
const MaxFrames = 1 << 20

// Sentinal errors. Every syntax error includes the position of the offending
// character in the expression.
const (
	AsteriskNotLast       = "macro: asterisk must be the last thing at position %d"
	ParenInBrackets       = "macro: parentheses in square brackets not allowed at position %d"
	UnmatchedRightParen   = "macro: unmatched right parenthesis at position %d"
	UnmatchedLeftParen    = "macro: unmatched left parenthesis at position %d"
	NestedBrackets        = "macro: nested square brackets not allowed at position %d"
	UnmatchedRightBracket = "macro: unmatched right square bracket at position %d"
	UnmatchedLeftBracket  = "macro: unmatched left square bracket at position %d"
	ExpectedColon         = "macro: expected ':' in axis transform at position %d"
	ExpectedAt            = "macro: expected '@' in axis transform at position %d"
	InvalidAxis           = "macro: axis transform refers to invalid axis at position %d"
	AxisTransformError    = "macro: %v at position %d"
	RepeatWithoutFrame    = "macro: repeat not allowed without frame to repeat at position %d"
	NothingToRepeat       = "macro: repeat count with nothing to repeat at position %d"
	ZeroRepeat            = "macro: repeat count must be greater than zero at position %d"
	TooLong               = "macro: too many frames at position %d"
	UnknownSymbol         = "macro: unknown character or button at position %d"
)

// sink receives the result of the grammar walk.
type sink interface {
	// add a blank frame to the end of the sequence
	newFrame()

	// press a button in the last frame of the sequence
	press(button int)

	// set the transform of an analog action in the last frame
	transform(action int, t AxisTransform)

	// duplicate the last size frames so that they appear count times
	repeat(size int, count int)
}

// checker is a sink that does not build anything.
type checker struct{}

func (checker) newFrame()                      {}
func (checker) press(_ int)                    {}
func (checker) transform(_ int, _ AxisTransform) {}
func (checker) repeat(_ int, _ int)            {}

func syntaxError(pattern string, values ...any) error {
	return curated.Categorisedf(curated.Syntax, pattern, values...)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// walk the macro expression. returns whether the macro ends with an asterisk.
func walk(expr string, desc compiled, s sink) (bool, error) {
	// number of frames in the sequence
	var n int

	// the last frame of the sequence is open and will receive buttons
	var open bool

	// the number of frames that a repeat count will duplicate
	var lastSize int

	var inBrackets bool
	var autoterminate bool

	// start of each open parenthesised group
	var groups []int

	newFrame := func() {
		s.newFrame()
		n++
		open = true
	}

	for pos := 0; pos < len(expr); pos++ {
		ch := expr[pos]

		if autoterminate {
			return false, syntaxError(AsteriskNotLast, pos)
		}

		switch {
		case ch == '(':
			if inBrackets {
				return false, syntaxError(ParenInBrackets, pos)
			}
			if open {
				groups = append(groups, n-1)
			} else {
				groups = append(groups, n)
			}

		case ch == ')':
			if inBrackets {
				return false, syntaxError(ParenInBrackets, pos)
			}
			if len(groups) == 0 {
				return false, syntaxError(UnmatchedRightParen, pos)
			}
			lastSize = n - groups[len(groups)-1]
			groups = groups[:len(groups)-1]
			open = false

		case ch == '*':
			autoterminate = true

		case ch == '[':
			if inBrackets {
				return false, syntaxError(NestedBrackets, pos)
			}
			inBrackets = true
			if !open {
				newFrame()
			}
			lastSize = 1

		case ch == ']':
			if !inBrackets {
				return false, syntaxError(UnmatchedRightBracket, pos)
			}
			inBrackets = false
			open = false
			lastSize = 1

		case ch == '.':
			if !inBrackets {
				newFrame()
				lastSize = 1
			}

		case isDigit(ch):
			start := pos
			var v int
			for pos < len(expr) && isDigit(expr[pos]) {
				if v <= MaxFrames {
					v = v*10 + int(expr[pos]-'0')
				}
				pos++
			}

			if inBrackets {
				if pos >= len(expr) || expr[pos] != ':' {
					return false, syntaxError(ExpectedColon, pos)
				}
				end := strings.IndexByte(expr[pos:], '@')
				if end < 0 {
					return false, syntaxError(ExpectedAt, len(expr))
				}
				end += pos
				if v >= len(desc.axes) {
					return false, syntaxError(InvalidAxis, start)
				}
				t, err := ParseAxisTransform(expr[pos+1 : end])
				if err != nil {
					return false, syntaxError(AxisTransformError, err, pos+1)
				}
				s.transform(v, t)
				pos = end
			} else {
				if start == 0 {
					return false, syntaxError(RepeatWithoutFrame, start)
				}
				if lastSize == 0 {
					return false, syntaxError(NothingToRepeat, start)
				}
				if v == 0 {
					return false, syntaxError(ZeroRepeat, start)
				}
				if v > MaxFrames || n+lastSize*(v-1) > MaxFrames {
					return false, curated.Categorisedf(curated.Range, TooLong, start)
				}
				s.repeat(lastSize, v)
				n += lastSize * (v - 1)
				lastSize *= v

				// step back so the loop increment lands on the next token
				pos--
			}

		default:
			btn, l, ok := desc.match(expr[pos:])
			if !ok {
				return false, syntaxError(UnknownSymbol, pos)
			}
			if !open {
				newFrame()
			}
			s.press(btn)
			if !inBrackets {
				lastSize = 1
			}
			pos += l - 1
		}
	}

	if inBrackets {
		return false, syntaxError(UnmatchedLeftBracket, len(expr))
	}
	if len(groups) > 0 {
		return false, syntaxError(UnmatchedLeftParen, len(expr))
	}

	return autoterminate, nil
}

// SyntaxCheck walks the expression with the same grammar as Compile() but
// without building the sequence of frames.
func SyntaxCheck(expr string, desc Descriptor) error {
	c, err := desc.compile()
	if err != nil {
		return err
	}
	_, err = walk(expr, c, checker{})
	return err
}
