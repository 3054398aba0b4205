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
	"math"
	"math/cmplx"
	"regexp"
	"strconv"
	"strings"

	"github.com/jetsetilly/rerecord/controls"
	"github.com/jetsetilly/rerecord/curated"
)

// Sentinal errors.
const (
	BadAxisTransform = "macro: bad axis transform: %s"
)

// AxisTransform is an affine transform of an analog action. A position (x,y)
// is transformed to:
//
//	u = c0*x + c1*y + c4
//	v = c2*x + c3*y + c5
//
// The coordinates are in the unscaled range. See UnscaleAxis() for details.
type AxisTransform struct {
	Coeffs [6]float64
}

// Identity is the transform that leaves the position unchanged.
var Identity = AxisTransform{Coeffs: [6]float64{1, 0, 0, 1, 0, 0}}

var (
	affine   = regexp.MustCompile(`^\*(.*)\+(.*)$`)
	linear   = regexp.MustCompile(`^\*(.*)$`)
	relative = regexp.MustCompile(`^\+(.*)$`)
	full     = regexp.MustCompile(`^(.*),(.*),(.*),(.*),(.*),(.*)$`)

	rectangular = regexp.MustCompile(`^\((.*),(.*)\)$`)
	polar       = regexp.MustCompile(`^\((.*)<(.*)\)$`)
)

func parseReal(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, curated.Categorisedf(curated.Syntax, BadAxisTransform, s)
	}
	return v, nil
}

func parseComplex(s string) (complex128, error) {
	if m := rectangular.FindStringSubmatch(s); m != nil {
		re, err := parseReal(m[1])
		if err != nil {
			return 0, err
		}
		im, err := parseReal(m[2])
		if err != nil {
			return 0, err
		}
		return complex(re, im), nil
	}

	if m := polar.FindStringSubmatch(s); m != nil {
		mag, err := parseReal(m[1])
		if err != nil {
			return 0, err
		}
		deg, err := parseReal(m[2])
		if err != nil {
			return 0, err
		}
		return cmplx.Rect(mag, deg*math.Pi/180), nil
	}

	re, err := parseReal(s)
	if err != nil {
		return 0, err
	}
	return complex(re, 0), nil
}

// rotation returns the coefficients for multiplication by a complex number
// followed by the addition of another.
func rotation(a complex128, b complex128) AxisTransform {
	return AxisTransform{Coeffs: [6]float64{
		real(a), -imag(a),
		imag(a), real(a),
		real(b), imag(b),
	}}
}

// ParseAxisTransform parses the expression part of an axis transform. The
// forms of the expression are:
//
//	*a+b		multiply by complex a and add complex b
//	*a		multiply by complex a
//	+b		add complex b
//	c0,c1,c2,c3,c4,c5	all six coefficients
//	b		the absolute position b
func ParseAxisTransform(expr string) (AxisTransform, error) {
	if m := affine.FindStringSubmatch(expr); m != nil {
		a, err := parseComplex(m[1])
		if err != nil {
			return AxisTransform{}, err
		}
		b, err := parseComplex(m[2])
		if err != nil {
			return AxisTransform{}, err
		}
		return rotation(a, b), nil
	}

	if m := linear.FindStringSubmatch(expr); m != nil {
		a, err := parseComplex(m[1])
		if err != nil {
			return AxisTransform{}, err
		}
		return rotation(a, 0), nil
	}

	if m := relative.FindStringSubmatch(expr); m != nil {
		b, err := parseComplex(m[1])
		if err != nil {
			return AxisTransform{}, err
		}
		return rotation(1, b), nil
	}

	if m := full.FindStringSubmatch(expr); m != nil {
		var t AxisTransform
		for i := range t.Coeffs {
			v, err := parseReal(m[i+1])
			if err != nil {
				return AxisTransform{}, err
			}
			t.Coeffs[i] = v
		}
		return t, nil
	}

	b, err := parseComplex(expr)
	if err != nil {
		return AxisTransform{}, err
	}
	return AxisTransform{Coeffs: [6]float64{0, 0, 0, 0, real(b), imag(b)}}, nil
}

// String returns the transform in the six coefficient form.
func (t AxisTransform) String() string {
	s := make([]string, len(t.Coeffs))
	for i, c := range t.Coeffs {
		s[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return strings.Join(s, ",")
}

// Transform applies the transform to a single axis.
func (t AxisTransform) Transform(ctl controls.Control, v int16) int16 {
	return ScaleAxis(ctl, t.Coeffs[0]*UnscaleAxis(ctl, v)+t.Coeffs[4])
}

// TransformPair applies the transform to a pair of axes.
func (t AxisTransform) TransformPair(ctlX controls.Control, ctlY controls.Control, x int16, y int16) (int16, int16) {
	ux := UnscaleAxis(ctlX, x)
	uy := UnscaleAxis(ctlY, y)
	u := t.Coeffs[0]*ux + t.Coeffs[1]*uy + t.Coeffs[4]
	v := t.Coeffs[2]*ux + t.Coeffs[3]*uy + t.Coeffs[5]
	return ScaleAxis(ctlX, u), ScaleAxis(ctlY, v)
}

// UnscaleAxis converts an axis value to the range -1 to 1 for an axis that
// centers, or 0 to 1 for an axis that does not. Values outside the range of
// the control are clamped.
func UnscaleAxis(ctl controls.Control, v int16) float64 {
	lo := float64(ctl.Min)
	hi := float64(ctl.Max)
	fv := float64(v)

	if ctl.Centers {
		center := float64((int32(ctl.Min) + int32(ctl.Max)) / 2)
		switch {
		case fv <= lo:
			return -1
		case fv < center:
			return -(center - fv) / (center - lo)
		case fv == center:
			return 0
		case fv < hi:
			return (fv - center) / (hi - center)
		}
		return 1
	}

	switch {
	case fv <= lo:
		return 0
	case fv >= hi:
		return 1
	}
	return (fv - lo) / (hi - lo)
}

// ScaleAxis is the inverse of UnscaleAxis(). The result is clamped to the
// range of the control.
func ScaleAxis(ctl controls.Control, v float64) int16 {
	lo := float64(ctl.Min)
	hi := float64(ctl.Max)

	if ctl.Centers {
		center := float64((int32(ctl.Min) + int32(ctl.Max)) / 2)
		if v == 0 {
			return int16(center)
		}
		if v < 0 {
			v2 := v*(center-lo) + center
			if v2 < lo {
				return ctl.Min
			}
			return int16(v2)
		}
		v2 := v*(hi-center) + center
		if v2 > hi {
			return ctl.Max
		}
		return int16(v2)
	}

	v2 := v*(hi-lo) + lo
	switch {
	case v2 < lo:
		return ctl.Min
	case v2 > hi:
		return ctl.Max
	}
	return int16(v2)
}
