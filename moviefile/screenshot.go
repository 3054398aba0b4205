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
	"encoding/binary"
	"image"
	"image/color"

	"github.com/jetsetilly/rerecord/curated"
)

// Sentinal errors.
const (
	NoScreenshot  = "moviefile: movie has no screenshot"
	BadScreenshot = "moviefile: screenshot data is corrupt (%d bytes)"
)

// screenshot data is a two byte big-endian width followed by three bytes of
// RGB for each pixel
const (
	screenshotHeader = 2
	screenshotPixel  = 3
)

// Screenshot decodes the screenshot saved with a snapshot.
func (m *Movie) Screenshot() (*image.RGBA, error) {
	d := m.ScreenshotData
	if len(d) == 0 {
		return nil, curated.Errorf(NoScreenshot)
	}
	if len(d) < screenshotHeader {
		return nil, curated.Categorisedf(curated.Format, BadScreenshot, len(d))
	}

	w := int(binary.BigEndian.Uint16(d))
	d = d[screenshotHeader:]
	if w == 0 || len(d)%(w*screenshotPixel) != 0 {
		return nil, curated.Categorisedf(curated.Format, BadScreenshot, len(m.ScreenshotData))
	}
	h := len(d) / (w * screenshotPixel)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			i := (y*w + x) * screenshotPixel
			img.SetRGBA(x, y, color.RGBA{R: d[i], G: d[i+1], B: d[i+2], A: 255})
		}
	}

	return img, nil
}

// SetScreenshot encodes the image as the screenshot for a snapshot. Images
// wider than 65535 pixels are cropped.
func (m *Movie) SetScreenshot(img image.Image) {
	b := img.Bounds()
	w := min(b.Dx(), 0xffff)

	d := make([]byte, screenshotHeader, screenshotHeader+w*b.Dy()*screenshotPixel)
	binary.BigEndian.PutUint16(d, uint16(w))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Min.X+w; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			d = append(d, c.R, c.G, c.B)
		}
	}

	m.ScreenshotData = d
}
