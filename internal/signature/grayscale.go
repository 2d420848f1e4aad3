// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signature

import "image"

// grayImage is a dense row-major intensity matrix in [0, 1].
type grayImage struct {
	width, height int
	pix           []float64
}

func (g *grayImage) at(x, y int) float64 {
	return g.pix[y*g.width+x]
}

// toGrayscale converts img to luminance using the standard Rec. 601 weights,
// the same coefficients image.Image's own Gray model uses internally.
func toGrayscale(img image.Image) *grayImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := &grayImage{width: w, height: h, pix: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit-scaled premultiplied channels; normalize to [0,1].
			lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
			out.pix[y*w+x] = lum
		}
	}
	return out
}
