// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signature

// sampleGrid places a 9x9 grid of sample centres over g and computes the
// mean intensity in a square window around each, per §4.C steps 2-3.
func sampleGrid(g *grayImage) [gridSize][gridSize]float64 {
	var points [gridSize][gridSize]float64

	window := g.width
	if g.height < window {
		window = g.height
	}
	window /= windowDivisor
	if window < 1 {
		window = 1
	}

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			cx := int(float64(g.width) * (float64(i) + 0.5) / gridSize)
			cy := int(float64(g.height) * (float64(j) + 0.5) / gridSize)
			points[i][j] = windowMean(g, cx, cy, window)
		}
	}
	return points
}

func windowMean(g *grayImage, cx, cy, window int) float64 {
	half := window / 2
	x0, x1 := clamp(cx-half, 0, g.width-1), clamp(cx+half, 0, g.width-1)
	y0, y1 := clamp(cy-half, 0, g.height-1), clamp(cy+half, 0, g.height-1)

	var sum float64
	var n int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			sum += g.at(x, y)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// neighbourOffsets are the 8 compass directions a grid point compares
// against. Points on the grid's border simply have fewer in-bounds
// neighbours, which is what shrinks 81*8=648 down to 544 entries.
var neighbourOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// neighbourDiffs computes the signed difference of every grid point against
// each of its existing neighbours, in a fixed, deterministic traversal
// order (row-major over grid points, then compass order over neighbours).
func neighbourDiffs(points [gridSize][gridSize]float64) []float64 {
	diffs := make([]float64, 0, vectorLength)
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			for _, off := range neighbourOffsets {
				ni, nj := i+off[0], j+off[1]
				if ni < 0 || ni >= gridSize || nj < 0 || nj >= gridSize {
					continue
				}
				diffs = append(diffs, points[ni][nj]-points[i][j])
			}
		}
	}
	return diffs
}
