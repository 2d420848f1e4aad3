// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signature_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomira/booru/internal/signature"
)

func gradientImage(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x*7 + y*13) % 256)
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func solidImage(w, h int, v uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

/*
TestCompute_ShapeInvariants checks the fixed output shape the rest of the
reverse-search pipeline (storage column widths, the word-index GIN column)
depends on.
*/
func TestCompute_ShapeInvariants(t *testing.T) {
	sig, err := signature.Compute(gradientImage(200, 150))
	require.NoError(t, err)
	assert.Len(t, sig.Vector, 544)
	assert.Len(t, sig.Words, 100)
}

/*
TestCompute_Deterministic checks signature(bytes) == signature(bytes), the
core invariant the spec calls out.
*/
func TestCompute_Deterministic(t *testing.T) {
	img := gradientImage(180, 120)
	a, err := signature.Compute(img)
	require.NoError(t, err)
	b, err := signature.Compute(img)
	require.NoError(t, err)
	assert.Equal(t, a.Vector, b.Vector)
	assert.Equal(t, a.Words, b.Words)
}

func TestCompute_DifferentImagesDiffer(t *testing.T) {
	a, err := signature.Compute(gradientImage(180, 120))
	require.NoError(t, err)
	b, err := signature.Compute(solidImage(180, 120, 128))
	require.NoError(t, err)
	assert.NotEqual(t, a.Vector, b.Vector)
}

func TestDistance_IdenticalIsZeroAndExact(t *testing.T) {
	sig, err := signature.Compute(gradientImage(180, 120))
	require.NoError(t, err)
	d := signature.Distance(sig.Vector, sig.Vector)
	assert.Equal(t, 0.0, d)
	assert.True(t, signature.IsExact(d))
}

func TestDistance_BoundedUnitRange(t *testing.T) {
	a, err := signature.Compute(gradientImage(180, 120))
	require.NoError(t, err)
	b, err := signature.Compute(solidImage(180, 120, 200))
	require.NoError(t, err)
	d := signature.Distance(a.Vector, b.Vector)
	assert.GreaterOrEqual(t, d, 0.0)
	assert.LessOrEqual(t, d, 1.0)
}

func TestDistance_AllZeroVectorsDoNotDivideByZero(t *testing.T) {
	zero := make([]int8, 544)
	assert.Equal(t, 0.0, signature.Distance(zero, zero))
}

func TestCompute_SmallImageDoesNotPanic(t *testing.T) {
	_, err := signature.Compute(gradientImage(9, 9))
	require.NoError(t, err)
}
