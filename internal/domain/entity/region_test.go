package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundsRect_Truncates(t *testing.T) {
	b := Bounds{Y1: 0.1, Y2: 0.3, X1: 0.3, X2: 0.7}
	require.Equal(t, image.Rect(30, 10, 70, 30), b.Rect(100, 100))

	// 0.3*33 = 9.9 → 9
	require.Equal(t, image.Rect(9, 3, 23, 9), b.Rect(33, 33))
}

func TestBoundsRect_Clamped(t *testing.T) {
	b := Bounds{Y1: 0, Y2: 1, X1: 0, X2: 1}
	r := b.Rect(10, 20)
	require.Equal(t, image.Rect(0, 0, 10, 20), r)
}

func TestBoundsValidate(t *testing.T) {
	require.NoError(t, Bounds{Y1: 0.3, Y2: 0.4, X1: 0.25, X2: 0.75}.Validate())
	require.Error(t, Bounds{Y1: 0.4, Y2: 0.4, X1: 0.25, X2: 0.75}.Validate())
	require.Error(t, Bounds{Y1: 0.1, Y2: 0.4, X1: 0.8, X2: 0.75}.Validate())
	require.Error(t, Bounds{Y1: -0.1, Y2: 0.4, X1: 0.1, X2: 0.75}.Validate())
	require.Error(t, Bounds{Y1: 0.1, Y2: 0.4, X1: 0.1, X2: 1.2}.Validate())
}
