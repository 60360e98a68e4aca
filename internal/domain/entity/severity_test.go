package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeverityMask_FillAndRange(t *testing.T) {
	m := NewSeverityMask(4, 3)
	lo, hi := m.Range()
	require.Zero(t, lo)
	require.Zero(t, hi)

	m.Fill(image.Rect(1, 1, 10, 10), 0.6)
	require.Equal(t, 0.0, m.At(0, 0))
	require.Equal(t, 0.6, m.At(1, 1))
	require.Equal(t, 0.6, m.At(3, 2))

	lo, hi = m.Range()
	require.Zero(t, lo)
	require.Equal(t, 0.6, hi)
}

func TestSeverityMap_AffectedKeepsRegionOrder(t *testing.T) {
	m := SeverityMap{RegionChin: 0.6, RegionForehead: 0.9, RegionNose: 0}
	require.Equal(t, []string{RegionForehead, RegionChin}, m.Affected())
}
