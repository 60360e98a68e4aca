package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreatmentEntryScore(t *testing.T) {
	for rank := 1; rank <= 8; rank++ {
		e := TreatmentEntry{Name: "x", PriorityRank: rank}
		require.Equal(t, 6-rank, e.Score())
	}
}
