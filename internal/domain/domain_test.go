package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator_Unique(t *testing.T) {
	gen := NewIDGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.Next("node_")
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIDGenerator_Format(t *testing.T) {
	gen := NewIDGenerator()

	id := gen.Next("edge_")

	assert.True(t, strings.HasPrefix(id, "edge_1_"))
	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 4)
}

func TestIDGenerator_AdvancePast(t *testing.T) {
	gen := NewIDGenerator()
	gen.AdvancePast("node42_ab3f", "node7_0c1d", "unnumbered")

	id := gen.Next("node")

	assert.True(t, strings.HasPrefix(id, "node43_"), "got %s", id)
}

func TestIDGenerator_Reset(t *testing.T) {
	gen := NewIDGenerator()
	gen.Next("n")
	gen.Next("n")

	gen.Reset()

	assert.True(t, strings.HasPrefix(gen.Next("n"), "n1_"))
}

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
		ok   bool
	}{
		{"year only", "1914", time.Date(1914, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"year and month", "1914-7", time.Date(1914, time.July, 1, 0, 0, 0, 0, time.UTC), true},
		{"full date", "1914-07-28", time.Date(1914, time.July, 28, 0, 0, 0, 0, time.UTC), true},
		{"month out of range", "1914-13", time.Time{}, false},
		{"free text", "circa 1200", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEventDate(tt.date)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExplanationGroup(t *testing.T) {
	assert.Equal(t, Group("explanation_default"), ExplanationGroup(""))
	assert.Equal(t, Group("explanation_why"), ExplanationGroup("why"))
	assert.True(t, ExplanationGroup("how").IsExplanation())
	assert.False(t, GroupMain.IsExplanation())
}

func TestGroupIsPrimary(t *testing.T) {
	assert.True(t, GroupCenter.IsPrimary())
	assert.True(t, GroupMain.IsPrimary())
	assert.True(t, GroupHistoricalEra.IsPrimary())
	assert.False(t, GroupDetail.IsPrimary())
}

func TestIDGenerator_AdvancePastOwnFormat(t *testing.T) {
	gen := NewIDGenerator()
	gen.AdvancePast("node_init_9_abcd", "edge_init_3_9f2e")

	id := gen.Next("node_init_")

	assert.True(t, strings.HasPrefix(id, "node_init_10_"), "got %s", id)
}
