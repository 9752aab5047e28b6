package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePosition(t *testing.T) {
	tests := []struct {
		input    string
		expected Position
	}{
		{"QB", QB},
		{"qb", QB},
		{"Quarterback", QB},
		{"RB", RB},
		{"running back", RB},
		{"WR", WR},
		{"wide_receiver", WR},
		{"te", TE},
		{"Tight End", TE},
		{"DST", DST},
		{"D/ST", DST},
		{"Defense", DST},
		{"def", DST},
		{"D", DST},
		{"defense special teams", DST},
		{"K", PositionUnknown},
		{"", PositionUnknown},
		{"FLEX", PositionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePosition(tt.input))
		})
	}
}

func TestParseSite(t *testing.T) {
	dk, err := ParseSite("DraftKings")
	assert.NoError(t, err)
	assert.Equal(t, 50_000, dk.SalaryCap)

	fd, err := ParseSite("fd")
	assert.NoError(t, err)
	assert.Equal(t, 60_000, fd.SalaryCap)

	yh, err := ParseSite("yahoo")
	assert.NoError(t, err)
	assert.Equal(t, 200, yh.SalaryCap)
	assert.Equal(t, 9, yh.RosterSize)

	_, err = ParseSite("superdraft")
	assert.Error(t, err)
}
