package optimizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlateNames(t *testing.T) {
	expected := map[SlateKind]string{
		SlateAll:                "all",
		SlateSunday:             "sunday",
		SlateSundayEarly:        "sunday_early",
		SlateSundayEarlyAndLate: "sunday_early_and_late",
		SlateSundayAndMonday:    "sunday_and_monday",
		SlateMonday:             "monday",
		SlateMondayAndThursday:  "monday_and_thursday",
	}
	for kind, name := range expected {
		assert.Equal(t, name, Slate{Kind: kind}.Name())

		parsed, err := ParseSlateKind(name)
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseSlateKind("saturday")
	assert.Error(t, err)
}

func TestSlateMatches(t *testing.T) {
	at := func(day, hour int) Player {
		// November 2025: the 2nd is a Sunday.
		return Player{GameTime: time.Date(2025, 11, day, hour, 0, 0, 0, time.UTC)}
	}

	tests := []struct {
		name    string
		slate   Slate
		player  Player
		matches bool
	}{
		{"all matches anything", Slate{Kind: SlateAll}, at(6, 20), true},
		{"sunday early game", Slate{Kind: SlateSunday}, at(2, 13), true},
		{"sunday late game", Slate{Kind: SlateSunday}, at(2, 16), true},
		{"sunday night game", Slate{Kind: SlateSunday}, at(2, 20), true},
		{"sunday rejects monday", Slate{Kind: SlateSunday}, at(3, 13), false},
		{"early window is one o'clock", Slate{Kind: SlateSundayEarly}, at(2, 13), true},
		{"early window rejects four o'clock", Slate{Kind: SlateSundayEarly}, at(2, 16), false},
		{"early and late accepts four o'clock", Slate{Kind: SlateSundayEarlyAndLate}, at(2, 16), true},
		{"early and late rejects night", Slate{Kind: SlateSundayEarlyAndLate}, at(2, 20), false},
		{"sunday and monday accepts monday", Slate{Kind: SlateSundayAndMonday}, at(3, 20), true},
		{"monday rejects sunday", Slate{Kind: SlateMonday}, at(2, 13), false},
		{"monday accepts monday", Slate{Kind: SlateMonday}, at(3, 20), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.slate.Matches(tt.player))
		})
	}
}

func TestSlateMatches_MondayAndThursday(t *testing.T) {
	slate := Slate{Kind: SlateMondayAndThursday, Weeks: [2]int{9, 10}}

	monday := Player{Week: 9, GameTime: time.Date(2025, 11, 3, 20, 0, 0, 0, time.UTC)}
	thursday := Player{Week: 10, GameTime: time.Date(2025, 11, 6, 20, 0, 0, 0, time.UTC)}
	assert.True(t, slate.Matches(monday))
	assert.True(t, slate.Matches(thursday))

	// The pairing is ordered: a Thursday game in the first week and a
	// Monday game in the second both fall outside the window.
	wrongWeekThursday := Player{Week: 9, GameTime: thursday.GameTime}
	wrongWeekMonday := Player{Week: 10, GameTime: monday.GameTime}
	assert.False(t, slate.Matches(wrongWeekThursday))
	assert.False(t, slate.Matches(wrongWeekMonday))

	sunday := Player{Week: 9, GameTime: time.Date(2025, 11, 2, 13, 0, 0, 0, time.UTC)}
	assert.False(t, slate.Matches(sunday))
}
