package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("19:30:00")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(19, 30, 0), tod)
	assert.Equal(t, "19:30:00", tod.String())

	_, err = ParseTimeOfDay("25:00:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("7pm")
	assert.Error(t, err)
}

func TestTimeOfDayMicroseconds(t *testing.T) {
	tod := NewTimeOfDay(0, 1, 30)
	assert.Equal(t, int64(90_000_000), tod.Microseconds())
	assert.Equal(t, tod, TimeOfDayFromMicroseconds(tod.Microseconds()))
}

func TestTimeOfDayAdd(t *testing.T) {
	start := NewTimeOfDay(22, 0, 0)
	end := start.Add(3 * time.Hour)

	// windows past midnight stay ordered, no wrap
	assert.True(t, end > start)
	assert.Equal(t, TimeOfDay(25*3600), end)
}
