package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockMinutes(t *testing.T) {
	m, err := ClockMinutes("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, m)

	// Формат с секундами, как отдаёт Postgres для колонок time.
	m, err = ClockMinutes("14:05:00")
	require.NoError(t, err)
	assert.Equal(t, 14*60+5, m)

	_, err = ClockMinutes("25:00")
	assert.Error(t, err)
	_, err = ClockMinutes("полдень")
	assert.Error(t, err)
}

func TestWindowContains(t *testing.T) {
	w := &AvailabilityWindow{StartTime: "09:00", EndTime: "12:00"}

	assert.True(t, w.Contains(9*60, 12*60))
	assert.True(t, w.Contains(10*60, 11*60))
	assert.False(t, w.Contains(8*60, 10*60))
	assert.False(t, w.Contains(11*60, 13*60))

	broken := &AvailabilityWindow{StartTime: "???", EndTime: "12:00"}
	assert.False(t, broken.Contains(10*60, 11*60))
}

func TestSameDate(t *testing.T) {
	a := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)
	c := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(a, c))
}
