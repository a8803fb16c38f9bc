package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2025, 3, 10, 17, 42, 9, 0, time.UTC))

	assert.Equal(t, Date(2025, 3, 10), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestStartOfDay_NormalizesToUTC(t *testing.T) {
	offset := time.FixedZone("UTC+5", 5*60*60)
	// 02:00 at UTC+5 is 21:00 UTC of the previous day.
	local := time.Date(2025, 3, 11, 2, 0, 0, 0, offset)

	assert.Equal(t, Date(2025, 3, 10), StartOfDay(local))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-10")
	require.NoError(t, err)

	assert.Equal(t, Date(2025, 3, 10), got)

	_, err = ParseDate("10.03.2025")
	assert.Error(t, err)
}
