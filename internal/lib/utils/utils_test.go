package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("06/05/2024")
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")
}

func TestWeekdayID(t *testing.T) {
	monday := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i+1, WeekdayID(monday.AddDate(0, 0, i)))
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, 5, 6, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}

func TestPtrDeref(t *testing.T) {
	p := Ptr(42)
	assert.Equal(t, 42, Deref(p))

	var nilPtr *string
	assert.Equal(t, "", Deref(nilPtr))
}
