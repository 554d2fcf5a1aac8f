package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), *got)

	got, err = ParseDate("2024-02-29", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseDate("2024-03-01T08:30:00+02:00", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 6, 30, 0, 0, time.UTC), got.UTC())

	got, err = ParseDate("  ", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDate("01/02/2024", false)
	assert.Error(t, err)
}
