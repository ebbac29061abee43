package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{1500000, "1.500.000"},
		{25000000, "25.000.000"},
		{-1500000, "-1.500.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatRupiah(tt.amount))
	}
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	require.NoError(t, err)
	assert.Len(t, id, 15)

	other, err := GenerateID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestGenerateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken()
	require.NoError(t, err)
	assert.Len(t, token, 30)
}

func TestTimestampsSortLexicographically(t *testing.T) {
	earlier := "2026-02-01 09:59:59.999Z"
	later := "2026-02-01 10:00:00.000Z"
	assert.True(t, earlier < later)

	parsedEarlier, err := ParseTimestamp(earlier)
	require.NoError(t, err)
	parsedLater, err := ParseTimestamp(later)
	require.NoError(t, err)
	assert.True(t, parsedEarlier.Before(parsedLater))
}

func TestNowTimestampRoundTrips(t *testing.T) {
	now := NowTimestamp()

	parsed, err := ParseTimestamp(now)
	require.NoError(t, err)
	assert.Equal(t, now, parsed.UTC().Format(timestampLayout))
}
