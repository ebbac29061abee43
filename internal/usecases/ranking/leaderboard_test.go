package ranking

import (
	"testing"

	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMitraKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases the name",
			input:    "Budi Santoso",
			expected: "budi santoso",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  budi santoso  ",
			expected: "budi santoso",
		},
		{
			name:     "interior whitespace is preserved",
			input:    "BUDI  SANTOSO",
			expected: "budi  santoso",
		},
		{
			name:     "empty input stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace-only input collapses to empty",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeMitraKey(tt.input))
		})
	}
}

func TestBuildLeaderboard_GroupsByNormalizedKey(t *testing.T) {
	deals := []domain.Deal{
		{ID: "d1", NamaMitra: "Budi", JumlahTransaksi: 500000, BrandName: "Hokben", Created: "2026-02-01 10:00:00.000Z"},
		{ID: "d2", NamaMitra: "  budi ", JumlahTransaksi: 1000000, BrandName: "Mixue", Created: "2026-02-01 11:00:00.000Z"},
		{ID: "d3", NamaMitra: "BUDI", JumlahTransaksi: 250000, BrandName: "Hokben", Created: "2026-02-01 12:00:00.000Z"},
	}

	board := BuildLeaderboard(deals)

	require.Len(t, board, 1)
	entry := board[0]
	assert.Equal(t, "Budi", entry.NamaMitra) // first-seen spelling is kept
	assert.Equal(t, int64(1750000), entry.TotalTransaksi)
	assert.Equal(t, 3, entry.DealCount)
	assert.Len(t, entry.Deals, 3)
	assert.Equal(t, []string{"Hokben", "Mixue"}, entry.BrandsDealt)
}

func TestBuildLeaderboard_SortsByTotalDescending(t *testing.T) {
	deals := []domain.Deal{
		{ID: "d1", NamaMitra: "Ani", JumlahTransaksi: 100, Created: "2026-02-01 10:00:00.000Z"},
		{ID: "d2", NamaMitra: "Budi", JumlahTransaksi: 300, Created: "2026-02-01 10:01:00.000Z"},
		{ID: "d3", NamaMitra: "Citra", JumlahTransaksi: 200, Created: "2026-02-01 10:02:00.000Z"},
	}

	board := BuildLeaderboard(deals)

	require.Len(t, board, 3)
	assert.Equal(t, "Budi", board[0].NamaMitra)
	assert.Equal(t, "Citra", board[1].NamaMitra)
	assert.Equal(t, "Ani", board[2].NamaMitra)
}

func TestBuildLeaderboard_TiesKeepFirstAppearanceOrder(t *testing.T) {
	deals := []domain.Deal{
		{ID: "d1", NamaMitra: "Ani", JumlahTransaksi: 100, Created: "2026-02-01 10:00:00.000Z"},
		{ID: "d2", NamaMitra: "Budi", JumlahTransaksi: 100, Created: "2026-02-01 10:01:00.000Z"},
		{ID: "d3", NamaMitra: "Citra", JumlahTransaksi: 100, Created: "2026-02-01 10:02:00.000Z"},
	}

	board := BuildLeaderboard(deals)

	require.Len(t, board, 3)
	assert.Equal(t, "Ani", board[0].NamaMitra)
	assert.Equal(t, "Budi", board[1].NamaMitra)
	assert.Equal(t, "Citra", board[2].NamaMitra)
}

func TestBuildLeaderboard_MostRecentWinsDisplayFields(t *testing.T) {
	deals := []domain.Deal{
		{
			ID:               "d1",
			NamaMitra:        "Budi",
			BrandName:        "Hokben",
			FotoMitra:        "foto1.jpg",
			LokasiBukaOutlet: "Jakarta",
			JumlahTransaksi:  500000,
			Created:          "2026-02-01 10:00:00.000Z",
		},
		{
			ID:               "d2",
			NamaMitra:        "Budi",
			BrandName:        "Mixue",
			FotoMitra:        "foto2.jpg",
			LokasiBukaOutlet: "Bandung",
			JumlahTransaksi:  1000000,
			Created:          "2026-02-01 11:00:00.000Z",
		},
	}

	board := BuildLeaderboard(deals)

	require.Len(t, board, 1)
	entry := board[0]
	assert.Equal(t, "Mixue", entry.BrandName)
	assert.Equal(t, "foto2.jpg", entry.FotoMitra)
	assert.Equal(t, "/api/files/deals/d2/foto2.jpg", entry.FotoURL)
	assert.Equal(t, "Bandung", entry.LokasiBukaOutlet)
	assert.Equal(t, "2026-02-01 11:00:00.000Z", entry.LatestDeal)
}

func TestBuildLeaderboard_EmptyFieldsNeverOverwrite(t *testing.T) {
	deals := []domain.Deal{
		{
			ID:               "d1",
			NamaMitra:        "Budi",
			BrandName:        "Hokben",
			FotoMitra:        "foto1.jpg",
			LokasiBukaOutlet: "Jakarta",
			JumlahTransaksi:  500000,
			Created:          "2026-02-01 10:00:00.000Z",
		},
		{
			ID:              "d2",
			NamaMitra:       "Budi",
			JumlahTransaksi: 1000000,
			Created:         "2026-02-01 11:00:00.000Z",
		},
	}

	board := BuildLeaderboard(deals)

	require.Len(t, board, 1)
	entry := board[0]
	// The newer deal has no display fields, so the older values survive
	assert.Equal(t, "Hokben", entry.BrandName)
	assert.Equal(t, "foto1.jpg", entry.FotoMitra)
	assert.Equal(t, "Jakarta", entry.LokasiBukaOutlet)
	// But recency still advances
	assert.Equal(t, "2026-02-01 11:00:00.000Z", entry.LatestDeal)
}

func TestBuildLeaderboard_OrderIndependentTotals(t *testing.T) {
	forward := []domain.Deal{
		{ID: "d1", NamaMitra: "Budi", JumlahTransaksi: 100, Created: "2026-02-01 10:00:00.000Z"},
		{ID: "d2", NamaMitra: "Ani", JumlahTransaksi: 300, Created: "2026-02-01 10:01:00.000Z"},
		{ID: "d3", NamaMitra: "Budi", JumlahTransaksi: 250, Created: "2026-02-01 10:02:00.000Z"},
	}
	reversed := []domain.Deal{forward[2], forward[1], forward[0]}

	boardA := BuildLeaderboard(forward)
	boardB := BuildLeaderboard(reversed)

	require.Len(t, boardA, 2)
	require.Len(t, boardB, 2)
	for i := range boardA {
		assert.Equal(t, boardA[i].TotalTransaksi, boardB[i].TotalTransaksi)
		assert.Equal(t, NormalizeMitraKey(boardA[i].NamaMitra), NormalizeMitraKey(boardB[i].NamaMitra))
		assert.Equal(t, boardA[i].DealCount, boardB[i].DealCount)
	}
}

func TestBuildLeaderboard_EmptyInput(t *testing.T) {
	board := BuildLeaderboard(nil)
	assert.Empty(t, board)
	assert.NotNil(t, board)
}

func TestBuildLeaderboard_EmptyNameDealsGroupTogether(t *testing.T) {
	deals := []domain.Deal{
		{ID: "d1", NamaMitra: "", JumlahTransaksi: 100, Created: "2026-02-01 10:00:00.000Z"},
		{ID: "d2", NamaMitra: "   ", JumlahTransaksi: 200, Created: "2026-02-01 10:01:00.000Z"},
	}

	board := BuildLeaderboard(deals)

	require.Len(t, board, 1)
	assert.Equal(t, int64(300), board[0].TotalTransaksi)
	assert.Equal(t, 2, board[0].DealCount)
}

func TestTotals(t *testing.T) {
	deals := []domain.Deal{
		{ID: "d1", NamaMitra: "Budi", JumlahTransaksi: 500000},
		{ID: "d2", NamaMitra: "budi ", JumlahTransaksi: 1000000},
		{ID: "d3", NamaMitra: "Ani", JumlahTransaksi: 250000},
	}

	stats := Totals(deals)

	assert.Equal(t, 3, stats.TotalDeals)
	assert.Equal(t, int64(1750000), stats.TotalTransaksi)
	assert.Equal(t, 2, stats.TotalMitra)
}

func TestTotals_Empty(t *testing.T) {
	stats := Totals(nil)

	assert.Equal(t, 0, stats.TotalDeals)
	assert.Equal(t, int64(0), stats.TotalTransaksi)
	assert.Equal(t, 0, stats.TotalMitra)
}
