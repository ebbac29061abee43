// Package ranking implements the pure leaderboard aggregation over the deal
// set. It has no state of its own: the live reconciler calls BuildLeaderboard
// after every applied change event.
package ranking

import (
	"sort"
	"strings"

	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
)

// NormalizeMitraKey canonicalizes a mitra name into the grouping key. Deals
// whose names differ only in case or surrounding whitespace land in the same
// leaderboard entry.
func NormalizeMitraKey(namaMitra string) string {
	return strings.ToLower(strings.TrimSpace(namaMitra))
}

// BuildLeaderboard folds the full deal set into one entry per normalized
// mitra key, sorted by total transaction amount descending. Entries with
// equal totals keep the relative order in which their mitra first appeared
// in the input, which is why the sort must be stable.
//
// Display fields (brand_name fallback, photo, lokasi) follow a most-recent-
// wins policy: a deal with a strictly greater created timestamp overwrites
// them, but only with non-empty values. A newer deal carrying an empty field
// deliberately keeps the older value.
func BuildLeaderboard(deals []domain.Deal) []domain.LeaderboardEntry {
	entriesByKey := make(map[string]*domain.LeaderboardEntry)
	keyOrder := make([]string, 0)

	for _, deal := range deals {
		key := NormalizeMitraKey(deal.NamaMitra)

		entry, ok := entriesByKey[key]
		if !ok {
			entry = &domain.LeaderboardEntry{
				NamaMitra:        deal.NamaMitra,
				FotoMitra:        deal.FotoMitra,
				FotoURL:          deal.FotoURL(),
				BrandName:        deal.BrandName,
				BrandsDealt:      []string{},
				LokasiBukaOutlet: deal.LokasiBukaOutlet,
				LatestDeal:       deal.Created,
			}
			entriesByKey[key] = entry
			keyOrder = append(keyOrder, key)
		}

		entry.TotalTransaksi += deal.JumlahTransaksi
		entry.DealCount++
		entry.Deals = append(entry.Deals, deal)

		if deal.BrandName != "" && !containsBrand(entry.BrandsDealt, deal.BrandName) {
			entry.BrandsDealt = append(entry.BrandsDealt, deal.BrandName)
		}

		// Created timestamps are lexicographically sortable strings, so a
		// plain comparison decides recency.
		if deal.Created > entry.LatestDeal {
			entry.LatestDeal = deal.Created
			if deal.BrandName != "" {
				entry.BrandName = deal.BrandName
			}
			if deal.FotoMitra != "" {
				entry.FotoMitra = deal.FotoMitra
				entry.FotoURL = deal.FotoURL()
			}
			if deal.LokasiBukaOutlet != "" {
				entry.LokasiBukaOutlet = deal.LokasiBukaOutlet
			}
		}
	}

	board := make([]domain.LeaderboardEntry, 0, len(keyOrder))
	for _, key := range keyOrder {
		board = append(board, *entriesByKey[key])
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].TotalTransaksi > board[j].TotalTransaksi
	})

	return board
}

// Totals computes the dashboard counters straight from the deal set.
func Totals(deals []domain.Deal) domain.LeaderboardStats {
	stats := domain.LeaderboardStats{TotalDeals: len(deals)}

	mitra := make(map[string]struct{})
	for _, deal := range deals {
		stats.TotalTransaksi += deal.JumlahTransaksi
		mitra[NormalizeMitraKey(deal.NamaMitra)] = struct{}{}
	}
	stats.TotalMitra = len(mitra)

	return stats
}

func containsBrand(brands []string, name string) bool {
	for _, b := range brands {
		if b == name {
			return true
		}
	}
	return false
}
