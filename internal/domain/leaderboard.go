package domain

// LeaderboardEntry is the aggregated standing of one mitra. Entries are
// derived from the deal set on every recomputation and are never persisted.
type LeaderboardEntry struct {
	NamaMitra        string   `json:"nama_mitra"`
	FotoMitra        string   `json:"foto_mitra"`
	FotoURL          string   `json:"foto_url"`
	BrandName        string   `json:"brand_name"` // fallback when BrandsDealt is empty
	BrandsDealt      []string `json:"brands_dealt"`
	LokasiBukaOutlet string   `json:"lokasi_buka_outlet"`
	TotalTransaksi   int64    `json:"total_transaksi"`
	DealCount        int      `json:"deal_count"`
	LatestDeal       string   `json:"latest_deal"`
	Deals            []Deal   `json:"deals"`
}

// LeaderboardStats are the dashboard counters shown next to the ranking.
type LeaderboardStats struct {
	TotalDeals     int   `json:"total_deals"`
	TotalTransaksi int64 `json:"total_transaksi"`
	TotalMitra     int   `json:"total_mitra"`
}
