// Package domain contains the core data structures of the application
package domain

import "fmt"

// Deal is one recorded sales transaction, submitted by a mitra through an
// outlet form. The Created/Updated timestamps are assigned by the store and
// formatted so that plain string comparison matches chronological order.
type Deal struct {
	ID               string `json:"id"`
	NamaMitra        string `json:"nama_mitra"`
	FotoMitra        string `json:"foto_mitra"`
	BrandID          string `json:"brand"`
	BrandName        string `json:"brand_name"`
	OutletName       string `json:"outlet_name"`
	LokasiBukaOutlet string `json:"lokasi_buka_outlet"`
	JumlahTransaksi  int64  `json:"jumlah_transaksi"`
	Catatan          string `json:"catatan"`
	ExpoOutletID     string `json:"expo_outlet"`
	Created          string `json:"created"`
	Updated          string `json:"updated"`
}

// FotoURL returns the serving path of the mitra photo, or an empty string
// when the deal carries no photo. The file bytes themselves are owned by the
// upload storage, never by this service.
func (d Deal) FotoURL() string {
	if d.FotoMitra == "" {
		return ""
	}
	return fmt.Sprintf("/api/files/deals/%s/%s", d.ID, d.FotoMitra)
}
