package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/branding"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/gating"
	"github.com/startfranchise/expo-leaderboard-api/pkg/apiErrors"
)

// formInitResponse carries everything the QR-gated deal form needs to render:
// the outlet resolved from the token and the selectable brand catalog.
type formInitResponse struct {
	Outlet *domain.Outlet `json:"outlet"`
	Brands []domain.Brand `json:"brands"`
}

func InitForm(outlets gating.OutletService, brands branding.BrandService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")

		outlet, err := outlets.ValidateToken(token)
		if err != nil {
			writeTokenError(w, err)
			return
		}

		brandList, err := brands.ListBrands()
		if err != nil {
			logrus.Error("Error listing brands for form:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Gagal mengambil daftar brand", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		resp := formInitResponse{
			Outlet: outlet,
			Brands: brandList,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Gagal mengirim respons", nil)
		}
	})
}
