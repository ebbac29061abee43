package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/reconciling"
	"github.com/startfranchise/expo-leaderboard-api/pkg/apiErrors"
)

// GetLeaderboard returns the current ranking snapshot along with the ticker
// and the active highlight, if any.
func GetLeaderboard(reconciler *reconciling.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot := reconciler.Snapshot()

		if snapshot.State == reconciling.StateFailed {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Leaderboard belum tersedia", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			logrus.Error("Error encoding leaderboard response:", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Gagal mengirim respons", nil)
		}
	})
}

// GetLeaderboardStats returns the aggregate totals shown on the expo screen.
func GetLeaderboardStats(reconciler *reconciling.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot := reconciler.Snapshot()

		if snapshot.State == reconciling.StateFailed {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Statistik belum tersedia", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(snapshot.Stats); err != nil {
			logrus.Error("Error encoding stats response:", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Gagal mengirim respons", nil)
		}
	})
}
