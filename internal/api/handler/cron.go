package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/internal/scheduler"
	"github.com/startfranchise/expo-leaderboard-api/pkg/apiErrors"
)

const (
	CronJobTypeResync = "leaderboard-resync"
)

// CronJobServices holds the schedulers that can be triggered manually
type CronJobServices struct {
	LeaderboardResyncService *scheduler.LeaderboardResyncService
}

// RunCronJob manually triggers a specific cron job
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipe cron job wajib diisi", nil)
			return
		}

		switch cronType {
		case CronJobTypeResync:
			if services.LeaderboardResyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Layanan resync leaderboard tidak tersedia", nil)
				return
			}
			// The resync outlives the request, so it cannot use r.Context()
			services.LeaderboardResyncService.TriggerManualSync(context.Background())

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipe cron job tidak valid. Nilai yang diterima: leaderboard-resync", nil)
			return
		}

		logrus.WithField("type", cronType).Info("Cron job triggered manually")

		response := map[string]any{
			"message": "Cron job berhasil dijalankan",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus reports the state of the background jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{
			"leaderboard-resync": services.LeaderboardResyncService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
