package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/gating"
	"github.com/startfranchise/expo-leaderboard-api/pkg/apiErrors"
)

func ListOutlets(service gating.OutletService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			outlets interface{}
			err     error
		)

		if r.URL.Query().Get("active") == "true" {
			outlets, err = service.ListActiveOutlets()
		} else {
			outlets, err = service.ListOutlets()
		}
		if err != nil {
			logrus.Error("Error listing outlets:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Gagal mengambil daftar outlet", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(outlets); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Gagal mengirim respons", nil)
		}
	})
}

func CreateOutlet(service gating.OutletService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var input gating.OutletInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Body request tidak valid: "+err.Error(), nil)
			return
		}

		outlet, err := service.CreateOutlet(input)
		if err != nil {
			logrus.Error("Error creating outlet:", err)
			writeOutletError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		if err := json.NewEncoder(w).Encode(outlet); err != nil {
			logrus.Error("Error encoding outlet response:", err)
		}
	})
}

func UpdateOutlet(service gating.OutletService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID outlet wajib diisi", nil)
			return
		}

		var input gating.OutletInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Body request tidak valid: "+err.Error(), nil)
			return
		}

		outlet, err := service.UpdateOutlet(id, input)
		if err != nil {
			logrus.Error("Error updating outlet:", err)
			writeOutletError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(outlet); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Gagal mengirim respons", nil)
		}
	})
}

func DeleteOutlet(service gating.OutletService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID outlet wajib diisi", nil)
			return
		}

		if err := service.DeleteOutlet(id); err != nil {
			logrus.Error("Error deleting outlet:", err)
			writeOutletError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func writeOutletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gating.ErrMissingRequiredData):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nama outlet wajib diisi", nil)

	case errors.Is(err, gating.ErrOutletNotFound):
		apiErrors.WriteError(w, apiErrors.ErrRecordNotFound, "Outlet tidak ditemukan", nil)

	case errors.Is(err, gating.ErrDatabaseOperation):
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Gagal menyimpan outlet", nil)

	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Terjadi kesalahan internal", nil)
	}
}
