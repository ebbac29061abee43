package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/branding"
	"github.com/startfranchise/expo-leaderboard-api/pkg/apiErrors"
)

func ListBrands(service branding.BrandService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		brands, err := service.ListBrands()
		if err != nil {
			logrus.Error("Error listing brands:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Gagal mengambil daftar brand", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(brands); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Gagal mengirim respons", nil)
		}
	})
}

func CreateBrand(service branding.BrandService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var brand domain.Brand
		if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Body request tidak valid: "+err.Error(), nil)
			return
		}

		created, err := service.CreateBrand(brand)
		if err != nil {
			logrus.Error("Error creating brand:", err)

			if errors.Is(err, branding.ErrMissingRequiredData) {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nama brand wajib diisi", nil)
				return
			}

			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Gagal menyimpan brand", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		if err := json.NewEncoder(w).Encode(created); err != nil {
			logrus.Error("Error encoding brand response:", err)
		}
	})
}

func DeleteBrand(service branding.BrandService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID brand wajib diisi", nil)
			return
		}

		if err := service.DeleteBrand(id); err != nil {
			logrus.Error("Error deleting brand:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Gagal menghapus brand", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
