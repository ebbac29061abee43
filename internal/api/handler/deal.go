package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/dealing"
	"github.com/startfranchise/expo-leaderboard-api/internal/usecases/gating"
	"github.com/startfranchise/expo-leaderboard-api/pkg/apiErrors"
)

// submitDealRequest is the form payload. The outlet is resolved from the
// access token when one is sent, so the form never has to know outlet ids.
type submitDealRequest struct {
	dealing.SubmissionInput
	Token string `json:"token,omitempty"`
}

func ListDeals(service dealing.DealService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deals, err := service.ListAllDeals(r.Context())
		if err != nil {
			logrus.Error("Error listing deals:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Gagal mengambil daftar deal", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(deals); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Gagal mengirim respons", nil)
		}
	})
}

func SubmitDeal(service dealing.DealService, outlets gating.OutletService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request submitDealRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Body request tidak valid: "+err.Error(), nil)
			return
		}

		if request.Token != "" {
			outlet, err := outlets.ValidateToken(request.Token)
			if err != nil {
				writeTokenError(w, err)
				return
			}
			request.OutletID = outlet.ID
		}

		deal, err := service.Submit(r.Context(), request.SubmissionInput)
		if err != nil {
			logrus.Error("Error submitting deal:", err)
			writeDealError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		if err := json.NewEncoder(w).Encode(deal); err != nil {
			logrus.Error("Error encoding deal response:", err)
		}
	})
}

func UpdateDeal(service dealing.DealService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID deal wajib diisi", nil)
			return
		}

		var input dealing.SubmissionInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Body request tidak valid: "+err.Error(), nil)
			return
		}

		deal, err := service.Update(r.Context(), id, input)
		if err != nil {
			logrus.Error("Error updating deal:", err)
			writeDealError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(deal); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Gagal mengirim respons", nil)
		}
	})
}

func DeleteDeal(service dealing.DealService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID deal wajib diisi", nil)
			return
		}

		if err := service.Delete(r.Context(), id); err != nil {
			logrus.Error("Error deleting deal:", err)
			writeDealError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// ExportDeals streams the full deal recap as a spreadsheet-friendly CSV.
func ExportDeals(service dealing.DealService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filename := fmt.Sprintf("rekap-deal-expo-%s.csv", time.Now().Format("2006-01-02"))

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := service.ExportCSV(r.Context(), w); err != nil {
			// Headers may already be sent, so only log
			logrus.Error("Error exporting deals:", err)
		}
	})
}

func writeDealError(w http.ResponseWriter, err error) {
	var validationErr *dealing.ValidationError
	if errors.As(err, &validationErr) {
		apiErrors.WriteError(w, apiErrors.ErrValidationFailed, "Data deal tidak valid", validationErr.Fields)
		return
	}

	switch {
	case errors.Is(err, dealing.ErrDealNotFound):
		apiErrors.WriteError(w, apiErrors.ErrRecordNotFound, "Deal tidak ditemukan", nil)

	case errors.Is(err, dealing.ErrOutletNotFound):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Outlet tidak ditemukan", nil)

	case errors.Is(err, dealing.ErrBrandNotFound):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Brand tidak ditemukan", nil)

	case errors.Is(err, dealing.ErrDatabaseOperation):
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Gagal menyimpan deal", nil)

	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Terjadi kesalahan internal", nil)
	}
}

func writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gating.ErrInvalidToken):
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token tidak valid", nil)

	case errors.Is(err, gating.ErrDatabaseOperation):
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Gagal memeriksa token", nil)

	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Terjadi kesalahan internal", nil)
	}
}
