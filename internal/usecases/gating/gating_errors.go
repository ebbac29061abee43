package gating

import "errors"

var (
	// ErrInvalidToken is returned for unknown AND inactive tokens alike, so
	// the rejection never reveals which case occurred.
	ErrInvalidToken = errors.New("token tidak valid")

	// ErrOutletNotFound indicates the referenced outlet id does not exist
	ErrOutletNotFound = errors.New("outlet tidak ditemukan")

	// ErrMissingRequiredData indicates a required outlet field is missing
	ErrMissingRequiredData = errors.New("data wajib belum lengkap")

	// ErrDatabaseOperation indicates a storage failure
	ErrDatabaseOperation = errors.New("operasi database gagal")
)
