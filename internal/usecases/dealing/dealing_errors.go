package dealing

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDealNotFound indicates the referenced deal id does not exist
	ErrDealNotFound = errors.New("deal tidak ditemukan")

	// ErrOutletNotFound indicates the referenced outlet id does not exist
	// or is no longer active
	ErrOutletNotFound = errors.New("outlet tidak ditemukan")

	// ErrBrandNotFound indicates the referenced brand id does not exist
	ErrBrandNotFound = errors.New("brand tidak ditemukan")

	// ErrDatabaseOperation indicates a storage failure
	ErrDatabaseOperation = errors.New("operasi database gagal")
)

// ValidationError carries field-level messages for a rejected submission.
// A submission failing validation never reaches the store.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validasi gagal: %v", fields)
}

// IsValidationError reports whether err is a field-level validation failure
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
