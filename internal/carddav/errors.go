package carddav

import (
	"errors"
	"net/http"

	"github.com/kithhq/kith/pkg/ledger"
	"github.com/kithhq/kith/pkg/vcard"
)

// writeError maps a domain error to the HTTP status table in spec §7 and
// writes it as the response body.
func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrAlreadySuperseded),
		errors.Is(err, ledger.ErrAlreadyRetracted),
		errors.Is(err, ledger.ErrSelfSupersession):
		return http.StatusConflict
	case errors.Is(err, vcard.ErrMissingEnvelope):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
