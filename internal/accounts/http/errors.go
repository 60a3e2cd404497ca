package http

import (
	"errors"
	"net/http"

	"github.com/sundialhq/memberd/internal/accounts/service"
	"github.com/sundialhq/memberd/pkg/accountsdk"
	"github.com/sundialhq/memberd/pkg/httpx"
	"github.com/sundialhq/memberd/pkg/slogx"
)

// writeValidationError writes the 422 body naming every empty field.
func writeValidationError(w http.ResponseWriter, verr *service.ValidationError) {
	httpx.WriteJSON(w, http.StatusUnprocessableEntity, accountsdk.ValidationError{
		Message: verr.Error(),
	})
}

func writeBadRequest(w http.ResponseWriter, message, errs string) {
	httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.APIError{
		Status:  accountsdk.StatusBadRequest,
		Message: message,
		Errors:  errs,
	})
}

func writeAuthenticationFailed(w http.ResponseWriter, message string) {
	httpx.WriteJSON(w, http.StatusUnauthorized, accountsdk.APIError{
		Status:  accountsdk.StatusBadRequest,
		Message: message,
	})
}

func writeNotFound(w http.ResponseWriter, message string) {
	httpx.WriteJSON(w, http.StatusNotFound, accountsdk.APIError{
		Status:  "Not found",
		Message: message,
	})
}

func writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Error("request failed", "err", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, accountsdk.APIError{
		Status:  "error",
		Message: "Internal server error",
	})
}

// handleValidation writes a 422 if err is a ValidationError and
// reports whether it handled the error.
func handleValidation(w http.ResponseWriter, err error) bool {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeValidationError(w, verr)
		return true
	}
	return false
}
