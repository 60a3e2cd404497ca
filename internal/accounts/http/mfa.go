package http

import (
	"errors"
	"net/http"

	"github.com/sundialhq/memberd/internal/accounts/service"
	"github.com/sundialhq/memberd/pkg/accountsdk"
	"github.com/sundialhq/memberd/pkg/httpx"
)

type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll starts TOTP enrollment for the caller.
//
//	@Summary		Enroll TOTP
//	@Description	Generates a TOTP secret and otpauth URL. MFA activates only after /verify.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.MFAEnrollResponse	"status, message, data.secret, data.url"
//	@Failure		400	{object}	accountsdk.APIError				"MFA already enabled"
//	@Router			/api/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	enrollment, err := h.MFAService.EnrollTOTP(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrMFAAlreadyEnabled) {
			writeBadRequest(w, "MFA already enabled", "")
			return
		}
		writeServerError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.MFAEnrollResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "TOTP enrollment started",
		Data: accountsdk.MFAEnrollData{
			Secret:  enrollment.Secret,
			URL:     enrollment.URL,
			Issuer:  enrollment.Issuer,
			Account: enrollment.Account,
		},
	})
}

// HandleVerify confirms enrollment with a current code and enables MFA.
//
//	@Summary		Verify TOTP enrollment
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.MFAVerifyRequest	true	"Current TOTP code"
//	@Success		200		{object}	accountsdk.MessageResponse	"status, message"
//	@Failure		400		{object}	accountsdk.APIError			"Invalid code or not enrolled"
//	@Router			/api/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	var req accountsdk.MFAVerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Client error", "invalid JSON body")
		return
	}

	if err := h.MFAService.VerifyTOTP(r.Context(), userID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTOTPCode):
			writeBadRequest(w, "Invalid TOTP code", "")
		case errors.Is(err, service.ErrMFANotEnabled):
			writeBadRequest(w, "TOTP enrollment not started", "")
		case errors.Is(err, service.ErrMFAAlreadyEnabled):
			writeBadRequest(w, "MFA already enabled", "")
		default:
			writeServerError(w, r, err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "MFA enabled",
	})
}

// HandleDisable turns MFA off after verifying a current code.
//
//	@Summary		Disable TOTP
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.MFAVerifyRequest	true	"Current TOTP code"
//	@Success		200		{object}	accountsdk.MessageResponse	"status, message"
//	@Failure		400		{object}	accountsdk.APIError			"Invalid code or MFA not enabled"
//	@Router			/api/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	var req accountsdk.MFAVerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Client error", "invalid JSON body")
		return
	}

	if err := h.MFAService.DisableTOTP(r.Context(), userID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTOTPCode):
			writeBadRequest(w, "Invalid TOTP code", "")
		case errors.Is(err, service.ErrMFANotEnabled):
			writeBadRequest(w, "MFA not enabled", "")
		default:
			writeServerError(w, r, err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "MFA disabled",
	})
}
