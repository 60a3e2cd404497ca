package http

import (
	"errors"
	"net/http"

	"github.com/sundialhq/memberd/internal/accounts/service"
	"github.com/sundialhq/memberd/pkg/accountsdk"
	"github.com/sundialhq/memberd/pkg/httpx"
)

type LoginHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP handles login.
//
//	@Summary		Log in
//	@Description	Authenticates an email/password pair and returns an access token.
//	@Description	Accounts with TOTP enabled must also supply totp_code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	accountsdk.AuthResponse		"status, message, data.accessToken, data.user"
//	@Failure		401		{object}	accountsdk.APIError			"Authentication failed"
//	@Failure		422		{object}	accountsdk.ValidationError	"Empty required fields"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeAuthenticationFailed(w, "Authentication failed")
		return
	}

	res, err := h.AccountService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		TOTPCode: req.TOTPCode,
	})
	if err != nil {
		if handleValidation(w, err) {
			return
		}
		switch {
		case errors.Is(err, service.ErrMFARequired):
			// Only reachable after the password checked out.
			writeAuthenticationFailed(w, "MFA code required")
		case errors.Is(err, service.ErrAuthenticationFailed),
			errors.Is(err, service.ErrInvalidTOTPCode):
			writeAuthenticationFailed(w, "Authentication failed")
		default:
			writeServerError(w, r, err)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.AuthResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "Login successful",
		Data: accountsdk.AuthData{
			AccessToken: res.AccessToken,
			User:        toUserView(res.User),
		},
	})
}
