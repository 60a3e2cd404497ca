package http

import (
	"errors"
	"net/http"

	"github.com/sundialhq/memberd/internal/accounts/service"
	"github.com/sundialhq/memberd/pkg/accountsdk"
	"github.com/sundialhq/memberd/pkg/httpx"
)

type RegisterHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP handles new account registration.
//
//	@Summary		Register a new account
//	@Description	Creates a user together with their default organisation and returns an access token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	accountsdk.AuthResponse		"status, message, data.accessToken, data.user"
//	@Failure		400		{object}	accountsdk.APIError			"Duplicate email"
//	@Failure		422		{object}	accountsdk.ValidationError	"Empty required fields"
//	@Router			/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Registration unsuccessful", "invalid JSON body")
		return
	}

	res, err := h.AccountService.Register(r.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if err != nil {
		if handleValidation(w, err) {
			return
		}
		var cerr *service.ConflictError
		if errors.As(err, &cerr) {
			writeBadRequest(w, "Registration unsuccessful", cerr.Error())
			return
		}
		writeServerError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, accountsdk.AuthResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "Registration successful",
		Data: accountsdk.AuthData{
			AccessToken: res.AccessToken,
			User:        toUserView(res.User),
		},
	})
}
