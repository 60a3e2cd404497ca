package http

import (
	"errors"
	"net/http"

	"github.com/sundialhq/memberd/internal/accounts/service"
	"github.com/sundialhq/memberd/pkg/accountsdk"
	"github.com/sundialhq/memberd/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleList lists all registered users.
//
//	@Summary		List users
//	@Description	Returns every registered user.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.UsersResponse	"status, message, data.users"
//	@Failure		401	{object}	accountsdk.APIError			"Invalid or missing access token"
//	@Router			/api/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	views := make([]accountsdk.User, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.UsersResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "Users retrieved",
		Data:    accountsdk.UsersData{Users: views},
	})
}

// HandleGet returns a single user record.
//
//	@Summary		Get a user
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"User id"
//	@Success		200	{object}	accountsdk.UserResponse		"status, message, data"
//	@Failure		404	{object}	accountsdk.APIError			"Unknown user id"
//	@Router			/api/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeNotFound(w, "User not found")
			return
		}
		writeServerError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.UserResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "User retrieved",
		Data:    toUserView(u),
	})
}
