package http

import (
	"errors"
	"net/http"

	"github.com/sundialhq/memberd/internal/accounts/service"
	"github.com/sundialhq/memberd/pkg/accountsdk"
	"github.com/sundialhq/memberd/pkg/httpx"
)

type OrganisationsHandler struct {
	OrganizationService *service.OrganizationService
}

// HandleList returns the organisations the caller belongs to.
//
//	@Summary		List organisations
//	@Description	Returns only organisations the authenticated user is a member of.
//	@Tags			Organisations
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.OrganisationsResponse	"status, message, data.organisations"
//	@Failure		401	{object}	accountsdk.APIError					"Invalid or missing access token"
//	@Router			/api/organisations [get].
func (h *OrganisationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actorID := httpx.UserIDFromCtx(r.Context())

	orgs, err := h.OrganizationService.ListOrganizations(r.Context(), actorID)
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	views := make([]accountsdk.Organisation, 0, len(orgs))
	for _, o := range orgs {
		views = append(views, toOrganisationView(o))
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.OrganisationsResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "Organisations retrieved",
		Data:    accountsdk.OrganisationsData{Organisations: views},
	})
}

// HandleGet returns one of the caller's organisations. Organisations
// the caller does not belong to are indistinguishable from ones that
// do not exist.
//
//	@Summary		Get an organisation
//	@Tags			Organisations
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string								true	"Organisation id"
//	@Success		200	{object}	accountsdk.OrganisationResponse		"status, message, data"
//	@Failure		404	{object}	accountsdk.APIError					"Unknown organisation id"
//	@Router			/api/organisations/{id} [get].
func (h *OrganisationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actorID := httpx.UserIDFromCtx(r.Context())

	org, err := h.OrganizationService.GetOrganization(r.Context(), actorID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrganizationNotFound) {
			writeNotFound(w, "Organisation not found")
			return
		}
		writeServerError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.OrganisationResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "Organisation retrieved",
		Data:    toOrganisationView(org),
	})
}

// HandleCreate creates an organisation with the caller as first member.
//
//	@Summary		Create an organisation
//	@Tags			Organisations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.CreateOrganisationRequest	true	"Organisation details"
//	@Success		201		{object}	accountsdk.OrganisationResponse			"status, message, data"
//	@Failure		422		{object}	accountsdk.ValidationError				"Missing name"
//	@Router			/api/organisations [post].
func (h *OrganisationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actorID := httpx.UserIDFromCtx(r.Context())

	var req accountsdk.CreateOrganisationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Client error", "invalid JSON body")
		return
	}

	org, err := h.OrganizationService.CreateOrganization(r.Context(), actorID, service.CreateOrganizationInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if handleValidation(w, err) {
			return
		}
		writeServerError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.OrganisationResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "Organisation created successfully",
		Data:    toOrganisationView(org),
	})
}

// HandleAddMember adds a user to one of the caller's organisations.
//
//	@Summary		Add an organisation member
//	@Description	Idempotent: adding an existing member succeeds without duplication.
//	@Tags			Organisations
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Organisation id"
//	@Param			request	body		accountsdk.AddMemberRequest	true	"User to add"
//	@Success		200		{object}	accountsdk.MessageResponse	"status, message"
//	@Failure		400		{object}	accountsdk.APIError			"Invalid user reference"
//	@Failure		404		{object}	accountsdk.APIError			"Unknown organisation id"
//	@Router			/api/organisations/{id}/users [post].
func (h *OrganisationsHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	actorID := httpx.UserIDFromCtx(r.Context())

	var req accountsdk.AddMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Client error", "invalid JSON body")
		return
	}

	err := h.OrganizationService.AddMember(r.Context(), actorID, r.PathValue("id"), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrganizationNotFound):
			writeNotFound(w, "Organisation not found")
		case errors.Is(err, service.ErrUserNotFound):
			writeBadRequest(w, "Client error", "invalid user reference")
		default:
			writeServerError(w, r, err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Status:  accountsdk.StatusSuccess,
		Message: "User added to organisation successfully",
	})
}
