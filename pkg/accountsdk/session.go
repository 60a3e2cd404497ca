package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Session is a token-bound view of the API. Access tokens are
// short-lived and the service issues no refresh tokens, so an expired
// session is re-established by logging in again.
type Session struct {
	client      *SDKClient
	user        User
	accessToken string
}

func newSession(c *SDKClient, data AuthData) *Session {
	return &Session{
		client:      c,
		user:        data.User,
		accessToken: data.AccessToken,
	}
}

// User returns the user this session was authenticated as. Zero-valued
// for sessions created from a bare token.
func (s *Session) User() User { return s.user }

// AccessToken exposes the raw bearer token.
func (s *Session) AccessToken() string { return s.accessToken }

// ListUsers fetches all registered users.
func (s *Session) ListUsers(ctx context.Context) (*UsersResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}

	var out UsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches a single user record.
func (s *Session) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/users/"+userID, nil)
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrganisations returns the organisations the session user belongs to.
func (s *Session) ListOrganisations(ctx context.Context) (*OrganisationsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/organisations", nil)
	if err != nil {
		return nil, err
	}

	var out OrganisationsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrganisation fetches one of the session user's organisations.
func (s *Session) GetOrganisation(ctx context.Context, orgID string) (*OrganisationResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/organisations/"+orgID, nil)
	if err != nil {
		return nil, err
	}

	var out OrganisationResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrganisation creates a new organisation with the session user
// as its first member.
func (s *Session) CreateOrganisation(ctx context.Context, req CreateOrganisationRequest) (*OrganisationResponse, error) {
	resp, err := s.postAuthJSON(ctx, "/api/organisations", req)
	if err != nil {
		return nil, err
	}

	var out OrganisationResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddMember adds a user to an organisation the session user belongs to.
func (s *Session) AddMember(ctx context.Context, orgID, userID string) (*MessageResponse, error) {
	resp, err := s.postAuthJSON(ctx, "/api/organisations/"+orgID+"/users", AddMemberRequest{UserID: userID})
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnrollTOTP starts TOTP enrollment for the session user.
func (s *Session) EnrollTOTP(ctx context.Context) (*MFAEnrollResponse, error) {
	resp, err := s.postAuthJSON(ctx, "/api/mfa/totp/enroll", struct{}{})
	if err != nil {
		return nil, err
	}

	var out MFAEnrollResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTOTP confirms enrollment with a current code and enables MFA.
func (s *Session) VerifyTOTP(ctx context.Context, code string) (*MessageResponse, error) {
	resp, err := s.postAuthJSON(ctx, "/api/mfa/totp/verify", MFAVerifyRequest{Code: code})
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DisableTOTP turns MFA off after verifying a current code.
func (s *Session) DisableTOTP(ctx context.Context, code string) (*MessageResponse, error) {
	payload, err := json.Marshal(MFAVerifyRequest{Code: code})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/api/mfa/totp", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) doAuthRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (s *Session) postAuthJSON(ctx context.Context, path string, v any) (*http.Response, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return s.doAuthRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
}
