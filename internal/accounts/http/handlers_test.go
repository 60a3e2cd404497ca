package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sundialhq/memberd/internal/accounts/service"
	"github.com/sundialhq/memberd/internal/accounts/store/drivers/sqlite"
	"github.com/sundialhq/memberd/pkg/accountsdk"
	"github.com/sundialhq/memberd/pkg/cryptox"
	"github.com/sundialhq/memberd/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	issuer := "https://accounts.test"
	audience := []string{"memberd"}
	verifier := jwtx.NewVerifierEdDSA(keys, issuer, audience)

	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))

	r := NewRouter(keys, verifier, "test", st, logger)
	r.AccountService = &service.AccountService{
		Store:  st,
		Hasher: service.Argon2Hasher{},
		Tokens: &service.TokenService{
			Signer:   signer,
			Issuer:   issuer,
			Audience: audience,
		},
	}
	r.OrganizationService = &service.OrganizationService{Store: st}
	r.UserService = &service.UserService{Store: st}
	r.MFAService = &service.MFAService{Store: st, Issuer: "memberd-test"}
	r.ApplyRoutes()

	return r
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func doJSON(t *testing.T, r *Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, r *Router, firstName, email string) accountsdk.AuthResponse {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/auth/register", "", accountsdk.RegisterRequest{
		FirstName: firstName,
		LastName:  "Doe",
		Email:     email,
		Password:  "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp accountsdk.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		r := newTestRouter(t)

		rec := doJSON(t, r, http.MethodPost, "/auth/register", "", accountsdk.RegisterRequest{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john.doe@example.com",
			Password:  "password123",
			Phone:     "1234567890",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp accountsdk.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "success", resp.Status)
		require.NotEmpty(t, resp.Data.AccessToken)
		require.Equal(t, "John", resp.Data.User.FirstName)
		require.NotEmpty(t, resp.Data.User.UserID)

		// the default organisation exists and contains the new user
		orgsRec := doJSON(t, r, http.MethodGet, "/api/organisations", resp.Data.AccessToken, nil)
		require.Equal(t, http.StatusOK, orgsRec.Code)

		var orgs accountsdk.OrganisationsResponse
		require.NoError(t, json.Unmarshal(orgsRec.Body.Bytes(), &orgs))
		require.Len(t, orgs.Data.Organisations, 1)
		require.Equal(t, "John's Organization", orgs.Data.Organisations[0].Name)
	})

	t.Run("empty field yields 422 naming the field", func(t *testing.T) {
		r := newTestRouter(t)

		rec := doJSON(t, r, http.MethodPost, "/auth/register", "", accountsdk.RegisterRequest{
			LastName: "Doe",
			Email:    "john.doe@example.com",
			Password: "password123",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "first_name")
	})

	t.Run("duplicate email yields 400 and no second user", func(t *testing.T) {
		r := newTestRouter(t)

		registerUser(t, r, "John", "dup@example.com")

		rec := doJSON(t, r, http.MethodPost, "/auth/register", "", accountsdk.RegisterRequest{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "dup@example.com",
			Password:  "password123",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp accountsdk.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Bad request", resp.Status)
		require.Equal(t, "Registration unsuccessful", resp.Message)
		require.NotEmpty(t, resp.Errors)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		r := newTestRouter(t)
		reg := registerUser(t, r, "John", "john@example.com")

		rec := doJSON(t, r, http.MethodPost, "/auth/login", "", accountsdk.LoginRequest{
			Email:    "john@example.com",
			Password: "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp accountsdk.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, reg.Data.User.UserID, resp.Data.User.UserID)
		require.NotEmpty(t, resp.Data.AccessToken)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		r := newTestRouter(t)
		registerUser(t, r, "John", "john@example.com")

		wrongPass := doJSON(t, r, http.MethodPost, "/auth/login", "", accountsdk.LoginRequest{
			Email:    "john@example.com",
			Password: "nope",
		})
		unknown := doJSON(t, r, http.MethodPost, "/auth/login", "", accountsdk.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})

		require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		require.JSONEq(t, wrongPass.Body.String(), unknown.Body.String())
		require.Contains(t, wrongPass.Body.String(), "Authentication failed")
	})

	t.Run("empty fields yield 422", func(t *testing.T) {
		r := newTestRouter(t)

		rec := doJSON(t, r, http.MethodPost, "/auth/login", "", accountsdk.LoginRequest{})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "email")
		require.Contains(t, rec.Body.String(), "password")
	})
}

func TestUsersEndpoints(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		r := newTestRouter(t)

		rec := doJSON(t, r, http.MethodGet, "/api/users", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("list and get", func(t *testing.T) {
		r := newTestRouter(t)
		reg := registerUser(t, r, "John", "john@example.com")
		registerUser(t, r, "Jane", "jane@example.com")

		rec := doJSON(t, r, http.MethodGet, "/api/users", reg.Data.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var users accountsdk.UsersResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		require.Len(t, users.Data.Users, 2)

		rec = doJSON(t, r, http.MethodGet, "/api/users/"+reg.Data.User.UserID, reg.Data.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var one accountsdk.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
		require.Equal(t, "john@example.com", one.Data.Email)
		require.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		r := newTestRouter(t)
		reg := registerUser(t, r, "John", "john@example.com")

		rec := doJSON(t, r, http.MethodGet, "/api/users/01JUNKJUNKJUNKJUNKJUNKJUNK", reg.Data.AccessToken, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrganisationsEndpoints(t *testing.T) {
	t.Run("create and fetch", func(t *testing.T) {
		r := newTestRouter(t)
		reg := registerUser(t, r, "John", "john@example.com")

		rec := doJSON(t, r, http.MethodPost, "/api/organisations", reg.Data.AccessToken,
			accountsdk.CreateOrganisationRequest{Name: "Side Project", Description: "weekend hacks"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created accountsdk.OrganisationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.NotEmpty(t, created.Data.OrgID)

		rec = doJSON(t, r, http.MethodGet, "/api/organisations/"+created.Data.OrgID, reg.Data.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing name yields 422", func(t *testing.T) {
		r := newTestRouter(t)
		reg := registerUser(t, r, "John", "john@example.com")

		rec := doJSON(t, r, http.MethodPost, "/api/organisations", reg.Data.AccessToken,
			accountsdk.CreateOrganisationRequest{})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "name")
	})

	t.Run("listing is scoped to the caller", func(t *testing.T) {
		r := newTestRouter(t)
		john := registerUser(t, r, "John", "john@example.com")
		jane := registerUser(t, r, "Jane", "jane@example.com")

		rec := doJSON(t, r, http.MethodGet, "/api/organisations", jane.Data.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var orgs accountsdk.OrganisationsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orgs))
		require.Len(t, orgs.Data.Organisations, 1)
		require.Equal(t, "Jane's Organization", orgs.Data.Organisations[0].Name)

		// another user's organisation is a 404, not a 403
		johnOrgs := doJSON(t, r, http.MethodGet, "/api/organisations", john.Data.AccessToken, nil)
		var jo accountsdk.OrganisationsResponse
		require.NoError(t, json.Unmarshal(johnOrgs.Body.Bytes(), &jo))

		rec = doJSON(t, r, http.MethodGet, "/api/organisations/"+jo.Data.Organisations[0].OrgID, jane.Data.AccessToken, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("add member is idempotent", func(t *testing.T) {
		r := newTestRouter(t)
		john := registerUser(t, r, "John", "john@example.com")
		jane := registerUser(t, r, "Jane", "jane@example.com")

		var johnOrgs accountsdk.OrganisationsResponse
		rec := doJSON(t, r, http.MethodGet, "/api/organisations", john.Data.AccessToken, nil)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &johnOrgs))
		orgID := johnOrgs.Data.Organisations[0].OrgID

		for range 2 {
			rec = doJSON(t, r, http.MethodPost, "/api/organisations/"+orgID+"/users", john.Data.AccessToken,
				accountsdk.AddMemberRequest{UserID: jane.Data.User.UserID})
			require.Equal(t, http.StatusOK, rec.Code)
		}

		// jane now sees john's org exactly once
		rec = doJSON(t, r, http.MethodGet, "/api/organisations", jane.Data.AccessToken, nil)
		var orgs accountsdk.OrganisationsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orgs))
		require.Len(t, orgs.Data.Organisations, 2)
	})

	t.Run("unknown member reference yields 400", func(t *testing.T) {
		r := newTestRouter(t)
		john := registerUser(t, r, "John", "john@example.com")

		var johnOrgs accountsdk.OrganisationsResponse
		rec := doJSON(t, r, http.MethodGet, "/api/organisations", john.Data.AccessToken, nil)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &johnOrgs))
		orgID := johnOrgs.Data.Organisations[0].OrgID

		rec = doJSON(t, r, http.MethodPost, "/api/organisations/"+orgID+"/users", john.Data.AccessToken,
			accountsdk.AddMemberRequest{UserID: "01JUNKJUNKJUNKJUNKJUNKJUNK"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSystemEndpoints(t *testing.T) {
	r := newTestRouter(t)

	t.Run("livez", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "ok")
	})

	t.Run("readyz", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("jwks", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/.well-known/jwks.json", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var jwks jwtx.JWKS
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jwks))
		require.Len(t, jwks.Keys, 1)
		require.Equal(t, "test-key", jwks.Keys[0].Kid)
	})
}
