package accountsdk

// Request bodies use snake_case field names; response bodies use the
// camelCase names the API emits. Keep the two shapes separate so
// neither can drift into the other.

// ============================================================================
// Requests
// ============================================================================

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// TOTPCode is required only for accounts with MFA enabled.
	TOTPCode string `json:"totp_code,omitempty"`
}

type CreateOrganisationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type AddMemberRequest struct {
	UserID string `json:"userId"`
}

type MFAVerifyRequest struct {
	Code string `json:"code"`
}

// ============================================================================
// Responses
// ============================================================================

// User is the public representation of a user. Password material is
// never part of any response.
type User struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type Organisation struct {
	OrgID       string `json:"orgId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AuthData struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type AuthResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    AuthData `json:"data"`
}

type UserResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    User   `json:"data"`
}

type UsersData struct {
	Users []User `json:"users"`
}

type UsersResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    UsersData `json:"data"`
}

type OrganisationResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    Organisation `json:"data"`
}

type OrganisationsData struct {
	Organisations []Organisation `json:"organisations"`
}

type OrganisationsResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    OrganisationsData `json:"data"`
}

// MessageResponse is the bare envelope for operations that return no
// data, such as adding an organisation member.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type MFAEnrollData struct {
	Secret  string `json:"secret"`
	URL     string `json:"url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

type MFAEnrollResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    MFAEnrollData `json:"data"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version,omitempty"`
	Uptime  string        `json:"uptime,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
