package domain

// MFAEnrollment is returned when a user starts TOTP enrollment.
// MFA is not active until the first code has been verified.
type MFAEnrollment struct {
	Secret  string // base32 TOTP secret
	URL     string // otpauth:// URL for authenticator apps
	Issuer  string
	Account string
}
