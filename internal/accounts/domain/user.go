package domain

import "time"

type User struct {
	ID           string
	Email        string // unique, stored lower-cased
	FirstName    string
	LastName     string
	Phone        string     // optional
	PasswordHash string     // argon2 encoded
	MFAEnabled   *time.Time // Timestamp when MFA was enabled (nullable)
	MFASecret    *string    // TOTP secret (nullable, base32 encoded)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName is the "{first}-{last}" form used in generated organization
// descriptions.
func (u User) FullName() string {
	return u.FirstName + "-" + u.LastName
}
