package service

import "github.com/sundialhq/memberd/pkg/cryptox"

// PasswordHasher abstracts the one-way password hash so tests can
// substitute a cheap implementation.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) error
}

// Argon2Hasher is the production hasher backed by cryptox (argon2id
// with a host-local pepper).
type Argon2Hasher struct{}

func (Argon2Hasher) Hash(password string) (string, error) {
	return cryptox.HashPassword(password)
}

func (Argon2Hasher) Verify(password, encoded string) error {
	return cryptox.VerifyPassword(password, encoded)
}
