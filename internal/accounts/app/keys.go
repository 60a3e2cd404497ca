package app

import (
	"fmt"
	"log/slog"

	"github.com/sundialhq/memberd/pkg/cryptox"
	"github.com/sundialhq/memberd/pkg/idx"
	"github.com/sundialhq/memberd/pkg/jwtx"
)

// initSigningKeys generates an ephemeral Ed25519 signing key on
// startup. Access tokens are short-lived, so losing the key on restart
// only forces clients to log in again.
func initSigningKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, *jwtx.EdDSAVerifier, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	kid := idx.New().String()
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to register signing key: %w", err)
	}

	verifier := jwtx.NewVerifierEdDSA(keys, cfg.Issuer, cfg.Audiences())

	logger.Info("generated ephemeral signing key",
		"algorithm", signer.Alg(),
		"kid", kid,
		"issuer", cfg.Issuer,
	)
	logger.Warn("all existing tokens are now invalid due to key rotation on startup")

	return signer, keys, verifier, nil
}
