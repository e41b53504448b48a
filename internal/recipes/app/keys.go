package app

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/recipebox/pkg/cryptox"
	"github.com/aussiebroadwan/recipebox/pkg/jwtx"
)

// InitAuthKeys builds the token signer and verifier for the configured
// algorithm.
//
// Supported algorithms:
//   - "HS256": shared secret from SECRET_KEY. Without one a random secret is
//     generated and every token becomes invalid when the process restarts.
//   - "EdDSA": Ed25519 key from AUTH_SIGNING_KEY_FILE, created on first start.
//     Without a file the key is ephemeral.
func InitAuthKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, jwtx.Verifier, error) {
	switch strings.ToUpper(cfg.Algorithm) {
	case "", "HS256":
		secret := cfg.SecretKey
		if secret == "" {
			secret = cryptox.MustGenerateToken(cryptox.TokenSize256)
			logger.Warn("SECRET_KEY not set, using an ephemeral secret; tokens will not survive a restart")
		}
		signer, err := jwtx.NewSignerHS256([]byte(secret))
		if err != nil {
			return nil, nil, err
		}
		logger.Info("signing keys ready", "algorithm", signer.Alg())
		return signer, jwtx.NewVerifierHS256([]byte(secret), cfg.Issuer), nil

	case "EDDSA":
		var (
			pemKey []byte
			err    error
		)
		if cfg.SigningKeyFile != "" {
			pemKey, err = cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
		} else {
			pemKey, err = cryptox.GenerateEd25519Key()
			logger.Warn("AUTH_SIGNING_KEY_FILE not set, using an ephemeral Ed25519 key")
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load signing key: %w", err)
		}

		signer, err := jwtx.NewSignerEdDSA(keyID(pemKey), pemKey)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("signing keys ready", "algorithm", signer.Alg(), "kid", signer.KID())
		return signer, jwtx.NewVerifierEdDSA(signer.KID(), signer.PublicKey(), cfg.Issuer), nil
	}

	return nil, nil, fmt.Errorf("unsupported AUTH_ALGORITHM %q (want HS256 or EdDSA)", cfg.Algorithm)
}

// keyID derives a stable kid from the key material.
func keyID(pemKey []byte) string {
	sum := sha256.Sum256(pemKey)
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}
