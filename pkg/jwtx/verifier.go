package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrPurpose     = errors.New("jwtx: token purpose mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// HS256Verifier checks tokens produced by HS256Signer.
type HS256Verifier struct {
	secret []byte
	issuer string
}

func NewVerifierHS256(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: secret, issuer: issuer}
}

func (v *HS256Verifier) Verify(token string) (Claims, error) {
	return verify(token, jwt.SigningMethodHS256.Alg(), v.issuer, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
}

// verify parses token restricted to alg and runs the shared claim checks.
func verify(token, alg, issuer string, keyFunc jwt.Keyfunc) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{alg}))

	var claims Claims
	parsed, err := parser.ParseWithClaims(token, &claims, keyFunc)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return Claims{}, ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Claims{}, ErrMalformed
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case !parsed.Valid:
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
