package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/recipebox/pkg/cryptox"
	"github.com/aussiebroadwan/recipebox/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestEdDSASignAndVerify(t *testing.T) {
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("k1", pemKey)
	require.NoError(t, err)
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "k1", signer.KID())

	token, err := signer.Sign(jwtx.NewClaims("3", jwtx.PurposeReset, "recipebox", time.Minute, time.Now().UTC()))
	require.NoError(t, err)

	got, err := jwtx.NewVerifierEdDSA("k1", signer.PublicKey(), "recipebox").Verify(token)
	require.NoError(t, err)
	require.Equal(t, "3", got.Subject)
	require.Equal(t, jwtx.PurposeReset, got.Purpose)

	t.Run("unknown kid", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA("k2", signer.PublicKey(), "recipebox").Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("hs256 verifier rejects eddsa token", func(t *testing.T) {
		_, err := jwtx.NewVerifierHS256([]byte("x"), "recipebox").Verify(token)
		require.Error(t, err)
	})
}

func TestNewSignerEdDSA_BadPEM(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("k", []byte("not pem"))
	require.Error(t, err)
}
