package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			in   SignupInput
		}{
			{"short username", SignupInput{Username: "ab", Email: "a@example.com", Password: "secret123"}},
			{"long username", SignupInput{Username: strings.Repeat("a", 51), Email: "a@example.com", Password: "secret123"}},
			{"bad email", SignupInput{Username: "abc", Email: "not-an-email", Password: "secret123"}},
			{"display name email", SignupInput{Username: "abc", Email: "Bob <bob@example.com>", Password: "secret123"}},
			{"short password", SignupInput{Username: "abc", Email: "a@example.com", Password: "12345"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.auth.Signup(ctx, tt.in)
				require.ErrorIs(t, err, ErrValidation)
			})
		}
	})

	t.Run("normalises email and defaults wants_emails", func(t *testing.T) {
		u, err := f.auth.Signup(ctx, SignupInput{Username: " dana ", Email: " Dana@Example.COM ", Password: "secret123"})
		require.NoError(t, err)
		require.Equal(t, "dana", u.Username)
		require.Equal(t, "dana@example.com", u.Email)
		require.True(t, u.WantsEmails)
		require.False(t, u.IsAdmin)
		require.NotEqual(t, "secret123", u.PasswordHash)
	})

	t.Run("duplicates", func(t *testing.T) {
		_, err := f.auth.Signup(ctx, SignupInput{Username: "other", Email: "DANA@example.com", Password: "secret123"})
		require.ErrorIs(t, err, ErrEmailTaken)

		_, err = f.auth.Signup(ctx, SignupInput{Username: "dana", Email: "new@example.com", Password: "secret123"})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("admin emails are promoted", func(t *testing.T) {
		no := false
		u, err := f.auth.Signup(ctx, SignupInput{Username: "boss", Email: "boss@example.com", Password: "secret123", WantsEmails: &no})
		require.NoError(t, err)
		require.True(t, u.IsAdmin)
		require.False(t, u.WantsEmails)
	})
}

func TestLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.signup(t, "cook")

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.auth.Login(ctx, "cook@example.com", "nope-nope")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.auth.Login(ctx, "ghost@example.com", "secret123")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("success", func(t *testing.T) {
		res, err := f.auth.Login(ctx, "COOK@example.com", "secret123")
		require.NoError(t, err)
		require.Equal(t, u.ID, res.User.ID)
		require.InDelta(t, time.Hour.Seconds(), float64(res.ExpiresIn), 2)

		got, err := f.auth.Authenticate(ctx, res.AccessToken)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.auth.Authenticate(ctx, "not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("reset token is not an access token", func(t *testing.T) {
		claims := jwtx.NewClaims("1", jwtx.PurposeReset, f.auth.Issuer, time.Minute, time.Now())
		tok, err := f.auth.Signer.Sign(claims)
		require.NoError(t, err)
		_, err = f.auth.Authenticate(ctx, tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("deleted user", func(t *testing.T) {
		res, err := f.auth.Login(ctx, "cook@example.com", "secret123")
		require.NoError(t, err)
		require.NoError(t, f.store.Users().DeleteUser(ctx, u.ID))

		_, err = f.auth.Authenticate(ctx, res.AccessToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.signup(t, "alpha")
	f.signup(t, "bravo")

	t.Run("username taken by someone else", func(t *testing.T) {
		name := "bravo"
		err := f.auth.UpdateProfile(ctx, a.ID, domain.UserProfileUpdate{Username: &name})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("keeping own username is fine", func(t *testing.T) {
		name := "alpha"
		no := false
		require.NoError(t, f.auth.UpdateProfile(ctx, a.ID, domain.UserProfileUpdate{Username: &name, WantsEmails: &no}))

		u, err := f.auth.CurrentUser(ctx, a.ID)
		require.NoError(t, err)
		require.False(t, u.WantsEmails)
	})

	t.Run("password change", func(t *testing.T) {
		pw := "new-secret"
		require.NoError(t, f.auth.UpdateProfile(ctx, a.ID, domain.UserProfileUpdate{Password: &pw}))
		_, err := f.auth.Login(ctx, "alpha@example.com", "new-secret")
		require.NoError(t, err)

		short := "x"
		err = f.auth.UpdateProfile(ctx, a.ID, domain.UserProfileUpdate{Password: &short})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("profile image", func(t *testing.T) {
		require.NoError(t, f.auth.UpdateProfileImage(ctx, a.ID, "/media/abc.png"))
		require.NoError(t, f.auth.UpdateProfileImage(ctx, a.ID, "https://cdn.example.com/a.png"))
		require.ErrorIs(t, f.auth.UpdateProfileImage(ctx, a.ID, "javascript:alert(1)"), ErrValidation)
		require.ErrorIs(t, f.auth.UpdateProfileImage(ctx, a.ID, "/media/../secret"), ErrValidation)
		require.ErrorIs(t, f.auth.UpdateProfileImage(ctx, 9999, "/media/abc.png"), ErrUserNotFound)
	})
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.signup(t, "forgetful")

	t.Run("unknown email sends nothing", func(t *testing.T) {
		require.NoError(t, f.auth.ForgotPassword(ctx, "nobody@example.com"))
		require.Empty(t, f.queue.sent())
	})

	require.NoError(t, f.auth.ForgotPassword(ctx, "Forgetful@example.com"))
	sent := f.queue.sent()
	require.Len(t, sent, 1)
	require.Equal(t, u.Email, sent[0].To)
	require.Contains(t, sent[0].HTML, "http://front.test/reset-password?token=")
	token := tokenFromMail(t, sent[0])

	t.Run("mismatch", func(t *testing.T) {
		err := f.auth.ResetPassword(ctx, token, "brand-new", "brand-neu")
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("bad token", func(t *testing.T) {
		err := f.auth.ResetPassword(ctx, "bogus", "brand-new", "brand-new")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token cannot reset", func(t *testing.T) {
		res, err := f.auth.Login(ctx, u.Email, "secret123")
		require.NoError(t, err)
		err = f.auth.ResetPassword(ctx, res.AccessToken, "brand-new", "brand-new")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("success then single use", func(t *testing.T) {
		require.NoError(t, f.auth.ResetPassword(ctx, token, "brand-new", "brand-new"))

		_, err := f.auth.Login(ctx, u.Email, "brand-new")
		require.NoError(t, err)
		_, err = f.auth.Login(ctx, u.Email, "secret123")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		err = f.auth.ResetPassword(ctx, token, "another-one", "another-one")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	admin, err := f.auth.Signup(ctx, SignupInput{Username: "boss", Email: "boss@example.com", Password: "secret123"})
	require.NoError(t, err)
	victim := f.signup(t, "victim")
	f.recipe(t, victim.ID, "will vanish", true)

	require.ErrorIs(t, f.auth.DeleteUser(ctx, admin.ID, admin.ID), ErrSelfDelete)
	require.ErrorIs(t, f.auth.DeleteUser(ctx, admin.ID, 9999), ErrUserNotFound)
	require.NoError(t, f.auth.DeleteUser(ctx, admin.ID, victim.ID))

	users, err := f.auth.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	stats, err := f.recipes.AdminStats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Recipes)
}
