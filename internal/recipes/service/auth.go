package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	rmail "github.com/aussiebroadwan/recipebox/internal/recipes/mail"
	"github.com/aussiebroadwan/recipebox/internal/recipes/store"
	"github.com/aussiebroadwan/recipebox/pkg/cryptox"
	"github.com/aussiebroadwan/recipebox/pkg/jwtx"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

const (
	MinUsername = 3
	MaxUsername = 50
	MinPassword = 6
)

type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string

	AccessTTL time.Duration
	ResetTTL  time.Duration

	// AdminEmails are promoted to admin at signup. Keys are lower-case.
	AdminEmails map[string]bool

	// FrontendURL is the base of password reset links.
	FrontendURL string
	Notifier    *Notifier
}

type SignupInput struct {
	Username    string
	Email       string
	Password    string
	WantsEmails *bool
}

// LoginResult is a freshly issued access token.
type LoginResult struct {
	User        domain.User
	AccessToken string
	ExpiresIn   int64
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", invalid("Invalid email address")
	}
	return s, nil
}

func validateUsername(s string) (string, error) {
	s = strings.TrimSpace(s)
	if n := utf8.RuneCountInString(s); n < MinUsername || n > MaxUsername {
		return "", invalid("Username must be %d-%d characters", MinUsername, MaxUsername)
	}
	return s, nil
}

func validatePassword(s string) error {
	if utf8.RuneCountInString(s) < MinPassword {
		return invalid("Password must be at least %d characters", MinPassword)
	}
	return nil
}

// Signup registers a new account.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	username, err := validateUsername(in.Username)
	if err != nil {
		return domain.User{}, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(in.Password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	wants := true
	if in.WantsEmails != nil {
		wants = *in.WantsEmails
	}

	var created domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if _, err := tx.Users().GetUserByUsername(ctx, username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		u, err := tx.Users().CreateUser(ctx, domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			IsAdmin:      s.AdminEmails[email],
			WantsEmails:  wants,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrUsernameTaken
		}
		created = u
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user signed up", "user_id", created.ID, "admin", created.IsAdmin)
	return created, nil
}

// Login checks credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		slogx.FromContext(ctx).Info("login failed", "user_id", u.ID)
		return LoginResult{}, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwtx.NewClaims(strconv.FormatInt(u.ID, 10), jwtx.PurposeAccess, s.Issuer, s.AccessTTL, now)
	claims.Username = u.Username
	claims.Email = u.Email
	claims.Admin = u.IsAdmin

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}
	return LoginResult{User: u, AccessToken: token, ExpiresIn: claims.ExpiresIn(now)}, nil
}

// Authenticate resolves an access token to its (current) user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	id, _, err := s.verify(token, jwtx.PurposeAccess)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidToken
	}
	return u, err
}

// verify checks signature, issuer, expiry and purpose and returns the subject.
func (s *AuthService) verify(token, purpose string) (int64, jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return 0, jwtx.Claims{}, ErrInvalidToken
	}
	if err := claims.ValidatePurpose(purpose); err != nil {
		return 0, jwtx.Claims{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, jwtx.Claims{}, ErrInvalidToken
	}
	return id, claims, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile applies the non-nil fields of upd.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, upd domain.UserProfileUpdate) error {
	var newHash string
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return err
		}
		h, err := cryptox.HashPassword(*upd.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		newHash = h
	}

	var username string
	if upd.Username != nil {
		u, err := validateUsername(*upd.Username)
		if err != nil {
			return err
		}
		username = u
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if username != "" && username != u.Username {
			other, err := tx.Users().GetUserByUsername(ctx, username)
			switch {
			case err == nil && other.ID != u.ID:
				return ErrUsernameTaken
			case err != nil && !errors.Is(err, store.ErrNotFound):
				return err
			}
			u.Username = username
		}
		if newHash != "" {
			u.PasswordHash = newHash
		}
		if upd.WantsEmails != nil {
			u.WantsEmails = *upd.WantsEmails
		}

		if err := tx.Users().UpdateProfile(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return err
		}
		return nil
	})
}

// UpdateProfileImage stores an image URL, either one returned by the upload
// endpoint (/media/...) or an absolute http(s) URL.
func (s *AuthService) UpdateProfileImage(ctx context.Context, userID int64, imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if !validImageURL(imageURL) {
		return invalid("Invalid image URL")
	}

	err := s.Store.Users().UpdateProfileImage(ctx, userID, imageURL)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func validImageURL(s string) bool {
	if strings.HasPrefix(s, MediaURLPrefix+"/") && !strings.Contains(s, "..") {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ForgotPassword mails a reset link when email belongs to an account. It
// reports success either way so callers cannot probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	claims := jwtx.NewClaims(strconv.FormatInt(u.ID, 10), jwtx.PurposeReset, s.Issuer, s.ResetTTL, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}

	link := strings.TrimRight(s.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
	minutes := int(s.ResetTTL / time.Minute)

	// Queue failures are not surfaced; the response must not depend on them.
	_ = s.Notifier.queue(ctx, "password_reset", func(r *rmail.Renderer) (rmail.Message, error) {
		return r.PasswordReset(u.Email, link, minutes)
	})
	log.Info("password reset link issued", "user_id", u.ID)
	return nil
}

// ResetPassword sets a new password using a single-use reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	id, claims, err := s.verify(token, jwtx.PurposeReset)
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		err := tx.PasswordResets().MarkUsed(ctx, domain.PasswordReset{
			JTIHash:   cryptox.FingerprintToken(claims.ID),
			UserID:    id,
			ExpiresAt: expires,
			UsedAt:    time.Now(),
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		return tx.Users().UpdatePasswordHash(ctx, id, hash)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset", "user_id", id)
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// DeleteUser removes target and everything they own. Admins cannot delete
// their own account.
func (s *AuthService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, targetID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if actorID == targetID {
			return ErrSelfDelete
		}
		return tx.Users().DeleteUser(ctx, targetID)
	})
}
