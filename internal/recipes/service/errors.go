package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/recipebox/internal/recipes/mail"
)

// Sentinel errors. Their text is what API clients see.
var (
	ErrEmailTaken         = errors.New("Email already registered")
	ErrUsernameTaken      = errors.New("Username already taken")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidToken       = errors.New("Invalid or expired token")
	ErrPasswordMismatch   = errors.New("Passwords do not match")
	ErrSelfDelete         = errors.New("Admin cannot delete themselves")
	ErrUserNotFound       = errors.New("User not found")

	ErrRecipeNotFound  = errors.New("Recipe not found")
	ErrRecipeForbidden = errors.New("You are not authorized to access this recipe")

	ErrCommentNotFound  = errors.New("Comment not found")
	ErrCommentForbidden = errors.New("You are not authorized to delete this comment")

	ErrAlreadyFavorite  = errors.New("Recipe already in favorites")
	ErrFavoriteNotFound = errors.New("Favorite not found")

	ErrUnsupportedMedia = errors.New("Only image uploads are allowed")
	ErrTooLarge         = errors.New("File is too large")

	ErrAIUnavailable = errors.New("AI service is not configured")

	// ErrMailQueueFull is returned when a user-requested mail cannot be queued.
	ErrMailQueueFull = mail.ErrQueueFull

	ErrValidation = errors.New("validation failed")
)

// ValidationError reports bad input. Detail is shown to the client.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}
