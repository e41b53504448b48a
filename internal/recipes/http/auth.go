package http

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipes/service"
	"github.com/aussiebroadwan/recipebox/pkg/httpx"
	"github.com/aussiebroadwan/recipebox/pkg/recipesdk"
	"github.com/aussiebroadwan/recipebox/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleSignup godoc
//
//	@Summary		Register a new user
//	@Description	Creates an account. Emails listed in ADMIN_EMAILS become admins.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recipesdk.SignupRequest		true	"New account"
//	@Success		201		{object}	recipesdk.SignupResponse
//	@Failure		400		{object}	recipesdk.ErrorResponse	"Email or username already taken"
//	@Failure		422		{object}	recipesdk.ErrorResponse	"Invalid input"
//	@Failure		429		{object}	recipesdk.ErrorResponse
//	@Router			/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req recipesdk.SignupRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.AuthService.Signup(r.Context(), service.SignupInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		WantsEmails: req.WantsEmails,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, recipesdk.SignupResponse{
		Message: "User created successfully",
		UserID:  u.ID,
	})
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Exchanges email and password for a bearer access token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recipesdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	recipesdk.LoginResponse
//	@Failure		401		{object}	recipesdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	recipesdk.ErrorResponse
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req recipesdk.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, recipesdk.LoginResponse{
		Message:     "Login successful",
		UserID:      res.User.ID,
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   res.ExpiresIn,
	})
}

// HandleMe godoc
//
//	@Summary	Current user
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	recipesdk.UserResponse
//	@Failure	401	{object}	recipesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.AuthService.CurrentUser(r.Context(), viewer(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleUpdateProfile godoc
//
//	@Summary	Update profile
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		recipesdk.UpdateProfileRequest	true	"Fields to change"
//	@Success	200		{object}	recipesdk.MessageResponse
//	@Failure	400		{object}	recipesdk.ErrorResponse	"Username already taken"
//	@Failure	422		{object}	recipesdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/auth/profile [put].
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req recipesdk.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.AuthService.UpdateProfile(r.Context(), viewer(r).UserID, domain.UserProfileUpdate{
		Username:    req.Username,
		Password:    req.Password,
		WantsEmails: req.WantsEmails,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Profile updated successfully")
}

// HandleUpdateProfileImage godoc
//
//	@Summary		Set profile image
//	@Description	Stores a /media URL returned by /recipes/upload-image, or an absolute http(s) URL.
//	@Tags			Auth
//	@Produce		json
//	@Param			image_url	query		string	true	"Image URL"
//	@Success		200			{object}	recipesdk.ProfileImageResponse
//	@Failure		422			{object}	recipesdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/auth/update-profile-image [put].
func (h *AuthHandler) HandleUpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("image_url")
	if err := h.AuthService.UpdateProfileImage(r.Context(), viewer(r).UserID, imageURL); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recipesdk.ProfileImageResponse{
		Message:  "Profile image updated successfully",
		ImageURL: imageURL,
	})
}

// HandleForgotPassword godoc
//
//	@Summary		Request a password reset link
//	@Description	Always answers 200 so the endpoint cannot be used to discover accounts.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recipesdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	recipesdk.MessageResponse
//	@Failure		429		{object}	recipesdk.ErrorResponse
//	@Router			/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req recipesdk.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.AuthService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "If this email exists, a reset link was sent")
}

// HandleResetPassword godoc
//
//	@Summary	Reset password with a mailed token
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		recipesdk.ResetPasswordRequest	true	"Token and new password"
//	@Success	200		{object}	recipesdk.MessageResponse
//	@Failure	400		{object}	recipesdk.ErrorResponse	"Passwords do not match"
//	@Failure	401		{object}	recipesdk.ErrorResponse	"Invalid or expired token"
//	@Router		/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req recipesdk.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.AuthService.ResetPassword(r.Context(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Password reset successfully")
}

// HandleListUsers godoc
//
//	@Summary	List users
//	@Tags		Admin
//	@Produce	json
//	@Success	200	{array}		recipesdk.UserResponse
//	@Failure	403	{object}	recipesdk.ErrorResponse	"Admin privileges required"
//	@Security	BearerAuth
//	@Router		/auth/admin/users [get].
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.AuthService.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]recipesdk.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDeleteUser godoc
//
//	@Summary		Delete a user
//	@Description	Removes the user and everything they own. Admins cannot delete themselves.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		int	true	"User ID"
//	@Success		200	{object}	recipesdk.MessageResponse
//	@Failure		400	{object}	recipesdk.ErrorResponse	"Admin cannot delete themselves"
//	@Failure		404	{object}	recipesdk.ErrorResponse	"User not found"
//	@Security		BearerAuth
//	@Router			/auth/admin/users/{id} [delete].
func (h *AuthHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor := viewer(r).UserID
	if err := h.AuthService.DeleteUser(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	slogx.FromContext(r.Context()).Info("user deleted by admin", "admin_id", actor, "user_id", id)
	httpx.WriteMessage(w, http.StatusOK, fmt.Sprintf("User with ID %d deleted successfully", id))
}
