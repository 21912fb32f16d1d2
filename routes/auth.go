/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */

// Package routes contains the JSON API handlers and the middleware they
// share. Handlers receive the authenticated account through the request
// injector once RequireAuth has run.
package routes

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/flamego/flamego"
	"golang.org/x/crypto/bcrypt"

	"github.com/strokeward/strokeward/db"
	"github.com/strokeward/strokeward/logging"
	"github.com/strokeward/strokeward/utils"
)

var logger = logging.Logger(logging.SourceWeb)

// recordEvent appends an audit entry with the request's network details. A
// failed audit write never fails the request itself.
func recordEvent(c flamego.Context, input db.RecordSecurityEventInput) {
	ip := clientIP(c)
	userAgent := c.Request().UserAgent()
	input.IPAddress = &ip
	input.UserAgent = &userAgent

	if err := db.RecordSecurityEvent(c.Request().Context(), input); err != nil {
		logger.Warn("Failed to record security event", "error", err)
	}
}

func userEventDetails(user *db.User) (*string, *string) {
	role := string(user.Role)
	return &user.Username, &role
}

type registerRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=50"`
	Email          string `json:"email" validate:"required"`
	Password       string `json:"password" validate:"required"`
	Role           string `json:"role" validate:"omitempty,oneof=doctor patient"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Phone          string `json:"phone" validate:"omitempty,max=30"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
	LicenseNumber  string `json:"license_number" validate:"omitempty,max=50"`
}

// Register creates a doctor or patient account and returns a fresh access
// token. Admin accounts can only be created through the admin API.
func Register(c flamego.Context) {
	var request registerRequest
	if !decodeJSON(c, &request) {
		return
	}

	request.Username = utils.SanitizeInput(request.Username)
	request.FirstName = utils.SanitizeInput(request.FirstName)
	request.LastName = utils.SanitizeInput(request.LastName)

	if err := utils.ValidateEmail(request.Email); err != nil {
		writeError(c, http.StatusBadRequest, "invalid email format")
		return
	}
	if err := utils.ValidatePassword(request.Password); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	role := db.RolePatient
	if request.Role != "" {
		role = db.Role(request.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to create account")
		return
	}

	input := db.CreateUserInput{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
	}
	if request.Phone != "" {
		input.Phone = &request.Phone
	}
	if request.Specialization != "" {
		input.Specialization = &request.Specialization
	}
	if request.LicenseNumber != "" {
		input.LicenseNumber = &request.LicenseNumber
	}

	user, err := db.CreateUser(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateUsername):
			writeError(c, http.StatusConflict, "username already taken")
		case errors.Is(err, db.ErrDuplicateEmail):
			writeError(c, http.StatusConflict, "email already registered")
		default:
			logger.Error("Failed to create user", "error", err)
			writeError(c, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	username, userRole := userEventDetails(user)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventUserRegister,
		Description: "New account registered",
		UserID:      &user.ID,
		Username:    username,
		UserRole:    userRole,
	})

	token, err := issueAccessToken(user, time.Now())
	if err != nil {
		logger.Error("Failed to issue token", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to create account")
		return
	}

	writeJSON(c, http.StatusCreated, map[string]any{
		"token": token,
		"user":  user,
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns an access token. Failed attempts
// land in the audit trail with the attempted username.
func Login(c flamego.Context) {
	var request loginRequest
	if !decodeJSON(c, &request) {
		return
	}

	username := utils.SanitizeInput(request.Username)

	user, err := db.GetUserByUsername(c.Request().Context(), username)
	if err != nil {
		loginAttemptsTotal.WithLabelValues("failure").Inc()
		recordEvent(c, db.RecordSecurityEventInput{
			EventType:   db.EventLoginFailed,
			Description: "Login attempt for unknown username",
			Username:    &username,
			Status:      "failure",
			Severity:    "warning",
		})
		writeError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		loginAttemptsTotal.WithLabelValues("failure").Inc()
		eventUsername, role := userEventDetails(user)
		recordEvent(c, db.RecordSecurityEventInput{
			EventType:   db.EventLoginFailed,
			Description: "Login attempt with wrong password",
			UserID:      &user.ID,
			Username:    eventUsername,
			UserRole:    role,
			Status:      "failure",
			Severity:    "warning",
		})
		writeError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !user.IsActive {
		loginAttemptsTotal.WithLabelValues("failure").Inc()
		eventUsername, role := userEventDetails(user)
		recordEvent(c, db.RecordSecurityEventInput{
			EventType:   db.EventLoginFailed,
			Description: "Login attempt on deactivated account",
			UserID:      &user.ID,
			Username:    eventUsername,
			UserRole:    role,
			Status:      "failure",
			Severity:    "warning",
		})
		writeError(c, http.StatusUnauthorized, "account deactivated")
		return
	}

	now := time.Now()
	token, err := issueAccessToken(user, now)
	if err != nil {
		logger.Error("Failed to issue token", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	if err := db.UpdateLastLogin(c.Request().Context(), user.ID.String(), now.UTC()); err != nil {
		logger.Warn("Failed to update last login", "error", err)
	}

	loginAttemptsTotal.WithLabelValues("success").Inc()
	eventUsername, role := userEventDetails(user)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventLoginSuccess,
		Description: "User logged in",
		UserID:      &user.ID,
		Username:    eventUsername,
		UserRole:    role,
	})

	writeJSON(c, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated account.
func Me(c flamego.Context, user *db.User) {
	writeJSON(c, http.StatusOK, user)
}

// RefreshToken issues a fresh access token for the authenticated account.
func RefreshToken(c flamego.Context, user *db.User) {
	token, err := issueAccessToken(user, time.Now())
	if err != nil {
		logger.Error("Failed to issue token", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to refresh token")
		return
	}

	writeJSON(c, http.StatusOK, map[string]string{"token": token})
}

// Logout records the logout in the audit trail. Tokens are stateless, so
// clients discard theirs after this call.
func Logout(c flamego.Context, user *db.User) {
	username, role := userEventDetails(user)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventLogout,
		Description: "User logged out",
		UserID:      &user.ID,
		Username:    username,
		UserRole:    role,
	})

	writeJSON(c, http.StatusOK, map[string]string{"message": "logged out"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ChangePassword replaces the authenticated account's password after
// verifying the current one.
func ChangePassword(c flamego.Context, user *db.User) {
	var request changePasswordRequest
	if !decodeJSON(c, &request) {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.CurrentPassword)); err != nil {
		writeError(c, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	if err := utils.ValidatePassword(request.NewPassword); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to change password")
		return
	}

	if err := db.UpdatePasswordHash(c.Request().Context(), user.ID.String(), string(hash)); err != nil {
		logger.Error("Failed to update password", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to change password")
		return
	}

	username, role := userEventDetails(user)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventPasswordChange,
		Description: "Password changed",
		UserID:      &user.ID,
		Username:    username,
		UserRole:    role,
	})

	writeJSON(c, http.StatusOK, map[string]string{"message": "password changed"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// ForgotPassword issues a reset token for the account behind the given
// email. The response is identical whether or not the account exists.
func ForgotPassword(c flamego.Context) {
	var request forgotPasswordRequest
	if !decodeJSON(c, &request) {
		return
	}

	response := map[string]string{
		"message": "if the email is registered, a reset link has been sent",
	}

	user, err := db.GetUserByEmail(c.Request().Context(), request.Email)
	if err != nil {
		writeJSON(c, http.StatusOK, response)
		return
	}

	token, err := generateResetToken()
	if err != nil {
		logger.Error("Failed to generate reset token", "error", err)
		writeJSON(c, http.StatusOK, response)
		return
	}

	if err := db.StorePasswordResetToken(c.Request().Context(), user.ID, token); err != nil {
		logger.Error("Failed to store reset token", "error", err)
		writeJSON(c, http.StatusOK, response)
		return
	}

	// No mailer is wired up, so the token lands in the audit trail for an
	// operator to hand over through a trusted channel.
	username, role := userEventDetails(user)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventPasswordReset,
		Description: "Password reset requested",
		UserID:      &user.ID,
		Username:    username,
		UserRole:    role,
	})
	logger.Info("Password reset token issued", "user_id", user.ID.String())

	writeJSON(c, http.StatusOK, response)
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ResetPassword consumes a reset token and sets a new password.
func ResetPassword(c flamego.Context) {
	var request resetPasswordRequest
	if !decodeJSON(c, &request) {
		return
	}

	if err := utils.ValidatePassword(request.NewPassword); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := db.ConsumePasswordResetToken(c.Request().Context(), request.Token)
	if err != nil {
		if errors.Is(err, db.ErrResetTokenInvalid) {
			writeError(c, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		logger.Error("Failed to consume reset token", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to reset password")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to reset password")
		return
	}

	if err := db.UpdatePasswordHash(c.Request().Context(), userID.String(), string(hash)); err != nil {
		logger.Error("Failed to update password", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to reset password")
		return
	}

	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventPasswordReset,
		Description: "Password reset completed",
		UserID:      &userID,
	})

	writeJSON(c, http.StatusOK, map[string]string{"message": "password reset"})
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
