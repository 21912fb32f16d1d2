/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/flamego/flamego"
	"golang.org/x/crypto/bcrypt"

	"github.com/strokeward/strokeward/db"
	"github.com/strokeward/strokeward/utils"
)

// AdminStats returns the portal-wide counters for the admin dashboard.
func AdminStats(c flamego.Context) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	stats, err := db.GetSystemStats(c.Request().Context(), today)
	if err != nil {
		logger.Error("Failed to compute system stats", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(c, http.StatusOK, stats)
}

// AdminListUsers returns accounts, optionally filtered by role.
func AdminListUsers(c flamego.Context) {
	var roleFilter *db.Role
	if role := c.Query("role"); role != "" {
		parsed := db.Role(role)
		if !db.ValidRole(parsed) {
			writeError(c, http.StatusBadRequest, "invalid role filter")
			return
		}
		roleFilter = &parsed
	}

	users, err := db.ListUsers(c.Request().Context(), roleFilter)
	if err != nil {
		logger.Error("Failed to list users", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(c, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

type adminCreateUserRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=50"`
	Email          string `json:"email" validate:"required"`
	Password       string `json:"password" validate:"required"`
	Role           string `json:"role" validate:"required,oneof=admin doctor patient"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Phone          string `json:"phone" validate:"omitempty,max=30"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
	LicenseNumber  string `json:"license_number" validate:"omitempty,max=50"`
}

// AdminCreateUser creates an account with any role, including admin.
func AdminCreateUser(c flamego.Context, admin *db.User) {
	var request adminCreateUserRequest
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

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	input := db.CreateUserInput{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: string(hash),
		Role:         db.Role(request.Role),
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
			writeError(c, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	adminUsername, adminRole := userEventDetails(admin)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventUserCreated,
		Description: "Account created by admin: " + user.Username,
		UserID:      &admin.ID,
		Username:    adminUsername,
		UserRole:    adminRole,
	})

	writeJSON(c, http.StatusCreated, user)
}

type adminUpdateUserRequest struct {
	Email          *string `json:"email"`
	FirstName      *string `json:"first_name" validate:"omitempty,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Specialization *string `json:"specialization" validate:"omitempty,max=100"`
	LicenseNumber  *string `json:"license_number" validate:"omitempty,max=50"`
	IsActive       *bool   `json:"is_active"`
	Role           *string `json:"role" validate:"omitempty,oneof=admin doctor patient"`
}

// AdminUpdateUser applies a partial account update, including activation
// state and role changes.
func AdminUpdateUser(c flamego.Context, admin *db.User) {
	var request adminUpdateUserRequest
	if !decodeJSON(c, &request) {
		return
	}

	if request.Email != nil {
		if err := utils.ValidateEmail(*request.Email); err != nil {
			writeError(c, http.StatusBadRequest, "invalid email format")
			return
		}
	}

	input := db.UpdateUserInput{
		Email:          request.Email,
		FirstName:      request.FirstName,
		LastName:       request.LastName,
		Phone:          request.Phone,
		Specialization: request.Specialization,
		LicenseNumber:  request.LicenseNumber,
		IsActive:       request.IsActive,
	}
	if request.Role != nil {
		role := db.Role(*request.Role)
		input.Role = &role
	}

	user, err := db.UpdateUser(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrUserNotFound):
			writeError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, db.ErrDuplicateEmail):
			writeError(c, http.StatusConflict, "email already registered")
		default:
			logger.Error("Failed to update user", "error", err)
			writeError(c, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	adminUsername, adminRole := userEventDetails(admin)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventUserUpdated,
		Description: "Account updated by admin: " + user.Username,
		UserID:      &admin.ID,
		Username:    adminUsername,
		UserRole:    adminRole,
	})

	writeJSON(c, http.StatusOK, user)
}

// AdminDeleteUser removes an account. Admins cannot delete themselves.
func AdminDeleteUser(c flamego.Context, admin *db.User) {
	id := c.Param("id")
	if id == admin.ID.String() {
		writeError(c, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	target, err := db.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			writeError(c, http.StatusNotFound, "user not found")
			return
		}
		logger.Error("Failed to get user", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to delete user")
		return
	}

	if err := db.DeleteUser(c.Request().Context(), id); err != nil {
		logger.Error("Failed to delete user", "error", err)
		writeError(c, http.StatusInternalServerError, "failed to delete user")
		return
	}

	adminUsername, adminRole := userEventDetails(admin)
	recordEvent(c, db.RecordSecurityEventInput{
		EventType:   db.EventUserDeleted,
		Description: "Account deleted by admin: " + target.Username,
		UserID:      &admin.ID,
		Username:    adminUsername,
		UserRole:    adminRole,
		Severity:    "warning",
	})

	writeJSON(c, http.StatusOK, map[string]string{"message": "user deleted"})
}
