/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseURLEnvVarNotSet          = errors.New("DATABASE_URL environment variable is not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in connection string")
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrUserNotFound                     = errors.New("user not found")
	ErrPatientNotFound                  = errors.New("patient not found")
	ErrAppointmentNotFound              = errors.New("appointment not found")
	ErrDuplicateUsername                = errors.New("username already exists")
	ErrDuplicateEmail                   = errors.New("email already exists")
	ErrResetTokenInvalid                = errors.New("reset token is invalid or expired")
)
