/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errMissingAuthHeader   = errors.New("missing authorization header")
	errMalformedAuthHeader = errors.New("malformed authorization header")
	errTokenInvalid        = errors.New("token invalid")
	errJWTSecretRequired   = errors.New("JWT_SECRET is required")
	errMissingDate         = errors.New("missing date")
	errInvalidDate         = errors.New("invalid date")
	errDateInPast          = errors.New("date is in the past")
	errInvalidTime         = errors.New("invalid time")
)
