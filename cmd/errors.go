/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errDatabaseURLRequired   = errors.New("database-url is required (set via --database-url or DATABASE_URL env var)")
	errJWTSecretRequired     = errors.New("jwt-secret is required (set via --jwt-secret or JWT_SECRET env var)")
	errMigrationNameRequired = errors.New("migration name is required")
)
