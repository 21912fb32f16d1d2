/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(c flamego.Context, status int, payload any) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")
	c.ResponseWriter().WriteHeader(status)

	if err := json.NewEncoder(c.ResponseWriter()).Encode(payload); err != nil {
		requestLogger.Warn("Failed to encode response", "error", err)
	}
}

func writeError(c flamego.Context, status int, message string) {
	writeJSON(c, status, map[string]string{"error": message})
}

// decodeJSON reads and validates a request payload. Validation failures are
// reported per field so clients can highlight the offending inputs.
func decodeJSON(c flamego.Context, dst any) bool {
	if err := json.NewDecoder(c.Request().Body().ReadCloser()).Decode(dst); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors, ok := err.(validator.ValidationErrors); ok {
			fieldErrors = errors
		}

		details := make(map[string]string, len(fieldErrors))
		for _, fieldError := range fieldErrors {
			details[strings.ToLower(fieldError.Field())] = fieldError.Tag()
		}

		writeJSON(c, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": details,
		})
		return false
	}

	return true
}
