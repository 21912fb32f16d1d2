/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "github.com/strokeward/strokeward/logging"

var appLogger = logging.Logger(logging.SourceApp)
