/*
 * Copyright 2025 The Strokeward Authors
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/strokeward/strokeward/cmd"
)

func main() {
	// Optional .env for local development; real environment wins.
	_ = godotenv.Load()

	app := &cli.Command{
		Name:  "strokeward",
		Usage: "Strokeward - Hospital stroke-care portal backend",
		Commands: []*cli.Command{
			cmd.CmdServe,
			cmd.CmdMigrate,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
