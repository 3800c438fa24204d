// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"context"
	"log"
	"os"

	"github.com/fluffyriot/postdeck/internal/cli"
	"github.com/fluffyriot/postdeck/internal/config"
	_ "time/tzdata"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, queries, err := config.LoadDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	err = cli.Run(context.Background(), os.Args[1:], queries, cli.TerminalPassword, os.Stdout)
	db.Close()
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
