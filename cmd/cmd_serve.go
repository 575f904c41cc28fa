// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"
	"github.com/whereami-dev/whereami/config"
	"github.com/whereami-dev/whereami/geo"
)

var (
	serveListen  string
	serveHistory string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST geocode resolution server",
	Long: `Serves GET /geo/<query> with the unified JSON response. When --history
points to a database file, every resolution outcome is appended to an audit
log exposed at /api/history and /api/stats.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		engine, err := geo.NewEngine(cfg.ProviderConfigs())
		if err != nil {
			return err
		}

		var history geo.HistoryRepository

		if serveHistory != "" {
			db, err := sql.Open("duckdb", serveHistory)
			if err != nil {
				return fmt.Errorf("opening history database: %w", err)
			}
			defer db.Close()

			history = geo.NewHistoryRepository(db)
			if err := history.CreateSchema(); err != nil {
				return fmt.Errorf("creating history schema: %w", err)
			}
		}

		listen := cfg.Listen
		if serveListen != "" {
			listen = serveListen
		}

		log.Printf("Serving %d geocoding services on %s", len(cfg.Services), listen)

		server := geo.NewServer(engine, history)

		return server.Run(listen)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides the config file)")
	serveCmd.Flags().StringVar(&serveHistory, "history", "", "path to the resolution-history database (empty disables history)")
	rootCmd.AddCommand(serveCmd)
}
