// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/whereami-dev/whereami/config"
	"github.com/whereami-dev/whereami/geo"
)

var resolveCmd = &cobra.Command{
	Use:   `resolve "<query>"`,
	Short: "Resolve a single query from the command line",
	Long: `Resolves a street address or landmark against the configured geocoding
services and prints the unified JSON response, for example:

    whereami resolve "123 Elm Street, Seattle"
    whereami resolve "Empire State Building"
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		engine, err := geo.NewEngine(cfg.ProviderConfigs())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, rerr := engine.Resolve(ctx, args[0])
		_, response := geo.Format(result, rerr)

		data, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling response: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
