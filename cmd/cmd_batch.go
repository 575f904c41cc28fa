// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/whereami-dev/whereami/config"
	"github.com/whereami-dev/whereami/geo"
	"github.com/whereami-dev/whereami/utils"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Resolve a file of queries, one per line",
	Long: `Reads queries line by line (blank lines and lines starting with # are
skipped) and writes one JSON response per line to stdout. Queries run
sequentially so provider ranking and quota behavior match the server.`,
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

		queries, err := readQueries(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(queries),
				progressbar.OptionSetDescription("Resolving"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		out := bufio.NewWriter(cmd.OutOrStdout())
		defer out.Flush()

		encoder := json.NewEncoder(out)

		var successes, failures int64

		for _, query := range queries {
			if ctx.Err() != nil {
				break
			}

			result, rerr := engine.Resolve(ctx, query)
			_, response := geo.Format(result, rerr)

			if rerr == nil {
				successes++
			} else {
				failures++
			}

			line := struct {
				Query string `json:"query"`
				geo.Response
			}{Query: query, Response: response}

			if err := encoder.Encode(line); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}

			if bar != nil {
				_ = bar.Add(1)
			}
		}

		if bar != nil {
			_ = bar.Finish()
		}

		log.Printf(
			"Batch completed - %s resolved, %s failed",
			utils.FormatInt(successes),
			utils.FormatInt(failures),
		)

		return nil
	},
}

func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening queries file: %w", err)
	}
	defer f.Close()

	var queries []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		queries = append(queries, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading queries file: %w", err)
	}

	return queries, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
