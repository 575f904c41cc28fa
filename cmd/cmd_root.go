// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "whereami",
	Short: "geocode resolution proxy",
	Long: `
whereami resolves a free-text search query (a street address, a landmark)
into longitude and latitude coordinates. The actual lookup is performed by
third-party geocoding services; results are transformed into a unified
shape so callers never deal with per-service formats.

Services are tried in the order listed in the configuration file, from most
preferable to least. If a service is unreachable, times out, fails, or
returns no results, the next one is tried.
`,
}

var configPath string

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to the configuration file")
}
