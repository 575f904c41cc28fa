// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the YAML configuration that ranks the geocoding
// services. The list is ordered from most preferable to least; the engine
// tries services in exactly this order.
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/whereami-dev/whereami/geo"
)

// Service configures one entry of the fallback chain.
type Service struct {
	Name           string            `mapstructure:"name"`
	TimeoutSeconds float64           `mapstructure:"timeout_seconds"`
	Credentials    map[string]string `mapstructure:"credentials"`
}

// Config is the full configuration surface.
type Config struct {
	Listen   string    `mapstructure:"listen"`
	Services []Service `mapstructure:"services"`
}

const defaultListen = "localhost:8080"

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("listen", defaultListen)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Services) == 0 {
		return fmt.Errorf("at least one geocoding service must be configured")
	}

	for i, service := range c.Services {
		if service.Name == "" {
			return fmt.Errorf("service #%d has no name", i+1)
		}

		if service.TimeoutSeconds < 0 {
			return fmt.Errorf("service %q has a negative timeout", service.Name)
		}
	}

	return nil
}

// ProviderConfigs converts the services to the engine's configuration type,
// preserving rank order.
func (c *Config) ProviderConfigs() []geo.ProviderConfig {
	configs := make([]geo.ProviderConfig, 0, len(c.Services))

	for _, service := range c.Services {
		configs = append(configs, geo.ProviderConfig{
			Name:           service.Name,
			TimeoutSeconds: service.TimeoutSeconds,
			Credentials:    service.Credentials,
		})
	}

	return configs
}
