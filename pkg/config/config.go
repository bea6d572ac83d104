// Copyright 2025 The Runtime Validation Layer Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the layer configuration from a YAML file with
// environment variable overrides on top.
package config

import (
	"fmt"
	"os"

	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized as overrides.
const (
	EnvLogLevel       = "XRCONF_LOG_LEVEL"
	EnvLogFormat      = "XRCONF_LOG_FORMAT"
	EnvMetricsAddress = "XRCONF_METRICS_ADDRESS"
	EnvFindingsPath   = "XRCONF_FINDINGS_PATH"
	EnvSentryDSN      = "XRCONF_SENTRY_DSN"
)

// LayerConfig is the complete configuration of the validation layer.
type LayerConfig struct {
	// LogLevel and LogFormat configure the zap logger ("debug".."error",
	// "console" or "json").
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	// MetricsAddress is the listen address of the metrics endpoint.
	// Empty disables the endpoint.
	MetricsAddress string `yaml:"metricsAddress"`

	// FindingsPath is the JSONL file findings are appended to. Empty
	// means findings only go to the log.
	FindingsPath string `yaml:"findingsPath"`

	// HeadlessExtension forces headless mode on, for setups where the
	// layer sits below the loader and never sees instance creation.
	HeadlessExtension bool `yaml:"headlessExtension"`

	// SentryDSN enables crash reporting for the layer's own bugs. Empty
	// disables it.
	SentryDSN string `yaml:"sentryDsn"`
}

// Default returns the configuration used when no file is present.
func Default() LayerConfig {
	return LayerConfig{
		LogLevel:       "info",
		LogFormat:      "console",
		MetricsAddress: "",
		FindingsPath:   "",
	}
}

// Parse unmarshals a YAML document over the defaults and applies
// environment overrides.
func Parse(data []byte) (LayerConfig, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return LayerConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()

	return cfg, nil
}

// Load reads a YAML config file. A missing file is not an error; the
// defaults with environment overrides are returned instead.
func Load(path string) (LayerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.applyEnv()

			return cfg, nil
		}

		return LayerConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

func (c *LayerConfig) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}

	if v := os.Getenv(EnvMetricsAddress); v != "" {
		c.MetricsAddress = v
	}

	if v := os.Getenv(EnvFindingsPath); v != "" {
		c.FindingsPath = v
	}

	if v := os.Getenv(EnvSentryDSN); v != "" {
		c.SentryDSN = v
	}
}

// Clone returns a deep copy, so a caller can derive a variant without
// mutating the shared configuration.
func (c *LayerConfig) Clone() (LayerConfig, error) {
	var out LayerConfig
	if err := deepcopy.Copy(&out, c); err != nil {
		return LayerConfig{}, fmt.Errorf("failed to clone config: %w", err)
	}

	return out, nil
}
