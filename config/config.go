// Package config loads downloader settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/nczempin/httpfetch/download"
	"github.com/nczempin/httpfetch/session"
	"github.com/nczempin/httpfetch/transport"
)

const envPrefix = "HTTPFETCH_"

// Config defines configuration for the httpfetch CLI.
type Config struct {
	URLs        []string `yaml:"urls"`
	Policy      string   `yaml:"policy"`
	Transport   string   `yaml:"transport"`
	Output      string   `yaml:"output"`
	Port        int      `yaml:"port"`
	ScratchSize int      `yaml:"scratch_size"`
	LogLevel    string   `yaml:"log_level"`
	Report      string   `yaml:"report"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Policy:      download.Barrier.String(),
		Transport:   string(transport.KindNet),
		Output:      "downloads",
		Port:        session.DefaultPort,
		ScratchSize: session.DefaultScratchSize,
		LogLevel:    "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the HTTPFETCH_ prefix; HTTPFETCH_URLS is a
// comma separated list.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(envPrefix + "URLS"); v != "" {
		c.URLs = splitList(v)
	}
	if v := os.Getenv(envPrefix + "POLICY"); v != "" {
		c.Policy = v
	}
	if v := os.Getenv(envPrefix + "TRANSPORT"); v != "" {
		c.Transport = v
	}
	if v := os.Getenv(envPrefix + "OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv(envPrefix + "PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sPORT: %w", envPrefix, err)
		}
		c.Port = n
	}
	if v := os.Getenv(envPrefix + "SCRATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sSCRATCH_SIZE: %w", envPrefix, err)
		}
		c.ScratchSize = n
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "REPORT"); v != "" {
		c.Report = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.URLs) == 0 {
		return errors.New("config: at least one URL is required")
	}
	if _, err := c.CompletionPolicy(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.TransportKind(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Output == "" {
		return errors.New("config: output is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.ScratchSize <= 0 {
		return errors.New("config: scratch_size must be positive")
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if len(override.URLs) != 0 {
		c.URLs = override.URLs
	}
	if override.Policy != "" {
		c.Policy = override.Policy
	}
	if override.Transport != "" {
		c.Transport = override.Transport
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.Port != 0 {
		c.Port = override.Port
	}
	if override.ScratchSize != 0 {
		c.ScratchSize = override.ScratchSize
	}
	if override.LogLevel != "" {
		c.LogLevel = override.LogLevel
	}
	if override.Report != "" {
		c.Report = override.Report
	}
	return c
}

// CompletionPolicy returns the parsed policy
func (c *Config) CompletionPolicy() (download.Policy, error) {
	return download.ParsePolicy(c.Policy)
}

// TransportKind returns the parsed transport kind
func (c *Config) TransportKind() (transport.Kind, error) {
	return transport.ParseKind(c.Transport)
}

// Level returns the parsed log level
func (c *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// OutputIsBucketURL reports whether Output names a bucket URL rather than a
// local directory.
func (c *Config) OutputIsBucketURL() bool {
	return strings.Contains(c.Output, "://")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
