// Package config provides YAML configuration parsing for fleetpulse.
//
// It lets the fleetpulse binary run from a configuration file, as an
// alternative to calling the SDK directly.
//
// Example configuration:
//
//	nodes_file: nodes.txt
//	max_concurrent: 20
//	request_timeout: 10s
//
//	routes:
//	  - /api/sno
//	  - /api/sno/estimated-payout
//	  - /api/sno/satellites
//
//	template: templates/default/index.svg
//
//	telegram:
//	  bot_token: ${TELEGRAM_BOT_TOKEN}
//	  chat_id: ${TELEGRAM_CHAT_ID}
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/fleetpulse/aggregate"
)

const (
	defaultMaxConcurrent     = 20
	defaultRequestTimeout    = 10 * time.Second
	defaultRasterizerCommand = "rsvg-convert"
	defaultTelegramAPIURL    = "https://api.telegram.org"
)

// Config is the root configuration structure for fleetpulse.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// NodesFile is a node list file, one node per line.
	// See [LoadNodes] for the format.
	NodesFile string `yaml:"nodes_file"`

	// Nodes are inline nodes, polled after those of NodesFile.
	Nodes []string `yaml:"nodes"`

	// Routes are the API routes polled on every node.
	// Defaults to every known route.
	Routes []string `yaml:"routes"`

	// MaxConcurrent bounds the number of requests in flight across the
	// whole fleet. Defaults to 20.
	MaxConcurrent int `yaml:"max_concurrent"`

	// RequestTimeout bounds a single request, including the body read.
	// Defaults to 10s.
	RequestTimeout Duration `yaml:"request_timeout"`

	// Template is the SVG report card template used by the report command.
	Template string `yaml:"template"`

	Rasterizer RasterizerConfig `yaml:"rasterizer"`

	Telegram TelegramConfig `yaml:"telegram"`
}

// RasterizerConfig configures the external SVG to PNG converter.
type RasterizerConfig struct {
	// Command is the converter executable. Defaults to rsvg-convert.
	Command string `yaml:"command"`

	// Width and Height set the output size in pixels. Either both or
	// neither must be set.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TelegramConfig configures report delivery.
type TelegramConfig struct {
	// BotToken supports environment variable substitution: ${VAR} or ${VAR:-default}
	BotToken string `yaml:"bot_token"`

	// ChatID supports environment variable substitution.
	ChatID string `yaml:"chat_id"`

	// APIURL is the Bot API base URL. Defaults to https://api.telegram.org.
	APIURL string `yaml:"api_url"`
}

// Enabled reports whether delivery credentials are configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Relative nodes_file and template paths are resolved against the
// directory of the configuration file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	cfg.NodesFile = resolvePath(dir, cfg.NodesFile)
	cfg.Template = resolvePath(dir, cfg.Template)
	return cfg, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in file paths, the rasterizer
// command and the telegram section. Defaults are applied for Routes,
// MaxConcurrent (20), RequestTimeout (10s), the rasterizer command and the
// Telegram API URL.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Routes == nil {
		cfg.Routes = aggregate.DefaultRoutes()
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = Duration(defaultRequestTimeout)
	}
	if cfg.Rasterizer.Command == "" {
		cfg.Rasterizer.Command = defaultRasterizerCommand
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	if cfg.Telegram.APIURL == "" {
		cfg.Telegram.APIURL = defaultTelegramAPIURL
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	expand := []struct {
		name  string
		value *string
	}{
		{"nodes_file", &c.NodesFile},
		{"template", &c.Template},
		{"rasterizer.command", &c.Rasterizer.Command},
		{"telegram.bot_token", &c.Telegram.BotToken},
		{"telegram.chat_id", &c.Telegram.ChatID},
		{"telegram.api_url", &c.Telegram.APIURL},
	}
	for _, f := range expand {
		expanded, err := expandEnvVars(*f.value)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.value = strings.TrimSpace(expanded)
	}

	for i, n := range c.Nodes {
		n = strings.TrimSpace(n)
		if n == "" {
			return fmt.Errorf("nodes[%d]: node is empty", i)
		}
		if strings.Contains(n, "://") || strings.ContainsAny(n, "/ \t") {
			return fmt.Errorf("nodes[%d] (%s): node must be host[:port], without scheme or path", i, n)
		}
		c.Nodes[i] = n
	}

	seen := make(map[string]struct{}, len(c.Routes))
	for i, route := range c.Routes {
		if !strings.HasPrefix(route, "/") {
			return fmt.Errorf("routes[%d] (%s): route must start with /", i, route)
		}
		if _, err := aggregate.Lookup(route); err != nil {
			return fmt.Errorf("routes[%d]: %w (known: %s)", i, err, strings.Join(aggregate.KnownRoutes(), ", "))
		}
		if _, exists := seen[route]; exists {
			return fmt.Errorf("routes[%d] (%s): duplicate route", i, route)
		}
		seen[route] = struct{}{}
	}

	if c.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent must be positive, got %d", c.MaxConcurrent)
	}
	if c.RequestTimeout.Duration() < 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout.Duration())
	}

	r := c.Rasterizer
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("rasterizer: width and height cannot be negative, got %dx%d", r.Width, r.Height)
	}
	if (r.Width == 0) != (r.Height == 0) {
		return errors.New("rasterizer: width and height must be set together")
	}

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram: bot_token and chat_id must be set together")
	}

	return nil
}
