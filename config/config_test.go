package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/fleetpulse/aggregate"
)

func TestParse_MinimalConfig(t *testing.T) {
	yaml := `
nodes:
  - 10.0.0.1:14002
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.MaxConcurrent != 20 {
		t.Errorf("MaxConcurrent = %d, want 20", cfg.MaxConcurrent)
	}
	if cfg.RequestTimeout.Duration() != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout.Duration())
	}
	if len(cfg.Routes) != 3 {
		t.Errorf("len(Routes) = %d, want 3", len(cfg.Routes))
	}
	if cfg.Rasterizer.Command != "rsvg-convert" {
		t.Errorf("Rasterizer.Command = %q, want rsvg-convert", cfg.Rasterizer.Command)
	}
	if cfg.Telegram.APIURL != "https://api.telegram.org" {
		t.Errorf("Telegram.APIURL = %q, want https://api.telegram.org", cfg.Telegram.APIURL)
	}
	if cfg.Telegram.Enabled() {
		t.Error("Telegram.Enabled() = true, want false")
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
nodes_file: nodes.txt
nodes:
  - " node-a:14002 "
  - "[::1]:14002"
routes:
  - /api/sno
  - /api/sno/satellites
max_concurrent: 5
request_timeout: 2500ms
template: templates/custom.svg
rasterizer:
  command: /usr/local/bin/rsvg-convert
  width: 1200
  height: 800
telegram:
  bot_token: "123:abc"
  chat_id: "-100200"
  api_url: http://localhost:8081
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.NodesFile != "nodes.txt" {
		t.Errorf("NodesFile = %q, want nodes.txt", cfg.NodesFile)
	}
	if len(cfg.Nodes) != 2 || cfg.Nodes[0] != "node-a:14002" || cfg.Nodes[1] != "[::1]:14002" {
		t.Errorf("Nodes = %q", cfg.Nodes)
	}
	if len(cfg.Routes) != 2 || cfg.Routes[1] != aggregate.RouteSatellites {
		t.Errorf("Routes = %q", cfg.Routes)
	}
	if cfg.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %d, want 5", cfg.MaxConcurrent)
	}
	if cfg.RequestTimeout.Duration() != 2500*time.Millisecond {
		t.Errorf("RequestTimeout = %v, want 2.5s", cfg.RequestTimeout.Duration())
	}
	if cfg.Template != "templates/custom.svg" {
		t.Errorf("Template = %q", cfg.Template)
	}
	if cfg.Rasterizer.Width != 1200 || cfg.Rasterizer.Height != 800 {
		t.Errorf("Rasterizer size = %dx%d, want 1200x800", cfg.Rasterizer.Width, cfg.Rasterizer.Height)
	}
	if !cfg.Telegram.Enabled() {
		t.Error("Telegram.Enabled() = false, want true")
	}
	if cfg.Telegram.APIURL != "http://localhost:8081" {
		t.Errorf("Telegram.APIURL = %q", cfg.Telegram.APIURL)
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("TEST_BOT_TOKEN", "42:secret")
	t.Setenv("TEST_CHAT_ID", "-1001")

	yaml := `
telegram:
  bot_token: ${TEST_BOT_TOKEN}
  chat_id: ${TEST_CHAT_ID}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Telegram.BotToken != "42:secret" {
		t.Errorf("BotToken = %q, want 42:secret", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != "-1001" {
		t.Errorf("ChatID = %q, want -1001", cfg.Telegram.ChatID)
	}
}

func TestParse_EnvVarDefault(t *testing.T) {
	yaml := `
nodes_file: ${FLEETPULSE_TEST_UNSET_NODES:-fleet.txt}
telegram:
  bot_token: ${FLEETPULSE_TEST_UNSET_TOKEN:-}
  chat_id: ${FLEETPULSE_TEST_UNSET_CHAT:-}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.NodesFile != "fleet.txt" {
		t.Errorf("NodesFile = %q, want fleet.txt", cfg.NodesFile)
	}
	if cfg.Telegram.Enabled() {
		t.Error("Telegram.Enabled() = true, want false")
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	yaml := `
telegram:
  bot_token: ${FLEETPULSE_TEST_DEFINITELY_UNSET}
  chat_id: "1"
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "telegram.bot_token") {
		t.Errorf("error = %v, want it to name the field", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown route",
			yaml:    "routes: [/api/other]",
			wantErr: "no merge rule",
		},
		{
			name:    "route without slash",
			yaml:    "routes: [api/sno]",
			wantErr: "must start with /",
		},
		{
			name:    "duplicate route",
			yaml:    "routes: [/api/sno, /api/sno]",
			wantErr: "duplicate route",
		},
		{
			name:    "negative max_concurrent",
			yaml:    "max_concurrent: -1",
			wantErr: "max_concurrent must be positive",
		},
		{
			name:    "negative timeout",
			yaml:    "request_timeout: -1s",
			wantErr: "request_timeout must be positive",
		},
		{
			name:    "width without height",
			yaml:    "rasterizer: {width: 800}",
			wantErr: "set together",
		},
		{
			name:    "negative size",
			yaml:    "rasterizer: {width: -800, height: 600}",
			wantErr: "cannot be negative",
		},
		{
			name:    "token without chat",
			yaml:    "telegram: {bot_token: abc}",
			wantErr: "bot_token and chat_id",
		},
		{
			name:    "node with scheme",
			yaml:    "nodes: [http://10.0.0.1:14002]",
			wantErr: "without scheme",
		},
		{
			name:    "empty node",
			yaml:    "nodes: ['  ']",
			wantErr: "node is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_UnknownRouteWrapsSentinel(t *testing.T) {
	_, err := Parse([]byte("routes: [/api/other]"))
	if !errors.Is(err, aggregate.ErrUnknownRoute) {
		t.Errorf("Parse() error = %v, want ErrUnknownRoute", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("nodes: [unclosed"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("request_timeout: soon"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error = %v, want 'invalid duration'", err)
	}
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "nodes_file: nodes.txt\ntemplate: /abs/index.svg\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.NodesFile != filepath.Join(dir, "nodes.txt") {
		t.Errorf("NodesFile = %q, want %q", cfg.NodesFile, filepath.Join(dir, "nodes.txt"))
	}
	if cfg.Template != "/abs/index.svg" {
		t.Errorf("Template = %q, want /abs/index.svg", cfg.Template)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FP_SET", "value")
	t.Setenv("FP_EMPTY", "")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "no vars", input: "plain", want: "plain"},
		{name: "set var", input: "a-${FP_SET}-b", want: "a-value-b"},
		{name: "empty var", input: "${FP_EMPTY}", want: ""},
		{name: "set var ignores default", input: "${FP_SET:-other}", want: "value"},
		{name: "unset with default", input: "${FP_UNSET_XYZ:-dflt}", want: "dflt"},
		{name: "unset with empty default", input: "${FP_UNSET_XYZ:-}", want: ""},
		{name: "unset without default", input: "${FP_UNSET_XYZ}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}
