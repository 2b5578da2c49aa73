// cliparse/cliparse_test.go
package cliparse

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite by default, got %q", cfg.DatabaseType)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("expected env database URL, got %q", cfg.DatabaseURL)
	}
	if cfg.MetricsEnabled {
		t.Error("expected metrics disabled from env")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("expected flag database URL, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "votedesk.yaml")
	content := "port: 7000\nlogFormat: json\ndatabaseUrl: desk.db\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("LOG_FORMAT")
	t.Setenv("PORT", "7100")

	cfg, err := ParseFlags([]string{"--config", path})
	if err != nil {
		t.Fatal(err)
	}

	// env beats the file, the file beats defaults
	if cfg.Port != 7100 {
		t.Errorf("expected env port 7100, got %d", cfg.Port)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected json log format from file, got %q", cfg.LogFormat)
	}
	if cfg.ConfigFile != path {
		t.Errorf("expected config file %q, got %q", path, cfg.ConfigFile)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad database type", []string{"-t", "mysql"}, "unsupported database type"},
		{"bad port", []string{"-p", "70000"}, "invalid port"},
		{"empty database url", []string{"-d", ""}, "database URL required"},
		{"bad log level", []string{"--log-level", "loud"}, "invalid log level"},
		{"bad log format", []string{"--log-format", "xml"}, "unsupported log format"},
		{"missing config file", []string{"--config", "/nonexistent/votedesk.yaml"}, "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Defaults()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger := NewLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "election_id", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected json record, got %q", out)
	}
}

func TestConfigAddr(t *testing.T) {
	cfg := Defaults()
	if got := cfg.Addr(); got != "127.0.0.1:3318" {
		t.Errorf("expected 127.0.0.1:3318, got %q", got)
	}
}
