package cliparse

import (
	"os"
	"testing"
)

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()
	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "" || cfg.Env != "" {
		t.Errorf("no explicit selection expected, got env %q url %q", cfg.Env, cfg.BaseURL)
	}
	if cfg.DBPath != "balloonboard.db" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestParseFlags_NamedEnvironment(t *testing.T) {
	os.Clearenv()
	cfg, err := ParseFlags([]string{"-e", "development"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Env != "development" {
		t.Errorf("expected development, got %q", cfg.Env)
	}
	if got := cfg.ResolveBaseURL(""); got != "http://localhost:5254" {
		t.Errorf("expected development base URL, got %q", got)
	}
}

func TestParseFlags_UnknownEnvironment(t *testing.T) {
	os.Clearenv()
	if _, err := ParseFlags([]string{"-e", "staging"}); err == nil {
		t.Fatal("expected error for unknown environment")
	}
}

func TestParseFlags_EnvVarFallback(t *testing.T) {
	os.Setenv("BALLOON_ENV", "development")
	os.Setenv("BALLOON_DB_PATH", "/tmp/test.db")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Env != "development" {
		t.Errorf("env var fallback failed, got %q", cfg.Env)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("db path fallback failed, got %q", cfg.DBPath)
	}
}

func TestParseFlags_LoginRequiresCredentials(t *testing.T) {
	os.Clearenv()
	if _, err := ParseFlags([]string{"-login"}); err == nil {
		t.Fatal("expected error when -login has no credentials")
	}

	os.Setenv("BALLOON_ADMIN_USER", "admin")
	os.Setenv("BALLOON_ADMIN_PASS", "secret")
	defer os.Clearenv()
	cfg, err := ParseFlags([]string{"-login"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Login || cfg.AdminUser != "admin" {
		t.Error("login credentials not picked up from env")
	}
}

func TestResolveBaseURL(t *testing.T) {
	production := Environments["production"].BaseURL
	development := Environments["development"].BaseURL

	tests := []struct {
		name      string
		cfg       Config
		storedEnv string
		want      string
	}{
		{"explicit URL wins over everything", Config{BaseURL: "http://10.0.0.5:5254", Env: "development"}, "production", "http://10.0.0.5:5254"},
		{"explicit environment wins over stored", Config{Env: "production"}, "development", production},
		{"stored preference used when nothing explicit", Config{}, "development", development},
		{"no selection anywhere defaults to production", Config{}, "", production},
		{"stale stored name falls back to production", Config{}, "retired", production},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveBaseURL(tt.storedEnv); got != tt.want {
				t.Errorf("ResolveBaseURL(%q) = %q, want %q", tt.storedEnv, got, tt.want)
			}
		})
	}
}
