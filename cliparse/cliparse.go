package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Environment is a named backend selection.
type Environment struct {
	Name    string
	BaseURL string
}

// The fixed set of named backends. The development entry exists only for
// local work against a locally running contest server.
var Environments = map[string]Environment{
	"development": {Name: "Development", BaseURL: "http://localhost:5254"},
	"production":  {Name: "Production", BaseURL: "https://nucpa-balloons.runasp.net"},
}

const DefaultEnvironment = "production"

type Config struct {
	Env      string
	BaseURL  string // explicit override only; otherwise resolved later
	UserName string
	Role     string
	DBPath   string

	// one-shot modes
	Announce  string
	Login     bool
	AdminUser string
	AdminPass string
}

// ParseFlags validates flags with environment variable fallback. Flags take
// precedence over env variables. The backend base URL is not resolved
// here: an explicitly given URL or environment lands in Config as-is, and
// ResolveBaseURL folds in the stored preference once the preference store
// is open.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("balloonboard", flag.ContinueOnError)

	fs.StringVar(&cfg.Env, "e", "", "Named backend environment ("+envNames()+")")
	fs.StringVar(&cfg.BaseURL, "u", "", "Backend base URL (overrides -e)")
	fs.StringVar(&cfg.UserName, "n", "", "Operator display name")
	fs.StringVar(&cfg.Role, "r", "", "Operator role")
	fs.StringVar(&cfg.DBPath, "d", "", "Preference store path")
	fs.StringVar(&cfg.Announce, "announce", "", "Send one announcement and exit")
	fs.BoolVar(&cfg.Login, "login", false, "Log in as admin and store the token")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Env == "" {
		cfg.Env = os.Getenv("BALLOON_ENV")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BALLOON_API_URL")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = os.Getenv("BALLOON_DB_PATH")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "balloonboard.db"
	}

	// Login credentials are env-only; they should not end up in shell
	// history via flags.
	cfg.AdminUser = os.Getenv("BALLOON_ADMIN_USER")
	cfg.AdminPass = os.Getenv("BALLOON_ADMIN_PASS")

	if cfg.Env != "" {
		if _, ok := Environments[cfg.Env]; !ok {
			return Config{}, fmt.Errorf("unknown environment %q (expected one of: %s)", cfg.Env, envNames())
		}
	}

	if cfg.Login && (cfg.AdminUser == "" || cfg.AdminPass == "") {
		return Config{}, errors.New("-login requires BALLOON_ADMIN_USER and BALLOON_ADMIN_PASS")
	}

	return cfg, nil
}

// ResolveBaseURL picks the backend base URL: an explicit URL wins, then an
// explicitly named environment, then the stored preference, then the
// default. A stored name the table no longer has falls back to the default
// rather than failing startup.
func (c Config) ResolveBaseURL(storedEnv string) string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	name := c.Env
	if name == "" {
		name = storedEnv
	}
	if env, ok := Environments[name]; ok {
		return env.BaseURL
	}
	return Environments[DefaultEnvironment].BaseURL
}

func envNames() string {
	names := make([]string, 0, len(Environments))
	for name := range Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
