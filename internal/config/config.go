// Package config defines the necessary types to configure the application.
// Values come from a config.yaml file, overridden by ZENORA_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
)

const configFileName = "config.yaml"

type Config struct {
	Application Application `yaml:"application"`
	Logger      Logger      `yaml:"logger"`

	HTTP HTTPServer `yaml:"http"`

	Database  Database  `yaml:"database"`
	ValKey    ValKey    `yaml:"valkey"`
	Identity  Identity  `yaml:"identity"`
	Portal    Portal    `yaml:"portal"`
	Dashboard Dashboard `yaml:"dashboard"`
	Refresher Refresher `yaml:"refresher"`
	Migrate   Migrate   `yaml:"migrate"`
}

type Application struct {
	Name        string `yaml:"name" env:"ZENORA_APP_NAME"`
	Environment string `yaml:"environment" env:"ZENORA_APP_ENVIRONMENT"`
}

type Logger struct {
	// Level is one of debug, info, warn, error.
	Level  string `yaml:"level" env:"ZENORA_LOG_LEVEL"`
	Format string `yaml:"format" env:"ZENORA_LOG_FORMAT"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"ZENORA_HTTP_ADDRESS"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type Database struct {
	Name     string `yaml:"name" env:"ZENORA_DB_NAME"`
	Port     string `yaml:"port" env:"ZENORA_DB_PORT"`
	Host     string `yaml:"host" env:"ZENORA_DB_HOST"`
	User     string `yaml:"user" env:"ZENORA_DB_USER"`
	Password string `yaml:"password" env:"ZENORA_DB_PASSWORD"`
}

type ValKey struct {
	Host     string `yaml:"host" env:"ZENORA_VALKEY_HOST"`
	User     string `yaml:"user" env:"ZENORA_VALKEY_USER"`
	Password string `yaml:"password" env:"ZENORA_VALKEY_PASSWORD"`
	Prefix   string `yaml:"prefix" env:"ZENORA_VALKEY_PREFIX"`
}

// Identity points at the external identity provider's REST API.
type Identity struct {
	BaseURL string `yaml:"baseURL" env:"ZENORA_IDENTITY_BASE_URL"`
	APIKey  string `yaml:"apiKey" env:"ZENORA_IDENTITY_API_KEY"`
}

type Portal struct {
	// AdminEmails extends the built-in administrator allow-list.
	AdminEmails     []string       `yaml:"adminEmails" env:"ZENORA_ADMIN_EMAILS"`
	SessionDuration time.Duration  `yaml:"sessionDuration"`
	SessionCookie   CookieTemplate `yaml:"sessionCookie"`
}

type Dashboard struct {
	SettingsCacheTTL time.Duration `yaml:"settingsCacheTTL"`
}

type Refresher struct {
	Interval time.Duration `yaml:"interval"`
	// Window is how close to expiry a session must be before its token
	// gets refreshed.
	Window time.Duration `yaml:"window"`
}

type Migrate struct {
	Source string `yaml:"source" env:"ZENORA_MIGRATE_SOURCE"`
}

func defaultConfig() *Config {
	return &Config{
		Application: Application{
			Name:        "zenora",
			Environment: "development",
		},
		Logger: Logger{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPServer{
			Address:         ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Portal: Portal{
			SessionDuration: 12 * time.Hour,
			SessionCookie: CookieTemplate{
				Name:     "zenora_session",
				Path:     "/",
				Secure:   true,
				HTTPOnly: true,
				SameSite: CookieSameSiteLax,
			},
		},
		Dashboard: Dashboard{
			SettingsCacheTTL: 5 * time.Minute,
		},
		Refresher: Refresher{
			Interval: time.Minute,
			Window:   5 * time.Minute,
		},
		Migrate: Migrate{
			Source: "file://./sql",
		},
	}
}

// Load builds the configuration from defaults, the first config.yaml found
// in the given directories, and finally the environment. A missing config
// file is not an error; an unreadable or malformed one is.
func Load(dirs ...string) (*Config, error) {
	cfg := defaultConfig()

	for _, dir := range dirs {
		path := filepath.Join(os.ExpandEnv(dir), configFileName)

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}

		break
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	return cfg, nil
}
