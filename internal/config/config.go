package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is the resolved carbook configuration.
type Config struct {
	API      APIConfig
	Store    StoreConfig
	Log      LogConfig
	Refetch  RefetchConfig
	Auth     AuthConfig
	Catalogd CatalogdConfig
	UI       UIConfig
}

// APIConfig locates the services/pricing API.
type APIConfig struct {
	BaseURL string        `validate:"required"`
	Timeout time.Duration `validate:"gt=0"`
}

// StoreConfig selects the durable key-value backend.
type StoreConfig struct {
	Backend       string `validate:"oneof=file redis sqlite memory"`
	Path          string
	RedisAddr     string `validate:"required_if=Backend redis"`
	RedisPassword string
	RedisDB       int `validate:"gte=0"`
	RedisPrefix   string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
	File  string
}

// RefetchConfig tunes the dependent query trigger.
type RefetchConfig struct {
	Debounce time.Duration `validate:"gt=0"`
	// Interval re-fetches prices periodically; zero disables it.
	Interval time.Duration `validate:"gte=0"`
}

// AuthConfig gates the wizard on a login.
type AuthConfig struct {
	Required bool
}

// CatalogdConfig configures the development API server.
type CatalogdConfig struct {
	Listen         string `validate:"required"`
	TokenSecret    string
	AllowedOrigins []string
	FixedOTP       string `validate:"omitempty,len=6,numeric"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string
}

const (
	envPrefix         = "CARBOOK_"
	defaultConfigPath = "~/.config/carbook/config.toml"
	defaultLogFile    = "~/.local/share/carbook/carbook.log"
	defaultBaseURL    = "http://127.0.0.1:8000"
	defaultTimeout    = 10 * time.Second
	defaultDebounce   = 100 * time.Millisecond
	defaultInterval   = 5 * time.Minute
	defaultListen     = "127.0.0.1:8000"
	defaultTheme      = "nightfox"
)

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() Config {
	return Config{
		API:      APIConfig{BaseURL: defaultBaseURL, Timeout: defaultTimeout},
		Store:    StoreConfig{Backend: "file", RedisPrefix: "carbook:"},
		Log:      LogConfig{Level: "info", File: mustExpand(defaultLogFile)},
		Refetch:  RefetchConfig{Debounce: defaultDebounce, Interval: defaultInterval},
		Auth:     AuthConfig{Required: true},
		Catalogd: CatalogdConfig{Listen: defaultListen, TokenSecret: "dev-secret-change-me"},
		UI:       UIConfig{Theme: defaultTheme},
	}
}

type rawConfig struct {
	API struct {
		BaseURL string `toml:"base_url"`
		Timeout string `toml:"timeout"`
	} `toml:"api"`
	Store struct {
		Backend       string `toml:"backend"`
		Path          string `toml:"path"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       *int   `toml:"redis_db"`
		RedisPrefix   string `toml:"redis_prefix"`
	} `toml:"store"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`
	Refetch struct {
		Debounce string `toml:"debounce"`
		Interval string `toml:"interval"`
	} `toml:"refetch"`
	Auth struct {
		Required *bool `toml:"required"`
	} `toml:"auth"`
	Catalogd struct {
		Listen         string   `toml:"listen"`
		TokenSecret    string   `toml:"token_secret"`
		AllowedOrigins []string `toml:"allowed_origins"`
		FixedOTP       string   `toml:"fixed_otp"`
	} `toml:"catalogd"`
	UI struct {
		Theme string `toml:"theme"`
	} `toml:"ui"`
}

// Load reads the config file at path (default ~/.config/carbook/config.toml),
// then a .env file in the working directory, then CARBOOK_* environment
// variables. Later sources win. A missing file yields defaults.
func Load(path string) (Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := applyFile(&cfg, resolved); err != nil {
		return Config{}, err
	}
	if err := loadDotEnv(envFile); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func applyFile(cfg *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.API.BaseURL, raw.API.BaseURL)
	if err := setDuration(&cfg.API.Timeout, "api.timeout", raw.API.Timeout); err != nil {
		return err
	}
	setString(&cfg.Store.Backend, raw.Store.Backend)
	setPath(&cfg.Store.Path, raw.Store.Path)
	setString(&cfg.Store.RedisAddr, raw.Store.RedisAddr)
	setString(&cfg.Store.RedisPassword, raw.Store.RedisPassword)
	if raw.Store.RedisDB != nil {
		cfg.Store.RedisDB = *raw.Store.RedisDB
	}
	setString(&cfg.Store.RedisPrefix, raw.Store.RedisPrefix)
	setString(&cfg.Log.Level, strings.ToLower(raw.Log.Level))
	setPath(&cfg.Log.File, raw.Log.File)
	if err := setDuration(&cfg.Refetch.Debounce, "refetch.debounce", raw.Refetch.Debounce); err != nil {
		return err
	}
	if err := setDuration(&cfg.Refetch.Interval, "refetch.interval", raw.Refetch.Interval); err != nil {
		return err
	}
	if raw.Auth.Required != nil {
		cfg.Auth.Required = *raw.Auth.Required
	}
	setString(&cfg.Catalogd.Listen, raw.Catalogd.Listen)
	setString(&cfg.Catalogd.TokenSecret, raw.Catalogd.TokenSecret)
	if origins := trimAll(raw.Catalogd.AllowedOrigins); len(origins) > 0 {
		cfg.Catalogd.AllowedOrigins = origins
	}
	setString(&cfg.Catalogd.FixedOTP, raw.Catalogd.FixedOTP)
	setString(&cfg.UI.Theme, raw.UI.Theme)
	return nil
}

func loadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	// Variables already set in the environment are not overwritten.
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	env := func(name string) string {
		return strings.TrimSpace(os.Getenv(envPrefix + name))
	}

	setString(&cfg.API.BaseURL, env("API_BASE_URL"))
	if err := setDuration(&cfg.API.Timeout, envPrefix+"API_TIMEOUT", env("API_TIMEOUT")); err != nil {
		return err
	}
	setString(&cfg.Store.Backend, env("STORE_BACKEND"))
	setPath(&cfg.Store.Path, env("STORE_PATH"))
	setString(&cfg.Store.RedisAddr, env("STORE_REDIS_ADDR"))
	setString(&cfg.Store.RedisPassword, env("STORE_REDIS_PASSWORD"))
	if v := env("STORE_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sSTORE_REDIS_DB: %w", envPrefix, err)
		}
		cfg.Store.RedisDB = db
	}
	setString(&cfg.Store.RedisPrefix, env("STORE_REDIS_PREFIX"))
	setString(&cfg.Log.Level, strings.ToLower(env("LOG_LEVEL")))
	setPath(&cfg.Log.File, env("LOG_FILE"))
	if err := setDuration(&cfg.Refetch.Debounce, envPrefix+"REFETCH_DEBOUNCE", env("REFETCH_DEBOUNCE")); err != nil {
		return err
	}
	if err := setDuration(&cfg.Refetch.Interval, envPrefix+"REFETCH_INTERVAL", env("REFETCH_INTERVAL")); err != nil {
		return err
	}
	if v := env("AUTH_REQUIRED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %sAUTH_REQUIRED: %w", envPrefix, err)
		}
		cfg.Auth.Required = b
	}
	setString(&cfg.Catalogd.Listen, env("CATALOGD_LISTEN"))
	setString(&cfg.Catalogd.TokenSecret, env("CATALOGD_TOKEN_SECRET"))
	if v := env("CATALOGD_ALLOWED_ORIGINS"); v != "" {
		cfg.Catalogd.AllowedOrigins = trimAll(strings.Split(v, ","))
	}
	setString(&cfg.Catalogd.FixedOTP, env("CATALOGD_FIXED_OTP"))
	setString(&cfg.UI.Theme, env("UI_THEME"))
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setPath(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = mustExpand(v)
	}
}

func setDuration(dst *time.Duration, name, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = d
	return nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
