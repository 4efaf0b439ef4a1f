package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "CURSO"

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all process-level settings.
type Config struct {
	Env  string
	Addr string

	DatabaseURL      string
	DatabaseAdminURL string // optional elevated pool used for the course update fallback

	CSRFKey       []byte
	RateLimit     int
	SiteURL       string
	AdminEmail    string
	AdminPassword string

	RedisAddr string

	UploadDir          string
	GCSBucket          string
	GCSCDNDomain       string
	GCSCredentialsFile string

	ResendKey string
	EmailFrom string

	SlowQueryMs   int
	SlowRequestMs int

	LogLevel  string
	LogFormat string
}

// IsProduction reports whether the process runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads an optional dotenv file and then the CURSO_* environment.
// PRE: dotenvPath may be empty or point at a missing file
// POST: Returns a populated Config; errors only on an unreadable dotenv file or bad values
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", dotenvPath, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: stat %s: %w", dotenvPath, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Env:                strings.ToLower(v.GetString("env")),
		Addr:               v.GetString("addr"),
		DatabaseURL:        v.GetString("database_url"),
		DatabaseAdminURL:   v.GetString("database_admin_url"),
		RateLimit:          v.GetInt("rate_limit"),
		SiteURL:            strings.TrimRight(v.GetString("site_url"), "/"),
		AdminEmail:         v.GetString("admin_email"),
		AdminPassword:      v.GetString("admin_password"),
		RedisAddr:          v.GetString("redis_addr"),
		UploadDir:          v.GetString("upload_dir"),
		GCSBucket:          v.GetString("gcs_bucket"),
		GCSCDNDomain:       v.GetString("gcs_cdn_domain"),
		GCSCredentialsFile: v.GetString("gcs_credentials_file"),
		ResendKey:          v.GetString("resend_key"),
		EmailFrom:          v.GetString("email_from"),
		SlowQueryMs:        v.GetInt("slow_query_ms"),
		SlowRequestMs:      v.GetInt("slow_request_ms"),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		LogFormat:          strings.ToLower(v.GetString("log_format")),
	}

	if keyHex := v.GetString("csrf_key"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return Config{}, errors.New("config: CURSO_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		cfg.CSRFKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("addr", ":8080")
	v.SetDefault("database_url", "curso.db")
	v.SetDefault("rate_limit", 20)
	v.SetDefault("site_url", "http://localhost:8080")
	v.SetDefault("admin_email", "admin@curso.local")
	v.SetDefault("admin_password", "change me please")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("email_from", "Curso <noreply@curso.local>")
	v.SetDefault("slow_query_ms", 50)
	v.SetDefault("slow_request_ms", 200)
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "text")
}

// Validate checks cross-field rules.
// PRE: Config is populated
// POST: Returns nil if the configuration is usable
func (c Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("config: unknown environment %q", c.Env)
	}
	if c.IsProduction() && len(c.CSRFKey) == 0 {
		return errors.New("config: CURSO_CSRF_KEY is required in production")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("config: CURSO_DATABASE_URL cannot be empty")
	}
	if c.RateLimit <= 0 {
		return errors.New("config: CURSO_RATE_LIMIT must be positive")
	}
	return nil
}

// Logger builds the process logger. Development defaults to debug, everything else to info.
func (c Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	case "":
		if c.Env == EnvDevelopment {
			level = slog.LevelDebug
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
