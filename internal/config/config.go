package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env        string `mapstructure:"env"`
	Port       int    `mapstructure:"port"`
	JWTSecret  string `mapstructure:"jwtSecret"`
	CookieName string `mapstructure:"cookieName"`
	TMDB       struct {
		APIKey  string        `mapstructure:"apiKey"`
		BaseURL string        `mapstructure:"baseURL"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"tmdb"`
	Database struct {
		Type         string `mapstructure:"type"`
		Path         string `mapstructure:"path"`
		DSN          string `mapstructure:"dsn"`
		MaxOpenConns int    `mapstructure:"maxOpenConns"`
	} `mapstructure:"database"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	Static struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"static"`
	Storage struct {
		Endpoint        string        `mapstructure:"endpoint"`
		Region          string        `mapstructure:"region"`
		Bucket          string        `mapstructure:"bucket"`
		AccessKeyID     string        `mapstructure:"accessKeyID"`
		SecretAccessKey string        `mapstructure:"secretAccessKey"`
		Prefix          string        `mapstructure:"prefix"`
		PresignTTL      time.Duration `mapstructure:"presignTTL"`
	} `mapstructure:"storage"`
	Keepalive struct {
		Enabled  bool          `mapstructure:"enabled"`
		Interval time.Duration `mapstructure:"interval"`
		BaseURL  string        `mapstructure:"baseURL"`
	} `mapstructure:"keepalive"`
}

// LoadConfig loads the configuration from file and environment variables.
// A missing file is not an error; settings then come from the environment.
func LoadConfig(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	}
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment-only deployments never set these in a file, so AutomaticEnv
	// alone would not surface them during Unmarshal.
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("jwtSecret", "JWT_SECRET")
	_ = v.BindEnv("tmdb.apiKey", "TMDB_API_KEY")
	_ = v.BindEnv("database.type", "DATABASE_TYPE")
	_ = v.BindEnv("database.path", "DATABASE_PATH")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN")
	_ = v.BindEnv("static.dir", "STATIC_DIR")
	_ = v.BindEnv("keepalive.baseURL", "KEEPALIVE_BASE_URL")
	return v
}

func load(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isMissingFile(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
			slog.Warn("config file not readable, using defaults and environment", "error", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults(v)

	return &cfg, nil
}

func (c *Config) applyDefaults(v *viper.Viper) {
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.CookieName == "" {
		c.CookieName = "jwt-netflix"
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.TMDB.Timeout == 0 {
		c.TMDB.Timeout = 10 * time.Second
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "data/streamline.db"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	if c.Static.Dir == "" {
		c.Static.Dir = "frontend/dist"
	}
	if c.Storage.PresignTTL == 0 {
		c.Storage.PresignTTL = time.Hour
	}
	if c.Keepalive.Interval == 0 {
		c.Keepalive.Interval = 14 * time.Minute
	}
	// Only default keepalive on when the file didn't say either way
	if !v.IsSet("keepalive.enabled") {
		c.Keepalive.Enabled = c.Env == EnvProduction
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwtSecret is required"))
	}
	if c.TMDB.APIKey == "" {
		errs = append(errs, errors.New("tmdb.apiKey is required"))
	}
	switch c.Database.Type {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database type: %s", c.Database.Type))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if c.Keepalive.Interval <= 0 {
		errs = append(errs, fmt.Errorf("keepalive.interval must be positive, got %s", c.Keepalive.Interval))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// StorageEnabled reports whether S3-backed assets are configured.
func (c *Config) StorageEnabled() bool {
	return c.Storage.Bucket != ""
}
