// Package config carga la configuración del servidor desde YAML con
// overrides por variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver"`
		Postgres struct {
			DSN             string `yaml:"dsn"`
			MaxConns        int    `yaml:"max_conns"`
			MinConns        int    `yaml:"min_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	OAuth struct {
		Issuer     string `yaml:"issuer"`
		Secret     string `yaml:"secret"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
		CodeTTL    string `yaml:"code_ttl"`
		// Scopes adicionales al catálogo por defecto. "*" habilita wildcard.
		Scopes []string `yaml:"scopes"`
	} `yaml:"oauth"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Load lee el YAML de path, aplica defaults y overrides de entorno.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, err
			}
		case os.IsNotExist(err):
			// Sin archivo: config por env vars solamente.
		default:
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "10m"
	}
	if c.OAuth.Issuer == "" {
		c.OAuth.Issuer = "grantd"
	}
	if c.OAuth.AccessTTL == "" {
		c.OAuth.AccessTTL = "1h"
	}
	if c.OAuth.RefreshTTL == "" {
		c.OAuth.RefreshTTL = "720h" // 30d
	}
	if c.OAuth.CodeTTL == "" {
		c.OAuth.CodeTTL = "10m"
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}

	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("POSTGRES_DSN"); ok {
		c.Storage.Postgres.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_CONNS"); ok {
		c.Storage.Postgres.MaxConns = v
	}

	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	if v, ok := getEnvStr("OAUTH_ISSUER"); ok {
		c.OAuth.Issuer = v
	}
	if v, ok := getEnvStr("OAUTH_SECRET"); ok {
		c.OAuth.Secret = v
	}
	if v, ok := getEnvStr("OAUTH_ACCESS_TTL"); ok {
		c.OAuth.AccessTTL = v
	}
	if v, ok := getEnvStr("OAUTH_REFRESH_TTL"); ok {
		c.OAuth.RefreshTTL = v
	}
	if v, ok := getEnvStr("OAUTH_CODE_TTL"); ok {
		c.OAuth.CodeTTL = v
	}
	if v, ok := getEnvCSV("OAUTH_SCOPES"); ok {
		c.OAuth.Scopes = v
	}

	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
}

// Validate verifica lo mínimo para arrancar.
func (c *Config) Validate() error {
	if len(c.OAuth.Secret) < 32 {
		return fmt.Errorf("oauth.secret must be at least 32 bytes (got %d)", len(c.OAuth.Secret))
	}
	if c.Storage.Driver == "postgres" && c.Storage.Postgres.DSN == "" {
		return fmt.Errorf("storage.postgres.dsn is required when driver is postgres")
	}
	if c.Cache.Kind == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when kind is redis")
	}
	// Un TTL <= 0 produce tokens ya vencidos y códigos que el cache nunca
	// guarda.
	if d, err := c.AccessTTL(); err != nil {
		return fmt.Errorf("oauth.access_ttl: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("oauth.access_ttl must be positive (got %s)", d)
	}
	if d, err := c.RefreshTTL(); err != nil {
		return fmt.Errorf("oauth.refresh_ttl: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("oauth.refresh_ttl must be positive (got %s)", d)
	}
	if d, err := c.CodeTTL(); err != nil {
		return fmt.Errorf("oauth.code_ttl: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("oauth.code_ttl must be positive (got %s)", d)
	}
	return nil
}

// ---- TTL accessors ----

func (c *Config) AccessTTL() (time.Duration, error) {
	return time.ParseDuration(c.OAuth.AccessTTL)
}

func (c *Config) RefreshTTL() (time.Duration, error) {
	return time.ParseDuration(c.OAuth.RefreshTTL)
}

func (c *Config) CodeTTL() (time.Duration, error) {
	return time.ParseDuration(c.OAuth.CodeTTL)
}

func (c *Config) MemoryCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.Memory.DefaultTTL)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

func (c *Config) PostgresConnMaxLifetime() time.Duration {
	d, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime)
	if err != nil {
		return 0
	}
	return d
}

// IsProd indica si corremos en prod.
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.App.Env, "prod") || strings.EqualFold(c.App.Env, "production")
}
