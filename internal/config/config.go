package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 4 * time.Hour
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	Tokens           TokenConfig

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	AdminUsername string
	AdminPassword string
}

// TokenConfig may be overridden from the yaml file named by TOKEN_CONFIG_FILE.
type TokenConfig struct {
	Issuer     string        `yaml:"issuer"`
	AccessTTL  time.Duration `yaml:"access_token_expiry"`
	RefreshTTL time.Duration `yaml:"refresh_token_expiry"`
}

func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := Config{
		ServiceName: EnvDefault("SERVICE_NAME", "webshop"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		Tokens: TokenConfig{
			Issuer:     EnvDefault("JWT_ISSUER", "webshop"),
			AccessTTL:  EnvDurationDefault("ACCESS_TOKEN_TTL", DefaultAccessTTL),
			RefreshTTL: EnvDurationDefault("REFRESH_TOKEN_TTL", DefaultRefreshTTL),
		},

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		AdminUsername: EnvDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: EnvDefault("ADMIN_PASSWORD", "secret"),
	}

	if path := os.Getenv("TOKEN_CONFIG_FILE"); path != "" {
		tc, err := LoadTokenConfig(path, cfg.Tokens)
		if err != nil {
			return Config{}, err
		}
		cfg.Tokens = tc
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadTokenConfig reads the yaml file at path; keys missing from the file keep the values of base.
func LoadTokenConfig(path string, base TokenConfig) (TokenConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TokenConfig{}, fmt.Errorf("read token config: %w", err)
	}
	out := base
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return TokenConfig{}, fmt.Errorf("parse token config: %w", err)
	}
	return out, nil
}

func (c Config) Validate() error {
	if len(c.JWTAccessSecret) == 0 {
		return errors.New("missing required env JWT_SECRET")
	}
	if len(c.JWTRefreshSecret) == 0 {
		return errors.New("missing required env JWT_REFRESH_SECRET")
	}
	if string(c.JWTAccessSecret) == string(c.JWTRefreshSecret) {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET must be different")
	}
	if c.Tokens.AccessTTL <= 0 || c.Tokens.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.Tokens.RefreshTTL <= c.Tokens.AccessTTL {
		return errors.New("refresh token lifetime must be longer than access token lifetime")
	}
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("missing required env DATABASE_URL")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
