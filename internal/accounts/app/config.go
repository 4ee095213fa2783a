package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	Issuer         string        `env:"ACCOUNTS_ISSUER" envDefault:"bartab-accounts"` // iss claim for tokens
	TokenTTL       time.Duration `env:"ACCOUNTS_TOKEN_TTL" envDefault:"24h"`          // token lifetime
	SigningKeyFile string        `env:"ACCOUNTS_SIGNING_KEY_FILE"`                    // PKCS8 Ed25519 PEM; ephemeral key when empty
	KeyID          string        `env:"ACCOUNTS_KEY_ID"`                              // kid header; random when empty

	StoreDriver   string `env:"ACCOUNTS_STORE_DRIVER" envDefault:"sqlite"` // sqlite or redis
	DatabaseFile  string `env:"ACCOUNTS_DATABASE_FILE" envDefault:"accounts.db"`
	RedisAddr     string `env:"ACCOUNTS_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"ACCOUNTS_REDIS_PASSWORD"`
	RedisDB       int    `env:"ACCOUNTS_REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"ACCOUNTS_REDIS_PREFIX" envDefault:"accounts"`

	PasswordScheme string `env:"ACCOUNTS_PASSWORD_SCHEME" envDefault:"argon2id"` // scheme for new digests
	BcryptCost     int    `env:"ACCOUNTS_BCRYPT_COST" envDefault:"10"`
	PepperFile     string `env:"ACCOUNTS_PEPPER_FILE" envDefault:"pepper"` // generated on first start; empty disables the pepper

	Env                 string        `env:"ENV" envDefault:"dev"`         // dev, staging, prod
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`  // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"` // json, text
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads the environment. With ENV=dev a .env file in the
// working directory is loaded first; variables already set win.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	if c.Issuer == "" {
		errs = append(errs, errors.New("ACCOUNTS_ISSUER must not be empty"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("ACCOUNTS_TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	switch c.StoreDriver {
	case DriverSQLite, DriverRedis:
	default:
		errs = append(errs, fmt.Errorf("ACCOUNTS_STORE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverRedis, c.StoreDriver))
	}
	switch c.PasswordScheme {
	case cryptox.SchemeArgon2id, cryptox.SchemeBcrypt:
	default:
		errs = append(errs, fmt.Errorf("ACCOUNTS_PASSWORD_SCHEME must be %q or %q, got %q",
			cryptox.SchemeArgon2id, cryptox.SchemeBcrypt, c.PasswordScheme))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("ACCOUNTS_BCRYPT_COST must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}

	return errors.Join(errs...)
}
