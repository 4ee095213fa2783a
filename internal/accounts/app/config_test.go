package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "bartab-accounts", cfg.Issuer)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, DriverSQLite, cfg.StoreDriver)
	require.Equal(t, "accounts.db", cfg.DatabaseFile)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, "accounts", cfg.RedisPrefix)
	require.Equal(t, "argon2id", cfg.PasswordScheme)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, "pepper", cfg.PepperFile)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Empty(t, cfg.SigningKeyFile)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("ACCOUNTS_ISSUER", "accounts.example.com")
	t.Setenv("ACCOUNTS_TOKEN_TTL", "90m")
	t.Setenv("ACCOUNTS_STORE_DRIVER", "redis")
	t.Setenv("ACCOUNTS_REDIS_DB", "3")
	t.Setenv("ACCOUNTS_PASSWORD_SCHEME", "bcrypt")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "accounts.example.com", cfg.Issuer)
	require.Equal(t, 90*time.Minute, cfg.TokenTTL)
	require.Equal(t, DriverRedis, cfg.StoreDriver)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, "bcrypt", cfg.PasswordScheme)
	require.Equal(t, 9090, cfg.Port)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"driver", "ACCOUNTS_STORE_DRIVER", "mongo", "ACCOUNTS_STORE_DRIVER"},
		{"scheme", "ACCOUNTS_PASSWORD_SCHEME", "md5", "ACCOUNTS_PASSWORD_SCHEME"},
		{"ttl", "ACCOUNTS_TOKEN_TTL", "-1h", "ACCOUNTS_TOKEN_TTL"},
		{"bcrypt cost", "ACCOUNTS_BCRYPT_COST", "99", "ACCOUNTS_BCRYPT_COST"},
		{"port", "PORT", "70000", "PORT"},
		{"unparseable duration", "ACCOUNTS_TOKEN_TTL", "soon", "parse env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", "test")
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
