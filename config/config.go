package config

import (
	"github.com/caarlos0/env/v11"
)

// Config aggregates all runtime configuration for the backend. It is loaded
// once in main and handed to the components that need it, so nothing outside
// this package reads process environment directly.
type Config struct {
	// Env is the deployment environment. Auto-migration and verbose SQL
	// logging only happen in "development".
	Env string `env:"ENV" envDefault:"development"`

	Port string `env:"PORT" envDefault:"8080"`

	// CORSAllowedOrigins is a comma-separated list of origins allowed to
	// call the API with credentials.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// MaxBodyBytes caps request bodies globally. Large enough for the 5 MiB
	// image upload limit enforced per-route.
	MaxBodyBytes      int64 `env:"MAX_BODY_BYTES" envDefault:"10485760"`
	RequestTimeoutSec int   `env:"REQ_TIMEOUT_SEC" envDefault:"10"`

	// TrustedProxies lists CIDRs or IPs whose X-Forwarded-For headers are
	// honored when resolving the client IP.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	DB      Database `envPrefix:"DB_"`
	JWT     JWT      `envPrefix:"JWT_"`
	Redis   Redis    `envPrefix:"REDIS_"`
	Storage Storage  `envPrefix:"R2_"`
	Wallet  Wallet   `envPrefix:""`
}

// Database configures the MySQL connection and pool.
type Database struct {
	Host   string `env:"HOST" envDefault:"127.0.0.1"`
	Port   string `env:"PORT" envDefault:"3306"`
	User   string `env:"USER" envDefault:"root"`
	Pass   string `env:"PASS"`
	Name   string `env:"NAME" envDefault:"lightforgaza"`
	Params string `env:"PARAMS" envDefault:"charset=utf8mb4&parseTime=True&loc=Local"`

	// DSN overrides the assembled host/user/name DSN when set.
	DSN string `env:"DSN"`

	TLS       string `env:"TLS" envDefault:"true"`
	TLSVerify bool   `env:"TLS_VERIFY"`
	TLSCAPath string `env:"TLS_CA_PATH"`

	MaxOpenConns    int `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int `env:"MAX_IDLE_CONNS" envDefault:"25"`
	ConnMaxLifetime int `env:"CONN_MAX_LIFETIME" envDefault:"3600"`
	ConnectRetries  int `env:"CONNECT_RETRIES" envDefault:"5"`
}

// JWT configures token signing. Secret is required; the process refuses to
// start without it.
type JWT struct {
	Secret   string `env:"SECRET,required"`
	Audience string `env:"AUD"`
	Issuer   string `env:"ISS"`
}

// Redis configures the optional revocation/lockout store. Leave Addr empty to
// fall back to in-memory tracking.
type Redis struct {
	Addr string `env:"ADDR"`
	Pass string `env:"PASS"`
	DB   int    `env:"DB"`
}

// Storage configures the S3-compatible object store used for campaign images
// and avatars.
type Storage struct {
	AccountID       string `env:"ACCOUNT_ID"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	Bucket          string `env:"BUCKET_NAME"`
}

// Wallet holds the per-network platform receiving addresses and the Solana
// RPC endpoint used to confirm Phantom transfers.
type Wallet struct {
	SolanaAddress string `env:"PLATFORM_WALLET_ADDRESS"`
	EthAddress    string `env:"PLATFORM_ETH_ADDRESS"`
	SolanaRPCURL  string `env:"SOLANA_RPC_URL"`
}

// Load parses configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Development reports whether the app runs with development conveniences
// (auto-migration, verbose SQL logging).
func (c *Config) Development() bool {
	return c.Env == "development"
}
