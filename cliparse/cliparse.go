package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort       = 3000
	DefaultTokenTTL   = 24 * time.Hour
	DefaultBcryptCost = 12
	minTokenSecretLen = 32
)

// AdminSeed is the administrator created at startup when configured
type AdminSeed struct {
	CredentialKey string
	Password      string
	Name          string
	Address       string
}

// Enabled reports whether an admin should be seeded
func (a AdminSeed) Enabled() bool {
	return a.CredentialKey != "" && a.Password != ""
}

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	TokenSecret  string
	TokenTTL     time.Duration
	BcryptCost   int
	IPHashSalt   string
	TrustProxy   bool
	Admin        AdminSeed
}

// ParseFlags reads flags, then the env file, then the environment
func ParseFlags(args []string) (Config, error) {
	var (
		cfg     Config
		envFile string
	)

	fs := flag.NewFlagSet("ballot-box", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&envFile, "env-file", ".env", "Dotenv file to load (missing file is ignored)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "Token signing secret, at least 32 bytes (prefer env)")
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "Salt for hashing voter IPs (prefer env)")

	// Tuning
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 0, "Token lifetime")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", 0, "bcrypt work factor")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "Take client IPs from X-Forwarded-For/X-Real-IP")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("TOKEN_SECRET required")
	}
	if len(cfg.TokenSecret) < minTokenSecretLen {
		return Config{}, fmt.Errorf("TOKEN_SECRET must be at least %d bytes", minTokenSecretLen)
	}

	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = cfg.TokenSecret
	}

	if !cfg.TrustProxy {
		trust, err := envBool("TRUST_PROXY", false)
		if err != nil {
			return Config{}, err
		}
		cfg.TrustProxy = trust
	}

	if cfg.TokenTTL == 0 {
		ttl, err := envDuration("TOKEN_TTL", DefaultTokenTTL)
		if err != nil {
			return Config{}, err
		}
		cfg.TokenTTL = ttl
	}
	if cfg.TokenTTL < 0 {
		return Config{}, errors.New("token TTL must be positive")
	}

	if cfg.BcryptCost == 0 {
		cost, err := envInt("BCRYPT_COST", DefaultBcryptCost)
		if err != nil {
			return Config{}, err
		}
		cfg.BcryptCost = cost
	}

	cfg.Admin = AdminSeed{
		CredentialKey: os.Getenv("ADMIN_CREDENTIAL_KEY"),
		Password:      os.Getenv("ADMIN_PASSWORD"),
		Name:          os.Getenv("ADMIN_NAME"),
		Address:       os.Getenv("ADMIN_ADDRESS"),
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "Administrator"
	}
	if cfg.Admin.Address == "" {
		cfg.Admin.Address = "n/a"
	}
	if (cfg.Admin.CredentialKey == "") != (cfg.Admin.Password == "") {
		return Config{}, errors.New("ADMIN_CREDENTIAL_KEY and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// loadEnvFile fills unset environment variables from a dotenv file.
// Variables already in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s env variable", key)
	}
	return b, nil
}
