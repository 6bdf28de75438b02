package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	pkgcfg "github.com/Skotchmaster/online_pharmacy/pkg/config"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	SQLitePath    string

	SessionStore  string
	RedisURL      string
	SessionSecret []byte
	SessionTTL    time.Duration
	SessionCookie string
	CookieSecure  bool

	BcryptCost      int
	LoginRatePerMin int
	LoginBurst      int
	// TrustProxy takes the client IP from X-Forwarded-For set by a
	// private-network proxy instead of the socket peer.
	TrustProxy bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

// Load reads the configuration and validates it for serving.
func Load() (Config, error) {
	cfg := Read()
	return cfg, cfg.Validate()
}

// Read loads .env (when present) and the process environment without validating.
func Read() Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("notice: .env not loaded: %v", err)
	}

	cfg := Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "pharmacy-shop"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 3000),
		LogLevel:    pkgcfg.EnvDefault("LOG_LEVEL", "info"),

		StoreDriver:   pkgcfg.EnvDefault("STORE_DRIVER", StoreMongo),
		MongoURI:      pkgcfg.EnvDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: pkgcfg.EnvDefault("MONGO_DATABASE", "pharmacy"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    pkgcfg.EnvDefault("SQLITE_PATH", "shop.db"),

		SessionStore:  pkgcfg.EnvDefault("SESSION_STORE", SessionMemory),
		RedisURL:      os.Getenv("REDIS_URL"),
		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    pkgcfg.EnvDurationDefault("SESSION_TTL", 24*time.Hour),
		SessionCookie: pkgcfg.EnvDefault("SESSION_COOKIE", "session_id"),
		CookieSecure:  pkgcfg.EnvBoolDefault("COOKIE_SECURE", false),

		BcryptCost:      pkgcfg.EnvIntDefault("BCRYPT_COST", bcrypt.DefaultCost),
		LoginRatePerMin: pkgcfg.EnvIntDefault("LOGIN_RATE_PER_MIN", 30),
		LoginBurst:      pkgcfg.EnvIntDefault("LOGIN_BURST", 10),
		TrustProxy:      pkgcfg.EnvBoolDefault("TRUST_PROXY", false),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgcfg.EnvDefault("ES_INDEX", "medicines"),
	}

	return cfg
}

func (c Config) Validate() error {
	errs := []error{c.ValidateStore()}

	switch c.SessionStore {
	case SessionMemory:
	case SessionRedis:
		errs = append(errs, pkgcfg.RequireNonEmpty(c.RedisURL, "REDIS_URL"))
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be memory or redis; got %q", c.SessionStore))
	}

	errs = append(errs, pkgcfg.RequireNonEmptyBytes(c.SessionSecret, "SESSION_SECRET"))

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be within %d..%d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	return errors.Join(errs...)
}

// ValidateStore checks only the settings needed to reach the store.
func (c Config) ValidateStore() error {
	var errs []error

	switch c.StoreDriver {
	case StoreMongo:
		errs = append(errs, pkgcfg.RequireNonEmpty(c.MongoURI, "MONGO_URI"))
	case StorePostgres:
		errs = append(errs, pkgcfg.RequireNonEmpty(c.DatabaseURL, "DATABASE_URL"))
	case StoreSQLite:
		errs = append(errs, pkgcfg.RequireNonEmpty(c.SQLitePath, "SQLITE_PATH"))
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be one of mongo, postgres, sqlite; got %q", c.StoreDriver))
	}

	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
