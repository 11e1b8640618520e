package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Policy       PolicyConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LEAFLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"LEAFLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LEAFLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LEAFLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"LEAFLINE_DB_DSN"`

	LegacyHost     string `envconfig:"LEAFLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"LEAFLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LEAFLINE_DB_USER"`
	LegacyPassword string `envconfig:"LEAFLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LEAFLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LEAFLINE_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"LEAFLINE_SQLITE_PATH" default:"leafline.db"`

	MaxOpenConns    int           `envconfig:"LEAFLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LEAFLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LEAFLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEAFLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LEAFLINE_REDIS_URL"`
	Address      string        `envconfig:"LEAFLINE_REDIS_ADDR"`
	Password     string        `envconfig:"LEAFLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LEAFLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LEAFLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LEAFLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LEAFLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LEAFLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LEAFLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured. The per-session
// cart lock degrades to a no-op when it was not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// SessionConfig signs the age-verification token. The sid cart-identity
// cookie is a plain opaque value and does not use this secret.
type SessionConfig struct {
	Secret string        `envconfig:"LEAFLINE_SESSION_SECRET" required:"true"`
	Issuer string        `envconfig:"LEAFLINE_SESSION_ISSUER" default:"leafline"`
	TTL    time.Duration `envconfig:"LEAFLINE_SESSION_TTL" default:"24h"`
}

// PolicyConfig holds the static compliance policy. It is read once at startup
// and injected; nothing mutates it afterwards.
type PolicyConfig struct {
	MinimumAge        int      `envconfig:"LEAFLINE_POLICY_MINIMUM_AGE" default:"21"`
	AllowedCategories []string `envconfig:"LEAFLINE_POLICY_ALLOWED_CATEGORIES" default:"bud,vapes,edibles"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LEAFLINE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LEAFLINE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
