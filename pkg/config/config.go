package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/chairtime/chairtime-backend/pkg/enums"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Payout       PayoutConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Payout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CHAIRTIME_APP_ENV" required:"true"`
	Port         string `envconfig:"CHAIRTIME_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CHAIRTIME_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHAIRTIME_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CHAIRTIME_DB_DSN"`
	Driver string `envconfig:"CHAIRTIME_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CHAIRTIME_DB_HOST"`
	LegacyPort     int    `envconfig:"CHAIRTIME_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CHAIRTIME_DB_USER"`
	LegacyPassword string `envconfig:"CHAIRTIME_DB_PASSWORD"`
	LegacyName     string `envconfig:"CHAIRTIME_DB_NAME"`
	LegacySSLMode  string `envconfig:"CHAIRTIME_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHAIRTIME_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHAIRTIME_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHAIRTIME_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHAIRTIME_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CHAIRTIME_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CHAIRTIME_REDIS_ADDR"`
	Password     string        `envconfig:"CHAIRTIME_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHAIRTIME_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHAIRTIME_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHAIRTIME_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHAIRTIME_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHAIRTIME_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHAIRTIME_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PayoutConfig carries the deployment-level payout defaults. Franchise
// overrides are resolved per transaction on top of these.
type PayoutConfig struct {
	// CutoffHour is the business-day boundary: transactions before this
	// hour belong to the previous business day (late-night closings).
	CutoffHour int `envconfig:"CHAIRTIME_PAYOUT_CUTOFF_HOUR" default:"4"`
	// Rounding is the named policy applied once per line: half_up|half_even.
	Rounding string `envconfig:"CHAIRTIME_PAYOUT_ROUNDING" default:"half_up"`
	// Base commission rates in basis points when no plan applies.
	ServiceRateBps int `envconfig:"CHAIRTIME_PAYOUT_SERVICE_RATE_BPS" default:"0"`
	ProductRateBps int `envconfig:"CHAIRTIME_PAYOUT_PRODUCT_RATE_BPS" default:"0"`
	// TipsAffectCommission includes tips in the commission base when true.
	TipsAffectCommission bool `envconfig:"CHAIRTIME_PAYOUT_TIPS_AFFECT_COMMISSION" default:"false"`
}

// RoundingMode parses the configured rounding policy.
func (p PayoutConfig) RoundingMode() enums.RoundingMode {
	mode, err := enums.ParseRoundingMode(p.Rounding)
	if err != nil {
		return enums.RoundingModeHalfUp
	}
	return mode
}

func (p PayoutConfig) validate() error {
	if p.CutoffHour < 0 || p.CutoffHour > 23 {
		return fmt.Errorf("%s must be between 0 and 23, got %d", EnvPayoutCutoffHour, p.CutoffHour)
	}
	if _, err := enums.ParseRoundingMode(p.Rounding); err != nil {
		return fmt.Errorf("%s: %w", EnvPayoutRounding, err)
	}
	if p.ServiceRateBps < 0 || p.ServiceRateBps > 10000 {
		return fmt.Errorf("service rate must be 0..10000 bps, got %d", p.ServiceRateBps)
	}
	if p.ProductRateBps < 0 || p.ProductRateBps > 10000 {
		return fmt.Errorf("product rate must be 0..10000 bps, got %d", p.ProductRateBps)
	}
	return nil
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"CHAIRTIME_IDEMPOTENCY_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CHAIRTIME_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CHAIRTIME_AUTO_MIGRATE" default:"false"`
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
