package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is applied by envconfig when resolving variables.
const EnvPrefix = "foamwash"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Catalog       CatalogConfig
	Booking       BookingConfig
	Notifications NotificationsConfig
	Jobs          JobsConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOAMWASH_APP_ENV" required:"true"`
	Port         string `envconfig:"FOAMWASH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOAMWASH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOAMWASH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOAMWASH_DB_DSN"`
	Driver string `envconfig:"FOAMWASH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOAMWASH_DB_HOST"`
	LegacyPort     int    `envconfig:"FOAMWASH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOAMWASH_DB_USER"`
	LegacyPassword string `envconfig:"FOAMWASH_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOAMWASH_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOAMWASH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOAMWASH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOAMWASH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOAMWASH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOAMWASH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOAMWASH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FOAMWASH_REDIS_ADDR"`
	Password     string        `envconfig:"FOAMWASH_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOAMWASH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOAMWASH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOAMWASH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOAMWASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOAMWASH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOAMWASH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FOAMWASH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FOAMWASH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FOAMWASH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FOAMWASH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOAMWASH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOAMWASH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOAMWASH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOAMWASH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOAMWASH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FOAMWASH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FOAMWASH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FOAMWASH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FOAMWASH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FOAMWASH_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FOAMWASH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CatalogConfig struct {
	// Path points at a YAML catalog file. Empty means the embedded default.
	Path string `envconfig:"FOAMWASH_CATALOG_PATH"`
}

type BookingConfig struct {
	// MinLeadDays is how many days after today the earliest bookable date is.
	MinLeadDays int `envconfig:"FOAMWASH_BOOKING_MIN_LEAD_DAYS" default:"1"`
}

type NotificationsConfig struct {
	TTL time.Duration `envconfig:"FOAMWASH_NOTIFICATIONS_TTL" default:"720h"`
}

type JobsConfig struct {
	Interval time.Duration `envconfig:"FOAMWASH_JOBS_INTERVAL" default:"30m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FOAMWASH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FOAMWASH_AUTO_MIGRATE" default:"false"`
}

const (
	EnvDBDSN  = "FOAMWASH_DB_DSN"
	EnvDBHost = "FOAMWASH_DB_HOST"
	EnvDBUser = "FOAMWASH_DB_USER"
	EnvDBName = "FOAMWASH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

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
