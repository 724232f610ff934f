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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Cron         CronConfig
	Sendgrid     SendgridConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STUDENTMGMT_APP_ENV" required:"true"`
	Port         string `envconfig:"STUDENTMGMT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STUDENTMGMT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STUDENTMGMT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"STUDENTMGMT_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"STUDENTMGMT_DB_DSN"`
	Driver string `envconfig:"STUDENTMGMT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STUDENTMGMT_DB_HOST"`
	LegacyPort     int    `envconfig:"STUDENTMGMT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STUDENTMGMT_DB_USER"`
	LegacyPassword string `envconfig:"STUDENTMGMT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STUDENTMGMT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STUDENTMGMT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STUDENTMGMT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STUDENTMGMT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STUDENTMGMT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STUDENTMGMT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STUDENTMGMT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STUDENTMGMT_REDIS_ADDR"`
	Password     string        `envconfig:"STUDENTMGMT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STUDENTMGMT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STUDENTMGMT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STUDENTMGMT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STUDENTMGMT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STUDENTMGMT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STUDENTMGMT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"STUDENTMGMT_CRON_INTERVAL" default:"24h"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"STUDENTMGMT_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"STUDENTMGMT_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"STUDENTMGMT_SENDGRID_FROM_NAME" default:"School Office"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STUDENTMGMT_AUTO_MIGRATE" default:"false"`
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
