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
	Attribution  AttributionConfig
	Analytics    AnalyticsConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
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
	Env          string `envconfig:"FUNNELSIGHT_APP_ENV" required:"true"`
	Port         string `envconfig:"FUNNELSIGHT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FUNNELSIGHT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUNNELSIGHT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FUNNELSIGHT_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FUNNELSIGHT_DB_DSN"`
	Driver string `envconfig:"FUNNELSIGHT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FUNNELSIGHT_DB_HOST"`
	LegacyPort     int    `envconfig:"FUNNELSIGHT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FUNNELSIGHT_DB_USER"`
	LegacyPassword string `envconfig:"FUNNELSIGHT_DB_PASSWORD"`
	LegacyName     string `envconfig:"FUNNELSIGHT_DB_NAME"`
	LegacySSLMode  string `envconfig:"FUNNELSIGHT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FUNNELSIGHT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FUNNELSIGHT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FUNNELSIGHT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FUNNELSIGHT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FUNNELSIGHT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FUNNELSIGHT_REDIS_ADDR"`
	Password     string        `envconfig:"FUNNELSIGHT_REDIS_PASSWORD"`
	DB           int           `envconfig:"FUNNELSIGHT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FUNNELSIGHT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUNNELSIGHT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUNNELSIGHT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUNNELSIGHT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUNNELSIGHT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AttributionConfig struct {
	SnapshotTTL time.Duration `envconfig:"FUNNELSIGHT_ATTRIBUTION_SNAPSHOT_TTL" default:"720h"`
	CookieName  string        `envconfig:"FUNNELSIGHT_ATTRIBUTION_COOKIE_NAME" default:"fs_tid"`
}

type AnalyticsConfig struct {
	ReportCacheTTL         time.Duration `envconfig:"FUNNELSIGHT_ANALYTICS_REPORT_CACHE_TTL" default:"60s"`
	DefaultObservationDays int           `envconfig:"FUNNELSIGHT_ANALYTICS_OBSERVATION_DAYS" default:"90"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FUNNELSIGHT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FUNNELSIGHT_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FUNNELSIGHT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"FUNNELSIGHT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FUNNELSIGHT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	CRMTopic        string `envconfig:"FUNNELSIGHT_PUBSUB_CRM_TOPIC" default:"fs-crm-events"`
	CRMSubscription string `envconfig:"FUNNELSIGHT_PUBSUB_CRM_SUBSCRIPTION"`
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
