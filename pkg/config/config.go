package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
	Outbox        OutboxConfig
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
	Env          string `envconfig:"LAUNDRYPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"LAUNDRYPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LAUNDRYPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LAUNDRYPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LAUNDRYPOS_DB_DSN"`
	Driver string `envconfig:"LAUNDRYPOS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LAUNDRYPOS_DB_HOST"`
	Port     int    `envconfig:"LAUNDRYPOS_DB_PORT" default:"5432"`
	User     string `envconfig:"LAUNDRYPOS_DB_USER"`
	Password string `envconfig:"LAUNDRYPOS_DB_PASSWORD"`
	Name     string `envconfig:"LAUNDRYPOS_DB_NAME"`
	SSLMode  string `envconfig:"LAUNDRYPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LAUNDRYPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LAUNDRYPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LAUNDRYPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LAUNDRYPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LAUNDRYPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LAUNDRYPOS_REDIS_ADDR"`
	Password     string        `envconfig:"LAUNDRYPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"LAUNDRYPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LAUNDRYPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAUNDRYPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAUNDRYPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAUNDRYPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAUNDRYPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LAUNDRYPOS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LAUNDRYPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LAUNDRYPOS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LAUNDRYPOS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LAUNDRYPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LAUNDRYPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LAUNDRYPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LAUNDRYPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LAUNDRYPOS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"LAUNDRYPOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit  int           `envconfig:"LAUNDRYPOS_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"LAUNDRYPOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LAUNDRYPOS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"LAUNDRYPOS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"LAUNDRYPOS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"LAUNDRYPOS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"LAUNDRYPOS_PUBSUB_ORDERS_TOPIC" default:"lpos-order-events"`
	OrdersSubscription string `envconfig:"LAUNDRYPOS_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset           string `envconfig:"LAUNDRYPOS_BIGQUERY_DATASET" default:"laundrypos"`
	OrderFactsTable   string `envconfig:"LAUNDRYPOS_BIGQUERY_ORDER_FACTS_TABLE" default:"order_facts"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"LAUNDRYPOS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"LAUNDRYPOS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"LAUNDRYPOS_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
