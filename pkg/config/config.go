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
	OTP           OTPConfig
	AWS           AWSConfig
	AuthRateLimit AuthRateLimitConfig
	APIRateLimit  APIRateLimitConfig
	Commerce      CommerceConfig
	Outbox        OutboxConfig
	PubSub        PubSubConfig
	Cron          CronConfig
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
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.OTP.Channel {
	case OTPChannelLog, OTPChannelSNS:
	default:
		return fmt.Errorf("%s must be %q or %q", EnvOTPChannel, OTPChannelLog, OTPChannelSNS)
	}
	if c.OTP.Channel == OTPChannelLog && c.App.IsProd() {
		return fmt.Errorf("%s=%s is not allowed in production", EnvOTPChannel, OTPChannelLog)
	}
	if c.PubSub.Enabled && (c.PubSub.ProjectID == "" || c.PubSub.DomainTopic == "") {
		return fmt.Errorf("%s and %s are required when pubsub forwarding is enabled", EnvPubSubProjectID, EnvPubSubDomainTopic)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"MARKETPLACE_APP_ENV" required:"true"`
	Port         string `envconfig:"MARKETPLACE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MARKETPLACE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"MARKETPLACE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"MARKETPLACE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"MARKETPLACE_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN string `envconfig:"MARKETPLACE_DB_DSN"`

	Host     string `envconfig:"MARKETPLACE_DB_HOST"`
	Port     int    `envconfig:"MARKETPLACE_DB_PORT" default:"5432"`
	User     string `envconfig:"MARKETPLACE_DB_USER"`
	Password string `envconfig:"MARKETPLACE_DB_PASSWORD"`
	Name     string `envconfig:"MARKETPLACE_DB_NAME"`
	SSLMode  string `envconfig:"MARKETPLACE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MARKETPLACE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MARKETPLACE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MARKETPLACE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MARKETPLACE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MARKETPLACE_REDIS_URL"`
	Address      string        `envconfig:"MARKETPLACE_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"MARKETPLACE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MARKETPLACE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MARKETPLACE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARKETPLACE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARKETPLACE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARKETPLACE_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"MARKETPLACE_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MARKETPLACE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MARKETPLACE_JWT_ISSUER" default:"marketplace"`
	ExpirationMinutes int    `envconfig:"MARKETPLACE_JWT_EXPIRATION_MINUTES" default:"43200"`
}

// TTL returns the access token lifetime, which is also the session TTL.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MARKETPLACE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MARKETPLACE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MARKETPLACE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MARKETPLACE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MARKETPLACE_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	TTL      time.Duration `envconfig:"MARKETPLACE_OTP_TTL" default:"10m"`
	Channel  string        `envconfig:"MARKETPLACE_OTP_CHANNEL" default:"log"`
	SenderID string        `envconfig:"MARKETPLACE_OTP_SENDER_ID" default:"MRKTPL"`
}

type AWSConfig struct {
	Region string `envconfig:"MARKETPLACE_AWS_REGION" default:"ap-south-1"`
}

type AuthRateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"MARKETPLACE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit   int           `envconfig:"MARKETPLACE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"MARKETPLACE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	OTPWindow         time.Duration `envconfig:"MARKETPLACE_AUTH_RATE_LIMIT_OTP_WINDOW" default:"10m"`
	OTPMobileLimit    int           `envconfig:"MARKETPLACE_AUTH_RATE_LIMIT_OTP_MOBILE_LIMIT" default:"5"`
	OTPIPLimit        int           `envconfig:"MARKETPLACE_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"30"`
	VerifyWindow      time.Duration `envconfig:"MARKETPLACE_AUTH_RATE_LIMIT_VERIFY_WINDOW" default:"10m"`
	VerifyMobileLimit int           `envconfig:"MARKETPLACE_AUTH_RATE_LIMIT_VERIFY_MOBILE_LIMIT" default:"10"`
}

type APIRateLimitConfig struct {
	RequestsPerSecond float64       `envconfig:"MARKETPLACE_API_RATE_LIMIT_RPS" default:"20"`
	Burst             int           `envconfig:"MARKETPLACE_API_RATE_LIMIT_BURST" default:"40"`
	LocationInterval  time.Duration `envconfig:"MARKETPLACE_LOCATION_PING_INTERVAL" default:"5s"`
}

// CommerceConfig holds the pricing constants used by checkout and earnings.
type CommerceConfig struct {
	DeliveryCharge   string        `envconfig:"MARKETPLACE_DELIVERY_CHARGE" default:"40"`
	BaseFare         string        `envconfig:"MARKETPLACE_DELIVERY_BASE_FARE" default:"20"`
	PerKmRate        string        `envconfig:"MARKETPLACE_DELIVERY_PER_KM_RATE" default:"5"`
	PerHourRate      string        `envconfig:"MARKETPLACE_DELIVERY_PER_HOUR_RATE" default:"10"`
	EstimatedTransit time.Duration `envconfig:"MARKETPLACE_ESTIMATED_DELIVERY" default:"2h"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MARKETPLACE_OUTBOX_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MARKETPLACE_OUTBOX_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MARKETPLACE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type PubSubConfig struct {
	Enabled     bool   `envconfig:"MARKETPLACE_PUBSUB_ENABLED" default:"false"`
	ProjectID   string `envconfig:"MARKETPLACE_GCP_PROJECT_ID"`
	DomainTopic string `envconfig:"MARKETPLACE_PUBSUB_DOMAIN_TOPIC" default:"marketplace-domain-events"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MARKETPLACE_CRON_INTERVAL" default:"15m"`
	LockTTL  time.Duration `envconfig:"MARKETPLACE_CRON_LOCK_TTL" default:"14m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MARKETPLACE_AUTO_MIGRATE" default:"false"`
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
	for _, env := range dsnPartEnvVars {
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
