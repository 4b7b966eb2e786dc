package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Neo4j         Neo4jConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	Mail          MailConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FLEURS_APP_ENV" required:"true"`
	Port         string `envconfig:"FLEURS_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"FLEURS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLEURS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type Neo4jConfig struct {
	URI      string `envconfig:"FLEURS_NEO4J_URI" required:"true"`
	Username string `envconfig:"FLEURS_NEO4J_USER" required:"true"`
	Password string `envconfig:"FLEURS_NEO4J_PASSWORD" required:"true"`
	Database string `envconfig:"FLEURS_NEO4J_DATABASE" default:"neo4j"`

	MaxConnectionPoolSize int           `envconfig:"FLEURS_NEO4J_MAX_POOL_SIZE" default:"50"`
	ConnectionTimeout     time.Duration `envconfig:"FLEURS_NEO4J_CONNECTION_TIMEOUT" default:"30s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLEURS_REDIS_URL"`
	Address      string        `envconfig:"FLEURS_REDIS_ADDR"`
	Password     string        `envconfig:"FLEURS_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLEURS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLEURS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLEURS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLEURS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLEURS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLEURS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FLEURS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FLEURS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FLEURS_JWT_EXPIRATION_MINUTES" default:"120"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FLEURS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FLEURS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FLEURS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FLEURS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FLEURS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FLEURS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FLEURS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FLEURS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FLEURS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FLEURS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FLEURS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FLEURS_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

// MailConfig drives verification-email delivery. When the SMTP fields are left
// empty the app logs codes instead of sending, which is the local-dev setup.
type MailConfig struct {
	Host        string `envconfig:"FLEURS_SMTP_HOST"`
	Port        int    `envconfig:"FLEURS_SMTP_PORT" default:"587"`
	Username    string `envconfig:"FLEURS_SMTP_USERNAME"`
	Password    string `envconfig:"FLEURS_SMTP_PASSWORD"`
	SenderName  string `envconfig:"FLEURS_SMTP_SENDER_NAME" default:"FlowerMarket"`
	SenderEmail string `envconfig:"FLEURS_SMTP_SENDER_EMAIL"`
}

// Enabled reports whether real SMTP delivery is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.SenderEmail != ""
}
