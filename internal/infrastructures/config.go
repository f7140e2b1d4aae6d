package infrastructures

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/pkg/token"
	"github.com/sethvargo/go-envconfig"
)

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type AppConfig struct {
	AppEnv      string `env:"APP_ENV,default=development"`
	AppPort     string `env:"APP_PORT,default=8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	TokenSecret string `env:"TOKEN_SECRET"`
	// PublicBaseURL is where tap redirects land and ticket QR codes point.
	PublicBaseURL string `env:"PUBLIC_BASE_URL,default=http://localhost:8080"`
	CookieSecure  bool   `env:"COOKIE_SECURE,default=false"`
	LogLevel      string `env:"LOG_LEVEL,default=info"`
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	RateLimitBackend string `env:"RATE_LIMIT_BACKEND,default=memory"`
	RedisAddress     string `env:"REDIS_ADDRESS,default=localhost:6379"`
	RedisPassword    string `env:"REDIS_PASSWORD"`

	Mail MailConfig `env:",prefix=SMTP_"`
	// MailPerSecond throttles outgoing mail.
	MailPerSecond float64 `env:"MAIL_PER_SECOND,default=2"`
}

type MailConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT,default=587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM,default=no-reply@tapreview.local"`
}

var Config *AppConfig

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig(ctx context.Context) (*AppConfig, error) {
	godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	Config = &cfg
	return Config, nil
}

// Validate rejects configurations the service cannot start with.
func (c *AppConfig) Validate() error {
	if len(c.TokenSecret) < token.MinSecretLength {
		return errors.NewConfigurationError(fmt.Sprintf("TOKEN_SECRET must be at least %d bytes", token.MinSecretLength))
	}
	switch c.RateLimitBackend {
	case RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		return errors.NewConfigurationError(fmt.Sprintf("RATE_LIMIT_BACKEND must be %q or %q", RateLimitBackendMemory, RateLimitBackendRedis))
	}
	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *AppConfig) MailEnabled() bool {
	return c.Mail.Host != ""
}

func (c *AppConfig) ListenAddr() string {
	return ":" + c.AppPort
}
