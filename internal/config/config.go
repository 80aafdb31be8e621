package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gsarma/mailrender/internal/cache"
	"github.com/gsarma/mailrender/internal/delivery"
	"github.com/gsarma/mailrender/internal/logger"
)

const (
	DefaultPort     = 3001
	DefaultBasePath = "/api/v1/email-templates"
	Version         = "2.0.0"
)

type Config struct {
	Stage string `yaml:"stage"`

	Server struct {
		Port            int           `yaml:"port"`
		BasePath        string        `yaml:"base_path"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	} `yaml:"server"`

	Templates struct {
		MaxBlocks      int    `yaml:"max_blocks"`
		MinBlocks      int    `yaml:"min_blocks"`
		CodeLength     int    `yaml:"code_length"`
		ExpiryMinutes  int    `yaml:"expiry_minutes"`
		CDNHost        string `yaml:"cdn_host"`
		UnsubscribeURL string `yaml:"unsubscribe_url"`
		BrandName      string `yaml:"brand_name"`
		Lang           string `yaml:"lang"`
	} `yaml:"templates"`

	RateLimit struct {
		Enabled     bool          `yaml:"enabled"`
		MaxRequests int           `yaml:"max_requests"`
		Window      time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`

	// Queue sizes the background delivery workers used by async sends.
	Queue struct {
		Workers      int           `yaml:"workers"`
		Size         int           `yaml:"size"`
		MaxAttempts  int           `yaml:"max_attempts"`
		RetryBackoff time.Duration `yaml:"retry_backoff"`
	} `yaml:"queue"`

	Log      logger.Config   `yaml:"log"`
	Cache    cache.Config    `yaml:"cache"`
	Delivery delivery.Config `yaml:"delivery"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{Stage: logger.StageDevelopment}

	c.Server.Port = DefaultPort
	c.Server.BasePath = DefaultBasePath
	c.Server.CORSOrigins = []string{"*"}
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 15 * time.Second
	c.Server.MaxBodyBytes = 1 << 20

	c.Templates.MaxBlocks = 20
	c.Templates.MinBlocks = 1
	c.Templates.CodeLength = 4
	c.Templates.ExpiryMinutes = 15
	c.Templates.BrandName = "Anora"
	c.Templates.Lang = "en"

	c.RateLimit.Enabled = true
	c.RateLimit.MaxRequests = 100
	c.RateLimit.Window = 15 * time.Minute

	c.Queue.Workers = 4
	c.Queue.Size = 100
	c.Queue.MaxAttempts = 3
	c.Queue.RetryBackoff = 10 * time.Second

	c.Log.Level = "debug"
	c.Log.Format = logger.FormatConsole

	c.Cache.Kind = cache.KindNone
	c.Cache.TTL = 10 * time.Minute
	c.Cache.Prefix = "mailrender:"

	c.Delivery.SMTP.Port = 587
	c.Delivery.SMTP.TLSMode = "auto"
	return c
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables. A .env file in
// the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	c := Default()

	if path == "" {
		path = os.Getenv("MAILRENDER_CONFIG")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigurationError{Problems: []string{fmt.Sprintf("read %s: %v", path, err)}}
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, &ConfigurationError{Problems: []string{fmt.Sprintf("parse %s: %v", path, err)}}
		}
	}

	var problems []string
	c.applyEnv(os.LookupEnv, &problems)
	if len(problems) > 0 {
		return nil, &ConfigurationError{Problems: problems}
	}

	if c.Stage == logger.StageProduction && os.Getenv("LOG_LEVEL") == "" && c.Log.Level == "debug" {
		c.Log.Level = "info"
	}
	c.Log.Stage = c.Stage

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc, problems *[]string) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				*problems = append(*problems, fmt.Sprintf("%s must be an integer, got %q", key, v))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				*problems = append(*problems, fmt.Sprintf("%s must be a duration, got %q", key, v))
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				*problems = append(*problems, fmt.Sprintf("%s must be a boolean, got %q", key, v))
				return
			}
			*dst = b
		}
	}

	str("STAGE", &c.Stage)
	integer("PORT", &c.Server.Port)
	str("BASE_PATH", &c.Server.BasePath)
	if v, ok := lookup("CORS_ORIGIN"); ok && v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	duration("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)

	integer("MIN_BLOCKS", &c.Templates.MinBlocks)
	integer("MAX_BLOCKS", &c.Templates.MaxBlocks)
	integer("CODE_LENGTH", &c.Templates.CodeLength)
	integer("EXPIRY_MINUTES", &c.Templates.ExpiryMinutes)
	str("CDN_HOST", &c.Templates.CDNHost)
	str("UNSUBSCRIBE_URL", &c.Templates.UnsubscribeURL)
	str("BRAND_NAME", &c.Templates.BrandName)

	boolean("RATE_LIMIT_ENABLED", &c.RateLimit.Enabled)
	integer("RATE_LIMIT_MAX_REQUESTS", &c.RateLimit.MaxRequests)
	duration("RATE_LIMIT_WINDOW", &c.RateLimit.Window)

	integer("QUEUE_WORKERS", &c.Queue.Workers)
	integer("QUEUE_SIZE", &c.Queue.Size)
	integer("QUEUE_MAX_ATTEMPTS", &c.Queue.MaxAttempts)
	duration("QUEUE_RETRY_BACKOFF", &c.Queue.RetryBackoff)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	str("CACHE_KIND", &c.Cache.Kind)
	duration("CACHE_TTL", &c.Cache.TTL)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("REDIS_PASSWORD", &c.Cache.RedisPassword)

	str("DELIVERY_PROVIDER", &c.Delivery.Provider)
	str("MAIL_FROM", &c.Delivery.From)
	str("SMTP_HOST", &c.Delivery.SMTP.Host)
	integer("SMTP_PORT", &c.Delivery.SMTP.Port)
	str("SMTP_USERNAME", &c.Delivery.SMTP.Username)
	str("SMTP_PASSWORD", &c.Delivery.SMTP.Password)
	str("SMTP_TLS", &c.Delivery.SMTP.TLSMode)
	str("RESEND_API_KEY", &c.Delivery.Resend.APIKey)
	str("SENDGRID_API_KEY", &c.Delivery.SendGrid.APIKey)
}

// AssetsBaseURL is where email images are served from.
func (c *Config) AssetsBaseURL() string {
	if c.Templates.CDNHost == "" {
		return "/static"
	}
	return strings.TrimRight(c.Templates.CDNHost, "/") + "/public/emails"
}

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Server.Port) }

func (c *Config) IsProduction() bool { return c.Stage == logger.StageProduction }

// Validate reports every problem at once as a *ConfigurationError.
func (c *Config) Validate() error {
	var p []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		p = append(p, "PORT must be between 1 and 65535")
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		p = append(p, "BASE_PATH must start with /")
	}
	if c.Templates.MinBlocks < 1 {
		p = append(p, "MIN_BLOCKS must be at least 1")
	}
	if c.Templates.MaxBlocks < c.Templates.MinBlocks {
		p = append(p, "MAX_BLOCKS must be greater than or equal to MIN_BLOCKS")
	}
	if c.Templates.CodeLength < 1 {
		p = append(p, "CODE_LENGTH must be at least 1")
	}
	if c.Templates.ExpiryMinutes < 1 {
		p = append(p, "EXPIRY_MINUTES must be at least 1")
	}
	if c.RateLimit.Enabled && (c.RateLimit.MaxRequests < 1 || c.RateLimit.Window <= 0) {
		p = append(p, "RATE_LIMIT_MAX_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}

	if c.Queue.Workers < 1 || c.Queue.Size < 1 || c.Queue.MaxAttempts < 1 {
		p = append(p, "QUEUE_WORKERS, QUEUE_SIZE and QUEUE_MAX_ATTEMPTS must be at least 1")
	}

	switch c.Cache.Kind {
	case "", cache.KindNone, cache.KindMemory, cache.KindRedis:
	default:
		p = append(p, fmt.Sprintf("CACHE_KIND %q is not one of none, memory, redis", c.Cache.Kind))
	}

	switch strings.ToLower(c.Delivery.Provider) {
	case delivery.ProviderNone:
	case delivery.ProviderSMTP:
		if c.Delivery.SMTP.Host == "" {
			p = append(p, "SMTP_HOST is required when DELIVERY_PROVIDER is smtp")
		}
		if c.Delivery.From == "" {
			p = append(p, "MAIL_FROM is required when delivery is enabled")
		}
	case delivery.ProviderResend:
		if c.Delivery.Resend.APIKey == "" {
			p = append(p, "RESEND_API_KEY is required when DELIVERY_PROVIDER is resend")
		}
		if c.Delivery.From == "" {
			p = append(p, "MAIL_FROM is required when delivery is enabled")
		}
	case delivery.ProviderSendGrid:
		if c.Delivery.SendGrid.APIKey == "" {
			p = append(p, "SENDGRID_API_KEY is required when DELIVERY_PROVIDER is sendgrid")
		}
		if c.Delivery.From == "" {
			p = append(p, "MAIL_FROM is required when delivery is enabled")
		}
	default:
		p = append(p, fmt.Sprintf("DELIVERY_PROVIDER %q is not one of smtp, resend, sendgrid", c.Delivery.Provider))
	}

	if len(p) > 0 {
		return &ConfigurationError{Problems: p}
	}
	return nil
}

// ConfigurationError lists every problem found while loading configuration.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "Configuration validation failed:\n" + strings.Join(e.Problems, "\n")
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
