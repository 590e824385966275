package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port       int
	SiteURL    string
	APIURL     string
	LogBackend string
	Tracing    bool

	DB        DB
	Session   Session
	Payment   Payment
	Delivery  Delivery
	Locale    Locale
	RateLimit RateLimit
	Kafka     Kafka
	RabbitMQ  RabbitMQ
	Pprof     Pprof
	CORS      CORS
}

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Session stores token signing settings.
type Session struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Payment stores payment-provider settings.
type Payment struct {
	PublicKey   string
	SecretKey   string
	APIURL      string
	Currency    string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Delivery stores delivery housekeeping settings.
type Delivery struct {
	ExpireInterval time.Duration
	PendingTTL     time.Duration
}

// Locale stores the supported URL locales.
type Locale struct {
	Supported []string
	Default   string
}

// RateLimit stores token bucket settings for the validation endpoint.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Kafka stores payment event consumer settings.
type Kafka struct {
	Brokers       []string
	GroupID       string
	PaymentsTopic string
}

// RabbitMQ stores notification publisher settings.
type RabbitMQ struct {
	URL      string
	Exchange string
}

// Pprof stores debug server settings. An empty Addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// CORS stores allowed browser origins.
type CORS struct {
	AllowedOrigins []string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:       DefaultPort(),
		SiteURL:    envString("SITE_URL", defaultSiteURL),
		APIURL:     envString("API_URL", defaultAPIURL),
		LogBackend: envString("LOG_BACKEND", "slog"),
		DB: DB{
			Host: envString("POSTGRES_HOST", defaultDB.Host),
			Port: envString("POSTGRES_PORT", defaultDB.Port),
			User: envString("POSTGRES_USER", defaultDB.User),
			Pass: envString("POSTGRES_PASSWORD", defaultDB.Pass),
			Name: envString("POSTGRES_DB", defaultDB.Name),
		},
		Session: Session{
			Secret: envString("SESSION_SECRET", defaultSession.Secret),
		},
		Payment: Payment{
			PublicKey: envString("PAYMENT_PUBLIC_KEY", ""),
			SecretKey: envString("PAYMENT_SECRET_KEY", ""),
			APIURL:    envString("PAYMENT_API_URL", defaultPayment.APIURL),
			Currency:  strings.ToLower(envString("PAYMENT_CURRENCY", defaultPayment.Currency)),
		},
		Locale: Locale{
			Supported: envList("LOCALES", defaultLocale.Supported),
			Default:   envString("DEFAULT_LOCALE", defaultLocale.Default),
		},
		Kafka: Kafka{
			Brokers:       envList("KAFKA_BROKERS", nil),
			GroupID:       envString("KAFKA_GROUP_ID", defaultKafka.GroupID),
			PaymentsTopic: envString("KAFKA_PAYMENTS_TOPIC", defaultKafka.PaymentsTopic),
		},
		RabbitMQ: RabbitMQ{
			URL:      envString("RABBITMQ_URL", ""),
			Exchange: envString("RABBITMQ_EXCHANGE", defaultRabbitMQ.Exchange),
		},
		Pprof: Pprof{
			Addr: envString("PPROF_ADDR", ""),
			User: envString("PPROF_USER", ""),
			Pass: envString("PPROF_PASS", ""),
		},
		CORS: CORS{
			AllowedOrigins: envList("CORS_ALLOWED_ORIGINS", nil),
		},
	}

	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	if _, err = strconv.Atoi(cfg.DB.Port); err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT %q: %w", cfg.DB.Port, err)
	}
	if cfg.Tracing, err = envBool("TRACING_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.Session.AccessTTL, err = envDuration("SESSION_TTL", defaultSession.AccessTTL); err != nil {
		return nil, err
	}
	if cfg.Session.RefreshTTL, err = envDuration("SESSION_REFRESH_TTL", defaultSession.RefreshTTL); err != nil {
		return nil, err
	}
	if cfg.Payment.MaxAttempts, err = envInt("PAYMENT_MAX_ATTEMPTS", defaultPayment.MaxAttempts); err != nil {
		return nil, err
	}
	if cfg.Payment.BaseDelay, err = envDuration("PAYMENT_BASE_DELAY", defaultPayment.BaseDelay); err != nil {
		return nil, err
	}
	if cfg.Payment.MaxDelay, err = envDuration("PAYMENT_MAX_DELAY", defaultPayment.MaxDelay); err != nil {
		return nil, err
	}
	if cfg.Delivery.ExpireInterval, err = envDuration("DELIVERY_EXPIRE_INTERVAL", defaultDelivery.ExpireInterval); err != nil {
		return nil, err
	}
	if cfg.Delivery.PendingTTL, err = envDuration("DELIVERY_PENDING_TTL", defaultDelivery.PendingTTL); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = loadRateLimit(); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.StringVar(&cfg.Pprof.Addr, "pprof-addr", cfg.Pprof.Addr, "pprof listen address (empty disables)")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadRateLimit() (RateLimit, error) {
	rl := defaultRateLimit
	var err error
	if rl.Enabled, err = envBool("RATE_LIMIT_ENABLED", rl.Enabled); err != nil {
		return rl, err
	}
	if rl.Rate, err = envFloat("RATE_LIMIT_RATE", rl.Rate); err != nil {
		return rl, err
	}
	if rl.Burst, err = envInt("RATE_LIMIT_BURST", rl.Burst); err != nil {
		return rl, err
	}
	if rl.TTL, err = envDuration("RATE_LIMIT_TTL", rl.TTL); err != nil {
		return rl, err
	}
	if rl.MaxBuckets, err = envInt("RATE_LIMIT_MAX_BUCKETS", rl.MaxBuckets); err != nil {
		return rl, err
	}
	return rl, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if len(c.Session.Secret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}
	if c.Session.AccessTTL <= 0 || c.Session.RefreshTTL < c.Session.AccessTTL {
		return errors.New("session ttl: refresh ttl must be >= access ttl > 0")
	}
	if c.Payment.MaxAttempts <= 0 {
		return fmt.Errorf("invalid PAYMENT_MAX_ATTEMPTS: %d", c.Payment.MaxAttempts)
	}
	if c.Delivery.ExpireInterval <= 0 || c.Delivery.PendingTTL <= 0 {
		return errors.New("delivery intervals must be positive")
	}
	if len(c.Locale.Supported) == 0 {
		return errors.New("LOCALES must list at least one locale")
	}
	for _, l := range c.Locale.Supported {
		if l == c.Locale.Default {
			return nil
		}
	}
	return fmt.Errorf("DEFAULT_LOCALE %q is not in LOCALES", c.Locale.Default)
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
