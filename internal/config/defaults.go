package config

import "time"

const defaultPort = 8080

const (
	defaultSiteURL = "http://localhost:3000"
	defaultAPIURL  = "http://localhost:8080"
)

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "ecodeli",
	Pass: "ecodeli",
	Name: "ecodeli",
}

var defaultSession = Session{
	Secret:     "dev-only-session-secret-change-me",
	AccessTTL:  15 * time.Minute,
	RefreshTTL: 7 * 24 * time.Hour,
}

var defaultPayment = Payment{
	APIURL:      "https://api.stripe.com",
	Currency:    "eur",
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultDelivery = Delivery{
	ExpireInterval: time.Minute,
	PendingTTL:     48 * time.Hour,
}

var defaultLocale = Locale{
	Supported: []string{"fr", "en"},
	Default:   "fr",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       0.2,
	Burst:      5,
	TTL:        10 * time.Minute,
	MaxBuckets: 100000,
}

var defaultKafka = Kafka{
	GroupID:       "ecodeli-payments",
	PaymentsTopic: "payments",
}

var defaultRabbitMQ = RabbitMQ{
	Exchange: "ecodeli.notifications",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultSession returns the default session settings.
func DefaultSession() Session {
	return defaultSession
}

// DefaultPayment returns the default payment provider settings.
func DefaultPayment() Payment {
	return defaultPayment
}

// DefaultDelivery returns the default delivery settings.
func DefaultDelivery() Delivery {
	return defaultDelivery
}

// DefaultLocale returns the default locale settings.
func DefaultLocale() Locale {
	return Locale{
		Supported: append([]string(nil), defaultLocale.Supported...),
		Default:   defaultLocale.Default,
	}
}
