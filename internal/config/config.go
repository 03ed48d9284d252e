package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Database settings are
// required at startup; the token secrets and mail credentials are read as-is
// and may be empty, in which case the auth endpoints respond with an
// internal error instead of crashing the process.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	AccessSecret  string // secret for signing access tokens (optional at startup)
	RefreshSecret string // secret for signing refresh tokens (optional at startup)

	AccessTTL          time.Duration // access token lifetime
	RefreshTTL         time.Duration // refresh token lifetime
	RefreshedAccessTTL time.Duration // lifetime of access tokens minted on the refresh path
	OTPTTL             time.Duration // one-time code lifetime
	BcryptCost         int           // bcrypt cost for password hashing

	MailFrom     string // sender address for OTP mail (optional)
	MailPassword string // SMTP password (optional)
	SMTPHost     string
	SMTPPort     string

	AMQPURL string // message broker URL; empty disables the mail consumer
}

// Load reads configuration values from environment variables.  Missing
// required variables cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:  getenv("APP_ENV", "dev"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),

		AccessTTL:          envDur("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:         envDur("REFRESH_TOKEN_TTL", 24*time.Hour),
		RefreshedAccessTTL: envDur("REFRESHED_ACCESS_TOKEN_TTL", 30*time.Second),
		OTPTTL:             envDur("OTP_TTL", 10*time.Minute),
		BcryptCost:         envInt("BCRYPT_COST", 10),

		MailFrom:     os.Getenv("EMAIL"),
		MailPassword: os.Getenv("EMAIL_PASSWORD"),
		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getenv("SMTP_PORT", "587"),

		AMQPURL: amqpURL(),
	}
}

// HasTokenSecrets reports whether both signing secrets are configured.
func (c Config) HasTokenSecrets() bool {
	return c.AccessSecret != "" && c.RefreshSecret != ""
}

func amqpURL() string {
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		return url
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
