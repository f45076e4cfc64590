// Package dbconfig resolves Postgres connection settings from DB_*
// environment variables, shared by the server and the seed tooling.
package dbconfig

import (
	"net"
	"net/url"
	"os"
	"strconv"
)

// Config is one Postgres endpoint.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// FromEnv reads DB_* variables, defaulting to a local development database.
func FromEnv() Config {
	return Config{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     envIntOr("DB_PORT", 5432),
		User:     envOr("DB_USER", "postgres"),
		Password: envOr("DB_PASSWORD", "postgres"),
		Database: envOr("DB_NAME", "mockdraft"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),
	}
}

// DSN renders the connection URL. Credentials go through url.UserPassword,
// so passwords with URL metacharacters survive.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
