package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// CarrierTest routes carrier calls to the sandbox hosts.
	CarrierTest bool `env:"CARRIER_TEST, default=true"`

	FedEx FedExConfig
	UPS   UPSConfig
}

// FedExConfig holds the four values FedEx issues per meter.
type FedExConfig struct {
	Key      string `env:"FEDEX_KEY"`
	Password string `env:"FEDEX_PASSWORD"`
	Account  string `env:"FEDEX_ACCOUNT"`
	Meter    string `env:"FEDEX_METER"`
}

// UPSConfig holds the UPS access license plus the account fields pickup
// dispatch needs.
type UPSConfig struct {
	LicenseKey         string `env:"UPS_LICENSE_KEY"`
	UserID             string `env:"UPS_USER_ID"`
	Password           string `env:"UPS_PASSWORD"`
	AccountNumber      string `env:"UPS_ACCOUNT_NUMBER"`
	AccountCountryCode string `env:"UPS_ACCOUNT_COUNTRY, default=US"`
}

// Configured reports whether any FedEx credential is present. An entirely
// blank block means the carrier is simply not enabled.
func (c FedExConfig) Configured() bool {
	return c.Key != "" || c.Password != "" || c.Account != "" || c.Meter != ""
}

func (c UPSConfig) Configured() bool {
	return c.LicenseKey != "" || c.UserID != "" || c.Password != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
