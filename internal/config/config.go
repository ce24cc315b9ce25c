package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// RoutingMode selects how a multi-vendor order group is collected.
type RoutingMode string

const (
	// RoutingCentralStore pays the whole order group through the platform's
	// own merchant account with one combined gateway transaction.
	RoutingCentralStore RoutingMode = "central"
	// RoutingDirect lets each vendor collect its order's payment independently.
	RoutingDirect RoutingMode = "direct"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	PaymentRouting RoutingMode

	OgonePSPID    string
	OgoneShaIn    string
	OgoneShaOut   string
	OgoneHashAlgo string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		PaymentRouting: routingFromEnv(os.Getenv("PAYMENT_ROUTING")),

		OgonePSPID:    os.Getenv("OGONE_PSPID"),
		OgoneShaIn:    os.Getenv("OGONE_SHA_IN"),
		OgoneShaOut:   os.Getenv("OGONE_SHA_OUT"),
		OgoneHashAlgo: os.Getenv("OGONE_HASH_ALGO"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func routingFromEnv(v string) RoutingMode {
	if v == string(RoutingDirect) {
		return RoutingDirect
	}
	// Central-store routing is the platform default.
	return RoutingCentralStore
}
