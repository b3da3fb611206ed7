package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server       ServerConfig
	BTCPrice     BTCPriceConfig
	AlphaVantage ProviderConfig
	FRED         FREDConfig
	BLS          ProviderConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type BTCPriceConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// ProviderConfig covers providers keyed by a single credential. An empty
// APIKey is not a startup error: adapters detect it at fetch time and fall
// back without a network call.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type FREDConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	SeriesTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		BTCPrice: BTCPriceConfig{
			BaseURL:  getEnvString("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			Timeout:  getEnvDuration("COINGECKO_TIMEOUT", 10*time.Second),
			CacheTTL: getEnvDuration("BTC_PRICE_CACHE_TTL", 5*time.Minute),
		},
		AlphaVantage: ProviderConfig{
			BaseURL: getEnvString("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co"),
			APIKey:  getEnvString("ALPHA_VANTAGE_API_KEY", ""),
			Timeout: getEnvDuration("ALPHA_VANTAGE_TIMEOUT", 15*time.Second),
		},
		FRED: FREDConfig{
			BaseURL:       getEnvString("FRED_BASE_URL", "https://api.stlouisfed.org/fred"),
			APIKey:        getEnvString("FRED_API_KEY", ""),
			Timeout:       getEnvDuration("FRED_TIMEOUT", 10*time.Second),
			SeriesTimeout: getEnvDuration("FRED_SERIES_TIMEOUT", 15*time.Second),
		},
		BLS: ProviderConfig{
			BaseURL: getEnvString("BLS_BASE_URL", "https://api.bls.gov/publicAPI/v2"),
			APIKey:  getEnvString("BLS_API_KEY", ""),
			Timeout: getEnvDuration("BLS_TIMEOUT", 10*time.Second),
		},
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid duration for %s, using default: %s\n", key, defaultValue)
		return defaultValue
	}

	return value
}
