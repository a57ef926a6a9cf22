package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Providers struct {
		CMC struct {
			APIKey  string        `yaml:"api_key"`
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"cmc"`
		CoinGecko struct {
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"coingecko"`
		Binance struct {
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"binance"`
		Etherscan struct {
			APIKey  string        `yaml:"api_key"`
			BaseURL string        `yaml:"base_url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"etherscan"`
	} `yaml:"providers"`
	RateLimit struct {
		RequestsPerSecond int `yaml:"requests_per_second"`
	} `yaml:"rate_limit"`
	Whale struct {
		ThresholdUSD    float64       `yaml:"threshold_usd"`
		DefaultPriceUSD float64       `yaml:"default_price_usd"`
		CacheTTL        time.Duration `yaml:"cache_ttl"`
		WindowHours     int           `yaml:"window_hours"`
		BlocksPerHour   int           `yaml:"blocks_per_hour"`
	} `yaml:"whale"`
	Scan struct {
		Workers int      `yaml:"workers"`
		Symbols []string `yaml:"symbols"`
	} `yaml:"scan"`
	Signals struct {
		Regime string `yaml:"regime"`
	} `yaml:"signals"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Provider credentials intentionally come last so container secrets win.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CMC_API_KEY"); v != "" {
		c.Providers.CMC.APIKey = v
	}
	if v := os.Getenv("ETHERSCAN_API_KEY"); v != "" {
		c.Providers.Etherscan.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Scan.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("REGIME"); v != "" {
		c.Signals.Regime = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}

	return c, c.Validate()
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Providers.CMC.BaseURL == "" {
		c.Providers.CMC.BaseURL = "https://pro-api.coinmarketcap.com"
	}
	if c.Providers.CMC.Timeout == 0 {
		c.Providers.CMC.Timeout = 10 * time.Second
	}
	if c.Providers.CoinGecko.BaseURL == "" {
		c.Providers.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.Providers.CoinGecko.Timeout == 0 {
		c.Providers.CoinGecko.Timeout = 10 * time.Second
	}
	if c.Providers.Binance.BaseURL == "" {
		c.Providers.Binance.BaseURL = "https://fapi.binance.com"
	}
	if c.Providers.Binance.Timeout == 0 {
		c.Providers.Binance.Timeout = 5 * time.Second
	}
	if c.Providers.Etherscan.BaseURL == "" {
		c.Providers.Etherscan.BaseURL = "https://api.etherscan.io/api"
	}
	if c.Providers.Etherscan.Timeout == 0 {
		c.Providers.Etherscan.Timeout = 10 * time.Second
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 2
	}
	if c.Whale.ThresholdUSD == 0 {
		c.Whale.ThresholdUSD = 500_000
	}
	if c.Whale.DefaultPriceUSD == 0 {
		c.Whale.DefaultPriceUSD = 2000
	}
	if c.Whale.CacheTTL == 0 {
		c.Whale.CacheTTL = 300 * time.Second
	}
	if c.Whale.WindowHours == 0 {
		c.Whale.WindowHours = 24
	}
	if c.Whale.BlocksPerHour == 0 {
		c.Whale.BlocksPerHour = 300
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 4
	}
	if c.Signals.Regime == "" {
		c.Signals.Regime = "distribution"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "whalepulse"
	}
}

// Validate checks if the configuration is valid. Missing provider credentials
// are not errors: the affected subsystem is disabled at runtime instead.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Signals.Regime != "accumulation" && c.Signals.Regime != "distribution" {
		return fmt.Errorf("signals.regime must be 'accumulation' or 'distribution', got '%s'", c.Signals.Regime)
	}
	if c.RateLimit.RequestsPerSecond < 1 {
		return fmt.Errorf("rate_limit.requests_per_second must be >= 1")
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be >= 1")
	}
	if c.Whale.ThresholdUSD < 0 {
		return fmt.Errorf("whale.threshold_usd must be >= 0")
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when redis is enabled")
	}
	return nil
}
