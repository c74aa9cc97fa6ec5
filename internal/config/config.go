package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Base mainnet deployment.
const (
	DefaultChainID          = 8453
	DefaultSwapper          = "0x9b4B3e8D33d64EACabffd414dc6cc7b7Ea42e722"
	DefaultVirtualUnits     = "0x6745b438dfaD081Dfe9740FDFF38d96865cF1729"
	DefaultToken            = "0x58e0e291ebf6e03efeff6ef628ae34114545d0ed"
	DefaultHook             = "0x9424Ff87a08da0F96ed2212dA91FD439b5f98540"
	DefaultGDAForwarder     = "0x6DA13Bde224A05a288748d857b9e7DDEffd1dE08"
	DefaultDistributionPool = "0xAc89c2aEa192d404801a3334a071504a4Bc7AC63"
	// MIN_SQRT_PRICE + 1 and MAX_SQRT_PRICE - 1.
	DefaultMinPriceLimit = "4295128740"
	DefaultMaxPriceLimit = "1461446703485210103287273052203988822378723970341"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL     string
	PrivateKey string
	Account    string
	ChainID    uint64

	Swapper        string
	InputAsset     string
	InputDecimals  uint64
	OutputAsset    string
	OutputDecimals uint64
	Currency0      string
	Currency1      string
	Fee            uint64
	TickSpacing    int64
	Hooks          string
	MinPriceLimit  string
	MaxPriceLimit  string

	ApprovalMultiplier int64
	ApproveBoth        bool
	SwapConfirmations  uint64

	GDAForwarder         string
	DistributionPool     string
	ConnectConfirmations uint64
	PollInterval         time.Duration

	WaitTimeout         time.Duration
	ReceiptPollInterval time.Duration
	MaxRetries          int
	RetryBackoff        time.Duration

	Journal     string
	PGDSN       string
	MetricsAddr string
	LogLevel    string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SWAPPER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:     v.GetString("rpc"),
		PrivateKey: v.GetString("private-key"),
		Account:    v.GetString("account"),
		ChainID:    v.GetUint64("chain-id"),

		Swapper:        v.GetString("swapper"),
		InputAsset:     v.GetString("input-asset"),
		InputDecimals:  v.GetUint64("input-decimals"),
		OutputAsset:    v.GetString("output-asset"),
		OutputDecimals: v.GetUint64("output-decimals"),
		Currency0:      v.GetString("currency0"),
		Currency1:      v.GetString("currency1"),
		Fee:            v.GetUint64("fee"),
		TickSpacing:    v.GetInt64("tick-spacing"),
		Hooks:          v.GetString("hooks"),
		MinPriceLimit:  v.GetString("min-price-limit"),
		MaxPriceLimit:  v.GetString("max-price-limit"),

		ApprovalMultiplier: v.GetInt64("approval-multiplier"),
		ApproveBoth:        v.GetBool("approve-both"),
		SwapConfirmations:  v.GetUint64("swap-confirmations"),

		GDAForwarder:         v.GetString("gda-forwarder"),
		DistributionPool:     v.GetString("distribution-pool"),
		ConnectConfirmations: v.GetUint64("connect-confirmations"),
		PollInterval:         v.GetDuration("poll-interval"),

		WaitTimeout:         v.GetDuration("wait-timeout"),
		ReceiptPollInterval: v.GetDuration("receipt-poll-interval"),
		MaxRetries:          v.GetInt("max-retries"),
		RetryBackoff:        v.GetDuration("retry-backoff"),

		Journal:     v.GetString("journal"),
		PGDSN:       v.GetString("pg-dsn"),
		MetricsAddr: v.GetString("metrics-addr"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chain-id", uint64(DefaultChainID))
	v.SetDefault("swapper", DefaultSwapper)
	v.SetDefault("input-asset", DefaultVirtualUnits)
	v.SetDefault("input-decimals", 18)
	v.SetDefault("output-asset", DefaultToken)
	v.SetDefault("output-decimals", 18)
	v.SetDefault("currency0", DefaultToken)
	v.SetDefault("currency1", DefaultVirtualUnits)
	v.SetDefault("fee", 3000)
	v.SetDefault("tick-spacing", 60)
	v.SetDefault("hooks", DefaultHook)
	v.SetDefault("min-price-limit", DefaultMinPriceLimit)
	v.SetDefault("max-price-limit", DefaultMaxPriceLimit)
	v.SetDefault("approval-multiplier", 10)
	v.SetDefault("approve-both", true)
	v.SetDefault("swap-confirmations", 0)
	v.SetDefault("gda-forwarder", DefaultGDAForwarder)
	v.SetDefault("distribution-pool", DefaultDistributionPool)
	v.SetDefault("connect-confirmations", 5)
	v.SetDefault("poll-interval", 5*time.Second)
	v.SetDefault("wait-timeout", 5*time.Minute)
	v.SetDefault("receipt-poll-interval", 2*time.Second)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("journal", "./data/outcomes.jsonl")
	v.SetDefault("log-level", "info")
}
