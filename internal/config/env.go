package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome           = "STAKECTL_HOME"
	EnvRPC            = "STAKECTL_RPC"
	EnvTokenAddress   = "STAKECTL_TOKEN_ADDRESS"
	EnvStakingAddress = "STAKECTL_STAKING_ADDRESS"
	EnvMnemonicFile   = "STAKECTL_MNEMONIC_FILE"
	EnvOutputFormat   = "STAKECTL_OUTPUT_FORMAT"
	EnvVerbose        = "STAKECTL_VERBOSE"
	EnvLogLevel       = "STAKECTL_LOG_LEVEL"
	EnvPollInterval   = "STAKECTL_POLL_INTERVAL"
	EnvNoColor        = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvRPC); v != "" {
		cfg.Network.RPC = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvTokenAddress); v != "" {
		cfg.Contracts.Token = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvStakingAddress); v != "" {
		cfg.Contracts.Staking = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvMnemonicFile); v != "" {
		cfg.Wallet.MnemonicFile = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}

	// STAKECTL_POLL_INTERVAL sets the balance refresh cadence in seconds
	if v := os.Getenv(EnvPollInterval); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Polling.IntervalSeconds = secs
		}
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
