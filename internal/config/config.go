// Package config provides configuration management for stakectl.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version   int             `yaml:"version"`
	Home      string          `yaml:"home"`
	Network   NetworkConfig   `yaml:"network"`
	Contracts ContractsConfig `yaml:"contracts"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Deadlines DeadlinesConfig `yaml:"deadlines"`
	Polling   PollingConfig   `yaml:"polling"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NetworkConfig defines the Ethereum network settings.
type NetworkConfig struct {
	RPC     string `yaml:"rpc"`
	ChainID int64  `yaml:"chain_id"`
}

// ContractsConfig names the two on-chain contracts the tool drives.
type ContractsConfig struct {
	Token   string `yaml:"token"`
	Staking string `yaml:"staking"`
}

// WalletConfig defines how the signing key is derived.
type WalletConfig struct {
	MnemonicFile string `yaml:"mnemonic_file"`
	Account      uint32 `yaml:"account"`
	Index        uint32 `yaml:"index"`
}

// DeadlinesConfig holds the two campaign deadlines as RFC3339 timestamps.
type DeadlinesConfig struct {
	StakingClose string `yaml:"staking_close"`
	Unlock       string `yaml:"unlock"`
}

// PollingConfig defines the background balance refresh cadence.
type PollingConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks the parts of the configuration every command depends on.
// Contract addresses have no sane default, so their absence is fatal at
// startup rather than at first use.
func (c *Config) Validate() error {
	if c.Network.RPC == "" {
		return stakeerr.WithSuggestion(stakeerr.WithDetails(stakeerr.ErrConfigInvalid, map[string]string{
			"field": "network.rpc",
		}), "Set network.rpc in config.yaml or export "+EnvRPC)
	}
	if c.Contracts.Token == "" {
		return stakeerr.WithSuggestion(stakeerr.WithDetails(stakeerr.ErrConfigInvalid, map[string]string{
			"field": "contracts.token",
		}), "Set contracts.token to the ERC-20 token address")
	}
	if c.Contracts.Staking == "" {
		return stakeerr.WithSuggestion(stakeerr.WithDetails(stakeerr.ErrConfigInvalid, map[string]string{
			"field": "contracts.staking",
		}), "Set contracts.staking to the staking contract address")
	}

	for _, d := range []struct{ field, value string }{
		{"deadlines.staking_close", c.Deadlines.StakingClose},
		{"deadlines.unlock", c.Deadlines.Unlock},
	} {
		if _, err := time.Parse(time.RFC3339, d.value); err != nil {
			return stakeerr.WithSuggestion(stakeerr.WithDetails(stakeerr.ErrConfigInvalid, map[string]string{
				"field": d.field,
				"value": d.value,
			}), "Use an RFC3339 timestamp such as 2024-12-25T00:00:00Z")
		}
	}

	return nil
}

// StakingCloseAt returns the parsed staking window close deadline. Call
// Validate first; an unparsable value returns the zero time here.
func (c *Config) StakingCloseAt() time.Time {
	t, _ := time.Parse(time.RFC3339, c.Deadlines.StakingClose)
	return t
}

// UnlockAt returns the parsed withdrawal unlock deadline.
func (c *Config) UnlockAt() time.Time {
	t, _ := time.Parse(time.RFC3339, c.Deadlines.Unlock)
	return t
}

// PollInterval returns the balance polling cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Polling.IntervalSeconds) * time.Second
}

// DefaultHome returns the default stakectl home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stakectl"
	}
	return filepath.Join(home, ".stakectl")
}
