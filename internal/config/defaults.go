package config

// DefaultRPCURL is the default Ethereum RPC endpoint.
// Uses PublicNode (Allnodes), a privacy-first provider that requires no API key.
const DefaultRPCURL = "https://ethereum-rpc.publicnode.com"

// Campaign deadlines. The staking window closes before the unlock date so
// there is a holding period between the last stake and the first withdrawal.
const (
	DefaultStakingClose = "2024-12-21T00:00:00Z"
	DefaultUnlock       = "2024-12-25T00:00:00Z"
)

// DefaultPollIntervalSeconds is the background balance refresh cadence.
const DefaultPollIntervalSeconds = 30

// Defaults returns the default configuration. Contract addresses are left
// empty on purpose; Validate rejects a config that never filled them in.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.stakectl",
		Network: NetworkConfig{
			RPC:     DefaultRPCURL,
			ChainID: 1,
		},
		Wallet: WalletConfig{
			MnemonicFile: "~/.stakectl/mnemonic",
			Account:      0,
			Index:        0,
		},
		Deadlines: DeadlinesConfig{
			StakingClose: DefaultStakingClose,
			Unlock:       DefaultUnlock,
		},
		Polling: PollingConfig{
			IntervalSeconds: DefaultPollIntervalSeconds,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.stakectl/stakectl.log",
		},
	}
}
