package config

import (
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/telemetry"
)

type ChainConfig struct {
	Name        string `mapstructure:"name"`
	RPCURL      string `mapstructure:"rpc_url"`
	ChainID     uint64 `mapstructure:"chain_id"`
	ExplorerURL string `mapstructure:"explorer_url"`
}

type ContractsConfig struct {
	L1MessageQueue    string `mapstructure:"l1_message_queue"`
	L1ScrollMessenger string `mapstructure:"l1_scroll_messenger"`
	L1ETHGateway      string `mapstructure:"l1_eth_gateway"`
	L1GatewayRouter   string `mapstructure:"l1_gateway_router"`
	L2ETHGateway      string `mapstructure:"l2_eth_gateway"`
	L2GatewayRouter   string `mapstructure:"l2_gateway_router"`
}

type IndexerConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type FunderConfig struct {
	PrivateKey string `mapstructure:"private_key"`
}

type AmountsConfig struct {
	// decimal wei strings, validated into big integers
	Funding string `mapstructure:"funding"`
	Bridge  string `mapstructure:"bridge"`
	// fixed allowance added on top of a deposit to pay for destination gas
	DepositFee      string `mapstructure:"deposit_fee"`
	DepositGasLimit uint64 `mapstructure:"deposit_gas_limit"`
}

type PollConfig struct {
	IntervalSeconds uint64 `mapstructure:"interval_seconds"`
	// 0 means poll indefinitely
	MaxAttempts uint64 `mapstructure:"max_attempts"`
}

type Config struct {
	L1        ChainConfig               `mapstructure:"l1"`
	L2        ChainConfig               `mapstructure:"l2"`
	Contracts ContractsConfig           `mapstructure:"contracts"`
	Indexer   IndexerConfig             `mapstructure:"indexer"`
	Funder    FunderConfig              `mapstructure:"funder"`
	Amounts   AmountsConfig             `mapstructure:"amounts"`
	Poll      PollConfig                `mapstructure:"poll"`
	LogLevel  string                    `mapstructure:"log_level"`
	Telemetry telemetry.TelemetryConfig `mapstructure:"telemetry"`

	fundingAmount *big.Int
	bridgeAmount  *big.Int
	depositFee    *big.Int
}

const (
	defaultFundingAmount   = "4000000000000000" // 0.004 ether
	defaultBridgeAmount    = "1000000000000000" // 0.001 ether
	defaultDepositFee      = "500000000000000"  // covers destination gas
	defaultDepositGasLimit = uint64(170_000)
	defaultPollInterval    = uint64(5)
	defaultLogLevel        = "info"
)

// Load reads the toml configuration from the given path, applies
// defaults and validates required fields
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetDefault("amounts.funding", defaultFundingAmount)
	v.SetDefault("amounts.bridge", defaultBridgeAmount)
	v.SetDefault("amounts.deposit_fee", defaultDepositFee)
	v.SetDefault("amounts.deposit_gas_limit", defaultDepositGasLimit)
	v.SetDefault("poll.interval_seconds", defaultPollInterval)
	v.SetDefault("log_level", defaultLogLevel)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if !common.IsValidHTTPURL(c.L1.RPCURL) {
		return fmt.Errorf("missing or invalid l1.rpc_url: %s", c.L1.RPCURL)
	}

	if !common.IsValidHTTPURL(c.L2.RPCURL) {
		return fmt.Errorf("missing or invalid l2.rpc_url: %s", c.L2.RPCURL)
	}

	if !common.IsValidHTTPURL(c.Indexer.BaseURL) {
		return fmt.Errorf("missing or invalid indexer.base_url: %s", c.Indexer.BaseURL)
	}

	for name, addr := range map[string]string{
		"contracts.l1_message_queue":    c.Contracts.L1MessageQueue,
		"contracts.l1_scroll_messenger": c.Contracts.L1ScrollMessenger,
		"contracts.l1_eth_gateway":      c.Contracts.L1ETHGateway,
		"contracts.l1_gateway_router":   c.Contracts.L1GatewayRouter,
		"contracts.l2_eth_gateway":      c.Contracts.L2ETHGateway,
		"contracts.l2_gateway_router":   c.Contracts.L2GatewayRouter,
	} {
		if !ethcommon.IsHexAddress(addr) {
			return fmt.Errorf("missing or invalid %s: %s", name, addr)
		}
	}

	var ok bool

	if c.fundingAmount, ok = new(big.Int).SetString(c.Amounts.Funding, 10); !ok {
		return fmt.Errorf("invalid amounts.funding: %s", c.Amounts.Funding)
	}

	if c.bridgeAmount, ok = new(big.Int).SetString(c.Amounts.Bridge, 10); !ok {
		return fmt.Errorf("invalid amounts.bridge: %s", c.Amounts.Bridge)
	}

	if c.depositFee, ok = new(big.Int).SetString(c.Amounts.DepositFee, 10); !ok {
		return fmt.Errorf("invalid amounts.deposit_fee: %s", c.Amounts.DepositFee)
	}

	if c.Amounts.DepositGasLimit == 0 {
		return fmt.Errorf("amounts.deposit_gas_limit must be greater than zero")
	}

	if c.Poll.IntervalSeconds == 0 {
		return fmt.Errorf("poll.interval_seconds must be greater than zero")
	}

	return nil
}

func (c *Config) FundingAmount() *big.Int { return new(big.Int).Set(c.fundingAmount) }

func (c *Config) BridgeAmount() *big.Int { return new(big.Int).Set(c.bridgeAmount) }

func (c *Config) DepositFee() *big.Int { return new(big.Int).Set(c.depositFee) }

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}
