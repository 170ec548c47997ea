package cliteste2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/bridge"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/config"
	ethtxhelper "github.com/scroll-tech/scroll-sdk-cli-sub000/eth/txhelper"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/pipeline"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/telemetry"
)

const (
	configFlag        = "config"
	privateKeyFlag    = "private-key"
	skipWalletGenFlag = "skip-wallet-generation"
	manualFlag        = "manual"
	resumeFlag        = "resume"
	l2FundingFlag     = "l2-funding"
	stateDirFlag      = "state-dir"

	configFlagDesc        = "path to the toml configuration file"
	privateKeyFlagDesc    = "hex private key of the test identity. generated when omitted"
	skipWalletGenFlagDesc = "use the supplied private key instead of generating a wallet"
	manualFlagDesc        = "fund the test identity by hand instead of using the funder key"
	resumeFlagDesc        = "continue from the checkpoint of a previous interrupted run"
	l2FundingFlagDesc     = "how the l2 side gets gas money: bridge, funder or manual"
	stateDirFlagDesc      = "directory holding the checkpoint file and the run history db"
)

type testE2EParams struct {
	configPath    string
	privateKey    string
	skipWalletGen bool
	manual        bool
	resume        bool
	l2Funding     string
	stateDir      string

	config *config.Config
}

func (ip *testE2EParams) ValidateFlags() error {
	if ip.configPath == "" {
		return fmt.Errorf("--%s not specified", configFlag)
	}

	cfg, err := config.Load(ip.configPath)
	if err != nil {
		return err
	}

	if ip.skipWalletGen && ip.privateKey == "" {
		return fmt.Errorf("--%s requires --%s", skipWalletGenFlag, privateKeyFlag)
	}

	switch pipeline.FundingMethod(ip.l2Funding) {
	case pipeline.FundingMethodBridge, pipeline.FundingMethodFunder, pipeline.FundingMethodManual:
	default:
		return fmt.Errorf("invalid --%s: %s", l2FundingFlag, ip.l2Funding)
	}

	needsFunder := !ip.manual ||
		pipeline.FundingMethod(ip.l2Funding) == pipeline.FundingMethodFunder
	if needsFunder && cfg.Funder.PrivateKey == "" {
		return fmt.Errorf("funder.private_key missing from config, required unless --%s is set", manualFlag)
	}

	ip.config = cfg

	return nil
}

func (ip *testE2EParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&ip.configPath,
		configFlag,
		"",
		configFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.privateKey,
		privateKeyFlag,
		"",
		privateKeyFlagDesc,
	)

	cmd.Flags().BoolVar(
		&ip.skipWalletGen,
		skipWalletGenFlag,
		false,
		skipWalletGenFlagDesc,
	)

	cmd.Flags().BoolVar(
		&ip.manual,
		manualFlag,
		false,
		manualFlagDesc,
	)

	cmd.Flags().BoolVar(
		&ip.resume,
		resumeFlag,
		false,
		resumeFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.l2Funding,
		l2FundingFlag,
		string(pipeline.FundingMethodBridge),
		l2FundingFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.stateDir,
		stateDirFlag,
		".",
		stateDirFlagDesc,
	)
}

func (ip *testE2EParams) Execute(outputter common.OutputFormatter) (common.ICommandResult, error) {
	cfg := ip.config

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "bridge-e2e",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tlm := telemetry.NewTelemetry(cfg.Telemetry, logger.Named("telemetry"))
	if err := tlm.Start(); err != nil {
		return nil, err
	}

	defer func() {
		if err := tlm.Close(context.Background()); err != nil {
			logger.Error("failed to close telemetry", "err", err)
		}
	}()

	l1, err := bridge.NewChainOperations(ctx, cfg.L1.RPCURL, logger.Named("l1"))
	if err != nil {
		return nil, err
	}

	l2, err := bridge.NewChainOperations(ctx, cfg.L2.RPCURL, logger.Named("l2"))
	if err != nil {
		return nil, err
	}

	l1Bridge := bridge.NewL1BridgeOperations(l1, bridge.L1ContractAddresses{
		MessageQueue:  ethcommon.HexToAddress(cfg.Contracts.L1MessageQueue),
		Messenger:     ethcommon.HexToAddress(cfg.Contracts.L1ScrollMessenger),
		ETHGateway:    ethcommon.HexToAddress(cfg.Contracts.L1ETHGateway),
		GatewayRouter: ethcommon.HexToAddress(cfg.Contracts.L1GatewayRouter),
	}, logger.Named("l1-bridge"))

	l2Bridge := bridge.NewL2BridgeOperations(l2, bridge.L2ContractAddresses{
		ETHGateway:    ethcommon.HexToAddress(cfg.Contracts.L2ETHGateway),
		GatewayRouter: ethcommon.HexToAddress(cfg.Contracts.L2GatewayRouter),
	}, logger.Named("l2-bridge"))

	indexer := bridge.NewWithdrawalIndexClient(cfg.Indexer.BaseURL, logger.Named("indexer"))
	claimer := bridge.NewWithdrawalClaimer(
		indexer, l1Bridge, cfg.PollInterval(), cfg.Poll.MaxAttempts, logger.Named("claimer"))

	l1Funding, err := ip.fundingStrategy(ip.manual, l1, cfg.L1.RPCURL, cfg, outputter, logger)
	if err != nil {
		return nil, err
	}

	// with bridge funding the l2 side never sends anything itself
	var l2Funding pipeline.IFundingStrategy
	if pipeline.FundingMethod(ip.l2Funding) != pipeline.FundingMethodBridge {
		l2Funding, err = ip.fundingStrategy(
			pipeline.FundingMethod(ip.l2Funding) == pipeline.FundingMethodManual,
			l2, cfg.L2.RPCURL, cfg, outputter, logger)
		if err != nil {
			return nil, err
		}
	}

	store := pipeline.NewCheckpointStore(ip.stateDir)

	state, err := ip.loadState(store, logger)
	if err != nil {
		return nil, err
	}

	p := pipeline.NewPipeline(
		pipeline.Config{
			FundingAmount:   cfg.FundingAmount(),
			BridgeAmount:    cfg.BridgeAmount(),
			DepositFee:      cfg.DepositFee(),
			DepositGasLimit: cfg.Amounts.DepositGasLimit,
			L2FundingMethod: pipeline.FundingMethod(ip.l2Funding),
			PollInterval:    cfg.PollInterval(),
			MaxPollAttempts: cfg.Poll.MaxAttempts,
			L1GatewayRouter: ethcommon.HexToAddress(cfg.Contracts.L1GatewayRouter),
			L2GatewayRouter: ethcommon.HexToAddress(cfg.Contracts.L2GatewayRouter),
		},
		state, store,
		l1, l2, l1Bridge, l2Bridge, claimer,
		l1Funding, l2Funding,
		ip.privateKey,
		logger.Named("pipeline"),
	)

	_, _ = outputter.Write([]byte("Starting bridge verification run...\n"))
	outputter.WriteOutput()

	if err := p.Run(ctx); err != nil {
		return nil, err
	}

	if err := ip.archiveRun(p.State(), logger); err != nil {
		logger.Error("failed to archive finished run", "err", err)
	}

	return newCmdResult(cfg, p.State()), nil
}

func (ip *testE2EParams) fundingStrategy(
	manual bool, chain bridge.IChainOperations, rpcURL string,
	cfg *config.Config, outputter common.OutputFormatter, logger hclog.Logger,
) (pipeline.IFundingStrategy, error) {
	if manual {
		return pipeline.NewManualFunding(chain, rpcURL, outputter, logger.Named("funding")), nil
	}

	funderWallet, err := ethtxhelper.NewEthTxWallet(cfg.Funder.PrivateKey)
	if err != nil {
		return nil, bridge.NewConfigError(fmt.Sprintf("invalid funder.private_key: %v", err))
	}

	return pipeline.NewFunderTransfer(chain, funderWallet, logger.Named("funding")), nil
}

func (ip *testE2EParams) loadState(
	store *pipeline.CheckpointStore, logger hclog.Logger,
) (*pipeline.PipelineState, error) {
	if !ip.resume {
		return pipeline.NewPipelineState(), nil
	}

	state, err := store.Load()
	if err != nil {
		if errors.Is(err, pipeline.ErrCheckpointNotFound) {
			logger.Info("no checkpoint found, starting a fresh run")

			return pipeline.NewPipelineState(), nil
		}

		return nil, err
	}

	logger.Info("resuming from checkpoint", "identity", state.Identity.Address)

	return state, nil
}

func (ip *testE2EParams) archiveRun(state *pipeline.PipelineState, logger hclog.Logger) error {
	history, err := pipeline.NewHistoryDB(ip.stateDir)
	if err != nil {
		return err
	}

	defer func() {
		if err := history.Close(); err != nil {
			logger.Error("failed to close history db", "err", err)
		}
	}()

	return history.Archive(state)
}
