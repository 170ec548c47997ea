package pipeline

import (
	"context"
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-hclog"
	"github.com/sethvargo/go-retry"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/bridge"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
	ethtxhelper "github.com/scroll-tech/scroll-sdk-cli-sub000/eth/txhelper"
	"github.com/scroll-tech/scroll-sdk-cli-sub000/telemetry"
)

const (
	testTokenName   = "Bridge Test Token"
	testTokenSymbol = "BTT"
)

// Config carries the runtime knobs of a verification run
type Config struct {
	FundingAmount   *big.Int
	BridgeAmount    *big.Int
	DepositFee      *big.Int
	DepositGasLimit uint64
	L2FundingMethod FundingMethod
	PollInterval    time.Duration
	MaxPollAttempts uint64
	// gateway routers act as the erc20 spender on each chain
	L1GatewayRouter ethcommon.Address
	L2GatewayRouter ethcommon.Address
}

// Pipeline executes the full bridge verification sequence stage by stage,
// persisting a checkpoint after every completed stage so an interrupted run
// can be resumed from the first unfinished stage
type Pipeline struct {
	cfg   Config
	state *PipelineState
	store IStateStore

	l1 bridge.IChainOperations
	l2 bridge.IChainOperations

	l1Bridge bridge.IL1BridgeOperations
	l2Bridge bridge.IL2BridgeOperations
	claimer  bridge.IWithdrawalClaimer

	l1Funding IFundingStrategy
	l2Funding IFundingStrategy

	// externally supplied private key, empty when the pipeline should
	// generate a fresh identity
	operatorKey string
	wallet      *ethtxhelper.EthTxWallet

	logger hclog.Logger
}

func NewPipeline(
	cfg Config,
	state *PipelineState,
	store IStateStore,
	l1 bridge.IChainOperations,
	l2 bridge.IChainOperations,
	l1Bridge bridge.IL1BridgeOperations,
	l2Bridge bridge.IL2BridgeOperations,
	claimer bridge.IWithdrawalClaimer,
	l1Funding IFundingStrategy,
	l2Funding IFundingStrategy,
	operatorKey string,
	logger hclog.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		state:       state,
		store:       store,
		l1:          l1,
		l2:          l2,
		l1Bridge:    l1Bridge,
		l2Bridge:    l2Bridge,
		claimer:     claimer,
		l1Funding:   l1Funding,
		l2Funding:   l2Funding,
		operatorKey: operatorKey,
		logger:      logger,
	}
}

// State returns the live state aggregate of this run
func (p *Pipeline) State() *PipelineState {
	return p.state
}

// Run executes every stage in order, skipping the ones already marked as
// completed in the loaded state. The first failing stage aborts the run,
// everything completed so far stays persisted
func (p *Pipeline) Run(ctx context.Context) error {
	for _, name := range StageOrder {
		if p.state.IsCompleted(name) {
			p.logger.Info("stage already completed, skipping", "stage", name)

			if name == StageGenerateOrLoadIdentity {
				if err := p.restoreIdentity(); err != nil {
					return err
				}
			}

			continue
		}

		p.logger.Info("executing stage", "stage", name)

		start := time.Now()

		if err := p.runStage(ctx, name); err != nil {
			telemetry.UpdateStageFailed(string(name))

			return fmt.Errorf("stage %s failed: %w", name, err)
		}

		p.state.Stage(name).Completed = true

		if err := p.store.Save(p.state); err != nil {
			return fmt.Errorf("failed to persist checkpoint after stage %s: %w", name, err)
		}

		telemetry.UpdateStageExecuted(string(name), time.Since(start))

		p.logger.Info("stage completed", "stage", name, "duration", time.Since(start))
	}

	return nil
}

func (p *Pipeline) runStage(ctx context.Context, name StageName) error {
	switch name {
	case StageGenerateOrLoadIdentity:
		return p.generateOrLoadIdentity()
	case StageFundL1:
		return p.fundL1(ctx)
	case StageBridgeNativeL1ToL2:
		return p.bridgeNativeL1ToL2(ctx)
	case StageDeployTokenL1:
		return p.deployTokenL1(ctx)
	case StageBridgeTokenL1ToL2:
		return p.bridgeTokenL1ToL2(ctx)
	case StageFundL2:
		return p.fundL2(ctx)
	case StageAwaitNativeDepositOnL2:
		return p.awaitNativeDepositOnL2(ctx)
	case StageBridgeNativeL2ToL1:
		return p.bridgeNativeL2ToL1(ctx)
	case StageDeployTokenL2:
		return p.deployTokenL2(ctx)
	case StageAwaitTokenDepositOnL2:
		return p.awaitTokenDepositOnL2(ctx)
	case StageBridgeTokenL2ToL1:
		return p.bridgeTokenL2ToL1(ctx)
	case StageClaimNativeOnL1:
		return p.claimNativeOnL1(ctx)
	case StageClaimTokenOnL1:
		return p.claimTokenOnL1(ctx)
	default:
		return fmt.Errorf("unknown stage %s", name)
	}
}

// restoreIdentity rebuilds the wallet from a prior run. An externally
// supplied key always wins, otherwise the key persisted by the run that
// generated the identity is used
func (p *Pipeline) restoreIdentity() error {
	key := p.operatorKey
	if key == "" {
		key = p.state.Identity.PrivateKey
	}

	if key == "" {
		return bridge.NewConfigError(
			"cannot resume: state has no private key and none was supplied")
	}

	wallet, err := ethtxhelper.NewEthTxWallet(key)
	if err != nil {
		return bridge.NewConfigError(fmt.Sprintf("invalid private key: %v", err))
	}

	if p.state.Identity.Address != "" &&
		wallet.GetAddressHex() != p.state.Identity.Address {
		return bridge.NewConfigError(fmt.Sprintf(
			"private key does not match checkpointed identity %s", p.state.Identity.Address))
	}

	p.wallet = wallet

	return nil
}

func (p *Pipeline) generateOrLoadIdentity() error {
	if p.operatorKey != "" {
		wallet, err := ethtxhelper.NewEthTxWallet(p.operatorKey)
		if err != nil {
			return bridge.NewConfigError(fmt.Sprintf("invalid private key: %v", err))
		}

		p.wallet = wallet
		// the key came from the operator, it is never written to disk
		p.state.Identity = Identity{Address: wallet.GetAddressHex()}

		p.logger.Info("using supplied test identity", "address", wallet.GetAddressHex())

		return nil
	}

	wallet, err := ethtxhelper.GenerateNewEthTxWallet()
	if err != nil {
		return fmt.Errorf("failed to generate wallet: %w", err)
	}

	p.wallet = wallet
	p.state.Identity = Identity{
		Address:    wallet.GetAddressHex(),
		PrivateKey: wallet.GetHexPrivateKey(),
	}

	p.logger.Info("generated test identity", "address", wallet.GetAddressHex())

	return nil
}

func (p *Pipeline) fundL1(ctx context.Context) error {
	if err := p.l1Funding.EnsureBalance(
		ctx, p.wallet.GetAddress(), p.cfg.FundingAmount); err != nil {
		return err
	}

	result := p.state.Stage(StageFundL1)
	result.Method = string(p.l1Funding.Method())
	result.Amount = common.NewBigInt(p.cfg.FundingAmount)

	return nil
}

func (p *Pipeline) bridgeNativeL1ToL2(ctx context.Context) error {
	txHash, err := p.l1Bridge.DepositETH(
		ctx, p.wallet, p.cfg.BridgeAmount, p.cfg.DepositFee, p.cfg.DepositGasLimit)
	if err != nil {
		return err
	}

	msg, err := p.l1Bridge.ResolveCrossDomainMessage(ctx, txHash)
	if err != nil {
		return err
	}

	result := p.state.Stage(StageBridgeNativeL1ToL2)
	result.TxHash = txHash
	result.QueueIndex = common.NewBigInt(msg.QueuePosition)
	result.DestinationTxHash = msg.DestinationTxHash
	result.Amount = common.NewBigInt(p.cfg.BridgeAmount)

	p.logger.Info("native deposit submitted",
		"hash", txHash, "l2Hash", msg.DestinationTxHash, "queueIndex", msg.QueuePosition)

	return nil
}

func (p *Pipeline) deployTokenL1(ctx context.Context) error {
	addr, txHash, err := p.deployToken(ctx, p.l1)
	if err != nil {
		return err
	}

	result := p.state.Stage(StageDeployTokenL1)
	result.ContractAddress = addr
	result.TxHash = txHash

	p.logger.Info("test token deployed on l1", "address", addr, "hash", txHash)

	return nil
}

// deployToken deploys the test erc20 and verifies code actually landed at
// the reported address
func (p *Pipeline) deployToken(
	ctx context.Context, chain bridge.IChainOperations,
) (string, string, error) {
	addr, txHash, err := chain.DeployTestToken(ctx, p.wallet, testTokenName, testTokenSymbol)
	if err != nil {
		return "", "", err
	}

	code, err := chain.GetCode(ctx, ethcommon.HexToAddress(addr))
	if err != nil {
		return "", "", err
	}

	if len(code) == 0 {
		return "", "", bridge.NewDeploymentError(testTokenSymbol,
			fmt.Errorf("no code at %s after deploy tx %s", addr, txHash))
	}

	return addr, txHash, nil
}

func (p *Pipeline) bridgeTokenL1ToL2(ctx context.Context) error {
	tokenAddr := p.state.Stage(StageDeployTokenL1).ContractAddress
	if tokenAddr == "" {
		return bridge.NewBridgingError("l1 token address missing from state", nil)
	}

	token := ethcommon.HexToAddress(tokenAddr)

	balance, err := p.waitForTokenBalance(ctx, p.l1, token)
	if err != nil {
		return err
	}

	amount := new(big.Int).Div(balance, big.NewInt(2))

	// ApproveToken and DepositERC20 wait for their own receipts, by the
	// time they return the allowance and the deposit are both mined
	if _, err := p.l1.ApproveToken(
		ctx, p.wallet, token, p.cfg.L1GatewayRouter, amount); err != nil {
		return err
	}

	txHash, err := p.l1Bridge.DepositERC20(ctx, p.wallet, token, amount, p.cfg.DepositGasLimit)
	if err != nil {
		return err
	}

	l2Token, err := p.l1Bridge.GetL2TokenAddress(ctx, token)
	if err != nil {
		return err
	}

	msg, err := p.l1Bridge.ResolveCrossDomainMessage(ctx, txHash)
	if err != nil {
		return err
	}

	result := p.state.Stage(StageBridgeTokenL1ToL2)
	result.TxHash = txHash
	result.QueueIndex = common.NewBigInt(msg.QueuePosition)
	result.DestinationTxHash = msg.DestinationTxHash
	result.ContractAddress = l2Token.String()
	result.Amount = common.NewBigInt(amount)

	p.logger.Info("token deposit submitted",
		"hash", txHash, "l2Token", l2Token, "amount", amount)

	return nil
}

func (p *Pipeline) fundL2(ctx context.Context) error {
	result := p.state.Stage(StageFundL2)

	if p.cfg.L2FundingMethod == FundingMethodBridge {
		// the native deposit from l1 covers the l2 gas needs, nothing to send
		result.Method = string(FundingMethodBridge)

		return nil
	}

	if err := p.l2Funding.EnsureBalance(
		ctx, p.wallet.GetAddress(), p.cfg.FundingAmount); err != nil {
		return err
	}

	result.Method = string(p.l2Funding.Method())
	result.Amount = common.NewBigInt(p.cfg.FundingAmount)

	return nil
}

func (p *Pipeline) awaitNativeDepositOnL2(ctx context.Context) error {
	if p.cfg.L2FundingMethod != FundingMethodBridge {
		// l2 funds were sent directly, the run does not depend on the
		// native deposit landing before the withdrawal stages
		p.state.Stage(StageAwaitNativeDepositOnL2).Method = string(p.cfg.L2FundingMethod)

		p.logger.Info("l2 funded directly, not waiting for the native deposit")

		return nil
	}

	deposit := p.state.Stage(StageBridgeNativeL1ToL2)
	if deposit.DestinationTxHash == "" {
		return bridge.NewBridgingError("native deposit l2 hash missing from state", nil)
	}

	if err := p.l2.WaitForTxSuccess(ctx, deposit.DestinationTxHash); err != nil {
		return bridge.NewBridgingError("native deposit failed on l2", err)
	}

	result := p.state.Stage(StageAwaitNativeDepositOnL2)
	result.TxHash = deposit.DestinationTxHash

	p.logger.Info("native deposit landed on l2", "hash", deposit.DestinationTxHash)

	return nil
}

func (p *Pipeline) bridgeNativeL2ToL1(ctx context.Context) error {
	amount := new(big.Int).Div(p.cfg.BridgeAmount, big.NewInt(2))

	txHash, err := p.l2Bridge.WithdrawETH(ctx, p.wallet, amount, 0)
	if err != nil {
		return err
	}

	result := p.state.Stage(StageBridgeNativeL2ToL1)
	result.TxHash = txHash
	result.Amount = common.NewBigInt(amount)

	p.logger.Info("native withdrawal submitted", "hash", txHash, "amount", amount)

	return nil
}

func (p *Pipeline) deployTokenL2(ctx context.Context) error {
	addr, txHash, err := p.deployToken(ctx, p.l2)
	if err != nil {
		return err
	}

	result := p.state.Stage(StageDeployTokenL2)
	result.ContractAddress = addr
	result.TxHash = txHash

	p.logger.Info("test token deployed on l2", "address", addr, "hash", txHash)

	return nil
}

func (p *Pipeline) awaitTokenDepositOnL2(ctx context.Context) error {
	deposit := p.state.Stage(StageBridgeTokenL1ToL2)
	if deposit.DestinationTxHash == "" || deposit.ContractAddress == "" {
		return bridge.NewBridgingError("token deposit artifacts missing from state", nil)
	}

	if err := p.l2.WaitForTxSuccess(ctx, deposit.DestinationTxHash); err != nil {
		return bridge.NewBridgingError("token deposit failed on l2", err)
	}

	l2Token := ethcommon.HexToAddress(deposit.ContractAddress)

	balance, err := p.waitForTokenBalance(ctx, p.l2, l2Token)
	if err != nil {
		return err
	}

	result := p.state.Stage(StageAwaitTokenDepositOnL2)
	result.TxHash = deposit.DestinationTxHash
	result.Amount = common.NewBigInt(balance)

	p.logger.Info("token deposit landed on l2", "token", l2Token, "balance", balance)

	return nil
}

func (p *Pipeline) bridgeTokenL2ToL1(ctx context.Context) error {
	tokenAddr := p.state.Stage(StageBridgeTokenL1ToL2).ContractAddress
	if tokenAddr == "" {
		return bridge.NewBridgingError("l2 token address missing from state", nil)
	}

	token := ethcommon.HexToAddress(tokenAddr)

	balance, err := p.waitForTokenBalance(ctx, p.l2, token)
	if err != nil {
		return err
	}

	amount := new(big.Int).Div(balance, big.NewInt(2))

	if _, err := p.l2.ApproveToken(
		ctx, p.wallet, token, p.cfg.L2GatewayRouter, amount); err != nil {
		return err
	}

	txHash, err := p.l2Bridge.WithdrawERC20(ctx, p.wallet, token, amount, 0)
	if err != nil {
		return err
	}

	result := p.state.Stage(StageBridgeTokenL2ToL1)
	result.TxHash = txHash
	result.Amount = common.NewBigInt(amount)

	p.logger.Info("token withdrawal submitted", "hash", txHash, "amount", amount)

	return nil
}

func (p *Pipeline) claimNativeOnL1(ctx context.Context) error {
	return p.claimOnL1(ctx, StageBridgeNativeL2ToL1, StageClaimNativeOnL1)
}

func (p *Pipeline) claimTokenOnL1(ctx context.Context) error {
	return p.claimOnL1(ctx, StageBridgeTokenL2ToL1, StageClaimTokenOnL1)
}

func (p *Pipeline) claimOnL1(
	ctx context.Context, withdrawStage, claimStage StageName,
) error {
	withdrawHash := p.state.Stage(withdrawStage).TxHash
	if withdrawHash == "" {
		return bridge.NewBridgingError("withdrawal hash missing from state", nil)
	}

	claimHash, err := p.claimer.ClaimWithdrawal(ctx, p.wallet, withdrawHash)
	if err != nil {
		return err
	}

	result := p.state.Stage(claimStage)
	result.TxHash = claimHash

	p.logger.Info("withdrawal claimed on l1", "withdrawHash", withdrawHash, "claimHash", claimHash)

	return nil
}

// waitForTokenBalance polls until the wallet holds a non zero balance of
// the given token
func (p *Pipeline) waitForTokenBalance(
	ctx context.Context, chain bridge.IChainOperations, token ethcommon.Address,
) (*big.Int, error) {
	var balance *big.Int

	backoff := retry.NewConstant(p.cfg.PollInterval)
	if p.cfg.MaxPollAttempts > 0 {
		backoff = retry.WithMaxRetries(p.cfg.MaxPollAttempts, backoff)
	}

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		value, err := chain.TokenBalance(ctx, token, p.wallet.GetAddress())
		if err != nil {
			p.logger.Warn("token balance lookup failed, retrying", "token", token, "err", err)

			return retry.RetryableError(err)
		}

		if value.Sign() == 0 {
			return retry.RetryableError(fmt.Errorf("token %s balance still zero", token))
		}

		balance = value

		return nil
	})
	if err != nil {
		return nil, bridge.NewBridgingError("token balance never arrived", err)
	}

	return balance, nil
}
