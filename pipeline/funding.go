package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/big"
	"os"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-hclog"
	"github.com/mdp/qrterminal/v3"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/bridge"
	ethtxhelper "github.com/scroll-tech/scroll-sdk-cli-sub000/eth/txhelper"
)

type FundingMethod string

const (
	// transfer from a privileged funder key
	FundingMethodFunder FundingMethod = "funder"
	// operator sends funds by hand, confirmed with balance polling
	FundingMethodManual FundingMethod = "manual"
	// on L2 only: the native deposit bridged from L1 provides the funds
	FundingMethodBridge FundingMethod = "bridge"
)

// IFundingStrategy brings a target address up to the required balance
type IFundingStrategy interface {
	Method() FundingMethod
	EnsureBalance(ctx context.Context, target ethcommon.Address, amount *big.Int) error
}

// FunderTransfer funds the target directly from a privileged funder wallet
type FunderTransfer struct {
	chain  bridge.IChainOperations
	funder *ethtxhelper.EthTxWallet
	logger hclog.Logger
}

var _ IFundingStrategy = (*FunderTransfer)(nil)

func NewFunderTransfer(
	chain bridge.IChainOperations, funder *ethtxhelper.EthTxWallet, logger hclog.Logger,
) *FunderTransfer {
	return &FunderTransfer{
		chain:  chain,
		funder: funder,
		logger: logger,
	}
}

func (f *FunderTransfer) Method() FundingMethod { return FundingMethodFunder }

func (f *FunderTransfer) EnsureBalance(
	ctx context.Context, target ethcommon.Address, amount *big.Int,
) error {
	current, err := f.chain.GetBalance(ctx, target)
	if err != nil {
		return bridge.NewFundingError("failed to check target balance", err)
	}

	if current.Cmp(amount) >= 0 {
		f.logger.Debug("target already funded", "address", target, "balance", current)

		return nil
	}

	missing := new(big.Int).Sub(amount, current)

	funderBalance, err := f.chain.GetBalance(ctx, f.funder.GetAddress())
	if err != nil {
		return bridge.NewFundingError("failed to check funder balance", err)
	}

	if funderBalance.Cmp(missing) < 0 {
		return bridge.NewFundingError(
			fmt.Sprintf("funder %s balance %s does not cover required amount %s",
				f.funder.GetAddressHex(), funderBalance, missing), nil)
	}

	txHash, err := f.chain.TransferNative(ctx, f.funder, target, missing)
	if err != nil {
		return bridge.NewFundingError("funder transfer failed", err)
	}

	f.logger.Info("target funded from funder wallet", "address", target, "amount", missing, "hash", txHash)

	return nil
}

// ManualFunding renders an on screen payment request and polls the target
// balance each time the operator confirms readiness. It never times out on
// its own, it is bounded only by the operator giving up
type ManualFunding struct {
	chain   bridge.IChainOperations
	rpcURL  string
	out     io.Writer
	confirm func() error
	logger  hclog.Logger
}

var _ IFundingStrategy = (*ManualFunding)(nil)

func NewManualFunding(
	chain bridge.IChainOperations, rpcURL string, out io.Writer, logger hclog.Logger,
) *ManualFunding {
	m := &ManualFunding{
		chain:  chain,
		rpcURL: rpcURL,
		out:    out,
		logger: logger,
	}
	m.confirm = m.waitForOperator

	return m
}

func (m *ManualFunding) Method() FundingMethod { return FundingMethodManual }

func (m *ManualFunding) EnsureBalance(
	ctx context.Context, target ethcommon.Address, amount *big.Int,
) error {
	requestShown := false

	for {
		balance, err := m.chain.GetBalance(ctx, target)
		if err != nil {
			return bridge.NewFundingError("failed to check target balance", err)
		}

		if balance.Cmp(amount) >= 0 {
			m.logger.Info("manual funding confirmed", "address", target, "balance", balance)

			return nil
		}

		if !requestShown {
			m.renderPaymentRequest(target, amount, new(big.Int).Sub(amount, balance))

			requestShown = true
		} else {
			fmt.Fprintf(m.out, "Balance is still %s wei, %s wei missing.\n",
				balance, new(big.Int).Sub(amount, balance))
		}

		m.flush()

		if err := m.confirm(); err != nil {
			return bridge.NewFundingError("manual funding aborted", err)
		}

		select {
		case <-ctx.Done():
			return bridge.NewFundingError("manual funding cancelled", ctx.Err())
		default:
		}
	}
}

func (m *ManualFunding) renderPaymentRequest(target ethcommon.Address, amount, missing *big.Int) {
	chainID := m.chain.GetChainID()
	paymentURI := fmt.Sprintf("ethereum:%s@%d", target, chainID)

	fmt.Fprintf(m.out, "\nPlease send at least %s wei to the test wallet:\n\n", missing)
	fmt.Fprintf(m.out, "  Address   %s\n", target)
	fmt.Fprintf(m.out, "  Chain ID  %d\n", chainID)
	fmt.Fprintf(m.out, "  RPC URL   %s\n", m.rpcURL)
	fmt.Fprintf(m.out, "  Required  %s wei\n\n", amount)

	qrterminal.GenerateHalfBlock(paymentURI, qrterminal.L, m.out)
}

// flush forces buffering writers to show the payment request before the
// confirm prompt blocks
func (m *ManualFunding) flush() {
	if flusher, ok := m.out.(interface{ WriteOutput() }); ok {
		flusher.WriteOutput()
	}
}

func (m *ManualFunding) waitForOperator() error {
	fmt.Fprint(m.out, "Press enter once the funds have been sent... ")
	m.flush()

	_, err := bufio.NewReader(os.Stdin).ReadString('\n')

	return err
}
