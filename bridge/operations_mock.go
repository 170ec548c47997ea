package bridge

import (
	"context"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	ethtxhelper "github.com/scroll-tech/scroll-sdk-cli-sub000/eth/txhelper"
)

type ChainOperationsMock struct {
	mock.Mock
}

var _ IChainOperations = (*ChainOperationsMock)(nil)

func (m *ChainOperationsMock) GetChainID() *big.Int {
	args := m.Called()

	arg0, _ := args.Get(0).(*big.Int)

	return arg0
}

func (m *ChainOperationsMock) GetBalance(
	ctx context.Context, addr ethcommon.Address,
) (*big.Int, error) {
	args := m.Called(ctx, addr)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	arg0, _ := args.Get(0).(*big.Int)

	return arg0, args.Error(1)
}

func (m *ChainOperationsMock) GetCode(
	ctx context.Context, addr ethcommon.Address,
) ([]byte, error) {
	args := m.Called(ctx, addr)

	arg0, _ := args.Get(0).([]byte)

	return arg0, args.Error(1)
}

func (m *ChainOperationsMock) WaitForTxSuccess(ctx context.Context, hash string) error {
	return m.Called(ctx, hash).Error(0)
}

func (m *ChainOperationsMock) TransferNative(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, to ethcommon.Address, amount *big.Int,
) (string, error) {
	args := m.Called(ctx, wallet, to, amount)

	return args.String(0), args.Error(1)
}

func (m *ChainOperationsMock) DeployTestToken(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, name, symbol string,
) (string, string, error) {
	args := m.Called(ctx, wallet, name, symbol)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *ChainOperationsMock) TokenBalance(
	ctx context.Context, token, owner ethcommon.Address,
) (*big.Int, error) {
	args := m.Called(ctx, token, owner)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	arg0, _ := args.Get(0).(*big.Int)

	return arg0, args.Error(1)
}

func (m *ChainOperationsMock) ApproveToken(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet,
	token, spender ethcommon.Address, amount *big.Int,
) (string, error) {
	args := m.Called(ctx, wallet, token, spender, amount)

	return args.String(0), args.Error(1)
}

type L1BridgeOperationsMock struct {
	mock.Mock
}

var _ IL1BridgeOperations = (*L1BridgeOperationsMock)(nil)

func (m *L1BridgeOperationsMock) DepositETH(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, amount, fee *big.Int, gasLimit uint64,
) (string, error) {
	args := m.Called(ctx, wallet, amount, fee, gasLimit)

	return args.String(0), args.Error(1)
}

func (m *L1BridgeOperationsMock) DepositERC20(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet,
	token ethcommon.Address, amount *big.Int, gasLimit uint64,
) (string, error) {
	args := m.Called(ctx, wallet, token, amount, gasLimit)

	return args.String(0), args.Error(1)
}

func (m *L1BridgeOperationsMock) GetL2TokenAddress(
	ctx context.Context, l1Token ethcommon.Address,
) (ethcommon.Address, error) {
	args := m.Called(ctx, l1Token)

	arg0, _ := args.Get(0).(ethcommon.Address)

	return arg0, args.Error(1)
}

func (m *L1BridgeOperationsMock) ResolveCrossDomainMessage(
	ctx context.Context, sourceTxHash string,
) (*CrossDomainMessage, error) {
	args := m.Called(ctx, sourceTxHash)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	arg0, _ := args.Get(0).(*CrossDomainMessage)

	return arg0, args.Error(1)
}

func (m *L1BridgeOperationsMock) RelayWithdrawal(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, claim *WithdrawalClaim,
) (string, error) {
	args := m.Called(ctx, wallet, claim)

	return args.String(0), args.Error(1)
}

type L2BridgeOperationsMock struct {
	mock.Mock
}

var _ IL2BridgeOperations = (*L2BridgeOperationsMock)(nil)

func (m *L2BridgeOperationsMock) WithdrawETH(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, amount *big.Int, gasLimit uint64,
) (string, error) {
	args := m.Called(ctx, wallet, amount, gasLimit)

	return args.String(0), args.Error(1)
}

func (m *L2BridgeOperationsMock) WithdrawERC20(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet,
	token ethcommon.Address, amount *big.Int, gasLimit uint64,
) (string, error) {
	args := m.Called(ctx, wallet, token, amount, gasLimit)

	return args.String(0), args.Error(1)
}

type WithdrawalIndexerMock struct {
	mock.Mock
}

var _ IWithdrawalIndexer = (*WithdrawalIndexerMock)(nil)

func (m *WithdrawalIndexerMock) GetWithdrawals(
	ctx context.Context, address string,
) ([]WithdrawalRecord, error) {
	args := m.Called(ctx, address)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	arg0, _ := args.Get(0).([]WithdrawalRecord)

	return arg0, args.Error(1)
}

type WithdrawalClaimerMock struct {
	mock.Mock
}

var _ IWithdrawalClaimer = (*WithdrawalClaimerMock)(nil)

func (m *WithdrawalClaimerMock) ClaimWithdrawal(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, withdrawTxHash string,
) (string, error) {
	args := m.Called(ctx, wallet, withdrawTxHash)

	return args.String(0), args.Error(1)
}
