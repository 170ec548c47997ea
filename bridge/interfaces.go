package bridge

import (
	"context"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	ethtxhelper "github.com/scroll-tech/scroll-sdk-cli-sub000/eth/txhelper"
)

// CrossDomainMessage is the resolved counterpart of a source chain bridge
// transaction: the position it took in the bridge message queue and the
// hash of the transaction that will appear on the destination chain
type CrossDomainMessage struct {
	SourceTxHash      string
	QueuePosition     *big.Int
	DestinationTxHash string
}

// WithdrawalClaim carries everything needed to finalize an L2 initiated
// withdrawal on L1, as returned by the withdrawal indexer
type WithdrawalClaim struct {
	From        ethcommon.Address
	To          ethcommon.Address
	Value       *big.Int
	Nonce       *big.Int
	Message     []byte
	BatchIndex  *big.Int
	MerkleProof []byte
	Claimable   bool
}

// IChainOperations wraps a single network endpoint
type IChainOperations interface {
	GetChainID() *big.Int
	GetBalance(ctx context.Context, addr ethcommon.Address) (*big.Int, error)
	GetCode(ctx context.Context, addr ethcommon.Address) ([]byte, error)
	WaitForTxSuccess(ctx context.Context, hash string) error
	TransferNative(
		ctx context.Context, wallet *ethtxhelper.EthTxWallet, to ethcommon.Address, amount *big.Int) (string, error)
	DeployTestToken(
		ctx context.Context, wallet *ethtxhelper.EthTxWallet, name, symbol string) (string, string, error)
	TokenBalance(ctx context.Context, token, owner ethcommon.Address) (*big.Int, error)
	ApproveToken(
		ctx context.Context, wallet *ethtxhelper.EthTxWallet,
		token, spender ethcommon.Address, amount *big.Int) (string, error)
}

// IL1BridgeOperations drives the base chain side of the bridge
type IL1BridgeOperations interface {
	DepositETH(
		ctx context.Context, wallet *ethtxhelper.EthTxWallet,
		amount, fee *big.Int, gasLimit uint64) (string, error)
	DepositERC20(
		ctx context.Context, wallet *ethtxhelper.EthTxWallet,
		token ethcommon.Address, amount *big.Int, gasLimit uint64) (string, error)
	GetL2TokenAddress(ctx context.Context, l1Token ethcommon.Address) (ethcommon.Address, error)
	ResolveCrossDomainMessage(ctx context.Context, sourceTxHash string) (*CrossDomainMessage, error)
	RelayWithdrawal(
		ctx context.Context, wallet *ethtxhelper.EthTxWallet, claim *WithdrawalClaim) (string, error)
}

// IL2BridgeOperations drives the rollup side of the bridge
type IL2BridgeOperations interface {
	WithdrawETH(
		ctx context.Context, wallet *ethtxhelper.EthTxWallet,
		amount *big.Int, gasLimit uint64) (string, error)
	WithdrawERC20(
		ctx context.Context, wallet *ethtxhelper.EthTxWallet,
		token ethcommon.Address, amount *big.Int, gasLimit uint64) (string, error)
}

// IWithdrawalIndexer queries the external indexing api for withdrawal
// records tied to a user address
type IWithdrawalIndexer interface {
	GetWithdrawals(ctx context.Context, address string) ([]WithdrawalRecord, error)
}

// IWithdrawalClaimer executes the withdrawal claim procedure for a single
// L2 withdrawal transaction and returns the L1 claim transaction hash
type IWithdrawalClaimer interface {
	ClaimWithdrawal(
		ctx context.Context, wallet *ethtxhelper.EthTxWallet, withdrawTxHash string) (string, error)
}
