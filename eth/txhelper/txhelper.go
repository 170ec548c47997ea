package ethtxhelper

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	sdkcommon "github.com/scroll-tech/scroll-sdk-cli-sub000/common"
)

type SendTxFunc func(*bind.TransactOpts) (*types.Transaction, error)

const (
	defaultGasLimit         = uint64(500_000)
	defaultNumRetries       = 1000
	defaultGasFeeMultiplier = 170 // 170%
)

type IEthTxHelper interface {
	GetClient() *ethclient.Client
	GetChainID(ctx context.Context) (*big.Int, error)
	GetNonce(ctx context.Context, addr string, pending bool) (uint64, error)
	Deploy(ctx context.Context, wallet *EthTxWallet,
		txOptsParam bind.TransactOpts, abiData abi.ABI, bytecode []byte, params ...interface{}) (string, string, error)
	WaitForReceipt(ctx context.Context, hash string) (*types.Receipt, error)
	SendTx(ctx context.Context, wallet *EthTxWallet,
		txOpts bind.TransactOpts, sendTxHandler SendTxFunc) (*types.Transaction, error)
	PopulateTxOpts(ctx context.Context, from common.Address, txOpts *bind.TransactOpts) error
}

type EthTxHelperImpl struct {
	client           *ethclient.Client
	nodeURL          string
	numRetries       int
	receiptWaitTime  time.Duration
	gasFeeMultiplier uint64
	isDynamic        bool
	defaultGasLimit  uint64
	chainID          *big.Int
}

var _ IEthTxHelper = (*EthTxHelperImpl)(nil)

func NewEthTxHelper(opts ...TxHelperOption) (*EthTxHelperImpl, error) {
	t := &EthTxHelperImpl{
		receiptWaitTime:  500 * time.Millisecond,
		numRetries:       defaultNumRetries,
		gasFeeMultiplier: defaultGasFeeMultiplier,
		defaultGasLimit:  defaultGasLimit,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.client == nil {
		client, err := ethclient.Dial(t.nodeURL)
		if err != nil {
			return nil, err
		}

		t.client = client
	}

	return t, nil
}

func (t *EthTxHelperImpl) GetClient() *ethclient.Client {
	return t.client
}

func (t *EthTxHelperImpl) GetChainID(ctx context.Context) (*big.Int, error) {
	if t.chainID != nil {
		return t.chainID, nil
	}

	chainID, err := t.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	t.chainID = chainID

	return chainID, nil
}

func (t *EthTxHelperImpl) GetNonce(ctx context.Context, addr string, pending bool) (uint64, error) {
	if pending {
		return t.client.PendingNonceAt(ctx, common.HexToAddress(addr))
	}

	return t.client.NonceAt(ctx, common.HexToAddress(addr), nil)
}

func (t *EthTxHelperImpl) Deploy(
	ctx context.Context, wallet *EthTxWallet, txOptsParam bind.TransactOpts,
	abiData abi.ABI, bytecode []byte, params ...interface{},
) (string, string, error) {
	chainID, err := t.GetChainID(ctx)
	if err != nil {
		return "", "", err
	}

	txOpts, err := wallet.GetTransactOpts(chainID)
	if err != nil {
		return "", "", err
	}

	copyTxOpts(txOpts, &txOptsParam)

	if err := t.PopulateTxOpts(ctx, wallet.GetAddress(), txOpts); err != nil {
		return "", "", err
	}

	contractAddress, tx, _, err := bind.DeployContract(txOpts, abiData, bytecode, t.client, params...)
	if err != nil {
		return "", "", err
	}

	return contractAddress.String(), tx.Hash().String(), nil
}

func (t *EthTxHelperImpl) WaitForReceipt(ctx context.Context, hash string) (*types.Receipt, error) {
	for count := 0; count < t.numRetries; count++ {
		receipt, err := t.client.TransactionReceipt(ctx, common.HexToHash(hash))
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, err
		} else if receipt != nil {
			return receipt, nil
		}

		select {
		case <-time.After(t.receiptWaitTime):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("timeout while waiting for transaction %s to be processed", hash)
}

func (t *EthTxHelperImpl) SendTx(
	ctx context.Context, wallet *EthTxWallet, txOptsParam bind.TransactOpts, sendTxHandler SendTxFunc,
) (*types.Transaction, error) {
	chainID, err := t.GetChainID(ctx)
	if err != nil {
		return nil, err
	}

	txOpts, err := wallet.GetTransactOpts(chainID)
	if err != nil {
		return nil, err
	}

	copyTxOpts(txOpts, &txOptsParam)

	if err := t.PopulateTxOpts(ctx, wallet.GetAddress(), txOpts); err != nil {
		return nil, err
	}

	return sendTxHandler(txOpts)
}

func (t *EthTxHelperImpl) PopulateTxOpts(
	ctx context.Context, from common.Address, txOpts *bind.TransactOpts,
) error {
	txOpts.Context = ctx
	txOpts.From = from

	if txOpts.Nonce == nil {
		nonce, err := t.client.PendingNonceAt(ctx, txOpts.From)
		if err != nil {
			return err
		}

		txOpts.Nonce = new(big.Int).SetUint64(nonce)
	}

	if txOpts.GasLimit == 0 {
		txOpts.GasLimit = t.defaultGasLimit
	}

	if !t.isDynamic {
		if txOpts.GasPrice == nil {
			gasPrice, err := t.client.SuggestGasPrice(ctx)
			if err != nil {
				return err
			}

			txOpts.GasPrice = sdkcommon.MulPercentage(gasPrice, t.gasFeeMultiplier)
		}
	} else if txOpts.GasFeeCap == nil || txOpts.GasTipCap == nil {
		gasTipCap, err := t.client.SuggestGasTipCap(ctx)
		if err != nil {
			return err
		}

		txOpts.GasTipCap = sdkcommon.MulPercentage(gasTipCap, t.gasFeeMultiplier)

		hs, err := t.client.FeeHistory(ctx, 1, nil, nil)
		if err != nil {
			return err
		}

		gasFeeCap := hs.BaseFee[len(hs.BaseFee)-1]
		gasFeeCap = gasFeeCap.Add(gasFeeCap, gasTipCap)

		txOpts.GasFeeCap = sdkcommon.MulPercentage(gasFeeCap, t.gasFeeMultiplier)
	}

	return nil
}

type TxHelperOption func(*EthTxHelperImpl)

func WithClient(client *ethclient.Client) TxHelperOption {
	return func(t *EthTxHelperImpl) {
		t.client = client
	}
}

func WithNodeURL(nodeURL string) TxHelperOption {
	return func(t *EthTxHelperImpl) {
		t.nodeURL = nodeURL
	}
}

func WithDynamicTx(value bool) TxHelperOption {
	return func(t *EthTxHelperImpl) {
		t.isDynamic = value
	}
}

func WithReceiptWaitTime(receiptWaitTime time.Duration) TxHelperOption {
	return func(t *EthTxHelperImpl) {
		t.receiptWaitTime = receiptWaitTime
	}
}

// WithNumRetries sets the maximum number of eth_getTransactionReceipt retries
// before considering the transaction sending as timed out
func WithNumRetries(numRetries int) TxHelperOption {
	return func(t *EthTxHelperImpl) {
		t.numRetries = numRetries
	}
}

func WithGasFeeMultiplier(gasFeeMultiplier uint64) TxHelperOption {
	return func(t *EthTxHelperImpl) {
		t.gasFeeMultiplier = gasFeeMultiplier
	}
}

func WithDefaultGasLimit(gasLimit uint64) TxHelperOption {
	return func(t *EthTxHelperImpl) {
		t.defaultGasLimit = gasLimit
	}
}

func WithChainID(chainID *big.Int) TxHelperOption {
	return func(t *EthTxHelperImpl) {
		t.chainID = chainID
	}
}

func copyTxOpts(dst, src *bind.TransactOpts) {
	dst.NoSend = src.NoSend
	dst.GasPrice = src.GasPrice
	dst.GasFeeCap = src.GasFeeCap
	dst.GasTipCap = src.GasTipCap
	dst.GasLimit = src.GasLimit
	dst.Nonce = src.Nonce
	dst.Value = src.Value
}
