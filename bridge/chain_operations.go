package bridge

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/hashicorp/go-hclog"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
	ethtxhelper "github.com/scroll-tech/scroll-sdk-cli-sub000/eth/txhelper"
)

const transferGasLimit = uint64(21_000)

// ChainOperations implements IChainOperations on top of a single rpc endpoint
type ChainOperations struct {
	txHelper ethtxhelper.IEthTxHelper
	chainID  *big.Int
	nodeURL  string
	logger   hclog.Logger
}

var _ IChainOperations = (*ChainOperations)(nil)

func NewChainOperations(
	ctx context.Context, nodeURL string, logger hclog.Logger, opts ...ethtxhelper.TxHelperOption,
) (*ChainOperations, error) {
	txHelper, err := ethtxhelper.NewEthTxHelper(
		append([]ethtxhelper.TxHelperOption{ethtxhelper.WithNodeURL(nodeURL)}, opts...)...)
	if err != nil {
		return nil, NewNetworkError(nodeURL, err)
	}

	chainID, err := txHelper.GetChainID(ctx)
	if err != nil {
		return nil, NewNetworkError(nodeURL, err)
	}

	return &ChainOperations{
		txHelper: txHelper,
		chainID:  chainID,
		nodeURL:  nodeURL,
		logger:   logger,
	}, nil
}

func (c *ChainOperations) TxHelper() ethtxhelper.IEthTxHelper {
	return c.txHelper
}

func (c *ChainOperations) GetChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

func (c *ChainOperations) GetBalance(ctx context.Context, addr ethcommon.Address) (*big.Int, error) {
	balance, err := c.txHelper.GetClient().BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, NewNetworkError(c.nodeURL, err)
	}

	return balance, nil
}

func (c *ChainOperations) GetCode(ctx context.Context, addr ethcommon.Address) ([]byte, error) {
	code, err := c.txHelper.GetClient().CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, NewNetworkError(c.nodeURL, err)
	}

	return code, nil
}

// WaitForTxSuccess blocks until the transaction is mined and returns an
// error if its receipt reports a reverted execution
func (c *ChainOperations) WaitForTxSuccess(ctx context.Context, hash string) error {
	receipt, err := c.txHelper.WaitForReceipt(ctx, hash)
	if err != nil {
		return err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction %s reverted in block %d", hash, receipt.BlockNumber)
	}

	c.logger.Debug("tx has been included in block",
		"hash", hash, "block", receipt.BlockNumber, "gas used", receipt.GasUsed)

	return nil
}

func (c *ChainOperations) TransferNative(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, to ethcommon.Address, amount *big.Int,
) (string, error) {
	tx, err := c.txHelper.SendTx(ctx, wallet,
		bind.TransactOpts{Value: amount, GasLimit: transferGasLimit},
		func(txOpts *bind.TransactOpts) (*types.Transaction, error) {
			return rawTransfer(ctx, c.txHelper, wallet, to, txOpts)
		})
	if err != nil {
		return "", err
	}

	c.logger.Info("native transfer has been sent", "hash", tx.Hash(), "to", to, "amount", amount)

	return tx.Hash().String(), c.WaitForTxSuccess(ctx, tx.Hash().String())
}

func (c *ChainOperations) DeployTestToken(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, name, symbol string,
) (string, string, error) {
	bytecode, err := common.DecodeHex(testTokenBytecodeHex)
	if err != nil {
		return "", "", err
	}

	addr, txHash, err := c.txHelper.Deploy(ctx, wallet, bind.TransactOpts{}, TestTokenABI, bytecode, name, symbol)
	if err != nil {
		return "", "", err
	}

	c.logger.Info("test token deployment has been sent", "hash", txHash, "address", addr)

	return addr, txHash, c.WaitForTxSuccess(ctx, txHash)
}

func (c *ChainOperations) TokenBalance(
	ctx context.Context, token, owner ethcommon.Address,
) (*big.Int, error) {
	bc := bind.NewBoundContract(token, TestTokenABI,
		c.txHelper.GetClient(), c.txHelper.GetClient(), c.txHelper.GetClient())

	var out []interface{}

	if err := bc.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", owner); err != nil {
		return nil, NewNetworkError(c.nodeURL, err)
	}

	balance, _ := out[0].(*big.Int)

	return balance, nil
}

func (c *ChainOperations) ApproveToken(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet,
	token, spender ethcommon.Address, amount *big.Int,
) (string, error) {
	bc := bind.NewBoundContract(token, TestTokenABI,
		c.txHelper.GetClient(), c.txHelper.GetClient(), c.txHelper.GetClient())

	tx, err := c.txHelper.SendTx(ctx, wallet, bind.TransactOpts{},
		func(txOpts *bind.TransactOpts) (*types.Transaction, error) {
			return bc.Transact(txOpts, "approve", spender, amount)
		})
	if err != nil {
		return "", err
	}

	c.logger.Info("token approval has been sent",
		"hash", tx.Hash(), "token", token, "spender", spender, "amount", amount)

	return tx.Hash().String(), c.WaitForTxSuccess(ctx, tx.Hash().String())
}

func rawTransfer(
	ctx context.Context, txHelper ethtxhelper.IEthTxHelper,
	wallet *ethtxhelper.EthTxWallet, to ethcommon.Address, txOpts *bind.TransactOpts,
) (*types.Transaction, error) {
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    txOpts.Nonce.Uint64(),
		To:       &to,
		Value:    txOpts.Value,
		Gas:      txOpts.GasLimit,
		GasPrice: txOpts.GasPrice,
	})

	signedTx, err := txOpts.Signer(wallet.GetAddress(), tx)
	if err != nil {
		return nil, err
	}

	if err := txHelper.GetClient().SendTransaction(ctx, signedTx); err != nil {
		return nil, err
	}

	return signedTx, nil
}
