package bridge

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/hashicorp/go-hclog"

	ethtxhelper "github.com/scroll-tech/scroll-sdk-cli-sub000/eth/txhelper"
)

// L2ContractAddresses groups the rollup side of the deployed bridge
type L2ContractAddresses struct {
	ETHGateway    ethcommon.Address
	GatewayRouter ethcommon.Address
}

// L2BridgeOperations drives the withdraw entry points on the rollup chain.
// Withdrawal finality is observed later through the withdrawal indexer, so
// no destination message resolution happens here
type L2BridgeOperations struct {
	chain  *ChainOperations
	addrs  L2ContractAddresses
	logger hclog.Logger
}

var _ IL2BridgeOperations = (*L2BridgeOperations)(nil)

func NewL2BridgeOperations(
	chain *ChainOperations, addrs L2ContractAddresses, logger hclog.Logger,
) *L2BridgeOperations {
	return &L2BridgeOperations{
		chain:  chain,
		addrs:  addrs,
		logger: logger,
	}
}

func (o *L2BridgeOperations) WithdrawETH(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, amount *big.Int, gasLimit uint64,
) (string, error) {
	txHelper := o.chain.TxHelper()
	bc := bind.NewBoundContract(o.addrs.ETHGateway, L2ETHGatewayABI,
		txHelper.GetClient(), txHelper.GetClient(), txHelper.GetClient())

	tx, err := txHelper.SendTx(ctx, wallet, bind.TransactOpts{Value: amount},
		func(txOpts *bind.TransactOpts) (*types.Transaction, error) {
			return bc.Transact(txOpts, "withdrawETH", amount, new(big.Int).SetUint64(gasLimit))
		})
	if err != nil {
		return "", NewBridgingError("withdrawETH call failed", err)
	}

	o.logger.Info("native withdrawal has been sent", "hash", tx.Hash(), "amount", amount)

	if err := o.chain.WaitForTxSuccess(ctx, tx.Hash().String()); err != nil {
		return "", NewBridgingError("withdrawETH transaction failed", err)
	}

	return tx.Hash().String(), nil
}

func (o *L2BridgeOperations) WithdrawERC20(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet,
	token ethcommon.Address, amount *big.Int, gasLimit uint64,
) (string, error) {
	txHelper := o.chain.TxHelper()
	bc := bind.NewBoundContract(o.addrs.GatewayRouter, L2GatewayRouterABI,
		txHelper.GetClient(), txHelper.GetClient(), txHelper.GetClient())

	tx, err := txHelper.SendTx(ctx, wallet, bind.TransactOpts{},
		func(txOpts *bind.TransactOpts) (*types.Transaction, error) {
			return bc.Transact(txOpts, "withdrawERC20", token, amount, new(big.Int).SetUint64(gasLimit))
		})
	if err != nil {
		return "", NewBridgingError("withdrawERC20 call failed", err)
	}

	o.logger.Info("token withdrawal has been sent", "hash", tx.Hash(), "token", token, "amount", amount)

	if err := o.chain.WaitForTxSuccess(ctx, tx.Hash().String()); err != nil {
		return "", NewBridgingError("withdrawERC20 transaction failed", err)
	}

	return tx.Hash().String(), nil
}
