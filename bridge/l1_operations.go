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

// L1ContractAddresses groups the base chain side of the deployed bridge
type L1ContractAddresses struct {
	MessageQueue  ethcommon.Address
	Messenger     ethcommon.Address
	ETHGateway    ethcommon.Address
	GatewayRouter ethcommon.Address
}

// L1BridgeOperations drives the deposit entry points and the withdrawal
// claim relay on the base chain
type L1BridgeOperations struct {
	chain    *ChainOperations
	addrs    L1ContractAddresses
	resolver *CrossDomainMessageResolver
	logger   hclog.Logger
}

var _ IL1BridgeOperations = (*L1BridgeOperations)(nil)

func NewL1BridgeOperations(
	chain *ChainOperations, addrs L1ContractAddresses, logger hclog.Logger,
) *L1BridgeOperations {
	return &L1BridgeOperations{
		chain:    chain,
		addrs:    addrs,
		resolver: NewCrossDomainMessageResolver(chain.TxHelper().GetClient(), addrs.MessageQueue, logger),
		logger:   logger,
	}
}

// DepositETH calls the native currency gateway deposit entry point. The
// sent value covers the bridged amount plus a fixed destination gas allowance
func (o *L1BridgeOperations) DepositETH(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, amount, fee *big.Int, gasLimit uint64,
) (string, error) {
	txHelper := o.chain.TxHelper()
	bc := bind.NewBoundContract(o.addrs.ETHGateway, L1ETHGatewayABI,
		txHelper.GetClient(), txHelper.GetClient(), txHelper.GetClient())

	value := new(big.Int).Add(amount, fee)

	tx, err := txHelper.SendTx(ctx, wallet, bind.TransactOpts{Value: value},
		func(txOpts *bind.TransactOpts) (*types.Transaction, error) {
			return bc.Transact(txOpts, "depositETH", amount, new(big.Int).SetUint64(gasLimit))
		})
	if err != nil {
		return "", NewBridgingError("depositETH call failed", err)
	}

	o.logger.Info("native deposit has been sent", "hash", tx.Hash(), "amount", amount, "fee", fee)

	if err := o.chain.WaitForTxSuccess(ctx, tx.Hash().String()); err != nil {
		return "", NewBridgingError("depositETH transaction failed", err)
	}

	return tx.Hash().String(), nil
}

func (o *L1BridgeOperations) DepositERC20(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet,
	token ethcommon.Address, amount *big.Int, gasLimit uint64,
) (string, error) {
	txHelper := o.chain.TxHelper()
	bc := bind.NewBoundContract(o.addrs.GatewayRouter, L1GatewayRouterABI,
		txHelper.GetClient(), txHelper.GetClient(), txHelper.GetClient())

	tx, err := txHelper.SendTx(ctx, wallet, bind.TransactOpts{},
		func(txOpts *bind.TransactOpts) (*types.Transaction, error) {
			return bc.Transact(txOpts, "depositERC20", token, amount, new(big.Int).SetUint64(gasLimit))
		})
	if err != nil {
		return "", NewBridgingError("depositERC20 call failed", err)
	}

	o.logger.Info("token deposit has been sent", "hash", tx.Hash(), "token", token, "amount", amount)

	if err := o.chain.WaitForTxSuccess(ctx, tx.Hash().String()); err != nil {
		return "", NewBridgingError("depositERC20 transaction failed", err)
	}

	return tx.Hash().String(), nil
}

// GetL2TokenAddress asks the gateway router which rollup side address the
// bridged counterpart of an L1 token will live at
func (o *L1BridgeOperations) GetL2TokenAddress(
	ctx context.Context, l1Token ethcommon.Address,
) (ethcommon.Address, error) {
	txHelper := o.chain.TxHelper()
	bc := bind.NewBoundContract(o.addrs.GatewayRouter, L1GatewayRouterABI,
		txHelper.GetClient(), nil, nil)

	var out []interface{}

	if err := bc.Call(&bind.CallOpts{Context: ctx}, &out, "getL2ERC20Address", l1Token); err != nil {
		return ethcommon.Address{}, NewBridgingError("getL2ERC20Address call failed", err)
	}

	addr, _ := out[0].(ethcommon.Address)

	return addr, nil
}

func (o *L1BridgeOperations) ResolveCrossDomainMessage(
	ctx context.Context, sourceTxHash string,
) (*CrossDomainMessage, error) {
	return o.resolver.Resolve(ctx, sourceTxHash)
}

// RelayWithdrawal submits the claim transaction finalizing an L2 initiated
// withdrawal, carrying the inclusion proof issued by the indexer
func (o *L1BridgeOperations) RelayWithdrawal(
	ctx context.Context, wallet *ethtxhelper.EthTxWallet, claim *WithdrawalClaim,
) (string, error) {
	txHelper := o.chain.TxHelper()
	bc := bind.NewBoundContract(o.addrs.Messenger, L1ScrollMessengerABI,
		txHelper.GetClient(), txHelper.GetClient(), txHelper.GetClient())

	proof := struct {
		BatchIndex  *big.Int `json:"batchIndex"`
		MerkleProof []byte   `json:"merkleProof"`
	}{
		BatchIndex:  claim.BatchIndex,
		MerkleProof: claim.MerkleProof,
	}

	tx, err := txHelper.SendTx(ctx, wallet, bind.TransactOpts{},
		func(txOpts *bind.TransactOpts) (*types.Transaction, error) {
			return bc.Transact(txOpts, "relayMessageWithProof",
				claim.From, claim.To, claim.Value, claim.Nonce, claim.Message, proof)
		})
	if err != nil {
		return "", NewBridgingError("relayMessageWithProof call failed", err)
	}

	o.logger.Info("withdrawal claim has been sent", "hash", tx.Hash(), "nonce", claim.Nonce)

	if err := o.chain.WaitForTxSuccess(ctx, tx.Hash().String()); err != nil {
		return "", NewBridgingError("relayMessageWithProof transaction failed", err)
	}

	return tx.Hash().String(), nil
}
