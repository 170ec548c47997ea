package bridge

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/hashicorp/go-hclog"
)

// IMessageQueueClient is the part of the rpc surface the resolver needs:
// receipt lookup plus read only contract calls. *ethclient.Client satisfies it
type IMessageQueueClient interface {
	bind.ContractCaller
	TransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error)
}

// CrossDomainMessageResolver maps a source chain bridge transaction to the
// message queue position it occupies and the transaction hash the bridge
// will produce on the destination chain
type CrossDomainMessageResolver struct {
	client    IMessageQueueClient
	queueAddr ethcommon.Address
	logger    hclog.Logger
}

func NewCrossDomainMessageResolver(
	client IMessageQueueClient, queueAddr ethcommon.Address, logger hclog.Logger,
) *CrossDomainMessageResolver {
	return &CrossDomainMessageResolver{
		client:    client,
		queueAddr: queueAddr,
		logger:    logger,
	}
}

func (r *CrossDomainMessageResolver) Resolve(
	ctx context.Context, sourceTxHash string,
) (*CrossDomainMessage, error) {
	receipt, err := r.client.TransactionReceipt(ctx, ethcommon.HexToHash(sourceTxHash))
	if err != nil {
		return nil, NewBridgingError("failed to retrieve receipt for "+sourceTxHash, err)
	}

	queueIndex, found, err := r.extractQueueIndex(receipt)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, NewBridgingError(
			"transaction "+sourceTxHash+" did not enqueue a cross domain message", nil)
	}

	destinationTxHash, err := r.destinationTxHash(ctx, queueIndex)
	if err != nil {
		return nil, NewBridgingError("failed to map queue index to destination tx", err)
	}

	r.logger.Debug("cross domain message resolved",
		"source", sourceTxHash, "queue index", queueIndex, "destination", destinationTxHash)

	return &CrossDomainMessage{
		SourceTxHash:      sourceTxHash,
		QueuePosition:     queueIndex,
		DestinationTxHash: destinationTxHash,
	}, nil
}

// extractQueueIndex scans the receipt logs for the QueueTransaction event
// emitted by the message queue contract
func (r *CrossDomainMessageResolver) extractQueueIndex(receipt *types.Receipt) (*big.Int, bool, error) {
	event := L1MessageQueueABI.Events["QueueTransaction"]

	for _, log := range receipt.Logs {
		if log.Address != r.queueAddr || len(log.Topics) == 0 || log.Topics[0] != event.ID {
			continue
		}

		values, err := event.Inputs.NonIndexed().Unpack(log.Data)
		if err != nil {
			return nil, false, NewBridgingError("failed to decode QueueTransaction event", err)
		}

		queueIndex, ok := values[1].(uint64)
		if !ok {
			return nil, false, NewBridgingError("unexpected queue index type in QueueTransaction event", nil)
		}

		return new(big.Int).SetUint64(queueIndex), true, nil
	}

	return nil, false, nil
}

func (r *CrossDomainMessageResolver) destinationTxHash(
	ctx context.Context, queueIndex *big.Int,
) (string, error) {
	bc := bind.NewBoundContract(r.queueAddr, L1MessageQueueABI, r.client, nil, nil)

	var out []interface{}

	if err := bc.Call(&bind.CallOpts{Context: ctx}, &out, "getCrossDomainMessage", queueIndex); err != nil {
		return "", err
	}

	hash, _ := out[0].([32]byte)

	return ethcommon.BytesToHash(hash[:]).String(), nil
}
