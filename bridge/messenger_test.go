package bridge

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type messageQueueClientMock struct {
	mock.Mock
}

var _ IMessageQueueClient = (*messageQueueClientMock)(nil)

func (m *messageQueueClientMock) CodeAt(
	ctx context.Context, contract ethcommon.Address, blockNumber *big.Int,
) ([]byte, error) {
	args := m.Called(ctx, contract, blockNumber)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	arg0, _ := args.Get(0).([]byte)

	return arg0, args.Error(1)
}

func (m *messageQueueClientMock) CallContract(
	ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int,
) ([]byte, error) {
	args := m.Called(ctx, call, blockNumber)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	arg0, _ := args.Get(0).([]byte)

	return arg0, args.Error(1)
}

func (m *messageQueueClientMock) TransactionReceipt(
	ctx context.Context, txHash ethcommon.Hash,
) (*types.Receipt, error) {
	args := m.Called(ctx, txHash)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	arg0, _ := args.Get(0).(*types.Receipt)

	return arg0, args.Error(1)
}

func TestCrossDomainMessageResolver(t *testing.T) {
	queueAddr := ethcommon.HexToAddress("0x5555555555555555555555555555555555555555")
	sourceTxHash := "0x00000000000000000000000000000000000000000000000000000000000000aa"
	ctx := context.Background()

	event := L1MessageQueueABI.Events["QueueTransaction"]

	queueLog := func(addr ethcommon.Address, queueIndex uint64) *types.Log {
		data, err := event.Inputs.NonIndexed().Pack(
			big.NewInt(1_500_000), queueIndex, big.NewInt(170_000), []byte{0x01, 0x02})
		require.NoError(t, err)

		return &types.Log{
			Address: addr,
			Topics: []ethcommon.Hash{
				event.ID,
				ethcommon.HexToHash("0x1111111111111111111111111111111111111111"),
				ethcommon.HexToHash("0x2222222222222222222222222222222222222222"),
			},
			Data: data,
		}
	}

	t.Run("resolves queue index and destination hash", func(t *testing.T) {
		destinationHash := ethcommon.HexToHash("0xbeef")

		clientMock := &messageQueueClientMock{}
		clientMock.On("TransactionReceipt", mock.Anything, ethcommon.HexToHash(sourceTxHash)).
			Return(&types.Receipt{
				Status: types.ReceiptStatusSuccessful,
				Logs:   []*types.Log{queueLog(queueAddr, 42)},
			}, nil)

		output, err := L1MessageQueueABI.Methods["getCrossDomainMessage"].Outputs.Pack(
			[32]byte(destinationHash))
		require.NoError(t, err)

		clientMock.On("CallContract", mock.Anything, mock.Anything, mock.Anything).
			Return(output, nil)

		resolver := NewCrossDomainMessageResolver(clientMock, queueAddr, hclog.NewNullLogger())

		msg, err := resolver.Resolve(ctx, sourceTxHash)
		require.NoError(t, err)
		require.Equal(t, sourceTxHash, msg.SourceTxHash)
		require.Equal(t, uint64(42), msg.QueuePosition.Uint64())
		require.Equal(t, destinationHash.String(), msg.DestinationTxHash)
	})

	t.Run("logs from other contracts ignored", func(t *testing.T) {
		otherAddr := ethcommon.HexToAddress("0x6666666666666666666666666666666666666666")

		clientMock := &messageQueueClientMock{}
		clientMock.On("TransactionReceipt", mock.Anything, mock.Anything).
			Return(&types.Receipt{
				Status: types.ReceiptStatusSuccessful,
				Logs:   []*types.Log{queueLog(otherAddr, 42)},
			}, nil)

		resolver := NewCrossDomainMessageResolver(clientMock, queueAddr, hclog.NewNullLogger())

		_, err := resolver.Resolve(ctx, sourceTxHash)
		require.Error(t, err)
		require.ErrorContains(t, err, "did not enqueue a cross domain message")

		clientMock.AssertNotCalled(t, "CallContract", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("transaction without queue event", func(t *testing.T) {
		clientMock := &messageQueueClientMock{}
		clientMock.On("TransactionReceipt", mock.Anything, mock.Anything).
			Return(&types.Receipt{Status: types.ReceiptStatusSuccessful}, nil)

		resolver := NewCrossDomainMessageResolver(clientMock, queueAddr, hclog.NewNullLogger())

		_, err := resolver.Resolve(ctx, sourceTxHash)
		require.Error(t, err)
		require.ErrorContains(t, err, "did not enqueue a cross domain message")
	})

	t.Run("receipt lookup failure", func(t *testing.T) {
		clientMock := &messageQueueClientMock{}
		clientMock.On("TransactionReceipt", mock.Anything, mock.Anything).
			Return(nil, errors.New("not found"))

		resolver := NewCrossDomainMessageResolver(clientMock, queueAddr, hclog.NewNullLogger())

		_, err := resolver.Resolve(ctx, sourceTxHash)
		require.Error(t, err)
		require.ErrorContains(t, err, "failed to retrieve receipt")
	})
}
