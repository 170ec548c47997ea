package bridge

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ethtxhelper "github.com/scroll-tech/scroll-sdk-cli-sub000/eth/txhelper"
)

const withdrawHash = "0xAbCd00000000000000000000000000000000000000000000000000000000beef"

func newClaimTestWallet(t *testing.T) *ethtxhelper.EthTxWallet {
	t.Helper()

	wallet, err := ethtxhelper.GenerateNewEthTxWallet()
	require.NoError(t, err)

	return wallet
}

func claimableRecord() WithdrawalRecord {
	return WithdrawalRecord{
		Hash:   withdrawHash,
		Amount: "500000",
		ClaimInfo: &ClaimInfo{
			From:    "0x1111111111111111111111111111111111111111",
			To:      "0x2222222222222222222222222222222222222222",
			Value:   "500000",
			Nonce:   "12",
			Message: "0x8eaac8a3",
			Proof: ClaimProof{
				BatchIndex:  "77",
				MerkleProof: "0x00112233",
			},
			Claimable: true,
		},
	}
}

func TestClaimWithdrawal(t *testing.T) {
	wallet := newClaimTestWallet(t)
	ctx := context.Background()

	t.Run("relays once the withdrawal is claimable", func(t *testing.T) {
		indexerMock := &WithdrawalIndexerMock{}
		l1Mock := &L1BridgeOperationsMock{}

		// hash case differences between indexer and local state must not matter
		record := claimableRecord()
		record.Hash = "0xabcd00000000000000000000000000000000000000000000000000000000BEEF"

		indexerMock.On("GetWithdrawals", mock.Anything, wallet.GetAddressHex()).
			Return([]WithdrawalRecord{record}, nil)
		l1Mock.On("RelayWithdrawal", mock.Anything, wallet, mock.Anything).Return("0xclaim", nil)

		claimer := NewWithdrawalClaimer(
			indexerMock, l1Mock, time.Millisecond, 5, hclog.NewNullLogger())

		claimHash, err := claimer.ClaimWithdrawal(ctx, wallet, withdrawHash)
		require.NoError(t, err)
		require.Equal(t, "0xclaim", claimHash)

		claim := l1Mock.Calls[0].Arguments.Get(2).(*WithdrawalClaim) //nolint:forcetypeassert
		require.Equal(t, big.NewInt(500000), claim.Value)
		require.Equal(t, big.NewInt(12), claim.Nonce)
		require.Equal(t, big.NewInt(77), claim.BatchIndex)
		require.Equal(t, []byte{0x00, 0x11, 0x22, 0x33}, claim.MerkleProof)
		require.True(t, claim.Claimable)
	})

	t.Run("already claimed returns the counterpart hash", func(t *testing.T) {
		indexerMock := &WithdrawalIndexerMock{}
		l1Mock := &L1BridgeOperationsMock{}

		record := claimableRecord()
		record.CounterpartTx = CounterpartTx{Hash: "0xpriorclaim"}

		indexerMock.On("GetWithdrawals", mock.Anything, wallet.GetAddressHex()).
			Return([]WithdrawalRecord{record}, nil)

		claimer := NewWithdrawalClaimer(
			indexerMock, l1Mock, time.Millisecond, 5, hclog.NewNullLogger())

		claimHash, err := claimer.ClaimWithdrawal(ctx, wallet, withdrawHash)
		require.NoError(t, err)
		require.Equal(t, "0xpriorclaim", claimHash)

		l1Mock.AssertNotCalled(t, "RelayWithdrawal", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejected claim is fatal", func(t *testing.T) {
		indexerMock := &WithdrawalIndexerMock{}
		l1Mock := &L1BridgeOperationsMock{}

		record := claimableRecord()
		record.ClaimInfo.Claimable = false

		indexerMock.On("GetWithdrawals", mock.Anything, wallet.GetAddressHex()).
			Return([]WithdrawalRecord{record}, nil)

		claimer := NewWithdrawalClaimer(
			indexerMock, l1Mock, time.Millisecond, 5, hclog.NewNullLogger())

		_, err := claimer.ClaimWithdrawal(ctx, wallet, withdrawHash)
		require.Error(t, err)
		require.ErrorContains(t, err, "rejected")

		l1Mock.AssertNotCalled(t, "RelayWithdrawal", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("waits through pending polls", func(t *testing.T) {
		indexerMock := &WithdrawalIndexerMock{}
		l1Mock := &L1BridgeOperationsMock{}

		pending := claimableRecord()
		pending.ClaimInfo = nil

		indexerMock.On("GetWithdrawals", mock.Anything, wallet.GetAddressHex()).
			Return([]WithdrawalRecord{pending}, nil).Twice()
		indexerMock.On("GetWithdrawals", mock.Anything, wallet.GetAddressHex()).
			Return([]WithdrawalRecord{claimableRecord()}, nil).Once()
		l1Mock.On("RelayWithdrawal", mock.Anything, wallet, mock.Anything).Return("0xclaim", nil)

		claimer := NewWithdrawalClaimer(
			indexerMock, l1Mock, time.Millisecond, 5, hclog.NewNullLogger())

		claimHash, err := claimer.ClaimWithdrawal(ctx, wallet, withdrawHash)
		require.NoError(t, err)
		require.Equal(t, "0xclaim", claimHash)

		indexerMock.AssertNumberOfCalls(t, "GetWithdrawals", 3)
	})

	t.Run("lookup errors are retried", func(t *testing.T) {
		indexerMock := &WithdrawalIndexerMock{}
		l1Mock := &L1BridgeOperationsMock{}

		indexerMock.On("GetWithdrawals", mock.Anything, wallet.GetAddressHex()).
			Return(nil, errors.New("indexer down")).Once()
		indexerMock.On("GetWithdrawals", mock.Anything, wallet.GetAddressHex()).
			Return([]WithdrawalRecord{claimableRecord()}, nil).Once()
		l1Mock.On("RelayWithdrawal", mock.Anything, wallet, mock.Anything).Return("0xclaim", nil)

		claimer := NewWithdrawalClaimer(
			indexerMock, l1Mock, time.Millisecond, 5, hclog.NewNullLogger())

		claimHash, err := claimer.ClaimWithdrawal(ctx, wallet, withdrawHash)
		require.NoError(t, err)
		require.Equal(t, "0xclaim", claimHash)
	})

	t.Run("stops polling once the context is gone", func(t *testing.T) {
		indexerMock := &WithdrawalIndexerMock{}
		l1Mock := &L1BridgeOperationsMock{}

		indexerMock.On("GetWithdrawals", mock.Anything, wallet.GetAddressHex()).
			Return(nil, context.Canceled)

		claimer := NewWithdrawalClaimer(
			indexerMock, l1Mock, time.Millisecond, 5, hclog.NewNullLogger())

		_, err := claimer.ClaimWithdrawal(ctx, wallet, withdrawHash)
		require.ErrorIs(t, err, context.Canceled)

		indexerMock.AssertNumberOfCalls(t, "GetWithdrawals", 1)
		l1Mock.AssertNotCalled(t, "RelayWithdrawal", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		indexerMock := &WithdrawalIndexerMock{}
		l1Mock := &L1BridgeOperationsMock{}

		indexerMock.On("GetWithdrawals", mock.Anything, wallet.GetAddressHex()).
			Return([]WithdrawalRecord{}, nil)

		claimer := NewWithdrawalClaimer(
			indexerMock, l1Mock, time.Millisecond, 2, hclog.NewNullLogger())

		_, err := claimer.ClaimWithdrawal(ctx, wallet, withdrawHash)
		require.Error(t, err)
		require.ErrorIs(t, err, errClaimPending)
	})
}
