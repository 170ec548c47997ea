package pipeline

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/bridge"
)

func TestFunderTransfer(t *testing.T) {
	funder := newTestWallet(t)
	target := newTestWallet(t).GetAddress()
	required := big.NewInt(4_000_000)

	t.Run("target already funded", func(t *testing.T) {
		chainMock := &bridge.ChainOperationsMock{}
		chainMock.On("GetBalance", mock.Anything, target).Return(big.NewInt(5_000_000), nil)

		strategy := NewFunderTransfer(chainMock, funder, hclog.NewNullLogger())

		require.NoError(t, strategy.EnsureBalance(context.Background(), target, required))
		chainMock.AssertNotCalled(t, "TransferNative",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("transfers only the missing part", func(t *testing.T) {
		chainMock := &bridge.ChainOperationsMock{}
		chainMock.On("GetBalance", mock.Anything, target).Return(big.NewInt(1_000_000), nil)
		chainMock.On("GetBalance", mock.Anything, funder.GetAddress()).Return(big.NewInt(10_000_000), nil)
		chainMock.On("TransferNative", mock.Anything, funder, target, big.NewInt(3_000_000)).
			Return("0xfund", nil)

		strategy := NewFunderTransfer(chainMock, funder, hclog.NewNullLogger())

		require.NoError(t, strategy.EnsureBalance(context.Background(), target, required))
		chainMock.AssertExpectations(t)
	})

	t.Run("funder balance too low", func(t *testing.T) {
		chainMock := &bridge.ChainOperationsMock{}
		chainMock.On("GetBalance", mock.Anything, target).Return(big.NewInt(0), nil)
		chainMock.On("GetBalance", mock.Anything, funder.GetAddress()).Return(big.NewInt(100), nil)

		strategy := NewFunderTransfer(chainMock, funder, hclog.NewNullLogger())

		err := strategy.EnsureBalance(context.Background(), target, required)
		require.Error(t, err)

		fundingErr := &bridge.FundingError{}
		require.ErrorAs(t, err, &fundingErr)
		chainMock.AssertNotCalled(t, "TransferNative",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestManualFunding(t *testing.T) {
	target := newTestWallet(t).GetAddress()
	required := big.NewInt(4_000_000)

	t.Run("polls until the operator sends funds", func(t *testing.T) {
		chainMock := &bridge.ChainOperationsMock{}
		chainMock.On("GetChainID").Return(big.NewInt(1337))
		chainMock.On("GetBalance", mock.Anything, target).Return(big.NewInt(0), nil).Twice()
		chainMock.On("GetBalance", mock.Anything, target).Return(big.NewInt(5_000_000), nil).Once()

		out := &bytes.Buffer{}
		strategy := NewManualFunding(chainMock, "http://localhost:8545", out, hclog.NewNullLogger())

		confirms := 0
		strategy.confirm = func() error {
			confirms++

			return nil
		}

		require.NoError(t, strategy.EnsureBalance(context.Background(), target, required))
		require.Equal(t, 2, confirms)
		require.Contains(t, out.String(), target.String())
		require.Contains(t, out.String(), "1337")
	})

	t.Run("aborts when the operator gives up", func(t *testing.T) {
		chainMock := &bridge.ChainOperationsMock{}
		chainMock.On("GetChainID").Return(big.NewInt(1337))
		chainMock.On("GetBalance", mock.Anything, target).Return(big.NewInt(0), nil)

		strategy := NewManualFunding(
			chainMock, "http://localhost:8545", &bytes.Buffer{}, hclog.NewNullLogger())
		strategy.confirm = func() error {
			return errors.New("operator abort")
		}

		err := strategy.EnsureBalance(context.Background(), target, required)
		require.Error(t, err)
		require.ErrorContains(t, err, "manual funding aborted")
	})
}
