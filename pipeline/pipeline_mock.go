package pipeline

import (
	"context"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

type FundingStrategyMock struct {
	mock.Mock
}

var _ IFundingStrategy = (*FundingStrategyMock)(nil)

func (m *FundingStrategyMock) Method() FundingMethod {
	args := m.Called()

	return args.Get(0).(FundingMethod) //nolint:forcetypeassert
}

func (m *FundingStrategyMock) EnsureBalance(
	ctx context.Context, target ethcommon.Address, amount *big.Int,
) error {
	args := m.Called(ctx, target, amount)

	return args.Error(0)
}

type StateStoreMock struct {
	mock.Mock
}

var _ IStateStore = (*StateStoreMock)(nil)

func (m *StateStoreMock) Load() (*PipelineState, error) {
	args := m.Called()

	if state := args.Get(0); state != nil {
		return state.(*PipelineState), args.Error(1) //nolint:forcetypeassert
	}

	return nil, args.Error(1)
}

func (m *StateStoreMock) Save(state *PipelineState) error {
	args := m.Called(state)

	return args.Error(0)
}
