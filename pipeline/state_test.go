package pipeline

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
)

func TestPipelineStateRoundTrip(t *testing.T) {
	// wei amounts routinely exceed the 53 bit float precision of plain json
	// numbers, the string codec must keep them exact
	hugeAmount, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	state := NewPipelineState()
	state.Identity = Identity{
		Address:    "0x1111111111111111111111111111111111111111",
		PrivateKey: "abcd",
	}
	state.Stage(StageBridgeNativeL1ToL2).Completed = true
	state.Stage(StageBridgeNativeL1ToL2).TxHash = "0xdeadbeef"
	state.Stage(StageBridgeNativeL1ToL2).QueueIndex = common.NewBigIntFromUint64(42)
	state.Stage(StageBridgeNativeL1ToL2).Amount = common.NewBigInt(hugeAmount)

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	loaded := NewPipelineState()
	require.NoError(t, json.Unmarshal(raw, loaded))

	record := loaded.Stage(StageBridgeNativeL1ToL2)
	require.True(t, record.Completed)
	require.Equal(t, "0xdeadbeef", record.TxHash)
	require.Equal(t, uint64(42), record.QueueIndex.Uint64())
	require.Equal(t, 0, record.Amount.ToInt().Cmp(hugeAmount))
}

func TestPipelineStateStageCreatesRecord(t *testing.T) {
	state := NewPipelineState()

	require.False(t, state.IsCompleted(StageFundL1))

	state.Stage(StageFundL1).Completed = true
	require.True(t, state.IsCompleted(StageFundL1))

	// a stage with a record but no completed flag is still unfinished
	state.Stage(StageFundL2).Method = "bridge"
	require.False(t, state.IsCompleted(StageFundL2))
}

func TestPipelineStateValidate(t *testing.T) {
	t.Run("completed identity needs an address", func(t *testing.T) {
		state := NewPipelineState()
		state.Stage(StageGenerateOrLoadIdentity).Completed = true

		require.Error(t, state.Validate())

		state.Identity.Address = "0x1111111111111111111111111111111111111111"
		require.NoError(t, state.Validate())
	})

	t.Run("nil stage record rejected", func(t *testing.T) {
		state := NewPipelineState()
		state.Stages[StageFundL1] = nil

		require.Error(t, state.Validate())
	})
}
