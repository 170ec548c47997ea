package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryDB(t *testing.T) {
	dir := t.TempDir()

	history, err := NewHistoryDB(dir)
	require.NoError(t, err)

	defer func() { require.NoError(t, history.Close()) }()

	records, err := history.List()
	require.NoError(t, err)
	require.Empty(t, records)

	state := NewPipelineState()
	state.Identity = Identity{
		Address:    "0x1111111111111111111111111111111111111111",
		PrivateKey: "super-secret",
	}
	state.Stage(StageGenerateOrLoadIdentity).Completed = true
	state.Stage(StageClaimTokenOnL1).Completed = true
	state.Stage(StageClaimTokenOnL1).TxHash = "0xclaim"

	require.NoError(t, history.Archive(state))

	records, err = history.List()
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.Equal(t, state.Identity.Address, records[0].Identity)
	require.True(t, records[0].State.IsCompleted(StageClaimTokenOnL1))
	require.Equal(t, "0xclaim", records[0].State.Stage(StageClaimTokenOnL1).TxHash)

	// keys never reach the archive, but the live state keeps its key
	require.Empty(t, records[0].State.Identity.PrivateKey)
	require.Equal(t, "super-secret", state.Identity.PrivateKey)
}
