package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckpointStore(t *testing.T) {
	t.Run("load without a file", func(t *testing.T) {
		store := NewCheckpointStore(t.TempDir())

		_, err := store.Load()
		require.ErrorIs(t, err, ErrCheckpointNotFound)
	})

	t.Run("save and load round trip", func(t *testing.T) {
		store := NewCheckpointStore(t.TempDir())

		state := NewPipelineState()
		state.Identity = Identity{Address: "0x1111111111111111111111111111111111111111"}
		state.Stage(StageGenerateOrLoadIdentity).Completed = true
		state.Stage(StageBridgeNativeL1ToL2).TxHash = "0xdeadbeef"

		require.NoError(t, store.Save(state))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, state.Identity.Address, loaded.Identity.Address)
		require.True(t, loaded.IsCompleted(StageGenerateOrLoadIdentity))
		require.Equal(t, "0xdeadbeef", loaded.Stage(StageBridgeNativeL1ToL2).TxHash)
	})

	t.Run("save overwrites previous checkpoint", func(t *testing.T) {
		dir := t.TempDir()
		store := NewCheckpointStore(dir)

		state := NewPipelineState()
		state.Identity = Identity{Address: "0x1111111111111111111111111111111111111111"}
		require.NoError(t, store.Save(state))

		state.Stage(StageFundL1).Completed = true
		require.NoError(t, store.Save(state))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.True(t, loaded.IsCompleted(StageFundL1))

		// the temporary file from the atomic write does not linger
		_, err = os.Stat(filepath.Join(dir, CheckpointFileName+".tmp"))
		require.True(t, os.IsNotExist(err))
	})

	t.Run("corrupt file reported with path", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, CheckpointFileName)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		store := NewCheckpointStore(dir)

		_, err := store.Load()
		require.Error(t, err)

		corruptErr := &CorruptStateError{}
		require.ErrorAs(t, err, &corruptErr)
		require.Equal(t, path, corruptErr.Path)
	})
}
