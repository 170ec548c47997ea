package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scroll-tech/scroll-sdk-cli-sub000/common"
)

// CheckpointFileName is the fixed name of the checkpoint file inside the
// working directory
const CheckpointFileName = "e2e-test-state.json"

var ErrCheckpointNotFound = errors.New("checkpoint not found")

// CorruptStateError signals that a checkpoint exists but cannot be parsed
// into a valid PipelineState. It is fatal on resume, silently restarting
// from scratch would re-spend funds
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt checkpoint %s: %v", e.Path, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

// IStateStore persists pipeline progress between stage transitions
type IStateStore interface {
	Load() (*PipelineState, error)
	Save(state *PipelineState) error
}

type CheckpointStore struct {
	path string
}

var _ IStateStore = (*CheckpointStore)(nil)

func NewCheckpointStore(dir string) *CheckpointStore {
	return &CheckpointStore{
		path: filepath.Join(dir, CheckpointFileName),
	}
}

func (c *CheckpointStore) Path() string {
	return c.path
}

func (c *CheckpointStore) Load() (*PipelineState, error) {
	state, err := common.LoadJSON[PipelineState](c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCheckpointNotFound
		}

		// an unreadable checkpoint is as fatal as an unparseable one
		return nil, &CorruptStateError{Path: c.path, Err: err}
	}

	if err := state.Validate(); err != nil {
		return nil, &CorruptStateError{Path: c.path, Err: err}
	}

	return state, nil
}

// Save writes the state atomically: content goes to a temporary file first
// and replaces the checkpoint via rename, so a crash cannot leave a half
// written file behind
func (c *CheckpointStore) Save(state *PipelineState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := c.path + ".tmp"

	if err := os.WriteFile(tmpPath, raw, 0600); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}

	return nil
}
