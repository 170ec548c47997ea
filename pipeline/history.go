package pipeline

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// HistoryDBFileName is the bolt database holding archived run records
const HistoryDBFileName = "e2e-test-history.db"

var completedRunsBucket = []byte("CompletedRuns")

// RunRecord is the archived form of a finished run
type RunRecord struct {
	FinishedAt time.Time      `json:"finishedAt"`
	Identity   string         `json:"identity"`
	State      *PipelineState `json:"state"`
}

// HistoryDB archives finished runs so past verification results stay
// inspectable after the checkpoint file is gone
type HistoryDB struct {
	db *bbolt.DB
}

func NewHistoryDB(dir string) (*HistoryDB, error) {
	db, err := bbolt.Open(filepath.Join(dir, HistoryDBFileName), 0660, nil)
	if err != nil {
		return nil, fmt.Errorf("could not open history db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(completedRunsBucket)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not create bucket: %s, err: %w",
			string(completedRunsBucket), err)
	}

	return &HistoryDB{db: db}, nil
}

func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Archive stores a finished run keyed by its completion timestamp. The
// private key is stripped from the archived copy, the caller's state is
// left untouched
func (h *HistoryDB) Archive(state *PipelineState) error {
	archived := *state
	archived.Identity.PrivateKey = ""

	record := RunRecord{
		FinishedAt: time.Now().UTC(),
		Identity:   state.Identity.Address,
		State:      &archived,
	}

	bytes, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal run record: %w", err)
	}

	return h.db.Update(func(tx *bbolt.Tx) error {
		key := []byte(record.FinishedAt.Format(time.RFC3339Nano))

		return tx.Bucket(completedRunsBucket).Put(key, bytes)
	})
}

// List returns every archived run in completion order
func (h *HistoryDB) List() ([]RunRecord, error) {
	var result []RunRecord

	err := h.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(completedRunsBucket).Cursor()

		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var record RunRecord

			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}

			result = append(result, record)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
