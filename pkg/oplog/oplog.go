// Package oplog keeps the ordered audit trail of a run and persists it.
package oplog

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/logging"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// Log is an append-only list of operation records in execution order.
// It is owned by a single manager and is not safe for concurrent use.
type Log struct {
	records []types.OperationRecord
}

// New returns an empty log
func New() *Log {
	return &Log{}
}

// Append adds a record at the end
func (l *Log) Append(rec types.OperationRecord) {
	l.records = append(l.records, rec)
}

// Records returns a copy of the records
func (l *Log) Records() []types.OperationRecord {
	out := make([]types.OperationRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records
func (l *Log) Len() int {
	return len(l.records)
}

// Store persists a full log
type Store interface {
	Save(records []types.OperationRecord) error
}

// FileStore writes the log as an indented JSON array, replacing the file
type FileStore struct {
	FS   types.FS
	Path string
}

// NewFileStore returns a store writing to path
func NewFileStore(fsys types.FS, path string) *FileStore {
	return &FileStore{FS: fsys, Path: path}
}

// Save implements Store
func (s *FileStore) Save(records []types.OperationRecord) error {
	if records == nil {
		records = []types.OperationRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode operation log")
	}

	if err := s.FS.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(s.Path))
	}

	if err := s.FS.WriteFile(s.Path, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write operation log %s", s.Path).
			WithDetail("path", s.Path)
	}
	return nil
}

// Load reads a log previously written by Save. A missing file is an empty log.
func (s *FileStore) Load() ([]types.OperationRecord, error) {
	if _, err := s.FS.Stat(s.Path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect operation log %s", s.Path)
	}
	data, err := s.FS.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read operation log %s", s.Path)
	}
	var records []types.OperationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "operation log %s is not valid JSON", s.Path)
	}
	return records, nil
}

// Persist saves the log through store unless dryRun is set
func Persist(l *Log, store Store, dryRun bool) error {
	logger := logging.GetLogger("oplog")

	if dryRun {
		logger.Info().Int("records", l.Len()).Msg("[DRY RUN] Operation log not saved")
		return nil
	}

	if err := store.Save(l.Records()); err != nil {
		return err
	}
	logger.Info().Int("records", l.Len()).Msg("Operation log saved")
	return nil
}
