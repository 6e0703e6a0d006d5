package db

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// jsonStore keeps a collection as an indented JSON array of objects
type jsonStore[T Record, R any] struct {
	path    string
	toRow   func(T) R
	fromRow func(R) (T, error)
	logger  *zap.Logger
}

func newJSONStore[T Record, R any](path string, toRow func(T) R, fromRow func(R) (T, error), logger *zap.Logger) *jsonStore[T, R] {
	return &jsonStore[T, R]{
		path:    path,
		toRow:   toRow,
		fromRow: fromRow,
		logger:  logger.With(zap.String("path", path)),
	}
}

func (s *jsonStore[T, R]) Location() string {
	return s.path
}

// Load decodes the array, skipping entries that are not valid records
func (s *jsonStore[T, R]) Load() ([]T, error) {
	data, exists, err := readSnapshotFile(s.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Info("JSON file does not exist yet, starting empty")
		return nil, nil
	}

	items, err := decodeJSONRecords(data, s.fromRow, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	s.logger.Debug("Loaded JSON file", zap.Int("count", len(items)))
	return items, nil
}

// Save rewrites the whole file with indentation
func (s *jsonStore[T, R]) Save(items []T) error {
	data, err := encodeJSONRecords(items, s.toRow, "    ")
	if err != nil {
		return err
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}

	s.logger.Debug("Saved JSON file", zap.Int("count", len(items)))
	return nil
}

// decodeJSONRecords parses a JSON array of row objects.
// A document that is not an array fails as a whole; individual entries that
// are not objects or do not decode are skipped with a warning.
func decodeJSONRecords[T Record, R any](data []byte, fromRow func(R) (T, error), logger *zap.Logger) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("document is not a JSON array: %w", err)
	}

	items := make([]T, 0, len(entries))
	for i, entry := range entries {
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			logger.Warn("Skipping non-object value in JSON array", zap.Int("index", i))
			continue
		}

		var row R
		if err := json.Unmarshal(trimmed, &row); err != nil {
			logger.Warn("Skipping malformed JSON record", zap.Int("index", i), zap.Error(err))
			continue
		}

		item, err := fromRow(row)
		if err != nil {
			logger.Warn("Skipping invalid JSON record", zap.Int("index", i), zap.Error(err))
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// encodeJSONRecords renders items as a JSON array; indent "" gives compact output
func encodeJSONRecords[T Record, R any](items []T, toRow func(T) R, indent string) ([]byte, error) {
	rows := make([]R, 0, len(items))
	for _, item := range items {
		rows = append(rows, toRow(item))
	}

	var (
		data []byte
		err  error
	)
	if indent == "" {
		data, err = json.Marshal(rows)
	} else {
		data, err = json.MarshalIndent(rows, "", indent)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return data, nil
}
