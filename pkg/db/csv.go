package db

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-tracker/pkg/rowcodec"
)

// csvStore keeps a collection in a headerless CSV file, one record per line.
// Row layout comes from the rowcodec tags on R.
type csvStore[T Record, R any] struct {
	path    string
	toRow   func(T) R
	fromRow func(R) (T, error)
	logger  *zap.Logger
}

func newCSVStore[T Record, R any](path string, toRow func(T) R, fromRow func(R) (T, error), logger *zap.Logger) *csvStore[T, R] {
	return &csvStore[T, R]{
		path:    path,
		toRow:   toRow,
		fromRow: fromRow,
		logger:  logger.With(zap.String("path", path)),
	}
}

func (s *csvStore[T, R]) Location() string {
	return s.path
}

// Load parses every line of the file, skipping malformed lines with a warning.
// Lines that are not valid CSV are split on plain commas, which is how files
// written without quoting are laid out.
func (s *csvStore[T, R]) Load() ([]T, error) {
	data, exists, err := readSnapshotFile(s.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Info("CSV file does not exist yet, starting empty")
		return nil, nil
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	var items []T
	for i := 0; i < len(lines); {
		line := i + 1
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}

		fields, consumed, ok := readCSVRecord(lines[i:])
		if !ok {
			s.logger.Debug("Line is not valid CSV, splitting on commas", zap.Int("line", line))
			fields, consumed = strings.Split(lines[i], ","), 1
		}
		i += consumed

		row, skipped, err := rowcodec.UnmarshalRow[R](fields)
		if err != nil {
			s.logger.Warn("Skipping malformed CSV line", zap.Int("line", line), zap.Strings("fields", fields), zap.Error(err))
			continue
		}
		for _, value := range skipped {
			s.logger.Warn("Ignoring invalid volunteer id in CSV line", zap.Int("line", line), zap.String("value", value))
		}

		item, err := s.fromRow(row)
		if err != nil {
			s.logger.Warn("Skipping invalid CSV record", zap.Int("line", line), zap.Error(err))
			continue
		}
		items = append(items, item)
	}

	s.logger.Debug("Loaded CSV file", zap.Int("count", len(items)))
	return items, nil
}

// readCSVRecord parses one strictly quoted CSV record starting at lines[0].
// A quoted field may span lines. Returns the number of lines consumed, or
// ok=false when the text is not a single valid record.
func readCSVRecord(lines []string) (fields []string, consumed int, ok bool) {
	record := lines[0]
	consumed = 1
	for strings.Count(record, `"`)%2 == 1 && consumed < len(lines) {
		record += "\n" + lines[consumed]
		consumed++
	}

	reader := csv.NewReader(strings.NewReader(record))
	reader.FieldsPerRecord = -1
	fields, err := reader.Read()
	if err != nil {
		return nil, 0, false
	}
	if _, err := reader.Read(); !errors.Is(err, io.EOF) {
		return nil, 0, false
	}
	return fields, consumed, true
}

// Save rewrites the whole file
func (s *csvStore[T, R]) Save(items []T) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, item := range items {
		fields, err := rowcodec.MarshalRow(s.toRow(item))
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", item.RecordID(), err)
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", item.RecordID(), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return err
	}

	s.logger.Debug("Saved CSV file", zap.Int("count", len(items)))
	return nil
}
