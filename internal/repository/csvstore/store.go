// Package csvstore persists the roster and the booking ledger as flat
// CSV files. Each mutation reads the whole file into memory, applies the
// change, and rewrites the file in full through a temp-file rename.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/sergiokmpos/PersonalTrainerAgenda/pkg/errors"
)

// readAll loads every data row of the file at path. A missing file is not
// an error: it loads as an empty table. Any other failure, including a
// header mismatch, surfaces as StorageUnavailable.
func readAll(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.StorageUnavailable(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.StorageUnavailable(fmt.Errorf("read %s: %w", path, err))
	}
	if len(records) == 0 {
		return nil, nil
	}

	for i, col := range records[0] {
		if col != header[i] {
			return nil, apperrors.StorageUnavailable(fmt.Errorf("unexpected header %q in %s", records[0], path))
		}
	}
	return records[1:], nil
}

// writeAll rewrites the file at path with the header and rows. The write
// goes to a temp file in the same directory and is renamed into place so
// a crash mid-write never truncates the table.
func writeAll(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return apperrors.StorageUnavailable(err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.StorageUnavailable(err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return apperrors.StorageUnavailable(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.StorageUnavailable(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.StorageUnavailable(err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.StorageUnavailable(err)
	}
	return nil
}
