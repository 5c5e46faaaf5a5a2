package dataprep

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptySource   = errors.New("source is empty")
	ErrNoRows        = errors.New("no data rows found")
	ErrMissingHeader = errors.New(`header row has no "` + DependentVariableHeader + `" column`)
)

// ReadFile reads a table from a .csv or .xlsx file. sheet selects the
// worksheet of a workbook; empty means the first one.
func ReadFile(path, sheet string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, sheet)
	default:
		return ReadCSV(f)
	}
}

// ReadCSV parses RFC 4180 input. Fields are trimmed and blank rows dropped;
// rows may differ in length.
func ReadCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptySource
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return clean(records), nil
}

// ReadXLSX reads one worksheet of a workbook.
func ReadXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptySource
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	rows = clean(rows)
	if len(rows) == 0 {
		return nil, ErrEmptySource
	}
	return rows, nil
}

func clean(records [][]string) [][]string {
	out := make([][]string, 0, len(records))
	for _, rec := range records {
		blank := true
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
			if rec[i] != "" {
				blank = false
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}
