package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses a format name, defaulting to csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", errors.NewValidationError("export.format", s, "must be csv or xlsx")
}

// Writer writes one table to a file.
type Writer interface {
	Ext() string
	Write(path string, header []string, records [][]string) error
}

// NewWriter returns the writer for a format.
func NewWriter(format Format) Writer {
	if format == FormatXLSX {
		return xlsxWriter{}
	}
	return csvWriter{}
}

// Files are the paths of one export.
type Files struct {
	Lines    string
	Balances string
}

// WriteFiles writes the line and balance files into dir, stamped with now.
func (r *Result) WriteFiles(w Writer, dir string, now time.Time) (Files, error) {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return Files{}, errors.WrapIO("create", dir, err)
	}
	stamp := now.Format(constants.TimeFormatFilename)
	files := Files{
		Lines:    filepath.Join(dir, fmt.Sprintf("ledger_lines_%s.%s", stamp, w.Ext())),
		Balances: filepath.Join(dir, fmt.Sprintf("ledger_balances_%s.%s", stamp, w.Ext())),
	}

	lines := make([][]string, 0, len(r.Lines))
	for _, row := range r.Lines {
		lines = append(lines, row.Record())
	}
	if err := w.Write(files.Lines, LineHeader, lines); err != nil {
		return Files{}, err
	}

	balances := make([][]string, 0, len(r.Balances))
	for _, row := range r.Balances {
		balances = append(balances, row.Record())
	}
	if err := w.Write(files.Balances, BalanceHeader, balances); err != nil {
		return Files{}, err
	}
	return files, nil
}

type csvWriter struct{}

func (csvWriter) Ext() string { return "csv" }

func (csvWriter) Write(path string, header []string, records [][]string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := cw.WriteAll(records); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

type xlsxWriter struct{}

func (xlsxWriter) Ext() string { return "xlsx" }

func (xlsxWriter) Write(path string, header []string, records [][]string) (err error) {
	const sheet = "Sheet1"
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()

	rows := append([][]string{header}, records...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.WrapIO("write", path, err)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
