package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Marker columns that identify the genuine header row of a ServQuick POS
// export. Leading rows may be titles or metadata; the first row containing
// at least one marker is treated as the header.
var POSHeaderMarkers = []string{"Customer name", "Contact Number"}

// ErrNoHeaderRow is returned when no row in the file matches a marker.
var ErrNoHeaderRow = errors.New("no header row found matching expected columns")

// ReadFile parses a POS export from disk, dispatching on the file extension:
// .csv goes through encoding/csv, everything else through excelize.
func ReadFile(path string, markers []string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer file.Close()

	return Read(file, filepath.Base(path), markers)
}

// Read parses a POS export from a stream. The filename is only used to pick
// the parser.
func Read(r io.Reader, filename string, markers []string) (*Frame, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return readCSV(r, markers)
	}
	return readExcel(r, markers)
}

func readCSV(r io.Reader, markers []string) (*Frame, error) {
	reader := csv.NewReader(r)
	// Metadata lines above the header rarely agree with it on field count.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return frameFromRows(rows, markers)
}

func readExcel(r io.Reader, markers []string) (*Frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no sheets found in spreadsheet")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return frameFromRows(rows, markers)
}

// frameFromRows skips leading rows until one contains a marker column, then
// treats that row as the header and everything after it as data.
func frameFromRows(rows [][]string, markers []string) (*Frame, error) {
	for i, row := range rows {
		if rowHasMarker(row, markers) {
			return newFrame(row, rows[i+1:]), nil
		}
	}
	return nil, ErrNoHeaderRow
}

func rowHasMarker(row []string, markers []string) bool {
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		for _, marker := range markers {
			if cell == marker {
				return true
			}
		}
	}
	return false
}
