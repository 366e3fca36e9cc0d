package ledger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelLedger Ledger implementation over a single sheet of an .xlsx
// workbook. Every operation reopens the workbook, scans rows linearly
// and saves the result; the O(n) scan is the contract here, not an
// accident, because the sheet carries no index and staff edit it by hand.
type ExcelLedger struct {
	path   string
	sheet  string
	logger *zap.Logger
	mu     sync.Mutex // one workbook file, one writer at a time
}

// NewExcelLedger creates the Excel ledger. The workbook is created on
// the first write if it does not exist yet.
func NewExcelLedger(path, sheet string, logger *zap.Logger) *ExcelLedger {
	return &ExcelLedger{
		path:   path,
		sheet:  sheet,
		logger: logger,
	}
}

var _ Ledger = (*ExcelLedger)(nil)

// Append adds a new row after the last occupied row.
func (l *ExcelLedger) Append(ctx context.Context, row []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(l.sheet)
	if err != nil {
		return fmt.Errorf("failed to read ledger rows: %w", err)
	}

	if err := l.writeRow(f, len(rows)+1, row); err != nil {
		return err
	}
	return l.save(f)
}

// Overwrite replaces the first row whose key cell equals taskID.
// Silent no-op when no row matches.
func (l *ExcelLedger) Overwrite(ctx context.Context, taskID string, row []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rowNum, _, err := l.findRow(f, taskID)
	if err != nil {
		return err
	}
	if rowNum == 0 {
		l.logger.Debug("ledger overwrite found no matching row",
			zap.String("task_id", taskID),
		)
		return nil
	}

	if err := l.writeRow(f, rowNum, row); err != nil {
		return err
	}
	return l.save(f)
}

// Tombstone rewrites the matched row with its key cell set to
// DeletedMarker, preserving every other cell.
func (l *ExcelLedger) Tombstone(ctx context.Context, taskID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rowNum, cells, err := l.findRow(f, taskID)
	if err != nil {
		return err
	}
	if rowNum == 0 {
		l.logger.Debug("ledger tombstone found no matching row",
			zap.String("task_id", taskID),
		)
		return nil
	}

	for len(cells) < RowCells {
		cells = append(cells, "")
	}
	cells[KeyCell] = DeletedMarker

	if err := l.writeRow(f, rowNum, cells); err != nil {
		return err
	}
	return l.save(f)
}

// findRow scans top to bottom for the first row whose key cell equals
// taskID. Returns the 1-based row number, 0 when nothing matched.
func (l *ExcelLedger) findRow(f *excelize.File, taskID string) (int, []string, error) {
	if taskID == "" {
		return 0, nil, nil
	}
	rows, err := f.GetRows(l.sheet)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read ledger rows: %w", err)
	}
	for i, cells := range rows {
		if len(cells) > KeyCell && cells[KeyCell] == taskID {
			return i + 1, cells, nil
		}
	}
	return 0, nil, nil
}

func (l *ExcelLedger) writeRow(f *excelize.File, rowNum int, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(l.sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write ledger row %d: %w", rowNum, err)
	}
	return nil
}

func (l *ExcelLedger) save(f *excelize.File) error {
	if err := f.SaveAs(l.path); err != nil {
		return fmt.Errorf("failed to save ledger workbook: %w", err)
	}
	return nil
}

// open loads the workbook, creating it with a styled header when absent.
func (l *ExcelLedger) open() (*excelize.File, error) {
	if _, err := os.Stat(l.path); err == nil {
		f, err := excelize.OpenFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger workbook: %w", err)
		}
		idx, err := f.GetSheetIndex(l.sheet)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to resolve ledger sheet %q: %w", l.sheet, err)
		}
		if idx == -1 {
			f.Close()
			return nil, fmt.Errorf("ledger sheet %q not found in %s", l.sheet, l.path)
		}
		return f, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat ledger workbook: %w", err)
	}

	f := excelize.NewFile()
	if err := l.initSheet(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// initSheet creates the ledger sheet with a bold, frozen header row.
func (l *ExcelLedger) initSheet(f *excelize.File) error {
	index, err := f.NewSheet(l.sheet)
	if err != nil {
		return fmt.Errorf("failed to create ledger sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(l.sheet, cell, title); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(l.sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	if err := f.SetColWidth(l.sheet, "A", "V", 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SetPanes(l.sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}
	return nil
}
