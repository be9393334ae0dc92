// Package workbook persists extracted rows into the XLSX workbook that all
// runs share. Sheets are append-only; offsets are computed from current row
// counts and appended rows never carry a header.
package workbook

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/espartina/cv-ingest/constants"
	"github.com/espartina/cv-ingest/internal/candidate"
)

// maxColWidth caps the auto-sized column widths so a long resumen does not
// blow a column out to hundreds of characters.
const maxColWidth = 80

// Store reads and appends the workbook at a fixed path. There is no
// transactional guarantee between the append save and the formatting save;
// the file system is the only locking discipline.
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the workbook location.
func (s *Store) Path() string {
	return s.path
}

// Init creates a fresh workbook containing the five expected sheets with
// bold header rows. Fails if the file already exists.
func (s *Store) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("workbook already exists: %s", s.path)
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	for _, sheet := range constants.Sheets {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		for i, h := range constants.SheetHeaders[sheet] {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return fmt.Errorf("write header %s!%s: %w", sheet, cell, err)
			}
		}
	}
	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(constants.SheetCandidatos); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := styleSheets(f); err != nil {
		return err
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	s.logger.Info("workbook.init.ok", "path", s.path, "sheets", len(constants.Sheets))
	return nil
}

// open loads the workbook and verifies every expected sheet is present.
// A missing file or missing sheet is fatal to the run.
func (s *Store) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	for _, sheet := range constants.Sheets {
		idx, err := f.GetSheetIndex(sheet)
		if err != nil || idx == -1 {
			_ = f.Close()
			return nil, fmt.Errorf("workbook %s is missing sheet %q", s.path, sheet)
		}
	}
	return f, nil
}

// MaxCandidateID scans the Candidatos sheet and returns the largest id
// recorded so far. A workbook with only headers yields 0.
func (s *Store) MaxCandidateID() (int, error) {
	f, err := s.open()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(constants.SheetCandidatos)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", constants.SheetCandidatos, err)
	}

	maxID := 0
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		id, ok := parseID(row[0])
		if !ok {
			continue
		}
		if id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}

// Append writes the row sets under the existing rows of each sheet and
// saves. Rows are written without headers.
func (s *Store) Append(rows candidate.RowSet) error {
	start := time.Now()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	perSheet := map[string][][]any{
		constants.SheetCandidatos:      rows.Candidatos,
		constants.SheetExperiencia:     rows.Experiencia,
		constants.SheetEducacion:       rows.Educacion,
		constants.SheetHabilidades:     rows.Habilidades,
		constants.SheetCertificaciones: rows.Certificaciones,
	}

	total := 0
	for _, sheet := range constants.Sheets {
		data := perSheet[sheet]
		if len(data) == 0 {
			continue
		}
		existing, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read %s: %w", sheet, err)
		}
		next := len(existing) + 1
		for _, row := range data {
			for col, v := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, next)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
				}
			}
			next++
		}
		total += len(data)
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	s.logger.Info("workbook.append.ok",
		"path", s.path,
		"rows", total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Format reopens the workbook and applies the cosmetic pass to every sheet:
// bold header row, panes frozen at C2, and content-sized column widths.
func (s *Store) Format() error {
	f, err := s.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := styleSheets(f); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	s.logger.Info("workbook.format.ok", "path", s.path)
	return nil
}

func styleSheets(f *excelize.File) error {
	boldID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create bold style: %w", err)
	}

	for _, sheet := range constants.Sheets {
		idx, err := f.GetSheetIndex(sheet)
		if err != nil || idx == -1 {
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read %s: %w", sheet, err)
		}

		cols := len(constants.SheetHeaders[sheet])
		if len(rows) > 0 && len(rows[0]) > cols {
			cols = len(rows[0])
		}

		// Bold header row.
		last, _ := excelize.CoordinatesToCellName(cols, 1)
		if err := f.SetCellStyle(sheet, "A1", last, boldID); err != nil {
			return fmt.Errorf("style header %s: %w", sheet, err)
		}

		// Freeze the header row and the first two columns (id + name).
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			XSplit:      2,
			YSplit:      1,
			TopLeftCell: "C2",
			ActivePane:  "bottomRight",
		}); err != nil {
			return fmt.Errorf("freeze panes %s: %w", sheet, err)
		}

		// Size columns to content, capped. Width is in characters, so
		// accented content must be counted in runes, not bytes.
		for col := 1; col <= cols; col++ {
			maxLen := 0
			for _, row := range rows {
				if col-1 < len(row) {
					if n := utf8.RuneCountInString(strings.TrimSpace(row[col-1])); n > maxLen {
						maxLen = n
					}
				}
			}
			width := float64(maxLen + 2)
			if width > maxColWidth {
				width = maxColWidth
			}
			name, _ := excelize.ColumnNumberToName(col)
			if err := f.SetColWidth(sheet, name, name, width); err != nil {
				return fmt.Errorf("set width %s!%s: %w", sheet, name, err)
			}
		}
	}
	return nil
}

// parseID tolerates floats like "42.0" that spreadsheet tooling leaves behind.
func parseID(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if id, err := strconv.Atoi(s); err == nil {
		return id, true
	}
	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		return int(fv), true
	}
	return 0, false
}
