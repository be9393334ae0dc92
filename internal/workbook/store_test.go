package workbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/espartina/cv-ingest/constants"
	"github.com/espartina/cv-ingest/internal/candidate"
	"github.com/espartina/cv-ingest/internal/llm"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "cv.xlsx"), nil)
	require.NoError(t, s.Init())
	return s
}

func TestInit_CreatesExpectedSheets(t *testing.T) {
	s := newStore(t)

	f, err := excelize.OpenFile(s.Path())
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	assert.ElementsMatch(t, constants.Sheets, f.GetSheetList())

	rows, err := f.GetRows(constants.SheetCandidatos)
	require.NoError(t, err)
	require.Len(t, rows, 1, "fresh workbook has only the header row")
	assert.Equal(t, constants.SheetHeaders[constants.SheetCandidatos], rows[0])
}

func TestInit_RefusesExistingWorkbook(t *testing.T) {
	s := newStore(t)
	require.Error(t, s.Init())
}

func TestOpen_MissingWorkbookIsFatal(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.xlsx"), nil)
	_, err := s.MaxCandidateID()
	require.Error(t, err)
}

func TestOpen_MissingSheetIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet(constants.SheetCandidatos)
	require.NoError(t, err)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s := NewStore(path, nil)
	_, err = s.MaxCandidateID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing sheet")
}

func TestMaxCandidateID(t *testing.T) {
	s := newStore(t)

	id, err := s.MaxCandidateID()
	require.NoError(t, err)
	assert.Equal(t, 0, id, "headers only")

	rows := candidate.Flatten(12, llm.Curriculum{NombreCompleto: "A", Correo: "a@e.com"}, "/a.pdf", "")
	rows.Merge(candidate.Flatten(7, llm.Curriculum{NombreCompleto: "B", Correo: "b@e.com"}, "/b.pdf", ""))
	require.NoError(t, s.Append(rows))

	id, err = s.MaxCandidateID()
	require.NoError(t, err)
	assert.Equal(t, 12, id)
}

func TestAppend_OffsetsAndNoHeaders(t *testing.T) {
	s := newStore(t)

	first := candidate.Flatten(1, llm.Curriculum{
		NombreCompleto: "Ana Lopez",
		Correo:         "ana@e.com",
		Experiencia: []llm.Experiencia{
			{Empresa: "X", Puesto: "Dev"},
			{Empresa: "Y", Puesto: "Lead"},
		},
	}, "/cvs/ana.pdf", "norte")
	require.NoError(t, s.Append(first))

	second := candidate.Flatten(2, llm.Curriculum{
		NombreCompleto: "Beto Diaz",
		Correo:         "beto@e.com",
		Experiencia:    []llm.Experiencia{{Empresa: "Z", Puesto: "QA"}},
	}, "/cvs/beto.pdf", "sur")
	require.NoError(t, s.Append(second))

	f, err := excelize.OpenFile(s.Path())
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	cand, err := f.GetRows(constants.SheetCandidatos)
	require.NoError(t, err)
	require.Len(t, cand, 3, "header + two candidates")
	assert.Equal(t, "Ana Lopez", cand[1][1])
	assert.Equal(t, "Beto Diaz", cand[2][1])

	exp, err := f.GetRows(constants.SheetExperiencia)
	require.NoError(t, err)
	require.Len(t, exp, 4, "header + three experience rows")
	assert.Equal(t, "1", exp[1][0])
	assert.Equal(t, "1", exp[2][0])
	assert.Equal(t, "2", exp[3][0])
}

func TestAppend_EmptySheetsUntouched(t *testing.T) {
	s := newStore(t)
	rows := candidate.Flatten(1, llm.Curriculum{NombreCompleto: "A", Correo: "a@e.com"}, "/a.pdf", "")
	require.NoError(t, s.Append(rows))

	f, err := excelize.OpenFile(s.Path())
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	edu, err := f.GetRows(constants.SheetEducacion)
	require.NoError(t, err)
	assert.Len(t, edu, 1, "only the header row")
}

func TestFormat_AppliesToAllSheets(t *testing.T) {
	s := newStore(t)
	rows := candidate.Flatten(1, llm.Curriculum{
		NombreCompleto: "Ana Lopez",
		Correo:         "ana@e.com",
		Resumen:        "Una descripción suficientemente larga para ensanchar la columna del resumen del workbook más allá del ancho mínimo por defecto de excelize.",
	}, "/a.pdf", "")
	require.NoError(t, s.Append(rows))
	require.NoError(t, s.Format())

	f, err := excelize.OpenFile(s.Path())
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	// resumen column (F) is sized to content but capped.
	w, err := f.GetColWidth(constants.SheetCandidatos, "F")
	require.NoError(t, err)
	assert.InDelta(t, 80, w, 0.5)

	// id column (A) stays narrow.
	w, err = f.GetColWidth(constants.SheetCandidatos, "A")
	require.NoError(t, err)
	assert.Less(t, w, 20.0)
}

func TestFormat_WidthCountsRunesNotBytes(t *testing.T) {
	s := newStore(t)
	// 40 runes, 80 bytes: the width must track the character count.
	rows := candidate.Flatten(1, llm.Curriculum{
		NombreCompleto: strings.Repeat("ñ", 40),
		Correo:         "n@e.com",
	}, "/n.pdf", "")
	require.NoError(t, s.Append(rows))
	require.NoError(t, s.Format())

	f, err := excelize.OpenFile(s.Path())
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	w, err := f.GetColWidth(constants.SheetCandidatos, "B")
	require.NoError(t, err)
	assert.InDelta(t, 42, w, 0.5, "40 runes + 2, not 80 bytes + 2")
}

func TestAppend_SurvivesReload(t *testing.T) {
	s := newStore(t)
	rows := candidate.Flatten(3, llm.Curriculum{NombreCompleto: "C", Correo: "c@e.com"}, "/c.pdf", "oeste")
	require.NoError(t, s.Append(rows))
	require.NoError(t, s.Format())

	// A second store over the same file sees the appended state.
	s2 := NewStore(s.Path(), nil)
	id, err := s2.MaxCandidateID()
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	_, err = os.Stat(s.Path())
	require.NoError(t, err)
}
