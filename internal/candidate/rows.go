// Package candidate flattens an extracted Curriculum into the row sets of
// the five workbook sheets.
package candidate

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/espartina/cv-ingest/internal/llm"
)

var reYear = regexp.MustCompile(`\d{4}`)

// RowSet holds the rows produced from one candidate, keyed by sheet.
// Row column order matches constants.SheetHeaders.
type RowSet struct {
	Candidatos      [][]any
	Experiencia     [][]any
	Educacion       [][]any
	Habilidades     [][]any
	Certificaciones [][]any
}

// Merge appends all rows of other into r.
func (r *RowSet) Merge(other RowSet) {
	r.Candidatos = append(r.Candidatos, other.Candidatos...)
	r.Experiencia = append(r.Experiencia, other.Experiencia...)
	r.Educacion = append(r.Educacion, other.Educacion...)
	r.Habilidades = append(r.Habilidades, other.Habilidades...)
	r.Certificaciones = append(r.Certificaciones, other.Certificaciones...)
}

// Empty reports whether the set holds no candidate rows.
func (r *RowSet) Empty() bool {
	return len(r.Candidatos) == 0
}

// Flatten denormalizes one curriculum into the five row sets. Child rows
// carry the candidate id and a title-cased copy of the name, the same
// denormalization the workbook consumers expect.
func Flatten(id int, cv llm.Curriculum, filePath, zone string) RowSet {
	titled := TitleCase(cv.NombreCompleto)

	var out RowSet
	out.Candidatos = append(out.Candidatos, []any{
		id, cv.NombreCompleto, zone, cv.Correo, cv.Telefono, cv.Resumen, filePath,
	})

	for _, exp := range cv.Experiencia {
		out.Experiencia = append(out.Experiencia, []any{
			id, titled, exp.Empresa, exp.Ubicacion, exp.Puesto,
			StartYear(exp.FechaInicio), exp.FechaInicio, exp.FechaFin,
			joinList(exp.Responsabilidades),
		})
	}
	for _, edu := range cv.Educacion {
		out.Educacion = append(out.Educacion, []any{
			id, titled, edu.Institucion, edu.Titulo,
			StartYear(edu.FechaInicio), edu.FechaInicio, edu.FechaFin,
			joinList(edu.Detalles),
		})
	}
	for _, hab := range cv.Habilidades {
		out.Habilidades = append(out.Habilidades, []any{
			id, titled, hab.Nombre, hab.Nivel,
		})
	}
	for _, cert := range cv.Certificaciones {
		out.Certificaciones = append(out.Certificaciones, []any{
			id, titled, cert,
		})
	}
	return out
}

// StartYear extracts the first 4-digit year from a free-form date string.
func StartYear(date string) string {
	return reYear.FindString(date)
}

// TitleCase applies per-word title casing to a candidate name.
func TitleCase(name string) string {
	return cases.Title(language.Spanish).String(strings.TrimSpace(name))
}

// ZoneFromPath derives the zona/area column from the file's location under
// the scan root: the path element at the given depth (1 = the immediate
// subfolder). Files directly under root, or outside it, have no zone.
func ZoneFromPath(root, path string, depth int) string {
	if depth <= 0 {
		depth = 1
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) > depth {
		return parts[depth-1]
	}
	return ""
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}
