package constants

// Sheet names in the output workbook. All five must exist before a run.
const (
	SheetCandidatos      = "Candidatos"
	SheetExperiencia     = "Experiencia"
	SheetEducacion       = "Educacion"
	SheetHabilidades     = "Habilidades"
	SheetCertificaciones = "Certificaciones"
)

// Sheets lists the expected sheets in workbook order.
var Sheets = []string{
	SheetCandidatos,
	SheetExperiencia,
	SheetEducacion,
	SheetHabilidades,
	SheetCertificaciones,
}

// SheetHeaders maps each sheet to its header row. Appended data rows carry
// no header; these are only written when bootstrapping a fresh workbook.
var SheetHeaders = map[string][]string{
	SheetCandidatos: {
		"candidato_id", "nombre_completo", "zona/area", "correo", "telefono", "resumen", "file_path",
	},
	SheetExperiencia: {
		"candidato_id", "nombre_completo", "empresa", "ubicacion", "puesto", "anio_inicio", "fecha_inicio", "fecha_fin", "responsabilidades",
	},
	SheetEducacion: {
		"candidato_id", "nombre_completo", "institucion", "titulo", "anio_inicio", "fecha_inicio", "fecha_fin", "detalles",
	},
	SheetHabilidades: {
		"candidato_id", "nombre_completo", "nombre", "nivel",
	},
	SheetCertificaciones: {
		"candidato_id", "nombre_completo", "certificacion",
	},
}
