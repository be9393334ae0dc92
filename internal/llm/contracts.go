package llm

import "context"

// Experiencia is one employment entry on a CV.
type Experiencia struct {
	Empresa           string   `json:"empresa"`
	Ubicacion         string   `json:"ubicacion,omitempty"`
	Puesto            string   `json:"puesto"`
	FechaInicio       string   `json:"fecha_inicio,omitempty"`
	FechaFin          string   `json:"fecha_fin,omitempty"`
	Responsabilidades []string `json:"responsabilidades,omitempty"`
}

// Educacion is one education entry on a CV.
type Educacion struct {
	Institucion string   `json:"institucion"`
	Titulo      string   `json:"titulo"`
	FechaInicio string   `json:"fecha_inicio,omitempty"`
	FechaFin    string   `json:"fecha_fin,omitempty"`
	Detalles    []string `json:"detalles,omitempty"`
}

// Habilidad is a skill with an optional proficiency level.
type Habilidad struct {
	Nombre string `json:"nombre"`
	Nivel  string `json:"nivel,omitempty"`
}

// Idioma is a spoken language with an optional proficiency level.
type Idioma struct {
	Idioma string `json:"idioma"`
	Nivel  string `json:"nivel,omitempty"`
}

// Curriculum is the normalized shape we want from the LLM.
type Curriculum struct {
	NombreCompleto  string        `json:"nombre_completo"`
	Correo          string        `json:"correo"`
	Telefono        string        `json:"telefono,omitempty"`
	Resumen         string        `json:"resumen,omitempty"`
	Experiencia     []Experiencia `json:"experiencia"`
	Educacion       []Educacion   `json:"educacion,omitempty"`
	Habilidades     []Habilidad   `json:"habilidades,omitempty"`
	Idiomas         []Idioma      `json:"idiomas,omitempty"`
	Certificaciones []string      `json:"certificaciones,omitempty"`
	Referencias     []string      `json:"referencias,omitempty"`
}

// ExtractRequest carries the rendered document and hints for the model.
type ExtractRequest struct {
	DocumentText string
	FilePath     string
	FilenameHint string
	FolderHint   string
}

// CurriculumExtractor is the interface the pipeline depends on.
type CurriculumExtractor interface {
	ExtractCurriculum(ctx context.Context, req ExtractRequest) (Curriculum, []byte /*rawJSON*/, error)
}
