package llm

// BuildCurriculumJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the model as a structured output constraint
// and also use it locally to validate the response.
func BuildCurriculumJSONSchema() map[string]any {
	experiencia := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"empresa":           stringProp(1),
			"ubicacion":         stringProp(0),
			"puesto":            stringProp(1),
			"fecha_inicio":      stringProp(0),
			"fecha_fin":         stringProp(0),
			"responsabilidades": stringListProp(),
		},
		"required": []string{"empresa", "puesto"},
	}

	educacion := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"institucion":  stringProp(1),
			"titulo":       stringProp(1),
			"fecha_inicio": stringProp(0),
			"fecha_fin":    stringProp(0),
			"detalles":     stringListProp(),
		},
		"required": []string{"institucion", "titulo"},
	}

	habilidad := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"nombre": stringProp(1),
			"nivel":  stringProp(0),
		},
		"required": []string{"nombre"},
	}

	idioma := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"idioma": stringProp(1),
			"nivel":  stringProp(0),
		},
		"required": []string{"idioma"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"nombre_completo": stringProp(1),
			"correo":          stringProp(1),
			"telefono":        stringProp(0),
			"resumen":         stringProp(0),
			"experiencia":     map[string]any{"type": "array", "items": experiencia},
			"educacion":       map[string]any{"type": "array", "items": educacion},
			"habilidades":     map[string]any{"type": "array", "items": habilidad},
			"idiomas":         map[string]any{"type": "array", "items": idioma},
			"certificaciones": stringListProp(),
			"referencias":     stringListProp(),
		},
		"required": []string{"nombre_completo", "correo", "experiencia"},
	}
}

func stringProp(minLen int) map[string]any {
	p := map[string]any{"type": "string"}
	if minLen > 0 {
		p["minLength"] = minLen
	}
	return p
}

func stringListProp() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}
