package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAndSanitizeJSON_DropsNullsEverywhere(t *testing.T) {
	raw := []byte(`{
		"nombre_completo": "  Ana Lopez ",
		"correo": " ANA@Example.COM ",
		"telefono": null,
		"resumen": "",
		"experiencia": [
			{"empresa": "X", "puesto": "Dev", "ubicacion": null, "fecha_fin": "", "responsabilidades": null}
		]
	}`)

	out, dropped, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, dropped)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "Ana Lopez", m["nombre_completo"])
	assert.Equal(t, "ana@example.com", m["correo"])
	assert.NotContains(t, m, "telefono")
	assert.NotContains(t, m, "resumen")

	exp := m["experiencia"].([]any)[0].(map[string]any)
	assert.NotContains(t, exp, "ubicacion")
	assert.NotContains(t, exp, "fecha_fin")
	assert.NotContains(t, exp, "responsabilidades")
	assert.Equal(t, "X", exp["empresa"])
}

func TestNormalizeAndSanitizeJSON_CoercesNumericTelefono(t *testing.T) {
	raw := []byte(`{"nombre_completo":"A","correo":"a@e.com","telefono":1155550000,"experiencia":[]}`)

	out, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "1155550000", m["telefono"])
}

func TestNormalizeAndSanitizeJSON_RemovesUnknownKeys(t *testing.T) {
	raw := []byte(`{"nombre_completo":"A","correo":"a@e.com","experiencia":[],"chain_of_thought":"...","score":0.9}`)

	out, dropped, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	assert.Contains(t, dropped, "chain_of_thought(unknown)")
	assert.Contains(t, dropped, "score(unknown)")

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.NotContains(t, m, "chain_of_thought")
	assert.NotContains(t, m, "score")
}

func TestNormalizeAndSanitizeJSON_KeepsEmptyExperiencia(t *testing.T) {
	raw := []byte(`{"nombre_completo":"A","correo":"a@e.com","experiencia":[]}`)

	out, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	arr, ok := m["experiencia"].([]any)
	require.True(t, ok, "empty experiencia must survive the scrub")
	assert.Empty(t, arr)
}

func TestNormalizeAndSanitizeJSON_DropsNullArrayEntries(t *testing.T) {
	raw := []byte(`{"nombre_completo":"A","correo":"a@e.com","experiencia":[null,{"empresa":"X","puesto":"Y"}]}`)

	out, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	arr := m["experiencia"].([]any)
	require.Len(t, arr, 1)
}

func TestNormalizeAndSanitizeJSON_InvalidJSON(t *testing.T) {
	_, _, err := NormalizeAndSanitizeJSON([]byte("not json"), nil)
	require.Error(t, err)
}

func TestSanitizedNearMissValidates(t *testing.T) {
	// The shape a json_object response really comes back in: nulls for
	// absent optionals and a numeric phone. After sanitizing it must pass
	// the same schema that was sent to the model.
	raw := []byte(`{
		"nombre_completo": "Ana Lopez",
		"correo": "ana@example.com",
		"telefono": null,
		"resumen": null,
		"experiencia": [
			{"empresa": "X", "puesto": "Dev", "ubicacion": null, "fecha_inicio": "2019", "fecha_fin": null, "responsabilidades": ["a", "b"]}
		],
		"educacion": [],
		"habilidades": [{"nombre": "Go", "nivel": null}],
		"idiomas": null,
		"certificaciones": null,
		"referencias": null
	}`)

	schema := BuildCurriculumJSONSchema()
	require.Error(t, ValidateJSONAgainstSchema(schema, raw), "raw response with nulls must fail")

	cleaned, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(schema, cleaned))

	var cv Curriculum
	require.NoError(t, json.Unmarshal(cleaned, &cv))
	assert.Equal(t, "Ana Lopez", cv.NombreCompleto)
	require.Len(t, cv.Experiencia, 1)
	assert.Equal(t, []string{"a", "b"}, cv.Experiencia[0].Responsabilidades)
}
