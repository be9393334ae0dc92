package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// topLevelKeys is the schema's property set; anything else the model adds
// is removed before validation (additionalProperties = false friendliness).
var topLevelKeys = map[string]struct{}{
	"nombre_completo": {}, "correo": {}, "telefono": {}, "resumen": {},
	"experiencia": {}, "educacion": {}, "habilidades": {}, "idiomas": {},
	"certificaciones": {}, "referencias": {},
}

// NormalizeAndSanitizeJSON
// - Drops null and empty-string optionals at every nesting level
// - Coerces numeric telefono to string
// - Lowercases and trims correo
// - Removes unknown top-level keys
// It only repairs; required fields that are genuinely missing still fail
// schema validation afterwards.
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)

	// 1) remove unknown top-level keys
	for k := range m {
		if _, ok := topLevelKeys[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	// 2) telefono sometimes arrives as a bare number
	if v, ok := m["telefono"]; ok {
		if f, isNum := v.(float64); isNum {
			m["telefono"] = fmt.Sprintf("%.0f", f)
			dropped = append(dropped, "telefono(coerced)")
		}
	}

	// 3) normalize correo
	if v, ok := m["correo"].(string); ok {
		m["correo"] = strings.ToLower(strings.TrimSpace(v))
	}

	// 4) scrub nulls and empty strings everywhere
	scrubbed := scrub(m, "", &dropped)
	cleanMap, _ := scrubbed.(map[string]any)

	out, err := json.Marshal(cleanMap)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

// scrub walks the decoded JSON value, removing null members and trimming
// strings. Empty strings are dropped; empty arrays are kept (an empty
// 'experiencia' is meaningful).
func scrub(v any, path string, dropped *[]string) any {
	switch t := v.(type) {
	case map[string]any:
		for k, mv := range t {
			p := k
			if path != "" {
				p = path + "." + k
			}
			switch sv := scrub(mv, p, dropped).(type) {
			case nil:
				delete(t, k)
				*dropped = append(*dropped, p+"(null)")
			case string:
				s := strings.TrimSpace(sv)
				if s == "" {
					delete(t, k)
					*dropped = append(*dropped, p+"(empty)")
				} else {
					t[k] = s
				}
			default:
				t[k] = sv
			}
		}
		return t
	case []any:
		cleaned := make([]any, 0, len(t))
		for i, item := range t {
			p := fmt.Sprintf("%s[%d]", path, i)
			if item == nil {
				*dropped = append(*dropped, p+"(null)")
				continue
			}
			cleaned = append(cleaned, scrub(item, p, dropped))
		}
		return cleaned
	default:
		return v
	}
}
