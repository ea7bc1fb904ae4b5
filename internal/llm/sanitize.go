package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	reISO      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	optDates   = []string{"fecha_expedicion", "vigencia_documento"}
	optStrings = []string{
		"folio_documento", "oficio_documento", "entidad_emisora", "area_emisora",
		"nombre_firmante", "puesto_firmante", "nombre_perito", "cedula_profesional",
		"licencia", "direccion_inmueble", "fundamento_legal", "lugar_expedicion",
		"estado_documento",
	}
)

// SanitizeOptionalFields removes or normalizes optional metadatos fields that
// don't meet the stricter schema, so the overall document can still validate.
// We only touch OPTIONALS; the document section is left alone.
func SanitizeOptionalFields(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var dropped []string

	meta, ok := m["metadatos"].(map[string]any)
	if !ok {
		b, err := json.Marshal(m)
		return b, nil, err
	}

	// malformed optional dates: drop rather than guess
	for _, k := range optDates {
		v, present := meta[k]
		if !present {
			continue
		}
		s, isStr := v.(string)
		if !isStr || !reISO.MatchString(strings.TrimSpace(s)) {
			delete(meta, k)
			dropped = append(dropped, "metadatos."+k)
			continue
		}
		meta[k] = strings.TrimSpace(s)
	}

	// dias_restantes_vigencia: models sometimes emit it as a float or string
	if v, present := meta["dias_restantes_vigencia"]; present {
		switch t := v.(type) {
		case float64:
			meta["dias_restantes_vigencia"] = int(t)
		case string:
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &n); err == nil {
				meta["dias_restantes_vigencia"] = n
			} else {
				delete(meta, "dias_restantes_vigencia")
				dropped = append(dropped, "metadatos.dias_restantes_vigencia")
			}
		case nil:
			delete(meta, "dias_restantes_vigencia")
			dropped = append(dropped, "metadatos.dias_restantes_vigencia")
		}
	}

	// nulls and non-strings in free-text optionals: drop
	for _, k := range optStrings {
		v, present := meta[k]
		if !present {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) == "" || strings.EqualFold(t, "null") {
				delete(meta, k)
				dropped = append(dropped, "metadatos."+k)
			} else {
				meta[k] = strings.TrimSpace(t)
			}
		case nil:
			delete(meta, k)
			dropped = append(dropped, "metadatos."+k)
		default:
			delete(meta, k)
			dropped = append(dropped, "metadatos."+k)
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, dropped, nil
}
