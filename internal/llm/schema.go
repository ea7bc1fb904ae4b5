package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildDocumentJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass it to the remote service as an output constraint and
// also use it locally to validate the reply: a decoded object is accepted
// only when both the document and metadatos sections are present and
// non-empty AND the document section names at least one of nombre_detectado,
// tipo_documento, tipo_documento_id.
func BuildDocumentJSONSchema() map[string]any {
	isoDate := map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}

	return map[string]any{
		"type":     "object",
		"required": []string{"document", "metadatos"},
		"properties": map[string]any{
			"document": map[string]any{
				"type":          "object",
				"minProperties": 1,
				"anyOf": []any{
					map[string]any{"required": []string{"nombre_detectado"}},
					map[string]any{"required": []string{"tipo_documento"}},
					map[string]any{"required": []string{"tipo_documento_id"}},
				},
				"properties": map[string]any{
					"nombre_detectado":  map[string]any{"type": "string"},
					"tipo_documento_id": map[string]any{"type": "string"},
					"tipo_documento":    map[string]any{"type": "string"},
					"coincide_catalogo": map[string]any{"type": "boolean"},
					"descripcion":       map[string]any{"type": "string"},
					"cumple_requisitos": map[string]any{"type": "boolean"},
					"observaciones":     map[string]any{"type": "string"},
				},
			},
			"metadatos": map[string]any{
				"type":          "object",
				"minProperties": 1,
				"properties": map[string]any{
					"folio_documento":         map[string]any{"type": "string"},
					"oficio_documento":        map[string]any{"type": "string"},
					"entidad_emisora":         map[string]any{"type": "string"},
					"area_emisora":            map[string]any{"type": "string"},
					"nombre_firmante":         map[string]any{"type": "string"},
					"puesto_firmante":         map[string]any{"type": "string"},
					"nombre_perito":           map[string]any{"type": "string"},
					"cedula_profesional":      map[string]any{"type": "string"},
					"licencia":                map[string]any{"type": "string"},
					"fecha_expedicion":        isoDate,
					"vigencia_documento":      isoDate,
					"dias_restantes_vigencia": map[string]any{"type": "integer"},
					"direccion_inmueble":      map[string]any{"type": "string"},
					"fundamento_legal":        map[string]any{"type": "string"},
					"lugar_expedicion":        map[string]any{"type": "string"},
					"estado_documento":        map[string]any{"type": "string"},
				},
			},
			"propietario": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"nombre_propietario": map[string]any{"type": "string"},
					"razon_social":       map[string]any{"type": "string"},
				},
			},
			"entidad_emisora": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"nombre": map[string]any{"type": "string"},
					"nivel":  map[string]any{"type": "string"},
					"tipo":   map[string]any{"type": "string"},
				},
			},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
