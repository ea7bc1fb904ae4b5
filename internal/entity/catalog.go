package entity

import (
	"github.com/google/uuid"

	"github.com/hdelarosa/expediente-engine/constants"
)

// CatalogEntry is an administrator-defined required document type.
// Owned by the catalog collaborator; read-only inside the engine.
type CatalogEntry struct {
	ID            uuid.UUID               `json:"id"`
	Name          string                  `json:"nombre"`
	Description   string                  `json:"descripcion"`
	IssuingEntity string                  `json:"entidad_emisora"`
	Level         constants.IssuanceLevel `json:"nivel_emision"`
	Active        bool                    `json:"activo"`
}

// Campus resolves a campus id to its location for the issuing-place check.
type Campus struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"nombre"`
	City    string    `json:"ciudad"`
	State   string    `json:"estado"`
	Address string    `json:"direccion,omitempty"`
}
