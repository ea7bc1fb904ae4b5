package entity

// ExtractedDocument mirrors the `document` section of the remote response.
// Field names are exact wire names; the engine depends on them bit-for-bit.
type ExtractedDocument struct {
	DetectedName      string `json:"nombre_detectado"`
	CatalogMatchID    string `json:"tipo_documento_id,omitempty"`
	TypeLabel         string `json:"tipo_documento,omitempty"`
	MatchesCatalog    bool   `json:"coincide_catalogo"`
	Description       string `json:"descripcion,omitempty"`
	MeetsRequirements bool   `json:"cumple_requisitos"`
	Remarks           string `json:"observaciones,omitempty"`
}

// Metadata mirrors the `metadatos` section of the remote response.
type Metadata struct {
	Folio           string `json:"folio_documento,omitempty"`
	Oficio          string `json:"oficio_documento,omitempty"`
	IssuingEntity   string `json:"entidad_emisora,omitempty"`
	Area            string `json:"area_emisora,omitempty"`
	SignerName      string `json:"nombre_firmante,omitempty"`
	SignerTitle     string `json:"puesto_firmante,omitempty"`
	ExpertName      string `json:"nombre_perito,omitempty"`
	ProfessionalID  string `json:"cedula_profesional,omitempty"`
	License         string `json:"licencia,omitempty"`
	IssuanceDate    string `json:"fecha_expedicion,omitempty"`
	ValidityDate    string `json:"vigencia_documento,omitempty"`
	DaysRemaining   int    `json:"dias_restantes_vigencia"`
	PropertyAddress string `json:"direccion_inmueble,omitempty"`
	LegalBasis      string `json:"fundamento_legal,omitempty"`
	IssuancePlace   string `json:"lugar_expedicion,omitempty"`
	// Status carries a VigencyStatus on success paths and the rejected
	// DocumentStatus on synthesized failure results.
	Status string `json:"estado_documento,omitempty"`
}

// OwnerInfo mirrors the `propietario` section of the remote response.
type OwnerInfo struct {
	OwnerName     string `json:"nombre_propietario,omitempty"`
	CorporateName string `json:"razon_social,omitempty"`
}

// IssuerInfo mirrors the `entidad_emisora` section of the remote response.
type IssuerInfo struct {
	Name  string `json:"nombre,omitempty"`
	Level string `json:"nivel,omitempty"`
	Type  string `json:"tipo,omitempty"`
}

// ClassifiedDocument is the full decoded remote (or local) classification.
// Never leaves the engine directly; it is always wrapped by an AnalysisRecord.
type ClassifiedDocument struct {
	Document ExtractedDocument `json:"document"`
	Metadata Metadata          `json:"metadatos"`
	Owner    OwnerInfo         `json:"propietario"`
	Issuer   IssuerInfo        `json:"entidad_emisora"`
}
