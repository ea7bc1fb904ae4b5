package constants

// VigencyStatus is the canonical validity state for an analyzed document.
type VigencyStatus string

// Stable values (these exact strings travel on the wire).
const (
	VigencyValid    VigencyStatus = "vigente"
	VigencyExpiring VigencyStatus = "por_vencer"
	VigencyExpired  VigencyStatus = "vencido"
	VigencyPending  VigencyStatus = "pendiente"
)

// DocumentStatus is the system-level state reported to collaborators.
type DocumentStatus string

const (
	DocumentAccepted DocumentStatus = "aceptado"
	DocumentRejected DocumentStatus = "rechazado"
	DocumentPending  DocumentStatus = "pendiente"
)

// ValidationAction is the authoritative decision of the catalog validator.
type ValidationAction string

const (
	ActionApprove ValidationAction = "aprobar"
	ActionReject  ValidationAction = "rechazar"
)

// NoExpirySentinel is the literal date meaning "no defined expiry".
const NoExpirySentinel = "2099-12-31"

// ExpiringWindowDays is the days-remaining band reported as por_vencer.
const ExpiringWindowDays = 30
