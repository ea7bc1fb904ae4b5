package constants

// UnidentifiedDocumentID is the reserved catalog id returned by the local
// classifier when no candidate clears the acceptance thresholds.
const UnidentifiedDocumentID = "00000000-0000-0000-0000-000000000000"

// UnidentifiedDocumentName is the placeholder name paired with the reserved id.
const UnidentifiedDocumentName = "documento no identificado"

// GenericDocumentLabel is the coarse type label used when no pattern table
// entry clears its minimum score.
const GenericDocumentLabel = "documento generico"

// LockTTLSeconds bounds how long an analysis lock can be held before it
// self-expires (crash safety).
const LockTTLSeconds = 300
