package vigency

import (
	"strings"
	"time"

	"github.com/hdelarosa/expediente-engine/constants"
	"github.com/hdelarosa/expediente-engine/internal/entity"
)

// DefaultValidityMonths applies when a document carries an issuance date
// but no explicit expiry and its type gives no stronger signal.
const DefaultValidityMonths = 12

// Document families that expire by nature even when the paper is silent
// about it.
var timeLimitedTerms = []string{
	"licencia", "permiso", "certificado", "autorizacion", "dictamen",
	"constancia de situacion fiscal", "poliza",
}

// Document families that never expire: the sentinel expiry applies.
var permanentTerms = []string{
	"titulo", "escritura", "registro", "cedula", "acta constitutiva",
}

// Result is the computed validity window for one document.
type Result struct {
	ExpiryDate      string
	DaysRemaining   int
	Status          constants.VigencyStatus
	RequiresVigency bool
	ValidityMonths  int
}

// Compute derives the expiry date, remaining days and vigency status for a
// classified document at the given reference time. Explicit expiry dates win
// verbatim; otherwise the document name decides between a fixed validity
// window and the no-expiry sentinel.
func Compute(meta entity.Metadata, documentName string, ref time.Time) Result {
	res := Result{ValidityMonths: DefaultValidityMonths}

	expiry := NormalizeDate(meta.ValidityDate)
	issued := NormalizeDate(meta.IssuanceDate)

	if expiry == "" {
		switch classifyName(documentName) {
		case lifetimePermanent:
			expiry = constants.NoExpirySentinel
		default:
			if issued != "" {
				expiry = addMonths(issued, DefaultValidityMonths)
				res.RequiresVigency = true
			}
		}
	} else if expiry != constants.NoExpirySentinel {
		res.RequiresVigency = true
	}

	res.ExpiryDate = expiry

	if expiry == constants.NoExpirySentinel {
		res.Status = constants.VigencyPending
		res.DaysRemaining = daysBetween(ref, expiry)
		return res
	}
	if expiry == "" {
		res.Status = constants.VigencyPending
		return res
	}

	res.DaysRemaining = daysBetween(ref, expiry)
	switch {
	case res.DaysRemaining < 0:
		res.Status = constants.VigencyExpired
	case res.DaysRemaining <= constants.ExpiringWindowDays:
		res.Status = constants.VigencyExpiring
	default:
		res.Status = constants.VigencyValid
	}
	return res
}

type lifetime int

const (
	lifetimeDefault lifetime = iota
	lifetimeLimited
	lifetimePermanent
)

func classifyName(name string) lifetime {
	n := stripAccents(strings.ToLower(name))
	for _, t := range permanentTerms {
		if strings.Contains(n, t) {
			return lifetimePermanent
		}
	}
	for _, t := range timeLimitedTerms {
		if strings.Contains(n, t) {
			return lifetimeLimited
		}
	}
	return lifetimeDefault
}

// addMonths shifts an ISO date by whole months using civil-calendar
// normalization, so Jan 31 + 1 month lands on Mar 2/3 per time.AddDate.
func addMonths(iso string, months int) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return ""
	}
	return t.AddDate(0, months, 0).Format("2006-01-02")
}

func daysBetween(ref time.Time, iso string) int {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return 0
	}
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(refDay).Hours() / 24)
}
