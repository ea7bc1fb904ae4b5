package vigency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hdelarosa/expediente-engine/constants"
	"github.com/hdelarosa/expediente-engine/internal/entity"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-08-28", "2025-08-28"},
		{"28 de agosto de 2025", "2025-08-28"},
		{"3 de enero de 2024", "2024-01-03"},
		{"15 DE Septiembre DE 2023", "2023-09-15"},
		{"1 de marzo de 2026", "2026-03-01"},
		{constants.NoExpirySentinel, constants.NoExpirySentinel},
		{"", ""},
		{"proximamente", ""},
		{"32 de enero de 2024", ""},
		{"2024-13-01", ""},
		{"10 de brumario de 2024", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeDate(c.in), "input %q", c.in)
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	once := NormalizeDate("28 de agosto de 2025")
	assert.Equal(t, once, NormalizeDate(once))
}

func refDate() time.Time {
	return time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC)
}

func TestComputeExplicitExpiryWinsVerbatim(t *testing.T) {
	res := Compute(entity.Metadata{ValidityDate: "2026-02-01"}, "licencia de funcionamiento", refDate())
	assert.Equal(t, "2026-02-01", res.ExpiryDate)
	assert.Equal(t, constants.VigencyValid, res.Status)
	assert.True(t, res.RequiresVigency)
	assert.Equal(t, 102, res.DaysRemaining)
}

func TestComputeTimeLimitedDocumentExpires(t *testing.T) {
	meta := entity.Metadata{IssuanceDate: "2024-01-10"}
	res := Compute(meta, "licencia de construcción", refDate())
	assert.Equal(t, "2025-01-10", res.ExpiryDate)
	assert.Equal(t, constants.VigencyExpired, res.Status)
	assert.Negative(t, res.DaysRemaining)
}

func TestComputePermanentDocumentGetsSentinel(t *testing.T) {
	meta := entity.Metadata{IssuanceDate: "2010-05-05"}
	res := Compute(meta, "escritura pública del inmueble", refDate())
	assert.Equal(t, constants.NoExpirySentinel, res.ExpiryDate)
	assert.Equal(t, constants.VigencyPending, res.Status)
	assert.False(t, res.RequiresVigency)
}

func TestComputeExpiringWindow(t *testing.T) {
	res := Compute(entity.Metadata{ValidityDate: "2025-11-10"}, "permiso de uso de suelo", refDate())
	assert.Equal(t, constants.VigencyExpiring, res.Status)
	assert.Equal(t, 19, res.DaysRemaining)
}

func TestComputeExpiresTodayIsExpiring(t *testing.T) {
	res := Compute(entity.Metadata{ValidityDate: "2025-10-22"}, "permiso", refDate())
	assert.Equal(t, constants.VigencyExpiring, res.Status)
	assert.Equal(t, 0, res.DaysRemaining)
}

func TestComputeNoDatesAtAllIsPending(t *testing.T) {
	res := Compute(entity.Metadata{}, "dictamen estructural", refDate())
	assert.Equal(t, "", res.ExpiryDate)
	assert.Equal(t, constants.VigencyPending, res.Status)
	assert.Equal(t, 0, res.DaysRemaining)
}

func TestComputeLongSpanishIssuanceDate(t *testing.T) {
	meta := entity.Metadata{IssuanceDate: "28 de agosto de 2025"}
	res := Compute(meta, "certificado de seguridad", refDate())
	assert.Equal(t, "2026-08-28", res.ExpiryDate)
	assert.Equal(t, constants.VigencyValid, res.Status)
}

func TestComputeMalformedExpiryFallsBackToIssuance(t *testing.T) {
	meta := entity.Metadata{ValidityDate: "vigente", IssuanceDate: "2025-06-01"}
	res := Compute(meta, "permiso de anuncio", refDate())
	assert.Equal(t, "2026-06-01", res.ExpiryDate)
	assert.Equal(t, constants.VigencyValid, res.Status)
}

func TestComputeSentinelExpiryIsPending(t *testing.T) {
	res := Compute(entity.Metadata{ValidityDate: constants.NoExpirySentinel}, "titulo de propiedad", refDate())
	assert.Equal(t, constants.NoExpirySentinel, res.ExpiryDate)
	assert.Equal(t, constants.VigencyPending, res.Status)
	assert.False(t, res.RequiresVigency)
}

func TestComputeStatusMonotonicOverTime(t *testing.T) {
	meta := entity.Metadata{ValidityDate: "2025-11-10"}
	rank := map[constants.VigencyStatus]int{
		constants.VigencyValid:    0,
		constants.VigencyExpiring: 1,
		constants.VigencyExpired:  2,
	}
	prev := -1
	for d := 0; d < 60; d += 5 {
		res := Compute(meta, "permiso", refDate().AddDate(0, 0, d))
		got := rank[res.Status]
		assert.GreaterOrEqual(t, got, prev, "status regressed at day +%d", d)
		prev = got
	}
}
