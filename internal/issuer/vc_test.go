package issuer

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestCredentialBuilder(t *testing.T) {
	t.Run("base context and type come first", func(tt *testing.T) {
		credential := NewCredentialBuilder().
			AddContext("employee_badge").
			AddType("employee_badge").
			Build()
		assert.Equal(tt, []string{VCContextV2, "employee_badge"}, credential.Context)
		assert.Equal(tt, []string{VCType, "employee_badge"}, credential.Type)
	})

	t.Run("blank and duplicate additions are dropped", func(tt *testing.T) {
		credential := NewCredentialBuilder().
			AddContext("").
			AddContext("employee_badge").
			AddContext("employee_badge").
			AddType("").
			AddType(VCType).
			Build()
		assert.Equal(tt, []string{VCContextV2, "employee_badge"}, credential.Context)
		assert.Equal(tt, []string{VCType}, credential.Type)
	})

	t.Run("timestamps render as RFC3339 UTC", func(tt *testing.T) {
		loc := time.FixedZone("CET", 3600)
		credential := NewCredentialBuilder().
			ValidFrom(time.Date(2024, 3, 1, 13, 0, 0, 0, loc)).
			ValidUntil(time.Date(2024, 3, 1, 14, 0, 0, 0, loc)).
			Build()
		assert.Equal(tt, "2024-03-01T12:00:00Z", credential.ValidFrom)
		assert.Equal(tt, "2024-03-01T13:00:00Z", credential.ValidUntil)
	})

	t.Run("unset fields are omitted from JSON", func(tt *testing.T) {
		credential := NewCredentialBuilder().Build()
		credentialJSON, err := json.Marshal(credential)
		assert.NoError(tt, err)
		assert.NotContains(tt, string(credentialJSON), "issuer")
		assert.NotContains(tt, string(credentialJSON), "validFrom")
		assert.NotContains(tt, string(credentialJSON), "validUntil")
		assert.NotContains(tt, string(credentialJSON), "credentialSubject")
	})
}
