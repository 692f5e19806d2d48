package issuer

import (
	"time"
)

const (
	// VCContextV2 is the W3C Verifiable Credentials Data Model v2 context.
	VCContextV2 = "https://www.w3.org/ns/credentials/v2"
	// VCType is the base type every verifiable credential carries.
	VCType = "VerifiableCredential"
)

// Credential is the W3C VC envelope embedded in issued credentials. Context
// and Type always lead with the base values; additions preserve insertion
// order.
type Credential struct {
	Context           []string       `json:"@context"`
	Type              []string       `json:"type"`
	ID                string         `json:"id,omitempty"`
	Issuer            string         `json:"issuer,omitempty"`
	ValidFrom         string         `json:"validFrom,omitempty"`
	ValidUntil        string         `json:"validUntil,omitempty"`
	CredentialSubject map[string]any `json:"credentialSubject,omitempty"`
}

// CredentialBuilder assembles a Credential. The zero value is not usable;
// NewCredentialBuilder seeds the mandatory base context and type.
type CredentialBuilder struct {
	credential Credential
}

func NewCredentialBuilder() *CredentialBuilder {
	return &CredentialBuilder{
		credential: Credential{
			Context: []string{VCContextV2},
			Type:    []string{VCType},
		},
	}
}

// AddContext appends an additional context entry. Blank and duplicate
// entries are dropped.
func (b *CredentialBuilder) AddContext(context string) *CredentialBuilder {
	if context != "" && !contains(b.credential.Context, context) {
		b.credential.Context = append(b.credential.Context, context)
	}
	return b
}

// AddType appends an additional credential type. Blank and duplicate entries
// are dropped.
func (b *CredentialBuilder) AddType(credentialType string) *CredentialBuilder {
	if credentialType != "" && !contains(b.credential.Type, credentialType) {
		b.credential.Type = append(b.credential.Type, credentialType)
	}
	return b
}

func (b *CredentialBuilder) ID(id string) *CredentialBuilder {
	b.credential.ID = id
	return b
}

func (b *CredentialBuilder) Issuer(issuer string) *CredentialBuilder {
	b.credential.Issuer = issuer
	return b
}

func (b *CredentialBuilder) ValidFrom(t time.Time) *CredentialBuilder {
	b.credential.ValidFrom = t.UTC().Format(time.RFC3339)
	return b
}

func (b *CredentialBuilder) ValidUntil(t time.Time) *CredentialBuilder {
	b.credential.ValidUntil = t.UTC().Format(time.RFC3339)
	return b
}

func (b *CredentialBuilder) CredentialSubject(subject map[string]any) *CredentialBuilder {
	b.credential.CredentialSubject = subject
	return b
}

func (b *CredentialBuilder) Build() Credential {
	return b.credential
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
