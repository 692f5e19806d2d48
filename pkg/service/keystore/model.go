package keystore

import (
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
)

// SigningMaterial bundles the tenant's signing key with its certificate so
// format handlers can bind JOSE headers to the key that produced the
// signature.
type SigningMaterial struct {
	TenantDomain string
	Key          *rsa.PrivateKey
	Certificate  *x509.Certificate
}

// Thumbprint is the base64url-encoded SHA-1 digest of the DER certificate,
// suitable for the x5t JOSE header.
func (m *SigningMaterial) Thumbprint() string {
	digest := sha1.Sum(m.Certificate.Raw)
	return base64.RawURLEncoding.EncodeToString(digest[:])
}

// KeyID is the base64url-encoded SHA-256 digest of the DER certificate,
// suitable for the kid JOSE header.
func (m *SigningMaterial) KeyID() string {
	digest := sha256.Sum256(m.Certificate.Raw)
	return base64.RawURLEncoding.EncodeToString(digest[:])
}
