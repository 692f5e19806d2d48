// Package issuer holds the format-agnostic issuance core: the credential
// envelope model, the format handler registry, and the built-in handlers.
package issuer

import (
	"github.com/openvci/vci-service/pkg/service/credconfig"
)

// Context carries everything a format handler needs to materialize one
// credential: the resolved configuration, the tenant it belongs to, the
// issuer identifier URL, and the already-resolved subject claims.
type Context struct {
	Configuration *credconfig.CredentialConfiguration
	TenantDomain  string
	Issuer        string
	SubjectID     string
	Claims        map[string]any
}
