package metadata

// IssuerMetadata is the document served from
// /.well-known/openid-credential-issuer, shaped per OID4VCI.
type IssuerMetadata struct {
	CredentialIssuer                  string                                     `json:"credential_issuer"`
	CredentialEndpoint                string                                     `json:"credential_endpoint"`
	AuthorizationServers              []string                                   `json:"authorization_servers,omitempty"`
	CredentialConfigurationsSupported map[string]CredentialConfigurationMetadata `json:"credential_configurations_supported"`
}

// CredentialConfigurationMetadata is the wallet-facing projection of one
// credential configuration.
type CredentialConfigurationMetadata struct {
	// ID echoes the configuration identifier, which also keys the
	// credential_configurations_supported map.
	ID                                  string               `json:"id"`
	Format                              string               `json:"format"`
	Scope                               string               `json:"scope,omitempty"`
	CredentialSigningAlgValuesSupported []string             `json:"credential_signing_alg_values_supported,omitempty"`
	CredentialDefinition                CredentialDefinition `json:"credential_definition"`
	CredentialMetadata                  CredentialMetadata   `json:"credential_metadata"`
}

type CredentialDefinition struct {
	Type []string `json:"type"`
}

// CredentialMetadata carries presentation hints. Display is whatever the
// tenant administrator supplied, parsed tolerantly; malformed display JSON
// degrades to an empty list rather than failing the whole document.
type CredentialMetadata struct {
	Display []map[string]any `json:"display"`
	Claims  []ClaimMetadata  `json:"claims,omitempty"`
}

// ClaimMetadata names one released claim by its path inside the credential.
type ClaimMetadata struct {
	Path []string `json:"path"`
}

type GetIssuerMetadataRequest struct {
	TenantDomain string `json:"tenantDomain"`
}

type GetIssuerMetadataResponse struct {
	Metadata IssuerMetadata `json:"metadata"`
}
