package credconfig

import (
	"reflect"
)

// Metadata carries optional structured presentation data for a configuration.
// Display is raw JSON as supplied by the tenant administrator; it is parsed
// tolerantly at metadata-projection time.
type Metadata struct {
	Display string `json:"display,omitempty"`
}

// CredentialConfiguration is a tenant-scoped, named template describing one
// issuable credential type. Identifier is unique within a tenant and is what
// wallets reference in credential requests and offers. OfferID, when present,
// is also unique within a tenant.
type CredentialConfiguration struct {
	// ID is the internal identifier. Opaque and stable.
	ID string `json:"id"`

	// Identifier is the human identifier, e.g. "employee_badge".
	Identifier string `json:"identifier" validate:"required"`

	DisplayName string `json:"displayName,omitempty"`

	// Format tag dispatched on at issuance time, e.g. "jwt_vc_json".
	Format string `json:"format" validate:"required"`

	// SigningAlgorithm requested for this credential, e.g. "RS256".
	SigningAlgorithm string `json:"signingAlgorithm" validate:"required"`

	// ExpiresIn is the credential validity duration in seconds.
	ExpiresIn int `json:"expiresIn" validate:"required"`

	// Scope the access token must carry to be issued this credential.
	// When empty, the Identifier doubles as the required scope.
	Scope string `json:"scope,omitempty"`

	// Claims is the ordered set of claim names released into the credential subject.
	Claims []string `json:"claims,omitempty"`

	// OfferID associates this configuration with a wallet-facing credential offer.
	OfferID string `json:"offerId,omitempty"`

	// Type is an additional credential type advertised in issuer metadata.
	Type string `json:"type,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty"`
}

func (c *CredentialConfiguration) IsEmpty() bool {
	if c == nil {
		return true
	}
	return reflect.DeepEqual(c, &CredentialConfiguration{})
}

// RequiredScope returns the scope an access token must carry for this
// configuration: the explicit scope when set, the identifier otherwise.
func (c *CredentialConfiguration) RequiredScope() string {
	if c.Scope != "" {
		return c.Scope
	}
	return c.Identifier
}

type CreateConfigurationRequest struct {
	TenantDomain  string                  `json:"tenantDomain"`
	Configuration CredentialConfiguration `json:"configuration" validate:"required"`
}

type CreateConfigurationResponse struct {
	Configuration CredentialConfiguration `json:"configuration"`
}

type GetConfigurationRequest struct {
	ID           string `json:"id" validate:"required"`
	TenantDomain string `json:"tenantDomain"`
}

type GetConfigurationResponse struct {
	Configuration CredentialConfiguration `json:"configuration"`
}

type ListConfigurationsRequest struct {
	TenantDomain string `json:"tenantDomain"`
}

type ListConfigurationsResponse struct {
	Configurations []CredentialConfiguration `json:"configurations"`
}

type UpdateConfigurationRequest struct {
	TenantDomain  string                  `json:"tenantDomain"`
	Configuration CredentialConfiguration `json:"configuration" validate:"required"`
}

type UpdateConfigurationResponse struct {
	Configuration CredentialConfiguration `json:"configuration"`
}

type DeleteConfigurationRequest struct {
	ID           string `json:"id" validate:"required"`
	TenantDomain string `json:"tenantDomain"`
}
