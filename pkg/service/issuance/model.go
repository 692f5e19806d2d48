package issuance

// IssueCredentialRequest is the service-level form of an OID4VCI credential
// request: the bearer token from the Authorization header plus the decoded
// request body.
type IssueCredentialRequest struct {
	AccessToken               string `json:"-"`
	TenantDomain              string `json:"-"`
	CredentialConfigurationID string `json:"credential_configuration_id" validate:"required"`
}

type IssueCredentialResponse struct {
	Credential string `json:"credential"`
}
