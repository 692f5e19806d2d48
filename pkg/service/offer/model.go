package offer

// CredentialOffer is the document a wallet retrieves by offer id, shaped per
// the OID4VCI credential offer parameters.
type CredentialOffer struct {
	CredentialIssuer           string   `json:"credential_issuer"`
	CredentialConfigurationIDs []string `json:"credential_configuration_ids"`
	Grants                     Grants   `json:"grants"`
}

type Grants struct {
	AuthorizationCode AuthorizationCodeGrant `json:"authorization_code"`
}

type AuthorizationCodeGrant struct {
	AuthorizationServer string `json:"authorization_server"`
}

type GetCredentialOfferRequest struct {
	OfferID      string `json:"offerId" validate:"required"`
	TenantDomain string `json:"tenantDomain"`
}

type GetCredentialOfferResponse struct {
	Offer CredentialOffer `json:"offer"`
}
