package token

// VerifiedToken is the projection of a validated access token the issuance
// flow cares about: who the token was issued to and which scopes it carries.
type VerifiedToken struct {
	Subject string   `json:"subject"`
	Scopes  []string `json:"scopes"`
}

// HasScope reports whether the token carries the given scope exactly.
// Matching is case sensitive with no prefix or wildcard semantics.
func (t *VerifiedToken) HasScope(scope string) bool {
	for _, s := range t.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

type MintTokenRequest struct {
	Subject      string   `json:"subject" validate:"required"`
	Scopes       []string `json:"scopes"`
	TenantDomain string   `json:"tenantDomain"`
}

type MintTokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}
