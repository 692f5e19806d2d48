package issuer

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/service/keystore"
)

const (
	// FormatJWTVCJSON is the OID4VCI format tag for JWT-enveloped W3C VCs.
	FormatJWTVCJSON = "jwt_vc_json"

	vcClaim  = "vc"
	algRS256 = "RS256"
	jwtType  = "JWT"
)

// JWTVCHandler issues jwt_vc_json credentials: a W3C VC envelope carried in
// the vc claim of an RS256-signed JWT. The signing key and certificate come
// from the tenant's keystore.
type JWTVCHandler struct {
	keystore *keystore.Service
	clock    clock.Clock
}

func NewJWTVCHandler(keyStore *keystore.Service, clk clock.Clock) (*JWTVCHandler, error) {
	if keyStore == nil {
		return nil, util.LoggingNewError("keystore service is required for the jwt_vc_json handler")
	}
	if clk == nil {
		clk = clock.New()
	}
	return &JWTVCHandler{keystore: keyStore, clock: clk}, nil
}

func (h *JWTVCHandler) Format() string {
	return FormatJWTVCJSON
}

func (h *JWTVCHandler) IssueCredential(ctx context.Context, issuance Context) (string, error) {
	configuration := issuance.Configuration
	if configuration.SigningAlgorithm != algRS256 {
		return "", common.NewErrorf(common.KindSigningFailure, "unsupported signing algorithm<%s> for configuration: %s", configuration.SigningAlgorithm, configuration.Identifier)
	}

	material, err := h.keystore.GetSigningMaterial(ctx, issuance.TenantDomain)
	if err != nil {
		return "", common.WrapErrorf(common.KindUpstreamFailure, err, "getting signing material for tenant: %s", issuance.TenantDomain)
	}

	now := h.clock.Now()
	validUntil := now.Add(time.Duration(configuration.ExpiresIn) * time.Second)
	credentialID := "urn:uuid:" + uuid.NewString()

	credential := NewCredentialBuilder().
		AddContext(configuration.Identifier).
		AddType(configuration.Identifier).
		ID(credentialID).
		Issuer(issuance.Issuer).
		ValidFrom(now).
		ValidUntil(validUntil).
		CredentialSubject(issuance.Claims).
		Build()

	payload, err := jwt.NewBuilder().
		Issuer(issuance.Issuer).
		JwtID(credentialID).
		Subject(issuance.SubjectID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(validUntil).
		Claim(vcClaim, credential).
		Build()
	if err != nil {
		return "", common.WrapErrorf(common.KindSigningFailure, err, "building credential payload for tenant: %s", issuance.TenantDomain)
	}

	headers := jws.NewHeaders()
	if err = headers.Set(jws.TypeKey, jwtType); err != nil {
		return "", common.WrapError(common.KindSigningFailure, err, "setting typ header")
	}
	if err = headers.Set(jws.KeyIDKey, material.KeyID()); err != nil {
		return "", common.WrapError(common.KindSigningFailure, err, "setting kid header")
	}
	if err = headers.Set(jws.X509CertThumbprintKey, material.Thumbprint()); err != nil {
		return "", common.WrapError(common.KindSigningFailure, err, "setting x5t header")
	}

	signed, err := jwt.Sign(payload, jwt.WithKey(jwa.RS256, material.Key, jws.WithProtectedHeaders(headers)))
	if err != nil {
		return "", common.WrapErrorf(common.KindSigningFailure, err, "signing credential for tenant: %s", issuance.TenantDomain)
	}
	return string(signed), nil
}
