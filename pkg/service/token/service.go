package token

import (
	"context"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/service/framework"
	"github.com/openvci/vci-service/pkg/service/keystore"
)

const (
	scopeClaim      = "scope"
	bearerTokenType = "Bearer"
)

// Service mints and verifies OAuth-style access tokens. Tokens are RS256 JWTs
// signed with the tenant's keystore key; the scope claim is a space-separated
// list per RFC 6749.
type Service struct {
	config   config.TokenServiceConfig
	keystore *keystore.Service
	clock    clock.Clock
}

func (s *Service) Type() framework.Type {
	return framework.Token
}

func (s *Service) Status() framework.Status {
	if s.keystore == nil {
		return framework.Status{
			Status:  framework.StatusNotReady,
			Message: "keystore service not configured",
		}
	}
	return framework.Status{Status: framework.StatusReady}
}

func NewTokenService(config config.TokenServiceConfig, keyStore *keystore.Service, clk clock.Clock) (*Service, error) {
	if keyStore == nil {
		return nil, util.LoggingNewError("keystore service is required for the token service")
	}
	if clk == nil {
		clk = clock.New()
	}
	if config.AccessTokenExpiry == 0 {
		config.AccessTokenExpiry = time.Hour
	}
	return &Service{config: config, keystore: keyStore, clock: clk}, nil
}

// MintToken signs an access token for the subject with the given scopes.
// Intended for bootstrap tooling and tests; production deployments point
// wallets at an external authorization server instead.
func (s *Service) MintToken(ctx context.Context, request MintTokenRequest) (*MintTokenResponse, error) {
	if request.Subject == "" {
		return nil, common.NewError(common.KindInvalidRequest, "token subject is required")
	}
	material, err := s.keystore.GetSigningMaterial(ctx, request.TenantDomain)
	if err != nil {
		return nil, common.WrapError(common.KindUpstreamFailure, err, "getting signing material for token minting")
	}

	now := s.clock.Now()
	builder := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Subject(request.Subject).
		IssuedAt(now).
		Expiration(now.Add(s.config.AccessTokenExpiry))
	if len(request.Scopes) > 0 {
		builder = builder.Claim(scopeClaim, strings.Join(request.Scopes, " "))
	}
	accessToken, err := builder.Build()
	if err != nil {
		return nil, common.WrapError(common.KindSigningFailure, err, "building access token")
	}
	signed, err := jwt.Sign(accessToken, jwt.WithKey(jwa.RS256, material.Key))
	if err != nil {
		return nil, common.WrapError(common.KindSigningFailure, err, "signing access token")
	}
	return &MintTokenResponse{
		AccessToken: string(signed),
		TokenType:   bearerTokenType,
		ExpiresIn:   int(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

// VerifyToken validates the token's signature against the tenant's key and
// checks temporal claims. Expired tokens fail unless allowExpired is set.
// All failures map to an unauthorized kind so the transport layer never
// leaks why a token was rejected.
func (s *Service) VerifyToken(ctx context.Context, token, tenantDomain string, allowExpired bool) (*VerifiedToken, error) {
	if token == "" {
		return nil, common.NewError(common.KindUnauthorized, "access token is empty")
	}
	material, err := s.keystore.GetSigningMaterial(ctx, tenantDomain)
	if err != nil {
		return nil, common.WrapError(common.KindUpstreamFailure, err, "getting signing material for token verification")
	}

	// signature verification always runs; temporal validation is skipped
	// for callers that accept expired tokens
	parseOptions := []jwt.ParseOption{
		jwt.WithKey(jwa.RS256, material.Key.Public()),
		jwt.WithValidate(!allowExpired),
		jwt.WithClock(s.clock),
	}
	parsed, err := jwt.Parse([]byte(token), parseOptions...)
	if err != nil {
		return nil, common.WrapError(common.KindUnauthorized, err, "access token verification failed")
	}

	verified := VerifiedToken{Subject: parsed.Subject()}
	if rawScope, ok := parsed.Get(scopeClaim); ok {
		if scope, ok := rawScope.(string); ok {
			verified.Scopes = strings.Fields(scope)
		}
	}
	return &verified, nil
}
