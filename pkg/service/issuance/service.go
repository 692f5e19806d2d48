package issuance

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/internal/issuer"
	"github.com/openvci/vci-service/internal/urlbuilder"
	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/attribute"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/service/credconfig"
	"github.com/openvci/vci-service/pkg/service/framework"
	"github.com/openvci/vci-service/pkg/service/token"
)

const subjectClaim = "id"

// Service orchestrates the OID4VCI credential endpoint: verify the access
// token, resolve the requested configuration, authorize by scope, resolve
// the subject's claims, and hand off to the registered format handler.
type Service struct {
	config        config.IssuanceServiceConfig
	configuration *credconfig.Service
	token         *token.Service
	attribute     *attribute.Service
	issuer        *issuer.CredentialIssuer
	urlBuilder    *urlbuilder.Builder
}

func (s *Service) Type() framework.Type {
	return framework.Issuance
}

func (s *Service) Status() framework.Status {
	if s.configuration == nil || s.token == nil || s.attribute == nil || s.issuer == nil {
		return framework.Status{
			Status:  framework.StatusNotReady,
			Message: "issuance dependencies not configured",
		}
	}
	return framework.Status{Status: framework.StatusReady}
}

func NewIssuanceService(config config.IssuanceServiceConfig, configurationService *credconfig.Service, tokenService *token.Service,
	attributeService *attribute.Service, credentialIssuer *issuer.CredentialIssuer, urlBuilder *urlbuilder.Builder) (*Service, error) {
	if configurationService == nil {
		return nil, util.LoggingNewError("credential configuration service is required for the issuance service")
	}
	if tokenService == nil {
		return nil, util.LoggingNewError("token service is required for the issuance service")
	}
	if attributeService == nil {
		return nil, util.LoggingNewError("attribute service is required for the issuance service")
	}
	if credentialIssuer == nil {
		return nil, util.LoggingNewError("credential issuer is required for the issuance service")
	}
	if urlBuilder == nil {
		return nil, util.LoggingNewError("url builder is required for the issuance service")
	}
	return &Service{
		config:        config,
		configuration: configurationService,
		token:         tokenService,
		attribute:     attributeService,
		issuer:        credentialIssuer,
		urlBuilder:    urlBuilder,
	}, nil
}

// IssueCredential runs the issuance flow end to end for one credential
// request.
func (s *Service) IssueCredential(ctx context.Context, request *IssueCredentialRequest) (*IssueCredentialResponse, error) {
	if request == nil {
		return nil, common.NewError(common.KindInvalidRequest, "credential request is required")
	}
	if request.CredentialConfigurationID == "" {
		return nil, common.NewError(common.KindInvalidRequest, "credential_configuration_id is required")
	}

	verified, err := s.token.VerifyToken(ctx, request.AccessToken, request.TenantDomain, false)
	if err != nil {
		return nil, err
	}

	configuration, err := s.configuration.GetConfigurationByIdentifier(ctx, request.CredentialConfigurationID, request.TenantDomain)
	if err != nil {
		return nil, err
	}

	if !verified.HasScope(configuration.RequiredScope()) {
		return nil, common.NewErrorf(common.KindInsufficientScope, "access token is missing scope<%s> required for configuration: %s",
			configuration.RequiredScope(), configuration.Identifier)
	}

	claims, err := s.attribute.GetClaims(ctx, verified.Subject, request.TenantDomain, configuration.Claims)
	if err != nil {
		return nil, err
	}
	// the subject's identifier always rides along, even when not configured
	claims[subjectClaim] = verified.Subject

	issuerIdentifier, err := s.urlBuilder.Build(request.TenantDomain, urlbuilder.OID4VCISegment)
	if err != nil {
		return nil, common.WrapError(common.KindUpstreamFailure, err, "building issuer identifier")
	}

	credential, err := s.issuer.Issue(ctx, issuer.Context{
		Configuration: configuration,
		TenantDomain:  request.TenantDomain,
		Issuer:        issuerIdentifier,
		SubjectID:     verified.Subject,
		Claims:        claims,
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("issued credential<%s> to subject<%s> in tenant: %s",
		configuration.Identifier, util.SanitizeLog(verified.Subject), resolveTenant(request.TenantDomain))
	return &IssueCredentialResponse{Credential: credential}, nil
}

func resolveTenant(tenantDomain string) string {
	if tenantDomain == "" {
		return config.DefaultTenantDomain
	}
	return tenantDomain
}
