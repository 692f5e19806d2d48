package offer

import (
	"context"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/internal/urlbuilder"
	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/service/credconfig"
	"github.com/openvci/vci-service/pkg/service/framework"
)

// Service resolves wallet-facing credential offers. An offer id maps to the
// credential configuration that advertises it; the offer document points the
// wallet at the issuer and its authorization server.
type Service struct {
	config        config.OfferServiceConfig
	configuration *credconfig.Service
	urlBuilder    *urlbuilder.Builder
}

func (s *Service) Type() framework.Type {
	return framework.Offer
}

func (s *Service) Status() framework.Status {
	if s.configuration == nil || s.urlBuilder == nil {
		return framework.Status{
			Status:  framework.StatusNotReady,
			Message: "offer dependencies not configured",
		}
	}
	return framework.Status{Status: framework.StatusReady}
}

func NewOfferService(config config.OfferServiceConfig, configurationService *credconfig.Service, urlBuilder *urlbuilder.Builder) (*Service, error) {
	if configurationService == nil {
		return nil, util.LoggingNewError("credential configuration service is required for the offer service")
	}
	if urlBuilder == nil {
		return nil, util.LoggingNewError("url builder is required for the offer service")
	}
	return &Service{config: config, configuration: configurationService, urlBuilder: urlBuilder}, nil
}

// GetCredentialOffer builds the offer document for the given offer id.
func (s *Service) GetCredentialOffer(ctx context.Context, request GetCredentialOfferRequest) (*GetCredentialOfferResponse, error) {
	if request.OfferID == "" {
		return nil, common.NewError(common.KindInvalidRequest, "offer id is required")
	}

	configuration, err := s.configuration.GetConfigurationByOfferID(ctx, request.OfferID, request.TenantDomain)
	if err != nil {
		return nil, err
	}

	issuerIdentifier, err := s.urlBuilder.Build(request.TenantDomain, urlbuilder.OID4VCISegment)
	if err != nil {
		return nil, common.WrapError(common.KindUpstreamFailure, err, "building issuer identifier")
	}
	authorizationServer, err := s.urlBuilder.Build(request.TenantDomain, urlbuilder.OAuth2Segment, urlbuilder.TokenSegment)
	if err != nil {
		return nil, common.WrapError(common.KindUpstreamFailure, err, "building authorization server endpoint")
	}

	return &GetCredentialOfferResponse{
		Offer: CredentialOffer{
			CredentialIssuer:           issuerIdentifier,
			CredentialConfigurationIDs: []string{configuration.Identifier},
			Grants: Grants{
				AuthorizationCode: AuthorizationCodeGrant{AuthorizationServer: authorizationServer},
			},
		},
	}, nil
}
