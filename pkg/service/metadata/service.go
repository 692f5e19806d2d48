package metadata

import (
	"context"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/internal/urlbuilder"
	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/service/credconfig"
	"github.com/openvci/vci-service/pkg/service/framework"
)

// Service assembles the issuer metadata document from the tenant's stored
// credential configurations. The document is derived on every request; two
// requests against unchanged configuration produce identical documents.
type Service struct {
	config        config.MetadataServiceConfig
	configuration *credconfig.Service
	urlBuilder    *urlbuilder.Builder
}

func (s *Service) Type() framework.Type {
	return framework.Metadata
}

func (s *Service) Status() framework.Status {
	if s.configuration == nil || s.urlBuilder == nil {
		return framework.Status{
			Status:  framework.StatusNotReady,
			Message: "metadata dependencies not configured",
		}
	}
	return framework.Status{Status: framework.StatusReady}
}

func NewMetadataService(config config.MetadataServiceConfig, configurationService *credconfig.Service, urlBuilder *urlbuilder.Builder) (*Service, error) {
	if configurationService == nil {
		return nil, util.LoggingNewError("credential configuration service is required for the metadata service")
	}
	if urlBuilder == nil {
		return nil, util.LoggingNewError("url builder is required for the metadata service")
	}
	return &Service{config: config, configuration: configurationService, urlBuilder: urlBuilder}, nil
}

// GetIssuerMetadata builds the tenant's issuer metadata document. A tenant
// with no configurations yields a document with an empty configurations map,
// not an error.
func (s *Service) GetIssuerMetadata(ctx context.Context, request GetIssuerMetadataRequest) (*GetIssuerMetadataResponse, error) {
	tenantDomain := request.TenantDomain

	issuerIdentifier, err := s.urlBuilder.Build(tenantDomain, urlbuilder.OID4VCISegment)
	if err != nil {
		return nil, common.WrapError(common.KindUpstreamFailure, err, "building issuer identifier")
	}
	credentialEndpoint, err := s.urlBuilder.Build(tenantDomain, urlbuilder.OID4VCISegment, urlbuilder.CredentialSegment)
	if err != nil {
		return nil, common.WrapError(common.KindUpstreamFailure, err, "building credential endpoint")
	}
	authorizationServer, err := s.urlBuilder.Build(tenantDomain, urlbuilder.OAuth2Segment, urlbuilder.TokenSegment)
	if err != nil {
		return nil, common.WrapError(common.KindUpstreamFailure, err, "building authorization server endpoint")
	}

	listed, err := s.configuration.ListConfigurations(ctx, credconfig.ListConfigurationsRequest{TenantDomain: tenantDomain})
	if err != nil {
		return nil, err
	}

	supported := make(map[string]CredentialConfigurationMetadata, len(listed.Configurations))
	for _, configuration := range listed.Configurations {
		supported[configuration.Identifier] = buildConfigurationMetadata(configuration)
	}

	return &GetIssuerMetadataResponse{
		Metadata: IssuerMetadata{
			CredentialIssuer:                  issuerIdentifier,
			CredentialEndpoint:                credentialEndpoint,
			AuthorizationServers:              []string{authorizationServer},
			CredentialConfigurationsSupported: supported,
		},
	}, nil
}
