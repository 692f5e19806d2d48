package credconfig

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/service/framework"
	"github.com/openvci/vci-service/pkg/storage"
)

// Service manages tenant-scoped credential configurations. The issuance,
// metadata, and offer services read through it; administrators create,
// update, and delete through it.
type Service struct {
	config  config.CredConfigServiceConfig
	storage *Storage
}

func (s *Service) Type() framework.Type {
	return framework.CredentialConfig
}

func (s *Service) Status() framework.Status {
	if s.storage == nil {
		return framework.Status{
			Status:  framework.StatusNotReady,
			Message: "no storage configured",
		}
	}
	return framework.Status{Status: framework.StatusReady}
}

func NewCredentialConfigurationService(config config.CredConfigServiceConfig, s storage.ServiceStorage) (*Service, error) {
	configurationStorage, err := NewConfigurationStorage(s)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "instantiating storage for the credential configuration service")
	}
	return &Service{config: config, storage: configurationStorage}, nil
}

func (s *Service) CreateConfiguration(ctx context.Context, request CreateConfigurationRequest) (*CreateConfigurationResponse, error) {
	configuration := request.Configuration
	if configuration.Identifier == "" {
		return nil, common.NewError(common.KindInvalidRequest, "configuration identifier is required")
	}
	if configuration.Format == "" {
		return nil, common.NewError(common.KindInvalidRequest, "configuration format is required")
	}
	tenantDomain := resolveTenant(request.TenantDomain)

	// identifier and offer id are unique within a tenant
	existing, err := s.storage.GetConfigurationByIdentifier(ctx, configuration.Identifier, tenantDomain)
	if err != nil {
		return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "checking identifier uniqueness for tenant: %s", tenantDomain)
	}
	if existing != nil {
		return nil, common.NewErrorf(common.KindInvalidRequest, "configuration with identifier<%s> already exists in tenant: %s", configuration.Identifier, tenantDomain)
	}
	if configuration.OfferID != "" {
		existing, err = s.storage.GetConfigurationByOfferID(ctx, configuration.OfferID, tenantDomain)
		if err != nil {
			return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "checking offer id uniqueness for tenant: %s", tenantDomain)
		}
		if existing != nil {
			return nil, common.NewErrorf(common.KindInvalidRequest, "configuration with offer id<%s> already exists in tenant: %s", configuration.OfferID, tenantDomain)
		}
	}

	configuration.ID = uuid.NewString()
	if err = s.storage.StoreConfiguration(ctx, tenantDomain, configuration); err != nil {
		return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "storing configuration: %s", configuration.Identifier)
	}

	logrus.Debugf("created credential configuration<%s> for tenant: %s", configuration.Identifier, tenantDomain)
	return &CreateConfigurationResponse{Configuration: configuration}, nil
}

func (s *Service) GetConfiguration(ctx context.Context, request GetConfigurationRequest) (*GetConfigurationResponse, error) {
	tenantDomain := resolveTenant(request.TenantDomain)
	configuration, err := s.storage.GetConfiguration(ctx, request.ID, tenantDomain)
	if err != nil {
		return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "getting configuration: %s", request.ID)
	}
	if configuration == nil {
		return nil, common.NewErrorf(common.KindNotFound, "configuration with id<%s> could not be found in tenant: %s", request.ID, tenantDomain)
	}
	return &GetConfigurationResponse{Configuration: *configuration}, nil
}

// GetConfigurationByIdentifier resolves a configuration by its human
// identifier within a tenant. Returns a not-found kind when absent.
func (s *Service) GetConfigurationByIdentifier(ctx context.Context, identifier, tenantDomain string) (*CredentialConfiguration, error) {
	configuration, err := s.storage.GetConfigurationByIdentifier(ctx, identifier, resolveTenant(tenantDomain))
	if err != nil {
		return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "getting configuration by identifier: %s", identifier)
	}
	if configuration == nil {
		return nil, common.NewErrorf(common.KindNotFound, "no credential configuration found for identifier: %s in tenant: %s", identifier, resolveTenant(tenantDomain))
	}
	return configuration, nil
}

// GetConfigurationByOfferID resolves the configuration associated with a
// credential offer. Returns a not-found kind when absent.
func (s *Service) GetConfigurationByOfferID(ctx context.Context, offerID, tenantDomain string) (*CredentialConfiguration, error) {
	configuration, err := s.storage.GetConfigurationByOfferID(ctx, offerID, resolveTenant(tenantDomain))
	if err != nil {
		return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "getting configuration by offer id: %s", offerID)
	}
	if configuration == nil {
		return nil, common.NewErrorf(common.KindNotFound, "no credential configuration found for offer id: %s", offerID)
	}
	return configuration, nil
}

func (s *Service) ListConfigurations(ctx context.Context, request ListConfigurationsRequest) (*ListConfigurationsResponse, error) {
	tenantDomain := resolveTenant(request.TenantDomain)
	configurations, err := s.storage.ListConfigurations(ctx, tenantDomain)
	if err != nil {
		return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "listing configurations for tenant: %s", tenantDomain)
	}
	return &ListConfigurationsResponse{Configurations: configurations}, nil
}

func (s *Service) UpdateConfiguration(ctx context.Context, request UpdateConfigurationRequest) (*UpdateConfigurationResponse, error) {
	configuration := request.Configuration
	if configuration.ID == "" {
		return nil, common.NewError(common.KindInvalidRequest, "configuration id is required")
	}
	tenantDomain := resolveTenant(request.TenantDomain)

	existing, err := s.storage.GetConfiguration(ctx, configuration.ID, tenantDomain)
	if err != nil {
		return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "getting configuration: %s", configuration.ID)
	}
	if existing == nil {
		return nil, common.NewErrorf(common.KindNotFound, "configuration with id<%s> could not be found in tenant: %s", configuration.ID, tenantDomain)
	}

	// a changed identifier or offer id must not collide with another configuration
	if configuration.Identifier != existing.Identifier {
		collision, err := s.storage.GetConfigurationByIdentifier(ctx, configuration.Identifier, tenantDomain)
		if err != nil {
			return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "checking identifier uniqueness for tenant: %s", tenantDomain)
		}
		if collision != nil {
			return nil, common.NewErrorf(common.KindInvalidRequest, "configuration with identifier<%s> already exists in tenant: %s", configuration.Identifier, tenantDomain)
		}
	}
	if configuration.OfferID != "" && configuration.OfferID != existing.OfferID {
		collision, err := s.storage.GetConfigurationByOfferID(ctx, configuration.OfferID, tenantDomain)
		if err != nil {
			return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "checking offer id uniqueness for tenant: %s", tenantDomain)
		}
		if collision != nil {
			return nil, common.NewErrorf(common.KindInvalidRequest, "configuration with offer id<%s> already exists in tenant: %s", configuration.OfferID, tenantDomain)
		}
	}

	if err = s.storage.StoreConfiguration(ctx, tenantDomain, configuration); err != nil {
		return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "storing configuration: %s", configuration.ID)
	}
	return &UpdateConfigurationResponse{Configuration: configuration}, nil
}

func (s *Service) DeleteConfiguration(ctx context.Context, request DeleteConfigurationRequest) error {
	tenantDomain := resolveTenant(request.TenantDomain)
	configuration, err := s.storage.GetConfiguration(ctx, request.ID, tenantDomain)
	if err != nil {
		return common.WrapErrorf(common.KindUpstreamFailure, err, "getting configuration: %s", request.ID)
	}
	if configuration == nil {
		return common.NewErrorf(common.KindNotFound, "configuration with id<%s> could not be found in tenant: %s", request.ID, tenantDomain)
	}
	if err = s.storage.DeleteConfiguration(ctx, request.ID, tenantDomain); err != nil {
		return common.WrapErrorf(common.KindUpstreamFailure, err, "deleting configuration: %s", request.ID)
	}
	return nil
}

func resolveTenant(tenantDomain string) string {
	if tenantDomain == "" {
		return config.DefaultTenantDomain
	}
	return tenantDomain
}
