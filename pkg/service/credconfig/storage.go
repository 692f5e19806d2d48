package credconfig

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/storage"
)

const namespacePrefix = "credential-configuration"

// Storage persists credential configurations, one namespace per tenant,
// keyed by internal id. Identifier and offer-id lookups scan the tenant's
// namespace; tenants hold a small number of configurations.
type Storage struct {
	db storage.ServiceStorage
}

func NewConfigurationStorage(db storage.ServiceStorage) (*Storage, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	return &Storage{db: db}, nil
}

func tenantNamespace(tenantDomain string) string {
	return storage.MakeNamespace(namespacePrefix, tenantDomain)
}

func (s *Storage) StoreConfiguration(ctx context.Context, tenantDomain string, configuration CredentialConfiguration) error {
	if configuration.ID == "" {
		return util.LoggingNewError("could not store configuration without an ID")
	}
	configBytes, err := json.Marshal(configuration)
	if err != nil {
		return util.LoggingErrorMsgf(err, "could not marshal configuration: %s", configuration.ID)
	}
	return s.db.Write(ctx, tenantNamespace(tenantDomain), configuration.ID, configBytes)
}

func (s *Storage) GetConfiguration(ctx context.Context, id, tenantDomain string) (*CredentialConfiguration, error) {
	configBytes, err := s.db.Read(ctx, tenantNamespace(tenantDomain), id)
	if err != nil {
		return nil, errors.Wrapf(err, "reading configuration: %s", id)
	}
	if len(configBytes) == 0 {
		return nil, nil
	}
	var configuration CredentialConfiguration
	if err = json.Unmarshal(configBytes, &configuration); err != nil {
		return nil, errors.Wrapf(err, "unmarshalling configuration: %s", id)
	}
	return &configuration, nil
}

func (s *Storage) GetConfigurationByIdentifier(ctx context.Context, identifier, tenantDomain string) (*CredentialConfiguration, error) {
	return s.findConfiguration(ctx, tenantDomain, func(c CredentialConfiguration) bool {
		return c.Identifier == identifier
	})
}

func (s *Storage) GetConfigurationByOfferID(ctx context.Context, offerID, tenantDomain string) (*CredentialConfiguration, error) {
	if offerID == "" {
		return nil, nil
	}
	return s.findConfiguration(ctx, tenantDomain, func(c CredentialConfiguration) bool {
		return c.OfferID == offerID
	})
}

func (s *Storage) ListConfigurations(ctx context.Context, tenantDomain string) ([]CredentialConfiguration, error) {
	all, err := s.db.ReadAll(ctx, tenantNamespace(tenantDomain))
	if err != nil {
		return nil, errors.Wrapf(err, "reading configurations for tenant: %s", tenantDomain)
	}
	configurations := make([]CredentialConfiguration, 0, len(all))
	for key, configBytes := range all {
		var configuration CredentialConfiguration
		if err = json.Unmarshal(configBytes, &configuration); err != nil {
			return nil, errors.Wrapf(err, "unmarshalling configuration: %s", key)
		}
		configurations = append(configurations, configuration)
	}
	return configurations, nil
}

func (s *Storage) DeleteConfiguration(ctx context.Context, id, tenantDomain string) error {
	if err := s.db.Delete(ctx, tenantNamespace(tenantDomain), id); err != nil {
		return errors.Wrapf(err, "deleting configuration: %s", id)
	}
	return nil
}

func (s *Storage) findConfiguration(ctx context.Context, tenantDomain string, match func(CredentialConfiguration) bool) (*CredentialConfiguration, error) {
	configurations, err := s.ListConfigurations(ctx, tenantDomain)
	if err != nil {
		return nil, err
	}
	for i := range configurations {
		if match(configurations[i]) {
			return &configurations[i], nil
		}
	}
	return nil, nil
}
