package credconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/storage"
	"github.com/openvci/vci-service/pkg/testutil"
)

func newTestService(t *testing.T, db storage.ServiceStorage) *Service {
	serviceConfig := config.CredConfigServiceConfig{BaseServiceConfig: &config.BaseServiceConfig{Name: "credconfig"}}
	service, err := NewCredentialConfigurationService(serviceConfig, db)
	require.NoError(t, err)
	return service
}

func badgeConfiguration() CredentialConfiguration {
	return CredentialConfiguration{
		Identifier:       "employee_badge",
		DisplayName:      "Employee Badge",
		Format:           "jwt_vc_json",
		SigningAlgorithm: "RS256",
		ExpiresIn:        3600,
		Claims:           []string{"givenName", "familyName", "department"},
		OfferID:          "badge-offer",
	}
}

func TestCreateConfiguration(t *testing.T) {
	for _, test := range testutil.TestDatabases {
		t.Run(test.Name, func(t *testing.T) {
			service := newTestService(t, test.ServiceStorage(t))

			t.Run("missing identifier", func(tt *testing.T) {
				_, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
					Configuration: CredentialConfiguration{Format: "jwt_vc_json"},
				})
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindInvalidRequest))
			})

			t.Run("missing format", func(tt *testing.T) {
				_, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
					Configuration: CredentialConfiguration{Identifier: "employee_badge"},
				})
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindInvalidRequest))
			})

			t.Run("happy path assigns an id", func(tt *testing.T) {
				created, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
					Configuration: badgeConfiguration(),
				})
				assert.NoError(tt, err)
				assert.NotEmpty(tt, created.Configuration.ID)
				assert.Equal(tt, "employee_badge", created.Configuration.Identifier)
			})

			t.Run("duplicate identifier in same tenant", func(tt *testing.T) {
				_, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
					Configuration: badgeConfiguration(),
				})
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindInvalidRequest))
				assert.Contains(tt, err.Error(), "already exists")
			})

			t.Run("same identifier in another tenant", func(tt *testing.T) {
				created, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
					TenantDomain:  "acme",
					Configuration: badgeConfiguration(),
				})
				assert.NoError(tt, err)
				assert.NotEmpty(tt, created.Configuration.ID)
			})

			t.Run("duplicate offer id in same tenant", func(tt *testing.T) {
				configuration := badgeConfiguration()
				configuration.Identifier = "contractor_badge"
				_, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
					Configuration: configuration,
				})
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindInvalidRequest))
				assert.Contains(tt, err.Error(), "badge-offer")
			})
		})
	}
}

func TestGetConfiguration(t *testing.T) {
	for _, test := range testutil.TestDatabases {
		t.Run(test.Name, func(t *testing.T) {
			service := newTestService(t, test.ServiceStorage(t))

			created, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
				Configuration: badgeConfiguration(),
			})
			require.NoError(t, err)

			t.Run("by id", func(tt *testing.T) {
				got, err := service.GetConfiguration(context.Background(), GetConfigurationRequest{ID: created.Configuration.ID})
				assert.NoError(tt, err)
				assert.Equal(tt, created.Configuration, got.Configuration)
			})

			t.Run("unknown id", func(tt *testing.T) {
				_, err := service.GetConfiguration(context.Background(), GetConfigurationRequest{ID: "bad"})
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindNotFound))
			})

			t.Run("by identifier", func(tt *testing.T) {
				got, err := service.GetConfigurationByIdentifier(context.Background(), "employee_badge", "")
				assert.NoError(tt, err)
				assert.Equal(tt, created.Configuration.ID, got.ID)
			})

			t.Run("by identifier from wrong tenant", func(tt *testing.T) {
				_, err := service.GetConfigurationByIdentifier(context.Background(), "employee_badge", "acme")
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindNotFound))
			})

			t.Run("by offer id", func(tt *testing.T) {
				got, err := service.GetConfigurationByOfferID(context.Background(), "badge-offer", "")
				assert.NoError(tt, err)
				assert.Equal(tt, created.Configuration.ID, got.ID)
			})

			t.Run("unknown offer id", func(tt *testing.T) {
				_, err := service.GetConfigurationByOfferID(context.Background(), "missing", "")
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindNotFound))
			})
		})
	}
}

func TestUpdateConfiguration(t *testing.T) {
	for _, test := range testutil.TestDatabases {
		t.Run(test.Name, func(t *testing.T) {
			service := newTestService(t, test.ServiceStorage(t))

			created, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
				Configuration: badgeConfiguration(),
			})
			require.NoError(t, err)

			t.Run("missing id", func(tt *testing.T) {
				_, err := service.UpdateConfiguration(context.Background(), UpdateConfigurationRequest{
					Configuration: badgeConfiguration(),
				})
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindInvalidRequest))
			})

			t.Run("unknown id", func(tt *testing.T) {
				configuration := badgeConfiguration()
				configuration.ID = "bad"
				_, err := service.UpdateConfiguration(context.Background(), UpdateConfigurationRequest{
					Configuration: configuration,
				})
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindNotFound))
			})

			t.Run("happy path", func(tt *testing.T) {
				configuration := created.Configuration
				configuration.ExpiresIn = 7200
				updated, err := service.UpdateConfiguration(context.Background(), UpdateConfigurationRequest{
					Configuration: configuration,
				})
				assert.NoError(tt, err)
				assert.Equal(tt, 7200, updated.Configuration.ExpiresIn)

				got, err := service.GetConfiguration(context.Background(), GetConfigurationRequest{ID: configuration.ID})
				assert.NoError(tt, err)
				assert.Equal(tt, 7200, got.Configuration.ExpiresIn)
			})

			t.Run("identifier collision", func(tt *testing.T) {
				other := badgeConfiguration()
				other.Identifier = "contractor_badge"
				other.OfferID = "contractor-offer"
				otherCreated, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
					Configuration: other,
				})
				require.NoError(tt, err)

				configuration := otherCreated.Configuration
				configuration.Identifier = "employee_badge"
				_, err = service.UpdateConfiguration(context.Background(), UpdateConfigurationRequest{
					Configuration: configuration,
				})
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindInvalidRequest))
			})
		})
	}
}

func TestDeleteConfiguration(t *testing.T) {
	for _, test := range testutil.TestDatabases {
		t.Run(test.Name, func(t *testing.T) {
			service := newTestService(t, test.ServiceStorage(t))

			created, err := service.CreateConfiguration(context.Background(), CreateConfigurationRequest{
				Configuration: badgeConfiguration(),
			})
			require.NoError(t, err)

			t.Run("unknown id", func(tt *testing.T) {
				err := service.DeleteConfiguration(context.Background(), DeleteConfigurationRequest{ID: "bad"})
				assert.Error(tt, err)
				assert.True(tt, common.IsKind(err, common.KindNotFound))
			})

			t.Run("happy path", func(tt *testing.T) {
				err := service.DeleteConfiguration(context.Background(), DeleteConfigurationRequest{ID: created.Configuration.ID})
				assert.NoError(tt, err)

				listed, err := service.ListConfigurations(context.Background(), ListConfigurationsRequest{})
				assert.NoError(tt, err)
				assert.Empty(tt, listed.Configurations)
			})
		})
	}
}
