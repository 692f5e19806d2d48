package keystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/pkg/storage"
)

func newTestService(t *testing.T) *Service {
	db, err := storage.NewStorage(storage.Memory)
	require.NoError(t, err)
	serviceConfig := config.KeyStoreServiceConfig{
		BaseServiceConfig:  &config.BaseServiceConfig{Name: "keystore"},
		ServiceKeyPassword: "test-password",
	}
	service, err := NewKeyStoreService(serviceConfig, db)
	require.NoError(t, err)
	return service
}

func TestKeyStoreService(t *testing.T) {
	t.Run("empty password rejected", func(tt *testing.T) {
		db, err := storage.NewStorage(storage.Memory)
		require.NoError(tt, err)
		_, err = NewKeyStoreService(config.KeyStoreServiceConfig{
			BaseServiceConfig: &config.BaseServiceConfig{Name: "keystore"},
		}, db)
		assert.Error(tt, err)
	})

	t.Run("generates key on first use", func(tt *testing.T) {
		service := newTestService(tt)
		material, err := service.GetSigningMaterial(context.Background(), "acme")
		assert.NoError(tt, err)
		require.NotNil(tt, material)
		assert.Equal(tt, "acme", material.TenantDomain)
		assert.NotNil(tt, material.Key)
		require.NotNil(tt, material.Certificate)
		assert.Contains(tt, material.Certificate.Subject.CommonName, "acme")
	})

	t.Run("returns the same key on subsequent use", func(tt *testing.T) {
		service := newTestService(tt)
		first, err := service.GetSigningMaterial(context.Background(), "acme")
		require.NoError(tt, err)
		second, err := service.GetSigningMaterial(context.Background(), "acme")
		require.NoError(tt, err)
		assert.True(tt, first.Key.Equal(second.Key))
		assert.Equal(tt, first.Certificate.Raw, second.Certificate.Raw)
	})

	t.Run("tenants get distinct keys", func(tt *testing.T) {
		service := newTestService(tt)
		acme, err := service.GetSigningMaterial(context.Background(), "acme")
		require.NoError(tt, err)
		other, err := service.GetSigningMaterial(context.Background(), "globex")
		require.NoError(tt, err)
		assert.False(tt, acme.Key.Equal(other.Key))
	})

	t.Run("blank tenant resolves to default", func(tt *testing.T) {
		service := newTestService(tt)
		blank, err := service.GetSigningMaterial(context.Background(), "")
		require.NoError(tt, err)
		assert.Equal(tt, config.DefaultTenantDomain, blank.TenantDomain)
		named, err := service.GetSigningMaterial(context.Background(), config.DefaultTenantDomain)
		require.NoError(tt, err)
		assert.True(tt, blank.Key.Equal(named.Key))
	})

	t.Run("thumbprint and key id are stable and distinct", func(tt *testing.T) {
		service := newTestService(tt)
		material, err := service.GetSigningMaterial(context.Background(), "acme")
		require.NoError(tt, err)
		assert.NotEmpty(tt, material.Thumbprint())
		assert.NotEmpty(tt, material.KeyID())
		assert.NotEqual(tt, material.Thumbprint(), material.KeyID())

		again, err := service.GetSigningMaterial(context.Background(), "acme")
		require.NoError(tt, err)
		assert.Equal(tt, material.Thumbprint(), again.Thumbprint())
		assert.Equal(tt, material.KeyID(), again.KeyID())
	})
}
