package token

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/service/keystore"
	"github.com/openvci/vci-service/pkg/storage"
)

func newTestService(t *testing.T, clk clock.Clock) *Service {
	db, err := storage.NewStorage(storage.Memory)
	require.NoError(t, err)
	keyStore, err := keystore.NewKeyStoreService(config.KeyStoreServiceConfig{
		BaseServiceConfig:  &config.BaseServiceConfig{Name: "keystore"},
		ServiceKeyPassword: "test-password",
	}, db)
	require.NoError(t, err)
	service, err := NewTokenService(config.TokenServiceConfig{
		BaseServiceConfig: &config.BaseServiceConfig{Name: "token"},
		AccessTokenExpiry: time.Hour,
	}, keyStore, clk)
	require.NoError(t, err)
	return service
}

func TestMintAndVerifyToken(t *testing.T) {
	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	service := newTestService(t, mockClock)

	t.Run("missing subject", func(tt *testing.T) {
		_, err := service.MintToken(context.Background(), MintTokenRequest{})
		assert.Error(tt, err)
		assert.True(tt, common.IsKind(err, common.KindInvalidRequest))
	})

	minted, err := service.MintToken(context.Background(), MintTokenRequest{
		Subject: "user-42",
		Scopes:  []string{"employee_badge", "openid"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, minted.AccessToken)
	assert.Equal(t, "Bearer", minted.TokenType)
	assert.Equal(t, 3600, minted.ExpiresIn)

	t.Run("round trip", func(tt *testing.T) {
		verified, err := service.VerifyToken(context.Background(), minted.AccessToken, "", false)
		assert.NoError(tt, err)
		assert.Equal(tt, "user-42", verified.Subject)
		assert.Equal(tt, []string{"employee_badge", "openid"}, verified.Scopes)
		assert.True(tt, verified.HasScope("employee_badge"))
		assert.False(tt, verified.HasScope("employee"))
	})

	t.Run("empty token", func(tt *testing.T) {
		_, err := service.VerifyToken(context.Background(), "", "", false)
		assert.Error(tt, err)
		assert.True(tt, common.IsKind(err, common.KindUnauthorized))
	})

	t.Run("garbage token", func(tt *testing.T) {
		_, err := service.VerifyToken(context.Background(), "not.a.jwt", "", false)
		assert.Error(tt, err)
		assert.True(tt, common.IsKind(err, common.KindUnauthorized))
	})

	t.Run("token signed for another tenant", func(tt *testing.T) {
		other, err := service.MintToken(context.Background(), MintTokenRequest{
			Subject:      "user-42",
			TenantDomain: "acme",
		})
		require.NoError(tt, err)
		_, err = service.VerifyToken(context.Background(), other.AccessToken, "", false)
		assert.Error(tt, err)
		assert.True(tt, common.IsKind(err, common.KindUnauthorized))
	})

	t.Run("expired token", func(tt *testing.T) {
		mockClock.Add(2 * time.Hour)
		_, err := service.VerifyToken(context.Background(), minted.AccessToken, "", false)
		assert.Error(tt, err)
		assert.True(tt, common.IsKind(err, common.KindUnauthorized))
	})

	t.Run("expired token accepted when allowed", func(tt *testing.T) {
		verified, err := service.VerifyToken(context.Background(), minted.AccessToken, "", true)
		assert.NoError(tt, err)
		assert.Equal(tt, "user-42", verified.Subject)
	})

	t.Run("token without scopes", func(tt *testing.T) {
		scopeless, err := service.MintToken(context.Background(), MintTokenRequest{Subject: "user-7"})
		require.NoError(tt, err)
		verified, err := service.VerifyToken(context.Background(), scopeless.AccessToken, "", false)
		assert.NoError(tt, err)
		assert.Empty(tt, verified.Scopes)
	})
}
