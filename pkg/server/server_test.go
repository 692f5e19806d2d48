package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/pkg/service/token"
)

func newTestServer(t *testing.T) *VCIServer {
	shutdown := make(chan os.Signal, 1)
	cfg := config.VCIServiceConfig{
		Server: config.ServerConfig{
			Environment:  config.EnvironmentTest,
			APIHost:      "localhost:0",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Services: config.ServicesConfig{
			StorageProvider: "memory",
			ServiceEndpoint: "https://issuer.example.com",
			KeyStoreConfig: config.KeyStoreServiceConfig{
				BaseServiceConfig:  &config.BaseServiceConfig{Name: "keystore"},
				ServiceKeyPassword: "test-password",
			},
			CredConfigConfig: config.CredConfigServiceConfig{
				BaseServiceConfig: &config.BaseServiceConfig{Name: "credconfig"},
			},
			IssuanceConfig: config.IssuanceServiceConfig{
				BaseServiceConfig: &config.BaseServiceConfig{Name: "issuance"},
			},
			MetadataConfig: config.MetadataServiceConfig{
				BaseServiceConfig: &config.BaseServiceConfig{Name: "metadata"},
			},
			OfferConfig: config.OfferServiceConfig{
				BaseServiceConfig: &config.BaseServiceConfig{Name: "offer"},
			},
			TokenConfig: config.TokenServiceConfig{
				BaseServiceConfig: &config.BaseServiceConfig{Name: "token"},
				AccessTokenExpiry: time.Hour,
			},
			AttributeConfig: config.AttributeServiceConfig{
				BaseServiceConfig: &config.BaseServiceConfig{Name: "attribute"},
			},
		},
	}
	server, err := NewVCIServer(shutdown, cfg)
	require.NoError(t, err)
	return server
}

func (s *VCIServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var requestBody *bytes.Buffer
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		requestBody = bytes.NewBuffer(bodyBytes)
	} else {
		requestBody = bytes.NewBuffer(nil)
	}
	request := httptest.NewRequest(method, path, requestBody)
	for key, value := range headers {
		request.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	s.Handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	var decoded T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	return decoded
}

func TestVCIServer(t *testing.T) {
	server := newTestServer(t)

	t.Run("health", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodGet, "/health", nil, nil)
		assert.Equal(tt, http.StatusOK, recorder.Code)
	})

	t.Run("readiness", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodGet, "/readiness", nil, nil)
		assert.Equal(tt, http.StatusOK, recorder.Code)
	})

	t.Run("create configuration", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodPut, "/v1/credential-configurations", map[string]any{
			"identifier":       "employee_badge",
			"format":           "jwt_vc_json",
			"signingAlgorithm": "RS256",
			"expiresIn":        3600,
			"claims":           []string{"givenName", "familyName"},
			"offerId":          "badge-offer",
		}, nil)
		require.Equal(tt, http.StatusCreated, recorder.Code)
		created := decodeBody[map[string]any](tt, recorder)
		assert.NotEmpty(tt, created["id"])
	})

	t.Run("seed attributes", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodPut, "/v1/users/user-42/attributes", map[string]any{
			"attributes": map[string]any{
				"givenName":  "Ada",
				"familyName": "Lovelace",
			},
		}, nil)
		assert.Equal(tt, http.StatusNoContent, recorder.Code)
	})

	t.Run("issuer metadata", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodGet, "/oid4vci/.well-known/openid-credential-issuer", nil, nil)
		require.Equal(tt, http.StatusOK, recorder.Code)
		metadata := decodeBody[map[string]any](tt, recorder)
		assert.Equal(tt, "https://issuer.example.com/oid4vci", metadata["credential_issuer"])
		supported := metadata["credential_configurations_supported"].(map[string]any)
		assert.Contains(tt, supported, "employee_badge")
	})

	t.Run("credential offer", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodGet, "/oid4vci/credential-offer/badge-offer", nil, nil)
		require.Equal(tt, http.StatusOK, recorder.Code)
		offer := decodeBody[map[string]any](tt, recorder)
		assert.Equal(tt, []any{"employee_badge"}, offer["credential_configuration_ids"])
	})

	t.Run("unknown credential offer", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodGet, "/oid4vci/credential-offer/missing", nil, nil)
		assert.Equal(tt, http.StatusBadRequest, recorder.Code)
		response := decodeBody[map[string]any](tt, recorder)
		assert.Equal(tt, "offer_not_found", response["error"])
	})

	t.Run("credential endpoint requires a bearer token", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodPost, "/oid4vci/credential", map[string]any{
			"credential_configuration_id": "employee_badge",
		}, nil)
		assert.Equal(tt, http.StatusUnauthorized, recorder.Code)
		assert.Equal(tt, "no-store", recorder.Header().Get("Cache-Control"))
		response := decodeBody[map[string]any](tt, recorder)
		assert.Equal(tt, "invalid_token", response["error"])
	})

	mintToken := func(tt *testing.T, scopes ...string) string {
		minted, err := server.Token.MintToken(context.Background(), token.MintTokenRequest{
			Subject: "user-42",
			Scopes:  scopes,
		})
		require.NoError(tt, err)
		return minted.AccessToken
	}

	t.Run("credential endpoint rejects missing scope", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodPost, "/oid4vci/credential", map[string]any{
			"credential_configuration_id": "employee_badge",
		}, map[string]string{"Authorization": "Bearer " + mintToken(tt, "openid")})
		assert.Equal(tt, http.StatusForbidden, recorder.Code)
		response := decodeBody[map[string]any](tt, recorder)
		assert.Equal(tt, "insufficient_scope", response["error"])
	})

	t.Run("credential endpoint rejects unknown configuration", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodPost, "/oid4vci/credential", map[string]any{
			"credential_configuration_id": "alumni_card",
		}, map[string]string{"Authorization": "Bearer " + mintToken(tt, "alumni_card")})
		assert.Equal(tt, http.StatusBadRequest, recorder.Code)
		response := decodeBody[map[string]any](tt, recorder)
		assert.Equal(tt, "unknown_credential_configuration", response["error"])
	})

	t.Run("credential endpoint issues a credential", func(tt *testing.T) {
		recorder := server.do(tt, http.MethodPost, "/oid4vci/credential", map[string]any{
			"credential_configuration_id": "employee_badge",
		}, map[string]string{"Authorization": "Bearer " + mintToken(tt, "employee_badge")})
		require.Equal(tt, http.StatusOK, recorder.Code)
		assert.Equal(tt, "no-store", recorder.Header().Get("Cache-Control"))
		response := decodeBody[map[string]any](tt, recorder)
		assert.NotEmpty(tt, response["credential"])
	})
}
