package keystore

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/framework"
	"github.com/openvci/vci-service/pkg/storage"
)

const (
	rsaKeyBits = 2048

	// self-signed issuer certificates are long-lived; rotation is operator
	// driven, not automatic
	certificateValidity = 10 * 365 * 24 * time.Hour
)

// Service manages per-tenant signing material. A tenant's RSA key pair and
// self-signed certificate are generated lazily on first use and encrypted at
// rest under the service key.
type Service struct {
	config  config.KeyStoreServiceConfig
	storage *Storage

	// serializes lazy key generation so concurrent first requests for a
	// tenant agree on a single key pair
	generateMu sync.Mutex
}

func (s *Service) Type() framework.Type {
	return framework.KeyStore
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

func NewKeyStoreService(config config.KeyStoreServiceConfig, s storage.ServiceStorage) (*Service, error) {
	keyStoreStorage, err := NewKeyStoreStorage(s, config.ServiceKeyPassword)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "instantiating storage for the keystore service")
	}
	return &Service{config: config, storage: keyStoreStorage}, nil
}

// GetSigningMaterial returns the tenant's signing key and certificate,
// generating and persisting them on first use.
func (s *Service) GetSigningMaterial(ctx context.Context, tenantDomain string) (*SigningMaterial, error) {
	if tenantDomain == "" {
		tenantDomain = config.DefaultTenantDomain
	}
	material, err := s.storage.GetKeyPair(ctx, tenantDomain)
	if err != nil {
		return nil, err
	}
	if material != nil {
		return material, nil
	}

	s.generateMu.Lock()
	defer s.generateMu.Unlock()

	// another request may have generated the key while we waited
	material, err = s.storage.GetKeyPair(ctx, tenantDomain)
	if err != nil {
		return nil, err
	}
	if material != nil {
		return material, nil
	}

	key, cert, err := generateKeyPair(tenantDomain)
	if err != nil {
		return nil, util.LoggingErrorMsgf(err, "could not generate signing key for tenant: %s", tenantDomain)
	}
	if err = s.storage.StoreKeyPair(ctx, tenantDomain, key, cert); err != nil {
		return nil, util.LoggingErrorMsgf(err, "could not store signing key for tenant: %s", tenantDomain)
	}
	logrus.Infof("generated signing key for tenant: %s", tenantDomain)
	return &SigningMaterial{TenantDomain: tenantDomain, Key: key, Certificate: cert}, nil
}

func generateKeyPair(tenantDomain string) (*rsa.PrivateKey, *x509.Certificate, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, nil, err
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   fmt.Sprintf("%s credential issuer", tenantDomain),
			Organization: []string{config.ServiceName},
		},
		NotBefore:             now,
		NotAfter:              now.Add(certificateValidity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, err
	}
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, nil, err
	}
	return key, cert, nil
}
