package keystore

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/storage"
)

const (
	namespace = "keystore"

	privateKeyBlockType  = "RSA PRIVATE KEY"
	certificateBlockType = "CERTIFICATE"
)

// storedKeyPair is the at-rest form of a tenant's signing material. The
// private key PEM is encrypted with the service key; the certificate is
// public and stored in the clear.
type storedKeyPair struct {
	TenantDomain        string `json:"tenantDomain"`
	EncryptedPrivateKey []byte `json:"encryptedPrivateKey"`
	CertificatePEM      []byte `json:"certificatePem"`
}

type Storage struct {
	db         storage.ServiceStorage
	serviceKey []byte
}

func NewKeyStoreStorage(db storage.ServiceStorage, serviceKeyPassword string) (*Storage, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if serviceKeyPassword == "" {
		return nil, errors.New("service key password cannot be empty")
	}
	return &Storage{db: db, serviceKey: util.ServiceKeyFromPassword(serviceKeyPassword)}, nil
}

func (s *Storage) StoreKeyPair(ctx context.Context, tenantDomain string, key *rsa.PrivateKey, cert *x509.Certificate) error {
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: privateKeyBlockType, Bytes: x509.MarshalPKCS1PrivateKey(key)})
	encryptedKey, err := util.XChaCha20Poly1305Encrypt(s.serviceKey, keyPEM)
	if err != nil {
		return util.LoggingErrorMsgf(err, "could not encrypt signing key for tenant: %s", tenantDomain)
	}
	pair := storedKeyPair{
		TenantDomain:        tenantDomain,
		EncryptedPrivateKey: encryptedKey,
		CertificatePEM:      pem.EncodeToMemory(&pem.Block{Type: certificateBlockType, Bytes: cert.Raw}),
	}
	pairBytes, err := json.Marshal(pair)
	if err != nil {
		return errors.Wrapf(err, "marshalling key pair for tenant: %s", tenantDomain)
	}
	return s.db.Write(ctx, namespace, tenantDomain, pairBytes)
}

// GetKeyPair returns the tenant's decrypted signing material, or nil when no
// key has been generated for the tenant yet.
func (s *Storage) GetKeyPair(ctx context.Context, tenantDomain string) (*SigningMaterial, error) {
	pairBytes, err := s.db.Read(ctx, namespace, tenantDomain)
	if err != nil {
		return nil, errors.Wrapf(err, "reading key pair for tenant: %s", tenantDomain)
	}
	if len(pairBytes) == 0 {
		return nil, nil
	}
	var pair storedKeyPair
	if err = json.Unmarshal(pairBytes, &pair); err != nil {
		return nil, errors.Wrapf(err, "unmarshalling key pair for tenant: %s", tenantDomain)
	}

	keyPEM, err := util.XChaCha20Poly1305Decrypt(s.serviceKey, pair.EncryptedPrivateKey)
	if err != nil {
		return nil, util.LoggingErrorMsgf(err, "could not decrypt signing key for tenant: %s", tenantDomain)
	}
	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil || keyBlock.Type != privateKeyBlockType {
		return nil, errors.Errorf("malformed private key PEM for tenant: %s", tenantDomain)
	}
	key, err := x509.ParsePKCS1PrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing private key for tenant: %s", tenantDomain)
	}

	certBlock, _ := pem.Decode(pair.CertificatePEM)
	if certBlock == nil || certBlock.Type != certificateBlockType {
		return nil, errors.Errorf("malformed certificate PEM for tenant: %s", tenantDomain)
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing certificate for tenant: %s", tenantDomain)
	}

	return &SigningMaterial{TenantDomain: tenantDomain, Key: key, Certificate: cert}, nil
}
