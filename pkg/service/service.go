package service

import (
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/internal/issuer"
	"github.com/openvci/vci-service/internal/urlbuilder"
	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/attribute"
	"github.com/openvci/vci-service/pkg/service/credconfig"
	"github.com/openvci/vci-service/pkg/service/framework"
	"github.com/openvci/vci-service/pkg/service/issuance"
	"github.com/openvci/vci-service/pkg/service/keystore"
	"github.com/openvci/vci-service/pkg/service/metadata"
	"github.com/openvci/vci-service/pkg/service/offer"
	"github.com/openvci/vci-service/pkg/service/token"
	"github.com/openvci/vci-service/pkg/storage"
)

// VCIService is the container for all instantiated services, wired against a
// single storage provider.
type VCIService struct {
	KeyStore   *keystore.Service
	CredConfig *credconfig.Service
	Token      *token.Service
	Attribute  *attribute.Service
	Issuance   *issuance.Service
	Metadata   *metadata.Service
	Offer      *offer.Service

	storage storage.ServiceStorage
}

// InstantiateVCIService creates the full suite of services from config.
func InstantiateVCIService(config config.ServicesConfig) (*VCIService, error) {
	if err := validateServiceConfig(config); err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate the verifiable credential issuance service")
	}
	return instantiateServices(config)
}

func validateServiceConfig(config config.ServicesConfig) error {
	if !storage.IsStorageAvailable(storage.Type(config.StorageProvider)) {
		return fmt.Errorf("%s storage provider configured, but not available", config.StorageProvider)
	}
	if config.ServiceEndpoint == "" {
		return fmt.Errorf("service endpoint not set")
	}
	if config.KeyStoreConfig.IsEmpty() {
		return fmt.Errorf("%s no config provided", framework.KeyStore)
	}
	if config.CredConfigConfig.IsEmpty() {
		return fmt.Errorf("%s no config provided", framework.CredentialConfig)
	}
	if config.TokenConfig.IsEmpty() {
		return fmt.Errorf("%s no config provided", framework.Token)
	}
	return nil
}

func instantiateServices(servicesConfig config.ServicesConfig) (*VCIService, error) {
	unencryptedStorageProvider, err := storage.NewStorage(storage.Type(servicesConfig.StorageProvider), toStorageOptions(servicesConfig.StorageOptions)...)
	if err != nil {
		return nil, util.LoggingErrorMsgf(err, "could not instantiate storage provider: %s", servicesConfig.StorageProvider)
	}

	urlBuilder, err := urlbuilder.NewBuilder(servicesConfig.ServiceEndpoint)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate url builder")
	}

	keyStoreService, err := keystore.NewKeyStoreService(servicesConfig.KeyStoreConfig, unencryptedStorageProvider)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate the keystore service")
	}

	credConfigService, err := credconfig.NewCredentialConfigurationService(servicesConfig.CredConfigConfig, unencryptedStorageProvider)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate the credential configuration service")
	}

	clk := clock.New()
	tokenService, err := token.NewTokenService(servicesConfig.TokenConfig, keyStoreService, clk)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate the token service")
	}

	attributeService, err := attribute.NewAttributeService(servicesConfig.AttributeConfig, unencryptedStorageProvider)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate the attribute service")
	}

	credentialIssuer := issuer.NewCredentialIssuer()
	jwtVCHandler, err := issuer.NewJWTVCHandler(keyStoreService, clk)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate the jwt_vc_json format handler")
	}
	if err = credentialIssuer.RegisterHandler(jwtVCHandler); err != nil {
		return nil, util.LoggingErrorMsg(err, "could not register the jwt_vc_json format handler")
	}

	issuanceService, err := issuance.NewIssuanceService(servicesConfig.IssuanceConfig, credConfigService, tokenService, attributeService, credentialIssuer, urlBuilder)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate the issuance service")
	}

	metadataService, err := metadata.NewMetadataService(servicesConfig.MetadataConfig, credConfigService, urlBuilder)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate the metadata service")
	}

	offerService, err := offer.NewOfferService(servicesConfig.OfferConfig, credConfigService, urlBuilder)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "could not instantiate the offer service")
	}

	return &VCIService{
		KeyStore:   keyStoreService,
		CredConfig: credConfigService,
		Token:      tokenService,
		Attribute:  attributeService,
		Issuance:   issuanceService,
		Metadata:   metadataService,
		Offer:      offerService,
		storage:    unencryptedStorageProvider,
	}, nil
}

func toStorageOptions(options []config.StorageOption) []storage.Option {
	storageOptions := make([]storage.Option, 0, len(options))
	for _, option := range options {
		storageOptions = append(storageOptions, storage.Option{
			ID:     storage.OptionKey(option.ID),
			Option: option.Option,
		})
	}
	return storageOptions
}

// GetServices returns the instantiated services for status reporting.
func (s *VCIService) GetServices() []framework.Service {
	return []framework.Service{
		s.KeyStore,
		s.CredConfig,
		s.Token,
		s.Attribute,
		s.Issuance,
		s.Metadata,
		s.Offer,
	}
}

// GetStorage returns the underlying storage provider.
func (s *VCIService) GetStorage() storage.ServiceStorage {
	return s.storage
}

// Close releases the storage provider.
func (s *VCIService) Close() error {
	if s.storage == nil {
		return nil
	}
	return s.storage.Close()
}
