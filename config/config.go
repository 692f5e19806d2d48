package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultConfigPath = "config/config.toml"
	ConfigFileName    = "config.toml"
	ServiceName       = "vci-service"
	ConfigExtension   = ".toml"

	DefaultServiceEndpoint = "http://localhost:8080"

	// DefaultTenantDomain is the tenant resolved when a request carries no
	// tenant. URLs for the default tenant omit the tenant path segment.
	DefaultTenantDomain = "default"

	EnvironmentDev  Environment = "dev"
	EnvironmentTest Environment = "test"
	EnvironmentProd Environment = "prod"

	ConfigPath EnvironmentVariable = "CONFIG_PATH"
)

type (
	Environment         string
	EnvironmentVariable string
)

func (e EnvironmentVariable) String() string {
	return string(e)
}

type VCIServiceConfig struct {
	conf.Version
	Server   ServerConfig   `toml:"server"`
	Services ServicesConfig `toml:"services"`
}

// ServerConfig represents configurable properties for the HTTP server
type ServerConfig struct {
	Environment        Environment   `toml:"env" conf:"default:dev"`
	APIHost            string        `toml:"api_host" conf:"default:0.0.0.0:8080"`
	JagerHost          string        `toml:"jager_host" conf:"http://jaeger:14268/api/traces"`
	JagerEnabled       bool          `toml:"jager_enabled" conf:"default:false"`
	ReadTimeout        time.Duration `toml:"read_timeout" conf:"default:5s"`
	WriteTimeout       time.Duration `toml:"write_timeout" conf:"default:5s"`
	ShutdownTimeout    time.Duration `toml:"shutdown_timeout" conf:"default:5s"`
	LogLocation        string        `toml:"log_location" conf:"default:log"`
	LogLevel           string        `toml:"log_level" conf:"default:debug"`
	EnableAllowAllCORS bool          `toml:"enable_allow_all_cors" conf:"default:false"`
}

// ServicesConfig represents configurable properties for the components of the VCI Service
type ServicesConfig struct {
	// at present, it is assumed that a single storage provider works for all services
	StorageProvider string          `toml:"storage"`
	StorageOptions  []StorageOption `toml:"storage_option"`

	// ServiceEndpoint is the base public URL all tenant-scoped URLs are built from.
	ServiceEndpoint string `toml:"service_endpoint"`

	KeyStoreConfig   KeyStoreServiceConfig   `toml:"keystore,omitempty"`
	CredConfigConfig CredConfigServiceConfig `toml:"credconfig,omitempty"`
	IssuanceConfig   IssuanceServiceConfig   `toml:"issuance,omitempty"`
	MetadataConfig   MetadataServiceConfig   `toml:"metadata,omitempty"`
	OfferConfig      OfferServiceConfig      `toml:"offer,omitempty"`
	TokenConfig      TokenServiceConfig      `toml:"token,omitempty"`
	AttributeConfig  AttributeServiceConfig  `toml:"attribute,omitempty"`
}

// StorageOption mirrors storage.Option for TOML parsing.
type StorageOption struct {
	ID     string `toml:"id"`
	Option string `toml:"option"`
}

// BaseServiceConfig represents configurable properties for a specific component of the VCI Service
type BaseServiceConfig struct {
	Name            string `toml:"name"`
	ServiceEndpoint string `toml:"service_endpoint"`
}

type KeyStoreServiceConfig struct {
	*BaseServiceConfig
	// Service key password. Derives the symmetric key used to encrypt stored
	// tenant signing keys. The password is hashed before usage.
	ServiceKeyPassword string `toml:"password"`
}

func (k *KeyStoreServiceConfig) IsEmpty() bool {
	if k == nil {
		return true
	}
	return reflect.DeepEqual(k, &KeyStoreServiceConfig{})
}

type CredConfigServiceConfig struct {
	*BaseServiceConfig
}

func (c *CredConfigServiceConfig) IsEmpty() bool {
	if c == nil {
		return true
	}
	return reflect.DeepEqual(c, &CredConfigServiceConfig{})
}

type IssuanceServiceConfig struct {
	*BaseServiceConfig
}

func (i *IssuanceServiceConfig) IsEmpty() bool {
	if i == nil {
		return true
	}
	return reflect.DeepEqual(i, &IssuanceServiceConfig{})
}

type MetadataServiceConfig struct {
	*BaseServiceConfig
}

func (m *MetadataServiceConfig) IsEmpty() bool {
	if m == nil {
		return true
	}
	return reflect.DeepEqual(m, &MetadataServiceConfig{})
}

type OfferServiceConfig struct {
	*BaseServiceConfig
}

func (o *OfferServiceConfig) IsEmpty() bool {
	if o == nil {
		return true
	}
	return reflect.DeepEqual(o, &OfferServiceConfig{})
}

type TokenServiceConfig struct {
	*BaseServiceConfig
	// Tokens older than their exp claim fail verification unless a caller
	// explicitly allows expired tokens.
	AccessTokenExpiry time.Duration `toml:"access_token_expiry"`
}

func (t *TokenServiceConfig) IsEmpty() bool {
	if t == nil {
		return true
	}
	return reflect.DeepEqual(t, &TokenServiceConfig{})
}

type AttributeServiceConfig struct {
	*BaseServiceConfig
}

func (a *AttributeServiceConfig) IsEmpty() bool {
	if a == nil {
		return true
	}
	return reflect.DeepEqual(a, &AttributeServiceConfig{})
}

// LoadConfig attempts to load a TOML config file from the given path, and coerce it into our object model.
// Before loading, defaults are applied on certain properties, which are overwritten if specified in the TOML file.
func LoadConfig(path string) (*VCIServiceConfig, error) {
	loadDefaultConfig := false
	if path == "" {
		logrus.Info("no config path provided, loading default config...")
		loadDefaultConfig = true
	} else if filepath.Ext(path) != ConfigExtension {
		return nil, fmt.Errorf("path<%s> did not match the expected TOML format", path)
	}

	var config VCIServiceConfig
	if err := conf.Parse(os.Args[1:], ServiceName, &config); err != nil {
		switch {
		case errors.Is(err, conf.ErrHelpWanted):
			usage, usageErr := conf.Usage(ServiceName, &config)
			if usageErr != nil {
				return nil, errors.Wrap(usageErr, "parsing config")
			}
			fmt.Println(usage)
			return nil, nil
		case errors.Is(err, conf.ErrVersionWanted):
			version, versionErr := conf.VersionString(ServiceName, &config)
			if versionErr != nil {
				return nil, errors.Wrap(versionErr, "generating config version")
			}
			fmt.Println(version)
			return nil, nil
		}
		return nil, errors.Wrap(err, "parsing config")
	}

	if loadDefaultConfig {
		config.Services = defaultServicesConfig()
		return &config, nil
	}

	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, errors.Wrapf(err, "could not load config: %s", path)
	}

	// apply defaults if not included in the toml file
	services := &config.Services
	if services.ServiceEndpoint == "" {
		services.ServiceEndpoint = DefaultServiceEndpoint
	}
	if services.StorageProvider == "" {
		services.StorageProvider = "bolt"
	}
	return &config, nil
}

func defaultServicesConfig() ServicesConfig {
	return ServicesConfig{
		StorageProvider: "bolt",
		ServiceEndpoint: DefaultServiceEndpoint,
		KeyStoreConfig: KeyStoreServiceConfig{
			BaseServiceConfig:  &BaseServiceConfig{Name: "keystore"},
			ServiceKeyPassword: "default-password",
		},
		CredConfigConfig: CredConfigServiceConfig{
			BaseServiceConfig: &BaseServiceConfig{Name: "credconfig"},
		},
		IssuanceConfig: IssuanceServiceConfig{
			BaseServiceConfig: &BaseServiceConfig{Name: "issuance"},
		},
		MetadataConfig: MetadataServiceConfig{
			BaseServiceConfig: &BaseServiceConfig{Name: "metadata"},
		},
		OfferConfig: OfferServiceConfig{
			BaseServiceConfig: &BaseServiceConfig{Name: "offer"},
		},
		TokenConfig: TokenServiceConfig{
			BaseServiceConfig: &BaseServiceConfig{Name: "token"},
			AccessTokenExpiry: time.Hour,
		},
		AttributeConfig: AttributeServiceConfig{
			BaseServiceConfig: &BaseServiceConfig{Name: "attribute"},
		},
	}
}

// LoadEnv loads a .env file in dev environments so local overrides are picked up.
func LoadEnv(env Environment) {
	if env != EnvironmentDev {
		return
	}
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}
}
