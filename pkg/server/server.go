// Package server contains the full set of handler functions and routes
// supported by the http api
package server

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/server/framework"
	"github.com/openvci/vci-service/pkg/server/middleware"
	"github.com/openvci/vci-service/pkg/server/router"
	"github.com/openvci/vci-service/pkg/service"
)

const (
	HealthPrefix    = "/health"
	ReadinessPrefix = "/readiness"
	V1Prefix        = "/v1"

	// non-default tenants are served under /t/<tenant>
	TenantPrefix = "/t/:tenant"

	OID4VCIPrefix               = "/oid4vci"
	CredentialPath              = "/credential"
	WellKnownIssuerMetadataPath = "/.well-known/openid-credential-issuer"
	CredentialOfferPath         = "/credential-offer/:id"

	CredentialConfigurationsPrefix = "/credential-configurations"
	UsersPrefix                    = "/users"
	AttributesPath                 = "/:id/attributes"
)

// VCIServer exposes all dependencies needed to run a http server and all its
// services
type VCIServer struct {
	*config.ServerConfig
	*service.VCIService
	*framework.Server
}

// NewVCIServer does two things: instantiates all services and registers their
// HTTP bindings
func NewVCIServer(shutdown chan os.Signal, cfg config.VCIServiceConfig) (*VCIServer, error) {
	engine := setUpEngine(cfg.Server, shutdown)
	httpServer := framework.NewServer(cfg.Server, engine, shutdown)
	vci, err := service.InstantiateVCIService(cfg.Services)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "unable to instantiate vci service")
	}

	// service-level routers
	engine.GET(HealthPrefix, router.Health)
	engine.GET(ReadinessPrefix, router.Readiness(vci.GetServices()))

	// the wallet-facing API is served for the default tenant at the root and
	// for named tenants under the tenant prefix
	if err = OID4VCIAPI(engine.Group(""), vci); err != nil {
		return nil, util.LoggingErrorMsg(err, "unable to instantiate OID4VCI API")
	}
	if err = OID4VCIAPI(engine.Group(TenantPrefix), vci); err != nil {
		return nil, util.LoggingErrorMsg(err, "unable to instantiate tenant OID4VCI API")
	}

	// register all v1 routers
	v1 := engine.Group(V1Prefix)
	if err = CredentialConfigurationAPI(v1, vci); err != nil {
		return nil, util.LoggingErrorMsg(err, "unable to instantiate Credential Configuration API")
	}
	if err = AttributeAPI(v1, vci); err != nil {
		return nil, util.LoggingErrorMsg(err, "unable to instantiate Attribute API")
	}

	return &VCIServer{
		Server:       httpServer,
		VCIService:   vci,
		ServerConfig: &cfg.Server,
	}, nil
}

// setUpEngine creates the gin engine and sets up the middleware based on
// config
func setUpEngine(cfg config.ServerConfig, shutdown chan os.Signal) *gin.Engine {
	middlewares := gin.HandlersChain{
		gin.Recovery(),
		middleware.Errors(shutdown),
		middleware.Logger(logrus.StandardLogger()),
		middleware.Metrics(),
	}
	if cfg.JagerEnabled {
		middlewares = append(middlewares, otelgin.Middleware(config.ServiceName))
	}
	if cfg.EnableAllowAllCORS {
		middlewares = append(middlewares, middleware.CORS())
	}

	engine := gin.New()
	engine.Use(middlewares...)

	switch cfg.Environment {
	case config.EnvironmentDev:
		gin.SetMode(gin.DebugMode)
	case config.EnvironmentTest:
		gin.SetMode(gin.TestMode)
	case config.EnvironmentProd:
		gin.SetMode(gin.ReleaseMode)
	}
	return engine
}

// OID4VCIAPI registers the wallet-facing routes for the issuance, metadata,
// and offer services
func OID4VCIAPI(rg *gin.RouterGroup, vci *service.VCIService) error {
	credentialRouter, err := router.NewCredentialRouter(vci.Issuance)
	if err != nil {
		return util.LoggingErrorMsg(err, "creating credential router")
	}
	metadataRouter, err := router.NewMetadataRouter(vci.Metadata)
	if err != nil {
		return util.LoggingErrorMsg(err, "creating metadata router")
	}
	offerRouter, err := router.NewOfferRouter(vci.Offer)
	if err != nil {
		return util.LoggingErrorMsg(err, "creating offer router")
	}

	oid4vciAPI := rg.Group(OID4VCIPrefix)
	oid4vciAPI.POST(CredentialPath, credentialRouter.IssueCredential)
	oid4vciAPI.GET(WellKnownIssuerMetadataPath, metadataRouter.GetIssuerMetadata)
	oid4vciAPI.GET(CredentialOfferPath, offerRouter.GetCredentialOffer)
	return nil
}

// CredentialConfigurationAPI registers the admin CRUD routes for credential
// configurations
func CredentialConfigurationAPI(rg *gin.RouterGroup, vci *service.VCIService) error {
	configRouter, err := router.NewCredentialConfigRouter(vci.CredConfig)
	if err != nil {
		return util.LoggingErrorMsg(err, "creating credential configuration router")
	}

	configAPI := rg.Group(CredentialConfigurationsPrefix)
	configAPI.PUT("", configRouter.CreateCredentialConfiguration)
	configAPI.GET("", configRouter.ListCredentialConfigurations)
	configAPI.GET("/:id", configRouter.GetCredentialConfiguration)
	configAPI.PUT("/:id", configRouter.UpdateCredentialConfiguration)
	configAPI.DELETE("/:id", configRouter.DeleteCredentialConfiguration)
	return nil
}

// AttributeAPI registers the admin route for seeding user attributes
func AttributeAPI(rg *gin.RouterGroup, vci *service.VCIService) error {
	attributeRouter, err := router.NewAttributeRouter(vci.Attribute)
	if err != nil {
		return util.LoggingErrorMsg(err, "creating attribute router")
	}

	usersAPI := rg.Group(UsersPrefix)
	usersAPI.PUT(AttributesPath, attributeRouter.SetAttributes)
	return nil
}
