package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/openvci/vci-service/pkg/server/framework"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/service/credconfig"
	svcframework "github.com/openvci/vci-service/pkg/service/framework"
)

const ConfigurationIDParam = "id"

type CredentialConfigRouter struct {
	service *credconfig.Service
}

func NewCredentialConfigRouter(s svcframework.Service) (*CredentialConfigRouter, error) {
	if s == nil {
		return nil, errors.New("service cannot be nil")
	}
	configService, ok := s.(*credconfig.Service)
	if !ok {
		return nil, fmt.Errorf("could not create credential configuration router with service type: %s", s.Type())
	}
	return &CredentialConfigRouter{service: configService}, nil
}

// CreateCredentialConfiguration registers a new credential configuration in
// the tenant.
func (ccr *CredentialConfigRouter) CreateCredentialConfiguration(c *gin.Context) {
	var configuration credconfig.CredentialConfiguration
	if err := framework.Decode(c.Request, &configuration); err != nil {
		framework.RespondError(c, err)
		return
	}

	response, err := ccr.service.CreateConfiguration(c, credconfig.CreateConfigurationRequest{
		TenantDomain:  tenantDomain(c),
		Configuration: configuration,
	})
	if err != nil {
		respondServiceError(c, err, "could not create credential configuration")
		return
	}
	framework.Respond(c, response.Configuration, http.StatusCreated)
}

func (ccr *CredentialConfigRouter) GetCredentialConfiguration(c *gin.Context) {
	id := framework.GetParam(c, ConfigurationIDParam)
	if id == nil {
		framework.LoggingRespondErrMsg(c, "configuration id is required", http.StatusBadRequest)
		return
	}

	response, err := ccr.service.GetConfiguration(c, credconfig.GetConfigurationRequest{
		ID:           *id,
		TenantDomain: tenantDomain(c),
	})
	if err != nil {
		respondServiceError(c, err, "could not get credential configuration")
		return
	}
	framework.Respond(c, response.Configuration, http.StatusOK)
}

func (ccr *CredentialConfigRouter) ListCredentialConfigurations(c *gin.Context) {
	response, err := ccr.service.ListConfigurations(c, credconfig.ListConfigurationsRequest{
		TenantDomain: tenantDomain(c),
	})
	if err != nil {
		respondServiceError(c, err, "could not list credential configurations")
		return
	}
	framework.Respond(c, response, http.StatusOK)
}

func (ccr *CredentialConfigRouter) UpdateCredentialConfiguration(c *gin.Context) {
	id := framework.GetParam(c, ConfigurationIDParam)
	if id == nil {
		framework.LoggingRespondErrMsg(c, "configuration id is required", http.StatusBadRequest)
		return
	}

	var configuration credconfig.CredentialConfiguration
	if err := framework.Decode(c.Request, &configuration); err != nil {
		framework.RespondError(c, err)
		return
	}
	configuration.ID = *id

	response, err := ccr.service.UpdateConfiguration(c, credconfig.UpdateConfigurationRequest{
		TenantDomain:  tenantDomain(c),
		Configuration: configuration,
	})
	if err != nil {
		respondServiceError(c, err, "could not update credential configuration")
		return
	}
	framework.Respond(c, response.Configuration, http.StatusOK)
}

func (ccr *CredentialConfigRouter) DeleteCredentialConfiguration(c *gin.Context) {
	id := framework.GetParam(c, ConfigurationIDParam)
	if id == nil {
		framework.LoggingRespondErrMsg(c, "configuration id is required", http.StatusBadRequest)
		return
	}

	if err := ccr.service.DeleteConfiguration(c, credconfig.DeleteConfigurationRequest{
		ID:           *id,
		TenantDomain: tenantDomain(c),
	}); err != nil {
		respondServiceError(c, err, "could not delete credential configuration")
		return
	}
	framework.Respond(c, nil, http.StatusNoContent)
}

// respondServiceError maps tagged service errors onto admin API statuses.
func respondServiceError(c *gin.Context, err error, msg string) {
	switch common.KindOf(err) {
	case common.KindInvalidRequest:
		framework.LoggingRespondErrWithMsg(c, err, msg, http.StatusBadRequest)
	case common.KindNotFound:
		framework.LoggingRespondErrWithMsg(c, err, msg, http.StatusNotFound)
	default:
		framework.LoggingRespondErrWithMsg(c, err, msg, http.StatusInternalServerError)
	}
}
