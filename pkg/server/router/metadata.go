package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/pkg/server/framework"
	svcframework "github.com/openvci/vci-service/pkg/service/framework"
	"github.com/openvci/vci-service/pkg/service/metadata"
)

type MetadataRouter struct {
	service *metadata.Service
}

func NewMetadataRouter(s svcframework.Service) (*MetadataRouter, error) {
	if s == nil {
		return nil, errors.New("service cannot be nil")
	}
	metadataService, ok := s.(*metadata.Service)
	if !ok {
		return nil, fmt.Errorf("could not create metadata router with service type: %s", s.Type())
	}
	return &MetadataRouter{service: metadataService}, nil
}

// GetIssuerMetadata serves the tenant's issuer metadata document from the
// well-known path.
func (mr *MetadataRouter) GetIssuerMetadata(c *gin.Context) {
	response, err := mr.service.GetIssuerMetadata(c, metadata.GetIssuerMetadataRequest{
		TenantDomain: tenantDomain(c),
	})
	if err != nil {
		logrus.WithError(err).Error("building issuer metadata failed")
		framework.Respond(c, OIDCErrorResponse{Error: errServerError}, http.StatusInternalServerError)
		return
	}
	framework.Respond(c, response.Metadata, http.StatusOK)
}
