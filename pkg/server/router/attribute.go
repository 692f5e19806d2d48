package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/openvci/vci-service/pkg/server/framework"
	"github.com/openvci/vci-service/pkg/service/attribute"
	svcframework "github.com/openvci/vci-service/pkg/service/framework"
)

const SubjectIDParam = "id"

type AttributeRouter struct {
	service *attribute.Service
}

func NewAttributeRouter(s svcframework.Service) (*AttributeRouter, error) {
	if s == nil {
		return nil, errors.New("service cannot be nil")
	}
	attributeService, ok := s.(*attribute.Service)
	if !ok {
		return nil, fmt.Errorf("could not create attribute router with service type: %s", s.Type())
	}
	return &AttributeRouter{service: attributeService}, nil
}

type SetAttributesRequest struct {
	Attributes map[string]any `json:"attributes" validate:"required"`
}

// SetAttributes replaces the subject's attributes in the tenant.
func (ar *AttributeRouter) SetAttributes(c *gin.Context) {
	subjectID := framework.GetParam(c, SubjectIDParam)
	if subjectID == nil {
		framework.LoggingRespondErrMsg(c, "subject id is required", http.StatusBadRequest)
		return
	}

	var request SetAttributesRequest
	if err := framework.Decode(c.Request, &request); err != nil {
		framework.RespondError(c, err)
		return
	}

	if err := ar.service.SetAttributes(c, attribute.SetAttributesRequest{
		SubjectID:    *subjectID,
		TenantDomain: tenantDomain(c),
		Attributes:   request.Attributes,
	}); err != nil {
		respondServiceError(c, err, "could not store attributes")
		return
	}
	framework.Respond(c, nil, http.StatusNoContent)
}
