package attribute

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/config"
	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/common"
	"github.com/openvci/vci-service/pkg/service/framework"
	"github.com/openvci/vci-service/pkg/storage"
)

// Service resolves user attributes released into credential subjects. It
// stands in for an identity store; attributes are seeded through the admin
// API or test fixtures.
type Service struct {
	config  config.AttributeServiceConfig
	storage *Storage
}

func (s *Service) Type() framework.Type {
	return framework.Attribute
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

func NewAttributeService(config config.AttributeServiceConfig, s storage.ServiceStorage) (*Service, error) {
	attributeStorage, err := NewAttributeStorage(s)
	if err != nil {
		return nil, util.LoggingErrorMsg(err, "instantiating storage for the attribute service")
	}
	return &Service{config: config, storage: attributeStorage}, nil
}

// SetAttributes replaces the subject's attribute set in the tenant.
func (s *Service) SetAttributes(ctx context.Context, request SetAttributesRequest) error {
	if request.SubjectID == "" {
		return common.NewError(common.KindInvalidRequest, "subject id is required")
	}
	tenantDomain := resolveTenant(request.TenantDomain)
	if err := s.storage.StoreAttributes(ctx, tenantDomain, request.SubjectID, request.Attributes); err != nil {
		return common.WrapErrorf(common.KindUpstreamFailure, err, "storing attributes for subject: %s", request.SubjectID)
	}
	logrus.Debugf("stored %d attributes for subject<%s> in tenant: %s", len(request.Attributes), request.SubjectID, tenantDomain)
	return nil
}

// GetClaims resolves the named claims for a subject. Claims the subject does
// not have are omitted rather than erroring; an unknown subject yields an
// empty map.
func (s *Service) GetClaims(ctx context.Context, subjectID, tenantDomain string, claimNames []string) (map[string]any, error) {
	if subjectID == "" {
		return nil, common.NewError(common.KindInvalidRequest, "subject id is required")
	}
	attributes, err := s.storage.GetAttributes(ctx, resolveTenant(tenantDomain), subjectID)
	if err != nil {
		return nil, common.WrapErrorf(common.KindUpstreamFailure, err, "getting attributes for subject: %s", subjectID)
	}

	claims := make(map[string]any, len(claimNames))
	for _, name := range claimNames {
		if value, ok := attributes[name]; ok {
			claims[name] = value
		}
	}
	return claims, nil
}

func resolveTenant(tenantDomain string) string {
	if tenantDomain == "" {
		return config.DefaultTenantDomain
	}
	return tenantDomain
}
