package attribute

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/openvci/vci-service/pkg/storage"
)

const namespacePrefix = "user-attribute"

// Storage persists user attributes, one namespace per tenant, keyed by
// subject id. The value is a flat string map.
type Storage struct {
	db storage.ServiceStorage
}

func NewAttributeStorage(db storage.ServiceStorage) (*Storage, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	return &Storage{db: db}, nil
}

func tenantNamespace(tenantDomain string) string {
	return storage.MakeNamespace(namespacePrefix, tenantDomain)
}

func (s *Storage) StoreAttributes(ctx context.Context, tenantDomain, subjectID string, attributes map[string]any) error {
	attrBytes, err := json.Marshal(attributes)
	if err != nil {
		return errors.Wrapf(err, "marshalling attributes for subject: %s", subjectID)
	}
	return s.db.Write(ctx, tenantNamespace(tenantDomain), subjectID, attrBytes)
}

// GetAttributes returns the subject's attributes, or nil when the subject is
// unknown in the tenant.
func (s *Storage) GetAttributes(ctx context.Context, tenantDomain, subjectID string) (map[string]any, error) {
	attrBytes, err := s.db.Read(ctx, tenantNamespace(tenantDomain), subjectID)
	if err != nil {
		return nil, errors.Wrapf(err, "reading attributes for subject: %s", subjectID)
	}
	if len(attrBytes) == 0 {
		return nil, nil
	}
	var attributes map[string]any
	if err = json.Unmarshal(attrBytes, &attributes); err != nil {
		return nil, errors.Wrapf(err, "unmarshalling attributes for subject: %s", subjectID)
	}
	return attributes, nil
}
