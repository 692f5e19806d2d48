// Package urlbuilder constructs absolute public URLs for tenant-scoped
// endpoints. Non-default tenants are addressed under a /t/<tenant> prefix;
// the default tenant is served from the root.
package urlbuilder

import (
	"net/url"

	"github.com/pkg/errors"

	"github.com/openvci/vci-service/config"
)

const tenantPathPrefix = "t"

// Well-known path segments of the public API surface.
const (
	OID4VCISegment    = "oid4vci"
	CredentialSegment = "credential"
	OfferSegment      = "credential-offer"
	OAuth2Segment     = "oauth2"
	TokenSegment      = "token"
)

// Builder builds public URLs from a configured base endpoint.
type Builder struct {
	base *url.URL
}

// NewBuilder parses the service's public base endpoint. The endpoint must be
// absolute (scheme + host).
func NewBuilder(serviceEndpoint string) (*Builder, error) {
	if serviceEndpoint == "" {
		return nil, errors.New("service endpoint cannot be empty")
	}
	base, err := url.Parse(serviceEndpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing service endpoint: %s", serviceEndpoint)
	}
	if !base.IsAbs() {
		return nil, errors.Errorf("service endpoint must be absolute: %s", serviceEndpoint)
	}
	return &Builder{base: base}, nil
}

// Build returns the absolute public URL for the given tenant and path
// segments. The tenant segment is omitted for the default tenant.
func (b *Builder) Build(tenantDomain string, pathSegments ...string) (string, error) {
	if len(pathSegments) == 0 {
		return "", errors.New("at least one path segment is required")
	}
	segments := make([]string, 0, len(pathSegments)+2)
	if tenantDomain != "" && tenantDomain != config.DefaultTenantDomain {
		segments = append(segments, tenantPathPrefix, tenantDomain)
	}
	segments = append(segments, pathSegments...)
	return b.base.JoinPath(segments...).String(), nil
}
