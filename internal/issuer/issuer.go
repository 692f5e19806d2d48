package issuer

import (
	"context"
	"sync"

	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/service/common"
)

// FormatHandler materializes credentials for one wire format.
type FormatHandler interface {
	// Format returns the format tag this handler serves, e.g. "jwt_vc_json".
	Format() string
	// IssueCredential builds, signs, and serializes one credential.
	IssueCredential(ctx context.Context, issuance Context) (string, error)
}

// CredentialIssuer dispatches issuance requests to the handler registered
// for the configuration's format. Safe for concurrent use; registration
// normally happens once at startup but handlers may be added at runtime.
type CredentialIssuer struct {
	mu       sync.RWMutex
	handlers map[string]FormatHandler
}

func NewCredentialIssuer() *CredentialIssuer {
	return &CredentialIssuer{handlers: make(map[string]FormatHandler)}
}

// RegisterHandler adds a handler to the registry. Handlers with an empty
// format tag are rejected, as is a second registration for the same format.
func (c *CredentialIssuer) RegisterHandler(handler FormatHandler) error {
	if handler == nil {
		return util.LoggingNewError("cannot register a nil format handler")
	}
	format := handler.Format()
	if format == "" {
		return util.LoggingNewError("cannot register a format handler with an empty format")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.handlers[format]; ok {
		return util.LoggingNewErrorf("format handler already registered: %s", format)
	}
	c.handlers[format] = handler
	return nil
}

// DeregisterHandler removes the handler for the given format. Removing a
// format that was never registered is an error.
func (c *CredentialIssuer) DeregisterHandler(format string) error {
	if format == "" {
		return util.LoggingNewError("cannot deregister a format handler with an empty format")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.handlers[format]; !ok {
		return util.LoggingNewErrorf("no format handler registered: %s", format)
	}
	delete(c.handlers, format)
	return nil
}

// SupportedFormats returns the registered format tags.
func (c *CredentialIssuer) SupportedFormats() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	formats := make([]string, 0, len(c.handlers))
	for format := range c.handlers {
		formats = append(formats, format)
	}
	return formats
}

// Issue dispatches to the handler registered for the configuration's format.
func (c *CredentialIssuer) Issue(ctx context.Context, issuance Context) (string, error) {
	if issuance.Configuration == nil {
		return "", common.NewError(common.KindInvalidRequest, "issuance context has no configuration")
	}
	format := issuance.Configuration.Format
	if format == "" {
		return "", common.NewError(common.KindInvalidRequest, "credential configuration has no format")
	}

	c.mu.RLock()
	handler, ok := c.handlers[format]
	c.mu.RUnlock()
	if !ok {
		return "", common.NewErrorf(common.KindUnsupported, "no handler registered for credential format: %s", format)
	}
	return handler.IssueCredential(ctx, issuance)
}
