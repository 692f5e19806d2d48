package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/internal/util"
	"github.com/openvci/vci-service/pkg/server/framework"
	"github.com/openvci/vci-service/pkg/service/common"
	svcframework "github.com/openvci/vci-service/pkg/service/framework"
	"github.com/openvci/vci-service/pkg/service/issuance"
)

const (
	TenantParam = "tenant"

	bearerPrefix       = "Bearer "
	cacheControlHeader = "Cache-Control"
	cacheControlValue  = "no-store"

	errInvalidToken            = "invalid_token"
	errInvalidRequest          = "invalid_credential_request"
	errInsufficientScope       = "insufficient_scope"
	errUnknownConfiguration    = "unknown_credential_configuration"
	errUnsupportedFormat       = "unsupported_credential_format"
	errCredentialRequestDenied = "credential_request_denied"
)

// OIDCErrorResponse is the error body of the OID4VCI endpoints.
type OIDCErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type CredentialRouter struct {
	service *issuance.Service
}

func NewCredentialRouter(s svcframework.Service) (*CredentialRouter, error) {
	if s == nil {
		return nil, errors.New("service cannot be nil")
	}
	issuanceService, ok := s.(*issuance.Service)
	if !ok {
		return nil, fmt.Errorf("could not create credential router with service type: %s", s.Type())
	}
	return &CredentialRouter{service: issuanceService}, nil
}

// IssueCredential is the OID4VCI credential endpoint. Responses, successful
// or not, are marked non-cacheable.
func (cr *CredentialRouter) IssueCredential(c *gin.Context) {
	c.Header(cacheControlHeader, cacheControlValue)

	accessToken, ok := bearerToken(c)
	if !ok {
		respondOIDCError(c, http.StatusUnauthorized, errInvalidToken, "missing or malformed authorization header")
		return
	}

	var request issuance.IssueCredentialRequest
	if err := framework.Decode(c.Request, &request); err != nil {
		respondOIDCError(c, http.StatusBadRequest, errInvalidRequest, "malformed credential request body")
		return
	}
	request.AccessToken = accessToken
	request.TenantDomain = tenantDomain(c)

	response, err := cr.service.IssueCredential(c, &request)
	if err != nil {
		respondIssuanceError(c, err)
		return
	}
	framework.Respond(c, issuance.IssueCredentialResponse{Credential: response.Credential}, http.StatusOK)
}

// respondIssuanceError maps a tagged service error to its OID4VCI status and
// error code. Server-side kinds collapse into a generic denial so internal
// detail never reaches the wallet.
func respondIssuanceError(c *gin.Context, err error) {
	switch common.KindOf(err) {
	case common.KindInvalidRequest:
		respondOIDCError(c, http.StatusBadRequest, errInvalidRequest, err.Error())
	case common.KindUnauthorized:
		respondOIDCError(c, http.StatusUnauthorized, errInvalidToken, "access token verification failed")
	case common.KindInsufficientScope:
		respondOIDCError(c, http.StatusForbidden, errInsufficientScope, err.Error())
	case common.KindNotFound:
		respondOIDCError(c, http.StatusBadRequest, errUnknownConfiguration, err.Error())
	case common.KindUnsupported:
		respondOIDCError(c, http.StatusBadRequest, errUnsupportedFormat, err.Error())
	default:
		logrus.WithError(err).Error("credential issuance failed")
		respondOIDCError(c, http.StatusInternalServerError, errCredentialRequestDenied, "credential request could not be processed")
	}
}

func respondOIDCError(c *gin.Context, statusCode int, code, description string) {
	if statusCode < http.StatusInternalServerError {
		logrus.Warnf("oid4vci error<%s>: %s", code, util.SanitizeLog(description))
	}
	framework.Respond(c, OIDCErrorResponse{Error: code, ErrorDescription: description}, statusCode)
}

// tenantDomain resolves the tenant from the route's path parameter, falling
// back to the tenant query parameter. Empty means the default tenant.
func tenantDomain(c *gin.Context) string {
	if tenant := c.Param(TenantParam); tenant != "" {
		return tenant
	}
	return c.Query(TenantParam)
}

func bearerToken(c *gin.Context) (string, bool) {
	authorization := c.GetHeader("Authorization")
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(authorization, bearerPrefix)
	if token == "" {
		return "", false
	}
	return token, true
}
