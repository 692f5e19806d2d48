package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvci/vci-service/pkg/service/common"
)

func respondForError(t *testing.T, err error) (int, OIDCErrorResponse) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	respondIssuanceError(c, err)

	var response OIDCErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return recorder.Code, response
}

func TestRespondIssuanceError(t *testing.T) {
	t.Run("client kinds keep their codes", func(tt *testing.T) {
		for _, test := range []struct {
			err    error
			status int
			code   string
		}{
			{common.NewError(common.KindInvalidRequest, "credential configuration id is required"), http.StatusBadRequest, errInvalidRequest},
			{common.NewError(common.KindUnauthorized, "token verification failed"), http.StatusUnauthorized, errInvalidToken},
			{common.NewError(common.KindInsufficientScope, "token does not carry scope: employee_badge"), http.StatusForbidden, errInsufficientScope},
			{common.NewError(common.KindNotFound, "no credential configuration found"), http.StatusBadRequest, errUnknownConfiguration},
			{common.NewError(common.KindUnsupported, "no handler registered for credential format: ldp_vc"), http.StatusBadRequest, errUnsupportedFormat},
		} {
			status, response := respondForError(tt, test.err)
			assert.Equal(tt, test.status, status)
			assert.Equal(tt, test.code, response.Error)
		}
	})

	t.Run("server-side kinds collapse to a generic denial", func(tt *testing.T) {
		for _, err := range []error{
			common.NewError(common.KindUpstreamFailure, "building issuer identifier"),
			common.NewError(common.KindSigningFailure, "signing credential"),
			common.NewError(common.KindDependencyUnavailable, "configuration store unavailable"),
			errors.New("untagged failure"),
		} {
			status, response := respondForError(tt, err)
			assert.Equal(tt, http.StatusInternalServerError, status)
			assert.Equal(tt, errCredentialRequestDenied, response.Error)
			assert.Equal(tt, "credential request could not be processed", response.ErrorDescription)
		}
	})

	t.Run("upstream failure survives wrapping", func(tt *testing.T) {
		inner := errors.New("at least one path segment is required")
		status, response := respondForError(tt, common.WrapError(common.KindUpstreamFailure, inner, "building issuer identifier"))
		assert.Equal(tt, http.StatusInternalServerError, status)
		assert.Equal(tt, errCredentialRequestDenied, response.Error)
		assert.NotContains(tt, response.ErrorDescription, "path segment")
	})
}
