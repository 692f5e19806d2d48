package common

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	t.Run("kind survives wrapping", func(tt *testing.T) {
		err := NewError(KindNotFound, "no credential configuration found")
		wrapped := errors.Wrap(err, "getting configuration")
		assert.Equal(tt, KindNotFound, KindOf(wrapped))
		assert.True(tt, IsKind(wrapped, KindNotFound))
	})

	t.Run("outermost tag wins", func(tt *testing.T) {
		inner := NewError(KindUpstreamFailure, "store read failed")
		outer := WrapError(KindUnauthorized, inner, "verifying access token")
		assert.Equal(tt, KindUnauthorized, KindOf(outer))
	})

	t.Run("untagged errors are unknown", func(tt *testing.T) {
		assert.Equal(tt, KindUnknown, KindOf(errors.New("plain")))
	})

	t.Run("wrap of nil still errors", func(tt *testing.T) {
		err := WrapError(KindSigningFailure, nil, "signing credential")
		assert.Error(tt, err)
		assert.Equal(tt, KindSigningFailure, KindOf(err))
	})

	t.Run("client error classification", func(tt *testing.T) {
		assert.True(tt, KindNotFound.IsClientError())
		assert.True(tt, KindInsufficientScope.IsClientError())
		assert.False(tt, KindUpstreamFailure.IsClientError())
		assert.False(tt, KindDependencyUnavailable.IsClientError())
	})
}
