package apperrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationCarriesMessage(t *testing.T) {
	err := fmt.Errorf("create product: %w", Validation("price must be >= %d", 0))

	assert.True(t, IsValidationError(err))
	assert.False(t, IsBadRequestError(err))

	msg, ok := PublicMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "price must be >= 0", msg)
}

func TestPublicMessage_PlainSentinel(t *testing.T) {
	_, ok := PublicMessage(fmt.Errorf("lookup: %w", ErrNotFound))
	assert.False(t, ok)
}

func TestHelpers(t *testing.T) {
	cases := []struct {
		err   error
		check func(error) bool
	}{
		{ErrNotFound, IsNotFoundError},
		{BadRequest("x"), IsBadRequestError},
		{ErrUnauthorized, IsUnauthorizedError},
		{ErrForbidden, IsForbiddenError},
		{ErrDuplicate, IsDuplicateError},
		{ErrConflict, IsConflictError},
		{ErrRateLimited, IsRateLimitedError},
		{ErrUpstream, IsUpstreamError},
		{ErrUnavailable, IsUnavailableError},
	}
	for _, tc := range cases {
		assert.True(t, tc.check(fmt.Errorf("wrapped: %w", tc.err)), tc.err.Error())
	}
}

func TestNewCarriesKindAndMessage(t *testing.T) {
	err := New(ErrUnauthorized, "Invalid credentials")
	assert.True(t, IsUnauthorizedError(err))
	msg, ok := PublicMessage(fmt.Errorf("login: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "Invalid credentials", msg)
}
