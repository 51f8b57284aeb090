package errors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_MatchesInvalidInput(t *testing.T) {
	err := Wrap(NewValidationError("quantity", "must not be negative", -1), "parse order")

	assert.True(t, Is(err, ErrInvalidInput))

	var vErr *ValidationError
	assert.True(t, As(err, &vErr))
	assert.Equal(t, "quantity", vErr.Field)
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
}

func TestWithTag(t *testing.T) {
	ctx := WithTag(context.Background(), "correlation_id", "abc")
	child := WithTag(ctx, "customer_id", "42")

	assert.Equal(t, map[string]string{"correlation_id": "abc"}, TagsFromContext(ctx))
	assert.Equal(t, map[string]string{"correlation_id": "abc", "customer_id": "42"}, TagsFromContext(child))
	assert.Nil(t, TagsFromContext(context.Background()))
}
