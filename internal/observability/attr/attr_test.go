package attr

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "abc")
	assert.Equal(t, "abc", CorrelationIDFrom(ctx))
	assert.Equal(t, "abc", ExtractCorrelationID(ctx).Value.String())

	generated := CorrelationIDFrom(WithCorrelationID(context.Background(), ""))
	_, err := uuid.Parse(generated)
	require.NoError(t, err)

	assert.Empty(t, CorrelationIDFrom(context.Background()))
}

func TestError(t *testing.T) {
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	assert.Equal(t, "", Error(nil).Value.String())
}
