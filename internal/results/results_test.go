package results

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationResult(t *testing.T) {
	ok := SuccessResult[int, error](3)
	assert.True(t, ok.IsSuccess())
	assert.False(t, ok.IsFailure())
	assert.Equal(t, 3, *ok.Success)

	failure := errors.New("no tournament")
	bad := FailureResult[int, error](failure)
	assert.False(t, bad.IsSuccess())
	assert.True(t, bad.IsFailure())
	assert.ErrorIs(t, *bad.Failure, failure)

	var empty OperationResult[int, error]
	assert.False(t, empty.IsSuccess())
	assert.False(t, empty.IsFailure())
}
