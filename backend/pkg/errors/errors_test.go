package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_FormatsTypeAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewBaseError(ErrorTypeGraph, "something broke", cause)

	assert.Equal(t, "[graph] something broke: connection refused", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestBaseError_NoCause(t *testing.T) {
	err := NewBaseError(ErrorTypeValidation, "missing field", nil)

	assert.Equal(t, "[validation] missing field", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestIsErrorType_SeesThroughWrapperTypes(t *testing.T) {
	cause := errors.New("deadlock")

	assert.True(t, IsErrorType(NewWriteFailed("m1", cause), ErrorTypeStorage))
	assert.True(t, IsErrorType(NewQueryFailed("Search", cause), ErrorTypeQuery))
	assert.True(t, IsErrorType(NewGraphConnectionFailed("bolt://x", cause), ErrorTypeGraph))
	assert.True(t, IsErrorType(NewConfigMissingRequired("NEO4J_URI"), ErrorTypeConfig))

	assert.False(t, IsErrorType(NewWriteFailed("m1", cause), ErrorTypeQuery))
	assert.False(t, IsErrorType(cause, ErrorTypeStorage))
	assert.False(t, IsErrorType(nil, ErrorTypeStorage))
}

func TestIsErrorType_SeesThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewWriteFailed("m1", errors.New("boom")))

	assert.True(t, IsErrorType(err, ErrorTypeStorage))
}

func TestIsTimeout(t *testing.T) {
	timeout := NewStorageTimeout("m1", 30*time.Second, context.DeadlineExceeded)

	assert.True(t, IsTimeout(timeout))
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.True(t, IsTimeout(fmt.Errorf("tx failed: %w", context.DeadlineExceeded)))
	assert.False(t, IsTimeout(NewWriteFailed("m1", errors.New("boom"))))
	assert.False(t, IsTimeout(nil))
}

func TestStorageTimeout_UnwrapsToDeadlineExceeded(t *testing.T) {
	err := NewStorageTimeout("m1", time.Second, context.DeadlineExceeded)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, IsErrorType(err, ErrorTypeContext))
}
