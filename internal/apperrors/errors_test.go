package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_CodesAndRecoverability(t *testing.T) {
	tests := []struct {
		kind        Kind
		code        string
		recoverable bool
	}{
		{KindConnection, "API_CONNECTION_ERROR", true},
		{KindAuth, "AUTH_ERROR", false},
		{KindValidation, "VALIDATION_ERROR", false},
		{KindNotFound, "NOT_FOUND", false},
		{KindTimeout, "TIMEOUT", true},
		{KindUnknown, "UNKNOWN_ERROR", true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.kind.Code())
			assert.Equal(t, tt.recoverable, tt.kind.Recoverable())
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("Position", "42")
	assert.Equal(t, `Position "42" not found`, err.Error())
	assert.Equal(t, "Position", err.Resource)
	assert.Equal(t, "42", err.Identifier)
}

func TestClassify_Wrapped(t *testing.T) {
	base := Connection("/positions", errors.New("connection refused"))
	wrapped := fmt.Errorf("get positions: %w", base)

	e := Classify(wrapped)
	require.NotNil(t, e)
	assert.Equal(t, KindConnection, e.Kind)
	assert.Equal(t, "/positions", e.Endpoint)
}

func TestClassify_ContextErrors(t *testing.T) {
	assert.Equal(t, KindTimeout, Classify(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindTimeout, Classify(fmt.Errorf("fetch: %w", context.Canceled)).Kind)
	assert.True(t, Is(context.DeadlineExceeded, KindTimeout))
}

func TestClassify_PlainErrorIsUnknown(t *testing.T) {
	e := Classify(errors.New("boom"))
	assert.Equal(t, KindUnknown, e.Kind)
	assert.Equal(t, "boom", e.Message)
	assert.Nil(t, Classify(nil))
}

func TestToFailure(t *testing.T) {
	f := ToFailure(Validation("limit", "limit must be at least 1"))
	assert.False(t, f.Success)
	assert.Equal(t, "VALIDATION_ERROR", f.Code)
	assert.Equal(t, "limit", f.Field)
	assert.False(t, f.Recoverable)

	f = ToFailure(errors.New("boom"))
	assert.Equal(t, "UNKNOWN_ERROR", f.Code)
	assert.True(t, f.Recoverable)
	assert.Empty(t, f.Field)
}

func TestFriendlyMessage(t *testing.T) {
	assert.Contains(t, FriendlyMessage(Connection("", nil)), "trouble reaching")
	assert.Equal(t, `Instrument "XYZ" not found`, FriendlyMessage(NotFound("Instrument", "XYZ")))
	assert.Equal(t, "Invalid input: bad date", FriendlyMessage(Validation("date", "bad date")))
	assert.Empty(t, FriendlyMessage(nil))
}
