package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestService_IsValid checks that only defined services pass validation.
func TestService_IsValid(t *testing.T) {
	assert.True(t, ServiceFrontend.IsValid())
	assert.True(t, ServiceBackend.IsValid())
	assert.True(t, ServiceDB.IsValid())
	assert.False(t, Service("cache").IsValid())
	assert.False(t, Service("").IsValid())
}

// TestService_HasTestSuite verifies that only the application services
// have a test runner.
func TestService_HasTestSuite(t *testing.T) {
	assert.True(t, ServiceFrontend.HasTestSuite())
	assert.True(t, ServiceBackend.HasTestSuite())
	assert.False(t, ServiceDB.HasTestSuite())
}

// TestParseService verifies string-to-service conversion,
// including case normalization and error cases.
func TestParseService(t *testing.T) {
	tests := []struct {
		input    string
		expected Service
		hasError bool
	}{
		{"frontend", ServiceFrontend, false},
		{"backend", ServiceBackend, false},
		{"db", ServiceDB, false},
		{"Frontend", ServiceFrontend, false},
		{" BACKEND ", ServiceBackend, false},
		{"unknown", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseService(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestRef_Name verifies that the branch wins over the tag and that an
// empty ref means "default branch".
func TestRef_Name(t *testing.T) {
	tests := []struct {
		name      string
		ref       Ref
		want      string
		zero      bool
		ambiguous bool
	}{
		{name: "empty", ref: Ref{}, want: "", zero: true},
		{name: "branch only", ref: Ref{Branch: "develop"}, want: "develop"},
		{name: "tag only", ref: Ref{Tag: "v1.2.0"}, want: "v1.2.0"},
		{name: "both prefers branch", ref: Ref{Branch: "develop", Tag: "v1.2.0"}, want: "develop", ambiguous: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.Name())
			assert.Equal(t, tt.zero, tt.ref.IsZero())
			assert.Equal(t, tt.ambiguous, tt.ref.IsAmbiguous())
		})
	}
}

// TestCLIError verifies the Error() formatting and errors.Is/As support.
func TestCLIError(t *testing.T) {
	t.Run("without underlying error", func(t *testing.T) {
		err := NewCLIError(ExitGeneralError, "something broke")
		assert.Equal(t, "something broke", err.Error())
		assert.Nil(t, err.Unwrap())
		assert.Equal(t, ErrorKind(""), err.Kind)
	})

	t.Run("with underlying error", func(t *testing.T) {
		err := WrapCLIError(ExitFailure, "clone failed", ErrCloneFailed)
		assert.Equal(t, "clone failed: clone failed", err.Error())
		assert.True(t, errors.Is(err, ErrCloneFailed))
	})

	t.Run("errors.As through fmt wrapping", func(t *testing.T) {
		inner := NewUserError("frontend ref missing", ErrRefNotFound)
		wrapped := fmt.Errorf("outer: %w", inner)

		var cliErr *CLIError
		require.True(t, errors.As(wrapped, &cliErr))
		assert.Equal(t, ExitFailure, cliErr.Code)
		assert.Equal(t, KindUserInput, cliErr.Kind)
		assert.ErrorIs(t, wrapped, ErrRefNotFound)
	})
}

// TestErrorConstructors verifies that each constructor tags the right kind
// and always uses the classified-failure exit code.
func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *CLIError
		kind ErrorKind
	}{
		{"user", NewUserError("u", nil), KindUserInput},
		{"environment", NewEnvironmentError("e", nil), KindEnvironment},
		{"invalid argument", NewInvalidArgumentError("i", nil), KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, ExitFailure, tt.err.Code)
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}

	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}
