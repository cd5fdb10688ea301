//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	all := []error{
		ErrConfiguration,
		ErrHandlerNotFound,
		ErrHandlerExecution,
		ErrTemplateRender,
		ErrManifestEdit,
		ErrImportRewrite,
		ErrNotFound,
	}
	for i := range all {
		for j := range all {
			if i != j {
				assert.NotEqual(t, all[i], all[j])
			}
		}
	}
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "invalid configuration",
		Message:  "client has 2 apps but 1 framework",
		Location: "config.json",
		Context:  map[string]string{"Kind": "client"},
		Hint:     "List one framework per app",
	}

	out := detail.Error()

	assert.Contains(t, out, "Error: invalid configuration")
	assert.Contains(t, out, "Location: config.json")
	assert.Contains(t, out, "Kind: client")
	assert.Contains(t, out, "client has 2 apps but 1 framework")
	assert.Contains(t, out, "Hint: List one framework per app")
}

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError("bad", "config.json", "fix it")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "config.json", detail.Location)
}

func TestComponentError(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := NewComponentError("web", ErrHandlerExecution, cause)

	assert.True(t, errors.Is(err, ErrHandlerExecution))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrHandlerNotFound))
	assert.Equal(t, `component "web": handler execution failed: exit status 1`, err.Error())

	var ce *ComponentError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "web", ce.Component)
}

func TestComponentError_NoCause(t *testing.T) {
	err := NewComponentError("api", ErrHandlerNotFound, nil)
	assert.True(t, errors.Is(err, ErrHandlerNotFound))
	assert.Equal(t, `component "api": handler not found`, err.Error())
}

func TestFileError(t *testing.T) {
	cause := errors.New("permission denied")
	err := &FileError{File: "web/src/main.rs", Cause: cause}

	assert.True(t, errors.Is(err, ErrImportRewrite))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "web/src/main.rs")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit error", &ExitError{Code: ExitPartialFailure, Err: errors.New("x")}, ExitPartialFailure},
		{"configuration", NewConfigurationError("bad", "", ""), ExitConfigurationError},
		{"not found", Wrap(ErrNotFound, "template client/yew"), ExitNotFound},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Partial Failure", ExitCodeName(ExitPartialFailure))
	assert.Equal(t, "Unknown", ExitCodeName(42))
}
