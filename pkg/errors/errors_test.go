package errors_test

import (
	"errors"
	"net/http"
	"testing"

	pkgerrors "github.com/agentstation/rostersync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "household", ID: "77"}
		assert.Equal(t, "household with ID 77 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("customer", "501")
		wrapped := errors.Join(errors.New("lookup"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("begin", "2024-1-1", "must be YYYY-MM-DD")
		assert.Equal(t, "validation failed for field begin: must be YYYY-MM-DD", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "window is empty"}
		assert.Equal(t, "validation failed: window is empty", err.Error())
	})
}

func TestMappingError(t *testing.T) {
	err := pkgerrors.NewMappingError("person", "501", "last name is empty")
	assert.Equal(t, "cannot map person 501: last name is empty", err.Error())
	assert.True(t, pkgerrors.IsMappingError(err))
	assert.False(t, pkgerrors.IsWriteError(err))

	wrapped := pkgerrors.WrapMapping("sale line", "9", errors.New("division by zero"))
	assert.True(t, pkgerrors.IsMappingError(wrapped))
	assert.Nil(t, pkgerrors.WrapMapping("sale line", "9", nil))
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"not found", http.StatusNotFound, pkgerrors.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, pkgerrors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, pkgerrors.ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, pkgerrors.ErrRateLimited},
		{"server error", http.StatusBadGateway, pkgerrors.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("lightspeed", tt.status, "boom")
			assert.Contains(t, err.Error(), "lightspeed")
			assert.True(t, errors.Is(err, tt.target))
		})
	}

	t.Run("bad request matches nothing", func(t *testing.T) {
		err := pkgerrors.NewAPIError("veracross", http.StatusBadRequest, "bad")
		assert.False(t, errors.Is(err, pkgerrors.ErrNotFound))
		assert.False(t, errors.Is(err, pkgerrors.ErrUnavailable))
	})
}

func TestResourceError(t *testing.T) {
	t.Run("write operations", func(t *testing.T) {
		api := pkgerrors.NewAPIError("lightspeed", http.StatusBadRequest, "invalid email")
		err := pkgerrors.NewResourceError("create", "customer", "501", api)
		assert.Contains(t, err.Error(), "failed to create customer 501")
		assert.True(t, pkgerrors.IsWriteError(err))

		var apiErr *pkgerrors.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})

	t.Run("fetch is not a write", func(t *testing.T) {
		err := pkgerrors.WrapResource("fetch", "household", "77", errors.New("timeout"))
		assert.False(t, pkgerrors.IsWriteError(err))
	})

	t.Run("fetch miss is still a lookup miss", func(t *testing.T) {
		api := pkgerrors.NewAPIError("veracross", http.StatusNotFound, "")
		err := pkgerrors.WrapResource("fetch", "household", "77", api)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("import_options", "external_id_field is required", nil)
	assert.Contains(t, err.Error(), "import_options")
	assert.True(t, pkgerrors.IsConfigError(err))
}

func TestIOError(t *testing.T) {
	baseErr := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "/tmp/ledger.csv", baseErr)
	ioErr, ok := err.(*pkgerrors.IOError)
	require.True(t, ok)
	assert.Equal(t, "write", ioErr.Operation)
	assert.Equal(t, baseErr, ioErr.Unwrap())
	assert.Nil(t, pkgerrors.WrapIO("write", "x", nil))
}

func TestParseError(t *testing.T) {
	err := pkgerrors.WrapParse("json", "Customer response", errors.New("unexpected EOF"))
	assert.Equal(t, "json parse error in Customer response: unexpected EOF", err.Error())
}
