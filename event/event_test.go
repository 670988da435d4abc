package event

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNewRequest(t *testing.T) {
	req, err := NewRequest("echo", []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, Kind("echo"), req.Kind())
	assert.Equal(t, []byte("hi"), req.Payload())
	_, err = uuid.Parse(req.ID())
	assert.NoError(t, err, "Generated ID should be a UUID")

	other, err := NewRequest("echo", nil)
	require.NoError(t, err)
	assert.NotEqual(t, req.ID(), other.ID(), "Generated IDs should be unique")
}

func TestNewRequest_WithID(t *testing.T) {
	tests := map[string]struct {
		id       string
		expected string
	}{
		"Explicit": {
			id:       "r1",
			expected: "r1",
		},
		"Trimmed": {
			id:       "  r2\t",
			expected: "r2",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req, err := NewRequest("echo", nil, WithID(tc.id))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, req.ID())
		})
	}

	t.Run("Empty", func(t *testing.T) {
		req, err := NewRequest("echo", nil, WithID("  "))
		require.NoError(t, err)
		assert.NotEmpty(t, req.ID(), "An empty ID should fall back to a generated one")
	})
}

func TestNewRequest_EmptyKind(t *testing.T) {
	_, err := NewRequest("", nil)
	assert.ErrorIs(t, err, ErrEmptyKind)
	assert.Panics(t, func() {
		MustRequest("", nil)
	})
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" echo \n")
	assert.NoError(t, err)
	assert.Equal(t, Kind("echo"), kind)

	_, err = ParseKind(" \t")
	assert.ErrorIs(t, err, ErrEmptyKind)
}

func TestResponse(t *testing.T) {
	resp := Text("hi")
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, []byte("hi"), resp.Payload)
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
