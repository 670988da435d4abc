package modules

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type testOptions struct {
	Name    string        `yaml:"name"`
	Wait    time.Duration `yaml:"wait"`
	Enabled bool          `yaml:"enabled"`
}

func TestOptions_Decode(t *testing.T) {
	t.Run("Populated", func(t *testing.T) {
		var opts testOptions
		err := Options{"name": "abc", "wait": "150ms", "enabled": true}.Decode(&opts)
		require.NoError(t, err)
		assert.Equal(t, testOptions{Name: "abc", Wait: 150 * time.Millisecond, Enabled: true}, opts)
	})
	t.Run("Empty keeps defaults", func(t *testing.T) {
		opts := testOptions{Name: "default"}
		require.NoError(t, Options(nil).Decode(&opts))
		assert.Equal(t, "default", opts.Name)
	})
	t.Run("Unknown key", func(t *testing.T) {
		var opts testOptions
		err := Options{"nmae": "abc"}.Decode(&opts)
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})
	t.Run("Wrong type", func(t *testing.T) {
		var opts testOptions
		err := Options{"wait": "soon"}.Decode(&opts)
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})
}
