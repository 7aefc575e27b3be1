package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	tests := []struct {
		version  string
		expected string
	}{
		{"dev", "borehole version dev\n"},
		{"1.4.0", "borehole version 1.4.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			original := version
			version = tt.version
			t.Cleanup(func() { version = original })

			out, err := execute(t, "version")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestVersionCmd_SkipsBootstrap(t *testing.T) {
	oldDeps, oldBootstrap := deps, bootstrap
	t.Cleanup(func() { deps, bootstrap = oldDeps, oldBootstrap })

	called := false
	deps = nil
	SetBootstrap(func(context.Context, string, bool) (*Services, error) {
		called = true
		return nil, errors.New("should not bootstrap")
	})

	_, err := execute(t, "version")

	require.NoError(t, err)
	assert.False(t, called)
}
