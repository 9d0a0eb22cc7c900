package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/multiboot-dev/mbpatch/internal/application/errors"
)

func TestCommonOptions_ApplyToContext(t *testing.T) {
	t.Parallel()

	t.Run("with timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 100 * time.Millisecond}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(100*time.Millisecond), deadline, 10*time.Millisecond)
	})

	t.Run("no timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 0}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		_, ok := ctx.Deadline()
		assert.False(t, ok)
	})
}

func TestCommonOptions_ValidateFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      CommonOptions
		wantField string
	}{
		{name: "defaults", opts: DefaultCommonOptions()},
		{name: "yaml", opts: CommonOptions{Format: "yaml"}},
		{name: "unknown format", opts: CommonOptions{Format: "sarif"}, wantField: "format"},
		{name: "negative timeout", opts: CommonOptions{Format: "json", Timeout: -time.Second}, wantField: "timeout"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.opts.ValidateFlags()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}
