package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFromContextChainsOnRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), zerolog.New(&buf).With().Str("request_id", "abc").Logger())

	FromContext(ctx).Info().Str("code", "APT-1").Msg("appointment created")

	assert.Contains(t, buf.String(), `"request_id":"abc"`)
	assert.Contains(t, buf.String(), `"message":"appointment created"`)
}

func TestFromContextWithoutLoggerIsNop(t *testing.T) {
	assert.NotPanics(t, func() {
		FromContext(context.Background()).Warn().Msg("dropped")
	})
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}
