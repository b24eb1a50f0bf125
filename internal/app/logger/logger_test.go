package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type named struct{}

func (named) LoggerComponent() string {
	return "Named"
}

func TestGet_Components(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	ctx := zl.WithContext(context.Background())

	l := Get(ctx, named{})
	l.Info().Msg("a")
	assert.Contains(t, buf.String(), `"component":"Named"`)

	buf.Reset()
	l = Get(ctx, "Handler.User")
	l.Info().Msg("b")
	assert.Contains(t, buf.String(), `"component":"Handler.User"`)

	buf.Reset()
	l = Get(ctx, 42)
	l.Info().Msg("c")
	assert.NotContains(t, buf.String(), "component")
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, false, false)

	l := Ctx(context.Background())
	l.Info().Msg("outside request")
	assert.Contains(t, buf.String(), "outside request")

	buf.Reset()
	l = Ctx(context.Background())
	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}
