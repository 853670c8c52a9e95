package tracing

import (
	"context"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_Disabled(t *testing.T) {
	tracer, closeFn, err := InitTracer(Config{})
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, opentracing.NoopTracer{}, tracer)

	span, ctx := StartSpan(context.Background(), "test", opentracing.Tags{"k": "v"})
	defer span.Finish()
	assert.NotNil(t, opentracing.SpanFromContext(ctx))
}

func TestInitTracer_Enabled(t *testing.T) {
	old := SetServiceName("band_monitor_test")
	defer SetServiceName(old)

	tracer, closeFn, err := InitTracer(Config{Enabled: true, Host: "127.0.0.1", Port: 6831})
	require.NoError(t, err)
	defer closeFn()
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	assert.NotNil(t, tracer)
	assert.Same(t, tracer, opentracing.GlobalTracer())
}
