package telemetry

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestZeroTelemetryShutdown(t *testing.T) {
	require.NoError(t, Telemetry{}.Shutdown(context.Background()))
}

func TestConnKind(t *testing.T) {
	require.Equal(t, "grpc", otlpConnConfig{GrpcEndpoint: "http://localhost:4317"}.kind())
	require.Equal(t, "http", otlpConnConfig{HttpEndpoint: "http://localhost:4318"}.kind())
	require.Equal(t, "http", otlpConnConfig{}.kind())
}

func TestInstrumentHeadersRedacts(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("Accept", "application/json")
	headers.Add("Link", "<a>")
	headers.Add("Link", "<b>")

	var attrs []attribute.KeyValue
	instrumentHeaders(&attrs, "request", headers)

	got := map[string]string{}
	for _, kv := range attrs {
		got[string(kv.Key)] = kv.Value.AsString()
	}
	require.Equal(t, map[string]string{
		"request/header: Authorization": "<redacted>",
		"request/header: Accept":        "application/json",
		"request/header: Link (0)":      "<a>",
		"request/header: Link (1)":      "<b>",
	}, got)
}
