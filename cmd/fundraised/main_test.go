package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"fundchain/config"
	"fundchain/observability/logging"
)

func TestListenAttrsMaskCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.EventStore.DSN = "postgres://fund:s3cret@db:5432/events"

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("gateway listening", listenAttrs(cfg, "hmac-secret")...)

	require.NotContains(t, buf.String(), "s3cret")
	require.NotContains(t, buf.String(), "hmac-secret")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, logging.RedactedValue, line["jwt_secret"])
	require.Equal(t, "FUND_JWT_SECRET", line["jwt_secret_env"])
	require.Contains(t, line["event_store_dsn"], "@db:5432/events")
	require.Equal(t, cfg.NetworkName, line["network"])
}
