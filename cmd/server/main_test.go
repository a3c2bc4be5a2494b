package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	metricsinmem "botf2/internal/adapter/metrics/inmemory"
	"botf2/internal/app/agreement"
	"botf2/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildUniverse_FromSeed(t *testing.T) {
	u, err := buildUniverse(config.ScenarioConfig{})
	require.NoError(t, err)
	turn, err := u.CurrentTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, turn)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
start_turn: 4
civilizations:
  - id: 1
    name: Federation
    is_empire: true
    credits: 500
`), 0o644))
	u, err = buildUniverse(config.ScenarioConfig{Path: path})
	require.NoError(t, err)
	credits, err := u.Credits(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 500, credits)

	_, err = buildUniverse(config.ScenarioConfig{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestBuildBackend_MemoryWithBadgerSnapshots(t *testing.T) {
	cfg := config.Default()
	cfg.Snapshot.InMemory = true

	b, err := buildBackend(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	require.NotNil(t, b.snapshots)

	u, err := buildUniverse(config.ScenarioConfig{})
	require.NoError(t, err)
	pub, closePub, err := buildPublisher(context.Background(), cfg.Redis)
	require.NoError(t, err)
	require.NoError(t, closePub())
	assert.Nil(t, pub)

	kpi := metricsinmem.NewRecorder()
	h := buildHandler(cfg, b, u, pub, kpi, kpi, discardLogger())
	assert.Nil(t, h.AuthUC)
	require.NotNil(t, b.credentials)
	resp, err := h.AdvanceTurnUC.Execute(context.Background(), agreement.AdvanceTurnRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.NextTurn)

	snap, err := b.snapshots.LoadSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, snap.Version)
	assert.EqualValues(t, 1, kpi.Snapshot().TurnsAdvanced)
}

func TestInitTracer(t *testing.T) {
	shutdown, err := initTracer(config.TracingConfig{}, io.Discard)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err = initTracer(config.TracingConfig{Enabled: true, Exporter: "stdout", SampleRatio: 1}, &buf)
	require.NoError(t, err)
	_, span := otel.Tracer("test").Start(context.Background(), "startup-span")
	span.End()
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "startup-span")
}

func TestNewMetricsServer(t *testing.T) {
	srv := newMetricsServer(":0")
	assert.Equal(t, ":0", srv.Addr)
	assert.NotNil(t, srv.Handler)
}

func TestBuildHandler_AuthRequired(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.Required = true
	b, err := buildBackend(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	u, err := buildUniverse(config.ScenarioConfig{})
	require.NoError(t, err)
	kpi := metricsinmem.NewRecorder()
	h := buildHandler(cfg, b, u, nil, kpi, kpi, discardLogger())
	require.NotNil(t, h.AuthUC)
	assert.Equal(t, b.credentials, h.AuthUC.Credentials)
}

func TestServerCmd_ConfigFlag(t *testing.T) {
	cmd := newServerCmd()
	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, os.Getenv("BOTF2_CONFIG"), flag.DefValue)

	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")

	cmd = newServerCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.Error(t, cmd.Execute(), "positional arguments are refused")
}
