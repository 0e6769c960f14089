package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zeebo/assert"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	assert.NoError(t, err)
	assert.Equal(t, *cfg, CLIConfig{LogLevel: "info", LogFormat: "text"})
}

func TestParseFlagsEnvFallback(t *testing.T) {
	t.Setenv("SLICESTRESS_CONFIG", "from-env.yaml")
	t.Setenv("SLICESTRESS_LOG_LEVEL", "debug")
	t.Setenv("SLICESTRESS_METRICS_ADDR", ":9090")

	cfg, err := parseFlags(nil)
	assert.NoError(t, err)
	assert.Equal(t, cfg.ConfigPath, "from-env.yaml")
	assert.Equal(t, cfg.LogLevel, "debug")
	assert.Equal(t, cfg.MetricsAddr, ":9090")

	// flags win over the environment.
	cfg, err = parseFlags([]string{"-c", "flag.yaml", "-log-format", "json"})
	assert.NoError(t, err)
	assert.Equal(t, cfg.ConfigPath, "flag.yaml")
	assert.Equal(t, cfg.LogFormat, "json")
	assert.Equal(t, cfg.LogLevel, "debug")
}

func TestParseFlagsUnknown(t *testing.T) {
	_, err := parseFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	} {
		log := newLogger(io.Discard, level, "text")
		assert.That(t, log.Enabled(ctx, want))
		assert.That(t, !log.Enabled(ctx, want-1))
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "info", "json").Info("hello", "run", "x")

	var rec map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, rec["msg"], "hello")
	assert.Equal(t, rec["service"], "slicestress")
	assert.Equal(t, rec["run"], "x")

	buf.Reset()
	newLogger(&buf, "info", "text").Info("hello")
	assert.That(t, strings.Contains(buf.String(), "msg=hello"))
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "slicestress_test_total"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := httptest.NewServer(newRouter(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	assert.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.Equal(t, string(body), "ok")

	resp, err = http.Get(srv.URL + "/metrics")
	assert.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	assert.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.That(t, strings.Contains(string(body), "slicestress_test_total 1"))

	resp, err = http.Post(srv.URL+"/healthz", "text/plain", nil)
	assert.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusMethodNotAllowed)
}
