package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiengine/internal/config"
)

// setEnv clears the variables config reads, then sets env for this test.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range []string{"PORT", "LOG_LEVEL", "MODEL_CACHE_DIR", "FLASK_ENV", "APP_ENV"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestResolveConfig_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "aiengine.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("port: 7000\nlog_level: WARN\nmodel_cache_dir: ./from-file\n"), 0o644))

	f := &rootFlags{configPath: cfgPath, port: 9000, modelsDir: "/srv/models"}
	setEnv(t, map[string]string{"LOG_LEVEL": "ERROR", "PORT": "8000"})
	cfg, err := resolveConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/srv/models", cfg.ModelCacheDir)
	assert.Equal(t, "ERROR", cfg.LogLevel)

	f.logLevel = "debug"
	cfg, err = resolveConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestResolveConfig_InvalidPortFlag(t *testing.T) {
	setEnv(t, nil)
	_, err := resolveConfig(&rootFlags{port: 70000})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port out of range")
}

func TestResolveConfig_BadEnv(t *testing.T) {
	setEnv(t, map[string]string{"PORT": "abc"})
	_, err := resolveConfig(&rootFlags{})
	require.Error(t, err)
}

func TestRequestLogLevel(t *testing.T) {
	cases := map[string]string{
		"DEBUG":    "debug",
		"INFO":     "info",
		"WARNING":  "error",
		"CRITICAL": "error",
		"OFF":      "off",
		"bogus":    "info",
	}
	for in, want := range cases {
		assert.Equal(t, want, requestLogLevel(in), in)
	}
}

func TestVersionCmd(t *testing.T) {
	t.Setenv("VERSION", "2.3.4")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "aiengine 2.3.4\n", out.String())
}

func TestModelsCmd_Table(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.yaml"),
		[]byte("name: sales\nkind: query\nengine: statistical\nversion: 0.2.0\n"), 0o644))
	t.Setenv("OPENAI_API_KEY", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"models", "--models-dir", dir})
	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, out.String(), "linear_regression")
	assert.Contains(t, out.String(), "sales")
	assert.Contains(t, out.String(), "0.2.0")
}

func TestModelsCmd_JSON(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"models", "--json", "--models-dir", filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, root.Execute())

	var body struct {
		Models []struct {
			Name   string `json:"name"`
			Loaded bool   `json:"loaded"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	names := make([]string, 0, len(body.Models))
	for _, m := range body.Models {
		names = append(names, m.Name)
		assert.True(t, m.Loaded, m.Name)
	}
	assert.ElementsMatch(t, []string{"default", "linear_regression"}, names)
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = freePort(t)
	cfg.ModelCacheDir = t.TempDir()
	cfg.OpenAI.APIKey = ""

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, testLogger()) }()

	waitHealthy(t, "http://"+cfg.Addr()+"/health")
	cancel()
	require.NoError(t, <-done)
}
