package main

import (
	"bytes"
	"context"
	"github.com/saylorsolutions/eventsys/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testConfig = `
addr: "127.0.0.1:0"
call_timeout: 1s
log:
  level: error
routes:
  - event: echo
    module: echo
  - event: shout
    module: upper
  - event: broken
    module: fail
    options:
      message: always broken
`

type testApp struct {
	*app
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T, ctx context.Context, stdin string, environ ...string) *testApp {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return &testApp{
		app: &app{
			ctx:    ctx,
			stdin:  strings.NewReader(stdin),
			stdout: &stdout,
			stderr: &stderr,
			env:    config.EnvironmentOf(environ),
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventsys.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr []string
	}{
		{name: "No args", args: nil, code: exitUsage, stderr: []string{"unknown command", "COMMANDS:", "serve", "send", "routes"}},
		{name: "Unknown command", args: []string{"launch"}, code: exitUsage, stderr: []string{"unknown command: launch"}},
		{name: "Help", args: []string{"--help"}, code: exitOK, stderr: []string{"COMMANDS:"}},
		{name: "Command help", args: []string{"send", "-h"}, code: exitOK, stderr: []string{"--event", "--timeout"}},
		{name: "Bad flag", args: []string{"routes", "--nope"}, code: exitUsage, stderr: []string{"routes: unknown flag: --nope"}},
		{name: "Send without event", args: []string{"send", "payload"}, code: exitUsage, stderr: []string{"--event is required"}},
		{name: "Send extra args", args: []string{"send", "-e", "echo", "a", "b"}, code: exitUsage, stderr: []string{"at most one payload"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestApp(t, context.Background(), "")
			assert.Equal(t, tc.code, a.run(tc.args))
			for _, s := range tc.stderr {
				assert.Contains(t, a.stderr.String(), s)
			}
		})
	}
}

func TestRoutes(t *testing.T) {
	path := writeConfig(t, testConfig)
	a := newTestApp(t, context.Background(), "")
	require.Equal(t, exitOK, a.run([]string{"routes", "--config", path}), a.stderr.String())
	lines := strings.Split(strings.TrimSpace(a.stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"EVENT", "MODULE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"echo", "echo"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"shout", "upper"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"broken", "fail"}, strings.Fields(lines[3]))
}

func TestRoutes_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "routes:\n  - event: x\n    module: teleport\n")
	a := newTestApp(t, context.Background(), "")
	assert.Equal(t, exitError, a.run([]string{"routes", "-c", path}))
	assert.Contains(t, a.stderr.String(), "unknown module 'teleport'")
}

func TestSend(t *testing.T) {
	path := writeConfig(t, testConfig)

	t.Run("Echo", func(t *testing.T) {
		a := newTestApp(t, context.Background(), "")
		require.Equal(t, exitOK, a.run([]string{"send", "-c", path, "-e", "echo", "hello"}), a.stderr.String())
		assert.Equal(t, "hello\n", a.stdout.String())
	})
	t.Run("Stdin payload", func(t *testing.T) {
		a := newTestApp(t, context.Background(), "from stdin")
		require.Equal(t, exitOK, a.run([]string{"send", "-c", path, "--event", "shout", "-"}), a.stderr.String())
		assert.Equal(t, "FROM STDIN\n", a.stdout.String())
	})
	t.Run("Handler failure", func(t *testing.T) {
		a := newTestApp(t, context.Background(), "")
		assert.Equal(t, exitError, a.run([]string{"send", "-c", path, "-e", "broken", "x"}))
		assert.Empty(t, a.stdout.String())
		assert.Contains(t, a.stderr.String(), "no response")
		assert.Contains(t, a.stderr.String(), "always broken")
	})
	t.Run("Unroutable", func(t *testing.T) {
		a := newTestApp(t, context.Background(), "")
		assert.Equal(t, exitError, a.run([]string{"send", "-c", path, "-e", "missing", "x"}))
		assert.Contains(t, a.stderr.String(), "no response")
	})
	t.Run("Environment override", func(t *testing.T) {
		a := newTestApp(t, context.Background(), "", "EVENTSYS_LOG_LEVEL=verbose")
		assert.Equal(t, exitError, a.run([]string{"send", "-c", path, "-e", "echo", "x"}))
		assert.Contains(t, a.stderr.String(), "invalid log level 'verbose'")
	})
}

func TestServe_Shutdown(t *testing.T) {
	path := writeConfig(t, testConfig)
	ctx, cancel := context.WithCancel(context.Background())
	a := newTestApp(t, ctx, "")

	done := make(chan int, 1)
	go func() {
		done <- a.run([]string{"serve", "--config", path, "--addr", "127.0.0.1:0"})
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case code := <-done:
		assert.Equal(t, exitOK, code, a.stderr.String())
	case <-time.After(5 * time.Second):
		t.Fatal("Serve should have stopped after the context was cancelled")
	}
}
