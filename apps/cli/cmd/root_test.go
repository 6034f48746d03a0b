package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitsmoke/packages/mock"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	for _, fs := range []*pflag.FlagSet{rootCmd.Flags(), serveCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			require.NoError(t, f.Value.Set(f.DefValue))
			f.Changed = false
		})
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(t)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func okServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

func TestSmoke_AllStepsOK(t *testing.T) {
	server, seen := okServer(t)

	stdout, stderr, err := execute(t, "--base-url", server.URL, "--no-color")

	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, 7, strings.Count(stdout, "Status: 200\nResponse: ok\n\n"))
	assert.Equal(t, []string{
		"POST /test", "POST /test", "GET /test",
		"PUT /test", "PUT /test", "DELETE /test", "GET /test",
	}, *seen)

	labels := []string{
		"Testing POST with text/plain",
		"Testing POST with application/json",
		"Testing GET",
		"Testing PUT with text/plain",
		"Testing PUT with application/json",
		"Testing DELETE",
		"Testing GET after DELETE",
	}
	last := -1
	for _, label := range labels {
		idx := strings.Index(stdout[last+1:], label+"\n")
		require.GreaterOrEqual(t, idx, 0, "label %q missing or out of order", label)
		last += idx + 1
	}
}

func TestSmoke_AgainstReferenceServer(t *testing.T) {
	server := httptest.NewServer(mock.NewServer().Handler())
	defer server.Close()

	stdout, _, err := execute(t, "--base-url", server.URL, "--no-color")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Testing GET\nStatus: 200\nResponse: {\"message\": \"This is a JSON POST\"}\n")
	assert.Contains(t, stdout, "Testing DELETE\nStatus: 204\nResponse: \n")
	assert.Contains(t, stdout, "Testing GET after DELETE\nStatus: 404\nResponse: Not Found\n")
}

func TestSmoke_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	stdout, stderr, err := execute(t, "--base-url", url, "--no-color")

	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, exitCode(err))
	assert.Equal(t, "Testing POST with text/plain\n", stdout)
	assert.Contains(t, stderr, "Error:")
	assert.Contains(t, stderr, "Testing POST with text/plain")
}

func TestSmoke_InvalidBaseURL(t *testing.T) {
	stdout, stderr, err := execute(t, "--base-url", "ftp://localhost")

	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unsupported URL scheme")
}

func TestSmoke_InvalidTimeout(t *testing.T) {
	_, _, err := execute(t, "--timeout", "whenever")

	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
	assert.Contains(t, err.Error(), "--timeout")
}

func TestSmoke_ZeroTimeoutDisablesDeadline(t *testing.T) {
	resetFlags(t)
	require.NoError(t, rootCmd.Flags().Set("timeout", "0"))

	cfg, err := resolveConfig(rootCmd)

	require.NoError(t, err)
	assert.Equal(t, 0, cfg.GetTimeout())
	assert.Equal(t, time.Duration(0), cfg.TimeoutDuration())

	server, seen := okServer(t)
	_, _, err = execute(t, "--base-url", server.URL, "--timeout", "0", "--no-color")

	require.NoError(t, err)
	assert.Len(t, *seen, 7)
}

func TestSmoke_TimeoutHaltsRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	stdout, stderr, err := execute(t, "--base-url", server.URL, "--timeout", "50ms", "--no-color")

	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, exitCode(err))
	assert.Equal(t, "Testing POST with text/plain\n", stdout)
	assert.Contains(t, stderr, "deadline exceeded")
}

func TestSmoke_ConfigFile(t *testing.T) {
	server, seen := okServer(t)

	path := filepath.Join(t.TempDir(), "hitsmoke.yaml")
	content := "baseURL: " + server.URL + "\nendpoint: /items\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, _, err := execute(t, "--config", path)

	require.NoError(t, err)
	require.Len(t, *seen, 7)
	assert.Equal(t, "DELETE /items", (*seen)[5])
}

func TestSmoke_EnvFile(t *testing.T) {
	server, seen := okServer(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "HITSMOKE_BASE_URL=" + server.URL + "\nHITSMOKE_ENDPOINT=/from-env\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, _, err := execute(t, "--env-file", path, "--endpoint", "/from-flag")

	require.NoError(t, err)
	require.Len(t, *seen, 7)
	assert.Equal(t, "GET /from-flag", (*seen)[2])
}

func TestSmoke_MissingEnvFile(t *testing.T) {
	_, _, err := execute(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"))

	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestSmoke_RejectsArguments(t *testing.T) {
	_, _, err := execute(t, "extra")

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "hitsmoke version "+version)
	assert.Contains(t, stdout, "Built: "+buildTime)
}

func TestServeCommand_InvalidDelay(t *testing.T) {
	_, _, err := execute(t, "serve", "--delay", "later")

	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
	assert.Contains(t, err.Error(), "invalid delay value")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitUsageError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, ExitNetworkError, exitCode(exitWith(ExitNetworkError, errors.New("refused"))))

	wrapped := exitWith(ExitConfigError, errors.New("bad config"))
	assert.Equal(t, "bad config", wrapped.Error())
	assert.Equal(t, "bad config", errors.Unwrap(wrapped).Error())
}
