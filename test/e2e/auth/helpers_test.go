package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grantd/grantd/internal/auth/app"
	"github.com/grantd/grantd/pkg/oauthx"
	"github.com/stretchr/testify/require"
)

/*
 * Common constants and helper functions for grantd end-to-end tests.
 * These boot the full application on a loopback port and exercise it
 * over real HTTP.
 */

const (
	testClientID     = "client123"
	testClientSecret = "secret123"
	testRedirectURI  = "http://localhost:5000/callback"
)

const seedYAML = `
clients:
  - id: client123
    name: callback-demo
    secret: secret123
    redirect_uris:
      - http://localhost:5000/callback
users:
  - id: "1"
    username: mahasiswa
principal: "1"
`

// freePort reserves an ephemeral loopback port for the server under test.
func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

// startServer boots the full application and returns its base URL.
// The server is shut down when the test finishes.
func startServer(t *testing.T) string {
	t.Helper()

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0o600))

	port := freePort(t)
	cfg := app.Config{
		Port:                 port,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		SeedFile:             seedPath,
		CodeTTL:              10 * time.Minute,
		AccessTTL:            time.Hour,
		ShutdownGracePeriod:  5 * time.Second,
		HousekeepingInterval: time.Minute,
	}

	application, err := app.New(cfg)
	require.NoError(t, err)

	go func() {
		_ = application.Run()
	}()
	t.Cleanup(func() {
		_ = application.Shutdown()
	})

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	waitReady(t, baseURL)
	return baseURL
}

// waitReady polls /livez until the server answers or the deadline passes.
func waitReady(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/livez")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("server did not become ready in time")
}

var e2eIPSeq int

// doRequest sends the request with a per-call forwarded IP so the server's
// per-IP rate limit buckets never interfere across tests.
func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	e2eIPSeq++
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", e2eIPSeq%250+1))

	client := &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func postToken(t *testing.T, baseURL string, body oauthx.TokenRequest) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, baseURL+"/token", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return doRequest(t, req)
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
