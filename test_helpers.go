package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"aria/cmd"
	"aria/config"
	"aria/services"
	"aria/types"
)

// TestHelper provides utilities for testing against an in-process simulator
type TestHelper struct {
	Server   *httptest.Server
	Config   *config.Config
	Pipeline services.Pipeline
}

// NewTestHelper starts a simulator with fast generation timings on a test server
func NewTestHelper(t *testing.T) *TestHelper {
	gin.SetMode(gin.TestMode)

	libraryDir, err := os.MkdirTemp("", "aria-test-library-*")
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{
			URL:        "http://localhost:8080",
			EventsPath: "/api/ws/events",
		},
		Simulator: config.SimulatorConfig{
			LibraryDir:        libraryDir,
			GenerationSeconds: 1,
			FailureRate:       0,
			PlaybackSeconds:   1,
		},
	}

	router, pipeline := cmd.NewRouter(cfg)
	server := httptest.NewServer(router)

	// Point the client config at the live test server
	cfg.Server.URL = server.URL

	return &TestHelper{
		Server:   server,
		Config:   cfg,
		Pipeline: pipeline,
	}
}

// Cleanup cleans up test resources
func (h *TestHelper) Cleanup(t *testing.T) {
	if h.Server != nil {
		h.Server.Close()
	}
	err := os.RemoveAll(h.Config.Simulator.LibraryDir)
	require.NoError(t, err)
}

// CreateLibraryFile drops a file into the simulator's library directory
func (h *TestHelper) CreateLibraryFile(t *testing.T, relativePath string, content []byte) {
	fullPath := filepath.Join(h.Config.Simulator.LibraryDir, filepath.FromSlash(relativePath))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, content, 0o644))
}

// MakeRequest makes an HTTP request to the test server
func (h *TestHelper) MakeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, h.Server.URL+path, reqBody)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// GetJSON makes a GET request and unmarshals JSON response
func (h *TestHelper) GetJSON(t *testing.T, path string, target interface{}) *http.Response {
	resp := h.MakeRequest(t, "GET", path, nil)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		err = json.Unmarshal(body, target)
		require.NoError(t, err)
	}

	return resp
}

// PostJSON makes a POST request with JSON body and unmarshals JSON response
func (h *TestHelper) PostJSON(t *testing.T, path string, requestBody interface{}, target interface{}) *http.Response {
	resp := h.MakeRequest(t, "POST", path, requestBody)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		err = json.Unmarshal(body, target)
		require.NoError(t, err)
	}

	return resp
}

// WaitForGeneration waits for a generation to reach a terminal state
func (h *TestHelper) WaitForGeneration(t *testing.T, id string, timeout time.Duration) *types.GenerationJob {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		var job types.GenerationJob
		resp := h.GetJSON(t, "/api/generations/"+id, &job)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		if job.Status.Terminal() {
			return &job
		}

		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("Generation %s did not finish within timeout", id)
	return nil
}

// ConnectWebSocket connects to a WebSocket endpoint on the test server
func (h *TestHelper) ConnectWebSocket(t *testing.T, path string) *websocket.Conn {
	wsURL := "ws" + h.Server.URL[4:] + path // Replace http:// with ws://

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn
}
