package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/pulsegraph/models"
	"github.com/TFMV/pulsegraph/render"
)

func testConfig() *models.SceneConfig {
	cfg := models.NewSceneConfig()
	cfg.VertexCount = 10
	cfg.Seed = 42
	return cfg
}

func TestNewViewDefaultsConfig(t *testing.T) {
	v, err := NewView(nil, false)
	require.NoError(t, err)
	defer v.Unmount()

	assert.Len(t, v.Simulation().Mesh.Vertices, models.NewSceneConfig().VertexCount)
}

func TestNewViewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.VertexCount = -1

	_, err := NewView(cfg, false)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.MatteVertexColor = "not a color"
	_, err = NewView(cfg, false)
	assert.Error(t, err)
}

func TestMountRequiresMux(t *testing.T) {
	v, err := NewView(testConfig(), false)
	require.NoError(t, err)
	defer v.Unmount()

	assert.Error(t, v.Mount(nil))

	// The failed mount left the view usable.
	mux := http.NewServeMux()
	assert.NoError(t, v.Mount(mux))
}

func TestMountTwiceFails(t *testing.T) {
	v, err := NewView(testConfig(), false)
	require.NoError(t, err)
	defer v.Unmount()

	require.NoError(t, v.Mount(http.NewServeMux()))
	assert.Error(t, v.Mount(http.NewServeMux()))
}

func TestResizeUpdatesCameraOnly(t *testing.T) {
	v, err := NewView(testConfig(), false)
	require.NoError(t, err)
	defer v.Unmount()

	before := make([]models.Vertex, len(v.sim.Mesh.Vertices))
	copy(before, v.sim.Mesh.Vertices)

	v.Resize(1920, 1080)

	assert.InDelta(t, 1920.0/1080.0, float64(v.Camera().Aspect()), 1e-6)
	w, h := v.Camera().Viewport()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
	assert.Equal(t, before, v.sim.Mesh.Vertices)
}

func TestUnmountDuringPulseAndConvergence(t *testing.T) {
	v, err := NewView(testConfig(), false)
	require.NoError(t, err)
	require.NoError(t, v.Mount(http.NewServeMux()))

	// Put both a lifecycle convergence and a glow pulse in flight.
	v.stateMu.Lock()
	v.sim.Step(v.cfg.StartDelay + 0.1)
	v.sim.TriggerPulse()
	v.stateMu.Unlock()

	v.Unmount()
	v.Unmount() // idempotent
}

func TestMeshEndpoint(t *testing.T) {
	v, err := NewView(testConfig(), false)
	require.NoError(t, err)
	defer v.Unmount()

	mux := http.NewServeMux()
	require.NoError(t, v.Mount(mux))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/mesh", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var mesh models.Mesh
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mesh))
	assert.Equal(t, v.sim.Mesh.ID, mesh.ID)
	assert.Len(t, mesh.Vertices, 10)
}

func TestIndexPage(t *testing.T) {
	v, err := NewView(testConfig(), false)
	require.NoError(t, err)
	defer v.Unmount()

	mux := http.NewServeMux()
	require.NoError(t, v.Mount(mux))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
	assert.Contains(t, rec.Body.String(), "/ws")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamDeliversFrames(t *testing.T) {
	v, err := NewView(testConfig(), false)
	require.NoError(t, err)
	defer v.Unmount()

	mux := http.NewServeMux()
	require.NoError(t, v.Mount(mux))

	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		Mesh    string                  `json:"mesh"`
		Phase   string                  `json:"phase"`
		Buffers *render.GeometryBuffers `json:"buffers"`
	}
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, v.sim.Mesh.ID, frame.Mesh)
	assert.NotEmpty(t, frame.Phase)
	require.NotNil(t, frame.Buffers)
	assert.Len(t, frame.Buffers.VertexPositions, 10*3)
}

func TestStreamResizeMessage(t *testing.T) {
	v, err := NewView(testConfig(), false)
	require.NoError(t, err)
	defer v.Unmount()

	mux := http.NewServeMux()
	require.NoError(t, v.Mount(mux))

	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := clientMessage{Type: "resize", Width: 640, Height: 480}
	require.NoError(t, conn.WriteJSON(msg))

	assert.Eventually(t, func() bool {
		v.stateMu.Lock()
		w, h := v.camera.Viewport()
		v.stateMu.Unlock()
		return w == 640 && h == 480
	}, 2*time.Second, 10*time.Millisecond)
}
