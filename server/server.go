// Package server exposes one animated mesh as a mountable HTTP view:
// an embedded viewer page, a websocket stream of per-frame geometry
// buffers, and a JSON API for the underlying mesh.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/TFMV/pulsegraph/graph"
	"github.com/TFMV/pulsegraph/models"
	"github.com/TFMV/pulsegraph/physics"
	"github.com/TFMV/pulsegraph/render"
)

// View owns one simulation and everything needed to present it: the
// palette, the reusable geometry buffers, the camera, and the set of
// connected viewers. Mount attaches it to a host mux and starts the
// run loop; Unmount stops the loop and releases every resource on all
// paths, including a partially failed mount.
type View struct {
	cfg     *models.SceneConfig
	sim     *physics.Simulation
	palette *render.Palette
	buffers *render.GeometryBuffers
	camera  *render.Camera
	debug   bool

	// stateMu guards the simulation, buffers, and camera. The run loop
	// is the only writer of mesh state; handlers take the lock only to
	// read a consistent snapshot.
	stateMu sync.Mutex

	upgrader websocket.Upgrader

	clientMu sync.Mutex
	clients  map[*websocket.Conn]bool

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mounted bool
}

// NewView builds a view from the scene configuration: it constructs the
// mesh, wraps it in a simulation, and prepares camera and buffers. The
// configuration is validated first.
func NewView(cfg *models.SceneConfig, debug bool) (*View, error) {
	if cfg == nil {
		cfg = models.NewSceneConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}

	palette, err := render.PaletteFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid palette: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	mesh := graph.Build(cfg, rng)
	ctx, cancel := context.WithCancel(context.Background())

	return &View{
		cfg:     cfg,
		sim:     physics.NewSimulation(mesh, cfg, rng),
		palette: palette,
		buffers: render.NewGeometryBuffers(mesh),
		camera:  render.NewCamera(cfg.FOV, cfg.Width, cfg.Height),
		debug:   debug,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16384,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Simulation exposes the underlying simulation, primarily for tests
// and snapshot rendering.
func (v *View) Simulation() *physics.Simulation {
	return v.sim
}

// Camera exposes the view's camera.
func (v *View) Camera() *render.Camera {
	return v.camera
}

// Mount registers the view's handlers on the host mux and starts the
// run loop. A nil mux means the host container is absent; the view
// no-ops with an error rather than proceeding.
func (v *View) Mount(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("no host mux to mount into")
	}
	if v.mounted {
		return fmt.Errorf("view already mounted")
	}
	v.mounted = true

	mux.HandleFunc("/", v.handleIndex)
	mux.HandleFunc("/ws", v.handleStream)
	mux.HandleFunc("/api/mesh", v.handleMesh)

	v.wg.Add(1)
	go v.run()
	return nil
}

// Unmount stops the run loop, cancels the pending glow timer, and
// closes every viewer connection. It is safe to call at any point,
// including while a pulse and a convergence are in flight, and safe to
// call more than once.
func (v *View) Unmount() {
	v.cancel()
	v.wg.Wait()

	v.clientMu.Lock()
	for conn := range v.clients {
		conn.Close()
		delete(v.clients, conn)
	}
	v.clientMu.Unlock()
}

// Resize updates the camera aspect and the recorded surface size.
// Vertex and edge state is never touched; degenerate dimensions are
// tolerated by the camera itself.
func (v *View) Resize(width, height int) {
	v.stateMu.Lock()
	v.camera.SetViewport(width, height)
	v.stateMu.Unlock()
}

// run is the simulation loop: one tick per frame interval, plus the
// self-rescheduling glow-pulse timer. Both timers stop on every exit
// path, so nothing can fire after teardown.
func (v *View) run() {
	defer v.wg.Done()

	interval := time.Second / time.Duration(v.cfg.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	glow := time.NewTimer(v.nextPulseDelay())
	defer glow.Stop()

	last := time.Now()
	for {
		select {
		case <-v.ctx.Done():
			return

		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now

			v.stateMu.Lock()
			v.sim.Step(dt)
			v.buffers.Project(v.sim.Mesh, v.palette)
			frame := v.encodeFrame()
			v.stateMu.Unlock()

			v.broadcast(frame)

		case <-glow.C:
			v.stateMu.Lock()
			pulse := v.sim.TriggerPulse()
			delay := v.nextPulseDelay()
			v.stateMu.Unlock()

			if v.debug {
				log.Printf("pulse %s: seed=%d vertices=%d edges=%d next in %s",
					pulse.ID, pulse.Seed, len(pulse.Selection.Vertices), len(pulse.Selection.Edges), delay)
			}
			glow.Reset(delay)
		}
	}
}

func (v *View) nextPulseDelay() time.Duration {
	return v.sim.NextPulseDelay()
}

// encodeFrame marshals the current buffers. Called under stateMu.
func (v *View) encodeFrame() []byte {
	frame := render.Frame{
		Mesh:      v.sim.Mesh.ID,
		Phase:     v.sim.Phase().String(),
		Timestamp: time.Now().UnixMilli(),
		Buffers:   v.buffers,
	}
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("frame encode failed: %v", err)
		return nil
	}
	return data
}

// broadcast writes one encoded frame to every connected viewer,
// dropping connections that fail.
func (v *View) broadcast(frame []byte) {
	if frame == nil {
		return
	}

	v.clientMu.Lock()
	defer v.clientMu.Unlock()
	for conn := range v.clients {
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			conn.Close()
			delete(v.clients, conn)
		}
	}
}

// clientMessage is what the viewer page sends back over the socket.
type clientMessage struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// handleStream upgrades the connection and registers the viewer. A
// reader goroutine consumes resize messages until the peer goes away.
func (v *View) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := v.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	v.clientMu.Lock()
	v.clients[conn] = true
	v.clientMu.Unlock()

	go func() {
		defer func() {
			v.clientMu.Lock()
			delete(v.clients, conn)
			v.clientMu.Unlock()
			conn.Close()
		}()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg clientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			if msg.Type == "resize" {
				v.Resize(msg.Width, msg.Height)
			}
		}
	}()
}

// handleMesh provides a JSON API for the current mesh state.
func (v *View) handleMesh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	v.stateMu.Lock()
	defer v.stateMu.Unlock()

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v.sim.Mesh); err != nil {
		log.Printf("mesh encode failed: %v", err)
	}
}

// Start builds a view from cfg, mounts it on a fresh mux, and serves
// it at addr until ctx is cancelled.
func Start(ctx context.Context, addr string, cfg *models.SceneConfig, debug bool) error {
	view, err := NewView(cfg, debug)
	if err != nil {
		return err
	}
	defer view.Unmount()

	mux := http.NewServeMux()
	if err := view.Mount(mux); err != nil {
		return err
	}

	server := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("serving animated mesh on %s...", addr)
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
