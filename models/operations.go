package models

import (
	"fmt"

	"github.com/google/uuid"
)

// NewSceneConfig returns a scene configuration with the stock tuning:
// a 50-vertex cloud that settles onto a ring after a 2 second delay and
// a 15 second convergence, with 2.5 second glow pulses every 2-5 seconds.
func NewSceneConfig() *SceneConfig {
	return &SceneConfig{
		VertexCount:    50,
		CloudSpread:    24.0,
		MinConnections: 3,

		RingRadius:      14.0,
		RingDepthJitter: 1.5,
		StartDelay:      2.0,
		FormingDuration: 15.0,

		InitialJitter: 0.12,
		StableJitter:  0.05,
		InitialPull:   0.02,
		StablePull:    0.03,
		DriftScale:    0.05,
		DriftSpeed:    0.2,
		DriftStrength: 0.02,

		PulseDuration:    2.5,
		PulseMinDelay:    2.0,
		PulseMaxDelay:    5.0,
		PulseIncludeProb: 0.3,
		PulseMinSize:     5,
		PulseMaxSize:     15,
		PulseMaxDepth:    2,

		MatteVertexColor: "#4A6A8A", // Slate blue
		GlowVertexColor:  "#7FDBFF", // Electric cyan
		MatteEdgeColor:   "#2C3E50", // Dark slate
		GlowEdgeColor:    "#39CCCC", // Teal
		Background:       "#0B0E14", // Near black

		Width:     800,
		Height:    600,
		FOV:       60.0,
		FrameRate: 60,
	}
}

// Validate checks the configuration for values the simulation cannot
// run with.
func (c *SceneConfig) Validate() error {
	if c.VertexCount <= 0 {
		return fmt.Errorf("vertex_count must be positive, got %d", c.VertexCount)
	}
	if c.MinConnections < 0 || c.MinConnections >= c.VertexCount {
		return fmt.Errorf("min_connections must be in [0, %d), got %d", c.VertexCount, c.MinConnections)
	}
	if c.CloudSpread <= 0 {
		return fmt.Errorf("cloud_spread must be positive, got %f", c.CloudSpread)
	}
	if c.RingRadius <= 0 {
		return fmt.Errorf("ring_radius must be positive, got %f", c.RingRadius)
	}
	if c.FormingDuration <= 0 || c.PulseDuration <= 0 {
		return fmt.Errorf("durations must be positive")
	}
	if c.PulseIncludeProb < 0 || c.PulseIncludeProb > 1 {
		return fmt.Errorf("pulse_include_prob must be in [0,1], got %f", c.PulseIncludeProb)
	}
	if c.PulseMinSize <= 0 || c.PulseMaxSize < c.PulseMinSize {
		return fmt.Errorf("pulse size bounds invalid: [%d, %d]", c.PulseMinSize, c.PulseMaxSize)
	}
	if c.PulseMinDelay < 0 || c.PulseMaxDelay < c.PulseMinDelay {
		return fmt.Errorf("pulse delay bounds invalid: [%f, %f]", c.PulseMinDelay, c.PulseMaxDelay)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate)
	}
	return nil
}

// NewMesh creates a mesh with a unique ID and n vertices. Positions are
// zero until the graph builder assigns them.
func NewMesh(n int) *Mesh {
	vertices := make([]Vertex, n)
	for i := range vertices {
		vertices[i].Index = i
	}
	return &Mesh{
		ID:        uuid.New().String(),
		Vertices:  vertices,
		Edges:     make([]Edge, 0, n*2),
		edgeIndex: make(map[[2]int]int, n*2),
	}
}

// edgeKey returns the canonical ordered key for an unordered pair.
func edgeKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// Connect records an undirected connection between vertices i and j.
// Both adjacency lists are updated and exactly one edge is appended per
// unordered pair; connecting an already-connected pair is a no-op.
// Self-loops and out-of-range indices are rejected.
func (m *Mesh) Connect(i, j int) error {
	if i == j {
		return fmt.Errorf("self-loop rejected for vertex %d", i)
	}
	if i < 0 || i >= len(m.Vertices) || j < 0 || j >= len(m.Vertices) {
		return fmt.Errorf("vertex pair (%d, %d) out of range [0, %d)", i, j, len(m.Vertices))
	}

	key := edgeKey(i, j)
	if _, exists := m.edgeIndex[key]; exists {
		return nil
	}

	m.Vertices[i].Connections = append(m.Vertices[i].Connections, j)
	m.Vertices[j].Connections = append(m.Vertices[j].Connections, i)
	m.edgeIndex[key] = len(m.Edges)
	m.Edges = append(m.Edges, Edge{From: key[0], To: key[1]})
	return nil
}

// Connected reports whether vertices i and j share an edge.
func (m *Mesh) Connected(i, j int) bool {
	_, ok := m.edgeIndex[edgeKey(i, j)]
	return ok
}

// ResetGlow clears glow state on every vertex and edge.
func (m *Mesh) ResetGlow() {
	for i := range m.Vertices {
		m.Vertices[i].Glowing = false
		m.Vertices[i].GlowIntensity = 0
	}
	for i := range m.Edges {
		m.Edges[i].Glowing = false
		m.Edges[i].GlowIntensity = 0
	}
}
