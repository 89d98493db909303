// Package models provides data structures and interfaces for the pulsegraph application.
// It defines the vertex/edge mesh, its lifecycle phase, and the scene
// configuration shared by the simulation, renderer, and server.
package models

import (
	"github.com/chewxy/math32"
)

// Phase is the coarse lifecycle state governing positional motion rules.
type Phase int

const (
	// PhaseInitializing is the startup phase: a random cloud drifting
	// around the initial positions.
	PhaseInitializing Phase = iota
	// PhaseForming is the eased convergence from the cloud onto the ring.
	PhaseForming
	// PhaseStable is the terminal phase: jitter around the ring targets.
	PhaseStable
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseForming:
		return "forming"
	case PhaseStable:
		return "stable"
	default:
		return "unknown"
	}
}

// Vec3 is a 3D vector with float32 components.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference of v and o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// MulScalar returns v scaled by s.
func (v Vec3) MulScalar(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo returns the Euclidean distance between v and o.
func (v Vec3) DistanceTo(o Vec3) float32 {
	return v.Sub(o).Length()
}

// Lerp returns the linear interpolation between v and o at fraction t.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// Vertex represents a node in the animated mesh. Its identity is its
// index in the mesh's fixed vertex slice; the slice never grows or
// shrinks after construction.
type Vertex struct {
	Index           int     `json:"index"`
	Position        Vec3    `json:"position"`
	InitialPosition Vec3    `json:"initial_position"`
	TargetPosition  Vec3    `json:"target_position"`
	Connections     []int   `json:"connections"`
	Glowing         bool    `json:"glowing"`
	GlowIntensity   float32 `json:"glow_intensity"`
}

// Edge represents an undirected connection between two vertex indices
// with its own independent glow state. From < To always holds.
type Edge struct {
	From          int     `json:"from"`
	To            int     `json:"to"`
	Glowing       bool    `json:"glowing"`
	GlowIntensity float32 `json:"glow_intensity"`
}

// Mesh is the fixed collection of vertices and edges the simulation
// animates. Vertices and edges are created once by the graph builder
// and never destroyed; only their mutable fields change afterward.
type Mesh struct {
	ID       string   `json:"id"`
	Vertices []Vertex `json:"vertices"`
	Edges    []Edge   `json:"edges"`

	// edgeIndex maps an ordered (From, To) pair to its index in Edges,
	// enforcing unordered-pair uniqueness.
	edgeIndex map[[2]int]int
}

// SceneConfig holds every tunable of the animated scene. Defaults come
// from NewSceneConfig; files processed by the ingest package may
// override them.
type SceneConfig struct {
	// Graph construction
	VertexCount    int     `json:"vertex_count" toml:"vertex_count"`
	CloudSpread    float32 `json:"cloud_spread" toml:"cloud_spread"`
	MinConnections int     `json:"min_connections" toml:"min_connections"`

	// Ring formation
	RingRadius      float32 `json:"ring_radius" toml:"ring_radius"`
	RingDepthJitter float32 `json:"ring_depth_jitter" toml:"ring_depth_jitter"`
	StartDelay      float32 `json:"start_delay" toml:"start_delay"`
	FormingDuration float32 `json:"forming_duration" toml:"forming_duration"`

	// Per-frame motion
	InitialJitter float32 `json:"initial_jitter" toml:"initial_jitter"`
	StableJitter  float32 `json:"stable_jitter" toml:"stable_jitter"`
	InitialPull   float32 `json:"initial_pull" toml:"initial_pull"`
	StablePull    float32 `json:"stable_pull" toml:"stable_pull"`
	DriftScale    float32 `json:"drift_scale" toml:"drift_scale"`
	DriftSpeed    float32 `json:"drift_speed" toml:"drift_speed"`
	DriftStrength float32 `json:"drift_strength" toml:"drift_strength"`

	// Glow pulses
	PulseDuration    float32 `json:"pulse_duration" toml:"pulse_duration"`
	PulseMinDelay    float32 `json:"pulse_min_delay" toml:"pulse_min_delay"`
	PulseMaxDelay    float32 `json:"pulse_max_delay" toml:"pulse_max_delay"`
	PulseIncludeProb float64 `json:"pulse_include_prob" toml:"pulse_include_prob"`
	PulseMinSize     int     `json:"pulse_min_size" toml:"pulse_min_size"`
	PulseMaxSize     int     `json:"pulse_max_size" toml:"pulse_max_size"`
	PulseMaxDepth    int     `json:"pulse_max_depth" toml:"pulse_max_depth"`

	// Appearance
	MatteVertexColor string `json:"matte_vertex_color" toml:"matte_vertex_color"`
	GlowVertexColor  string `json:"glow_vertex_color" toml:"glow_vertex_color"`
	MatteEdgeColor   string `json:"matte_edge_color" toml:"matte_edge_color"`
	GlowEdgeColor    string `json:"glow_edge_color" toml:"glow_edge_color"`
	Background       string `json:"background" toml:"background"`

	// Viewport and loop
	Width     int     `json:"width" toml:"width"`
	Height    int     `json:"height" toml:"height"`
	FOV       float32 `json:"fov" toml:"fov"`
	FrameRate int     `json:"frame_rate" toml:"frame_rate"`

	// Seed for the simulation's random source; 0 means time-based.
	Seed int64 `json:"seed" toml:"seed"`
}
