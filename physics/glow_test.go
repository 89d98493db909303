package physics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/pulsegraph/models"
)

// zeroSource makes rand deterministic at the floor: Float64 yields 0
// (every inclusion check passes) and Intn yields 0.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func alwaysInclude() *rand.Rand {
	return rand.New(zeroSource{})
}

// squareMesh builds the 4-vertex cycle 0-1-2-3-0.
func squareMesh(t *testing.T) *models.Mesh {
	t.Helper()
	m := models.NewMesh(4)
	for _, pair := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}} {
		require.NoError(t, m.Connect(pair[0], pair[1]))
	}
	return m
}

func TestSelectClusterSquareFullSelection(t *testing.T) {
	m := squareMesh(t)

	sel := SelectCluster(m, 0, 4, 2, 0.3, alwaysInclude())

	assert.ElementsMatch(t, []int{0, 1, 2, 3}, sel.Vertices)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, sel.Edges)
}

func TestSelectClusterRespectsCap(t *testing.T) {
	m := squareMesh(t)

	sel := SelectCluster(m, 0, 2, 2, 1.0, alwaysInclude())
	assert.Len(t, sel.Vertices, 2)
}

func TestSelectClusterRespectsDepth(t *testing.T) {
	// Path 0-1-2-3-4: with the seed at 0 and max depth 2, vertex 2 is
	// reached but never expanded, so 3 and 4 stay dark.
	m := models.NewMesh(5)
	for i := 0; i < 4; i++ {
		require.NoError(t, m.Connect(i, i+1))
	}

	sel := SelectCluster(m, 0, 10, 2, 1.0, alwaysInclude())

	assert.ElementsMatch(t, []int{0, 1, 2}, sel.Vertices)
	assert.Len(t, sel.Edges, 2)
}

func TestSelectClusterSkipsWhenRandomSaysSo(t *testing.T) {
	m := squareMesh(t)

	// Probability zero: only the seed survives, no edges marked.
	sel := SelectCluster(m, 2, 10, 2, 0.0, rand.New(rand.NewSource(1)))
	assert.Equal(t, []int{2}, sel.Vertices)
	assert.Empty(t, sel.Edges)
}

func TestSelectClusterDegenerateInputs(t *testing.T) {
	m := squareMesh(t)

	assert.Empty(t, SelectCluster(m, -1, 4, 2, 1.0, alwaysInclude()).Vertices)
	assert.Empty(t, SelectCluster(m, 4, 4, 2, 1.0, alwaysInclude()).Vertices)
	assert.Empty(t, SelectCluster(m, 0, 0, 2, 1.0, alwaysInclude()).Vertices)
}

func TestSelectClusterIsPure(t *testing.T) {
	m := squareMesh(t)

	SelectCluster(m, 0, 4, 2, 0.3, alwaysInclude())

	for i := range m.Vertices {
		assert.False(t, m.Vertices[i].Glowing)
		assert.Zero(t, m.Vertices[i].GlowIntensity)
	}
	for i := range m.Edges {
		assert.False(t, m.Edges[i].Glowing)
	}
}

func TestPulseAnimatesWithinBoundsAndFadesOut(t *testing.T) {
	m := squareMesh(t)
	cfg := models.NewSceneConfig()
	sim := NewSimulation(m, cfg, alwaysInclude())

	pulse := sim.TriggerPulse()
	require.Len(t, pulse.Selection.Vertices, 4)
	require.Len(t, pulse.Selection.Edges, 4)

	for _, vi := range pulse.Selection.Vertices {
		assert.True(t, m.Vertices[vi].Glowing)
	}
	for _, ei := range pulse.Selection.Edges {
		assert.True(t, m.Edges[ei].Glowing)
	}

	// Walk through the full pulse in 20 steps, checking the intensity
	// bound at every point.
	dt := cfg.PulseDuration / 20
	for step := 0; step < 20; step++ {
		sim.Animator().Advance(dt)
		for i := range m.Vertices {
			assert.GreaterOrEqual(t, m.Vertices[i].GlowIntensity, float32(0))
			assert.LessOrEqual(t, m.Vertices[i].GlowIntensity, float32(1))
		}
		for i := range m.Edges {
			assert.GreaterOrEqual(t, m.Edges[i].GlowIntensity, float32(0))
			assert.LessOrEqual(t, m.Edges[i].GlowIntensity, float32(1))
		}
	}

	for i := range m.Vertices {
		assert.False(t, m.Vertices[i].Glowing, "vertex %d still glowing after fade-out", i)
		assert.Zero(t, m.Vertices[i].GlowIntensity)
	}
	for i := range m.Edges {
		assert.False(t, m.Edges[i].Glowing, "edge %d still glowing after fade-out", i)
		assert.Zero(t, m.Edges[i].GlowIntensity)
	}
}

func TestPulsePeaksAtHalfDuration(t *testing.T) {
	m := squareMesh(t)
	cfg := models.NewSceneConfig()
	sim := NewSimulation(m, cfg, alwaysInclude())

	sim.TriggerPulse()
	sim.Animator().Advance(cfg.PulseDuration / 2)

	for i := range m.Vertices {
		assert.InDelta(t, 1.0, m.Vertices[i].GlowIntensity, 1e-5)
	}
}

func TestTriggerPulseCancelsPriorPulse(t *testing.T) {
	m := squareMesh(t)
	cfg := models.NewSceneConfig()
	sim := NewSimulation(m, cfg, alwaysInclude())

	sim.TriggerPulse()
	sim.Animator().Advance(0.5)

	second := sim.TriggerPulse()

	// Reset happened and only the new pulse's fade-ins are active.
	expected := len(second.Selection.Vertices) + len(second.Selection.Edges)
	assert.Equal(t, expected, sim.Animator().Len())

	// No stale callback from the first pulse can corrupt the second:
	// after the full duration everything is dark and the list is empty.
	dt := cfg.PulseDuration / 20
	for step := 0; step < 21; step++ {
		sim.Animator().Advance(dt)
	}
	assert.Equal(t, 0, sim.Animator().Len())
	for i := range m.Vertices {
		assert.False(t, m.Vertices[i].Glowing)
		assert.Zero(t, m.Vertices[i].GlowIntensity)
	}
}

func TestNextPulseDelayWithinBounds(t *testing.T) {
	m := squareMesh(t)
	cfg := models.NewSceneConfig()
	sim := NewSimulation(m, cfg, rand.New(rand.NewSource(42)))

	for i := 0; i < 100; i++ {
		d := sim.NextPulseDelay().Seconds()
		assert.GreaterOrEqual(t, d, float64(cfg.PulseMinDelay))
		assert.LessOrEqual(t, d, float64(cfg.PulseMaxDelay))
	}
}
