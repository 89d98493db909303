package physics

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/pulsegraph/models"
)

func TestRingTargetFormula(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const n = 50
	const radius = float32(14.0)

	for i := 0; i < n; i++ {
		target := RingTarget(i, n, radius, 0, rng)
		angle := 2 * math32.Pi * float32(i) / float32(n)

		assert.InDelta(t, radius*math32.Cos(angle), target.X, 1e-4)
		assert.InDelta(t, radius*math32.Sin(angle), target.Y, 1e-4)
		assert.Zero(t, target.Z)
	}
}

func TestRingTargetDepthJitterBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		target := RingTarget(i, 100, 10, 1.5, rng)
		assert.LessOrEqual(t, math32.Abs(target.Z), float32(1.5))
	}
}

func TestLifecycleTransitionsInOrder(t *testing.T) {
	m := squareMesh(t)
	cfg := models.NewSceneConfig()
	sim := NewSimulation(m, cfg, rand.New(rand.NewSource(9)))

	require.Equal(t, models.PhaseInitializing, sim.Phase())

	// Still short of the start delay.
	sim.Step(cfg.StartDelay / 2)
	assert.Equal(t, models.PhaseInitializing, sim.Phase())

	// Crossing the delay fires initializing -> forming exactly once.
	sim.Step(cfg.StartDelay / 2)
	assert.Equal(t, models.PhaseForming, sim.Phase())

	// Mid-convergence the phase holds.
	sim.Step(cfg.FormingDuration / 2)
	assert.Equal(t, models.PhaseForming, sim.Phase())

	// All convergence tweens complete -> stable.
	sim.Step(cfg.FormingDuration / 2)
	assert.Equal(t, models.PhaseStable, sim.Phase())

	// Terminal: never reverts.
	for i := 0; i < 10; i++ {
		sim.Step(1.0)
		assert.Equal(t, models.PhaseStable, sim.Phase())
	}
}

func TestFormingAssignsRingTargets(t *testing.T) {
	m := squareMesh(t)
	cfg := models.NewSceneConfig()
	sim := NewSimulation(m, cfg, rand.New(rand.NewSource(4)))

	sim.Step(cfg.StartDelay)
	require.Equal(t, models.PhaseForming, sim.Phase())

	for i := range m.Vertices {
		target := m.Vertices[i].TargetPosition
		planar := math32.Sqrt(target.X*target.X + target.Y*target.Y)
		assert.InDelta(t, cfg.RingRadius, planar, 1e-3, "vertex %d off the ring", i)
		assert.LessOrEqual(t, math32.Abs(target.Z), cfg.RingDepthJitter)
	}
}

func TestConvergenceReachesTargets(t *testing.T) {
	m := squareMesh(t)
	cfg := models.NewSceneConfig()
	sim := NewSimulation(m, cfg, rand.New(rand.NewSource(4)))

	dt := float32(1.0) / float32(cfg.FrameRate)
	steps := int((cfg.StartDelay + cfg.FormingDuration + 1) * float32(cfg.FrameRate))
	for i := 0; i < steps; i++ {
		sim.Step(dt)
	}

	require.Equal(t, models.PhaseStable, sim.Phase())
	for i := range m.Vertices {
		v := &m.Vertices[i]
		assert.InDelta(t, float64(v.TargetPosition.X), float64(v.Position.X), 1.5)
		assert.InDelta(t, float64(v.TargetPosition.Y), float64(v.Position.Y), 1.5)
		assert.InDelta(t, float64(v.TargetPosition.Z), float64(v.Position.Z), 1.5)
	}
}

func TestInitializingPullsTowardInitialPosition(t *testing.T) {
	m := squareMesh(t)
	cfg := models.NewSceneConfig()
	cfg.StartDelay = 1e6 // stay in the initializing phase
	cfg.InitialJitter = 0
	cfg.DriftStrength = 0

	sim := NewSimulation(m, cfg, rand.New(rand.NewSource(8)))

	m.Vertices[0].InitialPosition = models.Vec3{X: 1, Y: 1, Z: 1}
	m.Vertices[0].Position = models.Vec3{X: 10, Y: 10, Z: 10}

	before := m.Vertices[0].Position.DistanceTo(m.Vertices[0].InitialPosition)
	sim.Step(0.016)
	after := m.Vertices[0].Position.DistanceTo(m.Vertices[0].InitialPosition)

	assert.Less(t, after, before)
	assert.InDelta(t, float64(before)*(1-float64(cfg.InitialPull)), float64(after), 1e-3)
}
