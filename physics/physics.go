package physics

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/TFMV/pulsegraph/models"
)

// Simulation owns all mutable animation state for one mesh: the
// lifecycle phase, the active tween list, and the random and noise
// sources. All methods must be called from a single goroutine; the
// owning view's run loop is that goroutine.
type Simulation struct {
	Mesh *models.Mesh

	cfg   *models.SceneConfig
	rng   *rand.Rand
	noise opensimplex.Noise
	anim  *Animator

	phase   models.Phase
	elapsed float32

	// formed counts completed per-vertex convergence tweens; the
	// forming->stable transition fires when it reaches the vertex count.
	formed int
}

// NewSimulation wraps a built mesh in a simulation using the given
// configuration and random source.
func NewSimulation(mesh *models.Mesh, cfg *models.SceneConfig, rng *rand.Rand) *Simulation {
	return &Simulation{
		Mesh:  mesh,
		cfg:   cfg,
		rng:   rng,
		noise: opensimplex.New(rng.Int63()),
		anim:  NewAnimator(),
		phase: models.PhaseInitializing,
	}
}

// Phase returns the current lifecycle phase.
func (s *Simulation) Phase() models.Phase {
	return s.phase
}

// Elapsed returns the total simulated time in seconds.
func (s *Simulation) Elapsed() float32 {
	return s.elapsed
}

// Animator exposes the active tween list, primarily for the view's
// teardown and for tests.
func (s *Simulation) Animator() *Animator {
	return s.anim
}

// Step advances the simulation by dt seconds: it fires the one-shot
// initializing->forming transition once StartDelay has elapsed,
// advances every active tween, and applies the current phase's motion
// rule to every vertex.
func (s *Simulation) Step(dt float32) {
	s.elapsed += dt

	if s.phase == models.PhaseInitializing && s.elapsed >= s.cfg.StartDelay {
		s.beginForming()
	}

	s.anim.Advance(dt)
	s.applyMotion()
}
