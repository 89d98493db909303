package physics

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/TFMV/pulsegraph/models"
)

// lifecycleTag marks the per-vertex convergence tweens.
const lifecycleTag = "lifecycle"

// RingTarget returns the stable-phase attractor for vertex i of n:
// evenly spaced around a circle of the given radius in the XY plane,
// with a uniform random Z offset up to depthJitter.
func RingTarget(i, n int, radius, depthJitter float32, rng *rand.Rand) models.Vec3 {
	angle := 2 * math32.Pi * float32(i) / float32(n)
	var z float32
	if depthJitter > 0 {
		z = (rng.Float32()*2 - 1) * depthJitter
	}
	return models.Vec3{
		X: radius * math32.Cos(angle),
		Y: radius * math32.Sin(angle),
		Z: z,
	}
}

// beginForming fires the one-shot initializing->forming transition:
// every vertex gets a fresh ring target and a long eased interpolation
// of its position toward that target. The forming->stable transition
// fires when all interpolations have completed, tracked by an explicit
// counter rather than any single tween's callback, so it stays correct
// even if durations are ever made per-vertex.
func (s *Simulation) beginForming() {
	s.phase = models.PhaseForming
	s.formed = 0

	n := len(s.Mesh.Vertices)
	for i := range s.Mesh.Vertices {
		v := &s.Mesh.Vertices[i]
		v.TargetPosition = RingTarget(i, n, s.cfg.RingRadius, s.cfg.RingDepthJitter, s.rng)

		s.anim.Add(Vec3Tween(
			lifecycleTag,
			&v.Position,
			v.Position,
			v.TargetPosition,
			s.cfg.FormingDuration,
			EaseInOutQuad,
			func() {
				s.formed++
				if s.formed == n {
					s.phase = models.PhaseStable
				}
			},
		))
	}
}

// applyMotion applies the per-tick motion rule for the current phase.
// Initializing vertices random-walk widely and are pulled back toward
// their initial positions; stable vertices jitter less, drift on a slow
// simplex field, and are pulled toward their ring targets. During
// forming the convergence tweens own every position outright.
func (s *Simulation) applyMotion() {
	switch s.phase {
	case models.PhaseInitializing:
		for i := range s.Mesh.Vertices {
			v := &s.Mesh.Vertices[i]
			v.Position = v.Position.Add(s.jitter(s.cfg.InitialJitter))
			v.Position = v.Position.Lerp(v.InitialPosition, s.cfg.InitialPull)
		}
	case models.PhaseStable:
		for i := range s.Mesh.Vertices {
			v := &s.Mesh.Vertices[i]
			v.Position = v.Position.Add(s.jitter(s.cfg.StableJitter))
			v.Position = v.Position.Add(s.drift(v.Position))
			v.Position = v.Position.Lerp(v.TargetPosition, s.cfg.StablePull)
		}
	case models.PhaseForming:
		// Position is fully owned by the convergence tweens.
	}
}

// jitter returns a uniform random offset with each component in
// [-amp, amp].
func (s *Simulation) jitter(amp float32) models.Vec3 {
	return models.Vec3{
		X: (s.rng.Float32()*2 - 1) * amp,
		Y: (s.rng.Float32()*2 - 1) * amp,
		Z: (s.rng.Float32()*2 - 1) * amp,
	}
}

// drift samples the slow-moving simplex field at the vertex position,
// giving the stable phase its organic, non-twitchy wander.
func (s *Simulation) drift(p models.Vec3) models.Vec3 {
	sc := float64(s.cfg.DriftScale)
	t := float64(s.elapsed) * float64(s.cfg.DriftSpeed)
	return models.Vec3{
		X: float32(s.noise.Eval3(float64(p.X)*sc, float64(p.Y)*sc, t)) * s.cfg.DriftStrength,
		Y: float32(s.noise.Eval3(float64(p.Y)*sc+100, float64(p.Z)*sc+100, t)) * s.cfg.DriftStrength,
		Z: float32(s.noise.Eval3(float64(p.Z)*sc+200, float64(p.X)*sc+200, t)) * s.cfg.DriftStrength,
	}
}
