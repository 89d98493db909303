package physics

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/TFMV/pulsegraph/models"
)

// glowTag marks every tween belonging to the current pulse so a new
// pulse can cancel the previous one wholesale. Cancellation (rather
// than letting stale fade-outs run) is what keeps a late callback from
// un-glowing an element the next pulse just selected.
const glowTag = "glow"

// Selection is the immutable result of one cluster traversal: the
// selected vertex indices in discovery order and the marked edge
// indices into Mesh.Edges.
type Selection struct {
	Vertices []int
	Edges    []int
}

// Pulse describes one triggered glow-propagation event.
type Pulse struct {
	ID        string
	Seed      int
	Selection Selection
}

// queued is one worklist entry of the bounded traversal.
type queued struct {
	vertex int
	depth  int
}

// SelectCluster expands a random cluster from the seed vertex using a
// bounded breadth-first traversal. Each unvisited neighbor of an
// expanded vertex is included with probability includeProb, subject to
// maxVertices total; vertices reached at maxDepth are selected but not
// expanded further. The edge to an already-selected neighbor is always
// marked, so the cluster's interior edges glow even when the traversal
// rediscovers them.
//
// SelectCluster mutates nothing: it is a pure function of the mesh
// topology, the seed, the bounds, and the random source.
func SelectCluster(m *models.Mesh, seed, maxVertices, maxDepth int, includeProb float64, rng *rand.Rand) Selection {
	if seed < 0 || seed >= len(m.Vertices) || maxVertices <= 0 {
		return Selection{}
	}

	selected := map[int]bool{seed: true}
	markedEdges := map[int]bool{}
	sel := Selection{Vertices: []int{seed}}

	work := []queued{{vertex: seed, depth: 0}}
	for len(work) > 0 {
		cur := work[0]
		work = work[1:]

		for _, nb := range m.Vertices[cur.vertex].Connections {
			edgeIdx, ok := m.EdgeIndexBetween(cur.vertex, nb)
			if !ok {
				continue
			}

			if selected[nb] {
				if !markedEdges[edgeIdx] {
					markedEdges[edgeIdx] = true
					sel.Edges = append(sel.Edges, edgeIdx)
				}
				continue
			}
			if len(sel.Vertices) >= maxVertices {
				continue
			}
			if rng.Float64() > includeProb {
				continue
			}

			selected[nb] = true
			sel.Vertices = append(sel.Vertices, nb)
			if !markedEdges[edgeIdx] {
				markedEdges[edgeIdx] = true
				sel.Edges = append(sel.Edges, edgeIdx)
			}
			if cur.depth+1 < maxDepth {
				work = append(work, queued{vertex: nb, depth: cur.depth + 1})
			}
		}
	}

	return sel
}

// TriggerPulse starts a new glow pulse: it cancels any tween left from
// the previous pulse, clears all glow state, selects a cluster from a
// uniformly random seed vertex, and animates every selected element's
// intensity 0->1 ease-out then 1->0 ease-in, each half taking half of
// PulseDuration. Elements animate independently; there is no barrier
// across the cluster.
func (s *Simulation) TriggerPulse() *Pulse {
	s.anim.CancelTag(glowTag)
	s.Mesh.ResetGlow()

	seed := s.rng.Intn(len(s.Mesh.Vertices))
	size := s.cfg.PulseMinSize + s.rng.Intn(s.cfg.PulseMaxSize-s.cfg.PulseMinSize+1)
	sel := SelectCluster(s.Mesh, seed, size, s.cfg.PulseMaxDepth, s.cfg.PulseIncludeProb, s.rng)

	half := s.cfg.PulseDuration / 2
	for _, vi := range sel.Vertices {
		v := &s.Mesh.Vertices[vi]
		v.Glowing = true
		s.anim.Add(s.glowTween(&v.GlowIntensity, &v.Glowing, half))
	}
	for _, ei := range sel.Edges {
		e := &s.Mesh.Edges[ei]
		e.Glowing = true
		s.anim.Add(s.glowTween(&e.GlowIntensity, &e.Glowing, half))
	}

	return &Pulse{
		ID:        uuid.New().String(),
		Seed:      seed,
		Selection: sel,
	}
}

// glowTween chains the fade-in and fade-out halves of one element's
// pulse and clears its glowing flag when the fade-out completes.
func (s *Simulation) glowTween(intensity *float32, glowing *bool, half float32) *Tween {
	return FloatTween(glowTag, intensity, 0, 1, half, EaseOutQuad, func() {
		s.anim.Add(FloatTween(glowTag, intensity, 1, 0, half, EaseInQuad, func() {
			*glowing = false
			*intensity = 0
		}))
	})
}

// NextPulseDelay returns the randomized wait before the next pulse,
// uniform between PulseMinDelay and PulseMaxDelay.
func (s *Simulation) NextPulseDelay() time.Duration {
	span := s.cfg.PulseMaxDelay - s.cfg.PulseMinDelay
	seconds := s.cfg.PulseMinDelay + s.rng.Float32()*span
	return time.Duration(float64(seconds) * float64(time.Second))
}
