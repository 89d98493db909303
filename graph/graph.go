// Package graph constructs the randomized vertex cloud and its
// near-neighbor connectivity. Construction runs once at startup; the
// resulting mesh is owned by the simulation for the life of the view.
package graph

import (
	"math/rand"
	"sort"

	"github.com/TFMV/pulsegraph/models"
)

// Build creates a mesh of cfg.VertexCount vertices scattered uniformly
// inside an ellipsoid (full CloudSpread in X and Y, half in Z) and
// connects each vertex to its MinConnections..MinConnections+1 nearest
// not-yet-connected vertices by Euclidean distance. Connections are
// symmetric and emit exactly one edge per unordered pair. The graph may
// end up split into components; no repair is attempted.
//
// Build is deterministic for a fixed rng: re-running with a different
// seed yields a structurally similar but numerically different mesh.
func Build(cfg *models.SceneConfig, rng *rand.Rand) *models.Mesh {
	mesh := models.NewMesh(cfg.VertexCount)

	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		v.Position = randomCloudPoint(cfg.CloudSpread, rng)
		v.InitialPosition = v.Position
		v.TargetPosition = v.Position
	}

	connectNearest(mesh, cfg.MinConnections, rng)
	return mesh
}

// randomCloudPoint samples a uniform point inside an ellipsoid with
// semi-axes (spread, spread, spread/2) via rejection from the unit ball.
func randomCloudPoint(spread float32, rng *rand.Rand) models.Vec3 {
	for {
		x := rng.Float32()*2 - 1
		y := rng.Float32()*2 - 1
		z := rng.Float32()*2 - 1
		if x*x+y*y+z*z > 1 {
			continue
		}
		return models.Vec3{
			X: x * spread,
			Y: y * spread,
			Z: z * spread * 0.5,
		}
	}
}

// connectNearest wires each vertex to its k..k+1 nearest vertices that
// it is not already connected to, in ascending distance order. Ties
// break on first-found, which is index order after the sort.
func connectNearest(mesh *models.Mesh, k int, rng *rand.Rand) {
	n := len(mesh.Vertices)
	order := make([]int, n)

	for i := 0; i < n; i++ {
		want := k + rng.Intn(2)

		for j := range order {
			order[j] = j
		}
		from := mesh.Vertices[i].Position
		sort.Slice(order, func(a, b int) bool {
			return from.DistanceTo(mesh.Vertices[order[a]].Position) <
				from.DistanceTo(mesh.Vertices[order[b]].Position)
		})

		made := 0
		for _, j := range order {
			if made >= want {
				break
			}
			if j == i || mesh.Connected(i, j) {
				continue
			}
			// Indices are validated above, so Connect cannot fail here.
			if err := mesh.Connect(i, j); err == nil {
				made++
			}
		}
	}
}
