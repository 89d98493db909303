package models

import (
	"fmt"
)

// VertexFilter is a function type used to filter vertices in queries.
type VertexFilter func(v *Vertex) bool

// EdgeFilter is a function type used to filter edges in queries.
type EdgeFilter func(e *Edge) bool

// EdgeBetween returns the edge joining vertices i and j, if one exists.
func (m *Mesh) EdgeBetween(i, j int) (*Edge, bool) {
	idx, ok := m.edgeIndex[edgeKey(i, j)]
	if !ok {
		return nil, false
	}
	return &m.Edges[idx], true
}

// EdgeIndexBetween returns the index into Edges of the edge joining
// vertices i and j, if one exists.
func (m *Mesh) EdgeIndexBetween(i, j int) (int, bool) {
	idx, ok := m.edgeIndex[edgeKey(i, j)]
	return idx, ok
}

// EdgesAt returns the indices of all edges incident to vertex i.
func (m *Mesh) EdgesAt(i int) []int {
	var result []int
	for _, j := range m.Vertices[i].Connections {
		if idx, ok := m.edgeIndex[edgeKey(i, j)]; ok {
			result = append(result, idx)
		}
	}
	return result
}

// Degree returns the number of connections recorded for vertex i.
func (m *Mesh) Degree(i int) (int, error) {
	if i < 0 || i >= len(m.Vertices) {
		return 0, fmt.Errorf("vertex %d out of range [0, %d)", i, len(m.Vertices))
	}
	return len(m.Vertices[i].Connections), nil
}

// FilterVertices returns vertex indices that match the provided filter.
func (m *Mesh) FilterVertices(filter VertexFilter) []int {
	var result []int
	for i := range m.Vertices {
		if filter(&m.Vertices[i]) {
			result = append(result, i)
		}
	}
	return result
}

// FilterEdges returns edge indices that match the provided filter.
func (m *Mesh) FilterEdges(filter EdgeFilter) []int {
	var result []int
	for i := range m.Edges {
		if filter(&m.Edges[i]) {
			result = append(result, i)
		}
	}
	return result
}

// GlowingVertices returns the indices of all currently glowing vertices.
func (m *Mesh) GlowingVertices() []int {
	return m.FilterVertices(func(v *Vertex) bool { return v.Glowing })
}

// GlowingEdges returns the indices of all currently glowing edges.
func (m *Mesh) GlowingEdges() []int {
	return m.FilterEdges(func(e *Edge) bool { return e.Glowing })
}
