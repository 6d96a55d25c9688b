package nav

import "github.com/talgya/hexpath/internal/hexgrid"

// vertex is one walkable-grid node: its coordinate, its projected world
// position (the metric space for search costs), and its adjacency list.
type vertex struct {
	coord hexgrid.HexCoord
	pos   hexgrid.Point
	adj   []hexgrid.HexCoord
}

// Graph is an undirected graph whose vertices are existing tiles and whose
// edges connect mutually walkable neighbors. Vertices are keyed structurally
// by coordinate, so any integer (q, r) is representable without collision.
type Graph struct {
	layout   hexgrid.Layout
	oracle   Oracle
	vertices map[hexgrid.HexCoord]*vertex
	edges    int
}

// NewGraph creates an empty graph using the given projection layout.
func NewGraph(layout hexgrid.Layout) *Graph {
	return &Graph{
		layout:   layout,
		vertices: make(map[hexgrid.HexCoord]*vertex),
	}
}

// Build clears all state and rebuilds the graph from the oracle: one vertex
// per existing tile, one edge per pair of mutually walkable neighbors.
func (g *Graph) Build(oracle Oracle) {
	g.oracle = oracle
	g.vertices = make(map[hexgrid.HexCoord]*vertex)
	g.edges = 0

	tiles := oracle.AllTiles()
	for _, t := range tiles {
		g.vertices[t.Coord] = &vertex{coord: t.Coord, pos: g.layout.ToWorld(t.Coord)}
	}
	for _, t := range tiles {
		if !t.Walkable {
			continue
		}
		v := g.vertices[t.Coord]
		for _, n := range t.Coord.Neighbors() {
			nv, ok := g.vertices[n]
			if !ok || !oracle.IsWalkable(n) {
				continue
			}
			g.connect(v, nv)
		}
	}
}

// Update re-evaluates a single hex after its passability changed: every edge
// touching its vertex is dropped, then the vertex is reconnected to each
// currently walkable neighbor (which also restores the neighbors' edges back
// to this hex). O(6) in edges touched, never a rebuild.
func (g *Graph) Update(hex hexgrid.HexCoord) {
	v, ok := g.vertices[hex]
	if !ok {
		return
	}

	for _, n := range v.adj {
		if nv, ok := g.vertices[n]; ok {
			nv.adj = removeCoord(nv.adj, hex)
		}
		g.edges--
	}
	v.adj = v.adj[:0]

	if g.oracle == nil || !g.oracle.IsWalkable(hex) {
		return
	}
	for _, n := range hex.Neighbors() {
		nv, ok := g.vertices[n]
		if !ok || !g.oracle.IsWalkable(n) {
			continue
		}
		g.connect(v, nv)
	}
}

// HasVertex reports whether the hex exists in the graph.
func (g *Graph) HasVertex(hex hexgrid.HexCoord) bool {
	_, ok := g.vertices[hex]
	return ok
}

// IsPassable reports whether the hex is currently walkable. Delegates to
// the oracle; false before Build.
func (g *Graph) IsPassable(hex hexgrid.HexCoord) bool {
	return g.oracle != nil && g.oracle.IsWalkable(hex)
}

// VertexCount returns the number of vertices in the graph.
func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of undirected edges in the graph.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// neighbors returns the adjacency list of the hex, or nil if absent.
func (g *Graph) neighbors(hex hexgrid.HexCoord) []hexgrid.HexCoord {
	if v, ok := g.vertices[hex]; ok {
		return v.adj
	}
	return nil
}

// connect adds the undirected edge a-b, at most once per pair.
func (g *Graph) connect(a, b *vertex) {
	if containsCoord(a.adj, b.coord) {
		return
	}
	a.adj = append(a.adj, b.coord)
	b.adj = append(b.adj, a.coord)
	g.edges++
}

func containsCoord(list []hexgrid.HexCoord, c hexgrid.HexCoord) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

func removeCoord(list []hexgrid.HexCoord, c hexgrid.HexCoord) []hexgrid.HexCoord {
	for i, x := range list {
		if x == c {
			list[i] = list[len(list)-1]
			return list[:len(list)-1]
		}
	}
	return list
}
