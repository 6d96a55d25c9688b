// A* shortest-path search over the walkability graph. Edge cost and
// heuristic are both Euclidean distance between projected world positions,
// so the heuristic is admissible and the search optimal.
package nav

import (
	"container/heap"
	"math"

	"github.com/talgya/hexpath/internal/hexgrid"
)

// FindPath returns the ordered coordinate sequence from origin to
// destination inclusive, or nil when either endpoint is missing from the
// graph, the destination is not walkable, or no connecting path exists.
// A same-cell query returns the single-element path without searching.
func (g *Graph) FindPath(from, to hexgrid.HexCoord) []hexgrid.HexCoord {
	if _, ok := g.vertices[from]; !ok {
		return nil
	}
	toV, ok := g.vertices[to]
	if !ok {
		return nil
	}
	if !g.IsPassable(to) {
		return nil
	}
	if from == to {
		return []hexgrid.HexCoord{from}
	}

	open := &searchQueue{}
	heap.Init(open)
	heap.Push(open, &searchNode{coord: from, priority: 0})

	cameFrom := map[hexgrid.HexCoord]hexgrid.HexCoord{}
	gScore := map[hexgrid.HexCoord]float64{from: 0}

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if current.coord == to {
			return reconstruct(cameFrom, from, to)
		}

		cv := g.vertices[current.coord]
		for _, n := range cv.adj {
			nv := g.vertices[n]
			tentative := gScore[current.coord] + euclid(cv.pos, nv.pos)
			if score, ok := gScore[n]; ok && tentative >= score {
				continue
			}
			cameFrom[n] = current.coord
			gScore[n] = tentative
			heap.Push(open, &searchNode{coord: n, priority: tentative + euclid(nv.pos, toV.pos)})
		}
	}

	return nil
}

func euclid(a, b hexgrid.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func reconstruct(cameFrom map[hexgrid.HexCoord]hexgrid.HexCoord, from, to hexgrid.HexCoord) []hexgrid.HexCoord {
	path := []hexgrid.HexCoord{to}
	current := to
	for current != from {
		current = cameFrom[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type searchNode struct {
	coord    hexgrid.HexCoord
	priority float64
	index    int
}

type searchQueue []*searchNode

func (q searchQueue) Len() int           { return len(q) }
func (q searchQueue) Less(i, j int) bool { return q[i].priority < q[j].priority }
func (q searchQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *searchQueue) Push(x any) {
	item := x.(*searchNode)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *searchQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}
