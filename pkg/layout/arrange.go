package layout

import (
	"sort"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// Arrange spacing in canvas units. ColumnSpacing matches the trigger
// template, so arranging a template chain leaves it where it was built.
const (
	ColumnSpacing = workflow.TemplateSpacing
	RowGap        = 40.0
)

const arrangePasses = 4

// Arrange lays nodes out in left-to-right columns by connection depth and
// returns the new position of every node. Nodes without incoming
// connections start the first column; every other node sits one column
// right of its deepest predecessor. Nodes on a cycle share the column after
// the last, and notes get a final column of their own. Within a column,
// nodes are ordered by the mean row of their neighbours to reduce
// crossings. The first column's top-left corner is origin.
func Arrange(nodes []workflow.Node, conns []workflow.Connection, origin geometry.Point) map[string]geometry.Point {
	g := newDigraph(nodes, workflow.LiveConnections(nodes, conns))

	columns := g.columns()
	for range arrangePasses {
		g.reorder(columns)
	}

	positions := make(map[string]geometry.Point, len(nodes))
	for c, col := range columns {
		x := origin.X + float64(c)*ColumnSpacing
		y := origin.Y
		for _, i := range col {
			positions[nodes[i].ID] = geometry.Pt(x, y)
			y += Height(nodes[i]) + RowGap
		}
	}
	return positions
}

// digraph is the deduplicated adjacency of a node collection, by index.
type digraph struct {
	nodes []workflow.Node
	out   [][]int
	in    [][]int
}

func newDigraph(nodes []workflow.Node, conns []workflow.Connection) *digraph {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; !dup {
			index[n.ID] = i
		}
	}

	g := &digraph{
		nodes: nodes,
		out:   make([][]int, len(nodes)),
		in:    make([][]int, len(nodes)),
	}
	seen := make(map[[2]int]bool)
	for _, c := range conns {
		s, t := index[c.SourceID], index[c.TargetID]
		edge := [2]int{s, t}
		if s == t || seen[edge] {
			continue
		}
		seen[edge] = true
		g.out[s] = append(g.out[s], t)
		g.in[t] = append(g.in[t], s)
	}
	return g
}

// columns assigns each node a column, longest path first, and groups
// node indexes by column in collection order. Empty columns are dropped.
func (g *digraph) columns() [][]int {
	n := len(g.nodes)
	col := make([]int, n)
	indeg := make([]int, n)
	done := make([]bool, n)

	var queue []int
	for i, node := range g.nodes {
		indeg[i] = len(g.in[i])
		if node.Type.Connectable() && indeg[i] == 0 {
			queue = append(queue, i)
		}
	}

	last := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		done[i] = true
		last = max(last, col[i])
		for _, j := range g.out[i] {
			col[j] = max(col[j], col[i]+1)
			if indeg[j]--; indeg[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	// Cycle members never reach zero in-degree.
	for i, node := range g.nodes {
		if node.Type.Connectable() && !done[i] {
			col[i] = last + 1
		}
	}
	for i, node := range g.nodes {
		if !node.Type.Connectable() {
			col[i] = last + 2
		}
	}

	grouped := make([][]int, last+3)
	for i := range g.nodes {
		grouped[col[i]] = append(grouped[col[i]], i)
	}
	columns := grouped[:0]
	for _, c := range grouped {
		if len(c) > 0 {
			columns = append(columns, c)
		}
	}
	return columns
}

// reorder runs one barycentre pass: left to right by predecessors, then
// right to left by successors. Ties keep their current order.
func (g *digraph) reorder(columns [][]int) {
	row := make([]float64, len(g.nodes))
	for _, col := range columns {
		for r, i := range col {
			row[i] = float64(r)
		}
	}

	sortBy := func(col []int, neighbours [][]int) {
		bary := make(map[int]float64, len(col))
		for _, i := range col {
			bary[i] = row[i]
			if len(neighbours[i]) > 0 {
				sum := 0.0
				for _, j := range neighbours[i] {
					sum += row[j]
				}
				bary[i] = sum / float64(len(neighbours[i]))
			}
		}
		sort.SliceStable(col, func(a, b int) bool {
			return bary[col[a]] < bary[col[b]]
		})
		for r, i := range col {
			row[i] = float64(r)
		}
	}

	for c := 1; c < len(columns); c++ {
		sortBy(columns[c], g.in)
	}
	for c := len(columns) - 2; c >= 0; c-- {
		sortBy(columns[c], g.out)
	}
}
