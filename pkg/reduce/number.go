package reduce

import "sort"

// numberNodes assigns node IDs in depth-first visitation order. Traversal
// starts at working node 0 and restarts at the lowest unvisited node until
// every node is labelled. Neighbours are explored in incident-edge order.
func numberNodes(nodes []workingNode, edges []workingEdge) []int {
	ids := make([]int, len(nodes))
	visited := make([]bool, len(nodes))
	next := 0
	var stack, nbrs []int

	for start := range nodes {
		if visited[start] {
			continue
		}
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[u] {
				continue
			}
			visited[u] = true
			ids[u] = next
			next++

			nbrs = nbrs[:0]
			for _, ei := range nodes[u].edges {
				if v := edges[ei].other(u); !visited[v] {
					nbrs = append(nbrs, v)
				}
			}
			for i := len(nbrs) - 1; i >= 0; i-- {
				stack = append(stack, nbrs[i])
			}
		}
	}
	return ids
}

// numbered is an edge with final endpoint IDs, From <= To.
type numbered struct {
	work     int // working edge index
	from, to int
}

// numberEdges orders edges by (from+to, to-from, device order). The
// returned slice is indexed by edge ID.
func numberEdges(edges []workingEdge, ids []int) []numbered {
	out := make([]numbered, len(edges))
	for i, e := range edges {
		from, to := ids[e.a], ids[e.b]
		if from > to {
			from, to = to, from
		}
		out[i] = numbered{work: i, from: from, to: to}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if sa, sb := a.from+a.to, b.from+b.to; sa != sb {
			return sa < sb
		}
		if da, db := a.to-a.from, b.to-b.from; da != db {
			return da < db
		}
		return edges[a.work].dev.order < edges[b.work].dev.order
	})
	return out
}
