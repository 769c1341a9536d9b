package reduce

// workingEdge is a device edge before numbering.
type workingEdge struct {
	dev    pending
	a, b   int // working node indices of the two anchors
	ta, tb int // working node indices under terminal 0 and terminal 1
}

func (e workingEdge) other(n int) int {
	if n == e.a {
		return e.b
	}
	return e.a
}

// buildEdges creates one edge per pending device and registers it with its
// endpoint nodes. It must run after every wire has been merged.
func buildEdges(c *classification, nodes []workingNode, nodeOf []int) []workingEdge {
	edges := make([]workingEdge, 0, len(c.devices))
	for _, d := range c.devices {
		e := workingEdge{
			dev: d,
			a:   nodeOf[d.ends[0]],
			b:   nodeOf[d.ends[1]],
			ta:  nodeOf[d.terms[0]],
			tb:  nodeOf[d.terms[1]],
		}
		idx := len(edges)
		edges = append(edges, e)
		nodes[e.a].edges = append(nodes[e.a].edges, idx)
		if e.b != e.a {
			nodes[e.b].edges = append(nodes[e.b].edges, idx)
		}
	}
	return edges
}
