package reduce

// workingNode is an electrical node before numbering.
type workingNode struct {
	rep    int   // representative point index
	points []int // member point indices, ascending
	edges  []int // incident working edge indices, in device order
}

// merge unites the endpoints of every pending wire and returns the working
// nodes ordered by representative, plus the node index of every point.
func merge(c *classification) ([]workingNode, []int) {
	ds := newDisjointSet(len(c.points))
	for _, w := range c.wires {
		ds.Union(w.ends[0], w.ends[1])
	}

	nodeOf := make([]int, len(c.points))
	byRep := make(map[int]int)
	var nodes []workingNode
	for p := range c.points {
		rep := ds.Find(p)
		n, ok := byRep[rep]
		if !ok {
			n = len(nodes)
			byRep[rep] = n
			nodes = append(nodes, workingNode{rep: rep})
		}
		nodes[n].points = append(nodes[n].points, p)
		nodeOf[p] = n
	}
	return nodes, nodeOf
}
