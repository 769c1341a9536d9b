package reduce

// disjointSet is a union-find over dense point indices. The representative
// of a class is always its lowest index.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{parent: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

// Find returns the representative of x, compressing the path behind it.
func (d *disjointSet) Find(x int) int {
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[x] != root {
		d.parent[x], x = root, d.parent[x]
	}
	return root
}

// Union merges the classes of a and b. It returns the surviving
// representative and false when both were already in the same class.
func (d *disjointSet) Union(a, b int) (int, bool) {
	ra, rb := d.Find(a), d.Find(b)
	if ra == rb {
		return ra, false
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	return ra, true
}
