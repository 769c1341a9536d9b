package cache

// ArtifactKeyOpts are the render inputs that distinguish artifacts of the
// same graph. Attrs is a hash of everything besides the graph that reaches
// the output, such as device attributes and the document name.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
	Attrs    string `json:"attrs,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ReduceKey is the key of the reduction of a snapshot.
	ReduceKey(snapshotHash string) string
	// ArtifactKey is the key of a rendered graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ReduceKey returns "reduce:<hash>".
func (DefaultKeyer) ReduceKey(snapshotHash string) string { return "reduce:" + snapshotHash }

// ArtifactKey hashes the graph hash together with the render options.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// ScopedKeyer prefixes the keys of another keyer, so that several
// configurations can share one backend without colliding.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "lab-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReduceKey returns the prefixed reduce key.
func (k *ScopedKeyer) ReduceKey(snapshotHash string) string {
	return k.prefix + k.inner.ReduceKey(snapshotHash)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
