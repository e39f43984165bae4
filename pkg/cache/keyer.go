package cache

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey is the key of a stored layout, for read-through caching of
	// remote stores.
	LayoutKey(name string) string

	// ArtifactKey is the key of a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Style    string `json:"style,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Edges    bool   `json:"edges,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
	NoLabels bool   `json:"no_labels,omitempty"`
	Selected int    `json:"selected,omitempty"` // region index plus one
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<name>".
func (DefaultKeyer) LayoutKey(name string) string {
	return "layout:" + name
}

// ArtifactKey hashes the layout hash together with the options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
