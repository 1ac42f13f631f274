package cache

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// DocumentKey identifies a document's content.
	DocumentKey(docHash string) string

	// LayoutKey identifies a computed layout of a document.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists the options that change a layout.
type LayoutKeyOpts struct {
	RootLabel         string   `json:"root_label"`
	Collapsed         []string `json:"collapsed,omitempty"` // sorted pathKeys
	HorizontalSpacing float64  `json:"h"`
	VerticalSpacing   float64  `json:"v"`
	NodeWidth         float64  `json:"nw"`
	NodeHeight        float64  `json:"nh"`
	Margin            float64  `json:"m"`
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Engine      string  `json:"engine,omitempty"`
	Theme       string  `json:"theme,omitempty"`
	Search      string  `json:"search,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey returns "document:<hash>".
func (DefaultKeyer) DocumentKey(docHash string) string {
	return "document:" + docHash
}

// LayoutKey hashes the document hash with the layout options.
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey hashes the layout hash with the artifact options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
