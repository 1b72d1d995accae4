// Package catalog provides the category/dataflow layer of the statistical
// catalog: the hierarchy analysts browse before they know any identifier.
package catalog

// UnclassifiedCode is the sentinel category for dataflows the remote scheme
// does not place anywhere. The category graph stays a forest: every dataflow
// belongs to exactly one category after a snapshot is built.
const UnclassifiedCode = "UNCLASSIFIED"

// Category is one node of the category scheme.
type Category struct {
	// Code is the scheme-unique identifier (e.g. "07")
	Code string `json:"code"`

	// Label is the display name (e.g. "Exchange rates")
	Label string `json:"label"`

	// Parent is the parent category code, empty for top-level categories
	Parent string `json:"parent,omitempty"`

	// Children holds subcategory codes in catalog-declared order
	Children []string `json:"children,omitempty"`

	// Dataflows holds member dataflow codes in catalog-declared order
	Dataflows []string `json:"dataflows,omitempty"`
}

// IsRoot returns true if the category has no parent.
func (c *Category) IsRoot() bool {
	return c.Parent == ""
}

// Dataflow is an independently queryable dataset, identified by a short code.
// Immutable within a session: a fresh snapshot replaces the whole catalog.
type Dataflow struct {
	// Code is the catalog-unique identifier (e.g. "EXR")
	Code string `json:"code"`

	// Label is the display name (e.g. "Exchange Rates")
	Label string `json:"label"`

	// CategoryCode is the owning category, UnclassifiedCode if the scheme
	// declares none
	CategoryCode string `json:"categoryCode"`
}

// Snapshot is one materialization of the remote catalog description.
type Snapshot struct {
	// Categories in catalog-declared order, top-level first
	Categories []Category

	// Dataflows keyed by code
	Dataflows map[string]Dataflow
}
