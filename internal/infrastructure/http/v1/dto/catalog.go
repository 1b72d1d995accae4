package dto

import "statgate/internal/domain/catalog"

// CategoryResponse contains one navigation category.
type CategoryResponse struct {
	Code      string   `json:"code"`
	Label     string   `json:"label"`
	Parent    string   `json:"parent,omitempty"`
	Children  []string `json:"children,omitempty"`
	Dataflows int      `json:"dataflows"`
}

// FromCategory creates CategoryResponse from catalog.Category.
func FromCategory(c catalog.Category) CategoryResponse {
	return CategoryResponse{
		Code:      c.Code,
		Label:     c.Label,
		Parent:    c.Parent,
		Children:  c.Children,
		Dataflows: len(c.Dataflows),
	}
}

// CategoryListResponse wraps a category list.
type CategoryListResponse struct {
	Count int                `json:"count"`
	Items []CategoryResponse `json:"items"`
}

// DataflowResponse contains one dataflow.
type DataflowResponse struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Category string `json:"category,omitempty"`
}

// FromDataflow creates DataflowResponse from catalog.Dataflow.
func FromDataflow(d catalog.Dataflow) DataflowResponse {
	return DataflowResponse{
		Code:     d.Code,
		Label:    d.Label,
		Category: d.CategoryCode,
	}
}

// DataflowListResponse wraps a dataflow list.
type DataflowListResponse struct {
	Count int                `json:"count"`
	Items []DataflowResponse `json:"items"`
}
