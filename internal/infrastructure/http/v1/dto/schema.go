package dto

import "statgate/internal/domain/schema"

// DimensionResponse contains one declared dimension.
type DimensionResponse struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Codes    int    `json:"codes"`
}

// FromDimension creates DimensionResponse from schema.Dimension.
func FromDimension(d schema.Dimension) DimensionResponse {
	return DimensionResponse{
		Name:     d.Name,
		Position: d.Position,
		Codes:    len(d.Codelist),
	}
}

// StructureResponse describes a dataflow's full structure definition.
type StructureResponse struct {
	Dataflow   string              `json:"dataflow"`
	Dimensions []DimensionResponse `json:"dimensions"`
	Measures   []string            `json:"measures,omitempty"`
	Attributes []string            `json:"attributes,omitempty"`
}

// FromStructure creates StructureResponse from schema.Structure.
func FromStructure(st *schema.Structure) StructureResponse {
	dims := make([]DimensionResponse, len(st.Dimensions))
	for i, d := range st.Dimensions {
		dims[i] = FromDimension(d)
	}
	return StructureResponse{
		Dataflow:   st.DataflowCode,
		Dimensions: dims,
		Measures:   st.Measures,
		Attributes: st.Attributes,
	}
}

// ConstraintResponse carries the dataflow's permitted-value restrictions,
// dimension name to permitted codes. An empty mapping means unrestricted.
type ConstraintResponse struct {
	Dataflow   string              `json:"dataflow"`
	Dimensions map[string][]string `json:"dimensions"`
}
