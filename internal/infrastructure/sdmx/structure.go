package sdmx

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"statgate/internal/core/apperror"
	"statgate/internal/domain/catalog"
	"statgate/internal/domain/schema"
)

// structureDocument is the SDMX-JSON structure message, narrowed to the
// fields the catalog model consumes.
type structureDocument struct {
	Data struct {
		CategorySchemes    []jsonCategoryScheme `json:"categorySchemes"`
		Categorisations    []jsonCategorisation `json:"categorisations"`
		Dataflows          []jsonDataflow       `json:"dataflows"`
		DataStructures     []jsonDataStructure  `json:"dataStructures"`
		Codelists          []jsonCodelist       `json:"codelists"`
		ContentConstraints []jsonConstraint     `json:"contentConstraints"`
	} `json:"data"`
}

type jsonCategoryScheme struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Categories []jsonCategory `json:"categories"`
}

type jsonCategory struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Categories []jsonCategory `json:"categories"`
}

// jsonCategorisation links a dataflow (source) to a category (target).
type jsonCategorisation struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type jsonDataflow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Structure string `json:"structure"`
}

type jsonDataStructure struct {
	ID         string `json:"id"`
	Components struct {
		DimensionList struct {
			Dimensions []jsonDimension `json:"dimensions"`
		} `json:"dimensionList"`
		MeasureList struct {
			PrimaryMeasure *jsonComponent  `json:"primaryMeasure"`
			Measures       []jsonComponent `json:"measures"`
		} `json:"measureList"`
		AttributeList struct {
			Attributes []jsonComponent `json:"attributes"`
		} `json:"attributeList"`
	} `json:"dataStructureComponents"`
}

type jsonDimension struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	Enumeration string `json:"enumeration"`
}

type jsonComponent struct {
	ID string `json:"id"`
}

type jsonCodelist struct {
	ID    string `json:"id"`
	Codes []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"codes"`
}

type jsonConstraint struct {
	ID          string `json:"id"`
	CubeRegions []struct {
		IsIncluded bool `json:"isIncluded"`
		KeyValues  []struct {
			ID     string   `json:"id"`
			Values []string `json:"values"`
		} `json:"keyValues"`
	} `json:"cubeRegions"`
}

// FetchCatalog materializes the whole category/dataflow layer in one
// structure request.
func (c *Client) FetchCatalog(ctx context.Context) (*catalog.Snapshot, error) {
	doc, err := c.fetchStructure(ctx, "categoryscheme", "all", "all")
	if err != nil {
		return nil, err
	}

	snap := &catalog.Snapshot{
		Dataflows: make(map[string]catalog.Dataflow, len(doc.Data.Dataflows)),
	}

	for _, scheme := range doc.Data.CategorySchemes {
		flattenCategories(snap, scheme.Categories, "")
	}

	categoryOf := make(map[string]string, len(doc.Data.Categorisations))
	for _, cat := range doc.Data.Categorisations {
		categoryOf[cat.Source] = cat.Target
	}
	byCode := make(map[string]int, len(snap.Categories))
	for i, cat := range snap.Categories {
		byCode[cat.Code] = i
	}

	for _, df := range doc.Data.Dataflows {
		flow := catalog.Dataflow{
			Code:         df.ID,
			Label:        df.Name,
			CategoryCode: categoryOf[df.ID],
		}
		snap.Dataflows[flow.Code] = flow
		if i, ok := byCode[flow.CategoryCode]; ok {
			snap.Categories[i].Dataflows = append(snap.Categories[i].Dataflows, flow.Code)
		}
	}

	return snap, nil
}

// flattenCategories appends the category tree in declared (depth-first)
// order, recording parent/child links.
func flattenCategories(snap *catalog.Snapshot, cats []jsonCategory, parent string) {
	for _, jc := range cats {
		cat := catalog.Category{
			Code:   jc.ID,
			Label:  jc.Name,
			Parent: parent,
		}
		for _, child := range jc.Categories {
			cat.Children = append(cat.Children, child.ID)
		}
		snap.Categories = append(snap.Categories, cat)
		flattenCategories(snap, jc.Categories, jc.ID)
	}
}

// FetchStructure retrieves one dataflow's structure definition with all
// referenced artefacts (DSD, codelists, content constraints).
func (c *Client) FetchStructure(ctx context.Context, dataflowCode string) (*schema.Structure, error) {
	doc, err := c.fetchStructure(ctx, "dataflow", dataflowCode, "all")
	if err != nil {
		return nil, err
	}

	var flow *jsonDataflow
	for i := range doc.Data.Dataflows {
		if doc.Data.Dataflows[i].ID == dataflowCode {
			flow = &doc.Data.Dataflows[i]
			break
		}
	}
	if flow == nil {
		return nil, apperror.NewNotFound("dataflow", dataflowCode)
	}

	var dsd *jsonDataStructure
	for i := range doc.Data.DataStructures {
		if doc.Data.DataStructures[i].ID == flow.Structure || flow.Structure == "" {
			dsd = &doc.Data.DataStructures[i]
			break
		}
	}
	if dsd == nil {
		return nil, apperror.NewTransport("structure message carries no data structure definition", nil).
			WithDetail("dataflow", dataflowCode)
	}

	codelists := make(map[string]schema.Codelist, len(doc.Data.Codelists))
	for _, cl := range doc.Data.Codelists {
		values := make(schema.Codelist, len(cl.Codes))
		for _, code := range cl.Codes {
			values[code.ID] = code.Name
		}
		codelists[cl.ID] = values
	}

	st := &schema.Structure{DataflowCode: dataflowCode}
	for _, jd := range dsd.Components.DimensionList.Dimensions {
		st.Dimensions = append(st.Dimensions, schema.Dimension{
			Name:     jd.ID,
			Position: jd.Position,
			Codelist: codelists[jd.Enumeration],
		})
	}
	sortDimensions(st.Dimensions)

	if pm := dsd.Components.MeasureList.PrimaryMeasure; pm != nil {
		st.Measures = append(st.Measures, pm.ID)
	}
	for _, m := range dsd.Components.MeasureList.Measures {
		st.Measures = append(st.Measures, m.ID)
	}
	for _, a := range dsd.Components.AttributeList.Attributes {
		st.Attributes = append(st.Attributes, a.ID)
	}

	st.Constraint = mergeConstraints(doc.Data.ContentConstraints)
	return st, nil
}

// mergeConstraints collapses the included cube regions of every content
// constraint into one dimension→permitted-values table. A message with no
// constraints yields an empty table, which permits the full codelists.
func mergeConstraints(constraints []jsonConstraint) schema.Constraint {
	merged := schema.Constraint{}
	for _, jc := range constraints {
		for _, region := range jc.CubeRegions {
			if !region.IsIncluded {
				continue
			}
			for _, kv := range region.KeyValues {
				merged[kv.ID] = append(merged[kv.ID], kv.Values...)
			}
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

func sortDimensions(dims []schema.Dimension) {
	for i := 1; i < len(dims); i++ {
		for j := i; j > 0 && dims[j].Position < dims[j-1].Position; j-- {
			dims[j], dims[j-1] = dims[j-1], dims[j]
		}
	}
}

// fetchStructure performs one structure request and decodes the SDMX-JSON
// message.
func (c *Client) fetchStructure(ctx context.Context, kind, id, references string) (*structureDocument, error) {
	ctx, span := tracer.Start(ctx, "sdmx.structure",
		trace.WithAttributes(
			attribute.String("sdmx.resource", kind),
			attribute.String("sdmx.id", id),
		))
	defer span.End()

	reqURL := fmt.Sprintf("%s/service/%s/%s/%s?references=%s&format=sdmx-json",
		c.endpoint, kind, c.agency, id, references)
	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var doc structureDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperror.NewTransport("malformed structure message", err).
			WithDetail("resource", kind).
			WithDetail("id", id)
	}
	return &doc, nil
}
