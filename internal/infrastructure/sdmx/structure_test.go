package sdmx

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"statgate/internal/core/apperror"
)

const categorySchemeJSON = `{
  "data": {
    "categorySchemes": [
      {
        "id": "MOBILE_NAVI",
        "name": "Economic concepts",
        "categories": [
          {
            "id": "01",
            "name": "Monetary operations",
            "categories": [
              {"id": "01.1", "name": "Key interest rates"}
            ]
          },
          {"id": "07", "name": "Exchange rates"}
        ]
      }
    ],
    "categorisations": [
      {"source": "EXR", "target": "07"}
    ],
    "dataflows": [
      {"id": "EXR", "name": "Exchange Rates", "structure": "ECB_EXR1"},
      {"id": "XYZ", "name": "Orphan flow", "structure": "ECB_XYZ1"}
    ]
  }
}`

const dataflowJSON = `{
  "data": {
    "dataflows": [
      {"id": "EXR", "name": "Exchange Rates", "structure": "ECB_EXR1"}
    ],
    "dataStructures": [
      {
        "id": "ECB_EXR1",
        "dataStructureComponents": {
          "dimensionList": {
            "dimensions": [
              {"id": "CURRENCY", "position": 1, "enumeration": "CL_CURRENCY"},
              {"id": "FREQ", "position": 0, "enumeration": "CL_FREQ"}
            ]
          },
          "measureList": {
            "primaryMeasure": {"id": "OBS_VALUE"}
          },
          "attributeList": {
            "attributes": [
              {"id": "TITLE"},
              {"id": "OBS_STATUS"}
            ]
          }
        }
      }
    ],
    "codelists": [
      {"id": "CL_FREQ", "codes": [{"id": "D", "name": "Daily"}, {"id": "M", "name": "Monthly"}]},
      {"id": "CL_CURRENCY", "codes": [{"id": "USD", "name": "US dollar"}, {"id": "GBP", "name": "Pound sterling"}]}
    ],
    "contentConstraints": [
      {
        "id": "EXR_CONSTRAINTS",
        "cubeRegions": [
          {
            "isIncluded": true,
            "keyValues": [
              {"id": "FREQ", "values": ["D"]}
            ]
          },
          {
            "isIncluded": false,
            "keyValues": [
              {"id": "CURRENCY", "values": ["XAU"]}
            ]
          }
        ]
      }
    ]
  }
}`

func TestClient_FetchCatalog(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(categorySchemeJSON))
	})

	snap, err := client.FetchCatalog(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "/service/categoryscheme/ECB/all", gotPath)

	// depth-first flattening keeps declared order, children after parents
	assert.Len(t, snap.Categories, 3)
	assert.Equal(t, "01", snap.Categories[0].Code)
	assert.Equal(t, []string{"01.1"}, snap.Categories[0].Children)
	assert.Equal(t, "01.1", snap.Categories[1].Code)
	assert.Equal(t, "01", snap.Categories[1].Parent)
	assert.Equal(t, "07", snap.Categories[2].Code)

	assert.Len(t, snap.Dataflows, 2)
	assert.Equal(t, "07", snap.Dataflows["EXR"].CategoryCode)
	assert.Equal(t, []string{"EXR"}, snap.Categories[2].Dataflows)
	// no categorisation: left for the catalog layer to classify
	assert.Equal(t, "", snap.Dataflows["XYZ"].CategoryCode)
}

func TestClient_FetchStructure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/service/dataflow/ECB/EXR", r.URL.Path)
		_, _ = w.Write([]byte(dataflowJSON))
	})

	st, err := client.FetchStructure(context.Background(), "EXR")
	assert.NoError(t, err)
	assert.Equal(t, "EXR", st.DataflowCode)

	// dimensions sorted by position regardless of message order
	assert.Len(t, st.Dimensions, 2)
	assert.Equal(t, "FREQ", st.Dimensions[0].Name)
	assert.Equal(t, "CURRENCY", st.Dimensions[1].Name)
	assert.Equal(t, "Daily", st.Dimensions[0].Codelist["D"])

	assert.Equal(t, []string{"OBS_VALUE"}, st.Measures)
	assert.Equal(t, []string{"TITLE", "OBS_STATUS"}, st.Attributes)

	// only included cube regions count
	assert.True(t, st.Constraint.Declares("FREQ"))
	assert.True(t, st.Constraint.Permits("FREQ", "D"))
	assert.False(t, st.Constraint.Declares("CURRENCY"))
}

func TestClient_FetchStructure_FlowMissingFromMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"dataflows":[]}}`))
	})

	_, err := client.FetchStructure(context.Background(), "EXR")
	assert.True(t, apperror.IsNotFound(err))
}

func TestClient_FetchStructure_MalformedMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := client.FetchStructure(context.Background(), "EXR")
	assert.True(t, apperror.IsTransport(err))
}

func TestMergeConstraints_EmptyIsNil(t *testing.T) {
	assert.Nil(t, mergeConstraints(nil))
	assert.Nil(t, mergeConstraints([]jsonConstraint{{ID: "X"}}))
}
