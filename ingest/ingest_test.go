package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONProcessor_StringAndIndexEndpoints(t *testing.T) {
	data := []byte(`{
		"name": "demo",
		"nodes": [{"id": "a", "label": "Alpha"}, {"id": "b"}, {"id": 3}],
		"links": [{"source": "a", "target": "b", "weight": 2}],
		"edges": [{"source": 1, "target": 2}]
	}`)

	graph, err := NewJSONProcessor(nil).ProcessData(data)
	require.NoError(t, err)

	assert.Equal(t, "demo", graph.Name)
	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, "Alpha", graph.Nodes[0].Label)
	assert.Equal(t, "b", graph.Nodes[1].Label)
	assert.Equal(t, "3", graph.Nodes[2].ID)

	require.Len(t, graph.Links, 2)
	assert.Equal(t, "a", graph.Links[0].Source.Key)
	assert.Equal(t, "b", graph.Links[0].Target.Key)
	assert.False(t, graph.Links[0].Source.Resolved())
	assert.Equal(t, 2.0, graph.Links[0].Weight)
	assert.Equal(t, "b", graph.Links[1].Source.Key)
	assert.Equal(t, "3", graph.Links[1].Target.Key)
	assert.Equal(t, 1.0, graph.Links[1].Weight)
}

func TestJSONProcessor_Errors(t *testing.T) {
	p := NewJSONProcessor(nil)

	_, err := p.ProcessData([]byte(`{"nodes": [`))
	assert.ErrorContains(t, err, "error parsing JSON")

	_, err = p.ProcessData([]byte(`{"nodes": [{"id": "a"}], "links": [{"source": 0, "target": 5}]}`))
	assert.ErrorContains(t, err, "out of range")

	_, err = p.ProcessData([]byte(`{"nodes": [{"id": "a"}], "links": [{"target": "a"}]}`))
	assert.ErrorContains(t, err, "missing endpoint")
}

func TestCSVProcessor_CreatesNodesOnFirstMention(t *testing.T) {
	data := []byte("from,to,weight\na,b,2.5\nb,c,oops\na,c,1\n")

	graph, err := NewCSVProcessor(nil).ProcessData(data)
	require.NoError(t, err)

	require.Len(t, graph.Nodes, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{graph.Nodes[0].ID, graph.Nodes[1].ID, graph.Nodes[2].ID})
	require.Len(t, graph.Links, 3)
	assert.Equal(t, 2.5, graph.Links[0].Weight)
	assert.Equal(t, 1.0, graph.Links[1].Weight, "unparseable weights fall back to 1")
	assert.Equal(t, "a", graph.Links[2].Source.Key)
	assert.Equal(t, "c", graph.Links[2].Target.Key)
}

func TestCSVProcessor_RequiresColumns(t *testing.T) {
	_, err := NewCSVProcessor(nil).ProcessData([]byte("name,value\nx,1\n"))
	assert.ErrorContains(t, err, "source and target")
}

func TestForFile(t *testing.T) {
	p, err := ForFile(".JSON", nil)
	require.NoError(t, err)
	assert.Equal(t, "JSON Processor", p.GetName())

	p, err = ForFile(".csv", nil)
	require.NoError(t, err)
	assert.Equal(t, "CSV Processor", p.GetName())

	_, err = ForFile(".sql", nil)
	assert.ErrorContains(t, err, "unsupported file type")
}
