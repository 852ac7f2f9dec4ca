package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AddLinkResolvesEndpoints(t *testing.T) {
	g := NewGraph("g")
	a := NewNode("a", "t", "A", nil)
	b := NewNode("b", "t", "B", nil)
	g.AddNode(a)
	g.AddNode(b)

	link := NewLink(ByKey("a"), ByKey("b"), "t", 1)
	require.NoError(t, g.AddLink(link))

	assert.Same(t, a, link.Source.Node)
	assert.Same(t, b, link.Target.Node)
	assert.Len(t, g.Links, 1)

	err := g.AddLink(NewLink(ByKey("a"), ByKey("zzz"), "t", 1))
	assert.ErrorContains(t, err, "target")
	err = g.AddLink(NewLink(ByKey(7), ByKey("a"), "t", 1))
	assert.ErrorContains(t, err, "not a node ID")
	assert.Len(t, g.Links, 1)
}

func TestGraph_RemoveNodeDropsIncidentLinks(t *testing.T) {
	g := NewGraph("g")
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(NewNode(id, "t", id, nil))
	}
	require.NoError(t, g.AddLink(NewLink(ByKey("a"), ByKey("b"), "t", 1)))
	require.NoError(t, g.AddLink(NewLink(ByKey("b"), ByKey("c"), "t", 1)))
	keep := NewLink(ByKey("a"), ByKey("c"), "t", 1)
	require.NoError(t, g.AddLink(keep))

	g.RemoveNode("b")

	assert.Len(t, g.Nodes, 2)
	require.Len(t, g.Links, 1)
	assert.Same(t, keep, g.Links[0])
	assert.Len(t, g.FindConnectedNodes("a"), 1)

	g.RemoveLink(keep.ID)
	assert.Empty(t, g.Links)
}

func TestEndpoint_JSON(t *testing.T) {
	n := NewNode("n1", "t", "N", nil)

	out, err := json.Marshal(struct {
		A Endpoint `json:"a"`
		B Endpoint `json:"b"`
	}{ByNode(n), ByKey(4)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"n1","b":4}`, string(out))

	var e Endpoint
	require.NoError(t, json.Unmarshal([]byte(`"x"`), &e))
	assert.Equal(t, "x", e.Key)
	assert.False(t, e.Resolved())
	assert.Equal(t, "x", e.String())
}

func TestNewNodeGeneratesID(t *testing.T) {
	a := NewNode("", "t", "", nil)
	b := NewNode("", "t", "", nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	a.VX, a.VY = 3, 4
	assert.Equal(t, 5.0, a.Speed())
}
