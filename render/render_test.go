package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/TFMV/echolink/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) *models.Graph {
	t.Helper()
	g := models.NewGraph("sample")
	for i, id := range []string{"a", "b", "c"} {
		n := models.NewNode(id, "test", strings.ToUpper(id), nil)
		n.X, n.Y = float64(i*50), float64(i*25)
		g.AddNode(n)
	}
	require.NoError(t, g.AddLink(models.NewLink(models.ByKey("a"), models.ByKey("b"), "test", 1)))
	require.NoError(t, g.AddLink(models.NewLink(models.ByKey("b"), models.ByKey("c"), "test", 1)))
	return g
}

func TestSVGRenderer(t *testing.T) {
	out, err := (&SVGRenderer{}).Render(sampleGraph(t), NewDefaultOptions("svg"))
	require.NoError(t, err)

	svg := string(out)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.Equal(t, 2, strings.Count(svg, "<line "))
	assert.Equal(t, 3, strings.Count(svg, "<circle "))
	assert.Contains(t, svg, ">B</text>")
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
}

func TestASCIIRenderer(t *testing.T) {
	opts := NewDefaultOptions("ascii")
	out, err := (&ASCIIRenderer{}).Render(sampleGraph(t), opts)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	require.Len(t, lines, 30)
	for _, line := range lines {
		assert.Equal(t, 80, len([]rune(line)))
	}
	assert.True(t, strings.HasPrefix(lines[0], "+-"))
	assert.Contains(t, string(out), "O")
	assert.Contains(t, string(out), ".")
}

func TestJSONRenderer(t *testing.T) {
	g := sampleGraph(t)
	out, err := (&JSONRenderer{}).Render(g, NewDefaultOptions("json"))
	require.NoError(t, err)

	var decoded struct {
		Nodes []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
		} `json:"nodes"`
		Links []struct {
			Source string  `json:"source"`
			Target string  `json:"target"`
			Length float64 `json:"length"`
		} `json:"links"`
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))

	require.Len(t, decoded.Nodes, 3)
	assert.Equal(t, 50.0, decoded.Nodes[1].X)
	require.Len(t, decoded.Links, 2)
	assert.Equal(t, "a", decoded.Links[0].Source)
	assert.Equal(t, "b", decoded.Links[0].Target)
	assert.InDelta(t, 55.9, decoded.Links[0].Length, 0.1)
	assert.Equal(t, "sample", decoded.Metadata["name"])
}

func TestGetRenderer(t *testing.T) {
	for _, format := range []string{"svg", "ASCII", "json"} {
		r, err := GetRenderer(format)
		require.NoError(t, err)
		assert.NotEmpty(t, r.Name())
	}

	_, err := GetRenderer("webgl")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestFitKeepsNodesInsideViewport(t *testing.T) {
	nodes := []*models.Node{{X: -500, Y: 10}, {X: 900, Y: -40}, {X: 0, Y: 300}}
	vp := fit(nodes, 800, 600, 20)

	for _, n := range nodes {
		x, y := vp.point(n)
		assert.GreaterOrEqual(t, x, 20-1e-9)
		assert.LessOrEqual(t, x, 780+1e-9)
		assert.GreaterOrEqual(t, y, 20-1e-9)
		assert.LessOrEqual(t, y, 580+1e-9)
	}
}
