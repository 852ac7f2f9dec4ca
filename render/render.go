package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/TFMV/echolink/models"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format     string  // Output format (svg, ascii, json)
	Width      float64 // Width of the output
	Height     float64 // Height of the output
	Background string  // Background color
	Timestamp  bool    // Include timestamp in the output
	NodeSize   float64 // Default node size
	LinkWidth  float64 // Default link width
	FontSize   float64 // Font size for labels
	ShowLabels bool    // Show node labels
	Padding    float64 // Margin kept around the laid out nodes
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render creates a visualization of the graph using the provided options
	Render(graph *models.Graph, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:     format,
		Width:      800,
		Height:     600,
		Background: "#f8f8f8",
		Timestamp:  false,
		NodeSize:   6.0,
		LinkWidth:  1.0,
		FontSize:   10.0,
		ShowLabels: true,
		Padding:    20,
	}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// viewport maps simulation coordinates onto the output area, scaling the
// bounding box of the nodes to fit.
type viewport struct {
	minX, minY float64
	scale      float64
	offX, offY float64
}

func fit(nodes []*models.Node, width, height, padding float64) viewport {
	if len(nodes) == 0 {
		return viewport{scale: 1}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
	}

	innerW := math.Max(width-2*padding, 1)
	innerH := math.Max(height-2*padding, 1)
	spanX := math.Max(maxX-minX, 1e-9)
	spanY := math.Max(maxY-minY, 1e-9)
	scale := math.Min(innerW/spanX, innerH/spanY)

	return viewport{
		minX:  minX,
		minY:  minY,
		scale: scale,
		offX:  padding + (innerW-spanX*scale)/2,
		offY:  padding + (innerH-spanY*scale)/2,
	}
}

func (v viewport) point(n *models.Node) (float64, float64) {
	return (n.X-v.minX)*v.scale + v.offX, (n.Y-v.minY)*v.scale + v.offY
}

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Render creates an SVG representation of the graph. Links whose endpoints
// are not resolved are skipped.
func (r *SVGRenderer) Render(graph *models.Graph, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	vp := fit(graph.Nodes, options.Width, options.Height, options.Padding)

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, options.Background)

	for _, link := range graph.Links {
		source, target := link.Source.Node, link.Target.Node
		if source == nil || target == nil {
			continue
		}

		linkColor := "#666666"
		if link.Color != "" {
			linkColor = link.Color
		}

		strokeWidth := options.LinkWidth
		if link.Weight > 0 {
			strokeWidth = math.Max(0.5, link.Weight*options.LinkWidth*0.5)
		}

		dashArray := ""
		switch link.Style {
		case "dashed":
			dashArray = ` stroke-dasharray="5,3"`
		case "dotted":
			dashArray = ` stroke-dasharray="1,3"`
		}

		x1, y1 := vp.point(source)
		x2, y2 := vp.point(target)
		fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"%s/>
`, x1, y1, x2, y2, linkColor, strokeWidth, dashArray)
	}

	for _, node := range graph.Nodes {
		nodeColor := "#4285F4"
		if node.Color != "" {
			nodeColor = node.Color
		}

		radius := node.Size
		if radius <= 0 {
			radius = options.NodeSize
		}

		cx, cy := vp.point(node)
		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="rgba(0,0,0,0.3)" stroke-width="0.5"/>
`, cx, cy, radius, nodeColor)

		if options.ShowLabels && node.Label != "" {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%g" fill="#333333" text-anchor="middle">%s</text>
`, cx, cy+radius+options.FontSize+2, options.FontSize, html.EscapeString(node.Label))
		}
	}

	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#808080">%s</text>
`, options.Height-5, time.Now().Format("2006-01-02 15:04:05"))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

var nodeSymbols = []rune{'O', '@', '#', 'X', '*', '+'}

// Render draws the graph on a character grid
func (r *ASCIIRenderer) Render(graph *models.Graph, options *OutputOptions) ([]byte, error) {
	// Scale down, with an adjustment for the character aspect ratio
	width := max(int(options.Width/10), 40)
	height := max(int(options.Height/20), 20)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0], grid[0][width-1] = '+', '+'
	grid[height-1][0], grid[height-1][width-1] = '+', '+'

	vp := fit(graph.Nodes, float64(width-2), float64(height-2), 0)
	cell := func(n *models.Node) (int, int) {
		x, y := vp.point(n)
		return clamp(int(math.Round(x))+1, 1, width-2), clamp(int(math.Round(y))+1, 1, height-2)
	}

	for _, link := range graph.Links {
		if link.Source.Node == nil || link.Target.Node == nil {
			continue
		}
		x1, y1 := cell(link.Source.Node)
		x2, y2 := cell(link.Target.Node)
		drawLine(grid, x1, y1, x2, y2)
	}

	for i, node := range graph.Nodes {
		x, y := cell(node)
		grid[y][x] = nodeSymbols[i%len(nodeSymbols)]

		if options.ShowLabels && node.Label != "" && y+1 < height-1 {
			for j, c := range []rune(node.Label) {
				if x+j >= width-1 {
					break
				}
				grid[y+1][x+j] = c
			}
		}
	}

	if options.Timestamp && height > 4 {
		timeStr := time.Now().Format("2006-01-02 15:04")
		if len(timeStr) < width-4 {
			for i, c := range timeStr {
				grid[height-2][i+2] = c
			}
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	return []byte(result.String()), nil
}

// JSONRenderer outputs node positions as JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Render creates a JSON representation of the laid out graph
func (r *JSONRenderer) Render(graph *models.Graph, options *OutputOptions) ([]byte, error) {
	type jsonNode struct {
		ID    string  `json:"id"`
		Index int     `json:"index"`
		Label string  `json:"label"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		VX    float64 `json:"vx"`
		VY    float64 `json:"vy"`
		Size  float64 `json:"size"`
		Color string  `json:"color"`
	}

	type jsonLink struct {
		Index  int     `json:"index"`
		Source string  `json:"source"`
		Target string  `json:"target"`
		Weight float64 `json:"weight"`
		Length float64 `json:"length"`
	}

	type jsonGraph struct {
		Nodes    []jsonNode     `json:"nodes"`
		Links    []jsonLink     `json:"links"`
		Metadata map[string]any `json:"metadata"`
	}

	out := jsonGraph{
		Nodes: make([]jsonNode, 0, len(graph.Nodes)),
		Links: make([]jsonLink, 0, len(graph.Links)),
		Metadata: map[string]any{
			"name":      graph.Name,
			"width":     options.Width,
			"height":    options.Height,
			"nodeCount": len(graph.Nodes),
			"linkCount": len(graph.Links),
		},
	}
	if options.Timestamp {
		out.Metadata["timestamp"] = time.Now().Format(time.RFC3339)
	}

	for _, node := range graph.Nodes {
		out.Nodes = append(out.Nodes, jsonNode{
			ID:    node.ID,
			Index: node.Index,
			Label: node.Label,
			X:     node.X,
			Y:     node.Y,
			VX:    node.VX,
			VY:    node.VY,
			Size:  node.Size,
			Color: node.Color,
		})
	}

	for _, link := range graph.Links {
		jl := jsonLink{
			Index:  link.Index,
			Source: link.Source.String(),
			Target: link.Target.String(),
			Weight: link.Weight,
		}
		if s, t := link.Source.Node, link.Target.Node; s != nil && t != nil {
			jl.Length = math.Hypot(t.X-s.X, t.Y-s.Y)
		}
		out.Links = append(out.Links, jl)
	}

	return json.MarshalIndent(out, "", "  ")
}

// Clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Draw a line on the ASCII grid using Bresenham's algorithm
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[y1]) && grid[y1][x1] == ' ' {
			grid[y1][x1] = '.'
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
