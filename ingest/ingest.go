package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TFMV/echolink/models"
)

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a graph representation
	ProcessData(data []byte) (*models.Graph, error)

	// GetName returns the name of the processor
	GetName() string
}

// Palette provides color schemes for graph visualization
type Palette struct {
	NodeColors []string
	LinkColors []string
	Background string
}

// DefaultPalette returns a default color palette with vibrant colors
func DefaultPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#4285F4", // Blue
			"#EA4335", // Red
			"#FBBC05", // Yellow
			"#34A853", // Green
			"#673AB7", // Purple
			"#3F51B5", // Indigo
			"#00BCD4", // Cyan
			"#009688", // Teal
			"#FF5722", // Deep Orange
		},
		LinkColors: []string{
			"#666666",
			"#888888",
			"#AAAAAA",
		},
		Background: "#f8f8f8",
	}
}

// ForFile returns the processor matching a file extension such as ".json".
func ForFile(ext string, palette *Palette) (DataProcessor, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return NewJSONProcessor(palette), nil
	case ".csv":
		return NewCSVProcessor(palette), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// JSONProcessor handles JSON data of the form
// {"nodes":[{"id":..}], "links":[{"source":..,"target":..}]}.
// "edges" is accepted as an alias of "links".
type JSONProcessor struct {
	palette *Palette
}

// NewJSONProcessor creates a new JSON processor with the specified palette
func NewJSONProcessor(palette *Palette) *JSONProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &JSONProcessor{palette: palette}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

type jsonLink struct {
	Source json.RawMessage `json:"source"`
	Target json.RawMessage `json:"target"`
	Weight *float64        `json:"weight,omitempty"`
	Type   string          `json:"type,omitempty"`
}

// ProcessData processes JSON data. Link endpoints are kept as unresolved
// keys holding the referenced node ID; numeric endpoints are read as node
// positions in the node list, as in many d3 datasets.
func (p *JSONProcessor) ProcessData(data []byte) (*models.Graph, error) {
	var graphData struct {
		Name  string `json:"name"`
		Nodes []struct {
			ID    json.RawMessage `json:"id"`
			Label string          `json:"label"`
			Group string          `json:"group"`
			Data  map[string]any  `json:"data,omitempty"`
		} `json:"nodes"`
		Links []jsonLink `json:"links"`
		Edges []jsonLink `json:"edges"`
	}

	if err := json.Unmarshal(data, &graphData); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	name := graphData.Name
	if name == "" {
		name = "JSON Import"
	}
	graph := models.NewGraph(name)
	graph.Background = p.palette.Background

	for i, n := range graphData.Nodes {
		id := rawKey(n.ID)
		if id == "" {
			id = strconv.Itoa(i)
		}
		label := n.Label
		if label == "" {
			label = id
		}
		node := models.NewNode(id, n.Group, label, nil)
		node.Data = n.Data
		node.Size = 6.0
		node.Color = p.palette.NodeColors[i%len(p.palette.NodeColors)]
		graph.AddNode(node)
	}

	links := append(graphData.Links, graphData.Edges...)
	for i, l := range links {
		source, err := endpointID(l.Source, graph.Nodes)
		if err != nil {
			return nil, fmt.Errorf("link %d source: %w", i, err)
		}
		target, err := endpointID(l.Target, graph.Nodes)
		if err != nil {
			return nil, fmt.Errorf("link %d target: %w", i, err)
		}

		weight := 1.0
		if l.Weight != nil {
			weight = *l.Weight
		}
		link := models.NewLink(models.ByKey(source), models.ByKey(target), l.Type, weight)
		link.Color = p.palette.LinkColors[i%len(p.palette.LinkColors)]
		graph.Links = append(graph.Links, link)
	}

	return graph, nil
}

// rawKey turns a JSON string or number into its textual form.
func rawKey(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func endpointID(raw json.RawMessage, nodes []*models.Node) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("missing endpoint")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var i int
	if err := json.Unmarshal(raw, &i); err != nil {
		return "", fmt.Errorf("endpoint %s is neither a string nor an integer", raw)
	}
	if i < 0 || i >= len(nodes) {
		return "", fmt.Errorf("endpoint index %d out of range", i)
	}
	return nodes[i].ID, nil
}

// CSVProcessor handles CSV edge lists with source and target columns
type CSVProcessor struct {
	palette *Palette
}

// NewCSVProcessor creates a new CSV processor with the specified palette
func NewCSVProcessor(palette *Palette) *CSVProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &CSVProcessor{palette: palette}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data. Nodes are created on first mention.
func (p *CSVProcessor) ProcessData(data []byte) (*models.Graph, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	graph := models.NewGraph("CSV Import")
	graph.Background = p.palette.Background

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	sourceIdx, targetIdx, weightIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		case "weight", "value", "strength":
			weightIdx = i
		}
	}

	if sourceIdx == -1 || targetIdx == -1 {
		return nil, fmt.Errorf("CSV must contain source and target columns")
	}

	seen := make(map[string]bool)
	addNode := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		node := models.NewNode(id, "default", id, nil)
		node.Size = 6.0
		node.Color = p.palette.NodeColors[(len(seen)-1)%len(p.palette.NodeColors)]
		graph.AddNode(node)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		sourceID := strings.TrimSpace(row[sourceIdx])
		targetID := strings.TrimSpace(row[targetIdx])
		addNode(sourceID)
		addNode(targetID)

		weight := 1.0
		if weightIdx >= 0 && weightIdx < len(row) {
			if w, err := strconv.ParseFloat(strings.TrimSpace(row[weightIdx]), 64); err == nil {
				weight = w
			}
		}

		link := models.NewLink(models.ByKey(sourceID), models.ByKey(targetID), "default", weight)
		link.Color = p.palette.LinkColors[len(graph.Links)%len(p.palette.LinkColors)]
		graph.Links = append(graph.Links, link)
	}

	return graph, nil
}
