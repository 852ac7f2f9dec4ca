package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewNode creates a new node with the given ID and timestamps.
// An empty id is replaced by a fresh UUID.
func NewNode(id, nodeType, label string, properties map[string]any) *Node {
	now := time.Now()
	if id == "" {
		id = uuid.New().String()
	}
	return &Node{
		ID:         id,
		Type:       nodeType,
		Label:      label,
		Properties: properties,
		Size:       1.0,       // Default size
		Color:      "#808080", // Default color (gray)
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewLink creates a new link between two endpoints with a unique ID
func NewLink(source, target Endpoint, linkType string, weight float64) *Link {
	now := time.Now()
	return &Link{
		ID:        uuid.New().String(),
		Source:    source,
		Target:    target,
		Type:      linkType,
		Weight:    weight,
		Color:     "#000000",
		Style:     "solid",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetPosition sets the position of a node
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.UpdatedAt = time.Now()
}

// SetAppearance sets the visual properties of a node
func (n *Node) SetAppearance(size float64, color string) {
	n.Size = size
	n.Color = color
	n.UpdatedAt = time.Now()
}

// Speed returns the magnitude of the node's velocity.
func (n *Node) Speed() float64 {
	return hypot(n.VX, n.VY)
}

// NewGraph creates a new graph with a unique ID and timestamps
func NewGraph(name string) *Graph {
	now := time.Now()
	return &Graph{
		ID:            uuid.New().String(),
		Name:          name,
		Nodes:         []*Node{},
		Links:         []*Link{},
		Width:         800,  // Default width
		Height:        600,  // Default height
		MaxIterations: 1000, // Default max iterations for physics
		Background:    "#ffffff",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AddNode adds a node to the graph
func (g *Graph) AddNode(node *Node) {
	g.Nodes = append(g.Nodes, node)
	g.UpdatedAt = time.Now()
}

// AddLink adds a link to the graph. Endpoints given by key must name the ID
// of a node already in the graph; they are resolved before the link is added.
func (g *Graph) AddLink(link *Link) error {
	source, err := g.resolve(link.Source)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	target, err := g.resolve(link.Target)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	link.Source = ByNode(source)
	link.Target = ByNode(target)

	g.Links = append(g.Links, link)
	g.UpdatedAt = time.Now()
	return nil
}

func (g *Graph) resolve(e Endpoint) (*Node, error) {
	if e.Node != nil {
		return e.Node, nil
	}
	id, ok := e.Key.(string)
	if !ok {
		return nil, fmt.Errorf("endpoint key %v is not a node ID", e.Key)
	}
	return g.FindNodeByID(id)
}

// RemoveNode removes a node and all connected links from the graph
func (g *Graph) RemoveNode(nodeID string) {
	var newNodes []*Node
	for _, node := range g.Nodes {
		if node.ID != nodeID {
			newNodes = append(newNodes, node)
		}
	}
	g.Nodes = newNodes

	var newLinks []*Link
	for _, link := range g.Links {
		if link.Source.String() != nodeID && link.Target.String() != nodeID {
			newLinks = append(newLinks, link)
		}
	}
	g.Links = newLinks

	g.UpdatedAt = time.Now()
}

// RemoveLink removes a link from the graph
func (g *Graph) RemoveLink(linkID string) {
	var newLinks []*Link
	for _, link := range g.Links {
		if link.ID != linkID {
			newLinks = append(newLinks, link)
		}
	}
	g.Links = newLinks
	g.UpdatedAt = time.Now()
}

// SetDimensions sets the width and height of the graph
func (g *Graph) SetDimensions(width, height float64) {
	g.Width = width
	g.Height = height
	g.UpdatedAt = time.Now()
}

// SetAppearance sets the visual properties of a link
func (l *Link) SetAppearance(color, style string) {
	l.Color = color
	l.Style = style
	l.UpdatedAt = time.Now()
}
