package models

import (
	"fmt"
	"math"
)

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *Node) bool

// FindNodeByID returns a node by its ID
func (g *Graph) FindNodeByID(id string) (*Node, error) {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node, nil
		}
	}
	return nil, fmt.Errorf("node with ID %s not found", id)
}

// FindLinkByID returns a link by its ID
func (g *Graph) FindLinkByID(id string) (*Link, error) {
	for _, link := range g.Links {
		if link.ID == id {
			return link, nil
		}
	}
	return nil, fmt.Errorf("link with ID %s not found", id)
}

// FindConnectedNodes returns all nodes directly connected to a node
func (g *Graph) FindConnectedNodes(nodeID string) []*Node {
	var result []*Node
	nodeMap := make(map[string]bool)

	for _, link := range g.Links {
		if link.Source.String() == nodeID {
			nodeMap[link.Target.String()] = true
		}
		if link.Target.String() == nodeID {
			nodeMap[link.Source.String()] = true
		}
	}

	for _, node := range g.Nodes {
		if nodeMap[node.ID] {
			result = append(result, node)
		}
	}

	return result
}

// FilterNodes returns nodes that match the provided filter function
func (g *Graph) FilterNodes(filter NodeFilter) []*Node {
	var result []*Node
	for _, node := range g.Nodes {
		if filter(node) {
			result = append(result, node)
		}
	}
	return result
}

func hypot(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}
