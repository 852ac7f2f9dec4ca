// Package models provides data structures for the echolink application.
// It defines the nodes, links and graphs that the layout forces operate on.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Node represents a node in the graph
type Node struct {
	ID         string         `json:"id"`
	Index      int            `json:"index"` // Dense position in the installed node set
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Data       any            `json:"data,omitempty"`
	Size       float64        `json:"size"`
	Color      string         `json:"color"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	VX         float64        `json:"vx"`
	VY         float64        `json:"vy"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Endpoint is one end of a link. Before binding it usually holds a raw
// identifier in Key; after binding Node points at the resolved node.
type Endpoint struct {
	Key  any
	Node *Node
}

// ByKey returns an unresolved endpoint identified by key.
func ByKey(key any) Endpoint {
	return Endpoint{Key: key}
}

// ByNode returns an endpoint already resolved to n.
func ByNode(n *Node) Endpoint {
	return Endpoint{Node: n}
}

// Resolved reports whether the endpoint references a node.
func (e Endpoint) Resolved() bool {
	return e.Node != nil
}

// String returns the node ID when resolved and the raw key otherwise.
func (e Endpoint) String() string {
	if e.Node != nil {
		return e.Node.ID
	}
	return fmt.Sprint(e.Key)
}

// MarshalJSON writes the endpoint as the referenced node's ID, or the raw key.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	if e.Node != nil {
		return json.Marshal(e.Node.ID)
	}
	return json.Marshal(e.Key)
}

// UnmarshalJSON reads a raw identifier. Numbers stay float64 as decoded by
// encoding/json.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	var key any
	if err := json.Unmarshal(data, &key); err != nil {
		return err
	}
	*e = Endpoint{Key: key}
	return nil
}

// Link represents a directed structural edge between two nodes
type Link struct {
	ID         string         `json:"id"`
	Source     Endpoint       `json:"source"`
	Target     Endpoint       `json:"target"`
	Index      int            `json:"index"` // Written when the link set is bound
	Type       string         `json:"type"`
	Weight     float64        `json:"weight"`
	Color      string         `json:"color"`
	Style      string         `json:"style"` // e.g., "solid", "dashed", "dotted"
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Graph represents a collection of nodes and links
type Graph struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Nodes         []*Node   `json:"nodes"`
	Links         []*Link   `json:"links"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	MaxIterations int       `json:"max_iterations"`
	Background    string    `json:"background"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
