package physics

import (
	"math"

	"github.com/TFMV/echolink/models"
)

// binding holds the structural state derived from a node set and a link set.
// It is computed off to the side and committed only once every endpoint has
// resolved, so a failed bind leaves the previous state untouched.
type binding struct {
	sources []*models.Node
	targets []*models.Node
	degree  []int
	bias    []float64
}

func bind(nodes []*models.Node, links []*models.Link, id IDFunc, strict bool) (*binding, error) {
	byID := make(map[any]*models.Node, len(nodes))
	var first map[any]int
	if strict {
		first = make(map[any]int, len(nodes))
	}
	for i, n := range nodes {
		key := normalizeKey(id(n, i, nodes))
		if strict {
			if j, dup := first[key]; dup {
				return nil, &DuplicateIDError{ID: key, First: j, Second: i}
			}
			first[key] = i
		}
		// Later nodes overwrite earlier ones with the same identifier.
		byID[key] = n
	}

	b := &binding{
		sources: make([]*models.Node, len(links)),
		targets: make([]*models.Node, len(links)),
		degree:  make([]int, len(nodes)),
		bias:    make([]float64, len(links)),
	}

	for i, link := range links {
		source, err := resolveEndpoint(byID, nodes, link.Source)
		if err != nil {
			return nil, err
		}
		target, err := resolveEndpoint(byID, nodes, link.Target)
		if err != nil {
			return nil, err
		}
		b.sources[i], b.targets[i] = source, target
		b.degree[source.Index]++
		b.degree[target.Index]++
	}

	for i := range links {
		s := b.degree[b.sources[i].Index]
		t := b.degree[b.targets[i].Index]
		b.bias[i] = float64(s) / float64(s+t)
	}

	return b, nil
}

// commit writes resolved endpoints and link indices back onto the links.
func (b *binding) commit(links []*models.Link) {
	for i, link := range links {
		link.Index = i
		link.Source.Node = b.sources[i]
		link.Target.Node = b.targets[i]
	}
}

func resolveEndpoint(byID map[any]*models.Node, nodes []*models.Node, e models.Endpoint) (*models.Node, error) {
	if e.Node != nil {
		i := e.Node.Index
		if i < 0 || i >= len(nodes) || nodes[i] != e.Node {
			return nil, &MissingNodeError{ID: e.Node.ID}
		}
		return e.Node, nil
	}
	n, ok := byID[normalizeKey(e.Key)]
	if !ok {
		return nil, &MissingNodeError{ID: e.Key}
	}
	return n, nil
}

// normalizeKey maps integral float64 identifiers, as produced by
// encoding/json, onto int so they match NodeIndex.
func normalizeKey(key any) any {
	if f, ok := key.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return key
}
