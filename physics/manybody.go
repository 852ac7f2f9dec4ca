package physics

import (
	"math"

	"github.com/TFMV/echolink/models"
)

// ManyBody applies a pairwise charge between all nodes. A negative strength
// repels. It compares every pair of nodes, so it suits small and medium
// graphs.
type ManyBody struct {
	nodes        []*models.Node
	strength     float64
	distanceMin2 float64
	distanceMax2 float64
	rand         RandSource
}

// NewManyBody creates a repulsive many-body force with strength -30.
func NewManyBody() *ManyBody {
	return &ManyBody{
		strength:     -30,
		distanceMin2: 1,
		distanceMax2: math.Inf(1),
		rand:         defaultSource,
	}
}

// Initialize installs the node set
func (m *ManyBody) Initialize(nodes []*models.Node) error {
	m.nodes = nodes
	return nil
}

// Apply adds the charge contribution of every pair to node velocities.
func (m *ManyBody) Apply(alpha float64) {
	for i, node := range m.nodes {
		for j, other := range m.nodes {
			if i == j {
				continue
			}
			x := other.X - node.X
			y := other.Y - node.Y
			if x == 0 {
				x = (m.rand() - 0.5) * 1e-6
			}
			if y == 0 {
				y = (m.rand() - 0.5) * 1e-6
			}
			l := x*x + y*y
			if l >= m.distanceMax2 {
				continue
			}
			if l < m.distanceMin2 {
				l = math.Sqrt(m.distanceMin2 * l)
			}
			w := m.strength * alpha / l
			node.VX += x * w
			node.VY += y * w
		}
	}
}

// SetStrength sets the charge strength
func (m *ManyBody) SetStrength(strength float64) *ManyBody {
	m.strength = strength
	return m
}

// SetDistanceMin sets the distance below which the charge stops growing.
func (m *ManyBody) SetDistanceMin(d float64) *ManyBody {
	m.distanceMin2 = d * d
	return m
}

// SetDistanceMax sets the distance beyond which nodes do not interact.
func (m *ManyBody) SetDistanceMax(d float64) *ManyBody {
	m.distanceMax2 = d * d
	return m
}

// SetSource sets the randomness source used for jitter.
func (m *ManyBody) SetSource(rand RandSource) *ManyBody {
	m.rand = rand
	return m
}

// Center translates the nodes so their mean position sits on a fixed point.
type Center struct {
	nodes    []*models.Node
	x, y     float64
	strength float64
}

// NewCenter creates a centering force at (x, y).
func NewCenter(x, y float64) *Center {
	return &Center{x: x, y: y, strength: 1}
}

// Initialize installs the node set
func (c *Center) Initialize(nodes []*models.Node) error {
	c.nodes = nodes
	return nil
}

// Apply shifts every node by the offset between the centroid and the center.
func (c *Center) Apply(float64) {
	n := len(c.nodes)
	if n == 0 {
		return
	}
	var sx, sy float64
	for _, node := range c.nodes {
		sx += node.X
		sy += node.Y
	}
	sx = (sx/float64(n) - c.x) * c.strength
	sy = (sy/float64(n) - c.y) * c.strength
	for _, node := range c.nodes {
		node.X -= sx
		node.Y -= sy
	}
}

// SetStrength sets how much of the offset is corrected per tick.
func (c *Center) SetStrength(strength float64) *Center {
	c.strength = strength
	return c
}
