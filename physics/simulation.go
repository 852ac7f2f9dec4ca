package physics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/TFMV/echolink/metrics"
	"github.com/TFMV/echolink/models"
	"gonum.org/v1/gonum/stat"
)

// Force is a component of the layout simulation. Initialize is called with
// the node set whenever it is installed; Apply mutates node velocities for
// one tick.
type Force interface {
	Initialize(nodes []*models.Node) error
	Apply(alpha float64)
}

type namedForce struct {
	name  string
	force Force
}

// Simulation integrates node positions from the velocities produced by its
// registered forces while alpha cools toward zero.
type Simulation struct {
	mu            sync.Mutex
	nodes         []*models.Node
	forces        []namedForce
	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
	centerX       float64
	centerY       float64
	iterations    int
	maxIterations int
	metrics       *metrics.Layout
}

// NewSimulation creates a simulation over nodes. Nodes are assigned their
// Index, and nodes still at the origin are spread out around the center.
func NewSimulation(nodes []*models.Node, width, height float64) *Simulation {
	s := &Simulation{
		alpha:         1,
		alphaMin:      0.001,
		velocityDecay: 0.4,
		centerX:       width / 2,
		centerY:       height / 2,
		maxIterations: 1000,
	}
	// Cool from 1 to alphaMin in about 300 ticks.
	s.alphaDecay = 1 - math.Pow(s.alphaMin, 1.0/300)
	s.setNodes(nodes)
	return s
}

func (s *Simulation) setNodes(nodes []*models.Node) {
	s.nodes = nodes
	for i, node := range nodes {
		node.Index = i
		if node.X == 0 && node.Y == 0 {
			// Phyllotaxis arrangement
			radius := 10 * math.Sqrt(0.5+float64(i))
			angle := float64(i) * math.Pi * (3 - math.Sqrt(5))
			node.X = s.centerX + radius*math.Cos(angle)
			node.Y = s.centerY + radius*math.Sin(angle)
		}
	}
}

// SetNodes installs a new node set and reinitializes every force. If any
// force fails, the forces already initialized are returned to the previous
// node set and neither the nodes nor their Index values change.
func (s *Simulation) SetNodes(nodes []*models.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	restore := assignIndices(nodes)
	for k, nf := range s.forces {
		if err := nf.force.Initialize(nodes); err != nil {
			err = fmt.Errorf("initialize force %q: %w", nf.name, err)
			restore()
			return errors.Join(err, s.reinitialize(k))
		}
	}
	s.setNodes(nodes)
	return nil
}

// reinitialize hands the current node set back to the first n forces.
func (s *Simulation) reinitialize(n int) error {
	var errs []error
	for _, nf := range s.forces[:n] {
		if err := nf.force.Initialize(s.nodes); err != nil {
			errs = append(errs, fmt.Errorf("restore force %q: %w", nf.name, err))
		}
	}
	return errors.Join(errs...)
}

// Nodes returns the simulated nodes
func (s *Simulation) Nodes() []*models.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes
}

// AddForce registers force under name, replacing any force with that name,
// and initializes it with the current nodes.
func (s *Simulation) AddForce(name string, force Force) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := force.Initialize(s.nodes); err != nil {
		return fmt.Errorf("initialize force %q: %w", name, err)
	}
	for i := range s.forces {
		if s.forces[i].name == name {
			s.forces[i].force = force
			return nil
		}
	}
	s.forces = append(s.forces, namedForce{name: name, force: force})
	return nil
}

// Force returns the force registered under name, or nil.
func (s *Simulation) Force(name string) Force {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force
		}
	}
	return nil
}

// RemoveForce unregisters the force with the given name.
func (s *Simulation) RemoveForce(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, nf := range s.forces {
		if nf.name == name {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return
		}
	}
}

// Step performs one tick: cool alpha, apply every force in registration
// order, then integrate positions. It returns true once the layout is
// stable, that is alpha has dropped below alphaMin or the iteration limit
// is reached.
func (s *Simulation) Step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stable() {
		return true
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	for _, nf := range s.forces {
		nf.force.Apply(s.alpha)
	}

	for _, node := range s.nodes {
		node.VX *= 1 - s.velocityDecay
		node.VY *= 1 - s.velocityDecay
		node.X += node.VX
		node.Y += node.VY
	}

	s.iterations++
	s.metrics.ObserveAlpha(s.alpha)
	return s.stable()
}

func (s *Simulation) stable() bool {
	return s.alpha < s.alphaMin || s.iterations >= s.maxIterations
}

// Run steps the simulation until it is stable or ctx is done.
func (s *Simulation) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if s.Step() {
				return nil
			}
		}
	}
}

// Energy returns the mean node speed, a rough measure of how far the layout
// is from rest.
func (s *Simulation) Energy() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.nodes) == 0 {
		return 0
	}
	speeds := make([]float64, len(s.nodes))
	for i, node := range s.nodes {
		speeds[i] = node.Speed()
	}
	return stat.Mean(speeds, nil)
}

// Iterations returns the number of ticks performed so far.
func (s *Simulation) Iterations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iterations
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// SetAlpha sets the current temperature, for example to reheat the layout.
func (s *Simulation) SetAlpha(alpha float64) *Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alpha = alpha
	return s
}

// SetAlphaMin sets the temperature below which the simulation is stable.
func (s *Simulation) SetAlphaMin(alphaMin float64) *Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alphaMin = alphaMin
	return s
}

// SetAlphaDecay sets the fraction of the distance to alphaTarget covered
// per tick.
func (s *Simulation) SetAlphaDecay(decay float64) *Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alphaDecay = decay
	return s
}

// SetAlphaTarget sets the temperature alpha decays toward.
func (s *Simulation) SetAlphaTarget(target float64) *Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alphaTarget = target
	return s
}

// SetVelocityDecay sets the friction applied to velocities each tick.
func (s *Simulation) SetVelocityDecay(decay float64) *Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.velocityDecay = decay
	return s
}

// SetMetrics makes Step record alpha on m. A nil m records nothing.
func (s *Simulation) SetMetrics(m *metrics.Layout) *Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
	return s
}

// SetMaxIterations caps the number of ticks.
func (s *Simulation) SetMaxIterations(n int) *Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxIterations = n
	return s
}
