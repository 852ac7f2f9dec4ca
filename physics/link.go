package physics

import (
	"fmt"
	"math"
	"slices"

	"github.com/TFMV/echolink/metrics"
	"github.com/TFMV/echolink/models"
)

// LinkForce pulls the endpoints of each link toward a rest distance. Instead
// of visiting every link on every tick it processes a rotating window of
// links and scales the correction by a multiplier, so each link still gets
// its full share of correction on average.
//
// A LinkForce starts unbound. Until Initialize installs a node set, link and
// accessor changes are only recorded and Apply does nothing. It is not safe
// for concurrent use.
type LinkForce struct {
	id               IDFunc
	strength         LinkAccessor
	distance         LinkAccessor
	updateSize       TickAccessor
	updateMultiplier TickAccessor
	iterations       int
	rand             RandSource
	strict           bool

	nodes []*models.Node
	links []*models.Link
	bound bool

	degree    []int
	bias      []float64
	strengths []float64
	distances []float64

	sched   Scheduler
	metrics *metrics.Layout
}

// NewLinkForce creates a link force over links with the default settings:
// rest distance 30, degree-based strength, half of the links per tick and a
// multiplier of 2.
func NewLinkForce(links []*models.Link) *LinkForce {
	if links == nil {
		links = []*models.Link{}
	}
	f := &LinkForce{
		id:               NodeIndex,
		distance:         ConstantLink(30),
		updateSize:       HalfOfLinks,
		updateMultiplier: ConstantTick(2),
		iterations:       1,
		rand:             defaultSource,
		links:            links,
	}
	f.strength = f.DefaultStrength
	return f
}

// DefaultStrength weakens links attached to well-connected nodes:
// 1 / min(degree(source), degree(target)).
func (f *LinkForce) DefaultStrength(link *models.Link, _ int, _ []*models.Link) float64 {
	return 1 / float64(min(f.degree[link.Source.Node.Index], f.degree[link.Target.Node.Index]))
}

// Initialize installs the node set, assigns each node its Index and binds
// the current links. On error the previously bound state is kept and every
// node's Index is restored.
func (f *LinkForce) Initialize(nodes []*models.Node) error {
	restore := assignIndices(nodes)
	if err := f.rebind(nodes, f.links); err != nil {
		restore()
		return err
	}
	return nil
}

// assignIndices sets each node's Index to its position and returns a func
// that puts the previous values back.
func assignIndices(nodes []*models.Node) func() {
	prev := make([]int, len(nodes))
	for i, n := range nodes {
		prev[i] = n.Index
		n.Index = i
	}
	return func() {
		// Reverse order so a node listed twice ends up with its original Index.
		for i := len(nodes) - 1; i >= 0; i-- {
			nodes[i].Index = prev[i]
		}
	}
}

func (f *LinkForce) rebind(nodes []*models.Node, links []*models.Link) error {
	b, err := bind(nodes, links, f.id, f.strict)
	f.metrics.ObserveRebind(err)
	if err != nil {
		return fmt.Errorf("bind links: %w", err)
	}
	b.commit(links)

	f.nodes = nodes
	f.links = links
	f.degree = b.degree
	f.bias = b.bias
	f.bound = true
	f.sched.Reset()

	f.initializeStrength()
	f.initializeDistance()
	return nil
}

func (f *LinkForce) initializeStrength() {
	if !f.bound {
		return
	}
	strengths := make([]float64, len(f.links))
	for i, link := range f.links {
		strengths[i] = f.strength(link, i, f.links)
	}
	f.strengths = strengths
}

func (f *LinkForce) initializeDistance() {
	if !f.bound {
		return
	}
	distances := make([]float64, len(f.links))
	for i, link := range f.links {
		distances[i] = f.distance(link, i, f.links)
	}
	f.distances = distances
}

// Apply runs one tick of the force at temperature alpha.
func (f *LinkForce) Apply(alpha float64) {
	if !f.bound {
		return
	}

	numUpdate := windowSize(f.updateSize(alpha, f.nodes, f.links))
	multiplier := f.updateMultiplier(alpha, f.nodes, f.links)
	w := f.sched.Next(len(f.links), numUpdate)

	for k := 0; k < f.iterations; k++ {
		for i := range w.All() {
			f.applyLink(i, alpha, multiplier)
		}
	}

	f.metrics.ObserveTick(w.Size*max(f.iterations, 0), f.sched.Cursor())
}

func (f *LinkForce) applyLink(i int, alpha, multiplier float64) {
	link := f.links[i]
	source, target := link.Source.Node, link.Target.Node

	// Look ahead to where the nodes will be after integration.
	x := target.X + target.VX - source.X - source.VX
	if x == 0 {
		x = f.jiggle()
	}
	y := target.Y + target.VY - source.Y - source.VY
	if y == 0 {
		y = f.jiggle()
	}

	l := math.Sqrt(x*x + y*y)
	if l == 0 {
		// A source returning exactly 0.5 leaves no direction to pull along.
		return
	}
	l = (l - f.distances[i]) / l * alpha * f.strengths[i] * multiplier
	x *= l
	y *= l

	b := f.bias[i]
	target.VX -= x * b
	target.VY -= y * b
	b = 1 - b
	source.VX += x * b
	source.VY += y * b
}

func (f *LinkForce) jiggle() float64 {
	return (f.rand() - 0.5) * 1e-6
}

// windowSize rounds a requested update size up to a whole number of links.
// Non-positive and NaN sizes select nothing.
func windowSize(v float64) int {
	if !(v > 0) {
		return 0
	}
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(v))
}

// Links returns the current link set.
func (f *LinkForce) Links() []*models.Link {
	return f.links
}

// SetLinks replaces the link set. When bound it triggers a full rebind and
// returns any resolution error, leaving the previous links in place.
// The window cursor restarts at the first link.
func (f *LinkForce) SetLinks(links []*models.Link) error {
	if links == nil {
		links = []*models.Link{}
	}
	if !f.bound {
		f.links = links
		f.sched.Reset()
		return nil
	}
	return f.rebind(f.nodes, links)
}

// ID returns the identifier function used to resolve link endpoints.
func (f *LinkForce) ID() IDFunc {
	return f.id
}

// SetID sets the identifier function. It takes effect on the next bind.
func (f *LinkForce) SetID(id IDFunc) *LinkForce {
	f.id = id
	return f
}

// StrictIDs reports whether duplicate node identifiers fail binding.
func (f *LinkForce) StrictIDs() bool {
	return f.strict
}

// SetStrictIDs makes binding fail with DuplicateIDError when two nodes share
// an identifier. By default the last such node wins.
func (f *LinkForce) SetStrictIDs(strict bool) *LinkForce {
	f.strict = strict
	return f
}

// Strength returns the strength accessor.
func (f *LinkForce) Strength() LinkAccessor {
	return f.strength
}

// SetStrength sets the strength accessor and recomputes link strengths.
func (f *LinkForce) SetStrength(strength LinkAccessor) *LinkForce {
	f.strength = strength
	f.initializeStrength()
	return f
}

// SetStrengthConstant uses the same strength for every link.
func (f *LinkForce) SetStrengthConstant(v float64) *LinkForce {
	return f.SetStrength(ConstantLink(v))
}

// Distance returns the rest distance accessor.
func (f *LinkForce) Distance() LinkAccessor {
	return f.distance
}

// SetDistance sets the rest distance accessor and recomputes link distances.
func (f *LinkForce) SetDistance(distance LinkAccessor) *LinkForce {
	f.distance = distance
	f.initializeDistance()
	return f
}

// SetDistanceConstant uses the same rest distance for every link.
func (f *LinkForce) SetDistanceConstant(v float64) *LinkForce {
	return f.SetDistance(ConstantLink(v))
}

// UpdateSize returns the window size accessor.
func (f *LinkForce) UpdateSize() TickAccessor {
	return f.updateSize
}

// SetUpdateSize sets how many links are processed per tick. The value is
// rounded up.
func (f *LinkForce) SetUpdateSize(size TickAccessor) *LinkForce {
	f.updateSize = size
	return f
}

// SetUpdateSizeConstant processes a fixed number of links per tick.
func (f *LinkForce) SetUpdateSizeConstant(v float64) *LinkForce {
	return f.SetUpdateSize(ConstantTick(v))
}

// UpdateMultiplier returns the correction multiplier accessor.
func (f *LinkForce) UpdateMultiplier() TickAccessor {
	return f.updateMultiplier
}

// SetUpdateMultiplier sets the factor applied to each sampled correction.
// Callers tuning the window size should adjust it so that size/links times
// multiplier stays near 1.
func (f *LinkForce) SetUpdateMultiplier(multiplier TickAccessor) *LinkForce {
	f.updateMultiplier = multiplier
	return f
}

// SetUpdateMultiplierConstant uses a fixed correction multiplier.
func (f *LinkForce) SetUpdateMultiplierConstant(v float64) *LinkForce {
	return f.SetUpdateMultiplier(ConstantTick(v))
}

// Iterations returns how many times the window is processed per tick.
func (f *LinkForce) Iterations() int {
	return f.iterations
}

// SetIterations sets how many times the window is processed per tick.
func (f *LinkForce) SetIterations(n int) *LinkForce {
	f.iterations = n
	return f
}

// Source returns the randomness source used for jitter.
func (f *LinkForce) Source() RandSource {
	return f.rand
}

// SetSource sets the randomness source used for jitter. A link whose
// endpoints coincide and whose jitter is zero on both axes is skipped for
// that tick.
func (f *LinkForce) SetSource(rand RandSource) *LinkForce {
	f.rand = rand
	return f
}

// SetMetrics makes the force record ticks and bindings on m. A nil m, the
// default, records nothing.
func (f *LinkForce) SetMetrics(m *metrics.Layout) *LinkForce {
	f.metrics = m
	return f
}

// Bound reports whether a node set has been installed successfully.
func (f *LinkForce) Bound() bool {
	return f.bound
}

// Cursor returns the first link index of the next window.
func (f *LinkForce) Cursor() int {
	return f.sched.Cursor()
}

// Degrees returns a copy of the per-node link counts.
func (f *LinkForce) Degrees() []int {
	return slices.Clone(f.degree)
}

// Biases returns a copy of the per-link bias toward the target.
func (f *LinkForce) Biases() []float64 {
	return slices.Clone(f.bias)
}

// Strengths returns a copy of the per-link strengths.
func (f *LinkForce) Strengths() []float64 {
	return slices.Clone(f.strengths)
}

// Distances returns a copy of the per-link rest distances.
func (f *LinkForce) Distances() []float64 {
	return slices.Clone(f.distances)
}
