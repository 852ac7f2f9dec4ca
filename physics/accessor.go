package physics

import (
	"math/rand/v2"

	"github.com/TFMV/echolink/models"
)

// LinkAccessor evaluates a per-link value such as strength or rest distance.
type LinkAccessor func(link *models.Link, i int, links []*models.Link) float64

// TickAccessor evaluates a per-tick value such as the window size.
type TickAccessor func(alpha float64, nodes []*models.Node, links []*models.Link) float64

// IDFunc extracts the identifier used to resolve raw link endpoints.
// The returned value must be comparable.
type IDFunc func(node *models.Node, i int, nodes []*models.Node) any

// RandSource returns uniformly distributed numbers in [0,1).
type RandSource func() float64

// ConstantLink returns a LinkAccessor that always yields v.
func ConstantLink(v float64) LinkAccessor {
	return func(*models.Link, int, []*models.Link) float64 { return v }
}

// ConstantTick returns a TickAccessor that always yields v.
func ConstantTick(v float64) TickAccessor {
	return func(float64, []*models.Node, []*models.Link) float64 { return v }
}

// NodeIndex identifies nodes by their Index field. It is the default IDFunc.
func NodeIndex(node *models.Node, _ int, _ []*models.Node) any {
	return node.Index
}

// NodeID identifies nodes by their string ID.
func NodeID(node *models.Node, _ int, _ []*models.Node) any {
	return node.ID
}

// HalfOfLinks is the default update size: half of the links per tick.
func HalfOfLinks(_ float64, _ []*models.Node, links []*models.Link) float64 {
	if links == nil {
		return 0
	}
	return 0.5 * float64(len(links))
}

// AllLinks processes every link on every tick. Paired with a multiplier of
// 1 it reproduces the unsampled link force.
func AllLinks(_ float64, _ []*models.Node, links []*models.Link) float64 {
	return float64(len(links))
}

// FractionOfLinks returns an update size covering frac of the links per tick.
func FractionOfLinks(frac float64) TickAccessor {
	return func(_ float64, _ []*models.Node, links []*models.Link) float64 {
		return frac * float64(len(links))
	}
}

func defaultSource() float64 {
	return rand.Float64()
}

// SeededSource returns a deterministic RandSource backed by a PCG generator.
func SeededSource(seed uint64) RandSource {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.Float64
}
