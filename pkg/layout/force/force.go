// Package force positions nodes with an iterative physical simulation.
//
// Every pair of nodes repels, edges act as springs, overlapping boxes are
// pushed apart, and a weak pull toward [Config.Center] keeps the drawing from
// drifting. The simulation always runs [Config.Iterations] steps; there is no
// convergence test.
//
// External-link nodes repel less than documents and hang on longer, softer
// springs, so domains settle loosely around the documents that cite them.
//
// Nodes with [layout.Node.HasPosition] seed the simulation from their current
// position. The rest start at random points, so the output is only
// reproducible when every node carries a hint or [Config.Rand] is seeded.
package force

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/layout"
)

// Simulation defaults.
const (
	DefaultIterations        = 300
	DefaultSeparation        = 220.0
	DefaultDocumentRepulsion = 12000.0
	DefaultExternalRepulsion = 4000.0
	DefaultInternalStiffness = 0.05
	DefaultExternalStiffness = 0.02
	DefaultExternalStretch   = 1.8
	DefaultCollisionBuffer   = 20.0
	DefaultCenterStrength    = 0.01
	DefaultGravityStrength   = 0.1
	DefaultDamping           = 0.85
	DefaultMaxVelocity       = 50.0

	collisionSweeps = 8
)

// Config tunes the simulation. Zero fields take the defaults above.
type Config struct {
	Iterations int

	// Separation is the rest length of internal springs. External springs
	// rest at Separation * ExternalStretch.
	Separation      float64
	ExternalStretch float64

	// Center is the point the drawing is pulled toward.
	Center layout.Point

	DocumentRepulsion float64
	ExternalRepulsion float64
	InternalStiffness float64
	ExternalStiffness float64
	CollisionBuffer   float64
	CenterStrength    float64
	GravityStrength   float64
	Damping           float64
	MaxVelocity       float64

	// Rand seeds unhinted nodes. Nil uses a randomly seeded source.
	Rand *rand.Rand
}

// DefaultConfig returns the default tuning centered on the origin.
func DefaultConfig() Config {
	c := Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Separation == 0 {
		c.Separation = DefaultSeparation
	}
	if c.ExternalStretch == 0 {
		c.ExternalStretch = DefaultExternalStretch
	}
	if c.DocumentRepulsion == 0 {
		c.DocumentRepulsion = DefaultDocumentRepulsion
	}
	if c.ExternalRepulsion == 0 {
		c.ExternalRepulsion = DefaultExternalRepulsion
	}
	if c.InternalStiffness == 0 {
		c.InternalStiffness = DefaultInternalStiffness
	}
	if c.ExternalStiffness == 0 {
		c.ExternalStiffness = DefaultExternalStiffness
	}
	if c.CollisionBuffer == 0 {
		c.CollisionBuffer = DefaultCollisionBuffer
	}
	if c.CenterStrength == 0 {
		c.CenterStrength = DefaultCenterStrength
	}
	if c.GravityStrength == 0 {
		c.GravityStrength = DefaultGravityStrength
	}
	if c.Damping == 0 {
		c.Damping = DefaultDamping
	}
	if c.MaxVelocity == 0 {
		c.MaxVelocity = DefaultMaxVelocity
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// body is the simulation state of one node, tracked at its center.
type body struct {
	x, y    float64
	vx, vy  float64
	fx, fy  float64
	radius  float64
	repulse float64
}

type spring struct {
	a, b      int
	length    float64
	stiffness float64
}

// Layout returns a copy of nodes with simulated positions. Edges with an
// endpoint outside nodes are ignored.
func Layout(nodes []layout.Node, edges []graph.Edge, cfg Config) []layout.Node {
	cfg.setDefaults()
	out := layout.Clone(nodes)
	if len(out) == 0 {
		return out
	}

	bodies := seed(out, cfg)
	springs := buildSprings(out, edges, cfg)

	for range cfg.Iterations {
		step(bodies, springs, cfg)
	}
	for range collisionSweeps {
		collide(bodies, cfg)
	}

	for i := range out {
		out[i].X = bodies[i].x - out[i].Width/2
		out[i].Y = bodies[i].y - out[i].Height/2
		out[i].HasPosition = true
	}
	return out
}

func seed(nodes []layout.Node, cfg Config) []body {
	spread := cfg.Separation * math.Sqrt(float64(len(nodes)))
	bodies := make([]body, len(nodes))
	for i, n := range nodes {
		b := body{
			radius:  math.Max(n.Width, n.Height)/2 + cfg.CollisionBuffer/2,
			repulse: cfg.DocumentRepulsion,
		}
		if graph.IsExternalLinkNode(n.Node) {
			b.repulse = cfg.ExternalRepulsion
		}
		if n.HasPosition {
			c := n.Center()
			b.x, b.y = c.X, c.Y
		} else {
			angle := cfg.Rand.Float64() * 2 * math.Pi
			r := spread * math.Sqrt(cfg.Rand.Float64())
			b.x = cfg.Center.X + r*math.Cos(angle)
			b.y = cfg.Center.Y + r*math.Sin(angle)
		}
		bodies[i] = b
	}
	return bodies
}

func buildSprings(nodes []layout.Node, edges []graph.Edge, cfg Config) []spring {
	idx := layout.Index(nodes)
	out := make([]spring, 0, len(edges))
	for _, e := range edges {
		a, okA := idx[e.Source]
		b, okB := idx[e.Target]
		if !okA || !okB || a == b {
			continue
		}
		s := spring{a: a, b: b, length: cfg.Separation, stiffness: cfg.InternalStiffness}
		if e.Type == graph.EdgeExternal {
			s.length = cfg.Separation * cfg.ExternalStretch
			s.stiffness = cfg.ExternalStiffness
		}
		out = append(out, s)
	}
	return out
}

func step(bodies []body, springs []spring, cfg Config) {
	for i := range bodies {
		bodies[i].fx, bodies[i].fy = 0, 0
	}

	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			repel(&bodies[i], &bodies[j], cfg)
		}
	}

	for _, s := range springs {
		pull(&bodies[s.a], &bodies[s.b], s)
	}

	for i := range bodies {
		b := &bodies[i]
		b.fx += (cfg.Center.X - b.x) * cfg.CenterStrength
		b.fy += (cfg.Center.Y - b.y) * cfg.CenterStrength

		b.vx = (b.vx + b.fx) * cfg.Damping
		b.vy = (b.vy + b.fy) * cfg.Damping
		if v := math.Hypot(b.vx, b.vy); v > cfg.MaxVelocity {
			b.vx = b.vx / v * cfg.MaxVelocity
			b.vy = b.vy / v * cfg.MaxVelocity
		}
		b.x += b.vx
		b.y += b.vy
	}

	recenter(bodies, cfg)
	collide(bodies, cfg)
}

// repel applies Coulomb repulsion scaled by the mean strength of the pair.
func repel(a, b *body, cfg Config) {
	dx, dy := a.x-b.x, a.y-b.y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		angle := cfg.Rand.Float64() * 2 * math.Pi
		dx, dy, dist = math.Cos(angle), math.Sin(angle), 1
	}
	force := (a.repulse + b.repulse) / 2 / (dist * dist)
	fx, fy := force*dx/dist, force*dy/dist
	a.fx += fx
	a.fy += fy
	b.fx -= fx
	b.fy -= fy
}

// pull applies Hooke's law along a spring, measured between box edges.
func pull(a, b *body, s spring) {
	dx, dy := b.x-a.x, b.y-a.y
	dist := math.Max(math.Hypot(dx, dy), 1)
	rest := s.length + a.radius + b.radius
	force := s.stiffness * (dist - rest)
	fx, fy := force*dx/dist, force*dy/dist
	a.fx += fx
	a.fy += fy
	b.fx -= fx
	b.fy -= fy
}

// recenter shifts the whole system so its center of mass moves toward the
// configured center.
func recenter(bodies []body, cfg Config) {
	var sx, sy float64
	for _, b := range bodies {
		sx += b.x
		sy += b.y
	}
	n := float64(len(bodies))
	dx := (cfg.Center.X - sx/n) * cfg.GravityStrength
	dy := (cfg.Center.Y - sy/n) * cfg.GravityStrength
	for i := range bodies {
		bodies[i].x += dx
		bodies[i].y += dy
	}
}

// collide separates every pair of bodies closer than their combined radii.
func collide(bodies []body, cfg Config) {
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			a, b := &bodies[i], &bodies[j]
			minDist := a.radius + b.radius
			dx, dy := b.x-a.x, b.y-a.y
			dist := math.Hypot(dx, dy)
			if dist >= minDist {
				continue
			}
			if dist < 1e-6 {
				angle := cfg.Rand.Float64() * 2 * math.Pi
				dx, dy, dist = math.Cos(angle), math.Sin(angle), 1
			}
			shift := (minDist - dist) / 2
			ux, uy := dx/dist, dy/dist
			a.x -= ux * shift
			a.y -= uy * shift
			b.x += ux * shift
			b.y += uy * shift
		}
	}
}
