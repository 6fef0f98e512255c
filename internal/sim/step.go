package sim

import "math"

// minDistance bounds inverse-distance forces away from the singularity
// at zero separation.
const minDistance = 1.0

// Step advances the simulation by one tick: all forces are accumulated
// into velocities, positions are integrated, overlapping circles are
// separated, and alpha decays geometrically. A converged state is left
// untouched, so calling Step on an idle layout is a no-op.
func Step(s *State) {
	if s.Converged() {
		return
	}

	center := [2]float64{s.cfg.Width / 2, s.cfg.Height / 2}

	// Centering: weak pull of every free node toward canvas center.
	for _, n := range s.Nodes {
		if n.Pinned {
			continue
		}
		n.VX += (center[0] - n.X) * s.cfg.CenterPull * s.Alpha
		n.VY += (center[1] - n.Y) * s.cfg.CenterPull * s.Alpha
	}

	// Pairwise repulsion, bounded below minDistance. Pinned nodes still
	// push others away; they just never move themselves.
	for i, a := range s.Nodes {
		for j := i + 1; j < len(s.Nodes); j++ {
			b := s.Nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			if dx == 0 && dy == 0 {
				// Coincident nodes: separate along a deterministic axis.
				dx = 0.01 * float64(j-i)
			}
			d := math.Hypot(dx, dy)
			if d < minDistance {
				d = minDistance
			}
			f := s.cfg.Charge * s.Alpha / (d * d)
			ux, uy := dx/d, dy/d
			if !a.Pinned {
				a.VX -= ux * f
				a.VY -= uy * f
			}
			if !b.Pinned {
				b.VX += ux * f
				b.VY += uy * f
			}
		}
	}

	// Link attraction: spring toward the rest length along each edge.
	for _, e := range s.Edges {
		a, b := s.Nodes[e.Source], s.Nodes[e.Target]
		dx, dy := b.X-a.X, b.Y-a.Y
		d := math.Hypot(dx, dy)
		if d < minDistance {
			d = minDistance
		}
		f := (d - s.cfg.RestLength) / d * s.cfg.Spring * s.Alpha
		if !a.Pinned {
			a.VX += dx * f
			a.VY += dy * f
		}
		if !b.Pinned {
			b.VX -= dx * f
			b.VY -= dy * f
		}
	}

	// Integrate. Pinned nodes render exactly at their pin.
	for _, n := range s.Nodes {
		if n.Pinned {
			n.X, n.Y = n.PinX, n.PinY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= s.cfg.VelocityDecay
		n.VY *= s.cfg.VelocityDecay
		n.X += n.VX
		n.Y += n.VY
	}

	collide(s)

	s.Alpha *= s.cfg.AlphaDecay
	s.Ticks++
}

// collide separates overlapping node circles along the line connecting
// their centers. A pinned node stays put and the free node absorbs the
// whole correction.
func collide(s *State) {
	for i, a := range s.Nodes {
		for j := i + 1; j < len(s.Nodes); j++ {
			b := s.Nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			if dx == 0 && dy == 0 {
				dx = 0.01 * float64(j-i)
			}
			d := math.Hypot(dx, dy)
			overlap := a.Radius + b.Radius - d
			if overlap <= 0 {
				continue
			}
			if d < minDistance {
				d = minDistance
			}
			ux, uy := dx/d, dy/d
			switch {
			case a.Pinned && b.Pinned:
				// Both fixed: nothing to resolve.
			case a.Pinned:
				b.X += ux * overlap
				b.Y += uy * overlap
			case b.Pinned:
				a.X -= ux * overlap
				a.Y -= uy * overlap
			default:
				a.X -= ux * overlap / 2
				a.Y -= uy * overlap / 2
				b.X += ux * overlap / 2
				b.Y += uy * overlap / 2
			}
		}
	}
}

// Run advances the state until convergence, bounded by maxTicks as a
// safety net. Returns the number of ticks taken.
func Run(s *State, maxTicks int) int {
	start := s.Ticks
	for !s.Converged() && s.Ticks-start < maxTicks {
		Step(s)
	}
	return s.Ticks - start
}
