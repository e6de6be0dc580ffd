package physics

import (
	"math"

	"github.com/zeusync/unpossible/pkg/vmath"
)

// AABBvsPlane treats a box resting exactly on the plane as touching it. A
// miss against a ground plane clears Grounded, except during a World step.
func AABBvsPlane(box *AABB, plane *Plane) bool { return defaultSolver.AABBvsPlane(box, plane) }

func (s *Solver) AABBvsPlane(box *AABB, plane *Plane) bool {
	f := box.frame()
	depth := f.extentAlong(plane.Normal) - plane.Distance(box.Position)
	if depth < 0 {
		s.missGround(&box.Body, plane.Normal)
		return false
	}
	if shouldResolve(box, plane) {
		s.stopOrBounce(&box.Body, surfaceContact{
			normal: plane.Normal,
			point:  box.Position.Sub(plane.Normal.Scale(f.extentAlong(plane.Normal))),
			depth:  depth,
			cof:    plane.Cof,
		})
	}
	return true
}

func OOBBvsPlane(box *OOBB, plane *Plane) bool { return defaultSolver.OOBBvsPlane(box, plane) }

func (s *Solver) OOBBvsPlane(box *OOBB, plane *Plane) bool {
	defer box.ComputeAxes()
	f := box.frame()
	depth := f.extentAlong(plane.Normal) - plane.Distance(box.Position)
	if depth <= 0 {
		s.missGround(&box.Body, plane.Normal)
		return false
	}
	if shouldResolve(box, plane) {
		corners := f.corners()
		nearest := corners[0]
		for _, c := range corners[1:] {
			if plane.Distance(c) < plane.Distance(nearest) {
				nearest = c
			}
		}
		s.bounceAndSpin(&box.Body, surfaceContact{normal: plane.Normal, point: nearest, depth: depth, cof: plane.Cof})
	}
	return true
}

func SphereVsPlane(sp *Sphere, plane *Plane) bool { return defaultSolver.SphereVsPlane(sp, plane) }

func (s *Solver) SphereVsPlane(sp *Sphere, plane *Plane) bool {
	dist := plane.Distance(sp.Position)
	if dist >= sp.Radius {
		s.missGround(&sp.Body, plane.Normal)
		return false
	}
	if shouldResolve(sp, plane) {
		s.rollOff(&sp.Body, surfaceContact{
			normal: plane.Normal,
			point:  sp.Position.Sub(plane.Normal.Scale(dist)),
			depth:  sp.Radius - dist,
			cof:    plane.Cof,
		})
	}
	return true
}

// AABBvsCollider resolves only the first intersecting edge pair found, so a
// box straddling two terrain edges is pushed out of one per call.
func AABBvsCollider(box *AABB, col *Collider) bool { return defaultSolver.AABBvsCollider(box, col) }

func (s *Solver) AABBvsCollider(box *AABB, col *Collider) bool {
	c, ok := boxColliderContact(box.frame(), col)
	if !ok {
		return false
	}
	if shouldResolve(box, col) {
		s.stopOrBounce(&box.Body, c)
	}
	return true
}

func OOBBvsCollider(box *OOBB, col *Collider) bool { return defaultSolver.OOBBvsCollider(box, col) }

func (s *Solver) OOBBvsCollider(box *OOBB, col *Collider) bool {
	defer box.ComputeAxes()
	c, ok := boxColliderContact(box.frame(), col)
	if !ok {
		return false
	}
	if shouldResolve(box, col) {
		s.bounceAndSpin(&box.Body, c)
	}
	return true
}

func SphereVsCollider(sp *Sphere, col *Collider) bool { return defaultSolver.SphereVsCollider(sp, col) }

func (s *Solver) SphereVsCollider(sp *Sphere, col *Collider) bool {
	c, ok := sphereColliderContact(sp, col)
	if !ok {
		return false
	}
	if shouldResolve(sp, col) {
		s.rollOff(&sp.Body, c)
	}
	return true
}

// boxColliderContact walks the box edges against every collider edge and
// stops at the first intersection.
func boxColliderContact(f boxFrame, col *Collider) (surfaceContact, bool) {
	corners := f.corners()
	edges := col.Edges()
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		for _, e := range edges {
			ip, ok := segmentIntersection(a, b, e.A, e.B)
			if !ok {
				continue
			}
			n := e.Normal()
			if n.IsZero() {
				continue
			}
			depth := f.extentAlong(n) - f.body.Position.Sub(e.A).Dot(n)
			return surfaceContact{normal: n, point: ip, depth: math.Max(depth, 0), cof: col.Cof}, true
		}
	}
	return surfaceContact{}, false
}

func sphereColliderContact(sp *Sphere, col *Collider) (surfaceContact, bool) {
	for _, e := range col.Edges() {
		q := e.ClosestPoint(sp.Position)
		delta := sp.Position.Sub(q)
		dist := delta.Mag()
		if dist >= sp.Radius {
			continue
		}
		n := delta.Normal()
		if n.IsZero() {
			n = e.Normal()
		}
		if n.IsZero() {
			continue
		}
		return surfaceContact{normal: n, point: q, depth: sp.Radius - dist, cof: col.Cof}, true
	}
	return surfaceContact{}, false
}

// segmentIntersection intersects segments ab and cd. Overlapping collinear
// segments meet at the midpoint of ab.
func segmentIntersection(a, b, c, d vmath.Vector2) (vmath.Vector2, bool) {
	ab, cd, ac := b.Sub(a), d.Sub(c), c.Sub(a)
	denom := ab.Cross(cd)

	if vmath.Approximately(denom, 0) {
		if !vmath.Approximately(ac.Cross(ab), 0) {
			return vmath.Vector2{}, false
		}
		lenSq := ab.MagSq()
		if lenSq < vmath.Epsilon {
			return vmath.Vector2{}, false
		}
		tc := ac.Dot(ab) / lenSq
		td := d.Sub(a).Dot(ab) / lenSq
		if (tc < 0 && td < 0) || (tc > 1 && td > 1) {
			return vmath.Vector2{}, false
		}
		return a.Lerp(b, 0.5), true
	}

	r := ac.Cross(cd) / denom
	t := ac.Cross(ab) / denom
	if r < 0 || r > 1 || t < 0 || t > 1 {
		return vmath.Vector2{}, false
	}
	return a.Add(ab.Scale(r)), true
}
