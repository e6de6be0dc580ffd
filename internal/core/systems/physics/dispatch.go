package physics

type pairFunc func(s *Solver, a, b Shape) bool

var collideTable = [kindCount][kindCount]pairFunc{
	KindAABB: {
		KindAABB:     func(s *Solver, a, b Shape) bool { return s.AABBvsAABB(a.(*AABB), b.(*AABB)) },
		KindOOBB:     func(s *Solver, a, b Shape) bool { return s.AABBvsOOBB(a.(*AABB), b.(*OOBB)) },
		KindSphere:   func(s *Solver, a, b Shape) bool { return s.AABBvsSphere(a.(*AABB), b.(*Sphere)) },
		KindPlane:    func(s *Solver, a, b Shape) bool { return s.AABBvsPlane(a.(*AABB), b.(*Plane)) },
		KindCollider: func(s *Solver, a, b Shape) bool { return s.AABBvsCollider(a.(*AABB), b.(*Collider)) },
	},
	KindOOBB: {
		KindAABB:     func(s *Solver, a, b Shape) bool { return s.AABBvsOOBB(b.(*AABB), a.(*OOBB)) },
		KindOOBB:     func(s *Solver, a, b Shape) bool { return s.OOBBvsOOBB(a.(*OOBB), b.(*OOBB)) },
		KindSphere:   func(s *Solver, a, b Shape) bool { return s.OOBBvsSphere(a.(*OOBB), b.(*Sphere)) },
		KindPlane:    func(s *Solver, a, b Shape) bool { return s.OOBBvsPlane(a.(*OOBB), b.(*Plane)) },
		KindCollider: func(s *Solver, a, b Shape) bool { return s.OOBBvsCollider(a.(*OOBB), b.(*Collider)) },
	},
	KindSphere: {
		KindAABB:     func(s *Solver, a, b Shape) bool { return s.AABBvsSphere(b.(*AABB), a.(*Sphere)) },
		KindOOBB:     func(s *Solver, a, b Shape) bool { return s.OOBBvsSphere(b.(*OOBB), a.(*Sphere)) },
		KindSphere:   func(s *Solver, a, b Shape) bool { return s.SphereVsSphere(a.(*Sphere), b.(*Sphere)) },
		KindPlane:    func(s *Solver, a, b Shape) bool { return s.SphereVsPlane(a.(*Sphere), b.(*Plane)) },
		KindCollider: func(s *Solver, a, b Shape) bool { return s.SphereVsCollider(a.(*Sphere), b.(*Collider)) },
	},
	KindPlane: {
		KindAABB:     func(s *Solver, a, b Shape) bool { return s.AABBvsPlane(b.(*AABB), a.(*Plane)) },
		KindOOBB:     func(s *Solver, a, b Shape) bool { return s.OOBBvsPlane(b.(*OOBB), a.(*Plane)) },
		KindSphere:   func(s *Solver, a, b Shape) bool { return s.SphereVsPlane(b.(*Sphere), a.(*Plane)) },
		KindPlane:    staticPair,
		KindCollider: staticPair,
	},
	KindCollider: {
		KindAABB:     func(s *Solver, a, b Shape) bool { return s.AABBvsCollider(b.(*AABB), a.(*Collider)) },
		KindOOBB:     func(s *Solver, a, b Shape) bool { return s.OOBBvsCollider(b.(*OOBB), a.(*Collider)) },
		KindSphere:   func(s *Solver, a, b Shape) bool { return s.SphereVsCollider(b.(*Sphere), a.(*Collider)) },
		KindPlane:    staticPair,
		KindCollider: staticPair,
	},
}

func staticPair(*Solver, Shape, Shape) bool { return false }

// Collide detects and resolves a and b with the default tunables.
func Collide(a, b Shape) bool { return defaultSolver.Collide(a, b) }

// Collide dispatches on both kinds. Geometry against geometry never collides
// and a shape never collides with itself. Nil shapes panic.
func (s *Solver) Collide(a, b Shape) bool {
	mustShape(a)
	mustShape(b)
	if a == b {
		return false
	}
	return collideTable[a.Kind()][b.Kind()](s, a, b)
}

type overlapFunc func(a, b Shape) bool

var overlapTable = [kindCount][kindCount]overlapFunc{
	KindAABB: {
		KindAABB: func(a, b Shape) bool {
			_, _, ok := aabbOverlap(a.(*AABB), b.(*AABB))
			return ok
		},
		KindOOBB:     boxBoxOverlap,
		KindSphere:   boxSphereOverlap,
		KindPlane:    boxPlaneOverlap,
		KindCollider: boxColliderOverlap,
	},
	KindOOBB: {
		KindAABB:     boxBoxOverlap,
		KindOOBB:     boxBoxOverlap,
		KindSphere:   boxSphereOverlap,
		KindPlane:    boxPlaneOverlap,
		KindCollider: boxColliderOverlap,
	},
	KindSphere: {
		KindAABB:     swapped(boxSphereOverlap),
		KindOOBB:     swapped(boxSphereOverlap),
		KindSphere:   sphereSphereOverlap,
		KindPlane:    spherePlaneOverlap,
		KindCollider: sphereColliderOverlap,
	},
	KindPlane: {
		KindAABB:     swapped(boxPlaneOverlap),
		KindOOBB:     swapped(boxPlaneOverlap),
		KindSphere:   swapped(spherePlaneOverlap),
		KindPlane:    neverOverlap,
		KindCollider: neverOverlap,
	},
	KindCollider: {
		KindAABB:     swapped(boxColliderOverlap),
		KindOOBB:     swapped(boxColliderOverlap),
		KindSphere:   swapped(sphereColliderOverlap),
		KindPlane:    neverOverlap,
		KindCollider: neverOverlap,
	},
}

// Overlaps reports whether a and b touch without running callbacks or
// changing either shape.
func Overlaps(a, b Shape) bool {
	mustShape(a)
	mustShape(b)
	if a == b {
		return false
	}
	return overlapTable[a.Kind()][b.Kind()](a, b)
}

func swapped(f overlapFunc) overlapFunc {
	return func(a, b Shape) bool { return f(b, a) }
}

func neverOverlap(Shape, Shape) bool { return false }

func frameOf(s Shape) boxFrame {
	switch v := s.(type) {
	case *AABB:
		return v.frame()
	case *OOBB:
		return v.frame()
	default:
		panic("physics: " + s.Kind().String() + " is not a box")
	}
}

func boxBoxOverlap(a, b Shape) bool {
	_, ok := satBoxes(frameOf(a), frameOf(b))
	return ok
}

func boxSphereOverlap(a, b Shape) bool {
	_, ok := boxSphereContact(frameOf(a), b.(*Sphere))
	return ok
}

func boxPlaneOverlap(a, b Shape) bool {
	f, plane := frameOf(a), b.(*Plane)
	return f.extentAlong(plane.Normal)-plane.Distance(f.body.Position) >= 0
}

func boxColliderOverlap(a, b Shape) bool {
	_, ok := boxColliderContact(frameOf(a), b.(*Collider))
	return ok
}

func sphereSphereOverlap(a, b Shape) bool {
	sa, sb := a.(*Sphere), b.(*Sphere)
	r := sa.Radius + sb.Radius
	return sa.Position.DistanceSq(sb.Position) < r*r
}

func spherePlaneOverlap(a, b Shape) bool {
	sp, plane := a.(*Sphere), b.(*Plane)
	return plane.Distance(sp.Position) < sp.Radius
}

func sphereColliderOverlap(a, b Shape) bool {
	_, ok := sphereColliderContact(a.(*Sphere), b.(*Collider))
	return ok
}
