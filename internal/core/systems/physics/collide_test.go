package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/unpossible/pkg/vmath"
)

func momentum(bodies ...*Body) vmath.Vector2 {
	var p vmath.Vector2
	for _, b := range bodies {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

func TestAABBLandsOnStaticPlatform(t *testing.T) {
	box := newTestAABB(t, 0, 8, 20, 20, WithVelocity(vmath.Vec(0, 100)))
	platform := newTestAABB(t, 0, 25, 100, 20, Static())
	require.False(t, box.Grounded)

	assert.True(t, AABBvsAABB(box, platform))

	assert.True(t, box.Grounded)
	assert.Zero(t, box.Velocity.Y)
	assert.InDelta(t, 5.0, box.Position.Y, 1e-12)
	assert.Equal(t, vmath.Vec(0, 25), platform.Position)
	_, _, overlapping := aabbOverlap(box, platform)
	assert.False(t, overlapping)
}

func TestAABBJumpingThroughPlatformKeepsVelocity(t *testing.T) {
	box := newTestAABB(t, 0, 8, 20, 20, WithVelocity(vmath.Vec(0, -50)))
	platform := newTestAABB(t, 0, 25, 100, 20, Static())

	assert.True(t, AABBvsAABB(box, platform))
	assert.False(t, box.Grounded)
	assert.Equal(t, -50.0, box.Velocity.Y)
	assert.InDelta(t, 5.0, box.Position.Y, 1e-12)
}

func TestAABBStaticFirstIsResolvedSymmetrically(t *testing.T) {
	box := newTestAABB(t, 0, 8, 20, 20, WithVelocity(vmath.Vec(0, 100)))
	platform := newTestAABB(t, 0, 25, 100, 20, Static())

	assert.True(t, AABBvsAABB(platform, box))
	assert.True(t, box.Grounded)
	assert.Zero(t, box.Velocity.Y)
	assert.Equal(t, vmath.Vec(0, 25), platform.Position)
}

func TestAABBSideHitStopsHorizontally(t *testing.T) {
	box := newTestAABB(t, -13, 0, 10, 10, WithVelocity(vmath.Vec(40, 7)))
	wall := newTestAABB(t, 0, 0, 20, 100, Static())

	assert.True(t, AABBvsAABB(box, wall))
	assert.InDelta(t, -15.0, box.Position.X, 1e-12)
	assert.Zero(t, box.Velocity.X)
	assert.Equal(t, 7.0, box.Velocity.Y)
	assert.False(t, box.Grounded)
}

func TestAABBNoResidualPenetration(t *testing.T) {
	for _, offset := range []vmath.Vector2{
		{X: 0, Y: 12}, {X: 3, Y: 15}, {X: -14, Y: 2}, {X: 17, Y: -4}, {X: 9, Y: -18},
	} {
		box := newTestAABB(t, offset.X, offset.Y, 20, 20, WithVelocity(vmath.Vec(5, 5)))
		fixture := newTestAABB(t, 0, 0, 20, 20, Static())
		require.True(t, AABBvsAABB(box, fixture), "offset %v", offset)
		_, _, overlapping := aabbOverlap(box, fixture)
		assert.False(t, overlapping, "offset %v", offset)
	}
}

func TestAABBBothDynamicConservesMomentum(t *testing.T) {
	a := newTestAABB(t, 0, 0, 20, 20, WithMass(2), WithVelocity(vmath.Vec(30, 0)))
	b := newTestAABB(t, 15, 0, 20, 20, WithVelocity(vmath.Vec(-10, 0)))
	before := momentum(&a.Body, &b.Body)

	assert.True(t, AABBvsAABB(a, b))

	after := momentum(&a.Body, &b.Body)
	assertVec(t, before, after)
	assert.Less(t, a.Velocity.X, b.Velocity.X)
	assert.InDelta(t, -2.5, a.Position.X, 1e-12)
	assert.InDelta(t, 17.5, b.Position.X, 1e-12)
	_, _, overlapping := aabbOverlap(a, b)
	assert.False(t, overlapping)
}

func TestAABBBothDynamicRestingOrDepartingIsNotResolved(t *testing.T) {
	a := newTestAABB(t, 0, 0, 10, 10, WithoutGravity())
	b := newTestAABB(t, 8, 0, 10, 10, WithoutGravity())
	assert.False(t, AABBvsAABB(a, b), "resting")
	assert.InDelta(t, -1.0, a.Position.X, 1e-12)
	assert.InDelta(t, 9.0, b.Position.X, 1e-12)

	a = newTestAABB(t, 0, 0, 10, 10, WithVelocity(vmath.Vec(-5, 0)))
	b = newTestAABB(t, 8, 0, 10, 10, WithVelocity(vmath.Vec(5, 0)))
	assert.False(t, AABBvsAABB(a, b), "departing")
	assert.Equal(t, vmath.Vec(-5, 0), a.Velocity)
	assert.Equal(t, vmath.Vec(5, 0), b.Velocity)

	a = newTestAABB(t, 0, 0, 10, 10, WithVelocity(vmath.Vec(5, 0)))
	b = newTestAABB(t, 8, 0, 10, 10)
	assert.True(t, AABBvsAABB(a, b), "approaching")
}

func TestAABBVsPlaneGroundedFlag(t *testing.T) {
	ground := newGround(t, 100)
	box := newTestAABB(t, 0, 90, 20, 20)

	assert.True(t, AABBvsPlane(box, ground), "resting exactly on the plane")
	assert.True(t, box.Grounded)

	box.Position.Y = 50
	assert.False(t, AABBvsPlane(box, ground))
	assert.False(t, box.Grounded)
}

func TestAABBVsPlaneStopAndBounce(t *testing.T) {
	ground := newGround(t, 100)

	stop := newTestAABB(t, 0, 95, 20, 20, WithVelocity(vmath.Vec(10, 200)))
	assert.True(t, AABBvsPlane(stop, ground))
	assert.InDelta(t, 90.0, stop.Position.Y, 1e-12)
	assertVec(t, vmath.Vec(10, 0), stop.Velocity)
	assert.True(t, stop.Grounded)
	assert.LessOrEqual(t, 10-ground.Distance(stop.Position), 1e-9)

	bounce := newTestAABB(t, 0, 95, 20, 20,
		WithVelocity(vmath.Vec(10, 200)), WithCof(0.5), WithPlaneResponse(ResponseBounce))
	assert.True(t, AABBvsPlane(bounce, ground))
	assert.InDelta(t, 90.0, bounce.Position.Y, 1e-12)
	assertVec(t, vmath.Vec(5, -100), bounce.Velocity)
}

func TestSensorReportsWithoutResponse(t *testing.T) {
	ground := newGround(t, 100)
	var seen []Shape
	box := newTestAABB(t, 0, 95, 20, 20, Sensor(), WithVelocity(vmath.Vec(0, 10)),
		WithCallback(func(other Shape) bool {
			seen = append(seen, other)
			return false
		}))

	assert.True(t, AABBvsPlane(box, ground))
	assert.Equal(t, 95.0, box.Position.Y)
	assert.Equal(t, 10.0, box.Velocity.Y)
	require.Len(t, seen, 1)
	assert.Same(t, ground, seen[0])
}

func TestCallbackCanForceResponse(t *testing.T) {
	ground := newGround(t, 100)
	box := newTestAABB(t, 0, 95, 20, 20, Sensor(),
		WithCallback(func(Shape) bool { return true }))

	assert.True(t, AABBvsPlane(box, ground))
	assert.InDelta(t, 90.0, box.Position.Y, 1e-12)
}

func TestPolicies(t *testing.T) {
	t.Run("never resolve still runs callbacks", func(t *testing.T) {
		calls := 0
		a := newTestSphere(t, 0, 0, 10, WithPolicy(NeverResolve), WithVelocity(vmath.Vec(5, 0)),
			WithCallback(func(Shape) bool { calls++; return true }))
		b := newTestSphere(t, 15, 0, 10, WithCallback(func(Shape) bool { calls++; return true }))

		assert.True(t, SphereVsSphere(a, b))
		assert.Equal(t, 2, calls)
		assert.Equal(t, vmath.Zero, a.Position)
		assert.Equal(t, vmath.Vec(5, 0), a.Velocity)
	})

	t.Run("always resolve overrides a sensor", func(t *testing.T) {
		a := newTestSphere(t, 0, 0, 10, Sensor(), WithPolicy(AlwaysResolve))
		b := newTestSphere(t, 15, 0, 10)

		SphereVsSphere(a, b)
		assert.InDelta(t, -2.5, a.Position.X, 1e-12)
		assert.InDelta(t, 17.5, b.Position.X, 1e-12)
	})

	t.Run("never beats always", func(t *testing.T) {
		a := newTestSphere(t, 0, 0, 10, WithPolicy(AlwaysResolve))
		b := newTestSphere(t, 15, 0, 10, WithPolicy(NeverResolve))

		assert.True(t, SphereVsSphere(a, b))
		assert.Equal(t, vmath.Zero, a.Position)
	})
}

func TestSphereElasticExchange(t *testing.T) {
	a := newTestSphere(t, 0, 0, 10, WithCof(1), WithVelocity(vmath.Vec(50, 0)), WithAngularVelocity(10))
	b := newTestSphere(t, 19, 0, 10, WithCof(1), WithVelocity(vmath.Vec(-50, 0)), WithAngularVelocity(4))

	assert.True(t, SphereVsSphere(a, b))

	assertVec(t, vmath.Vec(-50, 0), a.Velocity)
	assertVec(t, vmath.Vec(50, 0), b.Velocity)
	assert.InDelta(t, 20.0, a.Position.Distance(b.Position), 1e-12)
	assert.InDelta(t, 6.0, a.AngularVelocity, 1e-12)
	assert.InDelta(t, -6.0, b.AngularVelocity, 1e-12)
}

func TestSphereImpulseConservesMomentum(t *testing.T) {
	a := newTestSphere(t, 0, 0, 10, WithMass(3), WithVelocity(vmath.Vec(20, 5)))
	b := newTestSphere(t, 15, 5, 10, WithVelocity(vmath.Vec(-10, 0)))
	before := momentum(&a.Body, &b.Body)

	require.True(t, SphereVsSphere(a, b))

	assertVec(t, before, momentum(&a.Body, &b.Body))
}

func TestSphereDepartingIsNotResolved(t *testing.T) {
	a := newTestSphere(t, 0, 0, 10, WithVelocity(vmath.Vec(-5, 0)))
	b := newTestSphere(t, 15, 0, 10, WithVelocity(vmath.Vec(5, 0)))

	assert.False(t, SphereVsSphere(a, b))
	assert.Equal(t, vmath.Vec(-5, 0), a.Velocity)
	assert.Equal(t, vmath.Vec(5, 0), b.Velocity)
	assert.InDelta(t, 20.0, a.Position.Distance(b.Position), 1e-12)
}

func TestRestingContactCancelsPushingForce(t *testing.T) {
	a := newTestSphere(t, 0, 0, 10)
	b := newTestSphere(t, 20, 0, 10, Static())

	a.AddForce(vmath.Vec(10, 3))
	a.Update(1e-9)
	a.ClearForces()
	a.Position = vmath.Zero
	b.Position = vmath.Vec(19.5, 0)

	assert.False(t, SphereVsSphere(a, b))
	assert.InDelta(t, -0.5, a.Position.X, 1e-12)

	a.Update(0)
	assertVec(t, vmath.Vec(-10, 0), a.SumForces())
	assert.Equal(t, vmath.Vec(19.5, 0), b.Position)
}

func TestSphereVsPlane(t *testing.T) {
	ground := newGround(t, 100)

	s := newTestSphere(t, 0, 95, 10, WithVelocity(vmath.Vec(0, 100)), WithAngularVelocity(40))
	assert.True(t, SphereVsPlane(s, ground))
	assert.InDelta(t, 90.0, s.Position.Y, 1e-12)
	assertVec(t, vmath.Vec(2, -70), s.Velocity)
	assert.InDelta(t, 0.8, s.AngularVelocity, 1e-12)
	assert.True(t, s.Grounded)

	below := newTestSphere(t, 0, 120, 10)
	assert.True(t, SphereVsPlane(below, ground))
	assert.InDelta(t, 90.0, below.Position.Y, 1e-12)

	above := newTestSphere(t, 0, 50, 10)
	assert.False(t, SphereVsPlane(above, ground))
}

func TestOOBBVsPlaneBounceAndSpin(t *testing.T) {
	ground := newGround(t, 100)

	straight := newTestOOBB(t, 0, 95, 20, 20, WithVelocity(vmath.Vec(0, 100)))
	assert.True(t, OOBBvsPlane(straight, ground))
	assert.InDelta(t, 90.0, straight.Position.Y, 1e-12)
	assertVec(t, vmath.Vec(0, -70), straight.Velocity)
	assert.InDelta(t, 0.0, straight.AngularVelocity, 1e-9)
	assertVec(t, vmath.Vec(-10, 100), straight.BotLeft)

	sliding := newTestOOBB(t, 0, 95, 20, 20, WithVelocity(vmath.Vec(50, 100)))
	assert.True(t, OOBBvsPlane(sliding, ground))
	assertVec(t, vmath.Vec(35, -70), sliding.Velocity)
	assert.Greater(t, sliding.AngularVelocity, 0.0)
	assert.False(t, math.IsNaN(sliding.AngularVelocity))

	clear := newTestOOBB(t, 0, 50, 20, 20)
	assert.False(t, OOBBvsPlane(clear, ground))
}

func TestOOBBFaceToFace(t *testing.T) {
	a := newTestOOBB(t, 0, 0, 20, 20, WithVelocity(vmath.Vec(10, 0)))
	b := newTestOOBB(t, 18, 0, 20, 20, WithVelocity(vmath.Vec(-10, 0)))

	assert.True(t, OOBBvsOOBB(a, b))

	assert.InDelta(t, -1.0, a.Position.X, 1e-12)
	assert.InDelta(t, 19.0, b.Position.X, 1e-12)
	assertVec(t, vmath.Vec(-7, 0), a.Velocity)
	assertVec(t, vmath.Vec(7, 0), b.Velocity)
	assert.Zero(t, a.AngularVelocity)
	assert.Zero(t, b.AngularVelocity)
}

func TestOOBBCornerHitConservesMomentum(t *testing.T) {
	a := newTestOOBB(t, 0, 0, 20, 20, WithVelocity(vmath.Vec(5, 0)))
	b := newTestOOBB(t, 22, 3, 20, 20, WithRotation(45), WithMass(2), WithVelocity(vmath.Vec(-5, 0)))
	before := momentum(&a.Body, &b.Body)

	require.True(t, OOBBvsOOBB(a, b))

	assertVec(t, before, momentum(&a.Body, &b.Body))
	assert.False(t, math.IsNaN(a.AngularVelocity) || math.IsNaN(b.AngularVelocity))
	assert.Less(t, a.Velocity.X, 5.0)
}

func TestOOBBSeparatedByAxis(t *testing.T) {
	a := newTestOOBB(t, 0, 0, 20, 20)
	b := newTestOOBB(t, 40, 0, 20, 20, WithRotation(30))
	assert.False(t, OOBBvsOOBB(a, b))
	assert.False(t, Overlaps(a, b))
}

func TestAABBVsOOBB(t *testing.T) {
	floor := newTestAABB(t, 0, 20, 200, 20, Static())
	box := newTestOOBB(t, 0, 1, 20, 20, WithVelocity(vmath.Vec(0, 30)))

	assert.True(t, AABBvsOOBB(floor, box))
	assert.Equal(t, vmath.Vec(0, 20), floor.Position)
	assert.InDelta(t, 0.0, box.Position.Y, 1e-12)
	assert.Less(t, box.Velocity.Y, 0.0)
}

func TestBoxVsSphere(t *testing.T) {
	box := newTestAABB(t, 0, 0, 20, 20, Static())
	ball := newTestSphere(t, 0, -18, 10, WithVelocity(vmath.Vec(0, 50)))

	assert.True(t, AABBvsSphere(box, ball))
	assert.Equal(t, vmath.Zero, box.Position)
	assert.InDelta(t, -20.0, ball.Position.Y, 1e-12)
	assertVec(t, vmath.Vec(0, -35), ball.Velocity)
	assert.True(t, ball.Grounded)

	tilted := newTestOOBB(t, 0, 0, 20, 20, WithRotation(45), Static())
	far := newTestSphere(t, 0, -30, 10)
	assert.False(t, OOBBvsSphere(tilted, far))
	near := newTestSphere(t, 0, -20, 10)
	assert.True(t, OOBBvsSphere(tilted, near))
	assert.Equal(t, vmath.Zero, tilted.Position)
}

func TestBoxVsColliderTerrain(t *testing.T) {
	terrain, err := NewCollider([]vmath.Vector2{{X: 0, Y: 100}, {X: 100, Y: 100}})
	require.NoError(t, err)

	box := newTestAABB(t, 50, 95, 20, 20, WithVelocity(vmath.Vec(0, 60)))
	assert.True(t, AABBvsCollider(box, terrain))
	assert.InDelta(t, 90.0, box.Position.Y, 1e-12)
	assert.Zero(t, box.Velocity.Y)
	assert.True(t, box.Grounded)

	obox := newTestOOBB(t, 50, 95, 20, 20, WithVelocity(vmath.Vec(0, 60)))
	assert.True(t, OOBBvsCollider(obox, terrain))
	assert.InDelta(t, 90.0, obox.Position.Y, 1e-12)
	assert.Less(t, obox.Velocity.Y, 0.0)

	ball := newTestSphere(t, 50, 95, 10)
	assert.True(t, SphereVsCollider(ball, terrain))
	assert.InDelta(t, 90.0, ball.Position.Y, 1e-12)

	high := newTestAABB(t, 50, 20, 20, 20)
	assert.False(t, AABBvsCollider(high, terrain))
}

func TestBoxVsColliderResolvesFirstEdgeOnly(t *testing.T) {
	// A V notch with its vertex at (0,20); the box straddles both slopes.
	notch, err := NewCollider([]vmath.Vector2{{X: -50, Y: 0}, {X: 0, Y: 20}, {X: 50, Y: 0}})
	require.NoError(t, err)
	left := Segment{A: vmath.Vec(-50, 0), B: vmath.Vec(0, 20)}
	right := Segment{A: vmath.Vec(0, 20), B: vmath.Vec(50, 0)}

	box := newTestAABB(t, 0, 15, 20, 20)
	assert.True(t, AABBvsCollider(box, notch))

	moved := box.Position.Sub(vmath.Vec(0, 15))
	assert.InDelta(t, 0, moved.Cross(right.Normal()), 1e-9, "pushed along the right slope only")
	assert.InDelta(t, 8.356294, moved.Mag(), 1e-6)
	assert.Less(t, box.Position.X, 0.0)
	assert.True(t, box.Grounded)

	corners := box.frame().corners()
	_, stillCrossing := segmentIntersection(corners[3], corners[0], left.A, left.B)
	assert.True(t, stillCrossing, "left slope is left for a later call")
}

func TestCollideDispatch(t *testing.T) {
	ground := newGround(t, 100)
	box := newTestAABB(t, 0, 95, 20, 20)
	assert.True(t, Collide(ground, box))
	assert.InDelta(t, 90.0, box.Position.Y, 1e-12)

	other := newGround(t, 50)
	assert.False(t, Collide(ground, other))
	assert.False(t, Collide(box, box))

	assert.Panics(t, func() { Collide(nil, box) })
	assert.Panics(t, func() { Overlaps(box, nil) })

	for a := range kindCount {
		for b := range kindCount {
			assert.NotNil(t, collideTable[a][b], "%s vs %s", a, b)
			assert.NotNil(t, overlapTable[a][b], "%s vs %s", a, b)
		}
	}
}

func TestOverlapsDoesNotMutate(t *testing.T) {
	calls := 0
	cb := WithCallback(func(Shape) bool { calls++; return true })
	a := newTestSphere(t, 0, 0, 10, cb, WithVelocity(vmath.Vec(5, 0)))
	b := newTestAABB(t, 12, 0, 10, 10, cb)

	assert.True(t, Overlaps(a, b))
	assert.True(t, Overlaps(b, a))
	assert.Zero(t, calls)
	assert.Equal(t, vmath.Zero, a.Position)
	assert.Equal(t, vmath.Vec(5, 0), a.Velocity)
	assert.Equal(t, vmath.Vec(12, 0), b.Position)
}

func TestStaticBodyNeverDisplaced(t *testing.T) {
	fixtures := []Shape{
		newTestAABB(t, 0, 0, 20, 20, Static()),
		newTestOOBB(t, 0, 0, 20, 20, Static(), WithRotation(20)),
		newTestSphere(t, 0, 0, 10, Static()),
	}
	for _, fixture := range fixtures {
		movers := []Shape{
			newTestAABB(t, 5, 12, 20, 20, WithVelocity(vmath.Vec(-3, -40))),
			newTestOOBB(t, 12, 5, 20, 20, WithVelocity(vmath.Vec(-30, 2))),
			newTestSphere(t, -8, -8, 10, WithVelocity(vmath.Vec(20, 20))),
		}
		fb := fixture.RigidBody()
		pos, vel := fb.Position, fb.Velocity
		for _, m := range movers {
			Collide(fixture, m)
			Collide(m, fixture)
		}
		assert.Equal(t, pos, fb.Position, "%s", fixture.Kind())
		assert.Equal(t, vel, fb.Velocity, "%s", fixture.Kind())
	}
}
