package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/unpossible/pkg/vmath"
)

func assertVec(t *testing.T, want, got vmath.Vector2, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-9, msgAndArgs...)
}

func TestOOBBComputeAxes(t *testing.T) {
	box := newTestOOBB(t, 10, 20, 8, 4)
	assertVec(t, vmath.Up, box.Up)
	assertVec(t, vmath.Right, box.Right)
	assertVec(t, vmath.Vec(6, 18), box.TopLeft)
	assertVec(t, vmath.Vec(14, 18), box.TopRight)
	assertVec(t, vmath.Vec(14, 22), box.BotRight)
	assertVec(t, vmath.Vec(6, 22), box.BotLeft)

	box.SetRotation(90)
	box.ComputeAxes()
	assertVec(t, vmath.Vec(1, 0), box.Up)
	assertVec(t, vmath.Vec(0, 1), box.Right)
	assertVec(t, vmath.Vec(12, 16), box.TopLeft)
}

func TestOOBBFaceNormalAndContains(t *testing.T) {
	box := newTestOOBB(t, 0, 0, 20, 10)
	assertVec(t, vmath.Up, box.FaceNormal(vmath.Vec(1, -20)))
	assertVec(t, vmath.Down, box.FaceNormal(vmath.Vec(0, 7)))
	assertVec(t, vmath.Right, box.FaceNormal(vmath.Vec(30, 2)))
	assertVec(t, vmath.Left, box.FaceNormal(vmath.Vec(-30, -2)))

	assert.True(t, box.Contains(vmath.Vec(9, 4)))
	assert.False(t, box.Contains(vmath.Vec(9, 6)))

	box.SetRotation(90)
	assert.True(t, box.Contains(vmath.Vec(4, 9)))
	assert.False(t, box.Contains(vmath.Vec(9, 4)))
}

func TestAABBContains(t *testing.T) {
	box := newTestAABB(t, 0, 0, 10, 20)
	assert.True(t, box.Contains(vmath.Vec(5, 10)))
	assert.True(t, box.Contains(vmath.Vec(-5, -10)))
	assert.False(t, box.Contains(vmath.Vec(5.1, 0)))
	assert.Equal(t, vmath.Vec(-5, -10), box.Min())
	assert.Equal(t, vmath.Vec(5, 10), box.Max())
}

func TestPlaneRightAndDistance(t *testing.T) {
	ground := newGround(t, 100)
	assertVec(t, vmath.Right, ground.Right())
	assert.InDelta(t, 10.0, ground.Distance(vmath.Vec(50, 90)), 1e-12)
	assert.InDelta(t, -5.0, ground.Distance(vmath.Vec(0, 105)), 1e-12)
}

func TestColliderEdges(t *testing.T) {
	tri, err := NewCollider([]vmath.Vector2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}})
	require.NoError(t, err)
	edges := tri.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, Segment{A: vmath.Vec(5, 10), B: vmath.Vec(0, 0)}, edges[2])

	line, err := NewCollider([]vmath.Vector2{{X: 0, Y: 0}, {X: 10, Y: 0}})
	require.NoError(t, err)
	require.Len(t, line.Edges(), 1)
	assertVec(t, vmath.Up, line.Edges()[0].Normal())

	seg := Segment{A: vmath.Vec(0, 0), B: vmath.Vec(10, 0)}
	assertVec(t, vmath.Vec(4, 0), seg.ClosestPoint(vmath.Vec(4, 7)))
	assertVec(t, vmath.Vec(10, 0), seg.ClosestPoint(vmath.Vec(40, 7)))
	assert.Equal(t, vmath.Zero, Segment{}.Normal())
}

func TestSegmentIntersection(t *testing.T) {
	ip, ok := segmentIntersection(vmath.Vec(0, 0), vmath.Vec(10, 10), vmath.Vec(0, 10), vmath.Vec(10, 0))
	require.True(t, ok)
	assertVec(t, vmath.Vec(5, 5), ip)

	_, ok = segmentIntersection(vmath.Vec(0, 0), vmath.Vec(10, 0), vmath.Vec(0, 1), vmath.Vec(10, 1))
	assert.False(t, ok, "parallel")

	_, ok = segmentIntersection(vmath.Vec(0, 0), vmath.Vec(4, 4), vmath.Vec(0, 10), vmath.Vec(10, 0))
	assert.False(t, ok, "short of the other segment")

	ip, ok = segmentIntersection(vmath.Vec(0, 0), vmath.Vec(10, 0), vmath.Vec(5, 0), vmath.Vec(20, 0))
	require.True(t, ok, "collinear overlap")
	assertVec(t, vmath.Vec(5, 0), ip)

	_, ok = segmentIntersection(vmath.Vec(0, 0), vmath.Vec(10, 0), vmath.Vec(11, 0), vmath.Vec(20, 0))
	assert.False(t, ok, "collinear disjoint")
}

func TestKindAndPolicyStrings(t *testing.T) {
	assert.Equal(t, "aabb", KindAABB.String())
	assert.Equal(t, "collider", KindCollider.String())

	p, ok := ParsePolicy("never")
	assert.True(t, ok)
	assert.Equal(t, NeverResolve, p)
	_, ok = ParsePolicy("sometimes")
	assert.False(t, ok)

	r, ok := ParsePlaneResponse("bounce")
	assert.True(t, ok)
	assert.Equal(t, "bounce", r.String())
}
