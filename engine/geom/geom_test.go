package geom

import (
	"math"
	"testing"

	"github.com/bmizerany/assert"
)

func near(a, b Vector3) bool {
	return a.DistanceTo(b) < 1e-4
}

func TestTranslationCompose(t *testing.T) {
	parent := Translation(Vector3{1, 0, 0})
	child := Translation(Vector3{0, 2, 0})
	world := parent.Mul(child)
	assert.Tf(t, near(world.Position(), Vector3{1, 2, 0}), "wrong position %s", world.Position())
}

func TestRotationY(t *testing.T) {
	rot := RotationY(math.Pi / 2)
	p := rot.TransformPoint(Vector3{1, 0, 0})
	assert.Tf(t, near(p, Vector3{0, 0, -1}), "wrong rotated point %s", p)

	world := rot.Mul(Translation(Vector3{1, 0, 0}))
	assert.Tf(t, near(world.Position(), Vector3{0, 0, -1}), "wrong child position %s", world.Position())
}

func TestIdentity(t *testing.T) {
	m := Scaling(Vector3{2, 3, 4})
	assert.Equal(t, m, Identity().Mul(m))
	assert.Equal(t, m, m.Mul(Identity()))
	assert.T(t, Matrix{}.IsZero(), "zero matrix")
	assert.T(t, !Identity().IsZero(), "identity is not zero")
}

func TestVector3(t *testing.T) {
	v := Vector3{3, 4, 0}
	assert.Equal(t, Coord(5), v.Length())
	assert.T(t, near(v.Normalized(), Vector3{0.6, 0.8, 0}), "normalize")
	assert.Equal(t, Vector3{}, Vector3{}.Normalized())
	assert.Equal(t, Vector3{4, 6, 0}, v.Add(Vector3{1, 2, 0}))
	assert.Equal(t, Vector3{6, 8, 0}, v.Mul(2))
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	assert.T(t, r.Contains(10, 14), "should contain")
	assert.T(t, !r.Contains(15, 10), "should not contain")
	assert.T(t, Rect{Width: 0, Height: 3}.Empty(), "empty")
}
