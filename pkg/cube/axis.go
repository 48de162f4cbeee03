package cube

import (
	vmath "github.com/Faultbox/octacube/pkg/math"
)

// Axis is one of the six axis-aligned directions.
type Axis uint8

// Axis directions.
const (
	PosX Axis = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// AllAxes lists the six directions in declaration order.
var AllAxes = [6]Axis{PosX, NegX, PosY, NegY, PosZ, NegZ}

// AxisFromIndexSign returns the direction along axis index i (0=X, 1=Y, 2=Z)
// pointing positive when positive is true.
func AxisFromIndexSign(i int, positive bool) Axis {
	a := Axis(i * 2)
	if !positive {
		a++
	}
	return a
}

// AxisFromChar maps 'x', 'y', 'z' (any case) to the positive direction.
func AxisFromChar(c byte) (Axis, bool) {
	switch c {
	case 'x', 'X':
		return PosX, true
	case 'y', 'Y':
		return PosY, true
	case 'z', 'Z':
		return PosZ, true
	}
	return 0, false
}

// Index returns the axis index (0=X, 1=Y, 2=Z).
func (a Axis) Index() int {
	return int(a) / 2
}

// Positive reports whether the direction points along the positive axis.
func (a Axis) Positive() bool {
	return a%2 == 0
}

// Sign returns +1 or -1.
func (a Axis) Sign() int32 {
	if a.Positive() {
		return 1
	}
	return -1
}

// Opposite returns the direction pointing the other way.
func (a Axis) Opposite() Axis {
	return a ^ 1
}

// Vec3 returns the unit normal.
func (a Axis) Vec3() vmath.Vec3 {
	var v vmath.Vec3
	return v.With(a.Index(), float32(a.Sign()))
}

// IVec3 returns the unit grid offset.
func (a Axis) IVec3() vmath.IVec3 {
	var v vmath.IVec3
	switch a.Index() {
	case 0:
		v.X = a.Sign()
	case 1:
		v.Y = a.Sign()
	default:
		v.Z = a.Sign()
	}
	return v
}

// Char returns 'x', 'y' or 'z', ignoring the sign.
func (a Axis) Char() byte {
	return "xyz"[a.Index()]
}

// String returns "+X", "-Y" and so on.
func (a Axis) String() string {
	if a > NegZ {
		return "?"
	}
	sign := "+"
	if !a.Positive() {
		sign = "-"
	}
	return sign + string("XYZ"[a.Index()])
}
