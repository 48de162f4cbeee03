package math

// IVec3 is an integer grid coordinate.
type IVec3 struct {
	X, Y, Z int32
}

// Add returns v + other.
func (v IVec3) Add(other IVec3) IVec3 {
	return IVec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v IVec3) Sub(other IVec3) IVec3 {
	return IVec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * s.
func (v IVec3) Scale(s int32) IVec3 {
	return IVec3{v.X * s, v.Y * s, v.Z * s}
}

// Shl shifts every component left by n bits.
func (v IVec3) Shl(n uint32) IVec3 {
	return IVec3{v.X << n, v.Y << n, v.Z << n}
}

// Shr arithmetically shifts every component right by n bits.
func (v IVec3) Shr(n uint32) IVec3 {
	return IVec3{v.X >> n, v.Y >> n, v.Z >> n}
}

// Get returns component i (0=X, 1=Y, 2=Z).
func (v IVec3) Get(i int) int32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Vec3 converts to a float vector.
func (v IVec3) Vec3() Vec3 {
	return Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// InRange reports whether every component lies in [0, n).
func (v IVec3) InRange(n int32) bool {
	return v.X >= 0 && v.X < n && v.Y >= 0 && v.Y < n && v.Z >= 0 && v.Z < n
}

// MaxComponent returns the largest component.
func (v IVec3) MaxComponent() int32 {
	return max(v.X, v.Y, v.Z)
}
