package common

import "math"

// Vec3 is a three-component float32 vector in world space.
// It is a plain value type; every method returns a new vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns the component-wise sum v + o.
//
// Parameters:
//   - o: the vector to add
//
// Returns:
//   - Vec3: the sum
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
//
// Parameters:
//   - o: the vector to subtract
//
// Returns:
//   - Vec3: the difference
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by the scalar s.
//
// Parameters:
//   - s: the scale factor
//
// Returns:
//   - Vec3: the scaled vector
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
//
// Parameters:
//   - o: the other vector
//
// Returns:
//   - float32: the dot product
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the right-handed cross product v × o.
//
// Parameters:
//   - o: the other vector
//
// Returns:
//   - Vec3: the cross product
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
//
// Returns:
//   - float32: the vector length
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length.
// Vectors shorter than 1e-8 return the zero vector rather than dividing by
// a near-zero length.
//
// Returns:
//   - Vec3: the unit vector, or the zero vector for degenerate input
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-8 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}
