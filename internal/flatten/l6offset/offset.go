package l6offset

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Offset is a rigid transform applied to root channels. Rotation is a unit
// quaternion with Real holding w and Imag/Jmag/Kmag holding x/y/z.
type Offset struct {
	Translation r3.Vec
	Rotation    quat.Number
}

// Identity returns the offset that leaves every channel unchanged.
func Identity() Offset {
	return Offset{Rotation: quat.Number{Real: 1}}
}

// NewOffset builds an offset, normalising the rotation. A zero rotation is
// taken as identity.
func NewOffset(translation r3.Vec, rotation quat.Number) Offset {
	return Offset{Translation: translation, Rotation: normalise(rotation)}
}

// HasTranslation reports whether the translation is non-zero.
func (o Offset) HasTranslation() bool {
	return o.Translation != (r3.Vec{})
}

// HasRotation reports whether the rotation differs from identity.
func (o Offset) HasRotation() bool {
	return o.Rotation != (quat.Number{Real: 1})
}

// IsIdentity reports whether applying o changes nothing.
func (o Offset) IsIdentity() bool {
	return !o.HasTranslation() && !o.HasRotation()
}

// RotationFromEuler builds a rotation from Euler angles in degrees, applied
// in Z, X, Y order (the usual game-engine convention).
func RotationFromEuler(x, y, z float64) quat.Number {
	qx := axisAngle(r3.Vec{X: 1}, x)
	qy := axisAngle(r3.Vec{Y: 1}, y)
	qz := axisAngle(r3.Vec{Z: 1}, z)
	return normalise(quat.Mul(qy, quat.Mul(qx, qz)))
}

func axisAngle(axis r3.Vec, degrees float64) quat.Number {
	half := degrees * math.Pi / 360
	s := math.Sin(half)
	return quat.Number{Real: math.Cos(half), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

func normalise(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) {
		return quat.Number{Real: 1}
	}
	if n == 1 {
		return q
	}
	return quat.Scale(1/n, q)
}
