package spring

// Value is a fixed-shape numeric value a Spring can animate. A value is
// flattened into components for integration and rebuilt afterwards; the
// number and order of components never changes for a given type.
type Value[T any] interface {
	AppendComponents(dst []float64) []float64
	FromComponents(c []float64) T
}

// Scalar is a single animated number.
type Scalar float64

func (s Scalar) AppendComponents(dst []float64) []float64 {
	return append(dst, float64(s))
}

func (Scalar) FromComponents(c []float64) Scalar {
	return Scalar(c[0])
}

// Point is an animated {x, y} pair.
type Point struct {
	X, Y float64
}

func (p Point) AppendComponents(dst []float64) []float64 {
	return append(dst, p.X, p.Y)
}

func (Point) FromComponents(c []float64) Point {
	return Point{X: c[0], Y: c[1]}
}

// Glare is an animated pointer position with an opacity.
type Glare struct {
	X, Y, O float64
}

func (g Glare) AppendComponents(dst []float64) []float64 {
	return append(dst, g.X, g.Y, g.O)
}

func (Glare) FromComponents(c []float64) Glare {
	return Glare{X: c[0], Y: c[1], O: c[2]}
}
