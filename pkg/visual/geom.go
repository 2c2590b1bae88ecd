package visual

import "gonum.org/v1/gonum/spatial/r2"

// FromCenter returns the rectangle of the given size centered on c.
func FromCenter(c, size r2.Vec) r2.Box {
	half := r2.Scale(0.5, size)
	return r2.Box{Min: r2.Sub(c, half), Max: r2.Add(c, half)}
}

// Enlarge grows b by dx on the left and right and by dy on the top and
// bottom. Negative values shrink it.
func Enlarge(b r2.Box, dx, dy float64) r2.Box {
	d := r2.Vec{X: dx, Y: dy}
	return r2.Box{Min: r2.Sub(b.Min, d), Max: r2.Add(b.Max, d)}
}

// Center returns the center point of b.
func Center(b r2.Box) r2.Vec {
	return r2.Scale(0.5, r2.Add(b.Min, b.Max))
}

// Size returns the width and height of b.
func Size(b r2.Box) r2.Vec {
	b = Canon(b)
	return r2.Sub(b.Max, b.Min)
}

// Canon returns b with Min and Max ordered component-wise.
func Canon(b r2.Box) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: min(b.Min.X, b.Max.X), Y: min(b.Min.Y, b.Max.Y)},
		Max: r2.Vec{X: max(b.Min.X, b.Max.X), Y: max(b.Min.Y, b.Max.Y)},
	}
}

// Union returns the smallest rectangle containing a and b.
func Union(a, b r2.Box) r2.Box {
	a, b = Canon(a), Canon(b)
	return r2.Box{
		Min: r2.Vec{X: min(a.Min.X, b.Min.X), Y: min(a.Min.Y, b.Min.Y)},
		Max: r2.Vec{X: max(a.Max.X, b.Max.X), Y: max(a.Max.Y, b.Max.Y)},
	}
}
