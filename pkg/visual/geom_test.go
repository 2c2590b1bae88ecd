package visual

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestFromCenter(t *testing.T) {
	b := FromCenter(r2.Vec{X: 10, Y: 20}, r2.Vec{X: 4, Y: 6})
	want := r2.Box{Min: r2.Vec{X: 8, Y: 17}, Max: r2.Vec{X: 12, Y: 23}}
	if b != want {
		t.Errorf("FromCenter() = %v, want %v", b, want)
	}
	if c := Center(b); c != (r2.Vec{X: 10, Y: 20}) {
		t.Errorf("Center() = %v, want (10,20)", c)
	}
	if s := Size(b); s != (r2.Vec{X: 4, Y: 6}) {
		t.Errorf("Size() = %v, want (4,6)", s)
	}
}

func TestEnlarge(t *testing.T) {
	b := r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 10, Y: 10}}
	got := Enlarge(b, 5, 10)
	want := r2.Box{Min: r2.Vec{X: -5, Y: -10}, Max: r2.Vec{X: 15, Y: 20}}
	if got != want {
		t.Errorf("Enlarge() = %v, want %v", got, want)
	}
	if Center(got) != Center(b) {
		t.Error("Enlarge() should keep the center")
	}
}

func TestUnion(t *testing.T) {
	a := r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 1, Y: 1}}
	b := r2.Box{Min: r2.Vec{X: 5, Y: -2}, Max: r2.Vec{X: 3, Y: 4}} // non-canonical
	got := Union(a, b)
	want := r2.Box{Min: r2.Vec{X: 0, Y: -2}, Max: r2.Vec{X: 5, Y: 4}}
	if got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}
