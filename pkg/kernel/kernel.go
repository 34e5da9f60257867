// Package kernel defines the abstract geometry kernel interface.
// Implementations provide solid modeling and volume measurement behind
// this interface, so the design model never depends on a concrete backend.
//
// All lengths are in millimetres and volumes in cubic millimetres.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Builder creates primitive solids and places them.
// Boxes span [0,x]x[0,y]x[0,z]; cylinders are centred on the origin
// with their axis along Z.
type Builder interface {
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
}

// Combiner performs boolean operations.
type Combiner interface {
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid
}

// Meter measures solids.
type Meter interface {
	Volume(s Solid) (float64, error)
	ToMesh(s Solid) (*Mesh, error)
}

// Kernel is a complete geometry backend.
type Kernel interface {
	Builder
	Combiner
	Meter
}
