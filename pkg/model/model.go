// Package model defines the read-only view of a hierarchical 3D design that
// mass reporting works against. A host (a CAD application binding, or the
// in-memory design package) supplies implementations; nothing here creates
// or mutates geometry.
package model

// PhysicalProperties are the host-computed physical quantities of a body.
type PhysicalProperties struct {
	Volume  float64 // cm3
	Mass    float64 // kg, derived from the body's assigned material
	Density float64 // kg/m3
}

// Material describes the material assigned to a body.
type Material struct {
	Name    string
	Density float64 // kg/m3
}

// Body is a single body in a component.
//
// Implementations must be comparable (typically pointer types): two Body
// values are the same body exactly when they compare equal.
type Body interface {
	// Name returns the body name, or "" when the body is unnamed.
	Name() string
	// IsSolid reports whether the body is a manifold solid rather than
	// surface or construction geometry.
	IsSolid() bool
	// Material returns the assigned material, if any.
	Material() (Material, bool)
	// PhysicalProperties queries the host for volume, mass and density.
	PhysicalProperties() (PhysicalProperties, error)
}

// Component owns bodies directly and places other components through
// occurrences.
type Component interface {
	Name() string
	Bodies() []Body
	Occurrences() []Occurrence
}

// Occurrence is an instance of a component placed inside a parent component.
type Occurrence interface {
	Name() string
	Component() Component
}

// Face is a boundary face of a body.
type Face interface {
	Name() string
	Body() Body
}
