// Package modeltest provides in-memory model implementations for tests.
package modeltest

import "github.com/chazu/heft/pkg/model"

// Body is a fixed-value model.Body.
type Body struct {
	BodyName     string
	Solid        bool
	MaterialName string  // "" means no material assigned
	Volume       float64 // cm3
	Mass         float64 // kg
	Density      float64 // kg/m3
	Err          error   // returned by PhysicalProperties when set
}

var _ model.Body = (*Body)(nil)

// NewSolid returns a named solid body with the given volume in cm3.
func NewSolid(name string, volumeCM3 float64) *Body {
	return &Body{BodyName: name, Solid: true, Volume: volumeCM3}
}

// NewSurface returns a named non-solid body.
func NewSurface(name string) *Body {
	return &Body{BodyName: name}
}

// WithMaterial assigns a material and derives the host mass from volume.
func (b *Body) WithMaterial(name string, density float64) *Body {
	b.MaterialName = name
	b.Density = density
	b.Mass = density * b.Volume * 1e-6
	return b
}

func (b *Body) Name() string  { return b.BodyName }
func (b *Body) IsSolid() bool { return b.Solid }

func (b *Body) Material() (model.Material, bool) {
	if b.MaterialName == "" {
		return model.Material{}, false
	}
	return model.Material{Name: b.MaterialName, Density: b.Density}, true
}

func (b *Body) PhysicalProperties() (model.PhysicalProperties, error) {
	if b.Err != nil {
		return model.PhysicalProperties{}, b.Err
	}
	return model.PhysicalProperties{Volume: b.Volume, Mass: b.Mass, Density: b.Density}, nil
}

// Component is a mutable model.Component.
type Component struct {
	CompName string
	Direct   []model.Body
	Occs     []model.Occurrence
}

var _ model.Component = (*Component)(nil)

// NewComponent returns a component owning the given bodies.
func NewComponent(name string, bodies ...model.Body) *Component {
	return &Component{CompName: name, Direct: bodies}
}

// Place adds an occurrence of child to c and returns c.
func (c *Component) Place(child model.Component) *Component {
	c.Occs = append(c.Occs, &Occurrence{OccName: child.Name() + ":1", Child: child})
	return c
}

func (c *Component) Name() string                    { return c.CompName }
func (c *Component) Bodies() []model.Body            { return c.Direct }
func (c *Component) Occurrences() []model.Occurrence { return c.Occs }

// Occurrence places a component.
type Occurrence struct {
	OccName string
	Child   model.Component
}

func (o *Occurrence) Name() string               { return o.OccName }
func (o *Occurrence) Component() model.Component { return o.Child }

// Face belongs to a body.
type Face struct {
	FaceName string
	Owner    model.Body
}

// NewFace returns a face of owner.
func NewFace(name string, owner model.Body) *Face {
	return &Face{FaceName: name, Owner: owner}
}

func (f *Face) Name() string     { return f.FaceName }
func (f *Face) Body() model.Body { return f.Owner }
