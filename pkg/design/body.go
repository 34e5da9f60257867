package design

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/heft/pkg/graph"
	"github.com/chazu/heft/pkg/kernel"
	"github.com/chazu/heft/pkg/model"
)

// cylinderSegments is the facet count passed to the kernel for dowels.
const cylinderSegments = 32

// Body is one placed instance of a part.
type Body struct {
	design     *Design
	node       *graph.Node
	prim       graph.Primitive
	owner      *Component
	placements []graph.TransformData // outermost first

	props *model.PhysicalProperties
}

var _ model.Body = (*Body)(nil)

func (b *Body) Name() string  { return b.node.Name }
func (b *Body) IsSolid() bool { return !b.prim.IsSurface() }

// Node returns the part node this body instantiates.
func (b *Body) Node() *graph.Node { return b.node }

// Owner returns the component the body belongs to.
func (b *Body) Owner() model.Component { return b.owner }

// Placements returns the placements enclosing the body, outermost first.
func (b *Body) Placements() []graph.TransformData {
	return append([]graph.TransformData(nil), b.placements...)
}

// Origin returns where the part's local origin lands in design
// coordinates. Each placement rotates about its own origin, then
// translates, and inner placements are applied first.
func (b *Body) Origin() graph.Vec3 {
	var p r3.Vec
	for i := len(b.placements) - 1; i >= 0; i-- {
		td := b.placements[i]
		if td.Rotation != nil {
			p = eulerRotation(*td.Rotation).Rotate(p)
		}
		if td.Translation != nil {
			p = r3.Add(p, r3.Vec{X: td.Translation.X, Y: td.Translation.Y, Z: td.Translation.Z})
		}
	}
	return graph.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// eulerRotation turns angles in degrees into a rotation about X, then Y,
// then Z, matching kernel.Builder.Rotate.
func eulerRotation(deg graph.Vec3) r3.Rotation {
	const rad = math.Pi / 180
	var rx, ry, rz quat.Number
	rx.Imag, rx.Real = math.Sincos(deg.X * rad / 2)
	ry.Jmag, ry.Real = math.Sincos(deg.Y * rad / 2)
	rz.Kmag, rz.Real = math.Sincos(deg.Z * rad / 2)
	return r3.Rotation(quat.Mul(rz, quat.Mul(ry, rx)))
}

// material returns the part material, or the design default when the part
// has none.
func (b *Body) material() graph.MaterialSpec {
	if m := b.prim.PrimitiveMaterial(); !m.IsZero() {
		return m
	}
	return b.design.graph.Defaults.Material
}

func (b *Body) Material() (model.Material, bool) {
	m := b.material()
	if m.Species == "" && m.Density == 0 {
		return model.Material{}, false
	}
	return model.Material{Name: m.Species, Density: m.Density}, true
}

// boreOverrun is how far a hole cutter reaches past the faces it opens.
const boreOverrun = 1.0

// Solid builds the placed geometry: bores are cut first, then the part is
// rotated and translated.
func (b *Body) Solid() (kernel.Solid, error) {
	k := b.design.kernel
	solid, err := b.stock()
	if err != nil {
		return nil, err
	}
	if data, ok := b.prim.(graph.BoardData); ok {
		for _, h := range data.Holes {
			solid = k.Difference(solid, b.cutter(h, data.Dimensions.Z))
		}
	}
	return b.place(solid), nil
}

// stock is the primitive before any bore is cut.
func (b *Body) stock() (kernel.Solid, error) {
	k := b.design.kernel
	switch data := b.prim.(type) {
	case graph.BoardData:
		return k.Box(data.Dimensions.X, data.Dimensions.Y, data.Dimensions.Z), nil
	case graph.DowelData:
		return k.Cylinder(data.Length, data.Diameter/2, cylinderSegments), nil
	}
	return nil, fmt.Errorf("part %s has unsupported data type %T", b.node.ID.Short(), b.prim)
}

// cutter is the cylinder removed by h from a board of the given thickness.
func (b *Body) cutter(h graph.Hole, thickness float64) kernel.Solid {
	k := b.design.kernel
	top := thickness + boreOverrun
	bottom := thickness - h.DepthIn(thickness)
	if bottom <= 0 {
		bottom = -boreOverrun
	}
	c := k.Cylinder(top-bottom, h.Diameter/2, cylinderSegments)
	return k.Translate(c, h.X, h.Y, (top+bottom)/2)
}

// place applies the enclosing placements, innermost first.
func (b *Body) place(solid kernel.Solid) kernel.Solid {
	k := b.design.kernel
	for i := len(b.placements) - 1; i >= 0; i-- {
		td := b.placements[i]
		if rot := td.Rotation; rot != nil && !rot.IsZero() {
			solid = k.Rotate(solid, rot.X, rot.Y, rot.Z)
		}
		if trans := td.Translation; trans != nil && !trans.IsZero() {
			solid = k.Translate(solid, trans.X, trans.Y, trans.Z)
		}
	}
	return solid
}

// PhysicalProperties measures the placed solid with the kernel, bores
// included. Overlapping bores remove their shared stock once. Surface
// bodies have no volume. Results are cached per body.
func (b *Body) PhysicalProperties() (model.PhysicalProperties, error) {
	if b.props != nil {
		return *b.props, nil
	}

	density := b.material().Density
	props := model.PhysicalProperties{Density: density}
	if b.IsSolid() {
		solid, err := b.Solid()
		if err != nil {
			return model.PhysicalProperties{}, err
		}
		mm3, err := b.design.kernel.Volume(solid)
		if err != nil {
			return model.PhysicalProperties{}, fmt.Errorf("volume of %s: %w", b.node.DisplayName(), err)
		}
		props.Volume = mm3 / 1000
		props.Mass = density * props.Volume * 1e-6
	}
	b.props = &props
	return props, nil
}

// Faces returns the body's named faces.
func (b *Body) Faces() []model.Face {
	ids := b.prim.Faces()
	out := make([]model.Face, 0, len(ids))
	for _, id := range ids {
		out = append(out, &Face{id: id, body: b})
	}
	return out
}

// Face returns the named face, or nil when the part has no such face.
func (b *Body) Face(id graph.FaceID) *Face {
	for _, f := range b.prim.Faces() {
		if f == id {
			return &Face{id: id, body: b}
		}
	}
	return nil
}

// Face is a named face of a body.
type Face struct {
	id   graph.FaceID
	body *Body
}

// ID returns the face identifier.
func (f *Face) ID() graph.FaceID { return f.id }

func (f *Face) Name() string     { return f.body.Name() + ":" + string(f.id) }
func (f *Face) Body() model.Body { return f.body }
