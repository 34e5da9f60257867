package graph

// ---------------------------------------------------------------------------
// Geometry helpers
// ---------------------------------------------------------------------------

// Vec3 is a 3D vector in millimetres (or degrees for rotations).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Axis names a principal axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// FaceID names a face of a primitive.
type FaceID string

const (
	FaceTop    FaceID = "top"
	FaceBottom FaceID = "bottom"
	FaceLeft   FaceID = "left"
	FaceRight  FaceID = "right"
	FaceFront  FaceID = "front"
	FaceBack   FaceID = "back"
	FaceSide   FaceID = "side" // lateral surface of a dowel
)

// ValidFaceIDs is the set of faces a board exposes.
var ValidFaceIDs = map[FaceID]bool{
	FaceTop:    true,
	FaceBottom: true,
	FaceLeft:   true,
	FaceRight:  true,
	FaceFront:  true,
	FaceBack:   true,
}

// BoardFaces lists board faces in a fixed order.
var BoardFaces = []FaceID{FaceTop, FaceBottom, FaceLeft, FaceRight, FaceFront, FaceBack}

// DowelFaces lists dowel faces in a fixed order.
var DowelFaces = []FaceID{FaceTop, FaceBottom, FaceSide}

// ---------------------------------------------------------------------------
// Material
// ---------------------------------------------------------------------------

// MaterialSpec describes the material a part is made of.
type MaterialSpec struct {
	Species string  `json:"species,omitempty"` // e.g. "Steel", "white-oak"
	Density float64 `json:"density,omitempty"` // kg/m3, 0 = unknown
	Grade   string  `json:"grade,omitempty"`
	Notes   string  `json:"notes,omitempty"`
}

// IsZero reports whether the spec carries no information.
func (m MaterialSpec) IsZero() bool {
	return m.Species == "" && m.Density == 0 && m.Grade == "" && m.Notes == ""
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// PrimitiveKind distinguishes between primitive shapes.
type PrimitiveKind int

const (
	PrimBoard PrimitiveKind = iota // rectangular solid
	PrimDowel                      // cylindrical solid
)

// Primitive is implemented by the node payloads that produce a body.
type Primitive interface {
	NodeData
	PrimitiveMaterial() MaterialSpec
	IsSurface() bool
	Faces() []FaceID
}

// Hole is a round bore drilled into a board from its top face, centred at
// (X, Y) in board coordinates.
type Hole struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Diameter float64 `json:"diameter"`
	Depth    float64 `json:"depth"` // 0 drills through
}

// DepthIn returns how far the hole reaches into stock of the given thickness.
func (h Hole) DepthIn(thickness float64) float64 {
	if h.Depth <= 0 || h.Depth > thickness {
		return thickness
	}
	return h.Depth
}

// BoardData represents a rectangular piece of stock.
// Surface marks construction geometry that has no solid volume of its own.
type BoardData struct {
	PrimKind   PrimitiveKind `json:"prim_kind"`
	Dimensions Vec3          `json:"dimensions"` // length x width x thickness in mm
	Grain      Axis          `json:"grain"`
	Material   MaterialSpec  `json:"material"`
	Surface    bool          `json:"surface,omitempty"`
	Holes      []Hole        `json:"holes,omitempty"`
}

func (BoardData) nodeData() {}

func (b BoardData) PrimitiveMaterial() MaterialSpec { return b.Material }
func (b BoardData) IsSurface() bool                 { return b.Surface }
func (b BoardData) Faces() []FaceID                 { return BoardFaces }

// DowelData represents a cylindrical piece (dowel rod, bar stock).
type DowelData struct {
	PrimKind PrimitiveKind `json:"prim_kind"`
	Diameter float64       `json:"diameter"` // mm
	Length   float64       `json:"length"`   // mm
	Grain    Axis          `json:"grain"`
	Material MaterialSpec  `json:"material"`
	Surface  bool          `json:"surface,omitempty"`
}

func (DowelData) nodeData() {}

func (d DowelData) PrimitiveMaterial() MaterialSpec { return d.Material }
func (d DowelData) IsSurface() bool                 { return d.Surface }
func (d DowelData) Faces() []FaceID                 { return DowelFaces }

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial placement applied to a child node.
// Created by the (place ...) form. Placing an assembly creates an
// occurrence of it; placing a part positions that part.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping (assembly, subassembly).
// Created by the (assembly ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
