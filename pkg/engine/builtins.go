package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/heft/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMaterial wraps a graph.MaterialSpec so it can be passed between builtins.
type sexpMaterial struct {
	spec graph.MaterialSpec
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material :species %q :density %g)", m.spec.Species, m.spec.Density)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpPrimitive wraps board or dowel data so it can be returned from a
// shape builtin and consumed by `defpart`.
type sexpPrimitive struct {
	data graph.Primitive
}

func (p *sexpPrimitive) SexpString(ps *zygo.PrintState) string {
	switch d := p.data.(type) {
	case graph.BoardData:
		return fmt.Sprintf("(board %.0fx%.0fx%.0f)", d.Dimensions.X, d.Dimensions.Y, d.Dimensions.Z)
	case graph.DowelData:
		return fmt.Sprintf("(dowel %.0fx%.0f)", d.Diameter, d.Length)
	}
	return "(primitive)"
}
func (p *sexpPrimitive) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
// A trailing keyword with no value is a flag.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool accepts true/false; a bare keyword flag counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toAxis converts a keyword or string to a graph.Axis.
func toAxis(s zygo.Sexp) (graph.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	switch name {
	case "x":
		return graph.AxisX, nil
	case "y":
		return graph.AxisY, nil
	case "z":
		return graph.AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref, nil
	}
	return nil, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toMaterial extracts a MaterialSpec from a sexpMaterial.
func toMaterial(s zygo.Sexp) (graph.MaterialSpec, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.spec, nil
	}
	return graph.MaterialSpec{}, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// floatKW reads an optional numeric keyword into dst.
func floatKW(pa kwArgs, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// stringKW reads an optional string keyword into dst.
func stringKW(pa kwArgs, key string, dst *string) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = s
	return nil
}

// stockKW reads the keywords shared by every primitive.
func stockKW(pa kwArgs, grain *graph.Axis, mat *graph.MaterialSpec, surface *bool) error {
	if v, ok := pa.kw["grain"]; ok {
		a, err := toAxis(v)
		if err != nil {
			return fmt.Errorf("grain: %w", err)
		}
		*grain = a
	}
	if v, ok := pa.kw["material"]; ok {
		m, err := toMaterial(v)
		if err != nil {
			return fmt.Errorf("material: %w", err)
		}
		*mat = m
	}
	if v, ok := pa.kw["surface"]; ok {
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("surface: %w", err)
		}
		*surface = b
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the design DSL builtins into a zygomys
// environment. The builtins populate g during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph) {
	// Placement IDs are numbered per evaluation so the same source always
	// produces the same graph.
	placements := 0

	// -----------------------------------------------------------------------
	// (material :species "Steel" :density 7800 :grade "304" :notes "...")
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := graph.MaterialSpec{}

		if err := stringKW(pa, "species", &spec.Species); err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %w", err)
		}
		if err := floatKW(pa, "density", &spec.Density); err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %w", err)
		}
		if err := stringKW(pa, "grade", &spec.Grade); err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %w", err)
		}
		if err := stringKW(pa, "notes", &spec.Notes); err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %w", err)
		}

		return &sexpMaterial{spec: spec}, nil
	})

	// -----------------------------------------------------------------------
	// (board :length 400 :width 200 :thickness 19 :grain :z :material oak)
	// -----------------------------------------------------------------------
	env.AddFunction("board", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		bd := graph.BoardData{PrimKind: graph.PrimBoard}

		if err := floatKW(pa, "length", &bd.Dimensions.X); err != nil {
			return zygo.SexpNull, fmt.Errorf("board: %w", err)
		}
		if err := floatKW(pa, "width", &bd.Dimensions.Y); err != nil {
			return zygo.SexpNull, fmt.Errorf("board: %w", err)
		}
		if err := floatKW(pa, "thickness", &bd.Dimensions.Z); err != nil {
			return zygo.SexpNull, fmt.Errorf("board: %w", err)
		}
		if err := stockKW(pa, &bd.Grain, &bd.Material, &bd.Surface); err != nil {
			return zygo.SexpNull, fmt.Errorf("board: %w", err)
		}

		return &sexpPrimitive{data: bd}, nil
	})

	// -----------------------------------------------------------------------
	// (dowel :diameter 10 :length 300 :grain :z :material steel)
	// -----------------------------------------------------------------------
	env.AddFunction("dowel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		dd := graph.DowelData{PrimKind: graph.PrimDowel, Grain: graph.AxisZ}

		if err := floatKW(pa, "diameter", &dd.Diameter); err != nil {
			return zygo.SexpNull, fmt.Errorf("dowel: %w", err)
		}
		if err := floatKW(pa, "length", &dd.Length); err != nil {
			return zygo.SexpNull, fmt.Errorf("dowel: %w", err)
		}
		if err := stockKW(pa, &dd.Grain, &dd.Material, &dd.Surface); err != nil {
			return zygo.SexpNull, fmt.Errorf("dowel: %w", err)
		}

		return &sexpPrimitive{data: dd}, nil
	})

	// -----------------------------------------------------------------------
	// (bore (board ...) :diameter 8 :depth 12 :x 50 :y 30)
	// -----------------------------------------------------------------------
	env.AddFunction("bore", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("bore requires a board expression as first argument")
		}
		shape, ok := pa.positional[0].(*sexpPrimitive)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("bore: expected board expression, got %T", pa.positional[0])
		}
		bd, ok := shape.data.(graph.BoardData)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("bore: only boards can be bored")
		}

		var h graph.Hole
		for key, dst := range map[string]*float64{
			"diameter": &h.Diameter,
			"depth":    &h.Depth,
			"x":        &h.X,
			"y":        &h.Y,
		} {
			if err := floatKW(pa, key, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("bore: %w", err)
			}
		}
		if _, ok := pa.kw["diameter"]; !ok {
			return zygo.SexpNull, fmt.Errorf("bore: :diameter is required")
		}

		// Copy so a shared board expression is never modified.
		bd.Holes = append(append([]graph.Hole(nil), bd.Holes...), h)
		return &sexpPrimitive{data: bd}, nil
	})

	// -----------------------------------------------------------------------
	// (defpart "name" (board ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a shape expression")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}
		if g.Lookup(partName) != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %q is already defined", partName)
		}

		shape, ok := args[1].(*sexpPrimitive)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defpart: expected board or dowel expression, got %T", args[1])
		}

		id := graph.NewNodeID("part/" + partName)
		g.AddNode(&graph.Node{
			ID:   id,
			Kind: graph.NodePrimitive,
			Name: partName,
			Data: shape.data,
		})
		// A part is a root until something places it.
		g.AddRoot(id)

		return &sexpNodeRef{id: id, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (part "name")
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		n := g.Lookup(partName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("part: no part or assembly named %q", partName)
		}

		return &sexpNodeRef{id: n.ID, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var v [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			v[i] = f
		}

		return &sexpVec3{vec: graph.Vec3{X: v[0], Y: v[1], Z: v[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (place (part "front") :at (vec3 0 0 19) :rotate (vec3 0 0 90) :name "f")
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a part or assembly reference as first argument")
		}

		child, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			td.Rotation = &vec
		}
		var placeName string
		if err := stringKW(pa, "name", &placeName); err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}

		placements++
		label := child.name
		if label == "" {
			label = child.id.Short()
		}
		id := graph.NewNodeID(fmt.Sprintf("place/%s/%d", label, placements))

		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeTransform,
			Name:     placeName,
			Children: []graph.NodeID{child.id},
			Data:     td,
		})

		return &sexpNodeRef{id: id, name: placeName}, nil
	})

	// -----------------------------------------------------------------------
	// (assembly "name" (place ...) (part "x") (assembly ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
		}

		asmName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}
		if g.Lookup(asmName) != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: %q is already defined", asmName)
		}

		var children []graph.NodeID
		for i := 1; i < len(args); i++ {
			ref, ok := args[i].(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("assembly: child %d: expected node reference, got %T (%s)",
					i, args[i], args[i].SexpString(nil))
			}
			children = append(children, ref.id)
		}

		id := graph.NewNodeID("assembly/" + asmName)
		g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeGroup,
			Name:     asmName,
			Children: children,
			Data:     graph.GroupData{Description: asmName},
		})
		g.AddRoot(id)

		return &sexpNodeRef{id: id, name: asmName}, nil
	})

	// -----------------------------------------------------------------------
	// (units "in")
	// -----------------------------------------------------------------------
	env.AddFunction("units", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("units requires exactly 1 argument, got %d", len(args))
		}
		u, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("units: %w", err)
		}
		if !graph.ValidUnits[u] {
			return zygo.SexpNull, fmt.Errorf("units: unknown unit %q", u)
		}
		g.Defaults.Units = u
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (default-material (material ...))
	//
	// Registered as "default_material": the preprocessor rewrites kebab-case
	// identifiers because zygomys reads hyphens as subtraction.
	// -----------------------------------------------------------------------
	env.AddFunction("default_material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("default-material requires exactly 1 argument, got %d", len(args))
		}
		m, err := toMaterial(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("default-material: %w", err)
		}
		g.Defaults.Material = m
		return zygo.SexpNull, nil
	})
}
