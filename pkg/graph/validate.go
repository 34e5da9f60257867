package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result has no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs all structural and geometric checks on the design graph
// and returns every finding. An empty slice means the graph is valid.
// This function is read-only and never mutates the graph.
func Validate(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateShapes(g)...)
	errs = append(errs, validateDimensions(g)...)
	errs = append(errs, validateMaterials(g)...)
	errs = append(errs, validateUnits(g)...)
	return errs
}

// ValidateAll runs Validate and separates errors from warnings.
func ValidateAll(g *DesignGraph) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(g) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
// If we encounter a gray node during traversal, we have found a cycle.
func validateDAG(g *DesignGraph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	for id := range g.Nodes {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child reference points to a node that
// exists in g.Nodes.
func validateReferences(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		for _, childID := range node.Children {
			if _, ok := g.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateNames checks that the NameIndex is injective and that every entry
// points to an existing node.
func validateNames(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range g.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root ID references an existing node and
// warns about orphan nodes (nodes unreachable from any root).
func validateRoots(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	if len(g.Nodes) == 0 {
		return errs
	}

	// Orphan detection: BFS from all roots through Children edges.
	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range g.Nodes {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", node.DisplayName()),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateShapes checks that each node kind carries the matching payload and
// child arity: primitives are leaves, transforms wrap exactly one child.
func validateShapes(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		switch node.Kind {
		case NodePrimitive:
			if _, ok := node.Data.(Primitive); !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("primitive has unsupported data type %T", node.Data),
					Severity: SeverityError,
				})
			}
			if len(node.Children) > 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  "primitive must not have children",
					Severity: SeverityError,
				})
			}
		case NodeTransform:
			if _, ok := node.Data.(TransformData); !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("transform has unexpected data type %T", node.Data),
					Severity: SeverityError,
				})
			}
			if len(node.Children) != 1 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("transform must wrap exactly one child, has %d", len(node.Children)),
					Severity: SeverityError,
				})
			}
		case NodeGroup:
			if len(node.Children) == 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("assembly %q is empty", node.DisplayName()),
					Severity: SeverityWarning,
				})
			}
		default:
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("unknown node kind %d", int(node.Kind)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateDimensions checks that every primitive has strictly positive size.
func validateDimensions(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	positive := func(node *Node, what string, v float64) {
		if v <= 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s is %.4f, must be positive", what, v),
				Severity: SeverityError,
			})
		}
	}

	for _, node := range g.Nodes {
		switch d := node.Data.(type) {
		case BoardData:
			positive(node, "board dimension X", d.Dimensions.X)
			positive(node, "board dimension Y", d.Dimensions.Y)
			positive(node, "board dimension Z", d.Dimensions.Z)
			for i, h := range d.Holes {
				errs = append(errs, validateHole(node, i, h, d.Dimensions)...)
			}
		case DowelData:
			positive(node, "dowel diameter", d.Diameter)
			positive(node, "dowel length", d.Length)
		}
	}

	return errs
}

// validateHole checks that a bore fits inside the board it is drilled into.
func validateHole(node *Node, i int, h Hole, dims Vec3) []ValidationError {
	fail := func(format string, args ...any) []ValidationError {
		return []ValidationError{{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("hole %d: ", i+1) + fmt.Sprintf(format, args...),
			Severity: SeverityError,
		}}
	}
	r := h.Diameter / 2
	switch {
	case h.Diameter <= 0:
		return fail("diameter is %.4f, must be positive", h.Diameter)
	case h.Depth < 0:
		return fail("depth is %.4f, must not be negative", h.Depth)
	case h.Depth > dims.Z:
		return fail("depth %.4f exceeds board thickness %.4f", h.Depth, dims.Z)
	case h.X-r < 0 || h.X+r > dims.X || h.Y-r < 0 || h.Y+r > dims.Y:
		return fail("diameter %.4f at (%.4f, %.4f) does not fit the board", h.Diameter, h.X, h.Y)
	}
	return nil
}

// validateMaterials rejects negative densities and warns about solid parts
// whose mass cannot be derived because no density is known.
func validateMaterials(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	if g.Defaults.Material.Density < 0 {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("default material density %.4f is negative", g.Defaults.Material.Density),
			Severity: SeverityError,
		})
	}

	for _, node := range g.Nodes {
		p, ok := node.Data.(Primitive)
		if !ok {
			continue
		}
		m := p.PrimitiveMaterial()
		if m.Density < 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("material density %.4f is negative", m.Density),
				Severity: SeverityError,
			})
			continue
		}
		if !p.IsSurface() && m.Density == 0 && g.Defaults.Material.Density == 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("part %q has no material density; its mass will be zero", node.DisplayName()),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateUnits checks the design's preferred length unit.
func validateUnits(g *DesignGraph) []ValidationError {
	if ValidUnits[g.Defaults.Units] {
		return nil
	}
	return []ValidationError{{
		Message:  fmt.Sprintf("unknown length unit %q", g.Defaults.Units),
		Severity: SeverityError,
	}}
}
