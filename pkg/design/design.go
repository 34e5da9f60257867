// Package design adapts a design graph into the model view used for mass
// reporting. Assemblies become components, placed assemblies become
// occurrences and every reachable part instance becomes a body whose
// geometry is built by a kernel on demand.
package design

import (
	"fmt"
	"strings"

	"github.com/chazu/heft/pkg/graph"
	"github.com/chazu/heft/pkg/kernel"
	"github.com/chazu/heft/pkg/model"
)

// RootName names the synthetic root component.
const RootName = "root"

// transformStack holds the placements enclosing the node being built,
// outermost first.
type transformStack struct {
	placements []graph.TransformData
}

func (ts *transformStack) push(td graph.TransformData) {
	ts.placements = append(ts.placements, td)
}

func (ts *transformStack) pop() {
	if n := len(ts.placements); n > 0 {
		ts.placements = ts.placements[:n-1]
	}
}

// snapshot copies the stack for a body built at the current depth.
func (ts *transformStack) snapshot() []graph.TransformData {
	return append([]graph.TransformData(nil), ts.placements...)
}

// Design is the model view of one evaluated graph.
type Design struct {
	graph  *graph.DesignGraph
	kernel kernel.Kernel
	root   *Component

	bodies     []*Body
	parts      map[string]*Body      // first instance per part name, pre-order
	assemblies map[string]*Component // first instance per assembly name
	instances  map[string]int        // occurrence counter per assembly name
}

// Build walks the graph from its top-level nodes and returns the design.
// The graph is read, never mutated. Cyclic references are reported as
// errors; callers normally validate the graph first.
func Build(g *graph.DesignGraph, k kernel.Kernel) (*Design, error) {
	if g == nil {
		return nil, fmt.Errorf("design: nil graph")
	}
	if k == nil {
		return nil, fmt.Errorf("design: nil kernel")
	}
	d := &Design{
		graph:      g,
		kernel:     k,
		root:       &Component{name: RootName},
		parts:      make(map[string]*Body),
		assemblies: make(map[string]*Component),
		instances:  make(map[string]int),
	}

	b := &builder{d: d, path: make(map[graph.NodeID]bool)}
	for _, n := range g.TopLevel() {
		if err := b.walk(d.root, n, ""); err != nil {
			return nil, fmt.Errorf("design: error walking root %s: %w", n.ID.Short(), err)
		}
	}
	return d, nil
}

type builder struct {
	d    *Design
	ts   transformStack
	path map[graph.NodeID]bool
}

// walk adds node n to comp. occName names the occurrence when n is an
// assembly reached through a named placement.
func (b *builder) walk(comp *Component, n *graph.Node, occName string) error {
	if b.path[n.ID] {
		return fmt.Errorf("cycle through node %s", n.DisplayName())
	}
	b.path[n.ID] = true
	defer delete(b.path, n.ID)

	switch n.Kind {
	case graph.NodePrimitive:
		return b.addBody(comp, n)
	case graph.NodeTransform:
		return b.handleTransform(comp, n)
	case graph.NodeGroup:
		return b.handleGroup(comp, n, occName)
	default:
		return fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func (b *builder) addBody(comp *Component, n *graph.Node) error {
	prim, ok := n.Data.(graph.Primitive)
	if !ok {
		return fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
	body := &Body{
		design:      b.d,
		node:        n,
		prim:        prim,
		owner:       comp,
		placements:  b.ts.snapshot(),
	}
	comp.bodies = append(comp.bodies, body)
	b.d.bodies = append(b.d.bodies, body)
	if n.Name != "" {
		if _, seen := b.d.parts[n.Name]; !seen {
			b.d.parts[n.Name] = body
		}
	}
	return nil
}

// handleTransform pushes the transform, adds its children, then pops.
func (b *builder) handleTransform(comp *Component, n *graph.Node) error {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	b.ts.push(td)
	defer b.ts.pop()

	for _, child := range b.d.graph.Children(n) {
		if err := b.walk(comp, child, n.Name); err != nil {
			return err
		}
	}
	return nil
}

// handleGroup instantiates the assembly as a new component placed in comp.
func (b *builder) handleGroup(comp *Component, n *graph.Node, occName string) error {
	child := &Component{name: n.Name, node: n}
	if child.name == "" {
		child.name = n.ID.Short()
	}
	b.d.instances[child.name]++
	if occName == "" {
		occName = fmt.Sprintf("%s:%d", child.name, b.d.instances[child.name])
	}
	comp.occurrences = append(comp.occurrences, &Occurrence{name: occName, component: child})
	if _, seen := b.d.assemblies[child.name]; !seen {
		b.d.assemblies[child.name] = child
	}

	for _, c := range b.d.graph.Children(n) {
		if err := b.walk(child, c, ""); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the root component.
func (d *Design) Root() model.Component {
	return d.root
}

// Graph returns the graph the design was built from.
func (d *Design) Graph() *graph.DesignGraph {
	return d.graph
}

// Units returns the design's length unit.
func (d *Design) Units() string {
	if d.graph.Defaults.Units == "" {
		return graph.DefaultUnits
	}
	return d.graph.Defaults.Units
}

// Bodies returns every body instance in pre-order.
func (d *Design) Bodies() []*Body {
	return append([]*Body(nil), d.bodies...)
}

// Lookup resolves a selection path. "name" resolves to a part (its first
// instance) or an assembly; "name:face" resolves to a face of that part.
// Anything else is an unknown entity.
func (d *Design) Lookup(path string) model.Entity {
	name, face, hasFace := strings.Cut(path, ":")
	if hasFace {
		body := d.parts[name]
		if body == nil {
			return model.UnknownEntity(path)
		}
		if f := body.Face(graph.FaceID(face)); f != nil {
			return model.FaceEntity(f)
		}
		return model.UnknownEntity(path)
	}
	if body := d.parts[name]; body != nil {
		return model.BodyEntity(body)
	}
	if comp := d.assemblies[name]; comp != nil {
		return model.ComponentEntity(comp)
	}
	return model.UnknownEntity(path)
}

// Select resolves each path with Lookup.
func (d *Design) Select(paths ...string) []model.Entity {
	out := make([]model.Entity, 0, len(paths))
	for _, p := range paths {
		out = append(out, d.Lookup(p))
	}
	return out
}

// Component is an assembly instance, or the root.
type Component struct {
	name        string
	node        *graph.Node // nil for the root
	bodies      []model.Body
	occurrences []model.Occurrence
}

func (c *Component) Name() string                    { return c.name }
func (c *Component) Bodies() []model.Body            { return c.bodies }
func (c *Component) Occurrences() []model.Occurrence { return c.occurrences }

// Occurrence is one placement of an assembly.
type Occurrence struct {
	name      string
	component *Component
}

func (o *Occurrence) Name() string               { return o.name }
func (o *Occurrence) Component() model.Component { return o.component }
