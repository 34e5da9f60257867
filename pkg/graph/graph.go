package graph

import "fmt"

// DefaultUnits is the display length unit unless (units ...) says otherwise.
// Geometry is always modelled in millimetres; the unit only selects how
// masses are reported.
const DefaultUnits = "mm"

// ValidUnits lists the accepted length unit names.
var ValidUnits = map[string]bool{
	"mm": true,
	"cm": true,
	"m":  true,
	"in": true,
	"ft": true,
}

// GlobalDefaults contains graph-wide default settings.
type GlobalDefaults struct {
	Material MaterialSpec `json:"material"` // used by parts without a material
	Units    string       `json:"units"`    // preferred display length unit
}

// DesignGraph is the top-level immutable data structure produced by Lisp evaluation.
// It is never mutated in place; each evaluation produces a new graph.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  GlobalDefaults    `json:"defaults"`
	Version   uint64            `json:"version"`
}

// New creates an empty DesignGraph with default settings.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Defaults: GlobalDefaults{
			Units: DefaultUnits,
		},
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *DesignGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Parts returns all primitive nodes in the graph.
func (g *DesignGraph) Parts() []*Node {
	return g.ofKind(NodePrimitive)
}

// Assemblies returns all group nodes in the graph.
func (g *DesignGraph) Assemblies() []*Node {
	return g.ofKind(NodeGroup)
}

func (g *DesignGraph) ofKind(kind NodeKind) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// TopLevel returns the root nodes that are not also referenced as a child of
// another node, in registration order. A part defined with defpart and then
// placed into an assembly is therefore counted once, inside the assembly.
func (g *DesignGraph) TopLevel() []*Node {
	referenced := make(map[NodeID]bool)
	for _, n := range g.Nodes {
		for _, cid := range n.Children {
			referenced[cid] = true
		}
	}

	seen := make(map[NodeID]bool, len(g.Roots))
	var out []*Node
	for _, id := range g.Roots {
		if referenced[id] || seen[id] {
			continue
		}
		seen[id] = true
		if n := g.Nodes[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
