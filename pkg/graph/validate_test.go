package graph

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildShelf creates a valid graph: two parts placed into one assembly.
// Both parts are also registered as roots, as defpart does.
func buildShelf() *DesignGraph {
	g := New()

	sideID := NewNodeID("defpart/side")
	boardID := NewNodeID("defpart/board")
	placeSide := NewNodeID("place/side")
	placeBoard := NewNodeID("place/board")
	groupID := NewNodeID("assembly/shelf")

	steel := MaterialSpec{Species: "Steel", Density: 7800}

	g.AddNode(&Node{
		ID: sideID, Kind: NodePrimitive, Name: "side",
		Data: BoardData{PrimKind: PrimBoard, Dimensions: Vec3{400, 200, 19}, Material: steel},
	})
	g.AddRoot(sideID)
	g.AddNode(&Node{
		ID: boardID, Kind: NodePrimitive, Name: "board",
		Data: BoardData{PrimKind: PrimBoard, Dimensions: Vec3{262, 200, 19}, Material: steel},
	})
	g.AddRoot(boardID)

	at := Vec3{0, 0, 100}
	g.AddNode(&Node{ID: placeSide, Kind: NodeTransform, Children: []NodeID{sideID}, Data: TransformData{}})
	g.AddNode(&Node{ID: placeBoard, Kind: NodeTransform, Children: []NodeID{boardID}, Data: TransformData{Translation: &at}})
	g.AddNode(&Node{
		ID:       groupID,
		Kind:     NodeGroup,
		Name:     "shelf",
		Children: []NodeID{placeSide, placeBoard},
		Data:     GroupData{Description: "simple shelf"},
	})
	g.AddRoot(groupID)

	return g
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning-severity
// finding whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidateValidGraph(t *testing.T) {
	errs := Validate(buildShelf())
	if len(errs) != 0 {
		t.Fatalf("expected no findings, got %v", errs)
	}
}

func TestValidateEmptyGraph(t *testing.T) {
	if errs := Validate(New()); len(errs) != 0 {
		t.Fatalf("expected no findings for empty graph, got %v", errs)
	}
}

func TestValidateCycle(t *testing.T) {
	g := New()
	a := NewNodeID("assembly/a")
	b := NewNodeID("assembly/b")
	g.AddNode(&Node{ID: a, Kind: NodeGroup, Name: "a", Children: []NodeID{b}, Data: GroupData{}})
	g.AddNode(&Node{ID: b, Kind: NodeGroup, Name: "b", Children: []NodeID{a}, Data: GroupData{}})
	g.AddRoot(a)

	if !hasError(Validate(g), "cycle detected") {
		t.Fatal("expected cycle error")
	}
}

func TestValidateDanglingChild(t *testing.T) {
	g := buildShelf()
	shelf := g.MustLookup("shelf")
	shelf.Children = append(shelf.Children, NewNodeID("nowhere"))

	if !hasError(Validate(g), "does not exist") {
		t.Fatal("expected dangling reference error")
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	g := buildShelf()
	g.AddNode(&Node{
		ID: NewNodeID("defpart/side-2"), Kind: NodePrimitive, Name: "side",
		Data: BoardData{Dimensions: Vec3{1, 1, 1}, Material: MaterialSpec{Density: 1}},
	})

	if !hasError(Validate(g), "duplicate name") {
		t.Fatal("expected duplicate name error")
	}
}

func TestValidateMissingRoot(t *testing.T) {
	g := buildShelf()
	g.AddRoot(NewNodeID("ghost"))

	if !hasError(Validate(g), "root reference") {
		t.Fatal("expected missing root error")
	}
}

func TestValidateOrphanWarning(t *testing.T) {
	g := buildShelf()
	g.AddNode(&Node{
		ID: NewNodeID("defpart/loose"), Kind: NodePrimitive, Name: "loose",
		Data: BoardData{Dimensions: Vec3{1, 1, 1}, Material: MaterialSpec{Density: 1}},
	})

	errs := Validate(g)
	if !hasWarning(errs, "orphan") {
		t.Fatal("expected orphan warning")
	}
	if hasError(errs, "orphan") {
		t.Fatal("orphan should not be a blocking error")
	}
}

func TestValidateTransformArity(t *testing.T) {
	g := buildShelf()
	place := g.Get(NewNodeID("place/side"))
	place.Children = append(place.Children, NewNodeID("defpart/board"))

	if !hasError(Validate(g), "exactly one child") {
		t.Fatal("expected transform arity error")
	}
}

func TestValidateNonPositiveDimensions(t *testing.T) {
	tests := []struct {
		name string
		data NodeData
		want string
	}{
		{"zero board X", BoardData{Dimensions: Vec3{0, 10, 10}}, "board dimension X"},
		{"negative board Z", BoardData{Dimensions: Vec3{10, 10, -1}}, "board dimension Z"},
		{"zero dowel diameter", DowelData{Diameter: 0, Length: 10}, "dowel diameter"},
		{"zero dowel length", DowelData{Diameter: 10, Length: 0}, "dowel length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			id := NewNodeID("defpart/p")
			g.AddNode(&Node{ID: id, Kind: NodePrimitive, Name: "p", Data: tt.data})
			g.AddRoot(id)
			if !hasError(Validate(g), tt.want) {
				t.Fatalf("expected error containing %q", tt.want)
			}
		})
	}
}

func TestValidateHoles(t *testing.T) {
	dims := Vec3{100, 50, 10}
	tests := []struct {
		name string
		hole Hole
		want string
	}{
		{"zero diameter", Hole{X: 50, Y: 25}, "diameter is 0.0000"},
		{"negative depth", Hole{X: 50, Y: 25, Diameter: 5, Depth: -1}, "must not be negative"},
		{"deeper than board", Hole{X: 50, Y: 25, Diameter: 5, Depth: 11}, "exceeds board thickness"},
		{"past the edge", Hole{X: 98, Y: 25, Diameter: 5}, "does not fit"},
		{"past the near edge", Hole{X: 50, Y: 1, Diameter: 5}, "does not fit"},
		{"fits", Hole{X: 50, Y: 25, Diameter: 50, Depth: 10}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			id := NewNodeID("defpart/p")
			g.AddNode(&Node{ID: id, Kind: NodePrimitive, Name: "p",
				Data: BoardData{Dimensions: dims, Material: MaterialSpec{Density: 1}, Holes: []Hole{tt.hole}}})
			g.AddRoot(id)
			errs := Validate(g)
			if tt.want == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected findings: %v", errs)
				}
				return
			}
			if !hasError(errs, tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, errs)
			}
		})
	}
}

func TestHoleDepthIn(t *testing.T) {
	for _, tc := range []struct {
		depth, want float64
	}{
		{0, 19},
		{12, 12},
		{19, 19},
		{25, 19},
	} {
		if got := (Hole{Diameter: 5, Depth: tc.depth}).DepthIn(19); got != tc.want {
			t.Errorf("DepthIn with depth %v = %v, want %v", tc.depth, got, tc.want)
		}
	}
}

func TestValidateMaterials(t *testing.T) {
	g := New()
	neg := NewNodeID("defpart/neg")
	none := NewNodeID("defpart/none")
	sheet := NewNodeID("defpart/sheet")
	g.AddNode(&Node{ID: neg, Kind: NodePrimitive, Name: "neg",
		Data: BoardData{Dimensions: Vec3{1, 1, 1}, Material: MaterialSpec{Density: -5}}})
	g.AddNode(&Node{ID: none, Kind: NodePrimitive, Name: "none",
		Data: BoardData{Dimensions: Vec3{1, 1, 1}}})
	g.AddNode(&Node{ID: sheet, Kind: NodePrimitive, Name: "sheet",
		Data: BoardData{Dimensions: Vec3{1, 1, 1}, Surface: true}})
	g.AddRoot(neg)
	g.AddRoot(none)
	g.AddRoot(sheet)

	errs := Validate(g)
	if !hasError(errs, "negative") {
		t.Error("expected negative density error")
	}
	if !hasWarning(errs, `part "none" has no material density`) {
		t.Error("expected missing density warning")
	}
	if hasWarning(errs, `part "sheet"`) {
		t.Error("surface parts should not warn about density")
	}

	// A default material silences the warning.
	g.Defaults.Material = MaterialSpec{Species: "ABS", Density: 1020}
	if hasWarning(Validate(g), "no material density") {
		t.Error("default material density should satisfy parts without one")
	}
}

func TestValidateUnits(t *testing.T) {
	g := New()
	g.Defaults.Units = "furlong"
	if !hasError(Validate(g), "unknown length unit") {
		t.Fatal("expected unknown unit error")
	}

	g.Defaults.Units = "in"
	if errs := Validate(g); len(errs) != 0 {
		t.Fatalf("expected inches to be accepted, got %v", errs)
	}
}

func TestValidateAllSeparatesWarnings(t *testing.T) {
	g := buildShelf()
	g.AddNode(&Node{
		ID: NewNodeID("defpart/loose"), Kind: NodePrimitive, Name: "loose",
		Data: BoardData{Dimensions: Vec3{0, 1, 1}, Material: MaterialSpec{Density: 1}},
	})

	res := ValidateAll(g)
	if res.OK() {
		t.Fatal("expected blocking errors")
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected orphan warning")
	}
	for _, e := range res.Errors {
		if e.Severity != SeverityError {
			t.Errorf("warning leaked into errors: %v", e)
		}
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "bad", Severity: SeverityError}
	if got := e.Error(); got != "[error] bad" {
		t.Errorf("Error() = %q", got)
	}

	id := NewNodeID("x")
	e = ValidationError{NodeID: id, Message: "meh", Severity: SeverityWarning}
	want := "[warning] node " + id.Short() + ": meh"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
