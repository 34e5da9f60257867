package mass

import (
	"errors"
	"fmt"
	"strings"
)

// MaterialDensity pairs a material name with its density in kg/m3.
type MaterialDensity struct {
	Name    string  `yaml:"name" json:"name"`
	Density float64 `yaml:"density" json:"density"`
}

// MaterialTable is an immutable, ordered set of candidate materials.
// The zero value is an empty table.
type MaterialTable struct {
	entries []MaterialDensity
}

var (
	standardMaterials = []MaterialDensity{
		{Name: "Steel", Density: 7800},
		{Name: "Aluminum", Density: 2700},
		{Name: "ABS", Density: 1020},
	}
	extendedMaterials = append(append([]MaterialDensity(nil), standardMaterials...),
		MaterialDensity{Name: "Red Oak", Density: 570},
	)
)

// StandardMaterials returns the Steel, Aluminum, ABS table.
func StandardMaterials() MaterialTable {
	return MaterialTable{entries: standardMaterials}
}

// ExtendedMaterials returns the standard table followed by Red Oak.
func ExtendedMaterials() MaterialTable {
	return MaterialTable{entries: extendedMaterials}
}

// NewMaterialTable builds a table in the given order. Names must be
// non-empty and unique (case-insensitively); densities must be positive.
func NewMaterialTable(entries ...MaterialDensity) (MaterialTable, error) {
	if len(entries) == 0 {
		return MaterialTable{}, errors.New("mass: material table is empty")
	}
	seen := make(map[string]bool, len(entries))
	out := make([]MaterialDensity, 0, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return MaterialTable{}, fmt.Errorf("mass: material %d has no name", i)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return MaterialTable{}, fmt.Errorf("mass: duplicate material %q", name)
		}
		seen[key] = true
		if e.Density <= 0 {
			return MaterialTable{}, fmt.Errorf("mass: material %q has non-positive density %g", name, e.Density)
		}
		out = append(out, MaterialDensity{Name: name, Density: e.Density})
	}
	return MaterialTable{entries: out}, nil
}

// Len returns the number of materials.
func (t MaterialTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table in declaration order.
func (t MaterialTable) Entries() []MaterialDensity {
	return append([]MaterialDensity(nil), t.entries...)
}

// Density looks a material up by name, case-insensitively.
func (t MaterialTable) Density(name string) (float64, bool) {
	for _, e := range t.entries {
		if strings.EqualFold(e.Name, name) {
			return e.Density, true
		}
	}
	return 0, false
}
