package mass

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/chazu/heft/pkg/model"
)

// Fallback labels for bodies the host leaves unnamed or unassigned.
const (
	UnnamedBody     = "Unnamed Body"
	UnknownMaterial = "Unknown Material"
)

// BodyMass is the host-reported mass of one body.
type BodyMass struct {
	Name     string
	Material string
	Density  float64 // kg/m3, 0 when no material is assigned
	Mass     float64 // kg
}

func bodyName(b model.Body) string {
	if n := b.Name(); n != "" {
		return n
	}
	return UnnamedBody
}

// BodyMasses queries each body for its material-derived mass, in input order.
func BodyMasses(bodies []model.Body) ([]BodyMass, error) {
	out := make([]BodyMass, 0, len(bodies))
	for _, b := range bodies {
		props, err := b.PhysicalProperties()
		if err != nil {
			return nil, errors.Wrapf(err, "query physical properties of %s", bodyName(b))
		}
		bm := BodyMass{
			Name:     bodyName(b),
			Material: UnknownMaterial,
			Mass:     props.Mass,
			Density:  props.Density,
		}
		if mat, ok := b.Material(); ok {
			if mat.Name != "" {
				bm.Material = mat.Name
			}
			if bm.Density == 0 {
				bm.Density = mat.Density
			}
		}
		out = append(out, bm)
	}
	return out, nil
}

// MaterialPropertiesTotal sums host-reported masses and reports whether the
// bodies carry more than one distinct material density.
func MaterialPropertiesTotal(bodies []model.Body) (total float64, heterogeneous bool, err error) {
	masses, err := BodyMasses(bodies)
	if err != nil {
		return 0, false, err
	}
	total, heterogeneous = summarize(masses)
	return total, heterogeneous, nil
}

func summarize(masses []BodyMass) (float64, bool) {
	kg := make([]float64, 0, len(masses))
	densities := make(map[float64]struct{})
	for _, m := range masses {
		kg = append(kg, m.Mass)
		if m.Density > 0 {
			densities[m.Density] = struct{}{}
		}
	}
	return floats.SumCompensated(kg), len(densities) > 1
}

// AggregateActual reports each body's own mass followed by the combined
// total. When densities differ across bodies a "Total Mass from Material
// Properties" block is appended.
func AggregateActual(bodies []model.Body, unit UnitMode, opts Options) (*Report, error) {
	masses, err := BodyMasses(bodies)
	if err != nil {
		return nil, err
	}

	r := &Report{}
	for _, m := range masses {
		lines := []string{"  Material: " + m.Material}
		r.Blocks = append(r.Blocks, Block{
			Heading: m.Name,
			Lines:   append(lines, massLines(m.Mass, unit, opts)...),
		})
	}

	total, heterogeneous := summarize(masses)
	r.Summary = append(r.Summary, Block{
		Heading: fmt.Sprintf("Total Mass of %d Bodies", len(masses)),
		Lines:   massLines(total, unit, opts),
	})
	if heterogeneous {
		r.Summary = append(r.Summary, Block{
			Heading: "Total Mass from Material Properties",
			Lines:   massLines(total, unit, opts),
		})
	}
	return r, nil
}
