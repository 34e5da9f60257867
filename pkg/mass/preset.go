package mass

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/chazu/heft/pkg/model"
)

// MaterialMass is the mass a design would have if made entirely of one
// candidate material.
type MaterialMass struct {
	Material string
	Density  float64 // kg/m3
	Mass     float64 // kg
}

// TotalVolume sums the host-reported volume of bodies, in cubic meters.
func TotalVolume(bodies []model.Body) (float64, error) {
	vols := make([]float64, 0, len(bodies))
	for _, b := range bodies {
		props, err := b.PhysicalProperties()
		if err != nil {
			return 0, errors.Wrapf(err, "query physical properties of %s", bodyName(b))
		}
		vols = append(vols, props.Volume*CubicCMToCubicM)
	}
	return floats.SumCompensated(vols), nil
}

// PresetMasses charges the same volume (m3) to every material in table,
// in table order.
func PresetMasses(volume float64, table MaterialTable) []MaterialMass {
	out := make([]MaterialMass, 0, table.Len())
	for _, e := range table.entries {
		out = append(out, MaterialMass{
			Material: e.Name,
			Density:  e.Density,
			Mass:     e.Density * volume,
		})
	}
	return out
}

// AggregatePreset reports, for each material in table, the mass of the
// combined volume of bodies made of that material. Every material sees the
// full combined volume; assigned materials are ignored.
func AggregatePreset(bodies []model.Body, table MaterialTable, unit UnitMode, opts Options) (*Report, error) {
	if table.Len() == 0 {
		return nil, errors.New("mass: material table is empty")
	}
	volume, err := TotalVolume(bodies)
	if err != nil {
		return nil, err
	}

	r := &Report{}
	for _, m := range PresetMasses(volume, table) {
		r.Blocks = append(r.Blocks, Block{
			Heading: m.Material,
			Lines:   massLines(m.Mass, unit, opts),
		})
	}
	r.Summary = append(r.Summary, Block{
		Heading: "Total Volume",
		Lines:   []string{fmt.Sprintf("  %.*f cm3", opts.precision(), volume/CubicCMToCubicM)},
	})
	return r, nil
}
