// Package calc runs one mass calculation against a design: it validates the
// design, picks target bodies according to a variant and the current
// selection, aggregates their mass and returns a report or a failure.
package calc

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chazu/heft/pkg/mass"
	"github.com/chazu/heft/pkg/model"
	"github.com/chazu/heft/pkg/traverse"
)

// HeaderLine opens every report.
const HeaderLine = "heft: Mass Calculate"

// Note appended by the multi-material variant.
const MaterialNote = "Note: Density is derived from the materials' properties."

// Variant selects how targets are chosen and which aggregation is used.
type Variant string

const (
	VariantAll           Variant = "all"
	VariantClick         Variant = "click"
	VariantMultiMaterial Variant = "multi-material"
	VariantUltimate      Variant = "ultimate"
)

// Variants lists every variant in display order.
func Variants() []Variant {
	return []Variant{VariantAll, VariantClick, VariantMultiMaterial, VariantUltimate}
}

// ParseVariant accepts a variant name, with '_' allowed in place of '-'.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if v.known() {
		return v, nil
	}
	return "", fmt.Errorf("calc: unknown variant %q", s)
}

func (v Variant) known() bool {
	for _, k := range Variants() {
		if v == k {
			return true
		}
	}
	return false
}

// DefaultTable returns the preset table a variant uses.
func (v Variant) DefaultTable() mass.MaterialTable {
	if v == VariantUltimate {
		return mass.ExtendedMaterials()
	}
	return mass.StandardMaterials()
}

// Request is one invocation.
type Request struct {
	Root      model.Component
	Selection []model.Entity
	Variant   Variant
	Unit      mass.UnitMode
	// Table overrides the variant's preset table when non-empty.
	Table   mass.MaterialTable
	Options mass.Options
	Logger  *zap.Logger
}

func (r Request) table() mass.MaterialTable {
	if r.Table.Len() > 0 {
		return r.Table
	}
	return r.Variant.DefaultTable()
}

// Run performs the calculation. It never panics: host panics are reported
// as HostQueryFailure. An unknown variant is rejected as InvalidRequest
// before the design is touched.
func Run(req Request) (res Result) {
	logger := req.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if req.Variant == "" {
		req.Variant = VariantAll
	}
	if !req.Variant.known() {
		return fail(InvalidRequest, fmt.Sprintf("unknown variant %q", req.Variant))
	}
	logger = logger.With(zap.String("variant", string(req.Variant)), zap.Stringer("unit", req.Unit))

	defer func() {
		if r := recover(); r != nil {
			res = hostFailure(errors.Errorf("panic: %v", r))
		}
		if res.Failure != nil {
			logger.Warn("mass calculation failed",
				zap.Stringer("kind", res.Failure.Kind),
				zap.String("message", res.Failure.Message))
			return
		}
		logger.Info("mass calculated", zap.Int("bodies", res.Bodies))
	}()

	if traverse.IsEmpty(req.Root) {
		return fail(EmptyDesign, "No bodies or components in the active design.")
	}
	solids := traverse.SolidBodies(req.Root)
	if len(solids) == 0 {
		return fail(NoSolidBodies, "No solid bodies in the active design.")
	}
	logger.Debug("collected solid bodies", zap.Int("count", len(solids)))

	switch req.Variant {
	case VariantAll:
		return runAll(req, solids)
	case VariantClick:
		return runClick(req, solids)
	case VariantMultiMaterial:
		return runMultiMaterial(req, solids)
	default: // VariantUltimate
		return runUltimate(req, solids)
	}
}

func hostFailure(err error) Result {
	return Result{Failure: &Failure{
		Kind:    HostQueryFailure,
		Message: err.Error(),
		Detail:  fmt.Sprintf("%+v", err),
	}}
}

// stacked attaches a stack trace unless err already carries one.
func stacked(err error) error {
	type stackTracer interface{ StackTrace() errors.StackTrace }
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return errors.WithStack(err)
}

func preset(req Request, bodies []model.Body, title string) Result {
	r, err := mass.AggregatePreset(bodies, req.table(), req.Unit, req.Options)
	if err != nil {
		return hostFailure(stacked(err))
	}
	r.Header = []string{HeaderLine, title}
	return Result{Report: r, Bodies: len(bodies)}
}

func runAll(req Request, solids []model.Body) Result {
	return preset(req, solids, fmt.Sprintf("Total Mass of %d Solid Bodies:", len(solids)))
}

func runClick(req Request, solids []model.Body) Result {
	body := solids[0]
	if len(solids) > 1 {
		switch len(req.Selection) {
		case 0:
			return fail(InvalidSelection, "No body selected")
		case 1:
		default:
			return fail(InvalidSelection, "Select exactly one body")
		}
		e := req.Selection[0]
		if e.Kind != model.EntityBody || e.Body == nil {
			return fail(InvalidSelection, "Selected entity is not a body")
		}
		if !e.Body.IsSolid() {
			return fail(InvalidSelection, "The selected entity is not a solid body")
		}
		body = e.Body
	}
	return preset(req, []model.Body{body}, fmt.Sprintf("Mass of %s:", displayName(body)))
}

func runMultiMaterial(req Request, solids []model.Body) Result {
	r, err := mass.AggregateActual(solids, req.Unit, req.Options)
	if err != nil {
		return hostFailure(stacked(err))
	}
	r.Header = []string{HeaderLine, fmt.Sprintf("Total Mass of %d Solid Bodies:", len(solids))}
	r.Footer = []string{MaterialNote}
	return Result{Report: r, Bodies: len(solids)}
}

func runUltimate(req Request, solids []model.Body) Result {
	if len(solids) == 1 {
		return preset(req, solids, "Mass of the SELECTED body:")
	}

	if len(req.Selection) > 0 {
		targets, err := traverse.ResolveTargets(req.Selection, solids)
		if err != nil {
			if errors.Is(err, traverse.ErrInvalidSelection) {
				return fail(InvalidSelection, err.Error())
			}
			return hostFailure(stacked(err))
		}
		return preset(req, targets, fmt.Sprintf("Mass of the SELECTED %s:", selectionLabel(req.Selection)))
	}

	res := preset(req, solids, "Total Mass of All Bodies:")
	if !res.OK() {
		return res
	}
	total, heterogeneous, err := mass.MaterialPropertiesTotal(solids)
	if err != nil {
		return hostFailure(stacked(err))
	}
	if heterogeneous {
		res.Report.Summary = append(res.Report.Summary,
			mass.MassBlock("Total Mass from Material Properties", total, req.Unit, req.Options))
	}
	return res
}

func selectionLabel(sel []model.Entity) string {
	if len(sel) != 1 {
		return "bodies"
	}
	switch sel[0].Kind {
	case model.EntityBody:
		return "body"
	case model.EntityComponent:
		return "component"
	case model.EntityFace:
		return "body (face)"
	default:
		return "bodies"
	}
}

func displayName(b model.Body) string {
	if n := b.Name(); n != "" {
		return n
	}
	return mass.UnnamedBody
}
