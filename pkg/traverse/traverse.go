// Package traverse walks a model.Component tree to collect bodies and
// narrows a host selection down to the solid bodies it refers to.
package traverse

import (
	"errors"
	"fmt"

	"github.com/chazu/heft/pkg/model"
)

// ErrInvalidSelection is returned when a selection names something that is
// not a body, component or face, or resolves to no solid bodies.
var ErrInvalidSelection = errors.New("invalid selection")

// SolidBodies returns every solid body reachable from root, root included,
// in pre-order: a component's own bodies first, then each occurrence's
// component in the host's iteration order.
//
// A component instanced by several occurrences contributes its bodies once
// per occurrence. A component that re-enters its own ancestry is skipped.
func SolidBodies(root model.Component) []model.Body {
	var out []model.Body
	walk(root, func(b model.Body) {
		if b.IsSolid() {
			out = append(out, b)
		}
	})
	return out
}

// AllBodies returns every body reachable from root in the same order as
// SolidBodies, without filtering out surface or construction bodies.
func AllBodies(root model.Component) []model.Body {
	var out []model.Body
	walk(root, func(b model.Body) {
		out = append(out, b)
	})
	return out
}

// IsEmpty reports whether root has neither bodies nor occurrences.
func IsEmpty(root model.Component) bool {
	return root == nil || (len(root.Bodies()) == 0 && len(root.Occurrences()) == 0)
}

// walk visits bodies in pre-order. path holds the components on the current
// branch so that a cyclic occurrence graph terminates.
func walk(root model.Component, visit func(model.Body)) {
	if root == nil {
		return
	}
	path := make(map[model.Component]bool)

	var rec func(c model.Component)
	rec = func(c model.Component) {
		if path[c] {
			return
		}
		path[c] = true
		for _, b := range c.Bodies() {
			visit(b)
		}
		for _, occ := range c.Occurrences() {
			if child := occ.Component(); child != nil {
				rec(child)
			}
		}
		delete(path, c)
	}
	rec(root)
}

// ResolveTargets narrows a selection to the solid bodies it designates.
//
// An empty selection means "everything" and returns fallback unchanged.
// Bodies are taken as-is, components are expanded with SolidBodies and
// faces resolve to their owning body; non-solid bodies are dropped.
// Duplicates are removed by identity, keeping first-seen order.
func ResolveTargets(selection []model.Entity, fallback []model.Body) ([]model.Body, error) {
	if len(selection) == 0 {
		return fallback, nil
	}

	seen := make(map[model.Body]bool)
	var out []model.Body
	add := func(b model.Body) {
		if b == nil || !b.IsSolid() || seen[b] {
			return
		}
		seen[b] = true
		out = append(out, b)
	}

	for _, e := range selection {
		switch e.Kind {
		case model.EntityBody:
			if e.Body == nil {
				return nil, fmt.Errorf("%w: empty body handle", ErrInvalidSelection)
			}
			add(e.Body)
		case model.EntityComponent:
			if e.Component == nil {
				return nil, fmt.Errorf("%w: empty component handle", ErrInvalidSelection)
			}
			for _, b := range SolidBodies(e.Component) {
				add(b)
			}
		case model.EntityFace:
			if e.Face == nil {
				return nil, fmt.Errorf("%w: empty face handle", ErrInvalidSelection)
			}
			add(e.Face.Body())
		default:
			return nil, fmt.Errorf("%w: %s is not a body, component or face", ErrInvalidSelection, e)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: selection contains no solid bodies", ErrInvalidSelection)
	}
	return out, nil
}
