package model

import "fmt"

// EntityKind tags the variant held by an Entity.
type EntityKind int

const (
	EntityUnknown EntityKind = iota // anything the host selected that we cannot measure
	EntityBody
	EntityComponent
	EntityFace
)

func (k EntityKind) String() string {
	switch k {
	case EntityBody:
		return "body"
	case EntityComponent:
		return "component"
	case EntityFace:
		return "face"
	default:
		return "unknown"
	}
}

// Entity is a selected host object: a body, a component or a face.
// Exactly one of the handles matching Kind is set. Use the constructors.
type Entity struct {
	Kind      EntityKind
	Body      Body
	Component Component
	Face      Face

	// Label describes an unknown entity for error messages.
	Label string
}

// BodyEntity wraps a body.
func BodyEntity(b Body) Entity {
	return Entity{Kind: EntityBody, Body: b}
}

// ComponentEntity wraps a component.
func ComponentEntity(c Component) Entity {
	return Entity{Kind: EntityComponent, Component: c}
}

// FaceEntity wraps a face.
func FaceEntity(f Face) Entity {
	return Entity{Kind: EntityFace, Face: f}
}

// UnknownEntity describes a selection that is not a body, component or face.
func UnknownEntity(label string) Entity {
	return Entity{Kind: EntityUnknown, Label: label}
}

func (e Entity) String() string {
	switch e.Kind {
	case EntityBody:
		return fmt.Sprintf("body %q", e.Body.Name())
	case EntityComponent:
		return fmt.Sprintf("component %q", e.Component.Name())
	case EntityFace:
		return fmt.Sprintf("face %q", e.Face.Name())
	default:
		return fmt.Sprintf("unknown entity %q", e.Label)
	}
}
