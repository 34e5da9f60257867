// Package graph defines the design graph types for heft.
// The design graph is an immutable DAG of parts, placements and
// assemblies that describes a design to be measured.
package graph
