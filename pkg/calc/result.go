package calc

import (
	"fmt"

	"github.com/chazu/heft/pkg/mass"
)

// Kind classifies a failed calculation.
type Kind int

const (
	EmptyDesign      Kind = iota + 1 // root has no bodies and no occurrences
	NoSolidBodies                    // traversal found nothing solid
	InvalidSelection                 // selection is unusable for the variant
	HostQueryFailure                 // any other error raised by the host
	InvalidRequest                   // the request itself is malformed
)

func (k Kind) String() string {
	switch k {
	case EmptyDesign:
		return "empty design"
	case NoSolidBodies:
		return "no solid bodies"
	case InvalidSelection:
		return "invalid selection"
	case HostQueryFailure:
		return "host query failure"
	case InvalidRequest:
		return "invalid request"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Failure describes why no report was produced.
type Failure struct {
	Kind    Kind
	Message string
	// Detail holds the stack trace for HostQueryFailure.
	Detail string
}

func (f *Failure) Error() string {
	return f.Kind.String() + ": " + f.Message
}

// Result is either a complete report or a failure, never both.
type Result struct {
	Report  *mass.Report
	Failure *Failure
	// Bodies is the number of bodies the report covers.
	Bodies int
}

// OK reports whether a report was produced.
func (r Result) OK() bool {
	return r.Failure == nil && r.Report != nil
}

// Text renders the result for display: the report, or the failure message
// followed by any detail.
func (r Result) Text() string {
	if r.OK() {
		return r.Report.String()
	}
	if r.Failure == nil {
		return ""
	}
	if r.Failure.Detail != "" {
		return "Failed:\n" + r.Failure.Detail
	}
	return r.Failure.Message
}

func fail(kind Kind, msg string) Result {
	return Result{Failure: &Failure{Kind: kind, Message: msg}}
}
