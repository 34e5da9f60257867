package mass

import (
	"fmt"
	"strings"
)

// DefaultPrecision is the number of decimals printed for masses.
const DefaultPrecision = 6

// ValidPrecisions lists the accepted decimal precisions.
var ValidPrecisions = map[int]bool{4: true, 6: true, 8: true}

// Options tune report formatting.
type Options struct {
	Precision int // decimals; 0 selects DefaultPrecision
}

func (o Options) precision() int {
	if o.Precision <= 0 {
		return DefaultPrecision
	}
	return o.Precision
}

// Block is one heading followed by indented value lines.
type Block struct {
	Heading string
	Lines   []string
}

// Report is the text produced by an aggregation: optional header lines, one
// block per material or body, and summary blocks at the end.
type Report struct {
	Header  []string
	Blocks  []Block
	Summary []Block
	Footer  []string
}

// Lines flattens the report into display lines. Blocks are separated by a
// blank line and there is no trailing blank line.
func (r *Report) Lines() []string {
	var out []string
	if len(r.Header) > 0 {
		out = append(out, r.Header...)
		out = append(out, "")
	}
	for _, group := range [][]Block{r.Blocks, r.Summary} {
		for _, b := range group {
			out = append(out, b.Heading+":")
			out = append(out, b.Lines...)
			out = append(out, "")
		}
	}
	if len(r.Footer) > 0 {
		out = append(out, r.Footer...)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func (r *Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

// massLines formats a mass in kilograms for the given unit mode.
func massLines(kg float64, unit UnitMode, opts Options) []string {
	p := opts.precision()
	if unit == Imperial {
		return []string{fmt.Sprintf("  %.*f lb", p, kg*KgToPound)}
	}
	return []string{
		fmt.Sprintf("  %.*f g", p, kg*KgToGram),
		fmt.Sprintf("  %.*f kg", p, kg),
	}
}

// MassBlock is a block holding a single mass in the requested unit.
func MassBlock(heading string, kg float64, unit UnitMode, opts Options) Block {
	return Block{Heading: heading, Lines: massLines(kg, unit, opts)}
}
