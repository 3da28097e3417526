// Package measure provides the data sources that image meters bind to.
//
// A measure is updated once per skin tick and exposes its current value as
// text through meter.DataSource.
package measure

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kryonlabs/kryon-meter/meter"
)

// Measure is a data source refreshed once per tick.
type Measure interface {
	meter.DataSource
	Update(ctx context.Context) error
}

// New creates the measure of the given kind ("CPU", "Memory", "Loop" or
// "String", case-insensitive) from the options in r.
func New(kind, name string, r meter.OptionReader) (Measure, error) {
	switch strings.ToLower(kind) {
	case "cpu":
		return NewCPU(name), nil
	case "memory", "physicalmemory":
		return NewMemory(name), nil
	case "loop":
		return NewLoop(name, LoopOptions{
			Start:     r.ReadInt("StartValue", 1),
			End:       r.ReadInt("EndValue", 100),
			Increment: r.ReadInt("Increment", 1),
			LoopCount: r.ReadInt("LoopCount", 0),
		}), nil
	case "string":
		return NewString(name, r.ReadString("String", "")), nil
	default:
		return nil, fmt.Errorf("measure %q: unknown measure type %q", name, kind)
	}
}

// number is the shared state of numeric measures.
type number struct {
	name  string
	value float64
}

func (n *number) Name() string { return n.name }

// FormattedValue renders the value without autoscaling and with no decimals.
func (n *number) FormattedValue() string {
	return FormatValue(n.value)
}

// FormatValue formats v with no decimals like printf's %.0f: exact halves
// round to even and small negatives keep their sign ("-0").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
