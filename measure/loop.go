package measure

import "context"

type LoopOptions struct {
	Start     int
	End       int
	Increment int
	// LoopCount stops the loop at End after that many passes. 0 loops forever.
	LoopCount int
}

// Loop counts from Start to End by Increment, one step per tick, and wraps
// back to Start. It is typically bound to frame images: ImageName=frame%1.png.
type Loop struct {
	number
	opts    LoopOptions
	started bool
	passes  int
}

func NewLoop(name string, opts LoopOptions) *Loop {
	if opts.Increment == 0 {
		opts.Increment = 1
	}
	return &Loop{number: number{name: name, value: float64(opts.Start)}, opts: opts}
}

func (l *Loop) Update(context.Context) error {
	if !l.started {
		l.started = true
		l.value = float64(l.opts.Start)
		return nil
	}
	if l.opts.LoopCount > 0 && l.passes >= l.opts.LoopCount {
		return nil
	}

	next := int(l.value) + l.opts.Increment
	past := (l.opts.Increment > 0 && next > l.opts.End) || (l.opts.Increment < 0 && next < l.opts.End)
	if !past {
		l.value = float64(next)
		return nil
	}

	l.passes++
	if l.opts.LoopCount > 0 && l.passes >= l.opts.LoopCount {
		l.value = float64(l.opts.End)
		return nil
	}
	l.value = float64(l.opts.Start)
	return nil
}

// String is a constant text value.
type String struct {
	name  string
	value string
}

func NewString(name, value string) *String {
	return &String{name: name, value: value}
}

func (s *String) Name() string                 { return s.name }
func (s *String) FormattedValue() string       { return s.value }
func (s *String) Update(context.Context) error { return nil }

// Set replaces the value, for measures driven from outside the skin.
func (s *String) Set(v string) { s.value = v }
