package measure

import (
	"context"
	"testing"
)

type noOptions struct{}

func (noOptions) ReadString(_, def string) string { return def }
func (noOptions) ReadInt(_ string, def int) int   { return def }
func (noOptions) IsDefined(string) bool           { return false }

func TestFormatValue(t *testing.T) {
	type tc struct {
		in   float64
		want string
	}

	tests := map[string]tc{
		"integer":       {in: 42, want: "42"},
		"rounds down":   {in: 12.4, want: "12"},
		"rounds up":     {in: 12.6, want: "13"},
		"half to even":  {in: 2.5, want: "2"},
		"half up odd":   {in: 13.5, want: "14"},
		"half down":     {in: 12.5, want: "12"},
		"negative":      {in: -3.6, want: "-4"},
		"negative zero": {in: -0.2, want: "-0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoop(t *testing.T) {
	type tc struct {
		opts LoopOptions
		want []string
	}

	tests := map[string]tc{
		"wraps": {
			opts: LoopOptions{Start: 1, End: 3, Increment: 1},
			want: []string{"1", "2", "3", "1", "2"},
		},
		"step past end wraps": {
			opts: LoopOptions{Start: 0, End: 5, Increment: 2},
			want: []string{"0", "2", "4", "0", "2"},
		},
		"counts down": {
			opts: LoopOptions{Start: 3, End: 1, Increment: -1},
			want: []string{"3", "2", "1", "3"},
		},
		"stops after loop count": {
			opts: LoopOptions{Start: 1, End: 2, Increment: 1, LoopCount: 1},
			want: []string{"1", "2", "2", "2"},
		},
		"zero increment defaults to one": {
			opts: LoopOptions{Start: 1, End: 2},
			want: []string{"1", "2", "1"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			l := NewLoop("MeasureLoop", tt.opts)
			for i, want := range tt.want {
				if err := l.Update(context.Background()); err != nil {
					t.Fatalf("Update() error = %v", err)
				}
				if got := l.FormattedValue(); got != want {
					t.Fatalf("tick %d: FormattedValue() = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestNew(t *testing.T) {
	type tc struct {
		kind    string
		wantErr bool
	}

	tests := map[string]tc{
		"cpu":          {kind: "CPU"},
		"memory":       {kind: "memory"},
		"loop":         {kind: "Loop"},
		"string":       {kind: "String"},
		"unknown type": {kind: "Calc", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := New(tt.kind, "MeasureX", noOptions{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if err == nil && m.Name() != "MeasureX" {
				t.Errorf("Name() = %q, want MeasureX", m.Name())
			}
		})
	}
}

func TestString(t *testing.T) {
	s := NewString("MeasureName", "cover.png")
	if s.FormattedValue() != "cover.png" {
		t.Errorf("FormattedValue() = %q", s.FormattedValue())
	}
	s.Set("other.png")
	if err := s.Update(context.Background()); err != nil || s.FormattedValue() != "other.png" {
		t.Errorf("after Set: FormattedValue() = %q, err = %v", s.FormattedValue(), err)
	}
}
