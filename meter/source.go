package meter

import (
	"strconv"
	"strings"
)

// DataSource is a live value a meter can bind to, such as a measure.
type DataSource interface {
	// Name identifies the source in [Name] template tokens.
	Name() string
	// FormattedValue is the source's current value as text.
	FormattedValue() string
}

// ReplaceTokens substitutes source references in template. %1, %2, ... refer to
// sources by bound position (1-based) and [Name] refers to a source by name,
// case-insensitively. Unknown references are left untouched. The second result
// reports whether any substitution happened.
func ReplaceTokens(template string, sources []DataSource) (string, bool) {
	if len(sources) == 0 || template == "" {
		return template, false
	}

	var b strings.Builder
	replaced := false
	for i := 0; i < len(template); {
		switch template[i] {
		case '%':
			if src, n := indexedSource(template[i+1:], sources); src != nil {
				b.WriteString(src.FormattedValue())
				replaced = true
				i += 1 + n
				continue
			}
		case '[':
			if end := strings.IndexByte(template[i+1:], ']'); end >= 0 {
				name := template[i+1 : i+1+end]
				if src := findSource(sources, name); src != nil {
					b.WriteString(src.FormattedValue())
					replaced = true
					i += end + 2
					continue
				}
			}
		}
		b.WriteByte(template[i])
		i++
	}
	return b.String(), replaced
}

// indexedSource reads the source index at the start of s. The longest prefix
// of digits naming a bound source wins, so with one source "10" reads as 1
// followed by a literal "0". It returns the source and the digits consumed.
func indexedSource(s string, sources []DataSource) (DataSource, int) {
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 || s[0] == '0' {
		return nil, 0
	}
	for ; digits > 0; digits-- {
		if n, err := strconv.Atoi(s[:digits]); err == nil && n <= len(sources) {
			return sources[n-1], digits
		}
	}
	return nil, 0
}

func findSource(sources []DataSource, name string) DataSource {
	if name == "" {
		return nil
	}
	for _, s := range sources {
		if strings.EqualFold(s.Name(), name) {
			return s
		}
	}
	return nil
}

// ResolveName computes the bitmap identifier for the current tick.
//
// Without sources the template is used verbatim. With sources, an empty
// template yields the first source's value; otherwise the template's tokens
// are substituted, and a template without any tokens is treated as a label so
// the first source's value is used instead.
func ResolveName(template string, sources []DataSource) string {
	if len(sources) == 0 {
		return template
	}
	if template == "" {
		return sources[0].FormattedValue()
	}
	name, replaced := ReplaceTokens(template, sources)
	if !replaced {
		return sources[0].FormattedValue()
	}
	return name
}

// NameResolver tracks the identifier resolved on the previous tick so reloads
// only happen when it changes.
type NameResolver struct {
	Template string
	Sources  []DataSource

	previous string
	resolved bool
}

// Resolve returns the current identifier and whether it differs from the one
// returned by the previous call. The first call always reports a change.
func (r *NameResolver) Resolve() (string, bool) {
	name := ResolveName(r.Template, r.Sources)
	changed := !r.resolved || name != r.previous
	r.previous = name
	r.resolved = true
	return name, changed
}

// Reset forgets the previous identifier, forcing the next Resolve to report a change.
func (r *NameResolver) Reset() {
	r.previous = ""
	r.resolved = false
}
