package skin

import (
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// sectionReader reads options from one skin section, expanding #Variable#
// references from the skin's [Variables] section.
type sectionReader struct {
	sec  *ini.Section
	vars map[string]string
}

func (r sectionReader) IsDefined(key string) bool {
	return r.sec.HasKey(key)
}

func (r sectionReader) ReadString(key, def string) string {
	if !r.sec.HasKey(key) {
		return def
	}
	return expandVariables(r.sec.Key(key).String(), r.vars)
}

func (r sectionReader) ReadInt(key string, def int) int {
	if !r.sec.HasKey(key) {
		return def
	}
	s := strings.TrimSpace(expandVariables(r.sec.Key(key).String(), r.vars))
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

// expandVariables replaces #Name# with the value of variable name. Unknown
// variables are kept as written.
func expandVariables(s string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(s, "#") {
		return s
	}
	var b strings.Builder
	for {
		start := strings.IndexByte(s, '#')
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start+1:], '#')
		if end < 0 {
			break
		}
		end += start + 1
		if v, ok := vars[strings.ToLower(s[start+1:end])]; ok {
			b.WriteString(s[:start])
			b.WriteString(v)
			s = s[end+1:]
			continue
		}
		b.WriteString(s[:end])
		s = s[end:]
	}
	b.WriteString(s)
	return b.String()
}
