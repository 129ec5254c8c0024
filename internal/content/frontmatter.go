package content

import (
	"regexp"
	"strings"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n(.*)$`)

// Frontmatter holds the key/value preamble of a markdown document. Values are
// string, bool or []string.
type Frontmatter map[string]any

// ParseFrontmatter splits a document into its frontmatter and markdown body.
// Documents without a well-formed block yield an empty map and the original text.
func ParseFrontmatter(text string) (Frontmatter, string) {
	m := frontmatterPattern.FindStringSubmatch(text)
	if m == nil {
		return Frontmatter{}, text
	}
	meta := Frontmatter{}
	for _, line := range strings.Split(m[1], "\n") {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			continue
		}
		meta[key] = parseValue(strings.TrimSpace(line[idx+1:]))
	}
	return meta, m[2]
}

func parseValue(v string) any {
	v = unquote(v)
	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		items := strings.Split(v[1:len(v)-1], ",")
		out := make([]string, 0, len(items))
		for _, item := range items {
			item = strings.NewReplacer(`"`, "", `'`, "").Replace(strings.TrimSpace(item))
			if item == "" {
				continue
			}
			out = append(out, item)
		}
		return out
	}
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

func unquote(v string) string {
	if v == "" {
		return v
	}
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(v, q) && strings.HasSuffix(v, q) {
			if len(v) < 2 {
				return ""
			}
			return v[1 : len(v)-1]
		}
	}
	return v
}

// String returns the value under key when it is a string.
func (f Frontmatter) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Bool returns the value under key when it is a bool.
func (f Frontmatter) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// Strings returns a list value. A plain string is treated as a one-element list.
func (f Frontmatter) Strings(key string) []string {
	switch v := f[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// Has reports whether key is present.
func (f Frontmatter) Has(key string) bool {
	_, ok := f[key]
	return ok
}
