package draft

import (
	"slices"
	"strings"
)

// Fill replaces {name} placeholders in template with values from vars.
// Placeholders with no matching key are left verbatim so a missing value is
// visible in the output instead of being guessed. "{{" and "}}" produce
// literal braces. Unbalanced braces are copied through unchanged.
func Fill(template string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i += 2
		case c == '{':
			name, end, ok := placeholderAt(template, i)
			if !ok {
				b.WriteByte(c)
				i++
				continue
			}
			if value, found := vars[name]; found {
				b.WriteString(value)
			} else {
				b.WriteString(template[i:end])
			}
			i = end
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String()
}

// Placeholders returns the distinct placeholder names in template, in order
// of first appearance
func Placeholders(template string) []string {
	var names []string
	for i := 0; i < len(template); {
		c := template[i]
		if (c == '{' || c == '}') && i+1 < len(template) && template[i+1] == c {
			i += 2
			continue
		}
		if c == '{' {
			if name, end, ok := placeholderAt(template, i); ok {
				if !slices.Contains(names, name) {
					names = append(names, name)
				}
				i = end
				continue
			}
		}
		i++
	}
	return names
}

// Missing returns the placeholders in template that vars does not supply
func Missing(template string, vars map[string]string) []string {
	var missing []string
	for _, name := range Placeholders(template) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// placeholderAt parses "{name}" starting at template[start]. It returns the
// name and the index just past the closing brace.
func placeholderAt(template string, start int) (string, int, bool) {
	end := strings.IndexByte(template[start+1:], '}')
	if end < 0 {
		return "", 0, false
	}
	name := template[start+1 : start+1+end]
	if !validName(name) {
		return "", 0, false
	}
	return name, start + end + 2, true
}

// validName accepts letters, digits, '_', '-' and '.'
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}
