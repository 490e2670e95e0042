package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// splitFrontMatter separates a YAML front-matter block from the body.
// The header keys are lowercased and every value is flattened to a
// string. Malformed or missing front matter is not an error: the header
// comes back empty and the whole input is treated as body.
func splitFrontMatter(raw []byte) (map[string]string, string) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")

	trimmed := strings.TrimLeft(text, "\n \t")
	if !strings.HasPrefix(trimmed, frontMatterFence+"\n") {
		return map[string]string{}, strings.TrimSpace(text)
	}

	rest := strings.TrimPrefix(trimmed, frontMatterFence+"\n")
	idx := strings.Index(rest, "\n"+frontMatterFence)
	if idx < 0 {
		return map[string]string{}, strings.TrimSpace(text)
	}

	headerText := rest[:idx]
	body := rest[idx+len("\n"+frontMatterFence):]
	body = strings.TrimPrefix(body, frontMatterFence) // tolerate longer fences
	body = strings.TrimSpace(body)

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(headerText), &parsed); err != nil {
		return map[string]string{}, strings.TrimSpace(text)
	}

	header := make(map[string]string, len(parsed))
	for k, v := range parsed {
		header[strings.ToLower(strings.TrimSpace(k))] = flattenValue(v)
	}
	return header, body
}

// flattenValue renders a YAML value as a single string. Lists join with
// commas so fields like "authors" stay usable as plain text.
func flattenValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := flattenValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
