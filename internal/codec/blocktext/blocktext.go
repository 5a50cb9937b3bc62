// Package blocktext converts between structured bestiary records and the
// line-oriented text format shown in the creature editor. The round trip is
// best-effort, not strictly lossless: a description containing a blank line
// decodes as two blocks, and hand-edited line breaks may shift the block
// split. That is accepted editor behavior, not a bug.
package blocktext

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Block is one named text block (a trait, action, reaction, etc.).
type Block struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EncodeBlocks renders blocks as blank-line separated paragraphs. When a
// block has both a name and a description the name is the first line of
// its paragraph.
func EncodeBlocks(blocks []Block) string {
	paragraphs := make([]string, 0, len(blocks))
	for _, b := range blocks {
		name := strings.TrimSpace(b.Name)
		desc := strings.TrimSpace(b.Description)

		switch {
		case name != "" && desc != "":
			paragraphs = append(paragraphs, name+"\n"+desc)
		case name != "":
			paragraphs = append(paragraphs, name)
		case desc != "":
			paragraphs = append(paragraphs, desc)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// DecodeBlocks splits text into blank-line delimited paragraphs. A
// single-line paragraph is a bare description; in a multi-line paragraph
// the first line is the name (trailing colon or dash punctuation stripped)
// and the rest is the description. Paragraphs that decode to an empty
// block are dropped.
func DecodeBlocks(text string) []Block {
	var blocks []Block
	for _, paragraph := range splitParagraphs(text) {
		lines := strings.Split(paragraph, "\n")
		for i := range lines {
			lines[i] = strings.TrimSpace(lines[i])
		}

		var b Block
		if len(lines) == 1 {
			b.Description = lines[0]
		} else {
			b.Name = strings.TrimRight(lines[0], ":-– ")
			b.Description = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}

		if b.Name == "" && b.Description == "" {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}

// EncodeKV renders a flat key/value map as "key: value" lines in sorted
// key order so the editor text is stable across saves.
func EncodeKV(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(formatScalar(values[k]))
	}
	return sb.String()
}

// DecodeKV parses "key: value" lines into a map, inferring booleans from
// the literals true/false and numbers from numeric text (a comma decimal
// separator is accepted and converted to a dot). Lines without a key or
// with an empty value are dropped.
func DecodeKV(text string) map[string]any {
	values := make(map[string]any)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		key, raw, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		raw = strings.TrimSpace(raw)
		if key == "" || raw == "" {
			continue
		}
		values[key] = parseScalar(raw)
	}
	return values
}

func parseScalar(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}

	numeric := strings.ReplaceAll(raw, ",", ".")
	if i, err := strconv.ParseInt(numeric, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(numeric, 64); err == nil {
		return f
	}

	return raw
}

func formatScalar(v any) string {
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
