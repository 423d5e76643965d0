// Package markdown reads and writes Obsidian-style notes: a YAML frontmatter
// header followed by a markdown body.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Note is a parsed markdown file.
type Note struct {
	Meta map[string]any
	Body string
}

// ParseNote splits content into frontmatter and body. Content without a
// leading fence is all body.
func ParseNote(content string) (Note, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence) {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := content[len(fence):]
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return Note{}, fmt.Errorf("parse frontmatter: closing fence not found")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return Note{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	return Note{Meta: meta, Body: rest[end+1+len(fence):]}, nil
}

// Render writes the note back out. Keys are emitted in yaml.v3 map order
// (sorted), so output is stable across runs.
func (n Note) Render() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(fence)
	meta := n.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("render frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("render frontmatter: %w", err)
	}
	buf.WriteString(fence)
	if !strings.HasPrefix(n.Body, "\n") {
		buf.WriteByte('\n')
	}
	buf.WriteString(n.Body)
	return buf.String(), nil
}
