package markdown

import "strings"

// ManagedBlock is a region of a note delimited by two marker lines that the
// exporter owns. Text outside the markers belongs to the user.
type ManagedBlock struct {
	Start string
	End   string
}

// Apply replaces the block's content in body, appending the block when the
// markers are absent.
func (b ManagedBlock) Apply(body, content string) string {
	block := b.Start + "\n" + strings.TrimRight(content, "\n") + "\n" + b.End

	start := strings.Index(body, b.Start)
	if start >= 0 {
		if end := strings.Index(body[start:], b.End); end >= 0 {
			end += start + len(b.End)
			return body[:start] + block + body[end:]
		}
	}

	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}

// Extract returns the content between the markers, if present.
func (b ManagedBlock) Extract(body string) (string, bool) {
	start := strings.Index(body, b.Start)
	if start < 0 {
		return "", false
	}
	inner := body[start+len(b.Start):]
	end := strings.Index(inner, b.End)
	if end < 0 {
		return "", false
	}
	return strings.Trim(inner[:end], "\n"), true
}
