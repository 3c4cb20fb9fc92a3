package ini

import (
	"regexp"
	"strings"
)

// blockSeparator matches the blank-line runs between sections.
var blockSeparator = regexp.MustCompile(`\n\n+`)

// Parse builds a Table from raw file content.
//
// CRLF input is read as LF and remembered, so Format writes CRLF back.
// Leading and trailing blank lines are dropped. A repeated header keeps the
// position of its first occurrence and the body of its last.
func Parse(data []byte) *Table {
	t := NewTable()

	content := string(data)
	if strings.Contains(content, "\r\n") {
		t.crlf = true
		content = strings.ReplaceAll(content, "\r\n", "\n")
	}

	content = strings.Trim(content, "\n")
	if content == "" {
		return t
	}

	for _, block := range blockSeparator.Split(content, -1) {
		lines := strings.Split(block, "\n")
		t.Set(lines[0], lines[1:])
	}
	return t
}

// Format serializes the table: each section is its header followed by its
// body lines, every line newline-terminated, with one blank line between
// sections.
func Format(t *Table) []byte {
	newline := "\n"
	if t.crlf {
		newline = "\r\n"
	}

	var b strings.Builder
	for i, header := range t.order {
		if i > 0 {
			b.WriteString(newline)
		}
		b.WriteString(header)
		b.WriteString(newline)
		for _, line := range t.bodies[header] {
			b.WriteString(line)
			b.WriteString(newline)
		}
	}
	return []byte(b.String())
}
