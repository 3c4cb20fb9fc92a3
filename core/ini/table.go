package ini

import "slices"

// Section is a single header with its body lines.
type Section struct {
	// Header is the first line of the block, verbatim.
	Header string
	// Lines are the body lines in file order.
	Lines []string
}

// Table is an ordered header -> body mapping.
// The zero value is not usable; create tables with NewTable or Parse.
type Table struct {
	order  []string
	bodies map[string][]string
	crlf   bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{bodies: make(map[string][]string)}
}

// Len returns the number of sections.
func (t *Table) Len() int {
	return len(t.order)
}

// Headers returns the section headers in table order.
func (t *Table) Headers() []string {
	return slices.Clone(t.order)
}

// Has reports whether a section with the given header exists.
func (t *Table) Has(header string) bool {
	_, ok := t.bodies[header]
	return ok
}

// Get returns a copy of the body lines for header.
func (t *Table) Get(header string) ([]string, bool) {
	lines, ok := t.bodies[header]
	if !ok {
		return nil, false
	}
	return slices.Clone(lines), true
}

// Set replaces the body of header. A new header is appended at the end of
// the table; an existing one keeps its position.
//
// Body lines must not be empty strings: an empty line is a section separator
// in the file format and would split the section on the next Read.
func (t *Table) Set(header string, lines []string) {
	if _, ok := t.bodies[header]; !ok {
		t.order = append(t.order, header)
	}
	t.bodies[header] = slices.Clone(lines)
}

// Delete removes header and reports whether it was present.
func (t *Table) Delete(header string) bool {
	if _, ok := t.bodies[header]; !ok {
		return false
	}
	delete(t.bodies, header)
	t.order = slices.DeleteFunc(t.order, func(h string) bool { return h == header })
	return true
}

// Sections returns a copy of all sections in table order.
func (t *Table) Sections() []Section {
	out := make([]Section, 0, len(t.order))
	for _, h := range t.order {
		out = append(out, Section{Header: h, Lines: slices.Clone(t.bodies[h])})
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		order:  slices.Clone(t.order),
		bodies: make(map[string][]string, len(t.bodies)),
		crlf:   t.crlf,
	}
	for h, lines := range t.bodies {
		c.bodies[h] = slices.Clone(lines)
	}
	return c
}

// Equal reports whether both tables hold the same headers in the same order
// with identical bodies. Line endings are not compared.
func (t *Table) Equal(o *Table) bool {
	if !slices.Equal(t.order, o.order) {
		return false
	}
	for _, h := range t.order {
		if !slices.Equal(t.bodies[h], o.bodies[h]) {
			return false
		}
	}
	return true
}
