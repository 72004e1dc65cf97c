// Package table scans delimited text feeds (spreadsheet CSV exports) into
// rows of string fields.
//
// The scanner is line based and best effort: it never fails, blank lines are
// skipped, and a line that ends inside an open quote produces no row.
package table

import (
	"fmt"
	"strings"
)

type Parser struct {
	Delim rune
	Quote rune
}

// Option configures a Parser.
type Option func(*Parser)

func WithDelimiter(d rune) Option { return func(p *Parser) { p.Delim = d } }

func WithQuote(q rune) Option { return func(p *Parser) { p.Quote = q } }

func NewParser(opts ...Option) *Parser {
	p := &Parser{Delim: ',', Quote: '"'}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse splits text with the default comma delimiter and double quotes.
func Parse(text string, opts ...Option) [][]string {
	return NewParser(opts...).Parse(text)
}

func (p *Parser) Parse(text string) [][]string {
	rows := [][]string{}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if fields, ok := p.scanLine(line); ok {
			rows = append(rows, fields)
		}
	}
	return rows
}

func (p *Parser) scanLine(line string) ([]string, bool) {
	fields := []string{}
	var cur strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == p.Quote:
			if inQuotes && i+1 < len(runes) && runes[i+1] == p.Quote {
				cur.WriteRune(p.Quote)
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == p.Delim && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	if inQuotes {
		return nil, false
	}
	return append(fields, cur.String()), true
}

// MissingColumnError reports required header columns absent from a feed.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Table is a parsed feed split into its header and data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// FromRows treats the first row as the header. Fewer than one row yields an
// empty table.
func FromRows(rows [][]string) *Table {
	t := &Table{}
	if len(rows) == 0 {
		return t
	}
	t.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Header[i] = strings.TrimSpace(h)
	}
	t.Rows = rows[1:]
	return t
}

// Columns locates the named columns in the header, in any order. Extra
// columns are ignored; any missing name fails the lookup.
func (t *Table) Columns(names ...string) (Columns, error) {
	cols := Columns{}
	missing := []string{}
	for _, name := range names {
		idx := -1
		for i, h := range t.Header {
			if h == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}
	return cols, nil
}

// Columns maps a column name to its index in a row.
type Columns map[string]int

// Fits reports whether row is long enough to hold every located column.
func (c Columns) Fits(row []string) bool {
	for _, idx := range c {
		if idx >= len(row) {
			return false
		}
	}
	return true
}

// Get returns the trimmed field for the column, or "" when the row is short.
func (c Columns) Get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
