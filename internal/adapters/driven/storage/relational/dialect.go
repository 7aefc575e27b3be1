package relational

import (
	"strconv"
	"strings"
)

// Dialect selects the bind placeholder style of the driver.
type Dialect int

// Supported dialects.
const (
	// Question uses ? placeholders (SQLite).
	Question Dialect = iota

	// Dollar uses $1, $2... placeholders (PostgreSQL).
	Dollar
)

// Rebind rewrites ? placeholders for the dialect. Queries must not contain
// literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != Dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
